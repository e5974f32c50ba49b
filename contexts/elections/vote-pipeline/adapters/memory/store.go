package memoryadapter

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"votehub/contexts/elections/vote-pipeline/domain/entities"
	domainerrors "votehub/contexts/elections/vote-pipeline/domain/errors"
	"votehub/contexts/elections/vote-pipeline/ports"
)

// Store is the in-memory ledger and directory used by tests and local runs.
// It enforces the same (poll_id, email) uniqueness the database does.
type Store struct {
	mu         sync.RWMutex
	votes      []entities.Vote
	voted      map[string]struct{}
	candidates map[string]ports.CandidateProjection
	polls      map[string]ports.PollProjection
}

func NewStore() *Store {
	return &Store{
		voted:      make(map[string]struct{}),
		candidates: make(map[string]ports.CandidateProjection),
		polls:      make(map[string]ports.PollProjection),
	}
}

func (s *Store) SeedCandidate(candidate ports.CandidateProjection) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.candidates[candidate.CandidateID] = candidate
}

func (s *Store) SeedPoll(poll ports.PollProjection) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.polls[poll.PollID] = poll
}

func (s *Store) InsertVote(_ context.Context, vote entities.Vote) (ports.InsertOutcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := uniquenessKey(vote.PollID, vote.Email)
	if _, exists := s.voted[key]; exists {
		return ports.InsertConflictDuplicate, nil
	}
	s.voted[key] = struct{}{}
	s.votes = append(s.votes, vote)
	return ports.Inserted, nil
}

func (s *Store) HasVoted(_ context.Context, pollID string, email string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, exists := s.voted[uniquenessKey(pollID, email)]
	return exists, nil
}

func (s *Store) CountByCandidate(_ context.Context, pollID string) (map[string]int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	counts := make(map[string]int64)
	for _, vote := range s.votes {
		if pollID != "" && vote.PollID != pollID {
			continue
		}
		counts[vote.CandidateID]++
	}
	return counts, nil
}

func (s *Store) VoteCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.votes)
}

func (s *Store) GetCandidate(_ context.Context, candidateID string) (ports.CandidateProjection, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	candidate, exists := s.candidates[candidateID]
	if !exists {
		return ports.CandidateProjection{}, domainerrors.ErrCandidateNotFound
	}
	return candidate, nil
}

func (s *Store) ListCandidatesByPoll(_ context.Context, pollID string) ([]ports.CandidateProjection, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var items []ports.CandidateProjection
	for _, candidate := range s.candidates {
		if candidate.PollID == pollID {
			items = append(items, candidate)
		}
	}
	sortProjections(items)
	return items, nil
}

func (s *Store) ListCandidates(_ context.Context) ([]ports.CandidateProjection, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]ports.CandidateProjection, 0, len(s.candidates))
	for _, candidate := range s.candidates {
		items = append(items, candidate)
	}
	sortProjections(items)
	return items, nil
}

func (s *Store) GetPoll(_ context.Context, pollID string) (ports.PollProjection, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	poll, exists := s.polls[pollID]
	if !exists {
		return ports.PollProjection{}, domainerrors.ErrPollNotFound
	}
	return poll, nil
}

func (s *Store) GetActivePoll(_ context.Context) (ports.PollProjection, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, poll := range s.polls {
		if poll.IsActive {
			return poll, nil
		}
	}
	return ports.PollProjection{}, domainerrors.ErrNoActivePoll
}

func uniquenessKey(pollID string, email string) string {
	return pollID + "|" + strings.ToLower(strings.TrimSpace(email))
}

func sortProjections(items []ports.CandidateProjection) {
	sort.Slice(items, func(i, j int) bool {
		return items[i].CandidateID < items[j].CandidateID
	})
}

// FixedClock returns a constant instant, advanceable from tests.
type FixedClock struct {
	mu  sync.Mutex
	now time.Time
}

func NewFixedClock(now time.Time) *FixedClock {
	return &FixedClock{now: now}
}

func (c *FixedClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *FixedClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// SequenceIDGenerator hands out deterministic ids for tests.
type SequenceIDGenerator struct {
	mu   sync.Mutex
	next int
}

func (g *SequenceIDGenerator) NewID(_ context.Context) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.next++
	return fmt.Sprintf("00000000-0000-0000-0000-%012d", g.next), nil
}

var _ ports.VoteLedger = (*Store)(nil)
var _ ports.CandidateDirectory = (*Store)(nil)
var _ ports.PollDirectory = (*Store)(nil)
var _ ports.Clock = (*FixedClock)(nil)
var _ ports.IDGenerator = (*SequenceIDGenerator)(nil)
