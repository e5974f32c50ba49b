package memoryadapter

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"votehub/contexts/elections/poll-service/domain/entities"
	domainerrors "votehub/contexts/elections/poll-service/domain/errors"
	"votehub/contexts/elections/poll-service/ports"
)

// Store backs every poll-service port in memory for tests and local runs.
type Store struct {
	mu         sync.RWMutex
	polls      map[string]entities.Poll
	candidates map[string]entities.Candidate
	votes      map[string]map[string]int64
	listing    []entities.Candidate
	listingOK  bool

	now    time.Time
	nextID int
}

func NewStore() *Store {
	return &Store{
		polls:      make(map[string]entities.Poll),
		candidates: make(map[string]entities.Candidate),
		votes:      make(map[string]map[string]int64),
		now:        time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}
}

func (s *Store) CreatePollWithCandidates(_ context.Context, poll entities.Poll, candidates []entities.Candidate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.polls[poll.PollID] = poll
	for _, candidate := range candidates {
		s.candidates[candidate.CandidateID] = candidate
	}
	return nil
}

func (s *Store) GetPoll(_ context.Context, pollID string) (entities.Poll, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	poll, exists := s.polls[pollID]
	if !exists {
		return entities.Poll{}, domainerrors.ErrPollNotFound
	}
	return poll, nil
}

func (s *Store) ListPolls(_ context.Context) ([]entities.Poll, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	polls := make([]entities.Poll, 0, len(s.polls))
	for _, poll := range s.polls {
		polls = append(polls, poll)
	}
	sort.Slice(polls, func(i, j int) bool {
		if !polls[i].CreatedAt.Equal(polls[j].CreatedAt) {
			return polls[i].CreatedAt.After(polls[j].CreatedAt)
		}
		return polls[i].PollID < polls[j].PollID
	})
	return polls, nil
}

func (s *Store) HasInFlightPoll(_ context.Context, creatorID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, poll := range s.polls {
		if poll.CreatedBy == creatorID && poll.InFlight() {
			return true, nil
		}
	}
	return false, nil
}

func (s *Store) SetPollState(_ context.Context, pollID string, isActive bool, wasStarted bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	poll, exists := s.polls[pollID]
	if !exists {
		return domainerrors.ErrPollNotFound
	}
	poll.IsActive = isActive
	poll.WasStarted = wasStarted
	s.polls[pollID] = poll
	return nil
}

func (s *Store) DeletePoll(_ context.Context, pollID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.polls[pollID]; !exists {
		return domainerrors.ErrPollNotFound
	}
	delete(s.polls, pollID)
	for id, candidate := range s.candidates {
		if candidate.PollID == pollID {
			delete(s.candidates, id)
		}
	}
	delete(s.votes, pollID)
	return nil
}

func (s *Store) AddCandidate(_ context.Context, candidate entities.Candidate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.candidates[candidate.CandidateID] = candidate
	return nil
}

func (s *Store) UpdateCandidate(_ context.Context, candidate entities.Candidate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.candidates[candidate.CandidateID]; !exists {
		return domainerrors.ErrCandidateNotFound
	}
	s.candidates[candidate.CandidateID] = candidate
	return nil
}

func (s *Store) RemoveCandidate(_ context.Context, candidateID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.candidates[candidateID]; !exists {
		return domainerrors.ErrCandidateNotFound
	}
	delete(s.candidates, candidateID)
	return nil
}

func (s *Store) GetCandidate(_ context.Context, candidateID string) (entities.Candidate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	candidate, exists := s.candidates[candidateID]
	if !exists {
		return entities.Candidate{}, domainerrors.ErrCandidateNotFound
	}
	return candidate, nil
}

func (s *Store) ListCandidatesByPoll(_ context.Context, pollID string) ([]entities.Candidate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var items []entities.Candidate
	for _, candidate := range s.candidates {
		if candidate.PollID == pollID {
			items = append(items, candidate)
		}
	}
	sortCandidates(items)
	return items, nil
}

func (s *Store) ListCandidates(_ context.Context) ([]entities.Candidate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]entities.Candidate, 0, len(s.candidates))
	for _, candidate := range s.candidates {
		items = append(items, candidate)
	}
	sortCandidates(items)
	return items, nil
}

// SeedVotes installs ledger tallies for the detail view.
func (s *Store) SeedVotes(pollID string, counts map[string]int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := make(map[string]int64, len(counts))
	for id, votes := range counts {
		copied[id] = votes
	}
	s.votes[pollID] = copied
}

func (s *Store) CountByCandidate(_ context.Context, pollID string) (map[string]int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	counts := make(map[string]int64)
	for id, votes := range s.votes[pollID] {
		counts[id] = votes
	}
	return counts, nil
}

func (s *Store) Invalidate(_ context.Context, _ string) error {
	return nil
}

func (s *Store) GetListing(_ context.Context) ([]entities.Candidate, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.listingOK {
		return nil, false, nil
	}
	return append([]entities.Candidate(nil), s.listing...), true, nil
}

func (s *Store) PutListing(_ context.Context, candidates []entities.Candidate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listing = append([]entities.Candidate(nil), candidates...)
	s.listingOK = true
	return nil
}

func (s *Store) InvalidateListing(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listing = nil
	s.listingOK = false
	return nil
}

func (s *Store) Now() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.now
}

func (s *Store) Advance(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = s.now.Add(d)
}

func (s *Store) NewID(_ context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	return fmt.Sprintf("poll-svc-%06d", s.nextID), nil
}

func sortCandidates(items []entities.Candidate) {
	sort.Slice(items, func(i, j int) bool {
		if !items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].CreatedAt.Before(items[j].CreatedAt)
		}
		return items[i].CandidateID < items[j].CandidateID
	})
}

var _ ports.PollRepository = (*Store)(nil)
var _ ports.CandidateRepository = (*Store)(nil)
var _ ports.VoteCounter = (*Store)(nil)
var _ ports.ResultsInvalidator = (*Store)(nil)
var _ ports.ListingCache = (*Store)(nil)
var _ ports.Clock = (*Store)(nil)
var _ ports.IDGenerator = (*Store)(nil)
