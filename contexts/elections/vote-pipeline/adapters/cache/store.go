package cacheadapter

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"votehub/contexts/elections/vote-pipeline/domain/entities"
	"votehub/contexts/elections/vote-pipeline/ports"
	platformcache "votehub/internal/platform/cache"
)

const (
	defaultVotedSetTTL = 30 * 24 * time.Hour
	defaultStatusTTL   = time.Hour
	defaultResultsTTL  = 30 * time.Second
	statsTTL           = 48 * time.Hour

	legacyResultsKey = "latest"
)

// Store implements the guard, status, results-cache, and stats ports over
// the shared cache client. All keys and TTLs live here; nothing else in the
// module knows the cache layout.
type Store struct {
	cache *platformcache.Client

	VotedSetTTL time.Duration
	StatusTTL   time.Duration
	ResultsTTL  time.Duration
}

func NewStore(client *platformcache.Client) *Store {
	return &Store{
		cache:       client,
		VotedSetTTL: defaultVotedSetTTL,
		StatusTTL:   defaultStatusTTL,
		ResultsTTL:  defaultResultsTTL,
	}
}

func (s *Store) Check(_ context.Context, pollID string, email string) (bool, error) {
	return s.cache.SIsMember(votedSetKey(pollID), normalizeMember(email)), nil
}

func (s *Store) Mark(_ context.Context, pollID string, email string) error {
	s.cache.SAdd(votedSetKey(pollID), normalizeMember(email), s.VotedSetTTL)
	return nil
}

func (s *Store) Unmark(_ context.Context, pollID string, email string) error {
	s.cache.SRem(votedSetKey(pollID), normalizeMember(email), s.VotedSetTTL)
	return nil
}

func (s *Store) PutSubmission(_ context.Context, submission entities.VoteSubmission) error {
	payload, err := json.Marshal(submission)
	if err != nil {
		return err
	}
	s.cache.Set(trackingKey(submission.TrackingID), payload, s.StatusTTL)
	s.cache.Set(emailStatusKey(submission.Email), []byte(submission.Status), s.StatusTTL)
	return nil
}

func (s *Store) GetByTrackingID(_ context.Context, trackingID string) (entities.VoteSubmission, bool, error) {
	payload, ok := s.cache.Get(trackingKey(trackingID))
	if !ok {
		return entities.VoteSubmission{}, false, nil
	}
	var submission entities.VoteSubmission
	if err := json.Unmarshal(payload, &submission); err != nil {
		return entities.VoteSubmission{}, false, err
	}
	return submission, true, nil
}

func (s *Store) DeleteSubmission(_ context.Context, trackingID string, email string) error {
	s.cache.Delete(trackingKey(trackingID))
	s.cache.Delete(emailStatusKey(normalizeMember(email)))
	return nil
}

func (s *Store) GetEmailStatus(_ context.Context, email string) (entities.SubmissionStatus, bool, error) {
	payload, ok := s.cache.Get(emailStatusKey(normalizeMember(email)))
	if !ok {
		return "", false, nil
	}
	return entities.SubmissionStatus(payload), true, nil
}

func (s *Store) Generation(_ context.Context, pollID string) (uint64, error) {
	return s.cache.Generation(resultsGenKey(pollID)), nil
}

func (s *Store) Get(ctx context.Context, pollID string) (entities.ResultsSnapshot, bool, error) {
	generation, err := s.Generation(ctx, pollID)
	if err != nil {
		return entities.ResultsSnapshot{}, false, err
	}
	payload, ok := s.cache.Get(resultsKey(pollID, generation))
	if !ok {
		return entities.ResultsSnapshot{}, false, nil
	}
	var snapshot entities.ResultsSnapshot
	if err := json.Unmarshal(payload, &snapshot); err != nil {
		return entities.ResultsSnapshot{}, false, err
	}
	return snapshot, true, nil
}

// Put writes the snapshot under the generation the caller captured before
// recomputing. When a candidate change bumped the generation in between, the
// write lands on an orphaned key that no reader consults.
func (s *Store) Put(_ context.Context, pollID string, generation uint64, snapshot entities.ResultsSnapshot) error {
	payload, err := json.Marshal(snapshot)
	if err != nil {
		return err
	}
	s.cache.Set(resultsKey(pollID, generation), payload, s.ResultsTTL)
	return nil
}

func (s *Store) Invalidate(_ context.Context, pollID string) error {
	s.cache.BumpGeneration(resultsGenKey(pollID))
	return nil
}

func (s *Store) IncrementProcessed(_ context.Context, now time.Time) error {
	s.cache.Increment(statsKey(now), 1, statsTTL)
	return nil
}

func (s *Store) ProcessedToday(_ context.Context, now time.Time) (int64, error) {
	return s.cache.CounterValue(statsKey(now)), nil
}

func votedSetKey(pollID string) string {
	return "votes:guard:" + pollID
}

func trackingKey(trackingID string) string {
	return "votes:submission:" + trackingID
}

func emailStatusKey(email string) string {
	return "votes:status:" + email
}

func resultsGenKey(pollID string) string {
	if pollID == "" {
		pollID = legacyResultsKey
	}
	return "results:gen:" + pollID
}

func resultsKey(pollID string, generation uint64) string {
	if pollID == "" {
		pollID = legacyResultsKey
	}
	return fmt.Sprintf("results:%s:%d", pollID, generation)
}

func statsKey(now time.Time) string {
	return "stats:votes:" + now.UTC().Format("2006-01-02")
}

func normalizeMember(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

var _ ports.DuplicateGuard = (*Store)(nil)
var _ ports.StatusStore = (*Store)(nil)
var _ ports.ResultsCache = (*Store)(nil)
var _ ports.StatsCounter = (*Store)(nil)
