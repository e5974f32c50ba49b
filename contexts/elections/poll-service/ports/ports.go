package ports

import (
	"context"
	"time"

	"votehub/contexts/elections/poll-service/domain/entities"
)

// PollRepository is the durable poll store.
type PollRepository interface {
	// CreatePollWithCandidates persists the poll and its initial candidates
	// in one transaction; a partial poll must never be observable.
	CreatePollWithCandidates(ctx context.Context, poll entities.Poll, candidates []entities.Candidate) error
	GetPoll(ctx context.Context, pollID string) (entities.Poll, error)
	ListPolls(ctx context.Context) ([]entities.Poll, error)
	// HasInFlightPoll reports whether the creator already has a poll that is
	// active or an unstarted draft.
	HasInFlightPoll(ctx context.Context, creatorID string) (bool, error)
	SetPollState(ctx context.Context, pollID string, isActive bool, wasStarted bool) error
	// DeletePoll removes the poll and cascades its candidates and votes.
	DeletePoll(ctx context.Context, pollID string) error
}

type CandidateRepository interface {
	AddCandidate(ctx context.Context, candidate entities.Candidate) error
	UpdateCandidate(ctx context.Context, candidate entities.Candidate) error
	RemoveCandidate(ctx context.Context, candidateID string) error
	GetCandidate(ctx context.Context, candidateID string) (entities.Candidate, error)
	ListCandidatesByPoll(ctx context.Context, pollID string) ([]entities.Candidate, error)
	ListCandidates(ctx context.Context) ([]entities.Candidate, error)
}

// VoteCounter exposes the ledger tallies the poll detail view needs. The
// vote-pipeline repository satisfies it; this module never writes votes.
type VoteCounter interface {
	CountByCandidate(ctx context.Context, pollID string) (map[string]int64, error)
}

// ResultsInvalidator drops cached results snapshots after poll or candidate
// mutations. The pipeline's cache adapter satisfies it.
type ResultsInvalidator interface {
	Invalidate(ctx context.Context, pollID string) error
}

// ListingCache holds the short-lived all-candidates listing behind the
// public candidates endpoint.
type ListingCache interface {
	GetListing(ctx context.Context) ([]entities.Candidate, bool, error)
	PutListing(ctx context.Context, candidates []entities.Candidate) error
	InvalidateListing(ctx context.Context) error
}

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}
