package ports

import (
	"context"
	"time"

	"votehub/contexts/elections/vote-pipeline/domain/entities"
)

// InsertOutcome is the typed result of a ledger insert. The adapter owns the
// translation from driver errors; callers never inspect error strings.
type InsertOutcome int

const (
	InsertUnknown InsertOutcome = iota
	Inserted
	InsertConflictDuplicate
	InsertTransient
)

// VoteLedger is the durable, append-only vote store. Its unique constraint
// on (poll_id, email) is the final authority on deduplication.
type VoteLedger interface {
	// InsertVote writes one vote transactionally. A unique-constraint
	// violation yields (InsertConflictDuplicate, nil); infrastructure
	// failures yield (InsertTransient, err).
	InsertVote(ctx context.Context, vote entities.Vote) (InsertOutcome, error)
	HasVoted(ctx context.Context, pollID string, email string) (bool, error)
	// CountByCandidate groups the ledger by candidate. An empty pollID
	// scans the whole ledger (legacy single-poll view).
	CountByCandidate(ctx context.Context, pollID string) (map[string]int64, error)
}

// CandidateProjection is the read-model slice of a candidate the pipeline
// needs; the poll-service module owns the full entity.
type CandidateProjection struct {
	CandidateID string
	PollID      string
	Name        string
}

type CandidateDirectory interface {
	GetCandidate(ctx context.Context, candidateID string) (CandidateProjection, error)
	ListCandidatesByPoll(ctx context.Context, pollID string) ([]CandidateProjection, error)
	ListCandidates(ctx context.Context) ([]CandidateProjection, error)
}

type PollProjection struct {
	PollID   string
	Title    string
	IsActive bool
}

type PollDirectory interface {
	GetPoll(ctx context.Context, pollID string) (PollProjection, error)
	// GetActivePoll resolves the legacy single-poll flow to the most
	// recently created active poll.
	GetActivePoll(ctx context.Context) (PollProjection, error)
}

// DuplicateGuard is the fast-path voted-set pre-screen. Advisory only: its
// membership may diverge from the ledger after a cache flush, and two
// concurrent submissions can both pass Check before either Marks. The
// ledger constraint closes both windows.
type DuplicateGuard interface {
	Check(ctx context.Context, pollID string, email string) (bool, error)
	Mark(ctx context.Context, pollID string, email string) error
	// Unmark rolls a Mark back when the enqueue that followed it failed.
	Unmark(ctx context.Context, pollID string, email string) error
}

// StatusStore keeps the short-lived submission records behind the status
// endpoint, keyed by tracking id with a secondary per-email status key.
type StatusStore interface {
	PutSubmission(ctx context.Context, submission entities.VoteSubmission) error
	GetByTrackingID(ctx context.Context, trackingID string) (entities.VoteSubmission, bool, error)
	GetEmailStatus(ctx context.Context, email string) (entities.SubmissionStatus, bool, error)
	// DeleteSubmission is the rollback hook for a record written before the
	// vote was accepted into the queue.
	DeleteSubmission(ctx context.Context, trackingID string, email string) error
}

// ResultsCache holds derived per-poll snapshots with a short TTL. Keys embed
// a per-poll generation number: Invalidate bumps the generation so a refresh
// that captured the previous one lands on an orphaned key.
type ResultsCache interface {
	Generation(ctx context.Context, pollID string) (uint64, error)
	Get(ctx context.Context, pollID string) (entities.ResultsSnapshot, bool, error)
	Put(ctx context.Context, pollID string, generation uint64, snapshot entities.ResultsSnapshot) error
	Invalidate(ctx context.Context, pollID string) error
}

type VoteQueue interface {
	EnqueueVote(ctx context.Context, task entities.VoteTask) error
	Depth(ctx context.Context) (int, error)
}

// StatsCounter tracks the rough processed-today figure exposed by the queue
// stats endpoint. Observability only, not correctness.
type StatsCounter interface {
	IncrementProcessed(ctx context.Context, now time.Time) error
	ProcessedToday(ctx context.Context, now time.Time) (int64, error)
}

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}
