package entities

import "time"

// Vote is an immutable ledger row linking an email to a chosen candidate
// within a poll. There is no update or undo; at most one vote per
// (poll, email) pair ever becomes durable.
type Vote struct {
	VoteID      string
	PollID      string
	CandidateID string
	Email       string
	VotedAt     time.Time
}

type SubmissionStatus string

const (
	SubmissionStatusQueued    SubmissionStatus = "queued"
	SubmissionStatusCompleted SubmissionStatus = "completed"
	SubmissionStatusFailed    SubmissionStatus = "failed"
)

// VoteSubmission is the cache-resident tracking record a client can poll
// while its vote moves through the queue. Best effort: entries expire after
// a bounded TTL and are never persisted durably.
type VoteSubmission struct {
	TrackingID  string
	PollID      string
	CandidateID string
	Email       string
	Status      SubmissionStatus
	QueuedAt    time.Time
}

// VoteTask is the unit of work carried by the queue between the intake
// pipeline and the recorder workers.
type VoteTask struct {
	TrackingID  string
	PollID      string
	CandidateID string
	Email       string
	EnqueuedAt  time.Time
}

// CandidateResult is one row of an aggregated results view.
type CandidateResult struct {
	CandidateID string
	Name        string
	Votes       int64
	Percentage  float64
}

// ResultsSnapshot is a derived, never authoritative per-poll tally.
// An empty PollID denotes the legacy single-poll (global) view.
type ResultsSnapshot struct {
	PollID     string
	TotalVotes int64
	Candidates []CandidateResult
	ComputedAt time.Time
}

type QueueStats struct {
	QueueLength    int
	ProcessedToday int64
	QueueWorkers   int
}
