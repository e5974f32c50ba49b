package entities

import "time"

// Poll is one voting event. A poll that has never been started
// (IsActive=false, WasStarted=false) is a draft; WasStarted is monotonic
// and stays true once the poll has been opened.
type Poll struct {
	PollID     string
	Title      string
	IsActive   bool
	WasStarted bool
	CreatedBy  string
	CreatedAt  time.Time
}

// InFlight reports whether the poll still blocks its creator from opening
// another one: it is either running or an unstarted draft.
func (p Poll) InFlight() bool {
	return p.IsActive || !p.WasStarted
}

type Candidate struct {
	CandidateID string
	PollID      string
	Name        string
	Description string
	PhotoURL    string
	CreatedAt   time.Time
}

// CandidateDraft is the caller-supplied candidate payload before ids and
// timestamps are assigned.
type CandidateDraft struct {
	Name        string
	Description string
	PhotoURL    string
}

// CandidateTally pairs a candidate with its current vote count for the poll
// detail view.
type CandidateTally struct {
	Candidate Candidate
	Votes     int64
}

type PollDetails struct {
	Poll       Poll
	Candidates []CandidateTally
	TotalVotes int64
}
