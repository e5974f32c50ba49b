package http

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type SubmitVoteRequest struct {
	Email       string `json:"email"`
	CandidateID string `json:"candidate_id"`
}

type SubmitVoteResponse struct {
	Message    string `json:"message"`
	TrackingID string `json:"tracking_id"`
	PollID     string `json:"poll_id,omitempty"`
	Status     string `json:"status"`
}

type CandidateResultDTO struct {
	CandidateID string  `json:"candidate_id"`
	Name        string  `json:"name"`
	Votes       int64   `json:"votes"`
	Percentage  float64 `json:"percentage"`
}

type PollResultsResponse struct {
	PollID     string               `json:"poll_id"`
	TotalVotes int64                `json:"total_votes"`
	Results    []CandidateResultDTO `json:"results"`
	Cached     bool                 `json:"cached"`
	ComputedAt string               `json:"computed_at"`
}

// LegacyResultsResponse is the legacy single-poll results shape: a flat
// candidate/votes list plus percentages.
type LegacyResultsResponse struct {
	TotalVotes int64                `json:"total_votes"`
	Results    []CandidateResultDTO `json:"results"`
	Cached     bool                 `json:"cached"`
}

type VoteStatusResponse struct {
	TrackingID  string `json:"tracking_id,omitempty"`
	PollID      string `json:"poll_id,omitempty"`
	CandidateID string `json:"candidate_id,omitempty"`
	Email       string `json:"email,omitempty"`
	Status      string `json:"status"`
}

type QueueStatsResponse struct {
	QueueLength    int   `json:"queue_length"`
	ProcessedToday int64 `json:"processed_today"`
	QueueWorkers   int   `json:"queue_workers"`
}
