package http

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type CandidateInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	PhotoURL    string `json:"photo_url"`
}

type CreatePollRequest struct {
	Title      string           `json:"title"`
	Candidates []CandidateInput `json:"candidates"`
}

type PollDTO struct {
	PollID     string `json:"poll_id"`
	Title      string `json:"title"`
	IsActive   bool   `json:"is_active"`
	WasStarted bool   `json:"was_started"`
	CreatedBy  string `json:"created_by"`
	CreatedAt  string `json:"created_at"`
}

type CandidateDTO struct {
	CandidateID string `json:"candidate_id"`
	PollID      string `json:"poll_id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	PhotoURL    string `json:"photo_url,omitempty"`
	CreatedAt   string `json:"created_at"`
}

type CandidateTallyDTO struct {
	Candidate CandidateDTO `json:"candidate"`
	Votes     int64        `json:"votes"`
}

type CreatePollResponse struct {
	Poll       PollDTO        `json:"poll"`
	Candidates []CandidateDTO `json:"candidates"`
}

type ListPollsResponse struct {
	Items []PollDTO `json:"items"`
}

type GetPollResponse struct {
	Poll       PollDTO             `json:"poll"`
	Candidates []CandidateTallyDTO `json:"candidates"`
	TotalVotes int64               `json:"total_votes"`
}

type AddCandidateRequest struct {
	PollID    string         `json:"poll_id"`
	Candidate CandidateInput `json:"candidate"`
}

type UpdateCandidateRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	PhotoURL    *string `json:"photo_url"`
}

type CandidateResponse struct {
	Candidate CandidateDTO `json:"candidate"`
}

type ListCandidatesResponse struct {
	Items  []CandidateDTO `json:"items"`
	Cached bool           `json:"cached"`
}
