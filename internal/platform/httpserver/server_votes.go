package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	voteerrors "votehub/contexts/elections/vote-pipeline/domain/errors"
	votehttp "votehub/contexts/elections/vote-pipeline/transport/http"
)

func (s *Server) registerVoteRoutes() {
	s.mux.HandleFunc("POST /api/polls/{poll_id}/vote", s.handleSubmitVote)
	s.mux.HandleFunc("GET /api/polls/{poll_id}/results", s.handlePollResults)

	// Legacy single-poll surface: the vote lands in the current active poll.
	s.mux.HandleFunc("POST /api/vote", s.handleSubmitLegacyVote)
	s.mux.HandleFunc("GET /api/results", s.handleLegacyResults)

	s.mux.HandleFunc("GET /api/vote/status/{identifier}", s.handleVoteStatus)
	s.mux.HandleFunc("GET /api/vote/queue-stats", s.handleQueueStats)
}

func (s *Server) handleSubmitVote(w http.ResponseWriter, r *http.Request) {
	var req votehttp.SubmitVoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeVoteError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.votes.Handler.SubmitVoteHandler(r.Context(), r.PathValue("poll_id"), req)
	if err != nil {
		writeVoteDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, resp)
}

func (s *Server) handleSubmitLegacyVote(w http.ResponseWriter, r *http.Request) {
	var req votehttp.SubmitVoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeVoteError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.votes.Handler.SubmitLegacyVoteHandler(r.Context(), req)
	if err != nil {
		writeVoteDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, resp)
}

func (s *Server) handlePollResults(w http.ResponseWriter, r *http.Request) {
	resp, err := s.votes.Handler.PollResultsHandler(r.Context(), r.PathValue("poll_id"))
	if err != nil {
		writeVoteDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleLegacyResults(w http.ResponseWriter, r *http.Request) {
	resp, err := s.votes.Handler.LegacyResultsHandler(r.Context())
	if err != nil {
		writeVoteDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleVoteStatus(w http.ResponseWriter, r *http.Request) {
	resp, err := s.votes.Handler.VoteStatusHandler(r.Context(), r.PathValue("identifier"))
	if err != nil {
		writeVoteDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleQueueStats(w http.ResponseWriter, r *http.Request) {
	resp, err := s.votes.Handler.QueueStatsHandler(r.Context())
	if err != nil {
		writeVoteDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeVoteDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, voteerrors.ErrInvalidVoteInput),
		errors.Is(err, voteerrors.ErrInvalidEmail):
		writeVoteError(w, http.StatusBadRequest, "invalid_input", err.Error())
	case errors.Is(err, voteerrors.ErrDuplicateVote):
		writeVoteError(w, http.StatusUnprocessableEntity, "already_voted", err.Error())
	case errors.Is(err, voteerrors.ErrPollNotActive):
		writeVoteError(w, http.StatusForbidden, "poll_not_active", err.Error())
	case errors.Is(err, voteerrors.ErrCandidateNotFound):
		writeVoteError(w, http.StatusNotFound, "candidate_not_found", err.Error())
	case errors.Is(err, voteerrors.ErrCandidateNotInPoll):
		writeVoteError(w, http.StatusUnprocessableEntity, "candidate_not_in_poll", err.Error())
	case errors.Is(err, voteerrors.ErrPollNotFound):
		writeVoteError(w, http.StatusNotFound, "poll_not_found", err.Error())
	case errors.Is(err, voteerrors.ErrNoActivePoll):
		writeVoteError(w, http.StatusNotFound, "no_active_poll", err.Error())
	case errors.Is(err, voteerrors.ErrQueueUnavailable):
		writeVoteError(w, http.StatusServiceUnavailable, "queue_unavailable", err.Error())
	case errors.Is(err, voteerrors.ErrStatusNotFound):
		writeVoteError(w, http.StatusNotFound, "status_not_found", err.Error())
	default:
		writeVoteError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeVoteError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, votehttp.ErrorResponse{
		Code:    code,
		Message: message,
	})
}
