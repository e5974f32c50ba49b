package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	pollerrors "votehub/contexts/elections/poll-service/domain/errors"
	pollhttp "votehub/contexts/elections/poll-service/transport/http"
)

func (s *Server) registerPollRoutes() {
	s.mux.HandleFunc("GET /api/polls", s.handleListPolls)
	s.mux.HandleFunc("GET /api/polls/{poll_id}", s.handleGetPoll)
	s.mux.HandleFunc("POST /api/polls", s.handleCreatePoll)
	s.mux.HandleFunc("PUT /api/polls/{poll_id}/start", s.handleStartPoll)
	s.mux.HandleFunc("PUT /api/polls/{poll_id}/stop", s.handleStopPoll)
	s.mux.HandleFunc("DELETE /api/polls/{poll_id}", s.handleDeletePoll)

	s.mux.HandleFunc("GET /api/candidates", s.handleListCandidates)
	s.mux.HandleFunc("POST /api/candidates", s.handleAddCandidate)
	s.mux.HandleFunc("PUT /api/candidates/{candidate_id}", s.handleUpdateCandidate)
	s.mux.HandleFunc("DELETE /api/candidates/{candidate_id}", s.handleRemoveCandidate)
}

func (s *Server) handleListPolls(w http.ResponseWriter, r *http.Request) {
	resp, err := s.polls.Handler.ListPollsHandler(r.Context())
	if err != nil {
		writePollDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetPoll(w http.ResponseWriter, r *http.Request) {
	resp, err := s.polls.Handler.GetPollHandler(r.Context(), r.PathValue("poll_id"))
	if err != nil {
		writePollDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCreatePoll(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	var req pollhttp.CreatePollRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writePollError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.polls.Handler.CreatePollHandler(r.Context(), userID, req)
	if err != nil {
		writePollDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleStartPoll(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	if err := s.polls.Handler.StartPollHandler(r.Context(), userID, r.PathValue("poll_id")); err != nil {
		writePollDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "started"})
}

func (s *Server) handleStopPoll(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	if err := s.polls.Handler.StopPollHandler(r.Context(), userID, r.PathValue("poll_id")); err != nil {
		writePollDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "stopped"})
}

func (s *Server) handleDeletePoll(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	if err := s.polls.Handler.DeletePollHandler(r.Context(), userID, r.PathValue("poll_id")); err != nil {
		writePollDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (s *Server) handleListCandidates(w http.ResponseWriter, r *http.Request) {
	resp, err := s.polls.Handler.ListCandidatesHandler(r.Context())
	if err != nil {
		writePollDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleAddCandidate(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	var req pollhttp.AddCandidateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writePollError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.polls.Handler.AddCandidateHandler(r.Context(), userID, req)
	if err != nil {
		writePollDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleUpdateCandidate(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	var req pollhttp.UpdateCandidateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writePollError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.polls.Handler.UpdateCandidateHandler(r.Context(), userID, r.PathValue("candidate_id"), req)
	if err != nil {
		writePollDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleRemoveCandidate(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	if err := s.polls.Handler.RemoveCandidateHandler(r.Context(), userID, r.PathValue("candidate_id")); err != nil {
		writePollDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "removed"})
}

func requireUser(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID := strings.TrimSpace(r.Header.Get("X-User-Id"))
	if userID == "" {
		writePollError(w, http.StatusUnauthorized, "missing_user", "X-User-Id header is required")
		return "", false
	}
	return userID, true
}

func writePollDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, pollerrors.ErrInvalidPollInput),
		errors.Is(err, pollerrors.ErrInvalidCandidateInput):
		writePollError(w, http.StatusBadRequest, "invalid_input", err.Error())
	case errors.Is(err, pollerrors.ErrTooFewCandidates):
		writePollError(w, http.StatusUnprocessableEntity, "too_few_candidates", err.Error())
	case errors.Is(err, pollerrors.ErrActiveOrDraftPollExists):
		writePollError(w, http.StatusConflict, "active_or_draft_poll_exists", err.Error())
	case errors.Is(err, pollerrors.ErrPollNotFound):
		writePollError(w, http.StatusNotFound, "poll_not_found", err.Error())
	case errors.Is(err, pollerrors.ErrCandidateNotFound):
		writePollError(w, http.StatusNotFound, "candidate_not_found", err.Error())
	case errors.Is(err, pollerrors.ErrNotPollOwner):
		writePollError(w, http.StatusForbidden, "not_poll_owner", err.Error())
	case errors.Is(err, pollerrors.ErrPollAlreadyActive):
		writePollError(w, http.StatusConflict, "poll_already_active", err.Error())
	case errors.Is(err, pollerrors.ErrPollNotActive):
		writePollError(w, http.StatusConflict, "poll_not_active", err.Error())
	default:
		writePollError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writePollError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, pollhttp.ErrorResponse{
		Code:    code,
		Message: message,
	})
}
