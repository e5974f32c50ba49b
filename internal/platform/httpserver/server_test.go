package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	pollservice "votehub/contexts/elections/poll-service"
	pollhttp "votehub/contexts/elections/poll-service/transport/http"
	votepipeline "votehub/contexts/elections/vote-pipeline"
	memoryadapter "votehub/contexts/elections/vote-pipeline/adapters/memory"
	taskqueueadapter "votehub/contexts/elections/vote-pipeline/adapters/taskqueue"
	"votehub/contexts/elections/vote-pipeline/ports"
	votehttp "votehub/contexts/elections/vote-pipeline/transport/http"
	platformqueue "votehub/internal/platform/queue"
)

type serverFixture struct {
	server *Server
	polls  pollservice.Module
	votes  votepipeline.Module
}

func newServerFixture(t *testing.T) *serverFixture {
	t.Helper()
	clock := memoryadapter.NewFixedClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	votes := votepipeline.NewInMemoryModule(clock, slog.Default())
	votes.Store.SeedPoll(ports.PollProjection{PollID: "poll-1", Title: "Best mascot", IsActive: true})
	votes.Store.SeedCandidate(ports.CandidateProjection{CandidateID: "cand-1", PollID: "poll-1", Name: "Gopher"})
	votes.Store.SeedCandidate(ports.CandidateProjection{CandidateID: "cand-2", PollID: "poll-1", Name: "Ferris"})
	polls := pollservice.NewInMemoryModule(slog.Default())
	return &serverFixture{
		server: New(polls, votes, slog.Default(), ":0"),
		polls:  polls,
		votes:  votes,
	}
}

func (f *serverFixture) do(t *testing.T, method string, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode request failed: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	for key, value := range headers {
		req.Header.Set(key, value)
	}
	rec := httptest.NewRecorder()
	f.server.Handler().ServeHTTP(rec, req)
	return rec
}

func decodeInto(t *testing.T, rec *httptest.ResponseRecorder, target any) {
	t.Helper()
	if err := json.NewDecoder(rec.Body).Decode(target); err != nil {
		t.Fatalf("decode response failed: %v", err)
	}
}

func (f *serverFixture) drainVotes(t *testing.T) {
	t.Helper()
	consumer := taskqueueadapter.NewConsumer(f.votes.Queue, &f.votes.Recorder, slog.Default())
	consumer.Policy = platformqueue.RetryPolicy{
		MaxAttempts:    3,
		Backoff:        []time.Duration{time.Millisecond, time.Millisecond, time.Millisecond},
		AttemptTimeout: time.Second,
	}
	for f.votes.Queue.Depth() > 0 {
		task, err := f.votes.Queue.Receive(context.Background())
		if err != nil {
			t.Fatalf("receive failed: %v", err)
		}
		consumer.Process(context.Background(), task)
	}
}

func TestSubmitVoteAcceptedThenDuplicateRejected(t *testing.T) {
	f := newServerFixture(t)

	rec := f.do(t, http.MethodPost, "/api/polls/poll-1/vote", votehttp.SubmitVoteRequest{
		Email:       "voter@example.com",
		CandidateID: "cand-1",
	}, nil)
	if rec.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d: %s", rec.Code, rec.Body.String())
	}
	var accepted votehttp.SubmitVoteResponse
	decodeInto(t, rec, &accepted)
	if accepted.TrackingID == "" || accepted.Status != "queued" {
		t.Fatalf("unexpected accept payload: %+v", accepted)
	}

	rec = f.do(t, http.MethodPost, "/api/polls/poll-1/vote", votehttp.SubmitVoteRequest{
		Email:       "Voter@Example.com",
		CandidateID: "cand-2",
	}, nil)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for duplicate, got %d: %s", rec.Code, rec.Body.String())
	}
	var dupErr votehttp.ErrorResponse
	decodeInto(t, rec, &dupErr)
	if dupErr.Code != "already_voted" {
		t.Fatalf("expected already_voted, got %+v", dupErr)
	}
}

func TestVoteStatusLifecycleOverHTTP(t *testing.T) {
	f := newServerFixture(t)

	rec := f.do(t, http.MethodPost, "/api/polls/poll-1/vote", votehttp.SubmitVoteRequest{
		Email:       "voter@example.com",
		CandidateID: "cand-1",
	}, nil)
	if rec.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d", rec.Code)
	}
	var accepted votehttp.SubmitVoteResponse
	decodeInto(t, rec, &accepted)

	rec = f.do(t, http.MethodGet, "/api/vote/status/"+accepted.TrackingID, nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var status votehttp.VoteStatusResponse
	decodeInto(t, rec, &status)
	if status.Status != "queued" {
		t.Fatalf("expected queued before processing, got %+v", status)
	}

	f.drainVotes(t)

	rec = f.do(t, http.MethodGet, "/api/vote/status/"+accepted.TrackingID, nil, nil)
	decodeInto(t, rec, &status)
	if status.Status != "completed" {
		t.Fatalf("expected completed after processing, got %+v", status)
	}

	rec = f.do(t, http.MethodGet, "/api/vote/status/00000000-0000-0000-0000-00000000ffff", nil, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown tracking id, got %d", rec.Code)
	}
}

func TestPollResultsOverHTTP(t *testing.T) {
	f := newServerFixture(t)

	for _, email := range []string{"a@example.com", "b@example.com", "c@example.com"} {
		rec := f.do(t, http.MethodPost, "/api/polls/poll-1/vote", votehttp.SubmitVoteRequest{
			Email:       email,
			CandidateID: "cand-1",
		}, nil)
		if rec.Code != http.StatusAccepted {
			t.Fatalf("expected 202 for %s, got %d", email, rec.Code)
		}
	}
	rec := f.do(t, http.MethodPost, "/api/polls/poll-1/vote", votehttp.SubmitVoteRequest{
		Email:       "d@example.com",
		CandidateID: "cand-2",
	}, nil)
	if rec.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d", rec.Code)
	}
	f.drainVotes(t)

	rec = f.do(t, http.MethodGet, "/api/polls/poll-1/results", nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var results votehttp.PollResultsResponse
	decodeInto(t, rec, &results)
	if results.TotalVotes != 4 {
		t.Fatalf("expected 4 votes, got %d", results.TotalVotes)
	}
	if len(results.Results) != 2 || results.Results[0].CandidateID != "cand-1" {
		t.Fatalf("unexpected result order: %+v", results.Results)
	}
	if results.Results[0].Percentage != 75.0 || results.Results[1].Percentage != 25.0 {
		t.Fatalf("unexpected percentages: %+v", results.Results)
	}

	rec = f.do(t, http.MethodGet, "/api/results", nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for legacy results, got %d", rec.Code)
	}
	var legacy votehttp.LegacyResultsResponse
	decodeInto(t, rec, &legacy)
	if legacy.TotalVotes != 4 {
		t.Fatalf("expected legacy total 4, got %d", legacy.TotalVotes)
	}
}

func TestQueueStatsOverHTTP(t *testing.T) {
	f := newServerFixture(t)

	rec := f.do(t, http.MethodPost, "/api/polls/poll-1/vote", votehttp.SubmitVoteRequest{
		Email:       "voter@example.com",
		CandidateID: "cand-1",
	}, nil)
	if rec.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d", rec.Code)
	}

	rec = f.do(t, http.MethodGet, "/api/vote/queue-stats", nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var stats votehttp.QueueStatsResponse
	decodeInto(t, rec, &stats)
	if stats.QueueLength != 1 {
		t.Fatalf("expected depth 1, got %+v", stats)
	}

	f.drainVotes(t)
	rec = f.do(t, http.MethodGet, "/api/vote/queue-stats", nil, nil)
	decodeInto(t, rec, &stats)
	if stats.QueueLength != 0 || stats.ProcessedToday != 1 {
		t.Fatalf("expected drained stats, got %+v", stats)
	}
}

func TestSubmitVoteRejectsMalformedJSON(t *testing.T) {
	f := newServerFixture(t)

	req := httptest.NewRequest(http.MethodPost, "/api/polls/poll-1/vote", bytes.NewBufferString("{not json"))
	rec := httptest.NewRecorder()
	f.server.Handler().ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestPollManagementRequiresUserHeader(t *testing.T) {
	f := newServerFixture(t)
	body := pollhttp.CreatePollRequest{
		Title: "Election",
		Candidates: []pollhttp.CandidateInput{
			{Name: "Ada"},
			{Name: "Grace"},
		},
	}

	rec := f.do(t, http.MethodPost, "/api/polls", body, nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without X-User-Id, got %d", rec.Code)
	}
	var errResp pollhttp.ErrorResponse
	decodeInto(t, rec, &errResp)
	if errResp.Code != "missing_user" {
		t.Fatalf("expected missing_user, got %+v", errResp)
	}

	rec = f.do(t, http.MethodPost, "/api/polls", body, map[string]string{"X-User-Id": "user-1"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 with header, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestPollLifecycleOverHTTP(t *testing.T) {
	f := newServerFixture(t)
	owner := map[string]string{"X-User-Id": "user-1"}
	intruder := map[string]string{"X-User-Id": "user-2"}

	rec := f.do(t, http.MethodPost, "/api/polls", pollhttp.CreatePollRequest{
		Title: "Election",
		Candidates: []pollhttp.CandidateInput{
			{Name: "Ada"},
			{Name: "Grace"},
		},
	}, owner)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create failed: %d %s", rec.Code, rec.Body.String())
	}
	var created pollhttp.CreatePollResponse
	decodeInto(t, rec, &created)
	if created.Poll.IsActive || created.Poll.WasStarted {
		t.Fatalf("expected draft, got %+v", created.Poll)
	}

	rec = f.do(t, http.MethodPut, "/api/polls/"+created.Poll.PollID+"/start", nil, intruder)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for non-owner start, got %d", rec.Code)
	}

	rec = f.do(t, http.MethodPut, "/api/polls/"+created.Poll.PollID+"/start", nil, owner)
	if rec.Code != http.StatusOK {
		t.Fatalf("start failed: %d %s", rec.Code, rec.Body.String())
	}
	rec = f.do(t, http.MethodPut, "/api/polls/"+created.Poll.PollID+"/start", nil, owner)
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 for double start, got %d", rec.Code)
	}

	rec = f.do(t, http.MethodGet, "/api/polls/"+created.Poll.PollID, nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get failed: %d", rec.Code)
	}
	var details pollhttp.GetPollResponse
	decodeInto(t, rec, &details)
	if !details.Poll.IsActive || len(details.Candidates) != 2 {
		t.Fatalf("unexpected detail view: %+v", details)
	}

	rec = f.do(t, http.MethodPut, "/api/polls/"+created.Poll.PollID+"/stop", nil, owner)
	if rec.Code != http.StatusOK {
		t.Fatalf("stop failed: %d %s", rec.Code, rec.Body.String())
	}
	rec = f.do(t, http.MethodDelete, "/api/polls/"+created.Poll.PollID, nil, owner)
	if rec.Code != http.StatusOK {
		t.Fatalf("delete failed: %d %s", rec.Code, rec.Body.String())
	}
	rec = f.do(t, http.MethodGet, "/api/polls/"+created.Poll.PollID, nil, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d", rec.Code)
	}
}

func TestCreatePollValidationStatusCodes(t *testing.T) {
	f := newServerFixture(t)
	owner := map[string]string{"X-User-Id": "user-1"}

	rec := f.do(t, http.MethodPost, "/api/polls", pollhttp.CreatePollRequest{
		Title:      "Solo",
		Candidates: []pollhttp.CandidateInput{{Name: "Ada"}},
	}, owner)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for one candidate, got %d", rec.Code)
	}

	ok := pollhttp.CreatePollRequest{
		Title: "Election",
		Candidates: []pollhttp.CandidateInput{
			{Name: "Ada"},
			{Name: "Grace"},
		},
	}
	if rec := f.do(t, http.MethodPost, "/api/polls", ok, owner); rec.Code != http.StatusCreated {
		t.Fatalf("create failed: %d", rec.Code)
	}
	rec = f.do(t, http.MethodPost, "/api/polls", ok, owner)
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 for second in-flight poll, got %d", rec.Code)
	}
}

func TestCandidateListingOverHTTP(t *testing.T) {
	f := newServerFixture(t)
	owner := map[string]string{"X-User-Id": "user-1"}

	rec := f.do(t, http.MethodPost, "/api/polls", pollhttp.CreatePollRequest{
		Title: "Election",
		Candidates: []pollhttp.CandidateInput{
			{Name: "Ada"},
			{Name: "Grace"},
		},
	}, owner)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create failed: %d", rec.Code)
	}

	rec = f.do(t, http.MethodGet, "/api/candidates", nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list failed: %d", rec.Code)
	}
	var first pollhttp.ListCandidatesResponse
	decodeInto(t, rec, &first)
	if first.Cached || len(first.Items) != 2 {
		t.Fatalf("unexpected first listing: %+v", first)
	}

	rec = f.do(t, http.MethodGet, "/api/candidates", nil, nil)
	var second pollhttp.ListCandidatesResponse
	decodeInto(t, rec, &second)
	if !second.Cached {
		t.Fatalf("expected cache hit, got %+v", second)
	}
}
