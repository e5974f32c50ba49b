package queries

import (
	"context"
	"errors"
	"testing"
	"time"

	memoryadapter "votehub/contexts/elections/poll-service/adapters/memory"
	"votehub/contexts/elections/poll-service/domain/entities"
	domainerrors "votehub/contexts/elections/poll-service/domain/errors"
)

func seedPoll(store *memoryadapter.Store, pollID string, candidateIDs ...string) {
	now := store.Now()
	poll := entities.Poll{
		PollID:    pollID,
		Title:     "Election " + pollID,
		IsActive:  true,
		CreatedBy: "user-1",
		CreatedAt: now,
	}
	candidates := make([]entities.Candidate, 0, len(candidateIDs))
	for i, id := range candidateIDs {
		candidates = append(candidates, entities.Candidate{
			CandidateID: id,
			PollID:      pollID,
			Name:        "Candidate " + id,
			CreatedAt:   now.Add(time.Duration(i) * time.Second),
		})
	}
	_ = store.CreatePollWithCandidates(context.Background(), poll, candidates)
}

func TestGetPollTalliesSortedByVotes(t *testing.T) {
	store := memoryadapter.NewStore()
	seedPoll(store, "poll-1", "cand-1", "cand-2", "cand-3")
	store.SeedVotes("poll-1", map[string]int64{"cand-1": 2, "cand-2": 5})

	uc := GetPollUseCase{Polls: store, Candidates: store, Votes: store}
	details, err := uc.Execute(context.Background(), "poll-1")
	if err != nil {
		t.Fatalf("get poll failed: %v", err)
	}
	if details.TotalVotes != 7 {
		t.Fatalf("expected 7 total votes, got %d", details.TotalVotes)
	}
	if len(details.Candidates) != 3 {
		t.Fatalf("expected 3 tallies, got %d", len(details.Candidates))
	}
	order := []struct {
		id    string
		votes int64
	}{{"cand-2", 5}, {"cand-1", 2}, {"cand-3", 0}}
	for i, want := range order {
		got := details.Candidates[i]
		if got.Candidate.CandidateID != want.id || got.Votes != want.votes {
			t.Fatalf("position %d: expected %s/%d, got %s/%d",
				i, want.id, want.votes, got.Candidate.CandidateID, got.Votes)
		}
	}
}

func TestGetPollUnknownPoll(t *testing.T) {
	store := memoryadapter.NewStore()
	uc := GetPollUseCase{Polls: store, Candidates: store, Votes: store}

	if _, err := uc.Execute(context.Background(), "missing"); !errors.Is(err, domainerrors.ErrPollNotFound) {
		t.Fatalf("expected ErrPollNotFound, got %v", err)
	}
	if _, err := uc.Execute(context.Background(), "   "); !errors.Is(err, domainerrors.ErrInvalidPollInput) {
		t.Fatalf("expected ErrInvalidPollInput, got %v", err)
	}
}

type failingCounter struct{}

func (failingCounter) CountByCandidate(context.Context, string) (map[string]int64, error) {
	return nil, errors.New("ledger down")
}

func TestGetPollServedWithoutTalliesWhenLedgerFails(t *testing.T) {
	store := memoryadapter.NewStore()
	seedPoll(store, "poll-1", "cand-1", "cand-2")

	uc := GetPollUseCase{Polls: store, Candidates: store, Votes: failingCounter{}}
	details, err := uc.Execute(context.Background(), "poll-1")
	if err != nil {
		t.Fatalf("expected degraded view, got error: %v", err)
	}
	if details.TotalVotes != 0 {
		t.Fatalf("expected zero total, got %d", details.TotalVotes)
	}
	for _, tally := range details.Candidates {
		if tally.Votes != 0 {
			t.Fatalf("expected zero tallies, got %+v", tally)
		}
	}
}

func TestListPollsNewestFirst(t *testing.T) {
	store := memoryadapter.NewStore()
	seedPoll(store, "poll-1", "cand-1", "cand-2")
	store.Advance(time.Hour)
	seedPoll(store, "poll-2", "cand-3", "cand-4")

	uc := ListPollsUseCase{Polls: store}
	polls, err := uc.Execute(context.Background())
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(polls) != 2 || polls[0].PollID != "poll-2" || polls[1].PollID != "poll-1" {
		t.Fatalf("expected newest first, got %+v", polls)
	}
}

func TestListCandidatesCachesListing(t *testing.T) {
	store := memoryadapter.NewStore()
	seedPoll(store, "poll-1", "cand-1", "cand-2")

	uc := ListCandidatesUseCase{Candidates: store, Listing: store}
	ctx := context.Background()

	first, err := uc.Execute(ctx)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if first.Cached {
		t.Fatal("first read must come from the repository")
	}
	if len(first.Candidates) != 2 {
		t.Fatalf("expected 2 candidates, got %d", len(first.Candidates))
	}

	second, err := uc.Execute(ctx)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if !second.Cached {
		t.Fatal("second read must be a cache hit")
	}

	// A slate change drops the listing and the next read rebuilds it.
	if err := store.InvalidateListing(ctx); err != nil {
		t.Fatalf("invalidate failed: %v", err)
	}
	if err := store.AddCandidate(ctx, entities.Candidate{
		CandidateID: "cand-3",
		PollID:      "poll-1",
		Name:        "Candidate cand-3",
		CreatedAt:   store.Now(),
	}); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	third, err := uc.Execute(ctx)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if third.Cached {
		t.Fatal("read after invalidation must rebuild")
	}
	if len(third.Candidates) != 3 {
		t.Fatalf("expected 3 candidates after add, got %d", len(third.Candidates))
	}
}
