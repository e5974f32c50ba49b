package queries

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	cacheadapter "votehub/contexts/elections/vote-pipeline/adapters/cache"
	memoryadapter "votehub/contexts/elections/vote-pipeline/adapters/memory"
	"votehub/contexts/elections/vote-pipeline/domain/entities"
	domainerrors "votehub/contexts/elections/vote-pipeline/domain/errors"
	"votehub/contexts/elections/vote-pipeline/ports"
	platformcache "votehub/internal/platform/cache"
)

func newResultsFixture(t *testing.T) (ResultsUseCase, *memoryadapter.Store, *cacheadapter.Store) {
	t.Helper()
	store := memoryadapter.NewStore()
	store.SeedPoll(ports.PollProjection{PollID: "poll-1", Title: "Best mascot", IsActive: true})
	store.SeedCandidate(ports.CandidateProjection{CandidateID: "cand-1", PollID: "poll-1", Name: "Gopher"})
	store.SeedCandidate(ports.CandidateProjection{CandidateID: "cand-2", PollID: "poll-1", Name: "Ferris"})

	cacheStore := cacheadapter.NewStore(platformcache.New(slog.Default()))
	uc := ResultsUseCase{
		Ledger:     store,
		Candidates: store,
		Polls:      store,
		Results:    cacheStore,
		Clock:      memoryadapter.NewFixedClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)),
	}
	return uc, store, cacheStore
}

func insertVotes(t *testing.T, store *memoryadapter.Store, candidateID string, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		outcome, err := store.InsertVote(context.Background(), entities.Vote{
			VoteID:      candidateID + "-" + string(rune('a'+i)),
			PollID:      "poll-1",
			CandidateID: candidateID,
			Email:       candidateID + string(rune('a'+i)) + "@example.com",
			VotedAt:     time.Now(),
		})
		if err != nil || outcome != ports.Inserted {
			t.Fatalf("seed vote failed: outcome=%d err=%v", outcome, err)
		}
	}
}

func TestPollResultsPercentages(t *testing.T) {
	uc, store, _ := newResultsFixture(t)
	insertVotes(t, store, "cand-1", 3)
	insertVotes(t, store, "cand-2", 1)

	view, err := uc.PollResults(context.Background(), "poll-1")
	if err != nil {
		t.Fatalf("results failed: %v", err)
	}
	if view.Cached {
		t.Fatal("first read must recompute")
	}
	if view.Snapshot.TotalVotes != 4 {
		t.Fatalf("expected total 4, got %d", view.Snapshot.TotalVotes)
	}
	if len(view.Snapshot.Candidates) != 2 {
		t.Fatalf("expected 2 candidates, got %d", len(view.Snapshot.Candidates))
	}
	leader := view.Snapshot.Candidates[0]
	runnerUp := view.Snapshot.Candidates[1]
	if leader.CandidateID != "cand-1" || leader.Votes != 3 || leader.Percentage != 75.0 {
		t.Fatalf("unexpected leader row: %+v", leader)
	}
	if runnerUp.CandidateID != "cand-2" || runnerUp.Votes != 1 || runnerUp.Percentage != 25.0 {
		t.Fatalf("unexpected runner-up row: %+v", runnerUp)
	}
}

func TestPollResultsZeroVotes(t *testing.T) {
	uc, _, _ := newResultsFixture(t)

	view, err := uc.PollResults(context.Background(), "poll-1")
	if err != nil {
		t.Fatalf("results failed: %v", err)
	}
	if view.Snapshot.TotalVotes != 0 {
		t.Fatalf("expected total 0, got %d", view.Snapshot.TotalVotes)
	}
	for _, row := range view.Snapshot.Candidates {
		if row.Percentage != 0 {
			t.Fatalf("expected zero percentage without votes, got %+v", row)
		}
	}
}

func TestPollResultsServedFromCacheUntilInvalidated(t *testing.T) {
	uc, store, cacheStore := newResultsFixture(t)
	insertVotes(t, store, "cand-1", 1)

	first, err := uc.PollResults(context.Background(), "poll-1")
	if err != nil {
		t.Fatalf("first read failed: %v", err)
	}
	if first.Cached {
		t.Fatal("first read must be a miss")
	}

	// A new vote lands; the cached snapshot may lag until TTL or refresh.
	insertVotes(t, store, "cand-2", 1)
	second, err := uc.PollResults(context.Background(), "poll-1")
	if err != nil {
		t.Fatalf("second read failed: %v", err)
	}
	if !second.Cached {
		t.Fatal("second read must hit the cache")
	}
	if second.Snapshot.TotalVotes != 1 {
		t.Fatalf("cached snapshot must be the stale one, got total %d", second.Snapshot.TotalVotes)
	}

	if err := cacheStore.Invalidate(context.Background(), "poll-1"); err != nil {
		t.Fatalf("invalidate failed: %v", err)
	}
	third, err := uc.PollResults(context.Background(), "poll-1")
	if err != nil {
		t.Fatalf("third read failed: %v", err)
	}
	if third.Cached {
		t.Fatal("read after invalidation must recompute")
	}
	if third.Snapshot.TotalVotes != 2 {
		t.Fatalf("expected fresh total 2, got %d", third.Snapshot.TotalVotes)
	}
}

func TestStaleRefreshCannotResurrectOldGeneration(t *testing.T) {
	uc, store, cacheStore := newResultsFixture(t)
	insertVotes(t, store, "cand-1", 1)

	// A refresher captures the generation, then a candidate change bumps it
	// before the recompute lands.
	generation, err := cacheStore.Generation(context.Background(), "poll-1")
	if err != nil {
		t.Fatalf("generation read failed: %v", err)
	}
	if err := cacheStore.Invalidate(context.Background(), "poll-1"); err != nil {
		t.Fatalf("invalidate failed: %v", err)
	}
	stale := entities.ResultsSnapshot{PollID: "poll-1", TotalVotes: 999}
	if err := cacheStore.Put(context.Background(), "poll-1", generation, stale); err != nil {
		t.Fatalf("stale put failed: %v", err)
	}

	// Readers never see the orphaned write.
	view, err := uc.PollResults(context.Background(), "poll-1")
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if view.Cached {
		t.Fatal("stale generation write must not serve as a cache hit")
	}
	if view.Snapshot.TotalVotes != 1 {
		t.Fatalf("expected recomputed total 1, got %d", view.Snapshot.TotalVotes)
	}
}

func TestPollResultsUnknownPoll(t *testing.T) {
	uc, _, _ := newResultsFixture(t)
	_, err := uc.PollResults(context.Background(), "poll-missing")
	if !errors.Is(err, domainerrors.ErrPollNotFound) {
		t.Fatalf("expected poll not found, got %v", err)
	}
}

func TestLegacyResultsSpanWholeLedger(t *testing.T) {
	uc, store, _ := newResultsFixture(t)
	insertVotes(t, store, "cand-1", 2)

	view, err := uc.LegacyResults(context.Background())
	if err != nil {
		t.Fatalf("legacy results failed: %v", err)
	}
	if view.Snapshot.PollID != "" {
		t.Fatalf("legacy snapshot must use the global key, got %q", view.Snapshot.PollID)
	}
	if view.Snapshot.TotalVotes != 2 {
		t.Fatalf("expected total 2, got %d", view.Snapshot.TotalVotes)
	}
}
