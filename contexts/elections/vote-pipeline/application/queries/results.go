package queries

import (
	"context"
	"log/slog"
	"strings"
	"time"

	application "votehub/contexts/elections/vote-pipeline/application"
	"votehub/contexts/elections/vote-pipeline/domain/entities"
	"votehub/contexts/elections/vote-pipeline/ports"
)

// ResultsView is a snapshot plus its provenance: whether it was served from
// cache or recomputed on this request.
type ResultsView struct {
	Snapshot entities.ResultsSnapshot
	Cached   bool
}

// ResultsUseCase serves per-candidate tallies from the snapshot cache,
// falling back to a full recompute when the snapshot expired. Recompute runs
// at most once per TTL window under steady read load because every miss
// re-populates the cache.
type ResultsUseCase struct {
	Ledger     ports.VoteLedger
	Candidates ports.CandidateDirectory
	Polls      ports.PollDirectory
	Results    ports.ResultsCache
	Clock      ports.Clock
	Logger     *slog.Logger
}

// PollResults returns the tally for one poll, validating the poll exists
// first so a missing poll is distinguishable from an empty one.
func (uc ResultsUseCase) PollResults(ctx context.Context, pollID string) (ResultsView, error) {
	pollID = strings.TrimSpace(pollID)
	if _, err := uc.Polls.GetPoll(ctx, pollID); err != nil {
		return ResultsView{}, err
	}
	return uc.results(ctx, pollID)
}

// LegacyResults serves the global single-poll view.
func (uc ResultsUseCase) LegacyResults(ctx context.Context) (ResultsView, error) {
	return uc.results(ctx, "")
}

func (uc ResultsUseCase) results(ctx context.Context, pollID string) (ResultsView, error) {
	logger := application.ResolveLogger(uc.Logger)
	if snapshot, ok, err := uc.Results.Get(ctx, pollID); err != nil {
		logger.Warn("results cache read failed; recomputing",
			"event", "results_cache_read_failed",
			"module", "elections/vote-pipeline",
			"layer", "application",
			"poll_id", pollID,
			"error", err.Error(),
		)
	} else if ok {
		return ResultsView{Snapshot: snapshot, Cached: true}, nil
	}

	now := uc.now()
	generation, err := uc.Results.Generation(ctx, pollID)
	if err != nil {
		return ResultsView{}, err
	}
	snapshot, err := application.BuildResultsSnapshot(ctx, uc.Ledger, uc.Candidates, pollID, now)
	if err != nil {
		return ResultsView{}, err
	}
	if err := uc.Results.Put(ctx, pollID, generation, snapshot); err != nil {
		logger.Warn("results cache write failed",
			"event", "results_cache_write_failed",
			"module", "elections/vote-pipeline",
			"layer", "application",
			"poll_id", pollID,
			"error", err.Error(),
		)
	}
	return ResultsView{Snapshot: snapshot, Cached: false}, nil
}

func (uc ResultsUseCase) now() time.Time {
	now := time.Now().UTC()
	if uc.Clock != nil {
		now = uc.Clock.Now().UTC()
	}
	return now
}
