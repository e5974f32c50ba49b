package workers

import (
	"context"
	"errors"
	"log/slog"
	"time"

	application "votehub/contexts/elections/vote-pipeline/application"
	domainerrors "votehub/contexts/elections/vote-pipeline/domain/errors"
	"votehub/contexts/elections/vote-pipeline/ports"
)

// ResultsRefresher periodically recomputes cached snapshots so displayed
// results stay close to real time even when no worker has written recently.
// One cycle refreshes the active poll's snapshot and the legacy global view.
type ResultsRefresher struct {
	Ledger     ports.VoteLedger
	Candidates ports.CandidateDirectory
	Polls      ports.PollDirectory
	Results    ports.ResultsCache
	Clock      ports.Clock
	Logger     *slog.Logger
}

func (w ResultsRefresher) RunOnce(ctx context.Context) error {
	logger := application.ResolveLogger(w.Logger)
	now := time.Now().UTC()
	if w.Clock != nil {
		now = w.Clock.Now().UTC()
	}

	targets := []string{""}
	if poll, err := w.Polls.GetActivePoll(ctx); err == nil {
		targets = append(targets, poll.PollID)
	} else if !errors.Is(err, domainerrors.ErrNoActivePoll) {
		return err
	}

	for _, target := range targets {
		generation, err := w.Results.Generation(ctx, target)
		if err != nil {
			return err
		}
		snapshot, err := application.BuildResultsSnapshot(ctx, w.Ledger, w.Candidates, target, now)
		if err != nil {
			return err
		}
		if err := w.Results.Put(ctx, target, generation, snapshot); err != nil {
			return err
		}
		logger.Debug("results cache refreshed",
			"event", "refresher_snapshot_updated",
			"module", "elections/vote-pipeline",
			"layer", "worker",
			"poll_id", target,
			"total_votes", snapshot.TotalVotes,
			"candidates", len(snapshot.Candidates),
		)
	}
	return nil
}
