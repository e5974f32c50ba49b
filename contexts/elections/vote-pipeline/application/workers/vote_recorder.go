package workers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	application "votehub/contexts/elections/vote-pipeline/application"
	"votehub/contexts/elections/vote-pipeline/domain/entities"
	domainerrors "votehub/contexts/elections/vote-pipeline/domain/errors"
	"votehub/contexts/elections/vote-pipeline/ports"
)

// VoteRecorder turns queued vote tasks into durable ledger rows. Multiple
// recorder instances may run concurrently; the ledger's unique constraint is
// the only thing preventing a double insert between them.
type VoteRecorder struct {
	Ledger     ports.VoteLedger
	Candidates ports.CandidateDirectory
	Results    ports.ResultsCache
	Statuses   ports.StatusStore
	Stats      ports.StatsCounter
	Clock      ports.Clock
	Logger     *slog.Logger
}

// Record applies one queued vote. A nil return acknowledges the task
// (success or permanent discard); an error asks the queue to retry.
func (r VoteRecorder) Record(ctx context.Context, task entities.VoteTask) error {
	logger := application.ResolveLogger(r.Logger)

	candidate, err := r.Candidates.GetCandidate(ctx, task.CandidateID)
	if err != nil {
		if errors.Is(err, domainerrors.ErrCandidateNotFound) {
			// Permanent validation failure: the candidate was removed after
			// the vote was accepted. Discard, no retry, terminal status.
			logger.Warn("vote discarded: candidate no longer exists",
				"event", "recorder_candidate_missing",
				"module", "elections/vote-pipeline",
				"layer", "worker",
				"tracking_id", task.TrackingID,
				"candidate_id", task.CandidateID,
			)
			r.markStatus(ctx, task, entities.SubmissionStatusFailed)
			return nil
		}
		return err
	}

	// Defense in depth against guard divergence (cache flush, races).
	voted, err := r.Ledger.HasVoted(ctx, task.PollID, task.Email)
	if err != nil {
		return err
	}
	if voted {
		logger.Info("vote discarded: already recorded for email",
			"event", "recorder_duplicate_precheck",
			"module", "elections/vote-pipeline",
			"layer", "worker",
			"tracking_id", task.TrackingID,
			"poll_id", task.PollID,
		)
		return nil
	}

	now := r.now()
	outcome, err := r.Ledger.InsertVote(ctx, entities.Vote{
		VoteID:      task.TrackingID,
		PollID:      task.PollID,
		CandidateID: candidate.CandidateID,
		Email:       task.Email,
		VotedAt:     now,
	})
	switch outcome {
	case ports.Inserted:
	case ports.InsertConflictDuplicate:
		// A concurrent worker won the race; the constraint rejection is a
		// permanent outcome, never retried.
		logger.Warn("vote discarded: ledger constraint rejected duplicate",
			"event", "recorder_duplicate_constraint",
			"module", "elections/vote-pipeline",
			"layer", "worker",
			"tracking_id", task.TrackingID,
			"poll_id", task.PollID,
		)
		return nil
	default:
		if err == nil {
			err = fmt.Errorf("unexpected insert outcome %d", outcome)
		}
		logger.Error("vote insert failed",
			"event", "recorder_insert_failed",
			"module", "elections/vote-pipeline",
			"layer", "worker",
			"tracking_id", task.TrackingID,
			"poll_id", task.PollID,
			"error", err.Error(),
		)
		return err
	}

	r.refreshResults(ctx, task.PollID, now)
	r.markStatus(ctx, task, entities.SubmissionStatusCompleted)
	if r.Stats != nil {
		if err := r.Stats.IncrementProcessed(ctx, now); err != nil {
			logger.Warn("processed counter update failed",
				"event", "recorder_stats_failed",
				"module", "elections/vote-pipeline",
				"layer", "worker",
				"error", err.Error(),
			)
		}
	}

	logger.Info("vote recorded",
		"event", "recorder_vote_recorded",
		"module", "elections/vote-pipeline",
		"layer", "worker",
		"tracking_id", task.TrackingID,
		"poll_id", task.PollID,
		"candidate_id", candidate.CandidateID,
	)
	return nil
}

// MarkFailed records the terminal status after the queue exhausts its retry
// policy for a task.
func (r VoteRecorder) MarkFailed(ctx context.Context, task entities.VoteTask, cause error) {
	logger := application.ResolveLogger(r.Logger)
	logger.Error("vote processing failed permanently",
		"event", "recorder_vote_failed",
		"module", "elections/vote-pipeline",
		"layer", "worker",
		"tracking_id", task.TrackingID,
		"poll_id", task.PollID,
		"error", cause.Error(),
	)
	r.markStatus(ctx, task, entities.SubmissionStatusFailed)
}

// refreshResults proactively recomputes the poll snapshot and the legacy
// global snapshot after a successful write. Failures here never roll back
// the vote: the ledger row is durable, only the cached view may lag until
// the next refresh or TTL expiry.
func (r VoteRecorder) refreshResults(ctx context.Context, pollID string, now time.Time) {
	logger := application.ResolveLogger(r.Logger)
	for _, target := range []string{pollID, ""} {
		generation, err := r.Results.Generation(ctx, target)
		if err != nil {
			logger.Warn("results generation read failed",
				"event", "recorder_results_refresh_failed",
				"module", "elections/vote-pipeline",
				"layer", "worker",
				"poll_id", target,
				"error", err.Error(),
			)
			continue
		}
		snapshot, err := application.BuildResultsSnapshot(ctx, r.Ledger, r.Candidates, target, now)
		if err != nil {
			logger.Warn("results recompute failed",
				"event", "recorder_results_refresh_failed",
				"module", "elections/vote-pipeline",
				"layer", "worker",
				"poll_id", target,
				"error", err.Error(),
			)
			continue
		}
		if err := r.Results.Put(ctx, target, generation, snapshot); err != nil {
			logger.Warn("results cache write failed",
				"event", "recorder_results_refresh_failed",
				"module", "elections/vote-pipeline",
				"layer", "worker",
				"poll_id", target,
				"error", err.Error(),
			)
		}
	}
}

func (r VoteRecorder) markStatus(ctx context.Context, task entities.VoteTask, status entities.SubmissionStatus) {
	logger := application.ResolveLogger(r.Logger)
	submission := entities.VoteSubmission{
		TrackingID:  task.TrackingID,
		PollID:      task.PollID,
		CandidateID: task.CandidateID,
		Email:       task.Email,
		Status:      status,
		QueuedAt:    task.EnqueuedAt,
	}
	if err := r.Statuses.PutSubmission(ctx, submission); err != nil {
		logger.Warn("submission status update failed",
			"event", "recorder_status_update_failed",
			"module", "elections/vote-pipeline",
			"layer", "worker",
			"tracking_id", task.TrackingID,
			"error", err.Error(),
		)
	}
}

func (r VoteRecorder) now() time.Time {
	now := time.Now().UTC()
	if r.Clock != nil {
		now = r.Clock.Now().UTC()
	}
	return now
}
