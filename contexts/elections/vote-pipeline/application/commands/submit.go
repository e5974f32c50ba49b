package commands

import (
	"context"
	"log/slog"
	"net/mail"
	"strings"
	"time"

	application "votehub/contexts/elections/vote-pipeline/application"
	"votehub/contexts/elections/vote-pipeline/domain/entities"
	domainerrors "votehub/contexts/elections/vote-pipeline/domain/errors"
	"votehub/contexts/elections/vote-pipeline/ports"
)

// SubmitVoteCommand is the write-model input for the poll-scoped vote flow.
type SubmitVoteCommand struct {
	PollID      string
	Email       string
	CandidateID string
}

// SubmitLegacyVoteCommand is the single-poll flow input; the target poll is
// resolved to the current active poll.
type SubmitLegacyVoteCommand struct {
	Email       string
	CandidateID string
}

// SubmitVoteResult is returned to the caller immediately; durability is
// confirmed later through the status tracker.
type SubmitVoteResult struct {
	TrackingID string
	PollID     string
	Status     entities.SubmissionStatus
}

// SubmitUseCase is the synchronous front door for a vote. It never blocks on
// the durable write: response latency is bounded by the guard check and the
// enqueue call.
type SubmitUseCase struct {
	Candidates ports.CandidateDirectory
	Polls      ports.PollDirectory
	Guard      ports.DuplicateGuard
	Queue      ports.VoteQueue
	Statuses   ports.StatusStore
	Clock      ports.Clock
	IDGen      ports.IDGenerator
	Logger     *slog.Logger
}

// SubmitVote validates the request, pre-screens it against the voted set,
// and queues the durable write. Duplicate pre-screen hits resolve without an
// enqueue; the ledger constraint remains the final authority either way.
func (uc SubmitUseCase) SubmitVote(ctx context.Context, cmd SubmitVoteCommand) (SubmitVoteResult, error) {
	logger := application.ResolveLogger(uc.Logger)
	email, err := normalizeEmail(cmd.Email)
	if err != nil {
		logger.Warn("vote submit validation failed",
			"event", "pipeline_submit_validation_failed",
			"module", "elections/vote-pipeline",
			"layer", "application",
			"poll_id", strings.TrimSpace(cmd.PollID),
		)
		return SubmitVoteResult{}, err
	}
	pollID := strings.TrimSpace(cmd.PollID)
	candidateID := strings.TrimSpace(cmd.CandidateID)
	if pollID == "" || candidateID == "" {
		return SubmitVoteResult{}, domainerrors.ErrInvalidVoteInput
	}

	poll, err := uc.Polls.GetPoll(ctx, pollID)
	if err != nil {
		return SubmitVoteResult{}, err
	}
	return uc.submit(ctx, poll, email, candidateID)
}

// SubmitLegacyVote serves the single-poll surface: the vote lands in the
// current active poll and shares the per-poll guard keyspace with the
// poll-scoped flow.
func (uc SubmitUseCase) SubmitLegacyVote(ctx context.Context, cmd SubmitLegacyVoteCommand) (SubmitVoteResult, error) {
	email, err := normalizeEmail(cmd.Email)
	if err != nil {
		return SubmitVoteResult{}, err
	}
	candidateID := strings.TrimSpace(cmd.CandidateID)
	if candidateID == "" {
		return SubmitVoteResult{}, domainerrors.ErrInvalidVoteInput
	}

	poll, err := uc.Polls.GetActivePoll(ctx)
	if err != nil {
		return SubmitVoteResult{}, err
	}
	return uc.submit(ctx, poll, email, candidateID)
}

func (uc SubmitUseCase) submit(
	ctx context.Context,
	poll ports.PollProjection,
	email string,
	candidateID string,
) (SubmitVoteResult, error) {
	logger := application.ResolveLogger(uc.Logger)
	if !poll.IsActive {
		return SubmitVoteResult{}, domainerrors.ErrPollNotActive
	}

	candidate, err := uc.Candidates.GetCandidate(ctx, candidateID)
	if err != nil {
		return SubmitVoteResult{}, err
	}
	if candidate.PollID != poll.PollID {
		return SubmitVoteResult{}, domainerrors.ErrCandidateNotInPoll
	}

	voted, err := uc.Guard.Check(ctx, poll.PollID, email)
	if err != nil {
		logger.Error("duplicate guard check failed",
			"event", "pipeline_guard_check_failed",
			"module", "elections/vote-pipeline",
			"layer", "application",
			"poll_id", poll.PollID,
			"error", err.Error(),
		)
		return SubmitVoteResult{}, err
	}
	if voted {
		logger.Info("vote rejected by duplicate guard",
			"event", "pipeline_submit_duplicate",
			"module", "elections/vote-pipeline",
			"layer", "application",
			"poll_id", poll.PollID,
		)
		return SubmitVoteResult{}, domainerrors.ErrDuplicateVote
	}
	if err := uc.Guard.Mark(ctx, poll.PollID, email); err != nil {
		return SubmitVoteResult{}, err
	}

	trackingID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return SubmitVoteResult{}, err
	}
	now := uc.now()

	// The queued record goes in before the enqueue so a consumer that wins
	// the race cannot have its terminal status overwritten back to queued.
	submission := entities.VoteSubmission{
		TrackingID:  trackingID,
		PollID:      poll.PollID,
		CandidateID: candidateID,
		Email:       email,
		Status:      entities.SubmissionStatusQueued,
		QueuedAt:    now,
	}
	if err := uc.Statuses.PutSubmission(ctx, submission); err != nil {
		// A missing status record only degrades the polling surface.
		logger.Warn("submission status write failed",
			"event", "pipeline_status_write_failed",
			"module", "elections/vote-pipeline",
			"layer", "application",
			"tracking_id", trackingID,
			"error", err.Error(),
		)
	}

	task := entities.VoteTask{
		TrackingID:  trackingID,
		PollID:      poll.PollID,
		CandidateID: candidateID,
		Email:       email,
		EnqueuedAt:  now,
	}
	if err := uc.Queue.EnqueueVote(ctx, task); err != nil {
		// Fail loudly rather than silently dropping the vote. The rollback
		// is best effort: a marked-but-never-recorded email is an accepted
		// trade-off when it fails too.
		if unmarkErr := uc.Guard.Unmark(ctx, poll.PollID, email); unmarkErr != nil {
			logger.Warn("guard rollback failed after enqueue error",
				"event", "pipeline_guard_rollback_failed",
				"module", "elections/vote-pipeline",
				"layer", "application",
				"poll_id", poll.PollID,
				"error", unmarkErr.Error(),
			)
		}
		if deleteErr := uc.Statuses.DeleteSubmission(ctx, trackingID, email); deleteErr != nil {
			logger.Warn("status rollback failed after enqueue error",
				"event", "pipeline_status_rollback_failed",
				"module", "elections/vote-pipeline",
				"layer", "application",
				"tracking_id", trackingID,
				"error", deleteErr.Error(),
			)
		}
		logger.Error("vote enqueue failed",
			"event", "pipeline_enqueue_failed",
			"module", "elections/vote-pipeline",
			"layer", "application",
			"poll_id", poll.PollID,
			"error", err.Error(),
		)
		return SubmitVoteResult{}, domainerrors.ErrQueueUnavailable
	}

	logger.Info("vote queued",
		"event", "pipeline_vote_queued",
		"module", "elections/vote-pipeline",
		"layer", "application",
		"tracking_id", trackingID,
		"poll_id", poll.PollID,
		"candidate_id", candidateID,
	)
	return SubmitVoteResult{
		TrackingID: trackingID,
		PollID:     poll.PollID,
		Status:     entities.SubmissionStatusQueued,
	}, nil
}

func (uc SubmitUseCase) now() time.Time {
	now := time.Now().UTC()
	if uc.Clock != nil {
		now = uc.Clock.Now().UTC()
	}
	return now
}

func normalizeEmail(raw string) (string, error) {
	email := strings.ToLower(strings.TrimSpace(raw))
	if email == "" {
		return "", domainerrors.ErrInvalidEmail
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", domainerrors.ErrInvalidEmail
	}
	return email, nil
}
