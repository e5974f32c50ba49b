package commands

import (
	"context"
	"log/slog"
	"strings"

	application "votehub/contexts/elections/poll-service/application"
	"votehub/contexts/elections/poll-service/domain/entities"
	domainerrors "votehub/contexts/elections/poll-service/domain/errors"
	"votehub/contexts/elections/poll-service/ports"
)

// LifecycleUseCase owns the start/stop/delete transitions. All three are
// owner-only; ownership is checked against the poll's CreatedBy.
type LifecycleUseCase struct {
	Polls   ports.PollRepository
	Results ports.ResultsInvalidator
	Listing ports.ListingCache
	Logger  *slog.Logger
}

// StartPoll opens the poll for voting and permanently marks it as started.
func (uc LifecycleUseCase) StartPoll(ctx context.Context, pollID string, actorID string) error {
	poll, err := uc.ownedPoll(ctx, pollID, actorID)
	if err != nil {
		return err
	}
	if poll.IsActive {
		return domainerrors.ErrPollAlreadyActive
	}
	if err := uc.Polls.SetPollState(ctx, poll.PollID, true, true); err != nil {
		return err
	}
	uc.logTransition("poll_started", poll.PollID, actorID)
	return nil
}

// StopPoll closes voting. WasStarted stays true, so a stopped poll no
// longer blocks its creator from opening a new one.
func (uc LifecycleUseCase) StopPoll(ctx context.Context, pollID string, actorID string) error {
	poll, err := uc.ownedPoll(ctx, pollID, actorID)
	if err != nil {
		return err
	}
	if !poll.IsActive {
		return domainerrors.ErrPollNotActive
	}
	if err := uc.Polls.SetPollState(ctx, poll.PollID, false, true); err != nil {
		return err
	}
	uc.logTransition("poll_stopped", poll.PollID, actorID)
	return nil
}

// DeletePoll removes the poll with its candidates and votes, then drops the
// derived caches so stale tallies cannot outlive the poll.
func (uc LifecycleUseCase) DeletePoll(ctx context.Context, pollID string, actorID string) error {
	poll, err := uc.ownedPoll(ctx, pollID, actorID)
	if err != nil {
		return err
	}
	if err := uc.Polls.DeletePoll(ctx, poll.PollID); err != nil {
		return err
	}
	uc.invalidateCaches(ctx, poll.PollID)
	uc.logTransition("poll_deleted", poll.PollID, actorID)
	return nil
}

func (uc LifecycleUseCase) ownedPoll(ctx context.Context, pollID string, actorID string) (entities.Poll, error) {
	pollID = strings.TrimSpace(pollID)
	actorID = strings.TrimSpace(actorID)
	if pollID == "" || actorID == "" {
		return entities.Poll{}, domainerrors.ErrInvalidPollInput
	}
	poll, err := uc.Polls.GetPoll(ctx, pollID)
	if err != nil {
		return entities.Poll{}, err
	}
	if poll.CreatedBy != actorID {
		return entities.Poll{}, domainerrors.ErrNotPollOwner
	}
	return poll, nil
}

// invalidateCaches is best effort: the snapshots expire on their own TTL if
// the bump fails.
func (uc LifecycleUseCase) invalidateCaches(ctx context.Context, pollID string) {
	logger := application.ResolveLogger(uc.Logger)
	if uc.Results != nil {
		for _, target := range []string{pollID, ""} {
			if err := uc.Results.Invalidate(ctx, target); err != nil {
				logger.Warn("results cache invalidation failed",
					"event", "poll_results_invalidate_failed",
					"module", "elections/poll-service",
					"layer", "application",
					"poll_id", pollID,
					"error", err.Error(),
				)
			}
		}
	}
	if uc.Listing != nil {
		if err := uc.Listing.InvalidateListing(ctx); err != nil {
			logger.Warn("candidate listing invalidation failed",
				"event", "poll_listing_invalidate_failed",
				"module", "elections/poll-service",
				"layer", "application",
				"poll_id", pollID,
				"error", err.Error(),
			)
		}
	}
}

func (uc LifecycleUseCase) logTransition(event string, pollID string, actorID string) {
	application.ResolveLogger(uc.Logger).Info("poll lifecycle transition",
		"event", event,
		"module", "elections/poll-service",
		"layer", "application",
		"poll_id", pollID,
		"actor_id", actorID,
	)
}
