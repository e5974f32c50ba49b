package commands

import (
	"context"
	"log/slog"
	"strings"
	"time"

	application "votehub/contexts/elections/poll-service/application"
	"votehub/contexts/elections/poll-service/domain/entities"
	domainerrors "votehub/contexts/elections/poll-service/domain/errors"
	"votehub/contexts/elections/poll-service/ports"
)

type AddCandidateCommand struct {
	PollID  string
	ActorID string
	Draft   entities.CandidateDraft
}

type UpdateCandidateCommand struct {
	CandidateID string
	ActorID     string
	Name        *string
	Description *string
	PhotoURL    *string
}

// CandidateUseCase mutates a poll's candidate slate. Every mutation bumps
// the poll's results generation and drops the cached listing, because both
// derive from candidate rows.
type CandidateUseCase struct {
	Polls      ports.PollRepository
	Candidates ports.CandidateRepository
	Results    ports.ResultsInvalidator
	Listing    ports.ListingCache
	Clock      ports.Clock
	IDGen      ports.IDGenerator
	Logger     *slog.Logger
}

func (uc CandidateUseCase) AddCandidate(ctx context.Context, cmd AddCandidateCommand) (entities.Candidate, error) {
	pollID := strings.TrimSpace(cmd.PollID)
	name := strings.TrimSpace(cmd.Draft.Name)
	if pollID == "" || name == "" {
		return entities.Candidate{}, domainerrors.ErrInvalidCandidateInput
	}
	poll, err := uc.ownedPoll(ctx, pollID, cmd.ActorID)
	if err != nil {
		return entities.Candidate{}, err
	}

	candidateID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return entities.Candidate{}, err
	}
	candidate := entities.Candidate{
		CandidateID: candidateID,
		PollID:      poll.PollID,
		Name:        name,
		Description: strings.TrimSpace(cmd.Draft.Description),
		PhotoURL:    strings.TrimSpace(cmd.Draft.PhotoURL),
		CreatedAt:   uc.now(),
	}
	if err := uc.Candidates.AddCandidate(ctx, candidate); err != nil {
		return entities.Candidate{}, err
	}
	uc.invalidate(ctx, poll.PollID, "candidate_added", candidateID)
	return candidate, nil
}

func (uc CandidateUseCase) UpdateCandidate(ctx context.Context, cmd UpdateCandidateCommand) (entities.Candidate, error) {
	candidateID := strings.TrimSpace(cmd.CandidateID)
	if candidateID == "" {
		return entities.Candidate{}, domainerrors.ErrInvalidCandidateInput
	}
	candidate, err := uc.Candidates.GetCandidate(ctx, candidateID)
	if err != nil {
		return entities.Candidate{}, err
	}
	if _, err := uc.ownedPoll(ctx, candidate.PollID, cmd.ActorID); err != nil {
		return entities.Candidate{}, err
	}

	if cmd.Name != nil {
		name := strings.TrimSpace(*cmd.Name)
		if name == "" {
			return entities.Candidate{}, domainerrors.ErrInvalidCandidateInput
		}
		candidate.Name = name
	}
	if cmd.Description != nil {
		candidate.Description = strings.TrimSpace(*cmd.Description)
	}
	if cmd.PhotoURL != nil {
		candidate.PhotoURL = strings.TrimSpace(*cmd.PhotoURL)
	}
	if err := uc.Candidates.UpdateCandidate(ctx, candidate); err != nil {
		return entities.Candidate{}, err
	}
	uc.invalidate(ctx, candidate.PollID, "candidate_updated", candidate.CandidateID)
	return candidate, nil
}

func (uc CandidateUseCase) RemoveCandidate(ctx context.Context, candidateID string, actorID string) error {
	candidateID = strings.TrimSpace(candidateID)
	if candidateID == "" {
		return domainerrors.ErrInvalidCandidateInput
	}
	candidate, err := uc.Candidates.GetCandidate(ctx, candidateID)
	if err != nil {
		return err
	}
	if _, err := uc.ownedPoll(ctx, candidate.PollID, actorID); err != nil {
		return err
	}
	if err := uc.Candidates.RemoveCandidate(ctx, candidateID); err != nil {
		return err
	}
	uc.invalidate(ctx, candidate.PollID, "candidate_removed", candidateID)
	return nil
}

func (uc CandidateUseCase) ownedPoll(ctx context.Context, pollID string, actorID string) (entities.Poll, error) {
	actorID = strings.TrimSpace(actorID)
	if actorID == "" {
		return entities.Poll{}, domainerrors.ErrInvalidCandidateInput
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

func (uc CandidateUseCase) invalidate(ctx context.Context, pollID string, event string, candidateID string) {
	logger := application.ResolveLogger(uc.Logger)
	if uc.Results != nil {
		for _, target := range []string{pollID, ""} {
			if err := uc.Results.Invalidate(ctx, target); err != nil {
				logger.Warn("results cache invalidation failed",
					"event", "candidate_results_invalidate_failed",
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
				"event", "candidate_listing_invalidate_failed",
				"module", "elections/poll-service",
				"layer", "application",
				"poll_id", pollID,
				"error", err.Error(),
			)
		}
	}
	logger.Info("candidate slate changed",
		"event", event,
		"module", "elections/poll-service",
		"layer", "application",
		"poll_id", pollID,
		"candidate_id", candidateID,
	)
}

func (uc CandidateUseCase) now() time.Time {
	now := time.Now().UTC()
	if uc.Clock != nil {
		now = uc.Clock.Now().UTC()
	}
	return now
}
