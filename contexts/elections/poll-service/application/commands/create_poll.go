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

const minCandidates = 2

type CreatePollCommand struct {
	CreatorID  string
	Title      string
	Candidates []entities.CandidateDraft
}

type CreatePollResult struct {
	Poll       entities.Poll
	Candidates []entities.Candidate
}

// CreatePollUseCase creates a draft poll with its initial candidate slate.
// A creator may hold at most one in-flight poll (active, or never started);
// finished polls do not block a new one.
type CreatePollUseCase struct {
	Polls  ports.PollRepository
	Clock  ports.Clock
	IDGen  ports.IDGenerator
	Logger *slog.Logger
}

func (uc CreatePollUseCase) Execute(ctx context.Context, cmd CreatePollCommand) (CreatePollResult, error) {
	logger := application.ResolveLogger(uc.Logger)

	creatorID := strings.TrimSpace(cmd.CreatorID)
	title := strings.TrimSpace(cmd.Title)
	if creatorID == "" || title == "" {
		return CreatePollResult{}, domainerrors.ErrInvalidPollInput
	}
	drafts, err := normalizeDrafts(cmd.Candidates)
	if err != nil {
		return CreatePollResult{}, err
	}
	if len(drafts) < minCandidates {
		return CreatePollResult{}, domainerrors.ErrTooFewCandidates
	}

	inFlight, err := uc.Polls.HasInFlightPoll(ctx, creatorID)
	if err != nil {
		return CreatePollResult{}, err
	}
	if inFlight {
		logger.Info("poll creation blocked by in-flight poll",
			"event", "poll_create_blocked",
			"module", "elections/poll-service",
			"layer", "application",
			"creator_id", creatorID,
		)
		return CreatePollResult{}, domainerrors.ErrActiveOrDraftPollExists
	}

	pollID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return CreatePollResult{}, err
	}
	now := uc.now()
	poll := entities.Poll{
		PollID:     pollID,
		Title:      title,
		IsActive:   false,
		WasStarted: false,
		CreatedBy:  creatorID,
		CreatedAt:  now,
	}
	candidates := make([]entities.Candidate, 0, len(drafts))
	for _, draft := range drafts {
		candidateID, err := uc.IDGen.NewID(ctx)
		if err != nil {
			return CreatePollResult{}, err
		}
		candidates = append(candidates, entities.Candidate{
			CandidateID: candidateID,
			PollID:      pollID,
			Name:        draft.Name,
			Description: draft.Description,
			PhotoURL:    draft.PhotoURL,
			CreatedAt:   now,
		})
	}

	if err := uc.Polls.CreatePollWithCandidates(ctx, poll, candidates); err != nil {
		return CreatePollResult{}, err
	}

	logger.Info("poll created",
		"event", "poll_created",
		"module", "elections/poll-service",
		"layer", "application",
		"poll_id", pollID,
		"creator_id", creatorID,
		"candidates", len(candidates),
	)
	return CreatePollResult{Poll: poll, Candidates: candidates}, nil
}

func (uc CreatePollUseCase) now() time.Time {
	now := time.Now().UTC()
	if uc.Clock != nil {
		now = uc.Clock.Now().UTC()
	}
	return now
}

func normalizeDrafts(drafts []entities.CandidateDraft) ([]entities.CandidateDraft, error) {
	result := make([]entities.CandidateDraft, 0, len(drafts))
	for _, draft := range drafts {
		name := strings.TrimSpace(draft.Name)
		if name == "" {
			return nil, domainerrors.ErrInvalidCandidateInput
		}
		result = append(result, entities.CandidateDraft{
			Name:        name,
			Description: strings.TrimSpace(draft.Description),
			PhotoURL:    strings.TrimSpace(draft.PhotoURL),
		})
	}
	return result, nil
}
