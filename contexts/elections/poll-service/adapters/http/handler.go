package httpadapter

import (
	"context"
	"time"

	"votehub/contexts/elections/poll-service/application/commands"
	"votehub/contexts/elections/poll-service/application/queries"
	"votehub/contexts/elections/poll-service/domain/entities"
	httptransport "votehub/contexts/elections/poll-service/transport/http"
)

type Handler struct {
	CreatePoll     commands.CreatePollUseCase
	Lifecycle      commands.LifecycleUseCase
	Candidates     commands.CandidateUseCase
	ListPolls      queries.ListPollsUseCase
	GetPoll        queries.GetPollUseCase
	ListCandidates queries.ListCandidatesUseCase
}

func (h Handler) CreatePollHandler(ctx context.Context, userID string, req httptransport.CreatePollRequest) (httptransport.CreatePollResponse, error) {
	drafts := make([]entities.CandidateDraft, 0, len(req.Candidates))
	for _, candidate := range req.Candidates {
		drafts = append(drafts, entities.CandidateDraft{
			Name:        candidate.Name,
			Description: candidate.Description,
			PhotoURL:    candidate.PhotoURL,
		})
	}
	result, err := h.CreatePoll.Execute(ctx, commands.CreatePollCommand{
		CreatorID:  userID,
		Title:      req.Title,
		Candidates: drafts,
	})
	if err != nil {
		return httptransport.CreatePollResponse{}, err
	}
	candidates := make([]httptransport.CandidateDTO, 0, len(result.Candidates))
	for _, candidate := range result.Candidates {
		candidates = append(candidates, mapCandidate(candidate))
	}
	return httptransport.CreatePollResponse{
		Poll:       mapPoll(result.Poll),
		Candidates: candidates,
	}, nil
}

func (h Handler) StartPollHandler(ctx context.Context, userID string, pollID string) error {
	return h.Lifecycle.StartPoll(ctx, pollID, userID)
}

func (h Handler) StopPollHandler(ctx context.Context, userID string, pollID string) error {
	return h.Lifecycle.StopPoll(ctx, pollID, userID)
}

func (h Handler) DeletePollHandler(ctx context.Context, userID string, pollID string) error {
	return h.Lifecycle.DeletePoll(ctx, pollID, userID)
}

func (h Handler) ListPollsHandler(ctx context.Context) (httptransport.ListPollsResponse, error) {
	polls, err := h.ListPolls.Execute(ctx)
	if err != nil {
		return httptransport.ListPollsResponse{}, err
	}
	items := make([]httptransport.PollDTO, 0, len(polls))
	for _, poll := range polls {
		items = append(items, mapPoll(poll))
	}
	return httptransport.ListPollsResponse{Items: items}, nil
}

func (h Handler) GetPollHandler(ctx context.Context, pollID string) (httptransport.GetPollResponse, error) {
	details, err := h.GetPoll.Execute(ctx, pollID)
	if err != nil {
		return httptransport.GetPollResponse{}, err
	}
	tallies := make([]httptransport.CandidateTallyDTO, 0, len(details.Candidates))
	for _, tally := range details.Candidates {
		tallies = append(tallies, httptransport.CandidateTallyDTO{
			Candidate: mapCandidate(tally.Candidate),
			Votes:     tally.Votes,
		})
	}
	return httptransport.GetPollResponse{
		Poll:       mapPoll(details.Poll),
		Candidates: tallies,
		TotalVotes: details.TotalVotes,
	}, nil
}

func (h Handler) AddCandidateHandler(ctx context.Context, userID string, req httptransport.AddCandidateRequest) (httptransport.CandidateResponse, error) {
	candidate, err := h.Candidates.AddCandidate(ctx, commands.AddCandidateCommand{
		PollID:  req.PollID,
		ActorID: userID,
		Draft: entities.CandidateDraft{
			Name:        req.Candidate.Name,
			Description: req.Candidate.Description,
			PhotoURL:    req.Candidate.PhotoURL,
		},
	})
	if err != nil {
		return httptransport.CandidateResponse{}, err
	}
	return httptransport.CandidateResponse{Candidate: mapCandidate(candidate)}, nil
}

func (h Handler) UpdateCandidateHandler(ctx context.Context, userID string, candidateID string, req httptransport.UpdateCandidateRequest) (httptransport.CandidateResponse, error) {
	candidate, err := h.Candidates.UpdateCandidate(ctx, commands.UpdateCandidateCommand{
		CandidateID: candidateID,
		ActorID:     userID,
		Name:        req.Name,
		Description: req.Description,
		PhotoURL:    req.PhotoURL,
	})
	if err != nil {
		return httptransport.CandidateResponse{}, err
	}
	return httptransport.CandidateResponse{Candidate: mapCandidate(candidate)}, nil
}

func (h Handler) RemoveCandidateHandler(ctx context.Context, userID string, candidateID string) error {
	return h.Candidates.RemoveCandidate(ctx, candidateID, userID)
}

func (h Handler) ListCandidatesHandler(ctx context.Context) (httptransport.ListCandidatesResponse, error) {
	listing, err := h.ListCandidates.Execute(ctx)
	if err != nil {
		return httptransport.ListCandidatesResponse{}, err
	}
	items := make([]httptransport.CandidateDTO, 0, len(listing.Candidates))
	for _, candidate := range listing.Candidates {
		items = append(items, mapCandidate(candidate))
	}
	return httptransport.ListCandidatesResponse{
		Items:  items,
		Cached: listing.Cached,
	}, nil
}

func mapPoll(poll entities.Poll) httptransport.PollDTO {
	return httptransport.PollDTO{
		PollID:     poll.PollID,
		Title:      poll.Title,
		IsActive:   poll.IsActive,
		WasStarted: poll.WasStarted,
		CreatedBy:  poll.CreatedBy,
		CreatedAt:  poll.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func mapCandidate(candidate entities.Candidate) httptransport.CandidateDTO {
	return httptransport.CandidateDTO{
		CandidateID: candidate.CandidateID,
		PollID:      candidate.PollID,
		Name:        candidate.Name,
		Description: candidate.Description,
		PhotoURL:    candidate.PhotoURL,
		CreatedAt:   candidate.CreatedAt.UTC().Format(time.RFC3339),
	}
}
