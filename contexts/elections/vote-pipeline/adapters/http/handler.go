package httpadapter

import (
	"context"
	"time"

	"votehub/contexts/elections/vote-pipeline/application/commands"
	"votehub/contexts/elections/vote-pipeline/application/queries"
	"votehub/contexts/elections/vote-pipeline/domain/entities"
	httptransport "votehub/contexts/elections/vote-pipeline/transport/http"
)

const acceptedMessage = "Vote accepted for processing"

type Handler struct {
	Submit  commands.SubmitUseCase
	Results queries.ResultsUseCase
	Status  queries.StatusUseCase
}

func (h Handler) SubmitVoteHandler(ctx context.Context, pollID string, req httptransport.SubmitVoteRequest) (httptransport.SubmitVoteResponse, error) {
	result, err := h.Submit.SubmitVote(ctx, commands.SubmitVoteCommand{
		PollID:      pollID,
		Email:       req.Email,
		CandidateID: req.CandidateID,
	})
	if err != nil {
		return httptransport.SubmitVoteResponse{}, err
	}
	return mapSubmitResult(result), nil
}

func (h Handler) SubmitLegacyVoteHandler(ctx context.Context, req httptransport.SubmitVoteRequest) (httptransport.SubmitVoteResponse, error) {
	result, err := h.Submit.SubmitLegacyVote(ctx, commands.SubmitLegacyVoteCommand{
		Email:       req.Email,
		CandidateID: req.CandidateID,
	})
	if err != nil {
		return httptransport.SubmitVoteResponse{}, err
	}
	return mapSubmitResult(result), nil
}

func (h Handler) PollResultsHandler(ctx context.Context, pollID string) (httptransport.PollResultsResponse, error) {
	view, err := h.Results.PollResults(ctx, pollID)
	if err != nil {
		return httptransport.PollResultsResponse{}, err
	}
	return httptransport.PollResultsResponse{
		PollID:     pollID,
		TotalVotes: view.Snapshot.TotalVotes,
		Results:    mapCandidateResults(view.Snapshot.Candidates),
		Cached:     view.Cached,
		ComputedAt: view.Snapshot.ComputedAt.UTC().Format(time.RFC3339),
	}, nil
}

func (h Handler) LegacyResultsHandler(ctx context.Context) (httptransport.LegacyResultsResponse, error) {
	view, err := h.Results.LegacyResults(ctx)
	if err != nil {
		return httptransport.LegacyResultsResponse{}, err
	}
	return httptransport.LegacyResultsResponse{
		TotalVotes: view.Snapshot.TotalVotes,
		Results:    mapCandidateResults(view.Snapshot.Candidates),
		Cached:     view.Cached,
	}, nil
}

func (h Handler) VoteStatusHandler(ctx context.Context, identifier string) (httptransport.VoteStatusResponse, error) {
	view, err := h.Status.Status(ctx, identifier)
	if err != nil {
		return httptransport.VoteStatusResponse{}, err
	}
	return httptransport.VoteStatusResponse{
		TrackingID:  view.TrackingID,
		PollID:      view.PollID,
		CandidateID: view.CandidateID,
		Email:       view.Email,
		Status:      string(view.Status),
	}, nil
}

func (h Handler) QueueStatsHandler(ctx context.Context) (httptransport.QueueStatsResponse, error) {
	stats, err := h.Status.QueueStats(ctx)
	if err != nil {
		return httptransport.QueueStatsResponse{}, err
	}
	return httptransport.QueueStatsResponse{
		QueueLength:    stats.QueueLength,
		ProcessedToday: stats.ProcessedToday,
		QueueWorkers:   stats.QueueWorkers,
	}, nil
}

func mapSubmitResult(result commands.SubmitVoteResult) httptransport.SubmitVoteResponse {
	return httptransport.SubmitVoteResponse{
		Message:    acceptedMessage,
		TrackingID: result.TrackingID,
		PollID:     result.PollID,
		Status:     string(result.Status),
	}
}

func mapCandidateResults(items []entities.CandidateResult) []httptransport.CandidateResultDTO {
	result := make([]httptransport.CandidateResultDTO, 0, len(items))
	for _, item := range items {
		result = append(result, httptransport.CandidateResultDTO{
			CandidateID: item.CandidateID,
			Name:        item.Name,
			Votes:       item.Votes,
			Percentage:  item.Percentage,
		})
	}
	return result
}
