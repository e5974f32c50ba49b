package queries

import (
	"context"
	"log/slog"
	"sort"
	"strings"

	application "votehub/contexts/elections/poll-service/application"
	"votehub/contexts/elections/poll-service/domain/entities"
	domainerrors "votehub/contexts/elections/poll-service/domain/errors"
	"votehub/contexts/elections/poll-service/ports"
)

type ListPollsUseCase struct {
	Polls  ports.PollRepository
	Logger *slog.Logger
}

func (uc ListPollsUseCase) Execute(ctx context.Context) ([]entities.Poll, error) {
	return uc.Polls.ListPolls(ctx)
}

// GetPollUseCase assembles the poll detail view: the poll plus each
// candidate's current vote count from the ledger.
type GetPollUseCase struct {
	Polls      ports.PollRepository
	Candidates ports.CandidateRepository
	Votes      ports.VoteCounter
	Logger     *slog.Logger
}

func (uc GetPollUseCase) Execute(ctx context.Context, pollID string) (entities.PollDetails, error) {
	pollID = strings.TrimSpace(pollID)
	if pollID == "" {
		return entities.PollDetails{}, domainerrors.ErrInvalidPollInput
	}
	poll, err := uc.Polls.GetPoll(ctx, pollID)
	if err != nil {
		return entities.PollDetails{}, err
	}
	candidates, err := uc.Candidates.ListCandidatesByPoll(ctx, pollID)
	if err != nil {
		return entities.PollDetails{}, err
	}
	counts, err := uc.Votes.CountByCandidate(ctx, pollID)
	if err != nil {
		// Serve the poll without tallies rather than failing the whole view.
		application.ResolveLogger(uc.Logger).Warn("vote tally lookup failed",
			"event", "poll_tally_lookup_failed",
			"module", "elections/poll-service",
			"layer", "application",
			"poll_id", pollID,
			"error", err.Error(),
		)
		counts = map[string]int64{}
	}

	tallies := make([]entities.CandidateTally, 0, len(candidates))
	var total int64
	for _, candidate := range candidates {
		votes := counts[candidate.CandidateID]
		total += votes
		tallies = append(tallies, entities.CandidateTally{
			Candidate: candidate,
			Votes:     votes,
		})
	}
	sort.SliceStable(tallies, func(i, j int) bool {
		if tallies[i].Votes != tallies[j].Votes {
			return tallies[i].Votes > tallies[j].Votes
		}
		return tallies[i].Candidate.CandidateID < tallies[j].Candidate.CandidateID
	})

	return entities.PollDetails{
		Poll:       poll,
		Candidates: tallies,
		TotalVotes: total,
	}, nil
}
