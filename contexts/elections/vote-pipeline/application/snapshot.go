package application

import (
	"context"
	"math"
	"sort"
	"time"

	"votehub/contexts/elections/vote-pipeline/domain/entities"
	"votehub/contexts/elections/vote-pipeline/ports"
)

// BuildResultsSnapshot recomputes a poll's tally with a full group-by scan of
// the ledger joined with the current candidate set. An empty pollID builds
// the legacy global view. Candidates without votes appear with a zero count;
// a zero total yields zero percentages for every candidate.
func BuildResultsSnapshot(
	ctx context.Context,
	ledger ports.VoteLedger,
	directory ports.CandidateDirectory,
	pollID string,
	now time.Time,
) (entities.ResultsSnapshot, error) {
	counts, err := ledger.CountByCandidate(ctx, pollID)
	if err != nil {
		return entities.ResultsSnapshot{}, err
	}

	var candidates []ports.CandidateProjection
	if pollID == "" {
		candidates, err = directory.ListCandidates(ctx)
	} else {
		candidates, err = directory.ListCandidatesByPoll(ctx, pollID)
	}
	if err != nil {
		return entities.ResultsSnapshot{}, err
	}

	var total int64
	for _, votes := range counts {
		total += votes
	}

	items := make([]entities.CandidateResult, 0, len(candidates))
	for _, candidate := range candidates {
		votes := counts[candidate.CandidateID]
		percentage := 0.0
		if total > 0 {
			percentage = roundPercentage(float64(votes) / float64(total) * 100)
		}
		items = append(items, entities.CandidateResult{
			CandidateID: candidate.CandidateID,
			Name:        candidate.Name,
			Votes:       votes,
			Percentage:  percentage,
		})
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].Votes == items[j].Votes {
			return items[i].CandidateID < items[j].CandidateID
		}
		return items[i].Votes > items[j].Votes
	})

	return entities.ResultsSnapshot{
		PollID:     pollID,
		TotalVotes: total,
		Candidates: items,
		ComputedAt: now.UTC(),
	}, nil
}

func roundPercentage(value float64) float64 {
	return math.Round(value*100) / 100
}
