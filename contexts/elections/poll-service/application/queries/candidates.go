package queries

import (
	"context"
	"log/slog"

	application "votehub/contexts/elections/poll-service/application"
	"votehub/contexts/elections/poll-service/domain/entities"
	"votehub/contexts/elections/poll-service/ports"
)

// CandidateListing is the listing plus whether it was served from cache.
type CandidateListing struct {
	Candidates []entities.Candidate
	Cached     bool
}

// ListCandidatesUseCase serves the public all-candidates listing through a
// short-lived cache. Slate mutations drop the cache eagerly, so the TTL only
// matters as an upper bound.
type ListCandidatesUseCase struct {
	Candidates ports.CandidateRepository
	Listing    ports.ListingCache
	Logger     *slog.Logger
}

func (uc ListCandidatesUseCase) Execute(ctx context.Context) (CandidateListing, error) {
	logger := application.ResolveLogger(uc.Logger)
	if uc.Listing != nil {
		cached, hit, err := uc.Listing.GetListing(ctx)
		if err != nil {
			logger.Warn("candidate listing cache read failed",
				"event", "candidate_listing_read_failed",
				"module", "elections/poll-service",
				"layer", "application",
				"error", err.Error(),
			)
		} else if hit {
			return CandidateListing{Candidates: cached, Cached: true}, nil
		}
	}

	candidates, err := uc.Candidates.ListCandidates(ctx)
	if err != nil {
		return CandidateListing{}, err
	}
	if uc.Listing != nil {
		if err := uc.Listing.PutListing(ctx, candidates); err != nil {
			logger.Warn("candidate listing cache write failed",
				"event", "candidate_listing_write_failed",
				"module", "elections/poll-service",
				"layer", "application",
				"error", err.Error(),
			)
		}
	}
	return CandidateListing{Candidates: candidates, Cached: false}, nil
}
