package cacheadapter

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"votehub/contexts/elections/poll-service/domain/entities"
	"votehub/contexts/elections/poll-service/ports"
	platformcache "votehub/internal/platform/cache"
)

const (
	listingKey        = "candidates:all"
	defaultListingTTL = 5 * time.Minute
)

// Listing caches the public all-candidates view. Mutations invalidate it
// eagerly; the TTL bounds staleness after a missed invalidation.
type Listing struct {
	cache *platformcache.Client

	TTL time.Duration
}

func NewListing(client *platformcache.Client) *Listing {
	return &Listing{
		cache: client,
		TTL:   defaultListingTTL,
	}
}

func (l *Listing) GetListing(_ context.Context) ([]entities.Candidate, bool, error) {
	payload, ok := l.cache.Get(listingKey)
	if !ok {
		return nil, false, nil
	}
	var candidates []entities.Candidate
	if err := json.Unmarshal(payload, &candidates); err != nil {
		return nil, false, fmt.Errorf("decode candidate listing: %w", err)
	}
	return candidates, true, nil
}

func (l *Listing) PutListing(_ context.Context, candidates []entities.Candidate) error {
	payload, err := json.Marshal(candidates)
	if err != nil {
		return fmt.Errorf("encode candidate listing: %w", err)
	}
	l.cache.Set(listingKey, payload, l.TTL)
	return nil
}

func (l *Listing) InvalidateListing(_ context.Context) error {
	l.cache.Delete(listingKey)
	return nil
}

var _ ports.ListingCache = (*Listing)(nil)
