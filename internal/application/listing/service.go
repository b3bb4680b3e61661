package listing

import (
	"context"
	"time"

	zlog "github.com/rs/zerolog/log"

	"github.com/baechuer/theatre-listing/internal/domain"
	"github.com/baechuer/theatre-listing/internal/metrics"
)

// Service is the long-lived factory for request-scoped listings.
type Service struct {
	repo  EventRepo
	clock Clock
	cache Cache

	ttl time.Duration
}

func New(repo EventRepo, clock Clock, cache Cache, ttl time.Duration) *Service {
	if ttl == 0 {
		ttl = 15 * time.Second
	}
	return &Service{
		repo:  repo,
		clock: clock,
		cache: cache,
		ttl:   ttl,
	}
}

// NewListing starts a listing with its own memo. The clock is read once so
// every query of the listing shares the same notion of "now".
func (s *Service) NewListing(f Filters) *Listing {
	return &Listing{
		svc:     s,
		filters: f,
		now:     s.clock.Now(),
		events:  map[string][]*domain.Event{},
	}
}

// Invalidate drops every shared cache entry. The per-listing memos are not
// touched; they die with their request.
func (s *Service) Invalidate(ctx context.Context) (int, error) {
	if s.cache == nil {
		return 0, nil
	}
	n, err := s.cache.Purge(ctx, cachePrefix)
	if err != nil {
		return 0, err
	}
	metrics.RecordInvalidation(n)
	zlog.Info().Int("keys", n).Msg("listing cache purged")
	return n, nil
}

func (s *Service) load(ctx context.Context, f Filters, now time.Time) ([]*domain.Event, error) {
	key := cacheKeyEvents(f.Hash())

	if s.cache != nil {
		var cached []*domain.Event
		found, err := s.cache.Get(ctx, key, &cached)
		if err != nil {
			zlog.Warn().Err(err).Str("key", key).Msg("cache list get failed")
		} else if found {
			metrics.RecordCache(metrics.LayerShared, true)
			zlog.Debug().Str("key", key).Msg("cache list hit")
			return nonNil(cached), nil
		} else {
			metrics.RecordCache(metrics.LayerShared, false)
		}
	}

	start := time.Now()
	events, err := s.repo.ListEvents(ctx, f, now)
	metrics.ObserveQuery(time.Since(start), err)
	if err != nil {
		return nil, err
	}
	events = nonNil(events)

	if s.cache != nil && len(events) > 0 {
		if err := s.cache.Set(ctx, key, events, s.ttl); err != nil {
			zlog.Warn().Err(err).Str("key", key).Msg("cache list set failed")
		}
	}
	return events, nil
}

func nonNil(events []*domain.Event) []*domain.Event {
	if events == nil {
		return []*domain.Event{}
	}
	return events
}
