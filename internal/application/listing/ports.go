package listing

import (
	"context"
	"time"

	"github.com/baechuer/theatre-listing/internal/domain"
)

type Clock interface {
	Now() time.Time
}

type EventRepo interface {
	// ListEvents returns the published events matching f, ordered by start
	// time. now decides the upcoming/past window.
	ListEvents(ctx context.Context, f Filters, now time.Time) ([]*domain.Event, error)
	CategoryBySlug(ctx context.Context, slug string) (*domain.Category, error)
}

// Cache is the optional shared cache behind the per-listing memo.
type Cache interface {
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, val any, ttl time.Duration) error
	Purge(ctx context.Context, prefix string) (int, error)
}
