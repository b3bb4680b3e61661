package listing

import (
	"context"
	"net/url"
	"sort"
	"strings"
	"time"

	zlog "github.com/rs/zerolog/log"

	"github.com/baechuer/theatre-listing/internal/domain"
	"github.com/baechuer/theatre-listing/internal/metrics"
)

// Listing is a request-scoped, filterable view over the events. It is not
// safe for concurrent use.
type Listing struct {
	svc     *Service
	filters Filters
	now     time.Time

	// memo keyed by Filters.Hash; slots are never evicted
	events map[string][]*domain.Event
}

func (l *Listing) Filters() Filters { return l.filters }

func (l *Listing) SetFilters(f Filters) { l.filters = f }

// Now is the instant the listing measures upcoming and past against.
func (l *Listing) Now() time.Time { return l.now }

// Get returns the events for the current filters, loading them on first
// access. Later calls with the same filters return the same slice.
func (l *Listing) Get(ctx context.Context) ([]*domain.Event, error) {
	hash := l.filters.Hash()
	if events, ok := l.events[hash]; ok {
		metrics.RecordCache(metrics.LayerMemo, true)
		return events, nil
	}
	metrics.RecordCache(metrics.LayerMemo, false)

	if err := l.filters.Validate(); err != nil {
		return nil, err
	}
	events, err := l.svc.load(ctx, l.filters, l.now)
	if err != nil {
		return nil, err
	}
	l.events[hash] = events
	return events, nil
}

// All drops the time window and returns every event.
func (l *Listing) All(ctx context.Context) ([]*domain.Event, error) {
	l.filters.Past = false
	l.filters.Upcoming = false
	return l.Get(ctx)
}

func (l *Listing) Past(ctx context.Context) ([]*domain.Event, error) {
	l.filters.Upcoming = false
	l.filters.Past = true
	return l.Get(ctx)
}

func (l *Listing) Upcoming(ctx context.Context) ([]*domain.Event, error) {
	l.filters.Past = false
	l.filters.Upcoming = true
	return l.Get(ctx)
}

// Months lists every YYYY-MM that has events under the current filters,
// ignoring the month filter itself.
func (l *Listing) Months(ctx context.Context) ([]string, error) {
	current := l.filters.Month
	l.filters.Month = ""
	defer func() { l.filters.Month = current }()

	events, err := l.Get(ctx)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(events))
	months := make([]string, 0)
	for _, e := range events {
		m := e.Month()
		if _, ok := seen[m]; ok {
			continue
		}
		seen[m] = struct{}{}
		months = append(months, m)
	}
	sort.Strings(months)
	return months, nil
}

// Categories lists the categories of the productions that have events under
// the current filters, ignoring the category filter itself. The result is
// sorted by name.
func (l *Listing) Categories(ctx context.Context) ([]domain.Category, error) {
	current := l.filters.Category
	l.filters.Category = 0
	defer func() { l.filters.Category = current }()

	events, err := l.Get(ctx)
	if err != nil {
		return nil, err
	}

	bySlug := map[string]domain.Category{}
	for _, e := range events {
		if e.Production == nil {
			continue
		}
		for _, c := range e.Production.Categories {
			bySlug[c.Slug] = c
		}
	}

	out := make([]domain.Category, 0, len(bySlug))
	for _, c := range bySlug {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].Slug < out[j].Slug
	})
	return out, nil
}

// QueryKeys are the (localized) request parameter names for the month and
// category filters.
type QueryKeys struct {
	Month    string
	Category string
}

// ApplyQuery sets the month and category filters from request parameters.
// Malformed months and unknown category slugs are ignored.
func (l *Listing) ApplyQuery(ctx context.Context, q url.Values, keys QueryKeys) error {
	if v := strings.TrimSpace(q.Get(keys.Month)); v != "" {
		if IsMonth(v) {
			l.filters.Month = v
		} else {
			zlog.Debug().Str("month", v).Msg("ignoring malformed month")
		}
	}

	if slug := strings.TrimSpace(q.Get(keys.Category)); slug != "" {
		c, err := l.svc.repo.CategoryBySlug(ctx, slug)
		switch {
		case err == nil:
			l.filters.Category = c.TermTaxonomyID
		case domain.IsNotFound(err):
			zlog.Debug().Str("category", slug).Msg("ignoring unknown category")
		default:
			return err
		}
	}
	return nil
}
