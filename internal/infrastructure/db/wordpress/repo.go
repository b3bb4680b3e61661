package wordpress

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	zlog "github.com/rs/zerolog/log"

	"github.com/baechuer/theatre-listing/internal/application/listing"
	"github.com/baechuer/theatre-listing/internal/domain"
)

// MetaDateLayout is how the event_date post meta is stored.
const MetaDateLayout = "2006-01-02 15:04"

// nowLayout keeps the seconds so an event stored as 12:00 is past at 12:00:30.
const nowLayout = "2006-01-02 15:04:05"

type Options struct {
	TablePrefix        string
	EventPostType      string
	ProductionPostType string

	SiteURL        string
	UploadsURL     string
	ProductionBase string

	// Location is the site timezone event dates are stored in.
	Location *time.Location
}

func (o Options) withDefaults() Options {
	if o.TablePrefix == "" {
		o.TablePrefix = "wp_"
	}
	if o.EventPostType == "" {
		o.EventPostType = "event"
	}
	if o.ProductionPostType == "" {
		o.ProductionPostType = "production"
	}
	if o.ProductionBase == "" {
		o.ProductionBase = o.ProductionPostType
	}
	o.SiteURL = strings.TrimRight(o.SiteURL, "/")
	if o.UploadsURL == "" {
		o.UploadsURL = o.SiteURL + "/wp-content/uploads"
	}
	o.UploadsURL = strings.TrimRight(o.UploadsURL, "/")
	if o.Location == nil {
		o.Location = time.UTC
	}
	return o
}

func (o Options) table(name string) string { return o.TablePrefix + name }

type Repo struct {
	db   *sql.DB
	opts Options
}

func New(db *sql.DB, opts Options) *Repo {
	return &Repo{db: db, opts: opts.withDefaults()}
}

// BuildEventQuery assembles the event listing query for f. Clauses are only
// added for the filters that are set.
func BuildEventQuery(opts Options, f listing.Filters, now time.Time) (string, []any) {
	opts = opts.withDefaults()

	var b strings.Builder
	fmt.Fprintf(&b, eventListSQL,
		opts.table("posts"), opts.table("postmeta"), opts.table("term_relationships"))
	args := []any{opts.EventPostType, opts.ProductionPostType}

	add := func(cond string, val any) {
		b.WriteString("\n  AND ")
		b.WriteString(cond)
		args = append(args, val)
	}

	stamp := now.In(opts.Location).Format(nowLayout)
	if f.Upcoming {
		add("event_date.meta_value > ?", stamp)
	} else if f.Past {
		add("event_date.meta_value < ?", stamp)
	}
	if f.Month != "" {
		add("event_date.meta_value LIKE ?", f.Month+"%")
	}
	if f.Category != 0 {
		add("categories.term_taxonomy_id = ?", f.Category)
	}
	if f.Production != 0 {
		add("productions.meta_value = ?", strconv.FormatInt(f.Production, 10))
	}

	b.WriteString("\nGROUP BY events.ID")
	b.WriteString("\nORDER BY starts_at, events.ID")
	if f.Limit > 0 {
		b.WriteString("\nLIMIT ?")
		args = append(args, f.Limit)
	}
	return b.String(), args
}

func (r *Repo) ListEvents(ctx context.Context, f listing.Filters, now time.Time) ([]*domain.Event, error) {
	query, args := BuildEventQuery(r.opts, f, now)
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	events := []*domain.Event{}
	productionOf := map[int64]int64{}
	for rows.Next() {
		var (
			id         int64
			startsAt   string
			production string
		)
		if err := rows.Scan(&id, &startsAt, &production); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		t, err := ParseMetaDate(startsAt, r.opts.Location)
		if err != nil {
			// the query only admits date-shaped values; this catches e.g. month 13
			zlog.Warn().Int64("event_id", id).Str("event_date", startsAt).Msg("skipping event with bad date")
			continue
		}
		events = append(events, &domain.Event{ID: id, StartsAt: t})
		if pid, err := strconv.ParseInt(strings.TrimSpace(production), 10, 64); err == nil {
			productionOf[id] = pid
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	if len(events) == 0 {
		return events, nil
	}

	if err := r.hydrate(ctx, events, productionOf); err != nil {
		return nil, err
	}
	return events, nil
}

// hydrate fills in event meta and productions with one query per table
// rather than one per event.
func (r *Repo) hydrate(ctx context.Context, events []*domain.Event, productionOf map[int64]int64) error {
	byID := make(map[int64]*domain.Event, len(events))
	eventIDs := make([]int64, 0, len(events))
	for _, e := range events {
		byID[e.ID] = e
		eventIDs = append(eventIDs, e.ID)
	}

	if err := r.loadEventMeta(ctx, byID, eventIDs); err != nil {
		return err
	}

	seen := map[int64]bool{}
	productionIDs := []int64{}
	for _, e := range events {
		pid, ok := productionOf[e.ID]
		if !ok || seen[pid] {
			continue
		}
		seen[pid] = true
		productionIDs = append(productionIDs, pid)
	}
	if len(productionIDs) == 0 {
		return nil
	}

	productions, err := r.loadProductions(ctx, productionIDs)
	if err != nil {
		return err
	}
	for _, e := range events {
		if p, ok := productions[productionOf[e.ID]]; ok {
			e.Production = p
		}
	}
	return nil
}

func (r *Repo) loadEventMeta(ctx context.Context, byID map[int64]*domain.Event, ids []int64) error {
	in, args := inClause(ids)
	query := fmt.Sprintf(eventMetaSQL, r.opts.table("postmeta"), in)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("load event meta: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			postID     int64
			key, value string
		)
		if err := rows.Scan(&postID, &key, &value); err != nil {
			return fmt.Errorf("scan event meta: %w", err)
		}
		e, ok := byID[postID]
		if !ok {
			continue
		}
		switch key {
		case "venue":
			e.Venue = value
		case "city":
			e.City = value
		case "tickets_url":
			e.TicketsURL = value
		}
	}
	return rows.Err()
}

func (r *Repo) loadProductions(ctx context.Context, ids []int64) (map[int64]*domain.Production, error) {
	in, inArgs := inClause(ids)
	query := fmt.Sprintf(productionsSQL, r.opts.table("posts"), r.opts.table("postmeta"), in)
	args := append([]any{r.opts.ProductionPostType}, inArgs...)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("load productions: %w", err)
	}
	defer rows.Close()

	out := map[int64]*domain.Production{}
	for rows.Next() {
		var (
			p    domain.Production
			file string
		)
		if err := rows.Scan(&p.ID, &p.Title, &p.Slug, &p.Excerpt, &file); err != nil {
			return nil, fmt.Errorf("scan production: %w", err)
		}
		p.Permalink = r.permalink(p.Slug)
		if file != "" {
			p.ThumbnailURL = r.opts.UploadsURL + "/" + strings.TrimLeft(file, "/")
		}
		out[p.ID] = &p
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load productions: %w", err)
	}
	if len(out) == 0 {
		return out, nil
	}

	if err := r.loadProductionCategories(ctx, out, ids); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *Repo) loadProductionCategories(ctx context.Context, productions map[int64]*domain.Production, ids []int64) error {
	in, args := inClause(ids)
	query := fmt.Sprintf(productionCategoriesSQL,
		r.opts.table("term_relationships"), r.opts.table("term_taxonomy"), r.opts.table("terms"), in)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("load production categories: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			objectID int64
			c        domain.Category
		)
		if err := rows.Scan(&objectID, &c.TermID, &c.TermTaxonomyID, &c.Slug, &c.Name); err != nil {
			return fmt.Errorf("scan production category: %w", err)
		}
		if p, ok := productions[objectID]; ok {
			p.Categories = append(p.Categories, c)
		}
	}
	return rows.Err()
}

func (r *Repo) CategoryBySlug(ctx context.Context, slug string) (*domain.Category, error) {
	query := fmt.Sprintf(categoryBySlugSQL, r.opts.table("terms"), r.opts.table("term_taxonomy"))
	row := r.db.QueryRowContext(ctx, query, slug)

	var c domain.Category
	err := row.Scan(&c.TermID, &c.TermTaxonomyID, &c.Slug, &c.Name)
	if err == sql.ErrNoRows {
		return nil, domain.ErrNotFound("category not found")
	}
	if err != nil {
		return nil, fmt.Errorf("category by slug: %w", err)
	}
	return &c, nil
}

func (r *Repo) permalink(slug string) string {
	return r.opts.SiteURL + "/" + r.opts.ProductionBase + "/" + slug + "/"
}

// ParseMetaDate reads an event_date meta value, with or without seconds.
func ParseMetaDate(v string, loc *time.Location) (time.Time, error) {
	v = strings.TrimSpace(v)
	if t, err := time.ParseInLocation(MetaDateLayout, v, loc); err == nil {
		return t, nil
	}
	return time.ParseInLocation("2006-01-02 15:04:05", v, loc)
}

func inClause(ids []int64) (string, []any) {
	marks := make([]string, len(ids))
	args := make([]any, len(ids))
	for i, id := range ids {
		marks[i] = "?"
		args[i] = id
	}
	return strings.Join(marks, ","), args
}
