// Package render turns a listing into HTML: the event list with its month
// and category navigation, and schema.org microdata.
package render

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"net/url"
	"slices"
	"strings"

	"github.com/google/uuid"
	"github.com/yuin/goldmark"
	goldmarkHTML "github.com/yuin/goldmark/renderer/html"

	"github.com/baechuer/theatre-listing/internal/application/listing"
	"github.com/baechuer/theatre-listing/internal/domain"
	"github.com/baechuer/theatre-listing/internal/i18n"
)

//go:embed templates/*.gohtml
var templatesFS embed.FS

var templates = template.Must(template.New("render").ParseFS(templatesFS, "templates/*.gohtml"))

const (
	PaginateMonth    = "month"
	PaginateCategory = "category"
)

// Options controls HTML output.
type Options struct {
	// Deprecated: use PaginateBy with PaginateMonth.
	Paged bool

	Grouped    bool
	Thumbnail  bool
	Tickets    bool
	Fields     []string
	Hide       []string
	PaginateBy []string
}

func DefaultOptions() Options {
	return Options{Thumbnail: true, Tickets: true}
}

type MetaOptions struct {
	// Limit caps the number of events; 0 means all.
	Limit int
}

type Renderer struct {
	tr             *i18n.Translator
	eventType      string
	productionType string

	md    goldmark.Markdown
	newID func() string
}

func New(tr *i18n.Translator, eventType, productionType string) *Renderer {
	if eventType == "" {
		eventType = "event"
	}
	if productionType == "" {
		productionType = "production"
	}
	return &Renderer{
		tr:             tr,
		eventType:      eventType,
		productionType: productionType,
		// raw HTML in excerpts is escaped (WithUnsafe is not set)
		md:    goldmark.New(goldmark.WithRendererOptions(goldmarkHTML.WithHardWraps())),
		newID: func() string { return strings.ReplaceAll(uuid.NewString(), "-", "") },
	}
}

type navItem struct {
	Title  string
	URL    string
	Active bool
}

type categoryNav struct {
	AllLabel string
	AllURL   string
	Items    []navItem
}

type listingItem struct {
	Header string
	Event  template.HTML
}

type listingView struct {
	Classes     string
	MonthNav    []navItem
	CategoryNav *categoryNav
	Items       []listingItem
}

// HTML renders the events of l. page is the URL of the current request; the
// navigation links are built from it.
func (r *Renderer) HTML(ctx context.Context, l *listing.Listing, page *url.URL, opts Options) (string, error) {
	if page == nil {
		page = &url.URL{Path: "/"}
	}
	paginateBy := slices.Clone(opts.PaginateBy)
	if opts.Paged && !slices.Contains(paginateBy, PaginateMonth) {
		paginateBy = append(paginateBy, PaginateMonth)
	}

	view := listingView{Classes: "wpt_events"}
	if !opts.Thumbnail {
		view.Classes += " wpt_events_without_thumbnail"
	}

	if slices.Contains(paginateBy, PaginateMonth) {
		nav, err := r.monthNav(ctx, l, page)
		if err != nil {
			return "", err
		}
		view.MonthNav = nav
	}

	if slices.Contains(paginateBy, PaginateCategory) {
		nav, err := r.categoryNav(ctx, l, page)
		if err != nil {
			return "", err
		}
		view.CategoryNav = nav
	}

	events, err := l.Get(ctx)
	if err != nil {
		return "", err
	}

	group := ""
	for _, e := range events {
		item := listingItem{}
		if opts.Grouped {
			if m := e.Month(); m != group {
				item.Header = r.tr.MonthLong(e.StartsAt.Month())
				group = m
			}
		}
		fragment, err := r.Event(e, opts)
		if err != nil {
			return "", err
		}
		item.Event = template.HTML(fragment)
		view.Items = append(view.Items, item)
	}

	return execute("listing", view)
}

// monthNav lists every month with events. Without a requested month the
// first one becomes the active page and the listing is narrowed to it.
func (r *Renderer) monthNav(ctx context.Context, l *listing.Listing, page *url.URL) ([]navItem, error) {
	months, err := l.Months(ctx)
	if err != nil {
		return nil, err
	}

	f := l.Filters()
	active := f.Month
	if active == "" && len(months) > 0 {
		active = months[0]
		f.Month = active
		l.SetFilters(f)
	}

	key := r.tr.MonthKey()
	items := make([]navItem, 0, len(months))
	for _, m := range months {
		items = append(items, navItem{
			Title:  r.monthTitle(m),
			URL:    withQueryArg(page, key, m),
			Active: m == active,
		})
	}
	return items, nil
}

func (r *Renderer) categoryNav(ctx context.Context, l *listing.Listing, page *url.URL) (*categoryNav, error) {
	categories, err := l.Categories(ctx)
	if err != nil {
		return nil, err
	}

	key := r.tr.CategoryKey()
	active := l.Filters().Category
	nav := &categoryNav{
		AllLabel: r.tr.T("label.all") + " " + r.tr.T("label.categories"),
	}
	if active != 0 {
		nav.AllURL = withQueryArg(page, key, "")
	}
	for _, c := range categories {
		nav.Items = append(nav.Items, navItem{
			Title:  c.Name,
			URL:    withQueryArg(page, key, c.Slug),
			Active: c.TermTaxonomyID == active,
		})
	}
	return nav, nil
}

// monthTitle renders a YYYY-MM month as a localized "Mar 2026".
func (r *Renderer) monthTitle(month string) string {
	var year, m int
	if _, err := fmt.Sscanf(month, "%d-%d", &year, &m); err != nil || m < 1 || m > 12 {
		return month
	}
	return fmt.Sprintf("%s %d", r.tr.MonthShort(monthOf(m)), year)
}

// HTMLListing renders the listing.
//
// Deprecated: use HTML.
func (r *Renderer) HTMLListing(ctx context.Context, l *listing.Listing, page *url.URL, opts Options) (string, error) {
	return r.HTML(ctx, l, page, opts)
}

type metaEvent struct {
	StartDate string
	Venue     string
	City      string
}

type metaView struct {
	Type       string
	Prefix     string
	ID         string
	ItemRef    string
	Production *domain.Production
	Events     []metaEvent
}

// Meta renders schema.org Event microdata for the first opts.Limit events.
// The production's name, url and image are emitted once, on the first event;
// the other events point at them with itemref.
func (r *Renderer) Meta(ctx context.Context, l *listing.Listing, opts MetaOptions) (string, error) {
	events, err := l.Get(ctx)
	if err != nil {
		return "", err
	}
	if opts.Limit > 0 && len(events) > opts.Limit {
		events = events[:opts.Limit]
	}
	if len(events) == 0 {
		return "", nil
	}

	id := r.newID()
	view := metaView{
		Type:       r.eventType,
		Prefix:     r.productionType,
		ID:         id,
		Production: events[0].ProductionOrEmpty(),
		ItemRef: strings.Join([]string{
			r.productionType + "_title_" + id,
			r.productionType + "_permalink_" + id,
			r.productionType + "_thumbnail_" + id,
		}, " "),
	}
	for _, e := range events {
		view.Events = append(view.Events, metaEvent{
			StartDate: e.StartsAt.Format("2006-01-02T15:04:05-07:00"),
			Venue:     e.Venue,
			City:      e.City,
		})
	}
	return execute("meta", view)
}

// MetaListing renders the microdata.
//
// Deprecated: use Meta.
func (r *Renderer) MetaListing(ctx context.Context, l *listing.Listing, opts MetaOptions) (string, error) {
	return r.Meta(ctx, l, opts)
}

func execute(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	return buf.String(), nil
}
