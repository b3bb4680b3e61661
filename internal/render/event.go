package render

import (
	"bytes"
	"fmt"
	"html/template"
	"slices"
	"strings"
	"time"

	"github.com/baechuer/theatre-listing/internal/domain"
)

// DefaultFields are the event fields rendered when Options.Fields is empty.
var DefaultFields = []string{"title", "datetime", "location", "excerpt"}

type eventField struct {
	Name string
	Text string
	Link string
	HTML template.HTML
}

type eventView struct {
	Type         string
	Thumbnail    string
	Title        string
	Fields       []eventField
	TicketsURL   string
	TicketsLabel string
}

// Event renders the fragment of a single event.
func (r *Renderer) Event(e *domain.Event, opts Options) (string, error) {
	p := e.ProductionOrEmpty()
	view := eventView{
		Type:         r.eventType,
		Title:        p.Title,
		TicketsLabel: r.tr.T("label.tickets"),
	}
	if opts.Thumbnail {
		view.Thumbnail = p.ThumbnailURL
	}
	if opts.Tickets {
		view.TicketsURL = e.TicketsURL
	}

	fields := opts.Fields
	if len(fields) == 0 {
		fields = DefaultFields
	}
	for _, name := range fields {
		if slices.Contains(opts.Hide, name) {
			continue
		}
		f, ok, err := r.field(e, p, name)
		if err != nil {
			return "", err
		}
		if ok {
			view.Fields = append(view.Fields, f)
		}
	}

	return execute("event", view)
}

func (r *Renderer) field(e *domain.Event, p *domain.Production, name string) (eventField, bool, error) {
	f := eventField{Name: name}
	switch name {
	case "title":
		f.Text, f.Link = p.Title, p.Permalink
	case "datetime":
		f.Text = r.formatDatetime(e.StartsAt)
	case "date":
		f.Text = r.formatDate(e.StartsAt)
	case "time":
		f.Text = e.StartsAt.Format("15:04")
	case "location":
		f.Text = joinNonEmpty(", ", e.Venue, e.City)
	case "venue":
		f.Text = e.Venue
	case "city":
		f.Text = e.City
	case "excerpt":
		if strings.TrimSpace(p.Excerpt) == "" {
			return f, false, nil
		}
		var buf bytes.Buffer
		if err := r.md.Convert([]byte(p.Excerpt), &buf); err != nil {
			return f, false, fmt.Errorf("render excerpt: %w", err)
		}
		f.HTML = template.HTML(strings.TrimSpace(buf.String()))
		return f, true, nil
	default:
		return f, false, nil
	}
	return f, f.Text != "", nil
}

// formatDate renders "2 March 2026" with a localized month name.
func (r *Renderer) formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return fmt.Sprintf("%d %s %d", t.Day(), r.tr.MonthLong(t.Month()), t.Year())
}

func (r *Renderer) formatDatetime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return r.formatDate(t) + " " + t.Format("15:04")
}

func joinNonEmpty(sep string, parts ...string) string {
	out := parts[:0:0]
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, sep)
}

func monthOf(m int) time.Month { return time.Month(m) }
