package domain

import "time"

// MonthLayout is the YYYY-MM form used for month filters and navigation.
const MonthLayout = "2006-01"

// Event is one scheduled performance of a Production.
type Event struct {
	ID         int64
	StartsAt   time.Time
	Venue      string
	City       string
	TicketsURL string

	Production *Production
}

func (e *Event) Datetime() time.Time { return e.StartsAt }

// Month returns the YYYY-MM the event starts in.
func (e *Event) Month() string { return e.StartsAt.Format(MonthLayout) }

// ProductionOrEmpty never returns nil, so renderers can read fields of
// events whose production post is missing or unpublished.
func (e *Event) ProductionOrEmpty() *Production {
	if e.Production == nil {
		return &Production{}
	}
	return e.Production
}

// Production is a theatrical work, the parent of one or more events.
type Production struct {
	ID           int64
	Title        string
	Slug         string
	Permalink    string
	ThumbnailURL string
	Excerpt      string
	Categories   []Category
}

// Category is a WordPress term in the "category" taxonomy.
type Category struct {
	TermID         int64
	TermTaxonomyID int64
	Slug           string
	Name           string
}
