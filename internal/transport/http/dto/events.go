package dto

import "time"

// EventResp is the JSON model of one listed event.
type EventResp struct {
	ID         int64           `json:"id"`
	StartsAt   time.Time       `json:"starts_at"`
	Month      string          `json:"month"`
	Venue      string          `json:"venue,omitempty"`
	City       string          `json:"city,omitempty"`
	TicketsURL string          `json:"tickets_url,omitempty"`
	Production *ProductionResp `json:"production,omitempty"`
	Past       bool            `json:"past"`
}

type ProductionResp struct {
	ID           int64          `json:"id"`
	Title        string         `json:"title"`
	Slug         string         `json:"slug"`
	Permalink    string         `json:"permalink"`
	ThumbnailURL string         `json:"thumbnail_url,omitempty"`
	Excerpt      string         `json:"excerpt,omitempty"`
	Categories   []CategoryResp `json:"categories"`
}

type CategoryResp struct {
	Slug string `json:"slug"`
	Name string `json:"name"`
}

type ListResp struct {
	Items []EventResp `json:"items"`
	Count int         `json:"count"`
}
