package dto

import (
	"time"

	"github.com/baechuer/theatre-listing/internal/domain"
)

func ToEventResp(e *domain.Event, now time.Time) EventResp {
	resp := EventResp{
		ID:         e.ID,
		StartsAt:   e.StartsAt,
		Month:      e.Month(),
		Venue:      e.Venue,
		City:       e.City,
		TicketsURL: e.TicketsURL,
		Past:       e.StartsAt.Before(now),
	}
	if p := e.Production; p != nil {
		resp.Production = &ProductionResp{
			ID:           p.ID,
			Title:        p.Title,
			Slug:         p.Slug,
			Permalink:    p.Permalink,
			ThumbnailURL: p.ThumbnailURL,
			Excerpt:      p.Excerpt,
			Categories:   ToCategoryResps(p.Categories),
		}
	}
	return resp
}

func ToListResp(events []*domain.Event, now time.Time) ListResp {
	items := make([]EventResp, 0, len(events))
	for _, e := range events {
		items = append(items, ToEventResp(e, now))
	}
	return ListResp{Items: items, Count: len(items)}
}

func ToCategoryResps(cs []domain.Category) []CategoryResp {
	out := make([]CategoryResp, 0, len(cs))
	for _, c := range cs {
		out = append(out, CategoryResp{Slug: c.Slug, Name: c.Name})
	}
	return out
}
