package dto

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baechuer/theatre-listing/internal/domain"
)

func TestToListResp(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	events := []*domain.Event{
		{ID: 1, StartsAt: now.Add(-time.Hour), Venue: "Hall"},
		{ID: 2, StartsAt: now.Add(time.Hour), Production: &domain.Production{
			ID: 10, Title: "Hamlet", Categories: []domain.Category{{TermTaxonomyID: 30, Slug: "drama", Name: "Drama"}},
		}},
	}

	resp := ToListResp(events, now)
	require.Equal(t, 2, resp.Count)

	assert.True(t, resp.Items[0].Past)
	assert.Nil(t, resp.Items[0].Production)
	assert.Equal(t, "2026-03", resp.Items[0].Month)

	assert.False(t, resp.Items[1].Past)
	require.NotNil(t, resp.Items[1].Production)
	assert.Equal(t, []CategoryResp{{Slug: "drama", Name: "Drama"}}, resp.Items[1].Production.Categories)
}

func TestToListResp_Empty(t *testing.T) {
	resp := ToListResp(nil, time.Now())
	assert.NotNil(t, resp.Items)
	assert.Zero(t, resp.Count)
}
