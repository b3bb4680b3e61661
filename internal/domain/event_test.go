package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEvent_Month(t *testing.T) {
	e := &Event{StartsAt: time.Date(2026, time.March, 14, 20, 15, 0, 0, time.UTC)}
	assert.Equal(t, "2026-03", e.Month())
	assert.Equal(t, e.StartsAt, e.Datetime())
}

func TestEvent_ProductionOrEmpty(t *testing.T) {
	t.Run("missing_production", func(t *testing.T) {
		e := &Event{}
		assert.NotNil(t, e.ProductionOrEmpty())
		assert.Equal(t, "", e.ProductionOrEmpty().Title)
	})

	t.Run("present_production", func(t *testing.T) {
		p := &Production{ID: 7, Title: "Hamlet"}
		e := &Event{Production: p}
		assert.Same(t, p, e.ProductionOrEmpty())
	})
}

func TestAppError(t *testing.T) {
	err := ErrValidationMeta("invalid query param", map[string]string{"limit": "must be >= 0"})
	assert.Contains(t, err.Error(), "validation_error: invalid query param")
	assert.True(t, IsNotFound(ErrNotFound("category not found")))
	assert.False(t, IsNotFound(err))
}
