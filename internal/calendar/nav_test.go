package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"calendr/internal/dates"
	"calendr/internal/model"
)

func TestParseView(t *testing.T) {
	t.Parallel()

	for in, want := range map[string]model.View{
		"year":   model.ViewYear,
		"Month":  model.ViewMonth,
		"":       model.ViewMonth,
		" WEEK ": model.ViewWeek,
		"day":    model.ViewDay,
		"Agenda": model.ViewAgenda,
	} {
		got, err := ParseView(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseView("decade")
	assert.Error(t, err)
}

func TestStep(t *testing.T) {
	t.Parallel()

	d := at(2025, 1, 31, 0, 0)

	tests := []struct {
		view model.View
		dir  int
		want string
	}{
		{model.ViewYear, 1, "2026-01-31"},
		{model.ViewAgenda, -1, "2024-01-31"},
		{model.ViewMonth, 1, "2025-03-03"},
		{model.ViewMonth, -1, "2024-12-31"},
		{model.ViewWeek, 1, "2025-02-07"},
		{model.ViewDay, -5, "2025-01-30"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, dates.Key(Step(tt.view, d, tt.dir)), "%s %d", tt.view, tt.dir)
	}
}

func TestTitle(t *testing.T) {
	t.Parallel()

	d := time.Date(2025, 1, 5, 10, 0, 0, 0, wib)

	assert.Equal(t, "2025", Title(model.ViewYear, d))
	assert.Equal(t, "2025", Title(model.ViewAgenda, d))
	assert.Equal(t, "January 2025", Title(model.ViewMonth, d))
	assert.Equal(t, "Week of Jan 5", Title(model.ViewWeek, d))
	assert.Equal(t, "Sunday, January 5, 2025", Title(model.ViewDay, d))
}
