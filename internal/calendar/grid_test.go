package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"calendr/internal/dates"
)

var wib = time.FixedZone("WIB", 7*60*60)

func TestBuildMonthGrid_Shape(t *testing.T) {
	t.Parallel()

	for year := 2020; year <= 2030; year++ {
		for m := time.January; m <= time.December; m++ {
			cells := BuildMonthGrid(year, m, wib)
			require.Len(t, cells, GridCells, "%d-%02d", year, m)

			assert.Equal(t, time.Sunday, cells[0].Date.Weekday(), "%d-%02d starts on Sunday", year, m)

			for i := 1; i < len(cells); i++ {
				want := dates.AddDays(cells[i-1].Date, 1)
				assert.True(t, want.Equal(cells[i].Date), "%d-%02d cell %d not consecutive", year, m, i)
			}

			// Exactly one contiguous run of current-month cells.
			runs, runLen := 0, 0
			for i, c := range cells {
				if c.IsCurrentMonth {
					runLen++
					if i == 0 || !cells[i-1].IsCurrentMonth {
						runs++
					}
				}
			}
			assert.Equal(t, 1, runs, "%d-%02d", year, m)
			assert.Equal(t, dates.DaysInMonth(year, m), runLen, "%d-%02d", year, m)
		}
	}
}

func TestBuildMonthGrid_January2025(t *testing.T) {
	t.Parallel()

	cells := BuildMonthGrid(2025, time.January, wib)

	assert.Equal(t, "2024-12-29", dates.Key(cells[0].Date))
	assert.False(t, cells[0].IsCurrentMonth)
	assert.Equal(t, "2025-01-01", dates.Key(cells[3].Date))
	assert.True(t, cells[3].IsCurrentMonth)
	assert.Equal(t, "2025-02-08", dates.Key(cells[41].Date))
	assert.False(t, cells[41].IsCurrentMonth)
}

func TestBuildMonthGrid_NormalizesMonth(t *testing.T) {
	t.Parallel()

	cells := BuildMonthGrid(2025, 13, wib)
	// January 2026 starts on a Thursday.
	assert.Equal(t, "2025-12-28", dates.Key(cells[0].Date))
	assert.False(t, cells[0].IsCurrentMonth)
	assert.True(t, cells[4].IsCurrentMonth)
	assert.Equal(t, "2026-01-01", dates.Key(cells[4].Date))

	zero := BuildMonthGrid(2025, 0, wib)
	assert.Equal(t, "2024-12-01", dates.Key(zero[0].Date))
	assert.True(t, zero[0].IsCurrentMonth)
}

func TestBuildMonthGrid_NilLocation(t *testing.T) {
	t.Parallel()

	cells := BuildMonthGrid(2025, time.March, nil)
	require.Len(t, cells, GridCells)
	assert.Equal(t, time.Local, cells[0].Date.Location())
}

func TestBuildYearGrid(t *testing.T) {
	t.Parallel()

	year := BuildYearGrid(2025, wib)
	for i, g := range year {
		assert.Equal(t, 2025, g.Year)
		assert.Equal(t, time.Month(i+1), g.Month)
		assert.Len(t, g.Cells, GridCells)
	}
	assert.Equal(t, "2025-11-30", dates.Key(year[11].Cells[0].Date))
}

func TestWeekDates(t *testing.T) {
	t.Parallel()

	week := WeekDates(time.Date(2025, 1, 15, 18, 45, 0, 0, wib))
	assert.Equal(t, "2025-01-12", dates.Key(week[0]))
	assert.Equal(t, "2025-01-18", dates.Key(week[6]))
	assert.Equal(t, 0, week[0].Hour())

	sunday := WeekDates(time.Date(2025, 1, 12, 0, 0, 0, 0, wib))
	assert.Equal(t, "2025-01-12", dates.Key(sunday[0]))
}
