package termview

import (
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"calendr/internal/calendar"
	"calendr/internal/model"
)

var wib = time.FixedZone("WIB", 7*60*60)

func plainStyles() Styles {
	p := lipgloss.NewStyle()
	return Styles{
		Title: p, Weekday: p, Plain: p, Outside: p, Weekend: p, Holiday: p,
		HolidayOnWeekend: p, Optional: p, Marker: p, ListDate: p.Width(12),
	}
}

func TestRenderMonth(t *testing.T) {
	t.Parallel()

	events := []model.Event{
		{
			ID: "new-year", Title: "Tahun Baru Masehi", IsPublicHoliday: true,
			Start: time.Date(2025, 1, 1, 0, 0, 0, 0, wib),
			End:   time.Date(2025, 1, 1, 23, 59, 59, 0, wib),
		},
		{
			ID: "joint", Title: "Cuti Bersama", IsPublicHoliday: true, IsOptionalHoliday: true,
			Start: time.Date(2025, 1, 28, 0, 0, 0, 0, wib),
			End:   time.Date(2025, 1, 28, 23, 59, 59, 0, wib),
		},
	}
	idx := calendar.BuildIndex(events, wib)

	out := plainStyles().RenderMonth(2025, time.January, idx, events, wib)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")

	// Title, weekday header, six weeks, blank line, two holidays.
	require.Len(t, lines, 11)
	assert.Equal(t, "January 2025", strings.TrimSpace(lines[0]))
	assert.Equal(t, strings.Fields("Su Mo Tu We Th Fr Sa"), strings.Fields(lines[1]))
	assert.Equal(t, strings.Fields("29 30 31 1 2 3 4"), strings.Fields(lines[2]))
	assert.Contains(t, lines[6], "28•")
	assert.Equal(t, strings.Fields("2 3 4 5 6 7 8"), strings.Fields(lines[7]))

	assert.True(t, strings.HasPrefix(lines[9], "Wed Jan 1"))
	assert.Contains(t, lines[9], "Tahun Baru Masehi")
	assert.Contains(t, lines[10], "Cuti Bersama")
	assert.True(t, strings.HasSuffix(lines[10], "•"))
}

func TestRenderMonth_NoHolidays(t *testing.T) {
	t.Parallel()

	idx := calendar.BuildIndex(nil, wib)
	out := RenderMonth(2025, time.February, idx, nil, nil)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	assert.Len(t, lines, 8)
	assert.Contains(t, lines[0], "February 2025")
}
