package calendar

import (
	"math"
	"sort"
	"time"

	"calendr/internal/dates"
	"calendr/internal/model"
)

// LayoutOptions sizes the day-view time grid, in pixels.
type LayoutOptions struct {
	// RowHeight is the height of one hour.
	RowHeight float64
	// MinHeight keeps short events legible.
	MinHeight   float64
	ColumnWidth int
	ColumnGap   int
}

// DefaultLayoutOptions matches a 64px hour row with a half-hour minimum.
func DefaultLayoutOptions() LayoutOptions {
	return LayoutOptions{
		RowHeight:   64,
		MinHeight:   32,
		ColumnWidth: 160,
		ColumnGap:   8,
	}
}

func (o LayoutOptions) normalized() LayoutOptions {
	def := DefaultLayoutOptions()
	if o.RowHeight <= 0 {
		o.RowHeight = def.RowHeight
	}
	if o.MinHeight < 0 {
		o.MinHeight = 0
	}
	if o.ColumnWidth <= 0 {
		o.ColumnWidth = def.ColumnWidth
	}
	if o.ColumnGap < 0 {
		o.ColumnGap = 0
	}
	return o
}

type placed struct {
	ev    model.Event
	start time.Time
	end   time.Time
}

// LayoutDay positions the events shown on day in non-overlapping columns.
//
// Events are sorted by start, longer first on ties, and each one takes the
// first column whose last event has ended by its start; otherwise a new
// column is opened. Times are clipped to day (in day's location) so a
// multi-day event never reaches past the grid. Events that do not touch day
// are skipped.
func LayoutDay(day time.Time, events []model.Event, opts LayoutOptions) []model.LaidOutEvent {
	opts = opts.normalized()
	loc := day.Location()
	dayStart := dates.StartOfDay(day)
	dayEnd := dates.EndOfDay(day)

	items := make([]placed, 0, len(events))
	for _, e := range events {
		if !Occupies(e, day) {
			continue
		}
		start := e.Start.In(loc)
		if start.Before(dayStart) {
			start = dayStart
		}
		end := e.End.In(loc)
		if end.After(dayEnd) {
			end = dayEnd
		}
		items = append(items, placed{ev: e, start: start, end: end})
	}

	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if !a.start.Equal(b.start) {
			return a.start.Before(b.start)
		}
		da, db := a.end.Sub(a.start), b.end.Sub(b.start)
		if da != db {
			return da > db
		}
		return a.ev.ID < b.ev.ID
	})

	// columnEnds[i] is the effective end of the last event in column i.
	columnEnds := make([]time.Time, 0)
	assigned := make([]int, len(items))
	for i, it := range items {
		col := -1
		for c, end := range columnEnds {
			if !end.After(it.start) {
				col = c
				break
			}
		}
		if col == -1 {
			col = len(columnEnds)
			columnEnds = append(columnEnds, it.end)
		} else {
			columnEnds[col] = it.end
		}
		assigned[i] = col
	}

	out := make([]model.LaidOutEvent, len(items))
	for i, it := range items {
		hours := it.end.Sub(it.start).Hours()
		out[i] = model.LaidOutEvent{
			Event:       it.ev,
			Top:         float64(it.start.Hour())*opts.RowHeight + float64(it.start.Minute())/60*opts.RowHeight,
			Height:      math.Max(opts.MinHeight, hours*opts.RowHeight),
			Left:        float64(assigned[i] * (opts.ColumnWidth + opts.ColumnGap)),
			Column:      assigned[i],
			ColumnWidth: opts.ColumnWidth,
			Columns:     len(columnEnds),
		}
	}
	return out
}
