// Package calendar computes calendar grids, maps events onto dates, lays out
// a day's overlapping events and classifies dates for display.
//
// Every function here is pure: it receives all inputs as parameters, never
// mutates the event slices it is given and keeps no state between calls.
package calendar

import (
	"time"

	"calendr/internal/dates"
	"calendr/internal/model"
)

// GridCells is the fixed size of a month grid: six full weeks.
const GridCells = 42

// MonthGrid is one month's 42 cells together with the normalized month it
// was built for.
type MonthGrid struct {
	Year  int                  `json:"year"`
	Month time.Month           `json:"month"`
	Cells []model.CalendarCell `json:"cells"`
}

// BuildMonthGrid returns exactly 42 consecutive days starting on the Sunday
// on or before the 1st of the month. Out-of-range months are normalized the
// way time.Date normalizes them (month 13 is January of the next year).
func BuildMonthGrid(year int, month time.Month, loc *time.Location) []model.CalendarCell {
	return buildMonth(year, month, loc).Cells
}

func buildMonth(year int, month time.Month, loc *time.Location) MonthGrid {
	if loc == nil {
		loc = time.Local
	}
	first := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	start := dates.AddDays(first, -int(first.Weekday()))

	cells := make([]model.CalendarCell, GridCells)
	for i := range cells {
		d := dates.AddDays(start, i)
		cells[i] = model.CalendarCell{
			Date:           d,
			IsCurrentMonth: d.Month() == first.Month(),
		}
	}
	return MonthGrid{Year: first.Year(), Month: first.Month(), Cells: cells}
}

// BuildYearGrid returns the twelve month grids of a year.
func BuildYearGrid(year int, loc *time.Location) [12]MonthGrid {
	var out [12]MonthGrid
	for i := range out {
		out[i] = buildMonth(year, time.Month(i+1), loc)
	}
	return out
}

// WeekDates returns the Sunday-first week containing d, each at midnight.
func WeekDates(d time.Time) [7]time.Time {
	start := dates.StartOfDay(dates.AddDays(d, -int(d.Weekday())))
	var out [7]time.Time
	for i := range out {
		out[i] = dates.AddDays(start, i)
	}
	return out
}
