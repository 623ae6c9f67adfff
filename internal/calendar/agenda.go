package calendar

import (
	"sort"
	"time"

	"calendr/internal/model"
)

// Agenda returns the events sorted by start time. With holidaysOnly set it
// keeps public holidays only, which is what the agenda shows when event
// markers are switched off.
func Agenda(events []model.Event, holidaysOnly bool) []model.Event {
	out := make([]model.Event, 0, len(events))
	for _, e := range events {
		if !valid(e) {
			continue
		}
		if holidaysOnly && !e.IsPublicHoliday {
			continue
		}
		out = append(out, e)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Start.Before(out[j].Start)
	})
	return out
}

// MonthHolidays lists public and optional holidays starting in the given
// month, in start order. Month boundaries are taken in loc.
func MonthHolidays(events []model.Event, year int, month time.Month, loc *time.Location) []model.Event {
	if loc == nil {
		loc = time.Local
	}
	out := make([]model.Event, 0)
	for _, e := range events {
		if !valid(e) || !(e.IsPublicHoliday || e.IsOptionalHoliday) {
			continue
		}
		s := e.Start.In(loc)
		if s.Year() == year && s.Month() == month {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Start.Before(out[j].Start)
	})
	return out
}
