package calendar

import (
	"fmt"
	"strings"
	"time"

	"calendr/internal/dates"
	"calendr/internal/model"
)

// ParseView accepts a view name in any letter case.
func ParseView(s string) (model.View, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "year":
		return model.ViewYear, nil
	case "month", "":
		return model.ViewMonth, nil
	case "week":
		return model.ViewWeek, nil
	case "day":
		return model.ViewDay, nil
	case "agenda":
		return model.ViewAgenda, nil
	}
	return "", fmt.Errorf("calendar: unknown view %q", s)
}

// Step moves d one view-sized unit forward (dir > 0) or back (dir < 0).
// The agenda covers a year, so it steps by years.
func Step(view model.View, d time.Time, dir int) time.Time {
	sign := 1
	if dir < 0 {
		sign = -1
	}
	switch view {
	case model.ViewYear, model.ViewAgenda:
		return dates.AddYears(d, sign)
	case model.ViewWeek:
		return dates.AddWeeks(d, sign)
	case model.ViewDay:
		return dates.AddDays(d, sign)
	default:
		return dates.AddMonths(d, sign)
	}
}

// Title is the header text for view at d.
func Title(view model.View, d time.Time) string {
	switch view {
	case model.ViewYear, model.ViewAgenda:
		return d.Format("2006")
	case model.ViewWeek:
		return "Week of " + d.Format("Jan 2")
	case model.ViewDay:
		return d.Format("Monday, January 2, 2006")
	default:
		return d.Format("January 2006")
	}
}
