package calendar

import (
	"time"

	"calendr/internal/dates"
	"calendr/internal/model"
)

// DayInfo is a date's classification plus the extra markers drawn under the
// day number.
type DayInfo struct {
	Class model.DayClass `json:"class"`
	// HasOptional marks a joint/optional holiday on the date. It decorates
	// any class, including Weekend and Holiday.
	HasOptional bool `json:"has_optional"`
	// HasRegular marks at least one event that is not a holiday.
	HasRegular bool `json:"has_regular"`
}

// Classify derives the display class of date from the events occupying it.
// Precedence: HolidayOnWeekend, Holiday, Weekend, OptionalHoliday, Plain.
func Classify(dateEvents []model.Event, date time.Time) model.DayClass {
	return Describe(dateEvents, date).Class
}

// Describe is Classify plus the additive markers.
func Describe(dateEvents []model.Event, date time.Time) DayInfo {
	var info DayInfo
	holiday := false
	for _, e := range dateEvents {
		if e.IsMandatoryHoliday() {
			holiday = true
		}
		// A joint holiday may also carry IsPublicHoliday.
		if e.IsOptionalHoliday {
			info.HasOptional = true
		}
		if !e.IsPublicHoliday && !e.IsOptionalHoliday {
			info.HasRegular = true
		}
	}

	weekend := dates.IsWeekend(date)
	switch {
	case holiday && weekend:
		info.Class = model.DayHolidayOnWeekend
	case holiday:
		info.Class = model.DayHoliday
	case weekend:
		info.Class = model.DayWeekend
	case info.HasOptional:
		info.Class = model.DayOptionalHoliday
	default:
		info.Class = model.DayPlain
	}
	return info
}
