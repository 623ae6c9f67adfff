package model

import (
	"fmt"
	"time"
)

// Fallback provenance for events whose data file omits region/country.
const (
	DefaultRegion  = "Yogyakarta"
	DefaultCountry = "Indonesia"
)

// Location is where an event takes place.
type Location struct {
	Address  string `json:"address"`
	MapsLink string `json:"link_to_maps,omitempty"`
}

// Source records where an event's information was published.
type Source struct {
	Name string `json:"name"`
	Link string `json:"link,omitempty"`
}

// Event represents a single calendar event or holiday after loading.
// Start and End form an inclusive interval; End is never before Start.
type Event struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`

	Start time.Time `json:"start"`
	End   time.Time `json:"end"`

	IsPublicHoliday   bool `json:"is_public_holiday"`
	IsOptionalHoliday bool `json:"is_optional_holiday"`

	Location Location `json:"location"`
	Labels   []string `json:"labels"`

	Region  string `json:"region"`
	Country string `json:"country"`

	Image      string `json:"image,omitempty"`
	CoverImage string `json:"cover_image,omitempty"`
	ArticleURL string `json:"article_url,omitempty"`
	Source     Source `json:"source"`
}

// IsMandatoryHoliday reports whether the event is a public holiday that is
// not a joint/optional one.
func (e Event) IsMandatoryHoliday() bool {
	return e.IsPublicHoliday && !e.IsOptionalHoliday
}

// Duration is End - Start.
func (e Event) Duration() time.Duration {
	return e.End.Sub(e.Start)
}

// CalendarCell is one slot of a month grid.
type CalendarCell struct {
	Date           time.Time `json:"date"`
	IsCurrentMonth bool      `json:"is_current_month"`
}

// LaidOutEvent is an Event positioned for a single day's time grid.
// Top, Height and Left are in pixels.
type LaidOutEvent struct {
	Event

	Top         float64 `json:"top"`
	Height      float64 `json:"height"`
	Left        float64 `json:"left"`
	Column      int     `json:"column"`
	ColumnWidth int     `json:"column_width"`
	// Columns is the number of lanes opened for the whole day.
	Columns int `json:"columns"`
}

// DayClass is the display classification of a calendar date.
type DayClass int

const (
	DayPlain DayClass = iota
	DayWeekend
	DayHoliday
	DayHolidayOnWeekend
	DayOptionalHoliday
)

func (c DayClass) String() string {
	switch c {
	case DayWeekend:
		return "weekend"
	case DayHoliday:
		return "holiday"
	case DayHolidayOnWeekend:
		return "holiday_on_weekend"
	case DayOptionalHoliday:
		return "optional_holiday"
	default:
		return "plain"
	}
}

// MarshalText lets DayClass appear as a string in JSON.
func (c DayClass) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText accepts the names written by MarshalText.
func (c *DayClass) UnmarshalText(b []byte) error {
	for _, v := range []DayClass{DayPlain, DayWeekend, DayHoliday, DayHolidayOnWeekend, DayOptionalHoliday} {
		if v.String() == string(b) {
			*c = v
			return nil
		}
	}
	return fmt.Errorf("model: unknown day class %q", b)
}

// View is one of the calendar presentations.
type View string

const (
	ViewYear   View = "Year"
	ViewMonth  View = "Month"
	ViewWeek   View = "Week"
	ViewDay    View = "Day"
	ViewAgenda View = "Agenda"
)
