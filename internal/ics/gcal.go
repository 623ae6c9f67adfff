package ics

import (
	"net/url"
	"time"

	"calendr/internal/dates"
	"calendr/internal/model"
)

const gcalBase = "https://calendar.google.com/calendar/render"

// GoogleCalendarURL returns the "add to Google Calendar" template link for
// an event. Events covering whole days use the date-only form with an
// exclusive end day.
func GoogleCalendarURL(e model.Event) string {
	q := url.Values{}
	q.Set("action", "TEMPLATE")
	q.Set("text", e.Title)
	q.Set("dates", gcalDates(e))
	if e.Description != "" {
		q.Set("details", e.Description)
	}
	if e.Location.Address != "" {
		q.Set("location", e.Location.Address)
	}
	return gcalBase + "?" + q.Encode()
}

func gcalDates(e model.Event) string {
	if isAllDay(e) {
		end := dates.AddDays(dates.StartOfDay(e.End), 1)
		return e.Start.Format("20060102") + "/" + end.Format("20060102")
	}
	const utc = "20060102T150405Z"
	return e.Start.UTC().Format(utc) + "/" + e.End.UTC().Format(utc)
}

// isAllDay reports whether e starts at midnight and ends in the last second
// of a day.
func isAllDay(e model.Event) bool {
	if !e.Start.Equal(dates.StartOfDay(e.Start)) {
		return false
	}
	return endsDay(e.End)
}

// endsDay reports whether t falls in the last second of its day, which is
// how data files and the ICS importer mark an inclusive whole-day end.
func endsDay(t time.Time) bool {
	return dates.EndOfDay(t).Sub(t) < time.Second
}
