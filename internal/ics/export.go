package ics

import (
	"time"

	ical "github.com/arran4/golang-ical"

	"calendr/internal/dates"
	"calendr/internal/model"
)

const (
	productID = "-//calendr//Event Calendar//EN"
	uidDomain = "calendr.app"
)

// Export renders events as a VCALENDAR, one VEVENT per event. Times are
// written in UTC. An end within the last second of a day is written as the
// following midnight.
func Export(events []model.Event, now time.Time) string {
	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId(productID)

	for _, e := range events {
		ve := cal.AddEvent(e.ID + "@" + uidDomain)
		ve.SetDtStampTime(now)
		ve.SetStartAt(e.Start)
		ve.SetEndAt(exportEnd(e.End))
		ve.SetSummary(e.Title)
		if e.Description != "" {
			ve.SetDescription(e.Description)
		}
		if e.Location.Address != "" {
			ve.SetLocation(e.Location.Address)
		}
		if e.ArticleURL != "" {
			ve.SetURL(e.ArticleURL)
		}
		for _, label := range e.Labels {
			ve.AddProperty(ical.ComponentPropertyCategories, label)
		}
	}

	return cal.Serialize()
}

func exportEnd(end time.Time) time.Time {
	if endsDay(end) {
		return dates.AddDays(dates.StartOfDay(end), 1)
	}
	return end
}
