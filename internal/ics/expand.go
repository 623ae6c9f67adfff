package ics

import (
	"errors"
	"time"

	"github.com/teambition/rrule-go"

	"calendr/internal/dates"
	appLog "calendr/internal/log"
	"calendr/internal/model"
)

const defaultMaxOccurrencesPerEvent = 1000

// ExpandConfig controls how recurrence expansion is performed.
type ExpandConfig struct {
	// DisplayLocation is the zone events are converted into. If nil,
	// time.Local is used.
	DisplayLocation *time.Location

	// RangeStart / RangeEnd bound the occurrences that are kept. An
	// occurrence is kept when any part of it falls inside the range.
	RangeStart time.Time
	RangeEnd   time.Time

	// MaxOccurrencesPerEvent caps runaway rules. Zero means the default.
	MaxOccurrencesPerEvent int
}

// ExpandResult carries the calendar events and the UIDs that hit the cap.
type ExpandResult struct {
	Events          []model.Event
	TruncatedEvents []string
}

// YearRange returns [Jan 1 year, Jan 1 year+1) in loc.
func YearRange(year int, loc *time.Location) (time.Time, time.Time) {
	start := time.Date(year, time.January, 1, 0, 0, 0, 0, loc)
	return start, dates.AddYears(start, 1)
}

// ExpandYear expands events into the calendar events touching one year in
// loc.
func ExpandYear(events []ParsedEvent, year int, loc *time.Location) ([]model.Event, error) {
	if loc == nil {
		loc = time.Local
	}
	start, end := YearRange(year, loc)
	res, err := ExpandOccurrences(events, ExpandConfig{
		DisplayLocation: loc,
		RangeStart:      start,
		RangeEnd:        end,
	})
	if err != nil {
		return nil, err
	}
	return res.Events, nil
}

// ExpandOccurrences turns parsed VEVENTs into calendar events inside the
// configured range: single events, RRULE series with EXDATEs removed and
// RECURRENCE-ID overrides applied.
func ExpandOccurrences(events []ParsedEvent, cfg ExpandConfig) (ExpandResult, error) {
	var result ExpandResult

	if cfg.RangeEnd.Before(cfg.RangeStart) {
		return result, errors.New("expand: RangeEnd is before RangeStart")
	}
	if cfg.DisplayLocation == nil {
		cfg.DisplayLocation = time.Local
	}
	if cfg.MaxOccurrencesPerEvent <= 0 {
		cfg.MaxOccurrencesPerEvent = defaultMaxOccurrencesPerEvent
	}

	bases := make([]ParsedEvent, 0, len(events))
	overridesByUID := make(map[string][]ParsedEvent)
	for _, ev := range events {
		if ev.IsOverride && ev.Recurrence != nil {
			overridesByUID[ev.UID] = append(overridesByUID[ev.UID], ev)
		} else {
			bases = append(bases, ev)
		}
	}

	result.Events = make([]model.Event, 0, len(bases))
	for _, ev := range bases {
		ov := overridesByUID[ev.UID]
		if ev.RawRRule == "" {
			result.Events = append(result.Events, expandSingle(ev, ov, cfg)...)
			continue
		}

		occ, hitCap := expandRecurring(ev, ov, cfg)
		result.Events = append(result.Events, occ...)
		if hitCap {
			result.TruncatedEvents = append(result.TruncatedEvents, ev.UID)
			appLog.Error("expand: truncated occurrences for UID due to cap",
				errors.New("max occurrences reached"),
				"uid", ev.UID,
				"cap", cfg.MaxOccurrencesPerEvent,
			)
		}
	}

	return result, nil
}

func expandSingle(ev ParsedEvent, overrides []ParsedEvent, cfg ExpandConfig) []model.Event {
	start, end := ev.Start, ev.End
	if o, ok := findOverride(overrides, start); ok {
		ev, start, end = o, o.Start, o.End
	}
	e := toEvent(ev, ev.UID, start, end, cfg.DisplayLocation)
	if !overlaps(e.Start, e.End, cfg.RangeStart, cfg.RangeEnd) {
		return nil
	}
	return []model.Event{e}
}

func expandRecurring(ev ParsedEvent, overrides []ParsedEvent, cfg ExpandConfig) ([]model.Event, bool) {
	out := make([]model.Event, 0)

	r, err := rrule.StrToRRule(ev.RawRRule)
	if err != nil {
		appLog.Error("expand: failed to parse RRULE", err, "uid", ev.UID, "rrule", ev.RawRRule)
		return out, false
	}
	r.DTStart(ev.Start)

	var set rrule.Set
	set.RRule(r)
	for _, ex := range ev.ExDates {
		set.ExDate(ex.In(ev.Start.Location()))
	}

	// Widen the window by the event length so an occurrence that starts
	// before the range but runs into it is kept.
	dur := ev.End.Sub(ev.Start)
	from := cfg.RangeStart.Add(-dur).In(ev.Start.Location())
	to := cfg.RangeEnd.In(ev.Start.Location())
	starts := set.Between(from, to, true)

	hitCap := false
	if len(starts) > cfg.MaxOccurrencesPerEvent {
		starts = starts[:cfg.MaxOccurrencesPerEvent]
		hitCap = true
	}

	for _, s := range starts {
		occEv, occStart, occEnd := ev, s, s.Add(dur)
		if o, ok := findOverride(overrides, s); ok {
			occEv, occStart, occEnd = o, o.Start, o.End
		}
		id := ev.UID + "/" + dates.Key(s.In(cfg.DisplayLocation))
		e := toEvent(occEv, id, occStart, occEnd, cfg.DisplayLocation)
		if !overlaps(e.Start, e.End, cfg.RangeStart, cfg.RangeEnd) {
			continue
		}
		out = append(out, e)
	}
	return out, hitCap
}

// findOverride returns the override whose RECURRENCE-ID equals start.
func findOverride(overrides []ParsedEvent, start time.Time) (ParsedEvent, bool) {
	for _, ov := range overrides {
		if ov.Recurrence != nil && ov.Recurrence.Equal(start) {
			return ov, true
		}
	}
	return ParsedEvent{}, false
}

// toEvent converts one occurrence into the calendar model. ICS all-day
// ends are exclusive; the calendar's are inclusive, so the end moves back
// to the last instant of the previous day.
func toEvent(ev ParsedEvent, id string, start, end time.Time, loc *time.Location) model.Event {
	start = start.In(loc)
	end = end.In(loc)
	if ev.AllDay && end.After(start) {
		end = end.Add(-time.Nanosecond)
	}

	labels := make([]string, 0, len(ev.Categories)+1)
	labels = append(labels, ev.Categories...)
	if ev.Feed.Name != "" {
		labels = append(labels, ev.Feed.Name)
	}

	region := ev.Feed.RegionName
	if region == "" {
		region = model.DefaultRegion
	}

	return model.Event{
		ID:                id,
		Title:             ev.Summary,
		Description:       ev.Description,
		Start:             start,
		End:               end,
		IsPublicHoliday:   ev.Feed.PublicHoliday,
		IsOptionalHoliday: ev.Feed.OptionalHoliday,
		Location:          model.Location{Address: ev.Location},
		Labels:            labels,
		Region:            region,
		Country:           model.DefaultCountry,
		ArticleURL:        ev.URL,
		Source:            model.Source{Name: ev.Feed.Name, Link: redactURL(ev.Feed.URL)},
	}
}

func overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	// b is half-open: an event starting exactly at bEnd is outside.
	return aStart.Before(bEnd) && !aEnd.Before(bStart)
}
