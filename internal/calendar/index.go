package calendar

import (
	"sort"
	"time"

	"calendr/internal/dates"
	"calendr/internal/model"
)

// valid reports whether an event can be placed on dates at all. Events with
// missing or inverted timestamps are left out of every bucket instead of
// failing the render.
func valid(e model.Event) bool {
	return !e.Start.IsZero() && !e.End.IsZero() && !e.End.Before(e.Start)
}

// Occupies reports whether e covers the calendar date of d. Both ends are
// truncated to midnight in d's location before comparing.
func Occupies(e model.Event, d time.Time) bool {
	if !valid(e) {
		return false
	}
	loc := d.Location()
	day := dates.StartOfDay(d)
	first := dates.StartOfDay(e.Start.In(loc))
	last := dates.StartOfDay(e.End.In(loc))
	return !day.Before(first) && !day.After(last)
}

// EventsForDate returns, in input order, the events occupying date d.
func EventsForDate(events []model.Event, d time.Time) []model.Event {
	out := make([]model.Event, 0)
	for _, e := range events {
		if Occupies(e, d) {
			out = append(out, e)
		}
	}
	return out
}

// Index maps day keys to the events occupying that day. It is built once per
// event set and is read-only afterwards.
type Index struct {
	loc     *time.Location
	buckets map[string][]model.Event
}

// BuildIndex walks each event's span day by day in loc and appends the event
// to every bucket it touches. Bucket order follows input order.
func BuildIndex(events []model.Event, loc *time.Location) *Index {
	if loc == nil {
		loc = time.Local
	}
	idx := &Index{
		loc:     loc,
		buckets: make(map[string][]model.Event),
	}
	for _, e := range events {
		if !valid(e) {
			continue
		}
		last := dates.StartOfDay(e.End.In(loc))
		for d := dates.StartOfDay(e.Start.In(loc)); !d.After(last); d = dates.AddDays(d, 1) {
			k := dates.Key(d)
			idx.buckets[k] = append(idx.buckets[k], e)
		}
	}
	return idx
}

// Location is the zone the index keys were computed in.
func (idx *Index) Location() *time.Location {
	return idx.loc
}

// ForDate returns the events occupying d's wall-clock date. The result is
// never nil and must not be modified.
func (idx *Index) ForDate(d time.Time) []model.Event {
	if evs, ok := idx.buckets[dates.Key(d)]; ok {
		return evs
	}
	return []model.Event{}
}

// Dates returns the sorted keys of all non-empty days.
func (idx *Index) Dates() []string {
	keys := make([]string, 0, len(idx.buckets))
	for k := range idx.buckets {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Len is the number of non-empty days.
func (idx *Index) Len() int {
	return len(idx.buckets)
}
