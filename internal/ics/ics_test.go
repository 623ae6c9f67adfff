package ics

import (
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"calendr/internal/model"
)

var wib = time.FixedZone("WIB", 7*60*60)

var holidayFeed = Feed{
	ID:              "holidays",
	URL:             "https://calendar.example.com/private/abc.ics?token=secret",
	Name:            "Holidays",
	PublicHoliday:   true,
	OptionalHoliday: false,
}

const sampleICS = `BEGIN:VCALENDAR
VERSION:2.0
PRODID:-//test//EN
BEGIN:VEVENT
UID:nyepi
DTSTAMP:20250101T000000Z
DTSTART;VALUE=DATE:20250329
DTEND;VALUE=DATE:20250330
SUMMARY:Hari Suci Nyepi
DESCRIPTION:Day of Silence
CATEGORIES:religious,national
END:VEVENT
BEGIN:VEVENT
UID:standup
DTSTAMP:20250101T000000Z
DTSTART:20250106T020000Z
DTEND:20250106T023000Z
RRULE:FREQ=WEEKLY;COUNT=4
EXDATE:20250113T020000Z
SUMMARY:Standup
END:VEVENT
BEGIN:VEVENT
UID:standup
DTSTAMP:20250101T000000Z
RECURRENCE-ID:20250120T020000Z
DTSTART:20250120T030000Z
DTEND:20250120T033000Z
SUMMARY:Standup moved
END:VEVENT
BEGIN:VEVENT
UID:countdown
DTSTAMP:20250101T000000Z
DTSTART:20241231T160000Z
DTEND:20241231T180000Z
SUMMARY:Countdown
LOCATION:Tugu
END:VEVENT
BEGIN:VEVENT
DTSTAMP:20250101T000000Z
DTSTART:20250101T000000Z
SUMMARY:No UID
END:VEVENT
END:VCALENDAR
`

func sampleBody() []byte {
	return []byte(strings.ReplaceAll(sampleICS, "\n", "\r\n"))
}

func TestParseICS(t *testing.T) {
	t.Parallel()

	events, err := ParseICS(holidayFeed, sampleBody(), wib)
	require.NoError(t, err)
	require.Len(t, events, 4)

	nyepi := events[0]
	assert.Equal(t, "nyepi", nyepi.UID)
	assert.Equal(t, "Hari Suci Nyepi", nyepi.Summary)
	assert.True(t, nyepi.AllDay)
	assert.True(t, nyepi.Start.Equal(time.Date(2025, 3, 29, 0, 0, 0, 0, wib)))
	assert.True(t, nyepi.End.Equal(time.Date(2025, 3, 30, 0, 0, 0, 0, wib)))
	assert.Equal(t, []string{"religious", "national"}, nyepi.Categories)

	standup := events[1]
	assert.Equal(t, "FREQ=WEEKLY;COUNT=4", standup.RawRRule)
	require.Len(t, standup.ExDates, 1)
	assert.True(t, standup.ExDates[0].Equal(time.Date(2025, 1, 13, 2, 0, 0, 0, time.UTC)))
	assert.False(t, standup.IsOverride)

	moved := events[2]
	assert.True(t, moved.IsOverride)
	require.NotNil(t, moved.Recurrence)
	assert.True(t, moved.Recurrence.Equal(time.Date(2025, 1, 20, 2, 0, 0, 0, time.UTC)))

	assert.Equal(t, "Tugu", events[3].Location)
}

func TestParseICS_Errors(t *testing.T) {
	t.Parallel()

	_, err := ParseICS(holidayFeed, nil, wib)
	assert.Error(t, err)
}

func TestExpandYear(t *testing.T) {
	t.Parallel()

	parsed, err := ParseICS(holidayFeed, sampleBody(), wib)
	require.NoError(t, err)

	events, err := ExpandYear(parsed, 2025, wib)
	require.NoError(t, err)

	got := make([]string, 0, len(events))
	for _, e := range events {
		got = append(got, e.ID)
	}
	assert.Equal(t, []string{
		"nyepi",
		"standup/2025-01-06",
		"standup/2025-01-20",
		"standup/2025-01-27",
		"countdown",
	}, got)

	nyepi := events[0]
	assert.True(t, nyepi.IsPublicHoliday)
	assert.False(t, nyepi.IsOptionalHoliday)
	assert.True(t, nyepi.Start.Equal(time.Date(2025, 3, 29, 0, 0, 0, 0, wib)))
	assert.True(t, nyepi.End.Equal(time.Date(2025, 3, 29, 23, 59, 59, 999999999, wib)), "all-day end becomes inclusive")
	assert.Equal(t, []string{"religious", "national", "Holidays"}, nyepi.Labels)
	assert.Equal(t, model.DefaultRegion, nyepi.Region)
	assert.Equal(t, "https://calendar.example.com/...(redacted)", nyepi.Source.Link)

	moved := events[2]
	assert.Equal(t, "Standup moved", moved.Title)
	assert.Equal(t, 10, moved.Start.Hour())

	countdown := events[4]
	assert.Equal(t, wib, countdown.Start.Location())
	assert.Equal(t, 23, countdown.Start.Hour())
}

func TestExpandYear_PreviousYearKeepsBoundaryEvent(t *testing.T) {
	t.Parallel()

	parsed, err := ParseICS(holidayFeed, sampleBody(), wib)
	require.NoError(t, err)

	events, err := ExpandYear(parsed, 2024, wib)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "countdown", events[0].ID)
}

func TestExpandOccurrences_Cap(t *testing.T) {
	t.Parallel()

	start := time.Date(2025, 1, 1, 8, 0, 0, 0, wib)
	daily := ParsedEvent{
		UID:      "daily",
		Summary:  "Daily",
		Start:    start,
		End:      start.Add(time.Hour),
		RawRRule: "FREQ=DAILY",
	}

	rangeStart, rangeEnd := YearRange(2025, wib)
	res, err := ExpandOccurrences([]ParsedEvent{daily}, ExpandConfig{
		DisplayLocation:        wib,
		RangeStart:             rangeStart,
		RangeEnd:               rangeEnd,
		MaxOccurrencesPerEvent: 10,
	})
	require.NoError(t, err)
	assert.Len(t, res.Events, 10)
	assert.Equal(t, []string{"daily"}, res.TruncatedEvents)

	_, err = ExpandOccurrences(nil, ExpandConfig{RangeStart: rangeEnd, RangeEnd: rangeStart})
	assert.Error(t, err)
}

func TestExport(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	day := time.Date(2025, 1, 1, 0, 0, 0, 0, wib)
	events := []model.Event{{
		ID:       "1",
		Title:    "Tahun Baru Masehi",
		Start:    day,
		End:      time.Date(2025, 1, 1, 23, 59, 59, 999999999, wib),
		Location: model.Location{Address: "Indonesia"},
		Labels:   []string{"national"},
	}}

	out := Export(events, now)
	assert.Contains(t, out, "METHOD:PUBLISH")
	assert.Contains(t, out, "UID:1@calendr.app")
	assert.Contains(t, out, "DTSTART:20241231T170000Z")
	assert.Contains(t, out, "DTEND:20250101T170000Z")
	assert.Contains(t, out, "DTSTAMP:20250102T030405Z")

	parsed, err := ParseICS(Feed{ID: "export"}, []byte(out), wib)
	require.NoError(t, err)
	require.Len(t, parsed, 1)
	assert.Equal(t, "Tahun Baru Masehi", parsed[0].Summary)
	assert.Equal(t, "Indonesia", parsed[0].Location)
	assert.Equal(t, []string{"national"}, parsed[0].Categories)
	assert.True(t, parsed[0].Start.Equal(day))
}

func TestExport_SecondPrecisionDayEnd(t *testing.T) {
	t.Parallel()

	events := []model.Event{{
		ID:    "nyepi",
		Title: "Hari Suci Nyepi",
		Start: time.Date(2025, 3, 29, 0, 0, 0, 0, wib),
		End:   time.Date(2025, 3, 29, 23, 59, 59, 0, wib),
	}, {
		ID:    "talk",
		Title: "Talk",
		Start: time.Date(2025, 3, 30, 9, 0, 0, 0, wib),
		End:   time.Date(2025, 3, 30, 23, 59, 58, 0, wib),
	}}

	out := Export(events, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	assert.Contains(t, out, "DTEND:20250329T170000Z")
	assert.NotContains(t, out, "DTEND:20250329T165959Z")
	assert.Contains(t, out, "DTEND:20250330T165958Z")
}

func TestGoogleCalendarURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		event model.Event
		dates string
	}{
		{
			name: "all day",
			event: model.Event{
				Title: "Nyepi",
				Start: time.Date(2025, 3, 29, 0, 0, 0, 0, wib),
				End:   time.Date(2025, 3, 29, 23, 59, 59, 0, wib),
			},
			dates: "20250329/20250330",
		},
		{
			name: "timed",
			event: model.Event{
				Title:    "Standup",
				Start:    time.Date(2025, 1, 6, 9, 0, 0, 0, wib),
				End:      time.Date(2025, 1, 6, 10, 0, 0, 0, wib),
				Location: model.Location{Address: "Kantor"},
			},
			dates: "20250106T020000Z/20250106T030000Z",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u, err := url.Parse(GoogleCalendarURL(tt.event))
			require.NoError(t, err)
			assert.Equal(t, "calendar.google.com", u.Host)
			assert.Equal(t, "/calendar/render", u.Path)

			q := u.Query()
			assert.Equal(t, "TEMPLATE", q.Get("action"))
			assert.Equal(t, tt.event.Title, q.Get("text"))
			assert.Equal(t, tt.dates, q.Get("dates"))
			assert.Equal(t, tt.event.Location.Address, q.Get("location"))
		})
	}
}

func TestRedactURL(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "https://calendar.example.com/...(redacted)", redactURL(holidayFeed.URL))
	assert.Equal(t, "ics://...(redacted)", redactURL("not a url"))
}
