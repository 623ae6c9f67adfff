package data

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	appLog "calendr/internal/log"
	"calendr/internal/model"
)

// eventNamespace seeds deterministic IDs for events published without one.
var eventNamespace = uuid.MustParse("6f1c5a52-8f0e-4d44-9d3b-2b6a4f0c7e11")

// rawFile is the on-disk shape of a yearly data file.
type rawFile struct {
	Events []rawEvent `json:"events"`
}

type rawLocation struct {
	Address    string  `json:"address"`
	LinkToMaps *string `json:"link_to_maps"`
}

type rawSource struct {
	Name string  `json:"name"`
	Link *string `json:"link"`
}

type rawEvent struct {
	ID                flexID      `json:"id"`
	Title             string      `json:"title"`
	Description       string      `json:"description"`
	StartDateTime     string      `json:"start_date_time"`
	EndDateTime       string      `json:"end_date_time"`
	IsPublicHoliday   bool        `json:"is_public_holiday"`
	IsOptionalHoliday bool        `json:"is_optional_holiday"`
	Labels            []string    `json:"labels"`
	Location          rawLocation `json:"location"`
	Image             *string     `json:"image"`
	Source            *rawSource  `json:"source"`
	Region            string      `json:"region"`
	Country           string      `json:"country"`
	CoverImage        string      `json:"cover_image"`
	ArticleURL        string      `json:"article_url"`
}

// flexID accepts ids published either as strings or as numbers.
type flexID string

func (f *flexID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*f = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexID(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("id: %w", err)
	}
	*f = flexID(n.String())
	return nil
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// parseTimestamp accepts RFC3339 instants and zone-less local forms, the
// latter interpreted in loc.
func parseTimestamp(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, errors.New("empty timestamp")
	}
	for _, layout := range timeLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// decodeEvents parses a data file body into events. Entries with unusable
// timestamps are dropped and logged so one bad row never hides the rest.
func decodeEvents(body []byte, file string, loc *time.Location) ([]model.Event, error) {
	var raw rawFile
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("data: decode %s: %w", file, err)
	}

	out := make([]model.Event, 0, len(raw.Events))
	for i, re := range raw.Events {
		start, err := parseTimestamp(re.StartDateTime, loc)
		if err != nil {
			appLog.Error("data: dropping event with bad start", err, "file", file, "index", i, "title", re.Title)
			continue
		}
		end, err := parseTimestamp(re.EndDateTime, loc)
		if err != nil {
			appLog.Error("data: dropping event with bad end", err, "file", file, "index", i, "title", re.Title)
			continue
		}
		if end.Before(start) {
			appLog.Error("data: dropping event ending before it starts", errors.New("inverted interval"),
				"file", file, "index", i, "title", re.Title)
			continue
		}

		ev := model.Event{
			ID:                string(re.ID),
			Title:             re.Title,
			Description:       re.Description,
			Start:             start,
			End:               end,
			IsPublicHoliday:   re.IsPublicHoliday,
			IsOptionalHoliday: re.IsOptionalHoliday,
			Location: model.Location{
				Address:  re.Location.Address,
				MapsLink: deref(re.Location.LinkToMaps),
			},
			Labels:     re.Labels,
			Region:     re.Region,
			Country:    re.Country,
			Image:      deref(re.Image),
			CoverImage: re.CoverImage,
			ArticleURL: re.ArticleURL,
		}
		if re.Source != nil {
			ev.Source = model.Source{Name: re.Source.Name, Link: deref(re.Source.Link)}
		}
		normalizeEvent(&ev)
		out = append(out, ev)
	}
	return out, nil
}

// normalizeEvent applies the provenance fallbacks and fills a missing ID.
func normalizeEvent(ev *model.Event) {
	if ev.Region == "" {
		ev.Region = model.DefaultRegion
	}
	if ev.Country == "" {
		ev.Country = model.DefaultCountry
	}
	if ev.Labels == nil {
		ev.Labels = []string{}
	}
	if ev.ID == "" {
		ev.ID = StableID(ev.Title, ev.Start, ev.Region)
	}
}

// StableID derives a deterministic UUIDv5 from an event's identity so that
// reloading the same file yields the same IDs.
func StableID(title string, start time.Time, region string) string {
	key := title + "|" + start.UTC().Format(time.RFC3339) + "|" + region
	return uuid.NewSHA1(eventNamespace, []byte(key)).String()
}
