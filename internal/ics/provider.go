package ics

import (
	"context"
	"errors"
	"time"

	appLog "calendr/internal/log"
	"calendr/internal/model"
)

// FeedProvider loads the events of the subscribed feeds that apply to a
// region. It satisfies data.Provider.
type FeedProvider struct {
	fetcher  *Fetcher
	feeds    []Feed
	location *time.Location
}

func NewFeedProvider(fetcher *Fetcher, feeds []Feed, loc *time.Location) *FeedProvider {
	if loc == nil {
		loc = time.Local
	}
	return &FeedProvider{fetcher: fetcher, feeds: feeds, location: loc}
}

// Load fetches, parses and expands every applicable feed for the year. It
// fails only when every applicable feed failed.
func (p *FeedProvider) Load(ctx context.Context, year int, region string) ([]model.Event, error) {
	out := make([]model.Event, 0)

	feeds := make([]Feed, 0, len(p.feeds))
	for _, f := range p.feeds {
		if f.AppliesTo(region) {
			feeds = append(feeds, f)
		}
	}
	if len(feeds) == 0 {
		return out, nil
	}

	results, errs := p.fetcher.FetchAll(ctx, feeds)
	for _, res := range results {
		parsed, err := ParseICS(res.Feed, res.Body, p.location)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		events, err := ExpandYear(parsed, year, p.location)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		out = append(out, events...)
	}

	if len(errs) == len(feeds) {
		return nil, errors.Join(errs...)
	}
	appLog.Debug("ics feeds loaded", "year", year, "region", region, "feeds", len(feeds), "event_count", len(out))
	return out, nil
}
