package ics

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"calendr/internal/config"
)

func newFeedServer(t *testing.T, hits *atomic.Int32) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		if r.Header.Get("If-None-Match") == `"v1"` {
			w.WriteHeader(http.StatusNotModified)
			return
		}
		w.Header().Set("ETag", `"v1"`)
		w.Header().Set("Content-Type", "text/calendar")
		_, _ = w.Write(sampleBody())
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestFetcher_ConditionalRequests(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	srv := newFeedServer(t, &hits)
	f := NewFetcher(t.TempDir(), srv.Client())
	feed := Feed{ID: "test", URL: srv.URL + "/cal.ics"}

	first, err := f.FetchOne(context.Background(), feed)
	require.NoError(t, err)
	assert.False(t, first.FromCache)
	assert.Equal(t, sampleBody(), first.Body)

	second, err := f.FetchOne(context.Background(), feed)
	require.NoError(t, err)
	assert.True(t, second.FromCache, "304 reuses the cached body")
	assert.Equal(t, first.Body, second.Body)
	assert.EqualValues(t, 2, hits.Load())
}

func TestFetcher_FallsBackToCache(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	srv := newFeedServer(t, &hits)
	dir := t.TempDir()
	feed := Feed{ID: "test", URL: srv.URL + "/cal.ics"}

	_, err := NewFetcher(dir, srv.Client()).FetchOne(context.Background(), feed)
	require.NoError(t, err)

	failing := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusBadGateway)
	}))
	defer failing.Close()

	// Same URL key, but every request now fails at the transport.
	srv.Close()
	res, err := NewFetcher(dir, nil).FetchOne(context.Background(), feed)
	require.NoError(t, err)
	assert.True(t, res.FromCache)

	_, err = NewFetcher(t.TempDir(), failing.Client()).FetchOne(context.Background(), Feed{ID: "x", URL: failing.URL})
	assert.EqualError(t, err, "502 Bad Gateway")
}

func TestFetcher_FetchAll(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	srv := newFeedServer(t, &hits)
	f := NewFetcher(t.TempDir(), srv.Client())

	results, errs := f.FetchAll(context.Background(), []Feed{
		{ID: "ok", URL: srv.URL + "/a.ics"},
		{ID: "empty"},
	})
	require.Len(t, results, 1)
	assert.Equal(t, "ok", results[0].Feed.ID)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Error(), "feed empty")
}

func TestFeedsFromConfig(t *testing.T) {
	t.Parallel()

	cfg := config.DefaultConfig()
	cfg.ICS = []config.ICSConfig{
		{ID: "cuti", Name: "Cuti Bersama", URL: "https://example.com/cuti.ics", OptionalHoliday: true},
		{ID: "yog", Name: "Kraton", URL: "https://example.com/yog.ics", Region: "YOG"},
		{ID: "blank"},
	}

	feeds := FeedsFromConfig(cfg)
	require.Len(t, feeds, 2)
	assert.True(t, feeds[0].OptionalHoliday)
	assert.True(t, feeds[0].AppliesTo("SB"))
	assert.Equal(t, "Yogyakarta", feeds[1].RegionName)
	assert.True(t, feeds[1].AppliesTo("yog"))
	assert.False(t, feeds[1].AppliesTo("SB"))
}

func TestFeedProvider(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	srv := newFeedServer(t, &hits)
	fetcher := NewFetcher(t.TempDir(), srv.Client())

	feeds := []Feed{
		{ID: "kraton", Name: "Kraton", URL: srv.URL + "/kraton.ics", Region: "YOG", RegionName: "Yogyakarta", PublicHoliday: true},
	}
	p := NewFeedProvider(fetcher, feeds, wib)

	events, err := p.Load(context.Background(), 2025, "YOG")
	require.NoError(t, err)
	assert.Len(t, events, 5)
	assert.True(t, events[0].IsPublicHoliday)

	events, err = p.Load(context.Background(), 2025, "SB")
	require.NoError(t, err)
	assert.Empty(t, events)

	broken := NewFeedProvider(fetcher, []Feed{{ID: "gone", URL: "http://127.0.0.1:1/none.ics"}}, wib)
	_, err = broken.Load(context.Background(), 2025, "YOG")
	assert.Error(t, err)
}
