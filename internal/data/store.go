package data

import (
	"context"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"calendr/internal/calendar"
	appLog "calendr/internal/log"
	"calendr/internal/model"
)

// Snapshot is the resolved event set of one selection together with its
// date index. It is shared between readers and must not be modified.
type Snapshot struct {
	// Year is the selection year. A snapshot from Span carries the last
	// year it merged.
	Year     int
	Region   string
	Events   []model.Event
	Index    *calendar.Index
	LoadedAt time.Time
}

type storeKey struct {
	year   int
	region string
}

func (k storeKey) String() string {
	return strconv.Itoa(k.year) + "/" + k.region
}

// Store memoizes Provider results per (year, region). It is safe for
// concurrent use.
type Store struct {
	provider Provider
	location *time.Location

	mu    sync.RWMutex
	cache map[storeKey]*Snapshot
	// gen is bumped by Invalidate so loads started earlier are not stored.
	gen uint64

	loads singleflight.Group
}

func NewStore(p Provider, loc *time.Location) *Store {
	if loc == nil {
		loc = time.Local
	}
	return &Store{
		provider: p,
		location: loc,
		cache:    make(map[storeKey]*Snapshot),
	}
}

// Location is the zone snapshots are indexed in.
func (s *Store) Location() *time.Location {
	return s.location
}

// Get returns the cached snapshot for the selection, loading it on a miss.
// Concurrent misses for one selection share a single load, and the load runs
// without holding the cache lock. Failed loads are not cached.
func (s *Store) Get(ctx context.Context, year int, region string) (*Snapshot, error) {
	key := storeKey{year: year, region: strings.ToUpper(region)}

	s.mu.RLock()
	snap, ok := s.cache[key]
	s.mu.RUnlock()
	if ok {
		return snap, nil
	}

	v, err, _ := s.loads.Do(key.String(), func() (any, error) {
		s.mu.RLock()
		snap, ok := s.cache[key]
		gen := s.gen
		s.mu.RUnlock()
		if ok {
			return snap, nil
		}

		// Waiters share this load, so one caller going away must not fail it.
		snap, err := s.load(context.WithoutCancel(ctx), key)
		if err != nil {
			return nil, err
		}
		s.mu.Lock()
		if s.gen == gen {
			s.cache[key] = snap
		}
		s.mu.Unlock()
		return snap, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Snapshot), nil
}

// Span returns one snapshot holding every event that can show on a date
// between from and to: the selections from the year before from through the
// year of to, merged. An event listed in more than one year is kept once.
func (s *Store) Span(ctx context.Context, region string, from, to time.Time) (*Snapshot, error) {
	first := from.In(s.location).Year() - 1
	last := to.In(s.location).Year()

	events := make([]model.Event, 0)
	seen := make(map[string]struct{})
	for y := first; y <= last; y++ {
		snap, err := s.Get(ctx, y, region)
		if err != nil {
			return nil, err
		}
		for _, e := range snap.Events {
			if e.ID != "" {
				if _, dup := seen[e.ID]; dup {
					continue
				}
				seen[e.ID] = struct{}{}
			}
			events = append(events, e)
		}
	}

	return &Snapshot{
		Year:     last,
		Region:   strings.ToUpper(region),
		Events:   events,
		Index:    calendar.BuildIndex(events, s.location),
		LoadedAt: time.Now(),
	}, nil
}

func (s *Store) load(ctx context.Context, key storeKey) (*Snapshot, error) {
	events, err := s.provider.Load(ctx, key.year, key.region)
	if err != nil {
		return nil, err
	}
	appLog.Info("events loaded", "year", key.year, "region", key.region, "event_count", len(events))
	return &Snapshot{
		Year:     key.year,
		Region:   key.region,
		Events:   events,
		Index:    calendar.BuildIndex(events, s.location),
		LoadedAt: time.Now(),
	}, nil
}

// Invalidate drops every cached snapshot.
func (s *Store) Invalidate() {
	s.mu.Lock()
	s.cache = make(map[storeKey]*Snapshot)
	s.gen++
	s.mu.Unlock()
}

// Refresh reloads every selection currently cached. A selection that fails
// to reload keeps its previous snapshot. It returns the number reloaded.
func (s *Store) Refresh(ctx context.Context) int {
	s.mu.RLock()
	keys := make([]storeKey, 0, len(s.cache))
	for k := range s.cache {
		keys = append(keys, k)
	}
	s.mu.RUnlock()

	reloaded := 0
	for _, k := range keys {
		snap, err := s.load(ctx, k)
		if err != nil {
			appLog.Error("events refresh failed; keeping previous snapshot", err, "year", k.year, "region", k.region)
			continue
		}
		s.mu.Lock()
		s.cache[k] = snap
		s.mu.Unlock()
		reloaded++
	}
	return reloaded
}
