// Package data resolves the events of a (year, region) selection from the
// yearly JSON files and any other configured sources, and caches the result
// for the calendar core.
package data

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"calendr/internal/config"
	appLog "calendr/internal/log"
	"calendr/internal/model"
)

// ErrUnknownRegion is returned for region codes that are not configured.
var ErrUnknownRegion = errors.New("data: unknown region")

// Provider loads every event relevant to one year and region.
type Provider interface {
	Load(ctx context.Context, year int, region string) ([]model.Event, error)
}

// FileProvider reads the national and regional files of a year:
//
//	<root>/<country>/y<year>/<country>_<year>_national.json
//	<root>/<country>/y<year>/<country>_<year>_<regionFile>.json
type FileProvider struct {
	root     string
	country  string
	regions  []config.RegionConfig
	location *time.Location
}

// NewFileProvider builds a FileProvider from the configuration. loc is the
// zone used for timestamps written without an offset.
func NewFileProvider(cfg *config.Config, loc *time.Location) *FileProvider {
	if loc == nil {
		loc = time.Local
	}
	return &FileProvider{
		root:     cfg.DataDir,
		country:  cfg.Country,
		regions:  cfg.Regions,
		location: loc,
	}
}

func (p *FileProvider) region(code string) (config.RegionConfig, bool) {
	for _, r := range p.regions {
		if strings.EqualFold(r.Code, code) {
			return r, true
		}
	}
	return config.RegionConfig{}, false
}

// Path returns the data file path for a file stem.
func (p *FileProvider) Path(year int, stem string) string {
	y := strconv.Itoa(year)
	name := p.country + "_" + y + "_" + stem + ".json"
	return filepath.Join(p.root, p.country, "y"+y, name)
}

// Load returns regional events followed by national ones. A missing file
// contributes no events; a malformed one fails the load.
func (p *FileProvider) Load(ctx context.Context, year int, region string) ([]model.Event, error) {
	r, ok := p.region(region)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownRegion, region)
	}

	stems := make([]string, 0, 2)
	if r.File != "" {
		stems = append(stems, r.File)
	}
	stems = append(stems, "national")

	out := make([]model.Event, 0)
	for _, stem := range stems {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		path := p.Path(year, stem)
		events, err := p.loadFile(path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				appLog.Info("data file missing; no events", "path", path, "year", year, "region", region)
				continue
			}
			return nil, err
		}
		out = append(out, events...)
	}

	appLog.Debug("data files loaded", "year", year, "region", region, "event_count", len(out))
	return out, nil
}

func (p *FileProvider) loadFile(path string) ([]model.Event, error) {
	body, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return decodeEvents(body, path, p.location)
}

// MultiProvider concatenates several providers. The first one is primary:
// its error fails the load. Errors from the others are logged and skipped so
// an unreachable feed does not blank the calendar.
type MultiProvider struct {
	providers []Provider
}

func NewMultiProvider(primary Provider, extra ...Provider) *MultiProvider {
	return &MultiProvider{providers: append([]Provider{primary}, extra...)}
}

func (m *MultiProvider) Load(ctx context.Context, year int, region string) ([]model.Event, error) {
	out := make([]model.Event, 0)
	for i, p := range m.providers {
		events, err := p.Load(ctx, year, region)
		if err != nil {
			if i == 0 {
				return nil, err
			}
			appLog.Error("data: secondary provider failed; skipping", err, "index", i, "year", year, "region", region)
			continue
		}
		out = append(out, events...)
	}
	return out, nil
}
