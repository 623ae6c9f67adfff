package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	appLog "calendr/internal/log"
)

// RegionConfig maps a selectable region code to its data file stem.
type RegionConfig struct {
	// Code is what clients send, e.g. "YOG".
	Code string `yaml:"code" json:"code"`
	// File is the stem used in data file names, e.g. "yogyakarta".
	// Empty means the region has no regional file (national events only).
	File string `yaml:"file" json:"file"`
	// Name is a human-friendly label shown in the UI.
	Name string `yaml:"name" json:"name"`
}

// ICSConfig describes a single ICS subscription merged into the calendar.
type ICSConfig struct {
	// URL is the ICS subscription endpoint.
	URL string `yaml:"url" json:"url"`
	// ID is an internal identifier used for de-dup and logging.
	ID string `yaml:"id" json:"id"`
	// Name is a human-friendly label shown in the UI.
	Name string `yaml:"name" json:"name"`
	// Region limits the feed to one region code. Empty applies it to all.
	Region string `yaml:"region,omitempty" json:"region,omitempty"`
	// PublicHoliday / OptionalHoliday are stamped onto every feed event.
	PublicHoliday   bool `yaml:"public_holiday" json:"public_holiday"`
	OptionalHoliday bool `yaml:"optional_holiday" json:"optional_holiday"`
}

// LayoutConfig sizes the day-view time grid in pixels.
type LayoutConfig struct {
	RowHeight   float64 `yaml:"row_height" json:"row_height"`
	MinHeight   float64 `yaml:"min_height" json:"min_height"`
	ColumnWidth int     `yaml:"column_width" json:"column_width"`
	ColumnGap   int     `yaml:"column_gap" json:"column_gap"`
}

// SnapshotConfig controls the headless-browser PNG capture of /calendar.
type SnapshotConfig struct {
	Enabled bool `yaml:"enabled" json:"enabled"`
	// URL defaults to the local /calendar page.
	URL    string `yaml:"url" json:"url"`
	Output string `yaml:"output" json:"output"`
	Width  int    `yaml:"width" json:"width"`
	Height int    `yaml:"height" json:"height"`
}

// BasicAuthConfig holds HTTP Basic Auth credentials for the Web UI/API.
type BasicAuthConfig struct {
	Username string `yaml:"username" json:"username"`
	Password string `yaml:"password" json:"password"`
}

// Config is the top-level application configuration.
type Config struct {
	// Listen is the HTTP listen address for the Web UI and API.
	Listen string `yaml:"listen" json:"listen"`

	// Timezone is the IANA timezone dates are bucketed in (e.g. "Asia/Jakarta").
	Timezone string `yaml:"timezone" json:"timezone"`

	// LogLevel is one of "debug", "info", "error".
	LogLevel string `yaml:"log_level" json:"log_level"`

	// DataDir is the root of the yearly JSON files:
	//   <data_dir>/<country>/y<year>/<country>_<year>_<file>.json
	DataDir string `yaml:"data_dir" json:"data_dir"`

	// Country is the lower-case country code used in data paths.
	Country string `yaml:"country" json:"country"`

	// DefaultRegion is used when a request does not name a region.
	DefaultRegion string `yaml:"default_region" json:"default_region"`

	Regions []RegionConfig `yaml:"regions" json:"regions"`

	// RefreshCron is a cron-style schedule string (e.g. "0 */6 * * *")
	// for reloading data files and ICS feeds.
	RefreshCron string `yaml:"refresh" json:"refresh"`

	Layout   LayoutConfig   `yaml:"layout" json:"layout"`
	Snapshot SnapshotConfig `yaml:"snapshot" json:"snapshot"`

	// ICS is the list of subscribed ICS sources.
	ICS []ICSConfig `yaml:"ics" json:"ics"`

	// CacheDir holds the ICS HTTP cache.
	CacheDir string `yaml:"cache_dir" json:"cache_dir"`

	// BasicAuth, if non-nil, enables HTTP Basic Authentication on all endpoints
	// except /health.
	BasicAuth *BasicAuthConfig `yaml:"basic_auth,omitempty" json:"basic_auth,omitempty"`
}

func defaultRegions() []RegionConfig {
	return []RegionConfig{
		{Code: "YOG", File: "yogyakarta", Name: "Yogyakarta"},
		{Code: "SB", File: "surabaya", Name: "Surabaya"},
		{Code: "-", File: "", Name: "National only"},
	}
}

// DefaultConfig returns an in-memory default configuration.
func DefaultConfig() *Config {
	return &Config{
		Listen:        "127.0.0.1:8080",
		Timezone:      "Asia/Jakarta",
		LogLevel:      "info",
		DataDir:       "./data",
		Country:       "id",
		DefaultRegion: "YOG",
		Regions:       defaultRegions(),
		RefreshCron:   "0 */6 * * *",
		Layout: LayoutConfig{
			RowHeight:   64,
			MinHeight:   32,
			ColumnWidth: 160,
			ColumnGap:   8,
		},
		Snapshot: SnapshotConfig{
			Enabled: false,
			Output:  "./cache/preview.png",
			Width:   1280,
			Height:  960,
		},
		ICS:       []ICSConfig{},
		CacheDir:  "./cache/ics-cache",
		BasicAuth: nil,
	}
}

// Normalize fills in missing/zero values with sensible defaults so that
// partially-filled configs (e.g., older versions) still behave correctly.
func (c *Config) Normalize() {
	def := DefaultConfig()

	if c.Listen == "" {
		c.Listen = def.Listen
	}
	if c.Timezone == "" {
		c.Timezone = def.Timezone
	}
	if c.LogLevel == "" {
		c.LogLevel = def.LogLevel
	}
	if c.DataDir == "" {
		c.DataDir = def.DataDir
	}
	c.Country = strings.ToLower(strings.TrimSpace(c.Country))
	if c.Country == "" {
		c.Country = def.Country
	}
	if len(c.Regions) == 0 {
		c.Regions = def.Regions
	}
	if c.DefaultRegion == "" || c.Region(c.DefaultRegion) == nil {
		c.DefaultRegion = c.Regions[0].Code
	}
	if c.RefreshCron == "" {
		c.RefreshCron = def.RefreshCron
	}

	if c.Layout.RowHeight <= 0 {
		c.Layout.RowHeight = def.Layout.RowHeight
	}
	if c.Layout.MinHeight <= 0 {
		c.Layout.MinHeight = def.Layout.MinHeight
	}
	if c.Layout.ColumnWidth <= 0 {
		c.Layout.ColumnWidth = def.Layout.ColumnWidth
	}
	if c.Layout.ColumnGap < 0 {
		c.Layout.ColumnGap = def.Layout.ColumnGap
	}

	if c.Snapshot.Output == "" {
		c.Snapshot.Output = def.Snapshot.Output
	}
	if c.Snapshot.Width <= 0 {
		c.Snapshot.Width = def.Snapshot.Width
	}
	if c.Snapshot.Height <= 0 {
		c.Snapshot.Height = def.Snapshot.Height
	}

	if c.ICS == nil {
		c.ICS = []ICSConfig{}
	}
	if c.CacheDir == "" {
		c.CacheDir = def.CacheDir
	}
}

// Region looks up a configured region by code, case-insensitively.
func (c *Config) Region(code string) *RegionConfig {
	for i := range c.Regions {
		if strings.EqualFold(c.Regions[i].Code, code) {
			return &c.Regions[i]
		}
	}
	return nil
}

// Location resolves Timezone, falling back to the local zone when the name
// is empty or unknown.
func (c *Config) Location() *time.Location {
	if c.Timezone == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		appLog.Error("failed to load timezone; falling back to local", err, "name", c.Timezone)
		return time.Local
	}
	return loc
}

// Load reads the YAML config at path. A missing file is created with
// DefaultConfig (mode 0600) and that default is returned. Loaded configs are
// normalized before use.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path is empty")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			cfg := DefaultConfig()
			if err := Save(path, cfg); err != nil {
				return cfg, err
			}
			return cfg, nil
		}
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	cfg.Normalize()

	return &cfg, nil
}

// Save marshals cfg and replaces path atomically through a temp file in the
// same directory. The directory is created 0700 and the file ends up 0600.
func Save(path string, cfg *Config) error {
	if path == "" {
		return errors.New("config path is empty")
	}
	if cfg == nil {
		return errors.New("config is nil")
	}

	cfg.Normalize()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".calendr-config-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	if err := os.Chmod(tmpName, 0o600); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}

// Save is a convenience method on Config that delegates to the package-level
// Save function.
func (c *Config) Save(path string) error {
	return Save(path, c)
}
