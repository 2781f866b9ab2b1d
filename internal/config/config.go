package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"

	"skylaunch/internal/eventbus"
	"skylaunch/internal/search"
)

// ErrInvalid is wrapped by every validation failure
var ErrInvalid = errors.New("invalid config")

// Config represents the application configuration
type Config struct {
	Version int             `toml:"version"`
	Search  SearchSettings  `toml:"search"`
	Catalog CatalogSettings `toml:"catalog"`
	History HistorySettings `toml:"history"`
	UI      UISettings      `toml:"ui"`
}

// SearchSettings holds ranking and paging knobs
type SearchSettings struct {
	Limit          int     `toml:"limit"`
	PageSize       int     `toml:"page_size"`
	PrefixBonus    float64 `toml:"prefix_bonus"`
	TitleFuzzy     float64 `toml:"title_fuzzy"`
	KeywordFuzzy   float64 `toml:"keyword_fuzzy"`
	AsyncThreshold int     `toml:"async_threshold"` // 0 keeps every search inline
	Workers        int     `toml:"workers"`
}

// CatalogSettings controls which sources discovery reads
type CatalogSettings struct {
	DesktopDirs   []string `toml:"desktop_dirs"`
	IncludePath   bool     `toml:"include_path"`
	PathWeight    float64  `toml:"path_weight"`
	DesktopWeight float64  `toml:"desktop_weight"`
	BuiltinWeight float64  `toml:"builtin_weight"`
	Watch         bool     `toml:"watch"`
	RescanDelay   string   `toml:"rescan_delay"`
}

// HistorySettings controls the launch history store
type HistorySettings struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path"`
	Recent  int    `toml:"recent"`
}

// UISettings represents UI-related configuration
type UISettings struct {
	ShowScores    bool `toml:"show_scores"`
	ShowSubtitles bool `toml:"show_subtitles"`
	CloseOnLaunch bool `toml:"close_on_launch"` // quit once a launch succeeded
}

// Weights returns the scoring constants for the search index
func (c *Config) Weights() search.Weights {
	return search.Weights{
		PrefixBonus:  c.Search.PrefixBonus,
		TitleFuzzy:   c.Search.TitleFuzzy,
		KeywordFuzzy: c.Search.KeywordFuzzy,
	}
}

// RescanDelay returns the parsed watcher coalescing delay
func (c *Config) RescanDelay() time.Duration {
	d, err := time.ParseDuration(c.Catalog.RescanDelay)
	if err != nil || d <= 0 {
		return 500 * time.Millisecond
	}
	return d
}

// Validate checks value ranges
func (c *Config) Validate() error {
	s := c.Search
	switch {
	case s.Limit < 1:
		return fmt.Errorf("%w: search.limit must be at least 1, got %d", ErrInvalid, s.Limit)
	case s.PageSize < 1:
		return fmt.Errorf("%w: search.page_size must be at least 1, got %d", ErrInvalid, s.PageSize)
	case s.PrefixBonus < 0 || s.TitleFuzzy < 0 || s.KeywordFuzzy < 0:
		return fmt.Errorf("%w: scoring constants must not be negative", ErrInvalid)
	case s.PrefixBonus <= max(s.TitleFuzzy, s.KeywordFuzzy):
		return fmt.Errorf("%w: search.prefix_bonus must exceed title_fuzzy and keyword_fuzzy", ErrInvalid)
	case s.AsyncThreshold < 0:
		return fmt.Errorf("%w: search.async_threshold must not be negative", ErrInvalid)
	}
	for name, w := range map[string]float64{
		"path_weight":    c.Catalog.PathWeight,
		"desktop_weight": c.Catalog.DesktopWeight,
		"builtin_weight": c.Catalog.BuiltinWeight,
	} {
		if w < 0 || w > 1 {
			return fmt.Errorf("%w: catalog.%s must be within [0,1], got %v", ErrInvalid, name, w)
		}
	}
	if c.Catalog.RescanDelay != "" {
		if _, err := time.ParseDuration(c.Catalog.RescanDelay); err != nil {
			return fmt.Errorf("%w: catalog.rescan_delay: %v", ErrInvalid, err)
		}
	}
	if c.History.Recent < 0 {
		return fmt.Errorf("%w: history.recent must not be negative", ErrInvalid)
	}
	return nil
}

// ConfigService handles configuration management
type ConfigService interface {
	Load() (*Config, error)
	Save(config *Config) error
	LoadFromPath(path string) (*Config, error)
	SaveToPath(config *Config, path string) error
	Path() string
}

// configService is the concrete implementation
type configService struct {
	bus      eventbus.EventBus
	filePath string
}

// NewConfigService creates a config service reading the default location
func NewConfigService() ConfigService {
	return &configService{
		filePath: DefaultPath(),
	}
}

// NewConfigServiceAt creates a config service for an explicit file
func NewConfigServiceAt(path string) ConfigService {
	return &configService{filePath: path}
}

// NewConfigServiceWithBus creates a config service with event bus support
func NewConfigServiceWithBus(bus eventbus.EventBus, path string) ConfigService {
	if path == "" {
		path = DefaultPath()
	}
	return &configService{bus: bus, filePath: path}
}

// Path returns the file this service reads and writes
func (cs *configService) Path() string {
	return cs.filePath
}

// Load loads the configuration, falling back to defaults when the file is missing
func (cs *configService) Load() (*Config, error) {
	var cfg *Config
	if _, err := os.Stat(cs.filePath); os.IsNotExist(err) {
		cfg = DefaultConfig()
	} else {
		loaded, err := cs.LoadFromPath(cs.filePath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if cs.bus != nil {
		cs.bus.Publish(eventbus.ConfigLoadedEvent{Path: cs.filePath})
	}
	return cfg, nil
}

// Save saves the configuration to the service's file
func (cs *configService) Save(config *Config) error {
	if err := cs.SaveToPath(config, cs.filePath); err != nil {
		return err
	}
	if cs.bus != nil {
		cs.bus.Publish(eventbus.ConfigSavedEvent{Path: cs.filePath})
	}
	return nil
}

// LoadFromPath loads configuration from a specific path. Keys missing from
// the file keep their default values.
func (cs *configService) LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// SaveToPath saves configuration to a specific path
func (cs *configService) SaveToPath(config *Config, path string) error {
	if err := config.Validate(); err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := toml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	w := search.DefaultWeights()
	return &Config{
		Version: 1,
		Search: SearchSettings{
			Limit:          8,
			PageSize:       5,
			PrefixBonus:    w.PrefixBonus,
			TitleFuzzy:     w.TitleFuzzy,
			KeywordFuzzy:   w.KeywordFuzzy,
			AsyncThreshold: 5000,
			Workers:        2,
		},
		Catalog: CatalogSettings{
			DesktopDirs:   DefaultDesktopDirs(),
			IncludePath:   true,
			PathWeight:    0.2,
			DesktopWeight: 0.6,
			BuiltinWeight: 0.9,
			Watch:         true,
			RescanDelay:   "500ms",
		},
		History: HistorySettings{
			Enabled: true,
			Path:    filepath.Join(StateDir(), "history"),
			Recent:  5,
		},
		UI: UISettings{
			ShowSubtitles: true,
		},
	}
}
