package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"

	"github.com/matzehuels/partscout/pkg/httputil"
	"github.com/matzehuels/partscout/pkg/integrations"
	"github.com/matzehuels/partscout/pkg/integrations/autodoc"
	"github.com/matzehuels/partscout/pkg/integrations/avtoto"
	"github.com/matzehuels/partscout/pkg/integrations/exist"
)

// Config is the on-disk configuration. Every field is optional; missing
// values keep their defaults.
type Config struct {
	HTTP    HTTPConfig    `toml:"http"`
	Catalog CatalogConfig `toml:"catalog"`
	Sources SourcesConfig `toml:"sources"`
	Cache   CacheConfig   `toml:"cache"`
	History HistoryConfig `toml:"history"`
}

// HTTPConfig tunes the shared access layer. Durations are Go duration
// strings such as "2s" or "1m30s".
type HTTPConfig struct {
	MinDelay      time.Duration `toml:"min_delay"`
	MaxDelay      time.Duration `toml:"max_delay"`
	Timeout       time.Duration `toml:"timeout"`
	BackoffStep   time.Duration `toml:"backoff_step"`
	TransportWait time.Duration `toml:"transport_wait"`
	MaxRetries    int           `toml:"max_retries"`
}

// Options converts the section into access-layer options without headers.
func (h HTTPConfig) Options() integrations.Options {
	return integrations.Options{
		MinDelay: h.MinDelay,
		MaxDelay: h.MaxDelay,
		Timeout:  h.Timeout,
		Retry: httputil.Policy{
			Attempts:      h.MaxRetries,
			BackoffStep:   h.BackoffStep,
			TransportWait: h.TransportWait,
		},
	}
}

type CatalogConfig struct {
	BaseURL   string `toml:"base_url"`
	WebAPIURL string `toml:"webapi_url"`
}

type SourcesConfig struct {
	Enabled   []string `toml:"enabled"`
	ExistURL  string   `toml:"exist_url"`
	AvtotoURL string   `toml:"avtoto_url"`
}

type CacheConfig struct {
	RedisAddr string        `toml:"redis_addr"`
	BrandTTL  time.Duration `toml:"brand_ttl"`
}

type HistoryConfig struct {
	MongoURI   string `toml:"mongo_uri"`
	Database   string `toml:"database"`
	Collection string `toml:"collection"`
	Disabled   bool   `toml:"disabled"`
}

var knownSources = []string{autodoc.SourceName, exist.SourceName, avtoto.SourceName}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *Config {
	opts := integrations.DefaultOptions()
	return &Config{
		HTTP: HTTPConfig{
			MinDelay:      opts.MinDelay,
			MaxDelay:      opts.MaxDelay,
			Timeout:       opts.Timeout,
			BackoffStep:   opts.Retry.BackoffStep,
			TransportWait: opts.Retry.TransportWait,
			MaxRetries:    opts.Retry.Attempts,
		},
		Catalog: CatalogConfig{
			BaseURL:   autodoc.DefaultCatalogURL,
			WebAPIURL: autodoc.DefaultWebAPIURL,
		},
		Sources: SourcesConfig{
			Enabled:   slices.Clone(knownSources),
			ExistURL:  exist.DefaultURL,
			AvtotoURL: avtoto.DefaultURL,
		},
		Cache: CacheConfig{BrandTTL: 7 * 24 * time.Hour},
	}
}

// LoadConfig reads path over the defaults. An empty path means the default
// location, where a missing file is not an error.
func LoadConfig(path string, logger *log.Logger) (*Config, error) {
	cfg := DefaultConfig()

	explicit := path != ""
	if !explicit {
		dir, err := configDir()
		if err != nil {
			return cfg, nil
		}
		path = filepath.Join(dir, "config.toml")
	}

	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("load config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 && logger != nil {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		logger.Warn("unknown config keys", "file", path, "keys", strings.Join(keys, ", "))
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the values that cannot be corrected silently.
func (c *Config) Validate() error {
	if c.HTTP.MinDelay < 0 || c.HTTP.MaxDelay < c.HTTP.MinDelay {
		return fmt.Errorf("http: max_delay (%s) must not be below min_delay (%s)", c.HTTP.MaxDelay, c.HTTP.MinDelay)
	}
	if c.HTTP.MaxRetries < 0 {
		return fmt.Errorf("http: max_retries must not be negative")
	}
	for _, name := range c.Sources.Enabled {
		if !slices.Contains(knownSources, name) {
			return fmt.Errorf("sources: unknown source %q (known: %s)", name, strings.Join(knownSources, ", "))
		}
	}
	return nil
}

func defaultConfigHint() string {
	return "$XDG_CONFIG_HOME/" + appName + "/config.toml"
}
