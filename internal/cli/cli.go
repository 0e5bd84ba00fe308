// Package cli implements the partscout command-line interface.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/partscout/pkg/buildinfo"
	"github.com/matzehuels/partscout/pkg/cache"
	"github.com/matzehuels/partscout/pkg/core/aggregate"
	"github.com/matzehuels/partscout/pkg/core/query"
	"github.com/matzehuels/partscout/pkg/core/wizard"
	"github.com/matzehuels/partscout/pkg/history"
	"github.com/matzehuels/partscout/pkg/integrations"
	"github.com/matzehuels/partscout/pkg/integrations/autodoc"
	"github.com/matzehuels/partscout/pkg/integrations/avtoto"
	"github.com/matzehuels/partscout/pkg/integrations/exist"
	"github.com/matzehuels/partscout/pkg/observability"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "partscout"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
	noCache    bool
	cfg        *Config

	// choose asks the user to pick one of items. Replaced in tests.
	choose chooser
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		choose: pick,
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Partscout finds spare parts for a vehicle and compares their prices",
		Long:         `Partscout resolves a vehicle configuration in the original-parts catalog, browses its parts categories and compares offers for a part number across several online stores.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := LoadConfig(c.configPath, c.Logger)
			if err != nil {
				return err
			}
			c.cfg = cfg
			c.installHooks()
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default "+defaultConfigHint()+")")
	root.PersistentFlags().BoolVar(&c.noCache, "no-cache", false, "do not read or write the brand cache")

	// Register all subcommands
	root.AddCommand(c.resolveCommand())
	root.AddCommand(c.treeCommand())
	root.AddCommand(c.searchCommand())
	root.AddCommand(c.classifyCommand())
	root.AddCommand(c.brandsCommand())
	root.AddCommand(c.historyCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// config returns the loaded configuration, or the defaults before the root
// pre-run has happened.
func (c *CLI) config() *Config {
	if c.cfg == nil {
		c.cfg = DefaultConfig()
	}
	return c.cfg
}

func (c *CLI) installHooks() {
	observability.SetHTTPHooks(&logHTTPHooks{logger: c.Logger})
	observability.SetSearchHooks(&logSearchHooks{logger: c.Logger})
	observability.SetWizardHooks(&logWizardHooks{logger: c.Logger})
	observability.SetCacheHooks(&logCacheHooks{logger: c.Logger})
}

// =============================================================================
// Client Factory
// =============================================================================

// services bundles the clients one command run needs. Close releases the
// backing stores.
type services struct {
	catalog  *autodoc.Catalog
	articles *autodoc.Articles
	store    cache.Cache
}

func (s *services) Close() error {
	return s.store.Close()
}

// newServices builds the catalog clients over one shared access layer and
// one brand cache.
func (c *CLI) newServices() (*services, error) {
	cfg := c.config()
	store, err := c.newCache()
	if err != nil {
		return nil, err
	}
	httpOpts := cfg.HTTP.Options()
	httpOpts.Headers = autodoc.Headers()
	hc := integrations.NewClient(httpOpts)

	brands := autodoc.NewBrandCache(store, cfg.Catalog.BaseURL, cfg.Cache.BrandTTL)
	return &services{
		catalog:  autodoc.NewCatalog(hc, cfg.Catalog.BaseURL, brands),
		articles: autodoc.NewArticles(hc, cfg.Catalog.WebAPIURL, c.Logger),
		store:    store,
	}, nil
}

func (c *CLI) newCache() (cache.Cache, error) {
	if c.noCache {
		return cache.NewNullCache(), nil
	}
	if addr := c.config().Cache.RedisAddr; addr != "" {
		return cache.NewRedisCache(addr)
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

func (c *CLI) newResolver(svc *services) *wizard.Resolver {
	return wizard.New(svc.catalog, wizard.Options{Logger: c.Logger})
}

// newAggregator wires every enabled source. Storefronts get their own
// access-layer client so their pacing and cookies stay separate.
func (c *CLI) newAggregator(svc *services) *aggregate.Aggregator {
	cfg := c.config()
	var sources []aggregate.Source
	for _, name := range cfg.Sources.Enabled {
		switch name {
		case autodoc.SourceName:
			classifier := query.NewClassifier(svc.catalog, c.Logger)
			sources = append(sources, query.NewSource(classifier, svc.catalog, svc.articles))
		case exist.SourceName:
			opts := cfg.HTTP.Options()
			opts.Headers = exist.Headers()
			sources = append(sources, exist.NewClient(integrations.NewClient(opts), cfg.Sources.ExistURL))
		case avtoto.SourceName:
			opts := avtoto.Options(cfg.HTTP.Options())
			sources = append(sources, avtoto.NewClient(integrations.NewClient(opts), cfg.Sources.AvtotoURL))
		}
	}
	return aggregate.New(c.Logger, sources...)
}

// newHistory opens the configured history store. Mongo is used when a URI is
// configured; otherwise records go to files under the config directory.
func (c *CLI) newHistory(ctx context.Context) (history.Store, error) {
	cfg := c.config().History
	if cfg.MongoURI != "" {
		return history.NewMongoStore(ctx, history.MongoConfig{
			URI:        cfg.MongoURI,
			Database:   cfg.Database,
			Collection: cfg.Collection,
		})
	}
	dir, err := configDir()
	if err != nil {
		return history.NewMemoryStore(history.DefaultLimit), nil
	}
	return history.NewFileStore(filepath.Join(dir, "history"))
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/partscout/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// configDir returns the config directory using XDG standard (~/.config/partscout/).
func configDir() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName), nil
}
