package main

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"
	"golang.org/x/text/language"

	"github.com/danielgonzalesarce/holocron/internal/application/handlers"
	"github.com/danielgonzalesarce/holocron/internal/domain/ports"
	"github.com/danielgonzalesarce/holocron/internal/domain/services"
	"github.com/danielgonzalesarce/holocron/internal/infrastructure/config"
	"github.com/danielgonzalesarce/holocron/internal/infrastructure/logging"
	"github.com/danielgonzalesarce/holocron/internal/infrastructure/metadata"
	"github.com/danielgonzalesarce/holocron/internal/infrastructure/probe"
	"github.com/danielgonzalesarce/holocron/internal/infrastructure/relationaldb/sqlite"
	"github.com/danielgonzalesarce/holocron/internal/infrastructure/swapi"
)

// Deps holds high-level dependencies for commands.
// Only handlers and shared state are exposed; clients and repositories are internal.
type Deps struct {
	Config         *config.Config
	BasePath       string
	Logger         *zap.Logger
	Locale         language.Tag
	Catalog        *services.Catalog
	Resolver       *services.ImageResolver
	LoadHandler    *handlers.LoadHandler
	BrowseHandler  *handlers.BrowseHandler
	ImportHandler  *handlers.ImportHandler
	HistoryHandler *handlers.HistoryHandler
}

// basePath returns the --dir flag or the current directory.
func basePath() (string, error) {
	if globalDir != "" {
		return globalDir, nil
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("getting current directory: %w", err)
	}
	return cwd, nil
}

// loadConfig loads config for base and applies the --log-level flag.
func loadConfig(base string) (*config.Config, error) {
	cfg, err := config.Load(base)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if globalLogLevel != "" {
		cfg.Log.Level = globalLogLevel
	}
	return cfg, nil
}

// openSnapshotStore opens the SQLite snapshot database, creating its directory if needed.
func openSnapshotStore(cfg *config.Config, base string) (*sqlite.Repository, error) {
	path := cfg.DatabasePath(base)
	if path != ":memory:" {
		if err := os.MkdirAll(config.ConfigDir(base), 0755); err != nil {
			return nil, fmt.Errorf("creating config directory: %w", err)
		}
	}
	return sqlite.NewRepository(config.SQLiteConfig{Path: path})
}

// storeOpener adapts openSnapshotStore to handlers.StoreOpener.
func storeOpener(cfg *config.Config, base string) (ports.SnapshotStore, error) {
	store, err := openSnapshotStore(cfg, base)
	if err != nil {
		return nil, err
	}
	return store, nil
}

// withDeps loads config and builds dependencies, then calls the provided function.
// It handles cleanup automatically.
func withDeps(ctx context.Context, fn func(*Deps) error) error {
	base, err := basePath()
	if err != nil {
		return err
	}

	cfg, err := loadConfig(base)
	if err != nil {
		return err
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		return fmt.Errorf("creating logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	locale, err := language.Parse(cfg.Catalog.Locale)
	if err != nil {
		return fmt.Errorf("parsing catalog locale %q: %w", cfg.Catalog.Locale, err)
	}

	store, err := openSnapshotStore(cfg, base)
	if err != nil {
		return fmt.Errorf("creating sqlite repository: %w", err)
	}
	defer store.Close()

	if err := store.EnsureSchema(ctx); err != nil {
		return fmt.Errorf("ensuring sqlite schema: %w", err)
	}

	resolver, err := newResolver(cfg, base, logger)
	if err != nil {
		return err
	}

	listing, err := swapi.NewClient(cfg.Listing)
	if err != nil {
		return fmt.Errorf("creating listing client: %w", err)
	}

	crawler := services.NewCrawlerService(listing, resolver,
		services.WithConcurrency(cfg.Crawler.Concurrency),
		services.WithMaxPages(cfg.Crawler.MaxPages),
		services.WithCrawlerLogger(logger.Named("crawler")),
	)
	catalog := services.NewCatalog(locale)

	deps := &Deps{
		Config:         cfg,
		BasePath:       base,
		Logger:         logger,
		Locale:         locale,
		Catalog:        catalog,
		Resolver:       resolver,
		LoadHandler:    handlers.NewLoadHandler(crawler, store, store, catalog, cfg.Listing.URL, logger.Named("load")),
		BrowseHandler:  handlers.NewBrowseHandler(store, catalog, locale),
		ImportHandler:  handlers.NewImportHandler(store, store, catalog, logger.Named("import")),
		HistoryHandler: handlers.NewHistoryHandler(store),
	}

	return fn(deps)
}

// newResolver builds the image resolver from the images and metadata config.
func newResolver(cfg *config.Config, base string, logger *zap.Logger) (*services.ImageResolver, error) {
	known, err := cfg.KnownImages(base)
	if err != nil {
		return nil, err
	}

	sources := services.DefaultImageSources()
	sources.Known = known
	if len(cfg.Images.IDTemplates) > 0 {
		sources.IDTemplates = cfg.Images.IDTemplates
	}
	if cfg.Images.NeighborTemplate != "" {
		sources.NeighborTemplate = cfg.Images.NeighborTemplate
	}
	if len(cfg.Images.SlugTemplates) > 0 {
		sources.SlugTemplates = cfg.Images.SlugTemplates
	}
	if cfg.Images.Placeholder != "" {
		sources.Placeholder = cfg.Images.Placeholder
	}

	// A nil client skips the metadata strategy.
	var meta ports.MetadataClient
	if cfg.Metadata.BaseURL != "" {
		client, err := metadata.NewClient(cfg.Metadata)
		if err != nil {
			return nil, fmt.Errorf("creating metadata client: %w", err)
		}
		meta = client
	}

	prober := probe.NewHTTPProber(cfg.Images, cfg.Listing.UserAgent, logger.Named("probe"))

	return services.NewImageResolver(sources, meta, prober,
		services.WithProbeTimeout(cfg.Images.ProbeTimeout),
		services.WithResolverLogger(logger.Named("resolver")),
	), nil
}
