// Package config provides configuration loading and management.
package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/danielgonzalesarce/holocron/internal/domain/services"
)

const (
	// DefaultConfigDir is the directory name for holocron configuration and data.
	DefaultConfigDir = ".holocron"
	// DefaultConfigFile is the default config file name.
	DefaultConfigFile = "config.yaml"
	// DefaultDatabaseFile is the default snapshot database file name.
	DefaultDatabaseFile = "catalog.db"
)

// Environment variable overrides.
const (
	EnvListingURL = "HOLOCRON_LISTING_URL"
	EnvLogLevel   = "HOLOCRON_LOG_LEVEL"
	EnvAddr       = "HOLOCRON_ADDR"
	EnvDatabase   = "HOLOCRON_DB"
)

//go:embed known_images.yaml
var defaultKnownImages []byte

// Config holds static configuration (read-only after init).
type Config struct {
	Listing  ListingConfig  `yaml:"listing,omitempty"`
	Images   ImagesConfig   `yaml:"images,omitempty"`
	Metadata MetadataConfig `yaml:"metadata,omitempty"`
	Crawler  CrawlerConfig  `yaml:"crawler,omitempty"`
	Catalog  CatalogConfig  `yaml:"catalog,omitempty"`
	SQLite   SQLiteConfig   `yaml:"sqlite,omitempty"`
	Server   ServerConfig   `yaml:"server,omitempty"`
	Log      LogConfig      `yaml:"log,omitempty"`
}

// ListingConfig holds configuration for the paginated listing endpoint.
type ListingConfig struct {
	URL       string        `yaml:"url,omitempty"`
	Timeout   time.Duration `yaml:"timeout,omitempty"`
	UserAgent string        `yaml:"user_agent,omitempty"`
}

// ImagesConfig holds configuration for image resolution.
type ImagesConfig struct {
	// ProbeTimeout bounds the wait for each reachability probe.
	ProbeTimeout time.Duration `yaml:"probe_timeout,omitempty"`
	// RequestTimeout bounds the probe's HTTP request itself.
	RequestTimeout   time.Duration `yaml:"request_timeout,omitempty"`
	IDTemplates      []string      `yaml:"id_templates,omitempty"`
	NeighborTemplate string        `yaml:"neighbor_template,omitempty"`
	SlugTemplates    []string      `yaml:"slug_templates,omitempty"`
	Placeholder      string        `yaml:"placeholder,omitempty"`
	// KnownFile optionally points at a YAML name→URL table replacing the built-in one.
	KnownFile string `yaml:"known_file,omitempty"`
}

// MetadataConfig holds configuration for the per-identifier metadata API.
type MetadataConfig struct {
	// BaseURL is the metadata endpoint prefix; "<id>.json" is appended. Empty disables the lookup.
	BaseURL string        `yaml:"base_url,omitempty"`
	Timeout time.Duration `yaml:"timeout,omitempty"`
}

// CrawlerConfig holds crawl limits.
type CrawlerConfig struct {
	Concurrency int `yaml:"concurrency,omitempty"`
	MaxPages    int `yaml:"max_pages,omitempty"`
}

// CatalogConfig holds presentation settings for the catalog.
type CatalogConfig struct {
	// Locale is the BCP 47 tag used to collate names.
	Locale string `yaml:"locale,omitempty"`
}

// SQLiteConfig holds configuration for the snapshot database.
type SQLiteConfig struct {
	// Path is the database file. Relative paths are resolved against the config directory.
	Path string `yaml:"path,omitempty"`
}

// ServerConfig holds configuration for the web UI.
type ServerConfig struct {
	Addr string `yaml:"addr,omitempty"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level  string `yaml:"level,omitempty"`
	Format string `yaml:"format,omitempty"`
}

// Default returns a Config with default values.
func Default() *Config {
	images := services.DefaultImageSources()
	return &Config{
		Listing: ListingConfig{
			URL:       "https://swapi.dev/api/people/",
			Timeout:   30 * time.Second,
			UserAgent: "holocron/0.1",
		},
		Images: ImagesConfig{
			ProbeTimeout:     3 * time.Second,
			RequestTimeout:   10 * time.Second,
			IDTemplates:      images.IDTemplates,
			NeighborTemplate: images.NeighborTemplate,
			SlugTemplates:    images.SlugTemplates,
			Placeholder:      images.Placeholder,
		},
		Metadata: MetadataConfig{
			BaseURL: "https://akabab.github.io/starwars-api/api/id/",
			Timeout: 3 * time.Second,
		},
		Crawler: CrawlerConfig{
			Concurrency: 16,
		},
		Catalog: CatalogConfig{
			Locale: "en",
		},
		SQLite: SQLiteConfig{
			Path: DefaultDatabaseFile,
		},
		Server: ServerConfig{
			Addr: ":8080",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Load loads configuration from the .holocron directory in the given path.
// A missing config file yields the defaults.
func Load(basePath string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(ConfigFilePath(basePath))
	switch {
	case os.IsNotExist(err):
		// Defaults only.
	case err != nil:
		return nil, fmt.Errorf("reading config file: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	cfg.applyEnvOverrides()

	return cfg, nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(EnvListingURL); v != "" {
		c.Listing.URL = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv(EnvAddr); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv(EnvDatabase); v != "" {
		c.SQLite.Path = v
	}
}

// KnownImages returns the name→URL table: the file named by Images.KnownFile
// when set, otherwise the built-in table.
func (c *Config) KnownImages(basePath string) (map[string]string, error) {
	data := defaultKnownImages
	if c.Images.KnownFile != "" {
		path := c.Images.KnownFile
		if !filepath.IsAbs(path) {
			path = filepath.Join(ConfigDir(basePath), path)
		}
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading known images file: %w", err)
		}
		data = b
	}

	known := make(map[string]string)
	if err := yaml.Unmarshal(data, &known); err != nil {
		return nil, fmt.Errorf("parsing known images: %w", err)
	}
	return known, nil
}

// DatabasePath returns the absolute snapshot database path.
func (c *Config) DatabasePath(basePath string) string {
	if c.SQLite.Path == ":memory:" || filepath.IsAbs(c.SQLite.Path) {
		return c.SQLite.Path
	}
	return filepath.Join(ConfigDir(basePath), c.SQLite.Path)
}

// ConfigDir returns the path to the .holocron config directory.
func ConfigDir(basePath string) string {
	return filepath.Join(basePath, DefaultConfigDir)
}

// ConfigFilePath returns the path to the config file.
func ConfigFilePath(basePath string) string {
	return filepath.Join(basePath, DefaultConfigDir, DefaultConfigFile)
}

// Exists checks if a holocron config exists in the given path.
func Exists(basePath string) bool {
	_, err := os.Stat(ConfigFilePath(basePath))
	return err == nil
}
