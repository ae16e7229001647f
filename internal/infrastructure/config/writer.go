package config

import (
	"fmt"
	"os"
)

// DefaultConfigYAML is the default configuration content.
const DefaultConfigYAML = `# Holocron Configuration

listing:
  url: https://swapi.dev/api/people/
  timeout: 30s

images:
  probe_timeout: 3s
  request_timeout: 10s
  placeholder: https://via.placeholder.com/400x600/667eea/ffffff
  # known_file: known_images.yaml (name -> url table, relative to this directory)

metadata:
  base_url: https://akabab.github.io/starwars-api/api/id/
  timeout: 3s

crawler:
  concurrency: 16
  # max_pages: 0 (unbounded)

catalog:
  locale: en

sqlite:
  path: catalog.db

server:
  addr: ":8080"

log:
  level: info
  format: console
`

// WriteDefault creates the .holocron directory and writes a default config file.
func WriteDefault(basePath string) error {
	configDir := ConfigDir(basePath)
	configFile := ConfigFilePath(basePath)

	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	if _, err := os.Stat(configFile); err == nil {
		return fmt.Errorf("config file already exists: %s", configFile)
	}

	if err := os.WriteFile(configFile, []byte(DefaultConfigYAML), 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}
