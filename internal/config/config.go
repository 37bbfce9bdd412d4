package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all sourcerer configuration.
type Config struct {
	// Core settings
	Name    string `yaml:"name"`
	Version string `yaml:"version"`

	// Knowledge base configuration
	Knowledge KnowledgeConfig `yaml:"knowledge"`

	// Session configuration
	Session SessionConfig `yaml:"session"`

	// Persistent store configuration
	Store StoreConfig `yaml:"store"`

	// Logging
	Logging LoggingConfig `yaml:"logging"`
}

// KnowledgeConfig configures the knowledge base and lookup.
type KnowledgeConfig struct {
	// Directory holding *.txt source files (records separated by "---")
	SourcesPath string `yaml:"sources_path"`

	// Maximum matches returned per query (0 = unlimited)
	MaxResults int `yaml:"max_results"`

	// Query result cache
	CacheSize int    `yaml:"cache_size"`
	CacheTTL  string `yaml:"cache_ttl"`

	// Reload the index when source files change on disk
	HotReload bool `yaml:"hot_reload"`
}

// SessionConfig configures the interactive session loop.
type SessionConfig struct {
	// Token that terminates the loop
	ExitToken string `yaml:"exit_token"`

	// Max turns shown in the CURRENT STATE block (0 = all)
	HistoryDisplayLimit int `yaml:"history_display_limit"`
}

// StoreConfig configures SQLite persistence.
type StoreConfig struct {
	DatabasePath string `yaml:"database_path"`
}

// LoggingConfig configures the category file logger.
type LoggingConfig struct {
	Debug bool   `yaml:"debug"`
	Level string `yaml:"level"` // debug, info, warn, error
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Name:    "sourcerer",
		Version: "0.3.0",

		Knowledge: KnowledgeConfig{
			SourcesPath: "sources",
			MaxResults:  25,
			CacheSize:   256,
			CacheTTL:    "5m",
			HotReload:   false,
		},

		Session: SessionConfig{
			ExitToken:           "exit",
			HistoryDisplayLimit: 10,
		},

		Store: StoreConfig{
			DatabasePath: filepath.Join(".sourcerer", "sourcerer.db"),
		},

		Logging: LoggingConfig{
			Debug: false,
			Level: "info",
		},
	}
}

// Load loads configuration from a YAML file. Missing file returns defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.applyEnvOverrides()
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// Save writes configuration to a YAML file.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if path := os.Getenv("SOURCERER_DB"); path != "" {
		c.Store.DatabasePath = path
	}
	if path := os.Getenv("SOURCERER_SOURCES"); path != "" {
		c.Knowledge.SourcesPath = path
	}
	if v := os.Getenv("SOURCERER_DEBUG"); v == "1" || v == "true" {
		c.Logging.Debug = true
	}
}

// GetCacheTTL returns the query cache TTL as a duration.
func (c *Config) GetCacheTTL() time.Duration {
	d, err := time.ParseDuration(c.Knowledge.CacheTTL)
	if err != nil {
		return 5 * time.Minute
	}
	return d
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Knowledge.SourcesPath == "" {
		return fmt.Errorf("knowledge sources path not configured")
	}
	if c.Session.ExitToken == "" {
		return fmt.Errorf("session exit token must not be empty")
	}
	if c.Knowledge.MaxResults < 0 {
		return fmt.Errorf("knowledge max_results must be >= 0, got %d", c.Knowledge.MaxResults)
	}
	return nil
}

// DefaultConfigPath returns the default path to the config file.
func DefaultConfigPath() string {
	cwd, err := os.Getwd()
	if err != nil {
		return filepath.Join(".sourcerer", "config.yaml")
	}
	return filepath.Join(cwd, ".sourcerer", "config.yaml")
}
