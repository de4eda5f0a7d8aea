// Package config provides configuration loading and structs for verso.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application.
type Config struct {
	Debug     bool            `yaml:"debug"`
	Server    ServerConfig    `yaml:"server"`
	Storage   StorageConfig   `yaml:"storage"`
	Corpus    CorpusConfig    `yaml:"corpus"`
	Search    SearchConfig    `yaml:"search"`
	Watch     WatchConfig     `yaml:"watch"`
	Reference ReferenceConfig `yaml:"reference"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// StorageConfig holds paths for the verse database and keyword index.
// An empty BleveIndexPath keeps the keyword index in memory.
type StorageConfig struct {
	DatabasePath   string `yaml:"database_path"`
	BleveIndexPath string `yaml:"bleve_index_path"`
}

// CorpusConfig maps translation names to corpus files.
type CorpusConfig struct {
	DefaultTranslation string            `yaml:"default_translation"`
	Translations       map[string]string `yaml:"translations"`
}

// Names returns the configured translation names, sorted.
func (c *CorpusConfig) Names() []string {
	names := make([]string, 0, len(c.Translations))
	for name := range c.Translations {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// SearchConfig holds search settings.
type SearchConfig struct {
	DefaultLimit   int    `yaml:"default_limit"`
	MaxLimit       int    `yaml:"max_limit"`
	TopKCandidates int    `yaml:"top_k_candidates"`
	Mode           string `yaml:"mode"`
	SpellCheck     *bool  `yaml:"spell_check"`
	// CacheSize is the number of approximate searches kept; negative disables caching.
	CacheSize int `yaml:"cache_size"`
}

// SpellCheckOrDefault returns whether to suggest corrections for empty keyword
// searches; defaults to true when unset.
func (s *SearchConfig) SpellCheckOrDefault() bool {
	if s.SpellCheck != nil {
		return *s.SpellCheck
	}
	return true
}

// WatchConfig holds corpus file watch settings.
type WatchConfig struct {
	Enabled    bool `yaml:"enabled"`
	DebounceMS int  `yaml:"debounce_ms"`
}

// ReferenceConfig selects the external reference link provider.
type ReferenceConfig struct {
	Provider string `yaml:"provider"`
}

// Load reads and parses the config file at path, expands paths, and applies defaults.
// Returns an error if the file cannot be read or parsed.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	ApplyDefaults(&cfg)

	configDir, err := filepath.Abs(filepath.Dir(path))
	if err != nil {
		return nil, fmt.Errorf("failed to resolve config dir: %w", err)
	}
	cfg.Storage.DatabasePath = expandPath(cfg.Storage.DatabasePath, configDir)
	if cfg.Storage.BleveIndexPath != "" {
		cfg.Storage.BleveIndexPath = expandPath(cfg.Storage.BleveIndexPath, configDir)
	}
	for name, p := range cfg.Corpus.Translations {
		cfg.Corpus.Translations[name] = expandPath(p, configDir)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate reports settings that defaults cannot repair.
func (c *Config) Validate() error {
	if _, ok := c.Corpus.Translations[c.Corpus.DefaultTranslation]; !ok {
		return fmt.Errorf("default translation %q is not configured", c.Corpus.DefaultTranslation)
	}
	switch c.Search.Mode {
	case "keyword", "approximate":
	default:
		return fmt.Errorf("unknown search mode %q", c.Search.Mode)
	}
	if c.Search.DefaultLimit > c.Search.MaxLimit {
		return fmt.Errorf("search default_limit %d exceeds max_limit %d", c.Search.DefaultLimit, c.Search.MaxLimit)
	}
	return nil
}

// Save writes the config to path. Used for persisting translation add/remove.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// expandPath converts a path to absolute. Paths starting with "./" are relative to configDir;
// other relative paths are relative to the home directory.
func expandPath(path string, configDir string) string {
	if filepath.IsAbs(path) {
		return path
	}
	if strings.HasPrefix(path, "./") || path == "." {
		return filepath.Join(configDir, path)
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, path)
	}
	return path
}
