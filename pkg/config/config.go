// Package config loads the dualbook YAML configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Default sources of the bundled English/Russian pair. Index 2 and 4 are the
// first real content chapters; earlier spine items are cover and front matter.
const (
	DefaultOriginalLocation   = "https://book-cradle.s3.eu-north-1.amazonaws.com/e2.epub"
	DefaultTranslatedLocation = "https://book-cradle.s3.eu-north-1.amazonaws.com/r2.epub"
	DefaultOriginalOffset     = 2
	DefaultTranslatedOffset   = 4
)

// Config holds the application configuration.
type Config struct {
	Original   SourceConfig  `yaml:"original"`
	Translated SourceConfig  `yaml:"translated"`
	Loader     LoaderConfig  `yaml:"loader"`
	Server     ServerConfig  `yaml:"server"`
	Library    LibraryConfig `yaml:"library"`
	Log        LogConfig     `yaml:"log"`
}

// SourceConfig locates one edition and the spine index where content starts.
type SourceConfig struct {
	Location string `yaml:"location"`
	Offset   int    `yaml:"offset"`
}

// LoaderConfig tunes chapter loading. Concurrency 1 loads strictly in order;
// a zero ChapterTimeout disables the per-chapter deadline.
type LoaderConfig struct {
	Concurrency    int           `yaml:"concurrency"`
	ChapterTimeout time.Duration `yaml:"chapter_timeout"`
	FetchTimeout   time.Duration `yaml:"fetch_timeout"`
}

type ServerConfig struct {
	Addr      string        `yaml:"addr"`
	RateLimit int           `yaml:"rate_limit"` // requests per minute per IP
	CacheTTL  time.Duration `yaml:"cache_ttl"`
}

type LibraryConfig struct {
	Path string `yaml:"path"`
}

type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Original:   SourceConfig{Location: DefaultOriginalLocation, Offset: DefaultOriginalOffset},
		Translated: SourceConfig{Location: DefaultTranslatedLocation, Offset: DefaultTranslatedOffset},
		Loader: LoaderConfig{
			Concurrency:    1,
			ChapterTimeout: 30 * time.Second,
			FetchTimeout:   2 * time.Minute,
		},
		Server: ServerConfig{
			Addr:      "127.0.0.1:8080",
			RateLimit: 120,
			CacheTTL:  30 * time.Minute,
		},
		Library: LibraryConfig{Path: filepath.Join(dataDir(), "library.db")},
		Log: LogConfig{
			Level: "info",
			File:  filepath.Join(stateDir(), "dualbook.log"),
		},
	}
}

// DefaultPath returns the config file location under the user config dir.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "dualbook.yaml"
	}
	return filepath.Join(dir, "dualbook", "config.yaml")
}

// Load reads path over the defaults. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	return &cfg, nil
}

// Validate reports every invalid field at once.
func (c *Config) Validate() error {
	var errs []error

	for _, s := range []struct {
		name string
		src  SourceConfig
	}{{"original", c.Original}, {"translated", c.Translated}} {
		if s.src.Location == "" {
			errs = append(errs, fmt.Errorf("%s.location is required", s.name))
		}
		if s.src.Offset < 0 {
			errs = append(errs, fmt.Errorf("%s.offset must be >= 0, got %d", s.name, s.src.Offset))
		}
	}

	if c.Loader.Concurrency < 1 {
		errs = append(errs, fmt.Errorf("loader.concurrency must be >= 1, got %d", c.Loader.Concurrency))
	}
	if c.Loader.ChapterTimeout < 0 {
		errs = append(errs, fmt.Errorf("loader.chapter_timeout must not be negative"))
	}
	if c.Loader.FetchTimeout < 0 {
		errs = append(errs, fmt.Errorf("loader.fetch_timeout must not be negative"))
	}
	if c.Server.RateLimit < 0 {
		errs = append(errs, fmt.Errorf("server.rate_limit must not be negative"))
	}

	return errors.Join(errs...)
}

func dataDir() string {
	if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
		return filepath.Join(dir, "dualbook")
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".dualbook")
	}
	return ".dualbook"
}

func stateDir() string {
	if dir := os.Getenv("XDG_STATE_HOME"); dir != "" {
		return filepath.Join(dir, "dualbook")
	}
	return dataDir()
}
