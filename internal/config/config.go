// Package config loads the mirrorsnap configuration file.
//
// Configuration is layered: built-in defaults, then the TOML config file,
// then command-line flags. This package owns the first two layers; flag
// overrides are applied by the CLI for flags that were explicitly set.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

// Cache backend names accepted in the config file and on the command line.
const (
	BackendNone  = "none"
	BackendFile  = "file"
	BackendRedis = "redis"
)

// Config is the resolved mirrorsnap configuration.
type Config struct {
	Snapshot Snapshot
	Cache    Cache
	BigQuery BigQuery
}

// Snapshot configures a snapshot run.
type Snapshot struct {
	// SimpleBase and PackageBase override the registry endpoints. Empty
	// means the canonical public registry.
	SimpleBase  string
	PackageBase string

	// Concurrency is the number of parallel listing crawlers.
	Concurrency int

	// KeepRecent, when positive, caps how many versions of each package
	// are kept. Zero keeps everything.
	KeepRecent int

	// Timeout bounds each registry request.
	Timeout time.Duration

	// UserAgent overrides the default mirrorsnap/<version> header.
	UserAgent string
}

// Cache configures the HTTP response cache.
type Cache struct {
	// Backend selects the cache implementation: none, file or redis.
	Backend string

	// Dir is the file backend's directory. Empty means the standard
	// cache directory.
	Dir string

	// TTL is how long cached responses stay valid.
	TTL time.Duration

	// Redis backend connection settings.
	RedisAddr     string
	RedisPassword string
	RedisDB       int
}

// BigQuery configures the popularity query.
type BigQuery struct {
	// Project is the GCP project billed for queries. Empty falls back to
	// the PROJECT_ID environment variable.
	Project string
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Snapshot: Snapshot{
			Concurrency: 16,
			Timeout:     30 * time.Second,
		},
		Cache: Cache{
			Backend: BackendNone,
			TTL:     24 * time.Hour,
		},
	}
}

// DefaultPath returns the standard config file location,
// ~/.config/mirrorsnap/config.toml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home dir: %w", err)
	}
	return filepath.Join(home, ".config", "mirrorsnap", "config.toml"), nil
}

// fileConfig mirrors the TOML file layout. Durations are strings in the
// file ("45s", "1h") and parsed during merge.
type fileConfig struct {
	Snapshot fileSnapshot `toml:"snapshot"`
	Cache    fileCache    `toml:"cache"`
	BigQuery fileBigQuery `toml:"bigquery"`
}

type fileSnapshot struct {
	SimpleBase  string `toml:"simple_base"`
	PackageBase string `toml:"package_base"`
	Concurrency int    `toml:"concurrency"`
	KeepRecent  int    `toml:"keep_recent"`
	Timeout     string `toml:"timeout"`
	UserAgent   string `toml:"user_agent"`
}

type fileCache struct {
	Backend       string `toml:"backend"`
	Dir           string `toml:"dir"`
	TTL           string `toml:"ttl"`
	RedisAddr     string `toml:"redis_addr"`
	RedisPassword string `toml:"redis_password"`
	RedisDB       int    `toml:"redis_db"`
}

type fileBigQuery struct {
	Project string `toml:"project"`
}

// Load reads the config file at path and merges it over the defaults.
// An empty path means the default location, and a missing file there is
// not an error; a path given explicitly must exist.
func Load(path string) (Config, error) {
	implicit := path == ""
	if implicit {
		p, err := DefaultPath()
		if err != nil {
			return Default(), nil
		}
		path = p
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if implicit && os.IsNotExist(err) {
			return Default(), nil
		}
		return Config{}, fmt.Errorf("read config file: %w", err)
	}

	var fc fileConfig
	if err := toml.Unmarshal(data, &fc); err != nil {
		return Config{}, fmt.Errorf("parse config file %s: %w", path, err)
	}

	cfg := Default()
	if err := merge(&cfg, fc); err != nil {
		return Config{}, fmt.Errorf("config file %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config file %s: %w", path, err)
	}
	return cfg, nil
}

// merge applies non-zero file values onto cfg.
func merge(cfg *Config, fc fileConfig) error {
	if fc.Snapshot.SimpleBase != "" {
		cfg.Snapshot.SimpleBase = fc.Snapshot.SimpleBase
	}
	if fc.Snapshot.PackageBase != "" {
		cfg.Snapshot.PackageBase = fc.Snapshot.PackageBase
	}
	if fc.Snapshot.Concurrency != 0 {
		cfg.Snapshot.Concurrency = fc.Snapshot.Concurrency
	}
	if fc.Snapshot.KeepRecent != 0 {
		cfg.Snapshot.KeepRecent = fc.Snapshot.KeepRecent
	}
	if fc.Snapshot.Timeout != "" {
		d, err := time.ParseDuration(fc.Snapshot.Timeout)
		if err != nil {
			return fmt.Errorf("parse snapshot.timeout: %w", err)
		}
		cfg.Snapshot.Timeout = d
	}
	if fc.Snapshot.UserAgent != "" {
		cfg.Snapshot.UserAgent = fc.Snapshot.UserAgent
	}

	if fc.Cache.Backend != "" {
		cfg.Cache.Backend = fc.Cache.Backend
	}
	if fc.Cache.Dir != "" {
		cfg.Cache.Dir = fc.Cache.Dir
	}
	if fc.Cache.TTL != "" {
		d, err := time.ParseDuration(fc.Cache.TTL)
		if err != nil {
			return fmt.Errorf("parse cache.ttl: %w", err)
		}
		cfg.Cache.TTL = d
	}
	if fc.Cache.RedisAddr != "" {
		cfg.Cache.RedisAddr = fc.Cache.RedisAddr
	}
	if fc.Cache.RedisPassword != "" {
		cfg.Cache.RedisPassword = fc.Cache.RedisPassword
	}
	if fc.Cache.RedisDB != 0 {
		cfg.Cache.RedisDB = fc.Cache.RedisDB
	}

	if fc.BigQuery.Project != "" {
		cfg.BigQuery.Project = fc.BigQuery.Project
	}
	return nil
}

// Validate checks the configuration for values no run could use.
func (c *Config) Validate() error {
	switch c.Cache.Backend {
	case BackendNone, BackendFile, BackendRedis:
	default:
		return fmt.Errorf("unknown cache backend %q (want none, file or redis)", c.Cache.Backend)
	}
	if c.Cache.Backend == BackendRedis && c.Cache.RedisAddr == "" {
		return fmt.Errorf("cache backend %q requires redis_addr", BackendRedis)
	}
	if c.Snapshot.Concurrency <= 0 {
		return fmt.Errorf("snapshot concurrency must be positive, got %d", c.Snapshot.Concurrency)
	}
	if c.Snapshot.KeepRecent < 0 {
		return fmt.Errorf("snapshot keep_recent must not be negative, got %d", c.Snapshot.KeepRecent)
	}
	if c.Snapshot.Timeout <= 0 {
		return fmt.Errorf("snapshot timeout must be positive, got %s", c.Snapshot.Timeout)
	}
	return nil
}
