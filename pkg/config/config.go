// Package config loads client settings from a TOML file and the
// environment.
//
// A file looks like:
//
//	base_url = "https://godbolt.org/api"
//	default_language = "c++"
//	timeout = "30s"
//	concurrency = 4
//
//	[headers]
//	Authorization = "Bearer ..."
//
//	[fields]
//	compilers = "id,name,lang,alias,semver"
//
//	[cache]
//	backend = "redis"
//	ttl = "24h"
//	redis_url = "redis://localhost:6379/0"
//
// Environment variables (see [FromEnv]) override file values.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/godbolt/pkg/cache"
	"github.com/matzehuels/godbolt/pkg/errors"
)

// Defaults.
const (
	DefaultBaseURL         = "https://godbolt.org/api"
	DefaultLanguage        = "python"
	DefaultTimeout         = 60 * time.Second
	DefaultConcurrency     = 1
	DefaultCacheTTL        = 24 * time.Hour
	DefaultLanguagesFields = "id,name,extensions,monaco,defaultCompiler"
	DefaultCompilersFields = "id,name,lang,alias"
)

// Duration is a time.Duration written as a Go duration string ("30s").
type Duration time.Duration

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// Std returns d as a time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// Config holds everything needed to build a client.
type Config struct {
	BaseURL         string            `toml:"base_url"`
	Headers         map[string]string `toml:"headers"`
	DefaultLanguage string            `toml:"default_language"`
	Timeout         Duration          `toml:"timeout"`
	Concurrency     int               `toml:"concurrency"` // Parallel per-language fetches during discovery
	Fields          Fields            `toml:"fields"`
	Cache           Cache             `toml:"cache"`
}

// Fields selects the record fields requested during discovery. An empty
// value requests the full records.
type Fields struct {
	Languages string `toml:"languages"`
	Compilers string `toml:"compilers"`
	Libraries string `toml:"libraries"`
}

// Cache configures the discovery response cache.
type Cache struct {
	Backend         string   `toml:"backend"` // none, memory, file, redis, mongo
	TTL             Duration `toml:"ttl"`
	Prefix          string   `toml:"prefix"` // Key prefix for shared backends
	Dir             string   `toml:"dir"`
	RedisURL        string   `toml:"redis_url"`
	MongoURI        string   `toml:"mongo_uri"`
	MongoDatabase   string   `toml:"mongo_database"`
	MongoCollection string   `toml:"mongo_collection"`
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	return Config{
		BaseURL:         DefaultBaseURL,
		Headers:         map[string]string{},
		DefaultLanguage: DefaultLanguage,
		Timeout:         Duration(DefaultTimeout),
		Concurrency:     DefaultConcurrency,
		Fields: Fields{
			Languages: DefaultLanguagesFields,
			Compilers: DefaultCompilersFields,
		},
		Cache: Cache{
			Backend: cache.BackendNone,
			TTL:     Duration(DefaultCacheTTL),
			Prefix:  "godbolt:",
		},
	}
}

// Load reads path over [Default]. Keys missing from the file keep their
// default values.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read %s", path)
	}
	if err := Parse(data, &cfg); err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
	}
	return cfg, nil
}

// Parse decodes TOML data into cfg, rejecting unknown keys.
func Parse(data []byte, cfg *Config) error {
	md, err := toml.Decode(string(data), cfg)
	if err != nil {
		return err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return fmt.Errorf("unknown keys: %s", strings.Join(keys, ", "))
	}
	return nil
}

// FromEnv applies GODBOLT_* environment overrides to cfg:
//
//	GODBOLT_BASE_URL, GODBOLT_DEFAULT_LANGUAGE, GODBOLT_TIMEOUT,
//	GODBOLT_CONCURRENCY, GODBOLT_CACHE_BACKEND, GODBOLT_CACHE_TTL,
//	GODBOLT_CACHE_DIR, GODBOLT_REDIS_URL, GODBOLT_MONGO_URI
//
// Unset or empty variables leave the value unchanged.
func FromEnv(cfg *Config) error {
	return fromLookup(cfg, os.LookupEnv)
}

func fromLookup(cfg *Config, lookup func(string) (string, bool)) error {
	get := func(name string) (string, bool) {
		v, ok := lookup(name)
		return v, ok && v != ""
	}

	strs := []struct {
		name string
		dst  *string
	}{
		{"GODBOLT_BASE_URL", &cfg.BaseURL},
		{"GODBOLT_DEFAULT_LANGUAGE", &cfg.DefaultLanguage},
		{"GODBOLT_CACHE_BACKEND", &cfg.Cache.Backend},
		{"GODBOLT_CACHE_DIR", &cfg.Cache.Dir},
		{"GODBOLT_REDIS_URL", &cfg.Cache.RedisURL},
		{"GODBOLT_MONGO_URI", &cfg.Cache.MongoURI},
	}
	for _, s := range strs {
		if v, ok := get(s.name); ok {
			*s.dst = v
		}
	}

	durations := []struct {
		name string
		dst  *Duration
	}{
		{"GODBOLT_TIMEOUT", &cfg.Timeout},
		{"GODBOLT_CACHE_TTL", &cfg.Cache.TTL},
	}
	for _, d := range durations {
		if v, ok := get(d.name); ok {
			if err := d.dst.UnmarshalText([]byte(v)); err != nil {
				return errors.Wrap(errors.ErrCodeInvalidConfig, err, "%s", d.name)
			}
		}
	}

	if v, ok := get("GODBOLT_CONCURRENCY"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "GODBOLT_CONCURRENCY")
		}
		cfg.Concurrency = n
	}
	return nil
}

// Validate checks the configuration for values a client cannot work with.
func (c Config) Validate() error {
	if err := errors.ValidateURL(c.BaseURL); err != nil {
		return err
	}
	if c.DefaultLanguage == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "default_language cannot be empty")
	}
	if c.Timeout < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "timeout cannot be negative")
	}
	if c.Concurrency < 1 {
		return errors.New(errors.ErrCodeInvalidConfig, "concurrency must be at least 1, got %d", c.Concurrency)
	}
	if c.Cache.TTL < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "cache ttl cannot be negative")
	}

	switch c.Cache.Backend {
	case "", cache.BackendNone, cache.BackendMemory, cache.BackendFile:
	case cache.BackendRedis:
		if c.Cache.RedisURL == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "cache backend redis requires redis_url")
		}
	case cache.BackendMongo:
		if c.Cache.MongoURI == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "cache backend mongo requires mongo_uri")
		}
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "unknown cache backend %q", c.Cache.Backend)
	}
	return nil
}

// CacheOptions translates the cache section for [cache.Open].
func (c Config) CacheOptions() cache.Options {
	return cache.Options{
		Backend:         c.Cache.Backend,
		Dir:             c.Cache.Dir,
		RedisURL:        c.Cache.RedisURL,
		MongoURI:        c.Cache.MongoURI,
		MongoDatabase:   c.Cache.MongoDatabase,
		MongoCollection: c.Cache.MongoCollection,
	}
}
