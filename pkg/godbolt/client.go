package godbolt

import (
	"context"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/godbolt/pkg/cache"
	"github.com/matzehuels/godbolt/pkg/config"
	"github.com/matzehuels/godbolt/pkg/errors"
	"github.com/matzehuels/godbolt/pkg/models"
	"github.com/matzehuels/godbolt/pkg/registry"
	"github.com/matzehuels/godbolt/pkg/transport"
)

// Client talks to one Compiler Explorer instance. It is safe for
// concurrent use.
type Client struct {
	transport       *transport.Client
	cache           cache.Cache
	ownsCache       bool
	logger          *log.Logger
	defaultLanguage string
	concurrency     int
	fields          config.Fields

	initMu sync.Mutex // serializes discovery runs

	mu       sync.RWMutex
	state    State
	registry *registry.Registry
}

// New creates an uninitialized client. No request is made until
// [Client.Init].
func New(opts ...Option) *Client {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = log.Default()
	}
	if o.cache == nil {
		o.cache = cache.NewNullCache()
	}

	return &Client{
		transport: transport.New(transport.Options{
			BaseURL:    o.baseURL,
			Headers:    o.headers,
			Timeout:    o.timeout,
			HTTPClient: o.httpClient,
			Cache:      o.cache,
			Keyer:      o.keyer,
			CacheTTL:   o.cacheTTL,
			Logger:     o.logger,
		}),
		cache:           o.cache,
		ownsCache:       o.ownsCache,
		logger:          o.logger,
		defaultLanguage: o.defaultLanguage,
		concurrency:     max(o.concurrency, 1),
		fields:          o.fields,
		registry:        registry.New(),
	}
}

// NewFromConfig validates cfg, opens the configured cache backend and
// creates a client. The cache is closed by [Client.Close]. Extra options
// are applied after the configuration.
func NewFromConfig(ctx context.Context, cfg config.Config, logger *log.Logger, opts ...Option) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	store, err := cache.Open(ctx, cfg.CacheOptions())
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "open %s cache", cfg.Cache.Backend)
	}

	base := []Option{
		WithBaseURL(cfg.BaseURL),
		WithHeaders(cfg.Headers),
		WithDefaultLanguage(cfg.DefaultLanguage),
		WithTimeout(cfg.Timeout.Std()),
		WithConcurrency(cfg.Concurrency),
		WithFields(cfg.Fields),
		WithCache(store, cfg.Cache.TTL.Std()),
		WithKeyer(cache.NewScopedKeyer(nil, cfg.Cache.Prefix)),
		WithLogger(logger),
		func(o *options) { o.ownsCache = true },
	}
	return New(append(base, opts...)...), nil
}

// State returns the lifecycle stage.
func (c *Client) State() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

// BaseURL returns the API root the client talks to.
func (c *Client) BaseURL() string { return c.transport.BaseURL() }

// Headers returns a copy of the headers sent with every request.
func (c *Client) Headers() map[string]string { return c.transport.Headers() }

// ready returns the registry, or NotInitializedError naming op.
func (c *Client) ready(op string) (*registry.Registry, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.state != StateReady {
		return nil, &errors.NotInitializedError{Op: op}
	}
	return c.registry, nil
}

// Languages returns a snapshot of the discovered languages in API order.
func (c *Client) Languages() ([]*models.Language, error) {
	reg, err := c.ready("languages")
	if err != nil {
		return nil, err
	}
	return reg.Languages(), nil
}

// FindLanguage resolves key by id, then by display name.
func (c *Client) FindLanguage(key string) (*models.Language, error) {
	reg, err := c.ready("find language")
	if err != nil {
		return nil, err
	}
	lang, ok := reg.Find(key)
	if !ok {
		return nil, &errors.LanguageNotFoundError{Language: key}
	}
	return lang, nil
}

// Close releases the HTTP session and, for clients built by
// [NewFromConfig], the cache backend. Later requests fail.
func (c *Client) Close() error {
	err := c.transport.Close()
	if c.ownsCache {
		if cerr := c.cache.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	return err
}
