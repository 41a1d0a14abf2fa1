package godbolt

import (
	"context"
	"net/url"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/godbolt/pkg/errors"
	"github.com/matzehuels/godbolt/pkg/models"
	"github.com/matzehuels/godbolt/pkg/observability"
	"github.com/matzehuels/godbolt/pkg/registry"
	"github.com/matzehuels/godbolt/pkg/transport"
)

// Cache namespaces for discovery responses.
const (
	nsLanguages = "languages"
	nsCompilers = "compilers"
	nsLibraries = "libraries"
)

// Init discovers languages, compilers and libraries and makes the client
// ready. Cached responses are used when a cache is configured.
//
// Discovery is all or nothing: the first failed call aborts the run, and
// the client keeps whatever state and registry it had before. The error
// carries the DISCOVERY_FAILED code, names the failing call and wraps the
// transport or decoding error.
func (c *Client) Init(ctx context.Context) error {
	return c.discover(ctx, false)
}

// Refresh reruns discovery, bypassing the cache for reads. Fresh responses
// still replace cached entries.
func (c *Client) Refresh(ctx context.Context) error {
	return c.discover(ctx, true)
}

func (c *Client) discover(ctx context.Context, refresh bool) error {
	c.initMu.Lock()
	defer c.initMu.Unlock()

	c.mu.Lock()
	prev := c.state
	if prev != StateReady {
		c.state = StateDiscovering
	}
	c.mu.Unlock()

	hooks := observability.Client()
	baseURL := c.transport.BaseURL()
	hooks.OnDiscoveryStart(ctx, baseURL)
	start := time.Now()

	reg, stats, err := c.fetchAll(ctx, refresh)
	duration := time.Since(start)
	hooks.OnDiscoveryComplete(ctx, baseURL, stats, duration, err)

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.state = prev
		c.logger.Error("discovery failed", "base_url", baseURL, "error", err)
		return err
	}
	c.registry = reg
	c.state = StateReady

	c.logger.Info("discovery complete",
		"base_url", baseURL,
		"languages", stats.Languages,
		"compilers", stats.Compilers,
		"libraries", stats.Libraries,
		"duration", duration)
	return nil
}

// fetchAll builds a fresh registry. Language order is fixed by the
// languages response before any per-language fetch starts, so the order in
// which workers finish never affects iteration order.
func (c *Client) fetchAll(ctx context.Context, refresh bool) (*registry.Registry, observability.DiscoveryStats, error) {
	var stats observability.DiscoveryStats

	path := transport.Path("languages")
	body, err := c.transport.Cached(ctx, nsLanguages, path, fieldsQuery(c.fields.Languages), refresh)
	if err != nil {
		return nil, stats, discoveryError(err, path)
	}
	langs, err := models.LanguagesFromRecords(body)
	if err != nil {
		return nil, stats, discoveryError(err, path)
	}

	reg := registry.New()
	for _, lang := range langs {
		if err := reg.Add(lang); err != nil {
			return nil, stats, discoveryError(err, path)
		}
	}

	var compilers, libraries atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.concurrency)
	for _, lang := range langs {
		g.Go(func() error {
			nc, nl, err := c.fetchLanguage(gctx, lang, refresh)
			compilers.Add(int64(nc))
			libraries.Add(int64(nl))
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, stats, err
	}

	stats.Languages = reg.Len()
	stats.Compilers = int(compilers.Load())
	stats.Libraries = int(libraries.Load())
	return reg, stats, nil
}

// fetchLanguage attaches compilers and libraries to lang. Each worker only
// writes to its own language.
func (c *Client) fetchLanguage(ctx context.Context, lang *models.Language, refresh bool) (int, int, error) {
	path := transport.Path("compilers", lang.ID)
	body, err := c.transport.Cached(ctx, nsCompilers, path, fieldsQuery(c.fields.Compilers), refresh)
	if err != nil {
		return 0, 0, discoveryError(err, path)
	}
	compilers, err := models.CompilersFromRecords(body)
	if err != nil {
		return 0, 0, discoveryError(err, path)
	}
	for _, comp := range compilers {
		if err := lang.AddCompiler(comp); err != nil {
			return 0, 0, discoveryError(err, path)
		}
	}

	path = transport.Path("libraries", lang.ID)
	body, err = c.transport.Cached(ctx, nsLibraries, path, fieldsQuery(c.fields.Libraries), refresh)
	if err != nil {
		return len(compilers), 0, discoveryError(err, path)
	}
	libs, err := models.LibrariesFromRecords(body)
	if err != nil {
		return len(compilers), 0, discoveryError(err, path)
	}
	for _, lib := range libs {
		if err := lang.AddLibrary(lib); err != nil {
			return len(compilers), 0, discoveryError(err, path)
		}
	}

	c.logger.Debug("discovered language",
		"language", lang.ID,
		"compilers", len(compilers),
		"libraries", len(libs))
	return len(compilers), len(libs), nil
}

func fieldsQuery(fields string) url.Values {
	if fields == "" {
		return nil
	}
	return url.Values{"fields": {fields}}
}

func discoveryError(err error, path string) error {
	return errors.Wrap(errors.ErrCodeDiscovery, err, "GET %s", path)
}
