package transport

import (
	"context"
	"encoding/json"
	"net/url"

	"github.com/matzehuels/godbolt/pkg/observability"
)

// Cached performs a GET through the response cache.
//
// The cache key is derived from namespace and the full request URL, so
// different query parameters never share an entry. With refresh set the
// cache is not read, but the fresh response still replaces the entry.
// Backend failures are logged and reported to the cache hooks; they never
// fail the request.
func (c *Client) Cached(ctx context.Context, namespace, path string, query url.Values, refresh bool) (json.RawMessage, error) {
	key := c.keyer.HTTPKey(namespace, c.URL(path, query))
	hooks := observability.Cache()

	if !refresh {
		data, hit, err := c.cache.Get(ctx, key)
		switch {
		case err != nil:
			hooks.OnCacheError(ctx, namespace, err)
			c.logger.Warn("cache read failed", "namespace", namespace, "error", err)
		case hit && json.Valid(data):
			hooks.OnCacheHit(ctx, namespace)
			return data, nil
		default:
			hooks.OnCacheMiss(ctx, namespace)
		}
	}

	data, err := c.Get(ctx, path, query)
	if err != nil {
		return nil, err
	}
	if err := c.cache.Set(ctx, key, data, c.cacheTTL); err != nil {
		hooks.OnCacheError(ctx, namespace, err)
		c.logger.Warn("cache write failed", "namespace", namespace, "error", err)
	} else {
		hooks.OnCacheSet(ctx, namespace, len(data))
	}
	return data, nil
}
