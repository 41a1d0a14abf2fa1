// Package transport performs the HTTP exchanges with a Compiler Explorer
// instance: it merges headers, encodes request bodies, checks status codes
// and hands back the response body as raw JSON.
//
// A [Client] owns its HTTP session. The session is created on the first
// request and released by [Client.Close]; nothing is shared between
// clients. GET responses may be served from a [cache.Cache] through
// [Client.Cached]; POST requests always go to the network.
package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/godbolt/pkg/buildinfo"
	"github.com/matzehuels/godbolt/pkg/cache"
	"github.com/matzehuels/godbolt/pkg/errors"
	"github.com/matzehuels/godbolt/pkg/observability"
)

// DefaultBaseURL is the public Compiler Explorer API.
const DefaultBaseURL = "https://godbolt.org/api"

// DefaultTimeout bounds a single HTTP exchange.
const DefaultTimeout = 60 * time.Second

const (
	headerAccept      = "Accept"
	headerContentType = "Content-Type"
	headerUserAgent   = "User-Agent"
	headerRequestID   = "X-Request-ID"
	mimeJSON          = "application/json"

	maxErrorBody = 512
)

// ErrClosed is the cause of the [*errors.TransportError] returned by
// requests issued after [Client.Close].
var ErrClosed = errors.ErrClientClosed

// Options configures a [Client]. The zero value targets [DefaultBaseURL]
// with no cache.
type Options struct {
	BaseURL    string            // API root, e.g. "https://godbolt.org/api"
	Headers    map[string]string // Sent with every request; Accept is always application/json
	Timeout    time.Duration     // Per-exchange timeout; 0 means DefaultTimeout
	HTTPClient *http.Client      // Optional session to use instead of a lazily created one
	Cache      cache.Cache       // GET response cache; nil means no caching
	Keyer      cache.Keyer       // Cache key scheme; nil means cache.DefaultKeyer
	CacheTTL   time.Duration     // TTL for cached responses; 0 means no expiry
	Logger     *log.Logger       // nil means log.Default()
}

// Client sends requests to one Compiler Explorer instance.
// It is safe for concurrent use.
type Client struct {
	baseURL  string
	headers  map[string]string
	timeout  time.Duration
	cache    cache.Cache
	keyer    cache.Keyer
	cacheTTL time.Duration
	logger   *log.Logger

	mu     sync.Mutex
	http   *http.Client
	closed bool
}

// New creates a Client. No connection is made until the first request.
func New(opts Options) *Client {
	base := strings.TrimRight(opts.BaseURL, "/")
	if base == "" {
		base = DefaultBaseURL
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	c := &Client{
		baseURL:  base,
		headers:  mergeHeaders(opts.Headers),
		timeout:  timeout,
		cache:    opts.Cache,
		keyer:    opts.Keyer,
		cacheTTL: opts.CacheTTL,
		logger:   opts.Logger,
		http:     opts.HTTPClient,
	}
	if c.cache == nil {
		c.cache = cache.NewNullCache()
	}
	if c.keyer == nil {
		c.keyer = cache.NewDefaultKeyer()
	}
	if c.logger == nil {
		c.logger = log.Default()
	}
	return c
}

// mergeHeaders layers caller headers over the defaults and then forces
// Accept, which the API needs to answer with JSON.
func mergeHeaders(custom map[string]string) map[string]string {
	h := map[string]string{
		headerUserAgent: buildinfo.UserAgent(),
	}
	for k, v := range custom {
		h[http.CanonicalHeaderKey(k)] = v
	}
	h[headerAccept] = mimeJSON
	return h
}

// BaseURL returns the API root without a trailing slash.
func (c *Client) BaseURL() string { return c.baseURL }

// Headers returns a copy of the headers sent with every request.
func (c *Client) Headers() map[string]string { return maps.Clone(c.headers) }

// Path joins segments into a request path, escaping each one.
//
//	transport.Path("compilers", "c++") // "/compilers/c++"
func Path(segments ...string) string {
	var b strings.Builder
	for _, s := range segments {
		b.WriteByte('/')
		b.WriteString(url.PathEscape(s))
	}
	return b.String()
}

// URL returns the absolute URL for path and query.
func (c *Client) URL(path string, query url.Values) string {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

// session returns the HTTP client, creating it on first use.
func (c *Client) session() (*http.Client, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil, ErrClosed
	}
	if c.http == nil {
		c.http = &http.Client{Timeout: c.timeout}
	}
	return c.http, nil
}

// Close releases idle connections. Requests issued afterwards fail with
// [ErrClosed]. The response cache is not closed; it belongs to the caller.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	if c.http != nil {
		c.http.CloseIdleConnections()
	}
	return nil
}

// Get performs a GET and returns the JSON response body.
func (c *Client) Get(ctx context.Context, path string, query url.Values) (json.RawMessage, error) {
	return c.Do(ctx, http.MethodGet, path, query, nil)
}

// Post JSON-encodes body, sends it and returns the JSON response body.
func (c *Client) Post(ctx context.Context, path string, body any) (json.RawMessage, error) {
	return c.Do(ctx, http.MethodPost, path, nil, body)
}

// Do performs one exchange. A nil body sends no payload.
//
// Failures are reported as:
//   - [*errors.TransportError] for network failures, non-2xx statuses,
//     timeouts and cancellation
//   - [*errors.DecodingError] when a 2xx response is not valid JSON
//   - [*errors.TransportError] wrapping [ErrClosed] after Close
func (c *Client) Do(ctx context.Context, method, path string, query url.Values, body any) (json.RawMessage, error) {
	target := c.URL(path, query)
	hc, err := c.session()
	if err != nil {
		return nil, &errors.TransportError{Method: method, URL: target, Err: err}
	}

	var payload io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "encode %s %s body", method, path)
		}
		payload = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, payload)
	if err != nil {
		return nil, &errors.TransportError{Method: method, URL: target, Err: err}
	}
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}
	if body != nil {
		req.Header.Set(headerContentType, mimeJSON)
	}
	requestID := req.Header.Get(headerRequestID)
	if requestID == "" {
		requestID = uuid.NewString()
		req.Header.Set(headerRequestID, requestID)
	}

	hooks := observability.HTTP()
	hooks.OnRequest(ctx, method, req.URL.Host, req.URL.Path)
	start := time.Now()

	resp, err := hc.Do(req)
	if err != nil {
		terr := &errors.TransportError{Method: method, URL: target, Err: err}
		hooks.OnError(ctx, method, req.URL.Host, req.URL.Path, terr)
		c.logger.Debug("http request failed", "method", method, "url", target, "request_id", requestID, "error", err)
		return nil, terr
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	duration := time.Since(start)
	hooks.OnResponse(ctx, method, req.URL.Host, req.URL.Path, resp.StatusCode, duration)
	c.logger.Debug("http request",
		"method", method,
		"url", target,
		"request_id", requestID,
		"status", resp.StatusCode,
		"duration", duration,
	)
	if err != nil {
		return nil, &errors.TransportError{Method: method, URL: target, StatusCode: resp.StatusCode, Err: err}
	}

	if err := checkStatus(resp.StatusCode, data); err != nil {
		return nil, &errors.TransportError{Method: method, URL: target, StatusCode: resp.StatusCode, Err: err}
	}
	if !json.Valid(data) {
		return nil, &errors.DecodingError{Entity: "response", Field: path, Reason: "body is not valid JSON"}
	}
	return data, nil
}

func checkStatus(code int, body []byte) error {
	if code >= 200 && code < 300 {
		return nil
	}
	msg := strings.TrimSpace(string(body))
	if len(msg) > maxErrorBody {
		msg = msg[:maxErrorBody] + "..."
	}
	if msg == "" {
		return fmt.Errorf("%s", http.StatusText(code))
	}
	return fmt.Errorf("%s: %s", http.StatusText(code), msg)
}
