package godbolt

import (
	"maps"
	"net/http"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/godbolt/pkg/cache"
	"github.com/matzehuels/godbolt/pkg/config"
)

// Option configures a [Client].
type Option func(*options)

type options struct {
	baseURL         string
	headers         map[string]string
	defaultLanguage string
	timeout         time.Duration
	concurrency     int
	fields          config.Fields
	cache           cache.Cache
	ownsCache       bool
	keyer           cache.Keyer
	cacheTTL        time.Duration
	httpClient      *http.Client
	logger          *log.Logger
}

func defaultOptions() options {
	d := config.Default()
	return options{
		baseURL:         d.BaseURL,
		headers:         map[string]string{},
		defaultLanguage: d.DefaultLanguage,
		timeout:         time.Duration(d.Timeout),
		concurrency:     d.Concurrency,
		fields:          d.Fields,
	}
}

// WithBaseURL points the client at another Compiler Explorer instance,
// e.g. "http://localhost:10240/api".
func WithBaseURL(url string) Option {
	return func(o *options) { o.baseURL = url }
}

// WithHeaders adds headers to every request. Accept is always
// application/json regardless of what is passed here.
func WithHeaders(headers map[string]string) Option {
	return func(o *options) { maps.Copy(o.headers, headers) }
}

// WithDefaultLanguage sets the language used when a request names none.
func WithDefaultLanguage(id string) Option {
	return func(o *options) { o.defaultLanguage = id }
}

// WithTimeout bounds each HTTP exchange.
func WithTimeout(d time.Duration) Option {
	return func(o *options) { o.timeout = d }
}

// WithConcurrency sets how many languages are fetched in parallel during
// discovery. Values below 1 are treated as 1.
func WithConcurrency(n int) Option {
	return func(o *options) { o.concurrency = max(n, 1) }
}

// WithFields selects the record fields requested during discovery. Empty
// strings request full records.
func WithFields(f config.Fields) Option {
	return func(o *options) { o.fields = f }
}

// WithCache caches discovery responses in c for ttl. The caller keeps
// ownership of c; [Client.Close] does not close it.
func WithCache(c cache.Cache, ttl time.Duration) Option {
	return func(o *options) {
		o.cache = c
		o.cacheTTL = ttl
		o.ownsCache = false
	}
}

// WithKeyer replaces the cache key scheme.
func WithKeyer(k cache.Keyer) Option {
	return func(o *options) { o.keyer = k }
}

// WithHTTPClient makes the client use hc instead of creating its own.
func WithHTTPClient(hc *http.Client) Option {
	return func(o *options) { o.httpClient = hc }
}

// WithLogger sets the logger. The default is log.Default().
func WithLogger(l *log.Logger) Option {
	return func(o *options) { o.logger = l }
}
