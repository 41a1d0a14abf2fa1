// Package prommetrics implements the observability hooks with Prometheus
// collectors.
//
//	m, err := prommetrics.New(prometheus.DefaultRegisterer)
//	if err != nil { ... }
//	m.Install()
package prommetrics

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/matzehuels/godbolt/pkg/errors"
	"github.com/matzehuels/godbolt/pkg/observability"
)

const namespace = "godbolt"

// Metrics holds the collectors. It implements [observability.ClientHooks],
// [observability.CacheHooks] and [observability.HTTPHooks].
type Metrics struct {
	discoveries       *prometheus.CounterVec
	discoveryDuration prometheus.Histogram
	languages         prometheus.Gauge
	compilers         prometheus.Gauge
	libraries         prometheus.Gauge

	executions       *prometheus.CounterVec
	executeDuration  *prometheus.HistogramVec
	executeExitCodes *prometheus.CounterVec

	cacheEvents *prometheus.CounterVec
	cacheBytes  *prometheus.CounterVec

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
	httpErrors   *prometheus.CounterVec
}

// New creates the collectors and registers them with reg. Registering a
// second Metrics with the same registerer fails.
func New(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		discoveries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "discovery",
			Name:      "runs_total",
			Help:      "Discovery runs by outcome",
		}, []string{"outcome"}),
		discoveryDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "discovery",
			Name:      "duration_seconds",
			Help:      "Duration of discovery runs",
			Buckets:   prometheus.ExponentialBuckets(0.1, 2, 10),
		}),
		languages: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "registry",
			Name:      "languages",
			Help:      "Languages known after the last successful discovery",
		}),
		compilers: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "registry",
			Name:      "compilers",
			Help:      "Compilers known after the last successful discovery",
		}),
		libraries: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "registry",
			Name:      "libraries",
			Help:      "Libraries known after the last successful discovery",
		}),

		executions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "execute",
			Name:      "requests_total",
			Help:      "Execute requests by language and outcome",
		}, []string{"language", "outcome"}),
		executeDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "execute",
			Name:      "duration_seconds",
			Help:      "Duration of execute requests",
			Buckets:   prometheus.DefBuckets,
		}, []string{"language"}),
		executeExitCodes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "execute",
			Name:      "nonzero_exit_total",
			Help:      "Executions whose program exited with a non-zero code",
		}, []string{"language"}),

		cacheEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "events_total",
			Help:      "Response cache events by namespace and kind",
		}, []string{"namespace", "event"}),
		cacheBytes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "written_bytes_total",
			Help:      "Bytes written to the response cache",
		}, []string{"namespace"}),

		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "responses_total",
			Help:      "HTTP responses by method and status code",
		}, []string{"method", "code"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "duration_seconds",
			Help:      "HTTP round-trip time",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method"}),
		httpErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "errors_total",
			Help:      "HTTP requests that produced no response, by error code",
		}, []string{"method", "code"}),
	}

	collectors := []prometheus.Collector{
		m.discoveries, m.discoveryDuration, m.languages, m.compilers, m.libraries,
		m.executions, m.executeDuration, m.executeExitCodes,
		m.cacheEvents, m.cacheBytes,
		m.httpRequests, m.httpDuration, m.httpErrors,
	}
	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Install registers m as the global client, cache and HTTP hooks.
func (m *Metrics) Install() {
	observability.SetClientHooks(m)
	observability.SetCacheHooks(m)
	observability.SetHTTPHooks(m)
}

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

func (m *Metrics) OnDiscoveryStart(context.Context, string) {}

func (m *Metrics) OnDiscoveryComplete(_ context.Context, _ string, stats observability.DiscoveryStats, d time.Duration, err error) {
	m.discoveries.WithLabelValues(outcome(err)).Inc()
	m.discoveryDuration.Observe(d.Seconds())
	if err != nil {
		return
	}
	m.languages.Set(float64(stats.Languages))
	m.compilers.Set(float64(stats.Compilers))
	m.libraries.Set(float64(stats.Libraries))
}

func (m *Metrics) OnExecuteStart(context.Context, string, string) {}

func (m *Metrics) OnExecuteComplete(_ context.Context, language, _ string, exitCode int, d time.Duration, err error) {
	m.executions.WithLabelValues(language, outcome(err)).Inc()
	m.executeDuration.WithLabelValues(language).Observe(d.Seconds())
	if err == nil && exitCode != 0 {
		m.executeExitCodes.WithLabelValues(language).Inc()
	}
}

func (m *Metrics) OnCacheHit(_ context.Context, ns string) {
	m.cacheEvents.WithLabelValues(ns, "hit").Inc()
}

func (m *Metrics) OnCacheMiss(_ context.Context, ns string) {
	m.cacheEvents.WithLabelValues(ns, "miss").Inc()
}

func (m *Metrics) OnCacheSet(_ context.Context, ns string, size int) {
	m.cacheEvents.WithLabelValues(ns, "set").Inc()
	m.cacheBytes.WithLabelValues(ns).Add(float64(size))
}

func (m *Metrics) OnCacheError(_ context.Context, ns string, _ error) {
	m.cacheEvents.WithLabelValues(ns, "error").Inc()
}

func (m *Metrics) OnRequest(context.Context, string, string, string) {}

func (m *Metrics) OnResponse(_ context.Context, method, _, _ string, status int, d time.Duration) {
	m.httpRequests.WithLabelValues(method, statusLabel(status)).Inc()
	m.httpDuration.WithLabelValues(method).Observe(d.Seconds())
}

func (m *Metrics) OnError(_ context.Context, method, _, _ string, err error) {
	code := string(errors.GetCode(err))
	if code == "" {
		code = string(errors.ErrCodeNetwork)
	}
	m.httpErrors.WithLabelValues(method, code).Inc()
}

func statusLabel(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case status >= 300:
		return "3xx"
	case status >= 200:
		return "2xx"
	}
	return "other"
}

var (
	_ observability.ClientHooks = (*Metrics)(nil)
	_ observability.CacheHooks  = (*Metrics)(nil)
	_ observability.HTTPHooks   = (*Metrics)(nil)
)
