package metric

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "ampauth"

// Registry holds all application metrics backed by one Prometheus
// registry.
type Registry struct {
	reg *prometheus.Registry

	// Validation metrics, labeled by outcome (valid, or a denial reason).
	ValidationsTotal *prometheus.CounterVec

	// Cache metrics, labeled by result (hit, miss, error).
	CacheLookupsTotal *prometheus.CounterVec

	// Command pipeline metrics.
	QueueDepth       prometheus.Gauge
	CommandsTotal    *prometheus.CounterVec
	CommandDuration  *prometheus.HistogramVec
	CommandsRejected *prometheus.CounterVec

	// Token inventory.
	TokensCreated prometheus.Counter
	TokensRevoked prometheus.Counter

	// HTTP surface.
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
}

// NewRegistry builds a registry with all metrics registered, plus the
// standard Go runtime and process collectors.
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()
	f := newFactory(reg)

	r := &Registry{
		reg: reg,
		ValidationsTotal: f.counterVec("validations_total",
			"Validation decisions by outcome.", []string{"outcome"}),
		CacheLookupsTotal: f.counterVec("cache_lookups_total",
			"Validation cache lookups by result.", []string{"result"}),
		QueueDepth: f.gauge("command_queue_depth",
			"Commands waiting in the write queue."),
		CommandsTotal: f.counterVec("commands_total",
			"Commands applied by kind and status.", []string{"kind", "status"}),
		CommandDuration: f.histogramVec("command_duration_seconds",
			"Command apply latency by kind.", []string{"kind"},
			prometheus.DefBuckets),
		CommandsRejected: f.counterVec("commands_rejected_total",
			"Commands rejected before execution by reason.", []string{"reason"}),
		TokensCreated: f.counter("tokens_created_total",
			"Tokens issued since process start."),
		TokensRevoked: f.counter("tokens_revoked_total",
			"Tokens revoked since process start."),
		RequestsTotal: f.counterVec("http_requests_total",
			"HTTP requests by route and status code.", []string{"route", "code"}),
		RequestDuration: f.histogramVec("http_request_duration_seconds",
			"HTTP request latency by route.", []string{"route"},
			prometheus.DefBuckets),
	}

	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return r
}

// Handler serves the registry in Prometheus exposition format.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{})
}

// factory wraps a registry so metric construction stays one-liners.
type factory struct {
	reg *prometheus.Registry
}

func newFactory(reg *prometheus.Registry) factory {
	return factory{reg: reg}
}

func (f factory) counter(name, help string) prometheus.Counter {
	c := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace, Name: name, Help: help,
	})
	f.reg.MustRegister(c)
	return c
}

func (f factory) counterVec(name, help string, labels []string) *prometheus.CounterVec {
	c := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace, Name: name, Help: help,
	}, labels)
	f.reg.MustRegister(c)
	return c
}

func (f factory) gauge(name, help string) prometheus.Gauge {
	g := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace, Name: name, Help: help,
	})
	f.reg.MustRegister(g)
	return g
}

func (f factory) histogramVec(name, help string, labels []string, buckets []float64) *prometheus.HistogramVec {
	h := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace, Name: name, Help: help, Buckets: buckets,
	}, labels)
	f.reg.MustRegister(h)
	return h
}
