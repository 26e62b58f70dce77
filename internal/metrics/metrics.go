package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/youruser/posterapp/internal/poster"
)

const defaultMetricsNamespace = "posterapp"

// Config contains metrics configuration.
type Config struct {
	// Namespace is the prometheus namespace for all metrics. If empty, defaults to "posterapp".
	Namespace string
	// Registerer is the prometheus registerer to use. If nil, prometheus.DefaultRegisterer is used.
	Registerer prometheus.Registerer
	// Gatherer serves the /metrics endpoint. If nil, prometheus.DefaultGatherer is used.
	Gatherer prometheus.Gatherer
}

// Registry holds all poster metrics.
type Registry struct {
	gatherer prometheus.Gatherer

	postersComposed prometheus.Counter
	flowersDrawn    prometheus.Counter
	composeDuration prometheus.Histogram
	postersRendered *prometheus.CounterVec
	renderErrors    prometheus.Counter
	renderDuration  prometheus.Histogram
}

// New creates all metrics and registers them with the configured registerer.
func New(cfg Config) (*Registry, error) {
	ns := cfg.Namespace
	if ns == "" {
		ns = defaultMetricsNamespace
	}
	registerer := cfg.Registerer
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}
	gatherer := cfg.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}

	r := &Registry{
		gatherer: gatherer,
		postersComposed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "posters_composed_total",
			Help:      "Number of composed posters.",
		}),
		flowersDrawn: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "flowers_drawn_total",
			Help:      "Number of flowers drawn over all posters.",
		}),
		composeDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: ns,
			Name:      "compose_duration_seconds",
			Help:      "Duration of poster composition.",
			Buckets:   []float64{.00001, .00005, .0001, .0005, .001, .005, .01},
		}),
		postersRendered: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "posters_rendered_total",
			Help:      "Number of rendered posters by output format.",
		}, []string{"format"}),
		renderErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "render_errors_total",
			Help:      "Number of failed renders.",
		}),
		renderDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: ns,
			Name:      "render_duration_seconds",
			Help:      "Duration of rasterizing and encoding a poster.",
			Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5},
		}),
	}

	for _, c := range []prometheus.Collector{
		r.postersComposed,
		r.flowersDrawn,
		r.composeDuration,
		r.postersRendered,
		r.renderErrors,
		r.renderDuration,
	} {
		if err := registerer.Register(c); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// ComposeHook records every composition; pass it to poster.NewComposer.
func (r *Registry) ComposeHook() poster.ComposeHook {
	return func(_ poster.Params, c *poster.Canvas, took time.Duration) {
		r.postersComposed.Inc()
		r.flowersDrawn.Add(float64(len(c.Flowers)))
		r.composeDuration.Observe(took.Seconds())
	}
}

func (r *Registry) ObserveRender(format string, took time.Duration) {
	r.postersRendered.WithLabelValues(format).Inc()
	r.renderDuration.Observe(took.Seconds())
}

func (r *Registry) RenderFailed() {
	r.renderErrors.Inc()
}

// Handler serves the gathered metrics in the prometheus text format.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.gatherer, promhttp.HandlerOpts{})
}
