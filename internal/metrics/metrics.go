// package metrics exposes the gateway and advertiser metrics in the
// Prometheus format. A single Collector records broker, broadcast, proxy
// and connection traffic metrics.
package metrics

import (
	"net/http"

	"github.com/davseby/adgateway/internal/broker"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// _namespace prefixes every metric name.
const _namespace = "adgateway"

// Collector records the process metrics.
type Collector struct {
	registry *prometheus.Registry

	brokerState *prometheus.GaugeVec

	published *prometheus.CounterVec
	delivered *prometheus.CounterVec

	proxyBytes *prometheus.CounterVec

	connections prometheus.Gauge
	connBytes   *prometheus.CounterVec

	requests *prometheus.HistogramVec
}

// NewCollector creates a new collector. A fresh registry is used when the
// provided one is nil.
func NewCollector(registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	c := &Collector{
		registry: registry,
		brokerState: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: _namespace,
			Name:      "broker_state",
			Help:      "Current broker connection state, 1 for the active state.",
		}, []string{"state"}),
		published: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: _namespace,
			Name:      "broadcast_published_total",
			Help:      "Number of published broadcast messages.",
		}, []string{"kind"}),
		delivered: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: _namespace,
			Name:      "broadcast_delivered_total",
			Help:      "Number of settled broadcast deliveries.",
		}, []string{"kind", "outcome"}),
		proxyBytes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: _namespace,
			Name:      "proxy_bytes_total",
			Help:      "Number of body bytes streamed through the proxy.",
		}, []string{"route", "direction"}),
		connections: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: _namespace,
			Name:      "open_connections",
			Help:      "Number of open client connections.",
		}),
		connBytes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: _namespace,
			Name:      "connection_bytes_total",
			Help:      "Number of bytes read from and written to client connections.",
		}, []string{"direction"}),
		requests: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: _namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Duration of the served HTTP requests.",
			Buckets:   []float64{0.005, 0.025, 0.1, 0.5, 1, 5, 30, 300},
		}, []string{"handler", "code", "method"}),
	}

	registry.MustRegister(
		c.brokerState,
		c.published,
		c.delivered,
		c.proxyBytes,
		c.connections,
		c.connBytes,
		c.requests,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	c.SetBrokerState(broker.StateDisconnected)

	return c
}

// SetBrokerState marks the provided broker state as the active one.
func (c *Collector) SetBrokerState(state broker.State) {
	for _, s := range broker.States {
		var v float64
		if s == state {
			v = 1
		}

		c.brokerState.WithLabelValues(s.String()).Set(v)
	}
}

// Published records a published broadcast message.
func (c *Collector) Published(kind string) {
	c.published.WithLabelValues(kind).Inc()
}

// Delivered records a settled broadcast delivery.
func (c *Collector) Delivered(kind, outcome string) {
	c.delivered.WithLabelValues(kind, outcome).Inc()
}

// Streamed records bytes streamed through the proxy.
func (c *Collector) Streamed(route, direction string, n int64) {
	c.proxyBytes.WithLabelValues(route, direction).Add(float64(n))
}

// Opened records an accepted client connection.
func (c *Collector) Opened() {
	c.connections.Inc()
}

// Closed records a closed client connection.
func (c *Collector) Closed() {
	c.connections.Dec()
}

// Read records bytes read from a client connection.
func (c *Collector) Read(n int64) {
	c.connBytes.WithLabelValues("read").Add(float64(n))
}

// Written records bytes written to a client connection.
func (c *Collector) Written(n int64) {
	c.connBytes.WithLabelValues("written").Add(float64(n))
}

// Instrument wraps the handler with request duration tracking.
//
// The wrapped handler receives a writer that unwraps to the server's
// writer, so http.ResponseController can still set deadlines and flush.
func (c *Collector) Instrument(name string, h http.Handler) http.Handler {
	observer := c.requests.MustCurryWith(prometheus.Labels{"handler": name})

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		promhttp.InstrumentHandlerDuration(
			observer,
			http.HandlerFunc(func(dw http.ResponseWriter, r *http.Request) {
				h.ServeHTTP(&unwrapWriter{ResponseWriter: dw, inner: w}, r)
			}),
		).ServeHTTP(w, r)
	})
}

// unwrapWriter writes through the instrumented writer, which does not
// expose the writer it wraps, and unwraps to the server's writer.
type unwrapWriter struct {
	http.ResponseWriter

	inner http.ResponseWriter
}

// Unwrap returns the server's writer.
func (u *unwrapWriter) Unwrap() http.ResponseWriter {
	return u.inner
}

// Handler returns an HTTP handler for the Prometheus metrics endpoint.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{
		ErrorHandling: promhttp.ContinueOnError,
	})
}
