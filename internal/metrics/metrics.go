// Package metrics exposes the server's Prometheus collectors.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"greenpark/internal/toast"
)

const namespace = "greenpark"

// Metrics holds the collectors and the registry they live in.
type Metrics struct {
	registry *prometheus.Registry

	toastEvents      *prometheus.CounterVec
	reservationForms *prometheus.CounterVec
	toastSessions    prometheus.Gauge
	streamClients    prometheus.Gauge
}

// New registers the collectors on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		toastEvents: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "toast_events_total",
			Help:      "Toast notifications added or removed, by kind.",
		}, []string{"event", "kind"}),
		reservationForms: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reservation_form_submissions_total",
			Help:      "Landing page reservation form submissions, by action and outcome.",
		}, []string{"action", "outcome"}),
		toastSessions: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "toast_sessions",
			Help:      "Visitor sessions holding a toast store.",
		}),
		streamClients: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "toast_stream_clients",
			Help:      "Open toast websocket streams.",
		}),
	}
}

// ToastListener counts every toast event. Pass it to toast.WithListener.
func (m *Metrics) ToastListener() toast.Listener {
	return func(ev toast.Event) {
		m.toastEvents.WithLabelValues(string(ev.Type), ev.Notification.Kind.String()).Inc()
	}
}

// ReservationForm counts a landing page form submission.
func (m *Metrics) ReservationForm(action, outcome string) {
	m.reservationForms.WithLabelValues(action, outcome).Inc()
}

// SetToastSessions records the number of live toast sessions.
func (m *Metrics) SetToastSessions(n int) {
	m.toastSessions.Set(float64(n))
}

// StreamOpened and StreamClosed track websocket clients.
func (m *Metrics) StreamOpened() { m.streamClients.Inc() }

func (m *Metrics) StreamClosed() { m.streamClients.Dec() }

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
