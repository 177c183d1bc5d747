// Package metrics expone contadores Prometheus de la tienda.
package metrics

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/phenrril/junimo/internal/domain"
	"github.com/phenrril/junimo/internal/events"
)

const namespace = "junimo"

type Metrics struct {
	registry *prometheus.Registry

	Events          *prometheus.CounterVec
	Orders          *prometheus.CounterVec
	Revenue         prometheus.Counter
	StatusChanges   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
}

// New crea un registro propio para no chocar con el global.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		Events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_total",
			Help:      "Eventos publicados en el bus, por nombre.",
		}, []string{"event"}),
		Orders: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "orders_total",
			Help:      "Órdenes creadas, por método de pago.",
		}, []string{"metodo_pago"}),
		Revenue: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "revenue_clp_total",
			Help:      "Suma de totales de órdenes creadas, en pesos.",
		}),
		StatusChanges: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "order_status_changes_total",
			Help:      "Cambios de estado de envío, por estado nuevo.",
		}, []string{"estado"}),
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Duración de las peticiones HTTP.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}
	reg.MustRegister(m.Events, m.Orders, m.Revenue, m.StatusChanges, m.RequestDuration)
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	return m
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) ObserveRequest(method, route string, status int, d time.Duration) {
	m.RequestDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(d.Seconds())
}

// Handle es el suscriptor del bus de eventos.
func (m *Metrics) Handle(_ context.Context, e events.Event) error {
	m.Events.WithLabelValues(e.Name).Inc()
	switch e.Name {
	case domain.EventOrderCreated:
		if p, ok := e.Payload.(events.OrderCreated); ok {
			m.Orders.WithLabelValues(p.MetodoPago).Inc()
			m.Revenue.Add(p.Total.InexactFloat64())
		}
	case domain.EventOrderStatusChanged:
		if p, ok := e.Payload.(events.OrderStatusChanged); ok {
			m.StatusChanges.WithLabelValues(p.Nuevo).Inc()
		}
	}
	return nil
}
