package metrics

import (
	"context"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phenrril/junimo/internal/domain"
	"github.com/phenrril/junimo/internal/events"
)

func TestHandle_CountsEvents(t *testing.T) {
	m := New()
	bus := events.NewBus()
	bus.Subscribe(m.Handle)

	ctx := context.Background()
	bus.Publish(ctx, domain.EventCartUpdated, events.CartUpdated{CartID: "c"})
	bus.Publish(ctx, domain.EventCartUpdated, events.CartUpdated{CartID: "c"})
	bus.Publish(ctx, domain.EventOrderCreated, events.OrderCreated{NumeroOrden: "ORD-1", MetodoPago: "tarjeta", Total: domain.CLP(13980)})
	bus.Publish(ctx, domain.EventOrderStatusChanged, events.OrderStatusChanged{Nuevo: "Enviado"})

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Events.WithLabelValues(domain.EventCartUpdated)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Orders.WithLabelValues("tarjeta")))
	assert.Equal(t, 13980.0, testutil.ToFloat64(m.Revenue))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.StatusChanges.WithLabelValues("Enviado")))
}

func TestHandler_Exposes(t *testing.T) {
	m := New()
	m.ObserveRequest("GET", "/api/productos", 200, 15*time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	require.Equal(t, 200, rec.Code)
	body, _ := io.ReadAll(rec.Body)
	assert.Contains(t, string(body), "junimo_http_request_duration_seconds")
}
