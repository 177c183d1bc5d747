package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phenrril/junimo/internal/domain"
	"github.com/phenrril/junimo/internal/events"
)

func comprar(t *testing.T, f *fixture, cartID, codigo string, cantidad int) *domain.Orden {
	t.Helper()
	ctx := context.Background()
	_, err := f.cart.Add(ctx, cartID, "", codigo, cantidad)
	require.NoError(t, err)
	o, err := f.checkout.Checkout(ctx, cartID, nil, datosCompra("tarjeta"))
	require.NoError(t, err)
	return o
}

func TestOrderUC_Transiciones(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	o := comprar(t, f, "c1", "JM001", 2)

	got, err := f.orders.UpdateStatus(ctx, o.NumeroOrden, domain.EstadoPendiente)
	require.NoError(t, err)
	assert.Equal(t, domain.EstadoPendiente, got.EstadoEnvio)
	assert.Zero(t, f.rec.count(domain.EventOrderStatusChanged))

	got, err = f.orders.UpdateStatus(ctx, o.NumeroOrden, domain.EstadoEnviado)
	require.NoError(t, err)
	assert.Equal(t, domain.EstadoEnviado, got.EstadoEnvio)

	_, err = f.orders.UpdateStatus(ctx, o.NumeroOrden, domain.EstadoPendiente)
	assert.ErrorIs(t, err, domain.ErrTransicionInvalida)

	got, err = f.orders.UpdateStatus(ctx, o.NumeroOrden, domain.EstadoEntregado)
	require.NoError(t, err)
	assert.Equal(t, domain.EstadoEntregado, got.EstadoEnvio)

	_, err = f.orders.UpdateStatus(ctx, o.NumeroOrden, domain.EstadoCancelado)
	assert.ErrorIs(t, err, domain.ErrTransicionInvalida)
	assert.Equal(t, 8, f.stockDe(t, "JM001"))

	_, err = f.orders.UpdateStatus(ctx, o.NumeroOrden, "Perdido")
	var ve *domain.ValidationError
	assert.ErrorAs(t, err, &ve)

	_, err = f.orders.UpdateStatus(ctx, "ORD-NOEXISTE", domain.EstadoEnviado)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	assert.Equal(t, 2, f.rec.count(domain.EventOrderStatusChanged))
	ev := f.rec.last[domain.EventOrderStatusChanged].(events.OrderStatusChanged)
	assert.Equal(t, "Enviado", ev.Anterior)
	assert.Equal(t, "Entregado", ev.Nuevo)
}

func TestOrderUC_CancelarDevuelveStock(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	o := comprar(t, f, "c1", "JM002", 2)
	assert.Zero(t, f.stockDe(t, "JM002"))

	got, err := f.orders.UpdateStatus(ctx, o.NumeroOrden, domain.EstadoCancelado)
	require.NoError(t, err)
	assert.Equal(t, domain.EstadoCancelado, got.EstadoEnvio)
	assert.Equal(t, 2, f.stockDe(t, "JM002"))

	// cancelar de nuevo no suma stock otra vez
	_, err = f.orders.UpdateStatus(ctx, o.NumeroOrden, domain.EstadoCancelado)
	require.NoError(t, err)
	assert.Equal(t, 2, f.stockDe(t, "JM002"))

	ev := f.rec.last[domain.EventStockUpdated].(events.StockUpdated)
	assert.Equal(t, "JM002", ev.Codigo)
	assert.Equal(t, 2, ev.Stock)
}

func TestOrderUC_List(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := comprar(t, f, "c1", "JM001", 1)
	comprar(t, f, "c2", "JM004", 1)
	_, err := f.orders.UpdateStatus(ctx, a.NumeroOrden, domain.EstadoEnviado)
	require.NoError(t, err)

	page, err := f.orders.List(ctx, OrderQuery{})
	require.NoError(t, err)
	assert.EqualValues(t, 2, page.Total)
	assert.Equal(t, 20, page.PageSize)

	page, err = f.orders.List(ctx, OrderQuery{Estado: "Enviado"})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, a.NumeroOrden, page.Items[0].NumeroOrden)

	_, err = f.orders.List(ctx, OrderQuery{Estado: "Raro"})
	var ve *domain.ValidationError
	assert.ErrorAs(t, err, &ve)

	all, err := f.orders.All(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	none, err := f.orders.ByUser(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, none)
}
