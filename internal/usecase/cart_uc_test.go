package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phenrril/junimo/internal/domain"
)

func TestCartUC_AddAndTotals(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	res, err := f.cart.Add(ctx, "c1", "", "jm001", 2)
	require.NoError(t, err)
	require.Len(t, res.Items, 1)
	assert.Equal(t, 2, res.CantidadTotal)
	assert.True(t, res.Subtotal.Equal(domain.CLP(25980)))
	assert.True(t, res.Envio.Equal(domain.CLP(3990)))
	assert.True(t, res.Total.Equal(domain.CLP(29970)))
	assert.Equal(t, 8, res.Items[0].StockDisponible)

	_, err = f.cart.Add(ctx, "c1", "", "JM002", 3)
	assert.ErrorIs(t, err, domain.ErrStockInsuficiente)

	_, err = f.cart.Add(ctx, "c1", "", "NOPE", 1)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = f.cart.Add(ctx, "c1", "", "JM001", 0)
	var ve *domain.ValidationError
	assert.ErrorAs(t, err, &ve)

	// 2 + 9 supera el stock de 10
	_, err = f.cart.Add(ctx, "c1", "", "JM001", 9)
	assert.ErrorIs(t, err, domain.ErrStockInsuficiente)

	n, err := f.cart.Count(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, 1, f.rec.count(domain.EventCartUpdated))
}

func TestCartUC_DescuentoDuocYEnvio(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.cart.Add(ctx, "c1", "", "JM004", 1)
	require.NoError(t, err)
	_, err = f.cart.Add(ctx, "c1", "", "JM001", 1)
	require.NoError(t, err)

	duoc, err := f.cart.Get(ctx, "c1", "ana@duoc.cl")
	require.NoError(t, err)
	assert.True(t, duoc.DescuentoDuoc)
	assert.True(t, duoc.Subtotal.Equal(domain.CLP(57990)))
	assert.True(t, duoc.Descuento.Equal(domain.CLP(11598)))
	// 46.392 queda bajo el umbral de envío gratis
	assert.True(t, duoc.Envio.Equal(domain.CLP(3990)))
	assert.True(t, duoc.Total.Equal(domain.CLP(50382)))

	gmail, err := f.cart.Get(ctx, "c1", "ana@gmail.com")
	require.NoError(t, err)
	assert.False(t, gmail.DescuentoDuoc)
	assert.True(t, gmail.EnvioGratis)
	assert.True(t, gmail.Total.Equal(domain.CLP(57990)))

	vacio, err := f.cart.Get(ctx, "otro", "")
	require.NoError(t, err)
	assert.Empty(t, vacio.Items)
	assert.True(t, vacio.Total.IsZero())
}

func TestCartUC_ReconcileRecortaYDescarta(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.cart.Add(ctx, "c1", "", "JM001", 5)
	require.NoError(t, err)
	_, err = f.cart.Add(ctx, "c1", "", "JM002", 1)
	require.NoError(t, err)

	require.NoError(t, f.db.Model(&domain.Producto{}).Where("codigo = ?", "JM001").Update("stock", 3).Error)
	require.NoError(t, f.products.Delete(ctx, "JM002"))

	res, err := f.cart.Get(ctx, "c1", "")
	require.NoError(t, err)
	require.Len(t, res.Items, 1)
	assert.Equal(t, "JM001", res.Items[0].Codigo)
	assert.Equal(t, 3, res.Items[0].Cantidad)
	assert.True(t, res.Items[0].Ajustado)
	assert.True(t, res.Ajustado())

	// el carrito quedó reescrito
	items, err := f.cart.Carts.Items(ctx, "c1")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 3, items[0].Cantidad)
}

func TestCartUC_PrecioDeOferta(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.offers.Set(ctx, "JM001", OfferInput{Descuento: 25})
	require.NoError(t, err)

	res, err := f.cart.Add(ctx, "c1", "", "JM001", 2)
	require.NoError(t, err)
	l := res.Items[0]
	assert.True(t, l.EnOferta)
	assert.True(t, l.PrecioUnitario.Equal(domain.CLP(9743)))
	assert.True(t, l.PrecioOriginal.Equal(domain.CLP(12990)))
	assert.True(t, res.Subtotal.Equal(domain.CLP(19486)))

	// al quitar la oferta el precio se refresca
	require.NoError(t, f.offers.Remove(ctx, "JM001"))
	res, err = f.cart.Get(ctx, "c1", "")
	require.NoError(t, err)
	assert.True(t, res.Items[0].PrecioUnitario.Equal(domain.CLP(12990)))
	assert.False(t, res.Ajustado())
}

func TestCartUC_UpdateRemoveClear(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.cart.Add(ctx, "c1", "", "JM001", 1)
	require.NoError(t, err)
	_, err = f.cart.Add(ctx, "c1", "", "JM004", 1)
	require.NoError(t, err)

	res, err := f.cart.Update(ctx, "c1", "", "JM001", 4)
	require.NoError(t, err)
	assert.Equal(t, 5, res.CantidadTotal)

	_, err = f.cart.Update(ctx, "c1", "", "JM004", 6)
	assert.ErrorIs(t, err, domain.ErrStockInsuficiente)

	res, err = f.cart.Update(ctx, "c1", "", "JM004", 0)
	require.NoError(t, err)
	require.Len(t, res.Items, 1)

	res, err = f.cart.Remove(ctx, "c1", "", "JM001")
	require.NoError(t, err)
	assert.Empty(t, res.Items)

	_, err = f.cart.Add(ctx, "c1", "", "JM001", 1)
	require.NoError(t, err)
	require.NoError(t, f.cart.Clear(ctx, "c1"))
	n, err := f.cart.Count(ctx, "c1")
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestStockUC_Available(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.cart.Add(ctx, "c1", "", "JM002", 2)
	require.NoError(t, err)

	d, err := f.stock.Available(ctx, "c1", "JM002")
	require.NoError(t, err)
	assert.Zero(t, d)
	d, err = f.stock.Available(ctx, "otro", "JM002")
	require.NoError(t, err)
	assert.Equal(t, 2, d)

	ok, err := f.stock.CanAdd(ctx, "c1", "JM001", 10)
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = f.stock.CanAdd(ctx, "c1", "JM002", 1)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = f.stock.Available(ctx, "c1", "NOPE")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
