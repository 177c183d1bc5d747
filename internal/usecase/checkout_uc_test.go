package usecase

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phenrril/junimo/internal/domain"
	"github.com/phenrril/junimo/internal/events"
	"github.com/phenrril/junimo/internal/testutil"
)

type rechazo struct{ llamadas int }

func (r *rechazo) Charge(context.Context, domain.Tarjeta, decimal.Decimal) (string, error) {
	r.llamadas++
	return "", fmt.Errorf("fondos insuficientes: %w", domain.ErrPagoRechazado)
}

// insertFallido cobra y luego falla al guardar la orden.
type insertFallido struct{ domain.OrderRepo }

func (insertFallido) CreateWithStock(ctx context.Context, o *domain.Orden, charge func(ctx context.Context) error) error {
	if err := charge(ctx); err != nil {
		return err
	}
	return errors.New("insert rechazado")
}

func datosCompra(metodo string) CheckoutInput {
	in := CheckoutInput{
		Nombre:     "Ana",
		Apellidos:  "Pérez Soto",
		Correo:     "Ana@Gmail.com",
		Telefono:   "+56 9 1234 5678",
		Direccion:  "Av. Providencia 1234",
		Region:     "Metropolitana de Santiago",
		Comuna:     "Providencia",
		MetodoPago: metodo,
	}
	if metodo == "tarjeta" {
		in.Tarjeta = TarjetaInput{Numero: "4111 1111 1111 1111", Titular: "ANA PEREZ", Vencimiento: "12/39", CVV: "123"}
	}
	return in
}

func TestCheckoutUC_Tarjeta(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.cart.Add(ctx, "c1", "", "JM001", 2)
	require.NoError(t, err)
	_, err = f.cart.Add(ctx, "c1", "", "JM002", 1)
	require.NoError(t, err)

	o, err := f.checkout.Checkout(ctx, "c1", nil, datosCompra("tarjeta"))
	require.NoError(t, err)
	assert.Regexp(t, `^ORD-[0-9A-F]{8}$`, o.NumeroOrden)
	assert.Regexp(t, `^CARD-[0-9A-F]{8}$`, o.PagoReferencia)
	assert.Equal(t, domain.EstadoPendiente, o.EstadoEnvio)
	assert.Equal(t, "ana@gmail.com", o.Correo)
	assert.Equal(t, "Ana Pérez Soto", o.Nombre)
	assert.Empty(t, o.Run)
	assert.True(t, o.Subtotal.Equal(domain.CLP(33970)))
	assert.True(t, o.Total.Equal(domain.CLP(37960)))
	require.Len(t, o.Productos, 2)

	assert.Equal(t, 8, f.stockDe(t, "JM001"))
	assert.Equal(t, 1, f.stockDe(t, "JM002"))

	n, err := f.cart.Count(ctx, "c1")
	require.NoError(t, err)
	assert.Zero(t, n)

	saved, err := f.orders.Get(ctx, o.NumeroOrden)
	require.NoError(t, err)
	assert.Len(t, saved.Productos, 2)
	assert.Equal(t, 1, f.rec.count(domain.EventOrderCreated))
	assert.Equal(t, 2, f.rec.count(domain.EventStockUpdated))
	created := f.rec.last[domain.EventOrderCreated].(events.OrderCreated)
	assert.Equal(t, o.NumeroOrden, created.NumeroOrden)
}

func TestCheckoutUC_UsuarioConCorreoDuoc(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := testutil.Usuario(t, f.db, "12345678-5", "ana@duoc.cl", domain.TipoCliente, "clave1")

	_, err := f.cart.Add(ctx, "c1", u.Correo, "JM004", 2)
	require.NoError(t, err)
	o, err := f.checkout.Checkout(ctx, "c1", u, datosCompra("tarjeta"))
	require.NoError(t, err)
	assert.Equal(t, u.Run, o.Run)
	assert.True(t, o.Descuento.Equal(domain.CLP(18000)))
	assert.True(t, o.Envio.IsZero())
	assert.True(t, o.Total.Equal(domain.CLP(72000)))

	mias, err := f.orders.ByUser(ctx, u.Run)
	require.NoError(t, err)
	assert.Len(t, mias, 1)
}

func TestCheckoutUC_Validaciones(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.checkout.Checkout(ctx, "c1", nil, datosCompra("tarjeta"))
	assert.ErrorIs(t, err, domain.ErrCarritoVacio)

	in := datosCompra("tarjeta")
	in.Tarjeta.Numero = "4111 1111 1111 1112"
	in.Comuna = "Valparaíso"
	in.Correo = "no-es-correo"
	_, err = f.checkout.Checkout(ctx, "c1", nil, in)
	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Campos, "tarjeta.numero")
	assert.Contains(t, ve.Campos, "comuna")
	assert.Contains(t, ve.Campos, "correo")

	in = datosCompra("paypal")
	_, err = f.checkout.Checkout(ctx, "c1", nil, in)
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Campos, "paypal_order_id")
}

func TestCheckoutUC_PagoRechazadoNoPersiste(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	card := &rechazo{}
	f.checkout.Card = card

	_, err := f.cart.Add(ctx, "c1", "", "JM001", 3)
	require.NoError(t, err)
	_, err = f.checkout.Checkout(ctx, "c1", nil, datosCompra("tarjeta"))
	assert.ErrorIs(t, err, domain.ErrPagoRechazado)
	assert.Equal(t, 1, card.llamadas)

	assert.Equal(t, 10, f.stockDe(t, "JM001"))
	var n int64
	require.NoError(t, f.db.Model(&domain.Orden{}).Count(&n).Error)
	assert.Zero(t, n)
	cnt, err := f.cart.Count(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, 3, cnt)
	assert.Zero(t, f.rec.count(domain.EventOrderCreated))
}

func TestCheckoutUC_StockCambioAntesDePagar(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.cart.Add(ctx, "c1", "", "JM001", 5)
	require.NoError(t, err)
	require.NoError(t, f.db.Model(&domain.Producto{}).Where("codigo = ?", "JM001").Update("stock", 2).Error)

	_, err = f.checkout.Checkout(ctx, "c1", nil, datosCompra("tarjeta"))
	assert.ErrorIs(t, err, domain.ErrStockInsuficiente)
	assert.Equal(t, 2, f.stockDe(t, "JM001"))

	// el carrito quedó recortado; el segundo intento pasa
	o, err := f.checkout.Checkout(ctx, "c1", nil, datosCompra("tarjeta"))
	require.NoError(t, err)
	assert.Equal(t, 2, o.Productos[0].Cantidad)
	assert.Zero(t, f.stockDe(t, "JM001"))
}

func TestCheckoutUC_PayPalSimulado(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.checkout.PayPalOrder(ctx, "c1", nil)
	assert.ErrorIs(t, err, domain.ErrCarritoVacio)

	_, err = f.cart.Add(ctx, "c1", "", "JM004", 1)
	require.NoError(t, err)
	pp, err := f.checkout.PayPalOrder(ctx, "c1", nil)
	require.NoError(t, err)
	assert.True(t, pp.Simulado)
	assert.NotEmpty(t, pp.ID)
	// 48.990 / 950
	assert.Equal(t, "51.57", pp.MontoUSD.StringFixed(2))

	in := datosCompra("paypal")
	in.PayPalOrderID = pp.ID
	o, err := f.checkout.Checkout(ctx, "c1", nil, in)
	require.NoError(t, err)
	assert.Equal(t, domain.PagoPayPal, o.MetodoPago)
	assert.Equal(t, "PAYPAL-"+pp.ID, o.PagoReferencia)
	assert.Equal(t, 4, f.stockDe(t, "JM004"))
}

func TestCheckoutUC_CobroSinOrdenQuedaEnLog(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.checkout.Orders = insertFallido{f.checkout.Orders}

	var buf bytes.Buffer
	prev := log.Logger
	log.Logger = zerolog.New(&buf)
	t.Cleanup(func() { log.Logger = prev })

	_, err := f.cart.Add(ctx, "c1", "", "JM001", 1)
	require.NoError(t, err)
	_, err = f.checkout.Checkout(ctx, "c1", nil, datosCompra("tarjeta"))
	require.Error(t, err)

	out := buf.String()
	assert.Contains(t, out, `"level":"error"`)
	assert.Regexp(t, `"referencia":"CARD-[0-9A-F]{8}"`, out)
	assert.Contains(t, out, `"orden":"ORD-`)
	assert.Contains(t, out, "cobro sin orden")
	assert.Zero(t, f.rec.count(domain.EventOrderCreated))
}
