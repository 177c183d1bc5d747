package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/phenrril/junimo/internal/domain"
	"github.com/phenrril/junimo/internal/events"
	"github.com/phenrril/junimo/internal/validate"
)

type CheckoutUC struct {
	Cart   *CartUC
	Orders domain.OrderRepo
	Card   domain.CardProcessor
	PayPal domain.PayPalGateway
	Events *events.Bus
	Now    func() time.Time
}

type TarjetaInput struct {
	Numero      string `json:"numero" validate:"required,luhn"`
	Titular     string `json:"titular" validate:"required,max=100"`
	Vencimiento string `json:"vencimiento" validate:"required,vencimiento"`
	CVV         string `json:"cvv" validate:"required,cvv"`
}

type CheckoutInput struct {
	Run           string       `json:"run" validate:"omitempty,run"`
	Nombre        string       `json:"nombre" validate:"required,max=50"`
	Apellidos     string       `json:"apellidos" validate:"required,max=100"`
	Correo        string       `json:"correo" validate:"required,max=100,email"`
	Telefono      string       `json:"telefono" validate:"omitempty,telefono_cl"`
	Direccion     string       `json:"direccion" validate:"required,max=300"`
	Region        string       `json:"region" validate:"required"`
	Comuna        string       `json:"comuna" validate:"required"`
	MetodoPago    string       `json:"metodo_pago" validate:"required,oneof=tarjeta paypal"`
	Tarjeta       TarjetaInput `json:"tarjeta" validate:"-"`
	PayPalOrderID string       `json:"paypal_order_id" validate:"required_if=MetodoPago paypal"`
}

func (in *CheckoutInput) check() error {
	in.Nombre = strings.TrimSpace(in.Nombre)
	in.Apellidos = strings.TrimSpace(in.Apellidos)
	in.Correo = strings.ToLower(strings.TrimSpace(in.Correo))
	in.Direccion = strings.TrimSpace(in.Direccion)
	ve := domain.NewValidationError(nil)
	if err := validate.Struct(validador, in); err != nil {
		v, ok := err.(*domain.ValidationError)
		if !ok {
			return err
		}
		ve = v
	}
	if in.MetodoPago == string(domain.PagoTarjeta) {
		if err := validate.Struct(validador, in.Tarjeta); err != nil {
			v, ok := err.(*domain.ValidationError)
			if !ok {
				return err
			}
			for k, msg := range v.Campos {
				ve.Add("tarjeta."+k, msg)
			}
		}
	}
	validate.Ubicacion(ve, in.Region, in.Comuna)
	if !ve.Empty() {
		return ve
	}
	if in.Run != "" {
		in.Run, _ = validate.NormalizeRUN(in.Run)
	}
	return nil
}

// PayPalOrder crea la orden de PayPal por el total actual del carrito.
func (uc *CheckoutUC) PayPalOrder(ctx context.Context, cartID string, user *domain.Usuario) (*domain.PayPalOrden, error) {
	res, ajustado, err := uc.Cart.reconcile(ctx, cartID, correoDe(user))
	if err != nil {
		return nil, err
	}
	if len(res.Items) == 0 {
		return nil, domain.ErrCarritoVacio
	}
	if ajustado {
		return nil, domain.ErrStockInsuficiente
	}
	return uc.PayPal.CreateOrder(ctx, res.Total, cartID)
}

// Checkout valida, reconcilia el carrito y dentro de una transacción descuenta
// stock, cobra y guarda la orden. user es nil para compras como invitado.
func (uc *CheckoutUC) Checkout(ctx context.Context, cartID string, user *domain.Usuario, in CheckoutInput) (*domain.Orden, error) {
	if err := in.check(); err != nil {
		return nil, err
	}
	res, ajustado, err := uc.Cart.reconcile(ctx, cartID, correoDe(user))
	if err != nil {
		return nil, err
	}
	if len(res.Items) == 0 {
		return nil, domain.ErrCarritoVacio
	}
	if ajustado {
		return nil, domain.ErrStockInsuficiente
	}

	o := &domain.Orden{
		NumeroOrden: domain.NuevoNumeroOrden(),
		Fecha:       clock(uc.Now),
		Run:         in.Run,
		Nombre:      strings.TrimSpace(in.Nombre + " " + in.Apellidos),
		Correo:      in.Correo,
		Telefono:    in.Telefono,
		Direccion:   in.Direccion,
		Region:      in.Region,
		Comuna:      in.Comuna,
		Subtotal:    res.Subtotal,
		Descuento:   res.Descuento,
		Envio:       res.Envio,
		Total:       res.Total,
		MetodoPago:  domain.MetodoPago(in.MetodoPago),
		EstadoEnvio: domain.EstadoPendiente,
	}
	if user != nil {
		o.Run = user.Run
	}
	for _, l := range res.Items {
		o.Productos = append(o.Productos, domain.OrdenItem{
			NumeroOrden:    o.NumeroOrden,
			Codigo:         l.Codigo,
			Nombre:         l.Nombre,
			Cantidad:       l.Cantidad,
			PrecioUnitario: l.PrecioUnitario,
			Subtotal:       l.Subtotal,
		})
	}

	charge := func(ctx context.Context) error {
		var ref string
		var err error
		switch o.MetodoPago {
		case domain.PagoTarjeta:
			ref, err = uc.Card.Charge(ctx, domain.Tarjeta{
				Numero:      in.Tarjeta.Numero,
				Titular:     in.Tarjeta.Titular,
				Vencimiento: in.Tarjeta.Vencimiento,
				CVV:         in.Tarjeta.CVV,
			}, o.Total)
		case domain.PagoPayPal:
			ref, err = uc.PayPal.Capture(ctx, in.PayPalOrderID, o.Total)
		}
		if err != nil {
			return err
		}
		o.PagoReferencia = ref
		return nil
	}
	if err := uc.Orders.CreateWithStock(ctx, o, charge); err != nil {
		if o.PagoReferencia != "" {
			// El cobro se aplicó pero la orden no quedó guardada.
			log.Error().Err(err).
				Str("cart", cartID).
				Str("orden", o.NumeroOrden).
				Str("metodo", in.MetodoPago).
				Str("referencia", o.PagoReferencia).
				Str("total", o.Total.String()).
				Msg("cobro sin orden, conciliar")
			return nil, err
		}
		log.Warn().Err(err).Str("cart", cartID).Str("metodo", in.MetodoPago).Msg("checkout rechazado")
		return nil, err
	}

	if err := uc.Cart.Carts.Clear(ctx, cartID); err != nil {
		log.Error().Err(err).Str("cart", cartID).Msg("no se pudo vaciar el carrito")
	}
	uc.Events.Publish(ctx, domain.EventOrderCreated, events.OrderCreated{
		NumeroOrden: o.NumeroOrden,
		MetodoPago:  string(o.MetodoPago),
		Total:       o.Total,
		Items:       len(o.Productos),
	})
	for _, it := range o.Productos {
		if p, err := uc.Cart.Products.FindByCodigo(ctx, it.Codigo); err == nil {
			uc.Events.Publish(ctx, domain.EventStockUpdated, events.StockUpdated{Codigo: p.Codigo, Stock: p.Stock})
		}
	}
	uc.Events.Publish(ctx, domain.EventCartUpdated, events.CartUpdated{CartID: cartID})
	return o, nil
}

func correoDe(u *domain.Usuario) string {
	if u == nil {
		return ""
	}
	return u.Correo
}
