package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/phenrril/junimo/internal/domain"
	"github.com/phenrril/junimo/internal/events"
	"github.com/phenrril/junimo/internal/pricing"
)

type CartUC struct {
	Products domain.ProductRepo
	Offers   domain.OfferRepo
	Carts    domain.CartStore
	Events   *events.Bus
	Reglas   pricing.Reglas
	Now      func() time.Time
}

// Get devuelve el carrito reconciliado. correo decide el descuento DUOC.
func (uc *CartUC) Get(ctx context.Context, cartID, correo string) (*domain.Resumen, error) {
	res, _, err := uc.reconcile(ctx, cartID, correo)
	return res, err
}

// reconcile descarta líneas de productos que ya no existen, recorta cantidades
// sobre el stock y refresca precios. Reescribe el carrito si algo cambió. El
// bool indica si hubo que recortar o descartar líneas.
func (uc *CartUC) reconcile(ctx context.Context, cartID, correo string) (*domain.Resumen, bool, error) {
	items, err := uc.Carts.Items(ctx, cartID)
	if err != nil {
		return nil, false, err
	}
	codigos := make([]string, len(items))
	for i, it := range items {
		codigos[i] = it.Codigo
	}
	prods, err := uc.Products.FindByCodigos(ctx, codigos)
	if err != nil {
		return nil, false, err
	}
	ofs, err := uc.Offers.FindByCodigos(ctx, codigos)
	if err != nil {
		return nil, false, err
	}
	byCodigo := make(map[string]domain.Producto, len(prods))
	for _, p := range prods {
		byCodigo[p.Codigo] = p
	}
	ofertas := make(map[string]*domain.Oferta, len(ofs))
	for i := range ofs {
		ofertas[ofs[i].Codigo] = &ofs[i]
	}

	now := clock(uc.Now)
	ajustado, dirty := false, false
	lineas := make([]domain.LineaCarrito, 0, len(items))
	kept := make([]domain.CartItem, 0, len(items))
	for _, it := range items {
		p, ok := byCodigo[it.Codigo]
		if !ok || p.Stock <= 0 || it.Cantidad <= 0 {
			ajustado, dirty = true, true
			continue
		}
		cant, clamped := it.Cantidad, false
		if cant > p.Stock {
			cant, clamped = p.Stock, true
			ajustado, dirty = true, true
		}
		l := pricing.Linea(pricing.Decorate(p, ofertas[p.Codigo], cant, now), cant)
		l.Ajustado = clamped
		if !it.Precio.Equal(l.PrecioUnitario) || !it.Subtotal.Equal(l.Subtotal) {
			dirty = true
		}
		lineas = append(lineas, l)
		kept = append(kept, domain.CartItem{CartID: cartID, Codigo: l.Codigo, Cantidad: cant, Precio: l.PrecioUnitario, Subtotal: l.Subtotal})
	}
	if dirty {
		if err := uc.Carts.Replace(ctx, cartID, kept); err != nil {
			return nil, false, err
		}
	}
	res := pricing.Totals(lineas, correo, uc.Reglas)
	return &res, ajustado, nil
}

func (uc *CartUC) Add(ctx context.Context, cartID, correo, codigo string, cantidad int) (*domain.Resumen, error) {
	if cantidad < 1 {
		return nil, domain.NewValidationError(map[string]string{"cantidad": "Debe ser mayor o igual a 1"})
	}
	codigo = strings.ToUpper(strings.TrimSpace(codigo))
	p, err := uc.Products.FindByCodigo(ctx, codigo)
	if err != nil {
		return nil, err
	}
	actual, err := uc.cantidadEnCarrito(ctx, cartID, codigo)
	if err != nil {
		return nil, err
	}
	if actual+cantidad > p.Stock {
		return nil, fmt.Errorf("%s: quedan %d: %w", codigo, max(p.Stock-actual, 0), domain.ErrStockInsuficiente)
	}
	if err := uc.put(ctx, cartID, p, actual+cantidad); err != nil {
		return nil, err
	}
	return uc.changed(ctx, cartID, correo)
}

// Update fija la cantidad; 0 quita la línea.
func (uc *CartUC) Update(ctx context.Context, cartID, correo, codigo string, cantidad int) (*domain.Resumen, error) {
	if cantidad < 0 {
		return nil, domain.NewValidationError(map[string]string{"cantidad": "Debe ser mayor o igual a 0"})
	}
	codigo = strings.ToUpper(strings.TrimSpace(codigo))
	if cantidad == 0 {
		return uc.Remove(ctx, cartID, correo, codigo)
	}
	p, err := uc.Products.FindByCodigo(ctx, codigo)
	if err != nil {
		return nil, err
	}
	if cantidad > p.Stock {
		return nil, fmt.Errorf("%s: quedan %d: %w", codigo, p.Stock, domain.ErrStockInsuficiente)
	}
	if err := uc.put(ctx, cartID, p, cantidad); err != nil {
		return nil, err
	}
	return uc.changed(ctx, cartID, correo)
}

func (uc *CartUC) Remove(ctx context.Context, cartID, correo, codigo string) (*domain.Resumen, error) {
	if err := uc.Carts.Remove(ctx, cartID, strings.ToUpper(strings.TrimSpace(codigo))); err != nil {
		return nil, err
	}
	return uc.changed(ctx, cartID, correo)
}

func (uc *CartUC) Clear(ctx context.Context, cartID string) error {
	if err := uc.Carts.Clear(ctx, cartID); err != nil {
		return err
	}
	uc.Events.Publish(ctx, domain.EventCartUpdated, events.CartUpdated{CartID: cartID})
	return nil
}

// Count suma las unidades del carrito (el número del ícono).
func (uc *CartUC) Count(ctx context.Context, cartID string) (int, error) {
	items, err := uc.Carts.Items(ctx, cartID)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, it := range items {
		n += it.Cantidad
	}
	return n, nil
}

func (uc *CartUC) cantidadEnCarrito(ctx context.Context, cartID, codigo string) (int, error) {
	items, err := uc.Carts.Items(ctx, cartID)
	if err != nil {
		return 0, err
	}
	for _, it := range items {
		if it.Codigo == codigo {
			return it.Cantidad, nil
		}
	}
	return 0, nil
}

func (uc *CartUC) put(ctx context.Context, cartID string, p *domain.Producto, cantidad int) error {
	ofs, err := uc.Offers.FindByCodigos(ctx, []string{p.Codigo})
	if err != nil {
		return err
	}
	var of *domain.Oferta
	if len(ofs) > 0 {
		of = &ofs[0]
	}
	precio := pricing.Decorate(*p, of, 0, clock(uc.Now)).PrecioFinal
	return uc.Carts.Put(ctx, domain.CartItem{
		CartID:   cartID,
		Codigo:   p.Codigo,
		Cantidad: cantidad,
		Precio:   precio,
		Subtotal: precio.Mul(decimal.NewFromInt(int64(cantidad))),
	})
}

func (uc *CartUC) changed(ctx context.Context, cartID, correo string) (*domain.Resumen, error) {
	res, err := uc.Get(ctx, cartID, correo)
	if err != nil {
		return nil, err
	}
	uc.Events.Publish(ctx, domain.EventCartUpdated, events.CartUpdated{CartID: cartID, Cantidad: res.CantidadTotal})
	return res, nil
}
