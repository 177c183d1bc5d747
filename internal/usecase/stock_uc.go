package usecase

import (
	"context"
	"errors"

	"github.com/phenrril/junimo/internal/domain"
	"github.com/phenrril/junimo/internal/events"
)

// StockUC responde cuánto stock queda para un carrito. El descuento real se
// hace en la transacción de checkout y la devolución en la de cancelación.
type StockUC struct {
	Products domain.ProductRepo
	Carts    domain.CartStore
	Events   *events.Bus
}

// Available es stock menos lo que el carrito ya tiene, nunca negativo.
func (uc *StockUC) Available(ctx context.Context, cartID, codigo string) (int, error) {
	p, err := uc.Products.FindByCodigo(ctx, codigo)
	if err != nil {
		return 0, err
	}
	enCarrito := 0
	if cartID != "" {
		items, err := uc.Carts.Items(ctx, cartID)
		if err != nil {
			return 0, err
		}
		for _, it := range items {
			if it.Codigo == p.Codigo {
				enCarrito += it.Cantidad
			}
		}
	}
	if d := p.Stock - enCarrito; d > 0 {
		return d, nil
	}
	return 0, nil
}

func (uc *StockUC) CanAdd(ctx context.Context, cartID, codigo string, cantidad int) (bool, error) {
	if cantidad <= 0 {
		return false, nil
	}
	d, err := uc.Available(ctx, cartID, codigo)
	if err != nil {
		return false, err
	}
	return cantidad <= d, nil
}

// Restored avisa el stock vigente de las líneas de una orden cancelada.
func (uc *StockUC) Restored(ctx context.Context, items []domain.OrdenItem) {
	for _, it := range items {
		p, err := uc.Products.FindByCodigo(ctx, it.Codigo)
		if errors.Is(err, domain.ErrNotFound) {
			continue
		}
		if err != nil {
			return
		}
		uc.Events.Publish(ctx, domain.EventStockUpdated, events.StockUpdated{Codigo: p.Codigo, Stock: p.Stock})
	}
}
