package usecase

import (
	"context"
	"time"

	"github.com/phenrril/junimo/internal/domain"
	"github.com/phenrril/junimo/internal/pricing"
	"github.com/phenrril/junimo/internal/validate"
)

const (
	pageSizeDefault = 20
	pageSizeMax     = 100
)

var validador = validate.New()

type Page[T any] struct {
	Items    []T   `json:"items"`
	Total    int64 `json:"total"`
	Page     int   `json:"page"`
	PageSize int   `json:"page_size"`
}

func normPage(page, size int) (int, int) {
	if page < 1 {
		page = 1
	}
	if size <= 0 {
		size = pageSizeDefault
	}
	if size > pageSizeMax {
		size = pageSizeMax
	}
	return page, size
}

func clock(now func() time.Time) time.Time {
	if now == nil {
		return time.Now()
	}
	return now()
}

// decorateAll aplica ofertas vigentes y lo que el carrito cartID ya tiene.
func decorateAll(ctx context.Context, offers domain.OfferRepo, carts domain.CartStore, list []domain.Producto, cartID string, now time.Time) ([]domain.ProductoView, error) {
	out := make([]domain.ProductoView, 0, len(list))
	if len(list) == 0 {
		return out, nil
	}
	codigos := make([]string, len(list))
	for i, p := range list {
		codigos[i] = p.Codigo
	}
	ofertas := map[string]*domain.Oferta{}
	if offers != nil {
		ofs, err := offers.FindByCodigos(ctx, codigos)
		if err != nil {
			return nil, err
		}
		for i := range ofs {
			ofertas[ofs[i].Codigo] = &ofs[i]
		}
	}
	enCarrito := map[string]int{}
	if carts != nil && cartID != "" {
		items, err := carts.Items(ctx, cartID)
		if err != nil {
			return nil, err
		}
		for _, it := range items {
			enCarrito[it.Codigo] += it.Cantidad
		}
	}
	for _, p := range list {
		out = append(out, pricing.Decorate(p, ofertas[p.Codigo], enCarrito[p.Codigo], now))
	}
	return out, nil
}
