package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/phenrril/junimo/internal/domain"
	"github.com/phenrril/junimo/internal/validate"
)

type OfferUC struct {
	Offers   domain.OfferRepo
	Products domain.ProductRepo
	Carts    domain.CartStore
	Now      func() time.Time
}

type OfferInput struct {
	Descuento int        `json:"descuento" validate:"required,gte=1,lte=90"`
	Activa    *bool      `json:"activa"`
	Desde     *time.Time `json:"desde"`
	Hasta     *time.Time `json:"hasta"`
}

// List devuelve los productos en oferta ahora, mayor descuento primero.
func (uc *OfferUC) List(ctx context.Context, cartID string) ([]domain.ProductoView, error) {
	now := clock(uc.Now)
	ofs, err := uc.Offers.ListActive(ctx, now)
	if err != nil {
		return nil, err
	}
	codigos := make([]string, 0, len(ofs))
	for _, o := range ofs {
		codigos = append(codigos, o.Codigo)
	}
	prods, err := uc.Products.FindByCodigos(ctx, codigos)
	if err != nil {
		return nil, err
	}
	byCodigo := make(map[string]domain.Producto, len(prods))
	for _, p := range prods {
		byCodigo[p.Codigo] = p
	}
	ordered := make([]domain.Producto, 0, len(prods))
	for _, c := range codigos {
		if p, ok := byCodigo[c]; ok {
			ordered = append(ordered, p)
		}
	}
	return decorateAll(ctx, uc.Offers, uc.Carts, ordered, cartID, now)
}

func (uc *OfferUC) Set(ctx context.Context, codigo string, in OfferInput) (*domain.Oferta, error) {
	if err := validate.Struct(validador, in); err != nil {
		return nil, err
	}
	if in.Desde != nil && in.Hasta != nil && !in.Hasta.After(*in.Desde) {
		return nil, domain.NewValidationError(map[string]string{"hasta": "Debe ser posterior a desde"})
	}
	p, err := uc.Products.FindByCodigo(ctx, strings.ToUpper(strings.TrimSpace(codigo)))
	if err != nil {
		return nil, err
	}
	o := &domain.Oferta{Codigo: p.Codigo, Descuento: in.Descuento, Activa: true, Desde: in.Desde, Hasta: in.Hasta}
	if in.Activa != nil {
		o.Activa = *in.Activa
	}
	if prev, err := uc.Offers.FindByCodigos(ctx, []string{p.Codigo}); err == nil && len(prev) == 1 {
		o.CreatedAt = prev[0].CreatedAt
	}
	if err := uc.Offers.Save(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

func (uc *OfferUC) Remove(ctx context.Context, codigo string) error {
	return uc.Offers.Delete(ctx, strings.ToUpper(strings.TrimSpace(codigo)))
}
