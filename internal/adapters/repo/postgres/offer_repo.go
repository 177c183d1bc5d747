package postgres

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/phenrril/junimo/internal/domain"
)

type OfferRepo struct{ db *gorm.DB }

func NewOfferRepo(db *gorm.DB) *OfferRepo { return &OfferRepo{db: db} }

// Save crea o reemplaza la oferta del producto.
func (r *OfferRepo) Save(ctx context.Context, o *domain.Oferta) error {
	return r.db.WithContext(ctx).Save(o).Error
}

func (r *OfferRepo) Delete(ctx context.Context, codigo string) error {
	res := r.db.WithContext(ctx).Where("codigo = ?", codigo).Delete(&domain.Oferta{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *OfferRepo) FindByCodigos(ctx context.Context, codigos []string) ([]domain.Oferta, error) {
	list := []domain.Oferta{}
	if len(codigos) == 0 {
		return list, nil
	}
	if err := r.db.WithContext(ctx).Where("codigo IN ?", codigos).Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

// ListActive devuelve las ofertas vigentes en now, mayor descuento primero.
// La ventana desde/hasta se evalúa en Go para no depender del formato de
// fechas de cada motor.
func (r *OfferRepo) ListActive(ctx context.Context, now time.Time) ([]domain.Oferta, error) {
	var all []domain.Oferta
	if err := r.db.WithContext(ctx).Where("activa = ? AND descuento > 0", true).
		Order("descuento desc").Order("codigo asc").Find(&all).Error; err != nil {
		return nil, err
	}
	list := make([]domain.Oferta, 0, len(all))
	for i := range all {
		if all[i].VigenteEn(now) {
			list = append(list, all[i])
		}
	}
	return list, nil
}
