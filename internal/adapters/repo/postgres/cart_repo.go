package postgres

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/phenrril/junimo/internal/domain"
)

// CartRepo guarda los carritos en la tabla cart_items.
type CartRepo struct{ db *gorm.DB }

func NewCartRepo(db *gorm.DB) *CartRepo { return &CartRepo{db: db} }

func (r *CartRepo) Items(ctx context.Context, cartID string) ([]domain.CartItem, error) {
	list := []domain.CartItem{}
	if err := r.db.WithContext(ctx).Where("cart_id = ?", cartID).Order("codigo asc").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *CartRepo) Put(ctx context.Context, item domain.CartItem) error {
	item.UpdatedAt = time.Now()
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "cart_id"}, {Name: "codigo"}},
		DoUpdates: clause.AssignmentColumns([]string{"cantidad", "precio", "subtotal", "updated_at"}),
	}).Create(&item).Error
}

func (r *CartRepo) Remove(ctx context.Context, cartID, codigo string) error {
	return r.db.WithContext(ctx).Where("cart_id = ? AND codigo = ?", cartID, codigo).Delete(&domain.CartItem{}).Error
}

func (r *CartRepo) Replace(ctx context.Context, cartID string, items []domain.CartItem) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("cart_id = ?", cartID).Delete(&domain.CartItem{}).Error; err != nil {
			return err
		}
		if len(items) == 0 {
			return nil
		}
		now := time.Now()
		for i := range items {
			items[i].CartID = cartID
			items[i].UpdatedAt = now
		}
		return tx.Create(&items).Error
	})
}

func (r *CartRepo) Clear(ctx context.Context, cartID string) error {
	return r.db.WithContext(ctx).Where("cart_id = ?", cartID).Delete(&domain.CartItem{}).Error
}
