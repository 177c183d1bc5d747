package postgres

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/phenrril/junimo/internal/domain"
)

type BlogRepo struct{ db *gorm.DB }

func NewBlogRepo(db *gorm.DB) *BlogRepo { return &BlogRepo{db: db} }

func (r *BlogRepo) Save(ctx context.Context, p *domain.BlogPost) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *BlogRepo) FindBySlug(ctx context.Context, slug string) (*domain.BlogPost, error) {
	var p domain.BlogPost
	if err := r.db.WithContext(ctx).First(&p, "slug = ?", slug).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *BlogRepo) List(ctx context.Context) ([]domain.BlogPost, error) {
	list := []domain.BlogPost{}
	if err := r.db.WithContext(ctx).Order("publicado_en desc").Order("slug asc").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *BlogRepo) Delete(ctx context.Context, slug string) error {
	res := r.db.WithContext(ctx).Where("slug = ?", slug).Delete(&domain.BlogPost{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}
