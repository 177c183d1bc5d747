package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/phenrril/junimo/internal/domain"
)

type ProductRepo struct{ db *gorm.DB }

func NewProductRepo(db *gorm.DB) *ProductRepo { return &ProductRepo{db: db} }

func (r *ProductRepo) Create(ctx context.Context, p *domain.Producto) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&domain.Producto{}).Where("codigo = ?", p.Codigo).Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return fmt.Errorf("producto %s: %w", p.Codigo, domain.ErrYaExiste)
		}
		return tx.Create(p).Error
	})
}

func (r *ProductRepo) Save(ctx context.Context, p *domain.Producto) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *ProductRepo) FindByCodigo(ctx context.Context, codigo string) (*domain.Producto, error) {
	var p domain.Producto
	if err := r.db.WithContext(ctx).First(&p, "codigo = ?", codigo).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *ProductRepo) FindByCodigos(ctx context.Context, codigos []string) ([]domain.Producto, error) {
	list := []domain.Producto{}
	if len(codigos) == 0 {
		return list, nil
	}
	if err := r.db.WithContext(ctx).Where("codigo IN ?", codigos).Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

// List filtra y pagina. PageSize <= 0 devuelve todo.
func (r *ProductRepo) List(ctx context.Context, f domain.ProductFilter) ([]domain.Producto, int64, error) {
	list := []domain.Producto{}
	q := r.db.WithContext(ctx).Model(&domain.Producto{})
	if f.Categoria != "" {
		q = q.Where("LOWER(categoria) = LOWER(?)", f.Categoria)
	}
	if f.Codigos != nil {
		if len(f.Codigos) == 0 {
			return list, 0, nil
		}
		q = q.Where("codigo IN ?", f.Codigos)
	}
	if f.SoloDisponibles {
		q = q.Where("stock > 0")
	}
	if query := strings.TrimSpace(f.Query); query != "" {
		like := "%" + query + "%"
		q = q.Where("(LOWER(nombre) LIKE LOWER(?) OR LOWER(descripcion) LIKE LOWER(?) OR LOWER(codigo) LIKE LOWER(?))", like, like, like)
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	switch f.Sort {
	case "precio_desc":
		q = q.Order("precio desc").Order("codigo asc")
	case "precio_asc":
		q = q.Order("precio asc").Order("codigo asc")
	case "recientes":
		q = q.Order("created_at desc").Order("codigo asc")
	default:
		q = q.Order("nombre asc").Order("codigo asc")
	}
	if f.PageSize > 0 {
		if f.Page <= 0 {
			f.Page = 1
		}
		q = q.Offset((f.Page - 1) * f.PageSize).Limit(f.PageSize)
	}
	if err := q.Find(&list).Error; err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

// Delete borra el producto y su oferta.
func (r *ProductRepo) Delete(ctx context.Context, codigo string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("codigo = ?", codigo).Delete(&domain.Producto{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ErrNotFound
		}
		return tx.Where("codigo = ?", codigo).Delete(&domain.Oferta{}).Error
	})
}

func (r *ProductRepo) Categories(ctx context.Context) ([]domain.CategoriaResumen, error) {
	cats := []domain.CategoriaResumen{}
	if err := r.db.WithContext(ctx).Model(&domain.Producto{}).
		Select("categoria AS nombre, COUNT(*) AS cantidad").
		Where("categoria <> ''").Group("categoria").Order("categoria asc").
		Scan(&cats).Error; err != nil {
		return nil, err
	}
	return cats, nil
}

func (r *ProductRepo) SetStock(ctx context.Context, codigo string, stock int) error {
	if stock < 0 {
		stock = 0
	}
	res := r.db.WithContext(ctx).Model(&domain.Producto{}).Where("codigo = ?", codigo).
		Updates(map[string]any{"stock": stock, "updated_at": time.Now()})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// AdjustStock suma delta al stock sin dejarlo bajo cero.
func (r *ProductRepo) AdjustStock(ctx context.Context, codigo string, delta int) error {
	res := r.db.WithContext(ctx).Model(&domain.Producto{}).Where("codigo = ?", codigo).
		Updates(map[string]any{
			"stock":      gorm.Expr("CASE WHEN stock + ? < 0 THEN 0 ELSE stock + ? END", delta, delta),
			"updated_at": time.Now(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *ProductRepo) Critical(ctx context.Context) ([]domain.Producto, error) {
	list := []domain.Producto{}
	if err := r.db.WithContext(ctx).
		Where("stock_critico > 0 AND stock <= stock_critico").
		Order("stock asc").Order("codigo asc").
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *ProductRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.Producto{}).Count(&n).Error
	return n, err
}
