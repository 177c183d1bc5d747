package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/phenrril/junimo/internal/domain"
)

type OrderRepo struct{ db *gorm.DB }

func NewOrderRepo(db *gorm.DB) *OrderRepo { return &OrderRepo{db: db} }

// CreateWithStock descuenta el stock de cada línea con un UPDATE condicional,
// cobra y guarda la orden. Cualquier error revierte todo.
func (r *OrderRepo) CreateWithStock(ctx context.Context, o *domain.Orden, charge func(ctx context.Context) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now()
		for _, it := range o.Productos {
			if it.Cantidad <= 0 {
				return fmt.Errorf("cantidad inválida para %s", it.Codigo)
			}
			res := tx.Model(&domain.Producto{}).
				Where("codigo = ? AND stock >= ?", it.Codigo, it.Cantidad).
				Updates(map[string]any{"stock": gorm.Expr("stock - ?", it.Cantidad), "updated_at": now})
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return fmt.Errorf("%s: %w", it.Codigo, domain.ErrStockInsuficiente)
			}
		}
		if charge != nil {
			if err := charge(ctx); err != nil {
				return err
			}
		}
		return tx.Create(o).Error
	})
}

// CancelWithRestock pasa a Cancelado una orden Pendiente o Enviada y devuelve
// sus unidades al stock. Productos ya borrados se ignoran.
func (r *OrderRepo) CancelWithRestock(ctx context.Context, numero string) (*domain.Orden, error) {
	var o domain.Orden
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Preload("Productos").First(&o, "numero_orden = ?", numero).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrNotFound
			}
			return err
		}
		now := time.Now()
		res := tx.Model(&domain.Orden{}).
			Where("numero_orden = ? AND estado_envio IN ?", numero, []domain.EstadoEnvio{domain.EstadoPendiente, domain.EstadoEnviado}).
			Updates(map[string]any{"estado_envio": domain.EstadoCancelado, "updated_at": now})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ErrTransicionInvalida
		}
		for _, it := range o.Productos {
			if err := tx.Model(&domain.Producto{}).Where("codigo = ?", it.Codigo).
				Updates(map[string]any{"stock": gorm.Expr("stock + ?", it.Cantidad), "updated_at": now}).Error; err != nil {
				return err
			}
		}
		o.EstadoEnvio = domain.EstadoCancelado
		o.UpdatedAt = now
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *OrderRepo) UpdateEstado(ctx context.Context, numero string, from, to domain.EstadoEnvio) error {
	res := r.db.WithContext(ctx).Model(&domain.Orden{}).
		Where("numero_orden = ? AND estado_envio = ?", numero, from).
		Updates(map[string]any{"estado_envio": to, "updated_at": time.Now()})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		var n int64
		if err := r.db.WithContext(ctx).Model(&domain.Orden{}).Where("numero_orden = ?", numero).Count(&n).Error; err != nil {
			return err
		}
		if n == 0 {
			return domain.ErrNotFound
		}
		return domain.ErrTransicionInvalida
	}
	return nil
}

func (r *OrderRepo) Save(ctx context.Context, o *domain.Orden) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("numero_orden = ?", o.NumeroOrden).Delete(&domain.OrdenItem{}).Error; err != nil {
			return err
		}
		for i := range o.Productos {
			o.Productos[i].ID = 0
			o.Productos[i].NumeroOrden = o.NumeroOrden
		}
		return tx.Session(&gorm.Session{FullSaveAssociations: true}).Save(o).Error
	})
}

func (r *OrderRepo) FindByNumero(ctx context.Context, numero string) (*domain.Orden, error) {
	var o domain.Orden
	if err := r.db.WithContext(ctx).Preload("Productos").First(&o, "numero_orden = ?", numero).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &o, nil
}

// List ordena por fecha descendente. PageSize <= 0 devuelve todo.
func (r *OrderRepo) List(ctx context.Context, f domain.OrderFilter) ([]domain.Orden, int64, error) {
	list := []domain.Orden{}
	q := r.db.WithContext(ctx).Model(&domain.Orden{})
	if f.Estado != "" {
		q = q.Where("estado_envio = ?", f.Estado)
	}
	if f.Run != "" {
		q = q.Where("run = ?", f.Run)
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	q = q.Order("fecha desc").Order("numero_orden desc")
	if f.PageSize > 0 {
		if f.Page <= 0 {
			f.Page = 1
		}
		q = q.Offset((f.Page - 1) * f.PageSize).Limit(f.PageSize)
	}
	if err := q.Preload("Productos").Find(&list).Error; err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

func (r *OrderRepo) Recent(ctx context.Context, n int) ([]domain.Orden, error) {
	list, _, err := r.List(ctx, domain.OrderFilter{Page: 1, PageSize: n})
	return list, err
}

// Stats cuenta órdenes por estado; las ventas excluyen las canceladas.
func (r *OrderRepo) Stats(ctx context.Context) (*domain.OrderStats, error) {
	st := &domain.OrderStats{Ventas: decimal.Zero, PorEstado: map[domain.EstadoEnvio]int64{}}
	var rows []struct {
		Estado domain.EstadoEnvio
		Total  int64
	}
	if err := r.db.WithContext(ctx).Model(&domain.Orden{}).
		Select("estado_envio AS estado, COUNT(*) AS total").Group("estado_envio").Scan(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		st.PorEstado[row.Estado] = row.Total
		st.Total += row.Total
	}
	var ventas decimal.NullDecimal
	if err := r.db.WithContext(ctx).Model(&domain.Orden{}).
		Where("estado_envio <> ?", domain.EstadoCancelado).
		Select("SUM(total)").Row().Scan(&ventas); err != nil {
		return nil, err
	}
	if ventas.Valid {
		st.Ventas = ventas.Decimal
	}
	return st, nil
}
