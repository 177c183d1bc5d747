package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/phenrril/junimo/internal/domain"
)

type UserRepo struct{ db *gorm.DB }

func NewUserRepo(db *gorm.DB) *UserRepo { return &UserRepo{db: db} }

// Create falla con ErrYaExiste si el RUN o el correo ya están registrados.
func (r *UserRepo) Create(ctx context.Context, u *domain.Usuario) error {
	u.Correo = strings.ToLower(strings.TrimSpace(u.Correo))
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&domain.Usuario{}).Where("run = ? OR LOWER(correo) = ?", u.Run, u.Correo).Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return fmt.Errorf("usuario %s: %w", u.Run, domain.ErrYaExiste)
		}
		return tx.Create(u).Error
	})
}

// Save actualiza; si el correo quedó tomado por otro usuario devuelve ErrYaExiste.
func (r *UserRepo) Save(ctx context.Context, u *domain.Usuario) error {
	u.Correo = strings.ToLower(strings.TrimSpace(u.Correo))
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&domain.Usuario{}).Where("LOWER(correo) = ? AND run <> ?", u.Correo, u.Run).Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return fmt.Errorf("correo %s: %w", u.Correo, domain.ErrYaExiste)
		}
		return tx.Save(u).Error
	})
}

func (r *UserRepo) FindByRun(ctx context.Context, run string) (*domain.Usuario, error) {
	var u domain.Usuario
	if err := r.db.WithContext(ctx).First(&u, "run = ?", run).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) FindByCorreo(ctx context.Context, correo string) (*domain.Usuario, error) {
	var u domain.Usuario
	e := strings.ToLower(strings.TrimSpace(correo))
	if e == "" {
		return nil, domain.ErrNotFound
	}
	if err := r.db.WithContext(ctx).First(&u, "LOWER(correo) = ?", e).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

// List filtra por tipo; vacío devuelve todos.
func (r *UserRepo) List(ctx context.Context, tipo domain.TipoUsuario) ([]domain.Usuario, error) {
	list := []domain.Usuario{}
	q := r.db.WithContext(ctx).Order("apellidos asc").Order("nombre asc")
	if tipo != "" {
		q = q.Where("tipo = ?", tipo)
	}
	if err := q.Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *UserRepo) Delete(ctx context.Context, run string) error {
	res := r.db.WithContext(ctx).Where("run = ?", run).Delete(&domain.Usuario{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *UserRepo) CountByTipo(ctx context.Context) (map[domain.TipoUsuario]int64, error) {
	var rows []struct {
		Tipo  domain.TipoUsuario
		Total int64
	}
	if err := r.db.WithContext(ctx).Model(&domain.Usuario{}).
		Select("tipo, COUNT(*) AS total").Group("tipo").Scan(&rows).Error; err != nil {
		return nil, err
	}
	out := map[domain.TipoUsuario]int64{}
	for _, r := range rows {
		out[r.Tipo] = r.Total
	}
	return out, nil
}
