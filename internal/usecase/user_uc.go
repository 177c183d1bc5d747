package usecase

import (
	"context"
	"errors"
	"strings"

	"github.com/phenrril/junimo/internal/auth"
	"github.com/phenrril/junimo/internal/domain"
	"github.com/phenrril/junimo/internal/validate"
)

// UserUC es la administración de usuarios del panel.
type UserUC struct {
	Users domain.UserRepo
}

type UserInput struct {
	Run       string `json:"run" validate:"required,run"`
	Nombre    string `json:"nombre" validate:"required,max=50"`
	Apellidos string `json:"apellidos" validate:"required,max=100"`
	Correo    string `json:"correo" validate:"required,max=100,email,correo_permitido"`
	Telefono  string `json:"telefono" validate:"omitempty,telefono_cl"`
	Direccion string `json:"direccion" validate:"required,max=300"`
	Region    string `json:"region" validate:"required"`
	Comuna    string `json:"comuna" validate:"required"`
	Tipo      string `json:"tipo" validate:"required,oneof=Cliente Vendedor Admin"`
	Clave     string `json:"clave" validate:"omitempty,clave"`
}

func (in *UserInput) normalize() {
	in.Run = strings.TrimSpace(in.Run)
	in.Nombre = strings.TrimSpace(in.Nombre)
	in.Apellidos = strings.TrimSpace(in.Apellidos)
	in.Correo = strings.ToLower(strings.TrimSpace(in.Correo))
	in.Telefono = strings.TrimSpace(in.Telefono)
	in.Direccion = strings.TrimSpace(in.Direccion)
	in.Tipo = strings.TrimSpace(in.Tipo)
}

func (in *UserInput) apply(u *domain.Usuario) {
	u.Nombre = in.Nombre
	u.Apellidos = in.Apellidos
	u.Correo = in.Correo
	u.Telefono = in.Telefono
	u.Direccion = in.Direccion
	u.Region = in.Region
	u.Comuna = in.Comuna
	u.Tipo = domain.TipoUsuario(in.Tipo)
}

func (uc *UserUC) List(ctx context.Context, tipo string) ([]domain.Usuario, error) {
	t := domain.TipoUsuario(strings.TrimSpace(tipo))
	if t != "" && !t.Valido() {
		return nil, domain.NewValidationError(map[string]string{"tipo": "Tipo de usuario desconocido"})
	}
	return uc.Users.List(ctx, t)
}

func (uc *UserUC) Get(ctx context.Context, run string) (*domain.Usuario, error) {
	r, err := validate.NormalizeRUN(run)
	if err != nil {
		return nil, domain.ErrNotFound
	}
	return uc.Users.FindByRun(ctx, r)
}

// Create admite cualquier tipo; la clave es obligatoria.
func (uc *UserUC) Create(ctx context.Context, in UserInput) (*domain.Usuario, error) {
	in.normalize()
	err := checkStruct(in, in.Region, in.Comuna)
	if in.Clave == "" {
		ve := domain.NewValidationError(nil)
		if err != nil && !errors.As(err, &ve) {
			return nil, err
		}
		ve.Add("clave", "Este campo es obligatorio")
		err = ve
	}
	if err != nil {
		return nil, err
	}
	run, _ := validate.NormalizeRUN(in.Run)
	hash, err := auth.HashPassword(in.Clave)
	if err != nil {
		return nil, err
	}
	u := &domain.Usuario{Run: run, ContrasenhaHash: hash}
	in.apply(u)
	if err := uc.Users.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// Update mantiene la clave actual si no viene una nueva. El RUN no cambia.
func (uc *UserUC) Update(ctx context.Context, run string, in UserInput) (*domain.Usuario, error) {
	u, err := uc.Get(ctx, run)
	if err != nil {
		return nil, err
	}
	in.Run = u.Run
	in.normalize()
	if err := checkStruct(in, in.Region, in.Comuna); err != nil {
		return nil, err
	}
	in.apply(u)
	if in.Clave != "" {
		if u.ContrasenhaHash, err = auth.HashPassword(in.Clave); err != nil {
			return nil, err
		}
	}
	if err := uc.Users.Save(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// Delete impide que un administrador se elimine a sí mismo.
func (uc *UserUC) Delete(ctx context.Context, actorRun, run string) error {
	r, err := validate.NormalizeRUN(run)
	if err != nil {
		return domain.ErrNotFound
	}
	if r == actorRun {
		return domain.ErrProhibido
	}
	return uc.Users.Delete(ctx, r)
}
