package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/phenrril/junimo/internal/auth"
	"github.com/phenrril/junimo/internal/domain"
	"github.com/phenrril/junimo/internal/events"
	"github.com/phenrril/junimo/internal/validate"
)

type AuthUC struct {
	Users  domain.UserRepo
	Tokens *auth.TokenService
	Events *events.Bus
}

// Session es lo que recibe el cliente al iniciar sesión.
type Session struct {
	Usuario *domain.Usuario `json:"usuario"`
	Token   string          `json:"token"`
	Expira  time.Time       `json:"expira"`
}

type RegisterInput struct {
	Run            string `json:"run" validate:"required,run"`
	Nombre         string `json:"nombre" validate:"required,max=50"`
	Apellidos      string `json:"apellidos" validate:"required,max=100"`
	Correo         string `json:"correo" validate:"required,max=100,email,correo_permitido"`
	Telefono       string `json:"telefono" validate:"omitempty,telefono_cl"`
	Direccion      string `json:"direccion" validate:"required,max=300"`
	Region         string `json:"region" validate:"required"`
	Comuna         string `json:"comuna" validate:"required"`
	Clave          string `json:"clave" validate:"required,clave"`
	ConfirmarClave string `json:"confirmar_clave" validate:"required,eqfield=Clave"`
}

type LoginInput struct {
	Correo string `json:"correo" validate:"required,email"`
	Clave  string `json:"clave" validate:"required"`
}

func (in *RegisterInput) normalize() {
	in.Run = strings.TrimSpace(in.Run)
	in.Nombre = strings.TrimSpace(in.Nombre)
	in.Apellidos = strings.TrimSpace(in.Apellidos)
	in.Correo = strings.ToLower(strings.TrimSpace(in.Correo))
	in.Telefono = strings.TrimSpace(in.Telefono)
	in.Direccion = strings.TrimSpace(in.Direccion)
}

// checkStruct corre el validador y suma la validación de región/comuna.
func checkStruct(s any, region, comuna string) error {
	ve := domain.NewValidationError(nil)
	if err := validate.Struct(validador, s); err != nil {
		var v *domain.ValidationError
		if !errors.As(err, &v) {
			return err
		}
		ve = v
	}
	validate.Ubicacion(ve, region, comuna)
	if !ve.Empty() {
		return ve
	}
	return nil
}

// Register crea siempre un Cliente y deja la sesión iniciada.
func (uc *AuthUC) Register(ctx context.Context, in RegisterInput) (*Session, error) {
	in.normalize()
	if err := checkStruct(in, in.Region, in.Comuna); err != nil {
		return nil, err
	}
	run, _ := validate.NormalizeRUN(in.Run)
	hash, err := auth.HashPassword(in.Clave)
	if err != nil {
		return nil, err
	}
	u := &domain.Usuario{
		Run:             run,
		Nombre:          in.Nombre,
		Apellidos:       in.Apellidos,
		Correo:          in.Correo,
		Telefono:        in.Telefono,
		Direccion:       in.Direccion,
		Region:          in.Region,
		Comuna:          in.Comuna,
		Tipo:            domain.TipoCliente,
		ContrasenhaHash: hash,
	}
	if err := uc.Users.Create(ctx, u); err != nil {
		return nil, err
	}
	return uc.session(ctx, u)
}

func (uc *AuthUC) Login(ctx context.Context, in LoginInput) (*Session, error) {
	in.Correo = strings.ToLower(strings.TrimSpace(in.Correo))
	if err := validate.Struct(validador, in); err != nil {
		return nil, err
	}
	u, err := uc.Users.FindByCorreo(ctx, in.Correo)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.ErrCredenciales
	}
	if err != nil {
		return nil, err
	}
	if !auth.CheckPassword(u.ContrasenhaHash, in.Clave) {
		return nil, domain.ErrCredenciales
	}
	return uc.session(ctx, u)
}

// LoginGoogle inicia sesión a un usuario ya registrado con ese correo.
func (uc *AuthUC) LoginGoogle(ctx context.Context, correo string) (*Session, error) {
	u, err := uc.Users.FindByCorreo(ctx, strings.ToLower(strings.TrimSpace(correo)))
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.ErrNoAutorizado
	}
	if err != nil {
		return nil, err
	}
	return uc.session(ctx, u)
}

func (uc *AuthUC) Logout(ctx context.Context, run string) {
	uc.Events.Publish(ctx, domain.EventAuthStateChanged, events.AuthStateChanged{Run: run, LoggedIn: false})
}

// Me resuelve el usuario dueño del token.
func (uc *AuthUC) Me(ctx context.Context, token string) (*domain.Usuario, error) {
	if token == "" {
		return nil, domain.ErrNoAutorizado
	}
	claims, err := uc.Tokens.Parse(token)
	if err != nil {
		return nil, domain.ErrNoAutorizado
	}
	u, err := uc.Users.FindByRun(ctx, claims.Run())
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.ErrNoAutorizado
	}
	return u, err
}

func (uc *AuthUC) session(ctx context.Context, u *domain.Usuario) (*Session, error) {
	tok, exp, err := uc.Tokens.Issue(u)
	if err != nil {
		return nil, err
	}
	uc.Events.Publish(ctx, domain.EventAuthStateChanged, events.AuthStateChanged{Run: u.Run, LoggedIn: true})
	return &Session{Usuario: u, Token: tok, Expira: exp}, nil
}
