package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phenrril/junimo/internal/domain"
	"github.com/phenrril/junimo/internal/events"
	"github.com/phenrril/junimo/internal/testutil"
)

func registro() RegisterInput {
	return RegisterInput{
		Run:            "12.345.678-5",
		Nombre:         "Ana",
		Apellidos:      "Pérez Soto",
		Correo:         "Ana@Duoc.cl",
		Direccion:      "Av. Siempre Viva 742",
		Region:         "Metropolitana de Santiago",
		Comuna:         "Ñuñoa",
		Clave:          "junimo1",
		ConfirmarClave: "junimo1",
	}
}

func TestAuthUC_RegisterLoginMe(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	s, err := f.auth.Register(ctx, registro())
	require.NoError(t, err)
	assert.Equal(t, "12345678-5", s.Usuario.Run)
	assert.Equal(t, "ana@duoc.cl", s.Usuario.Correo)
	assert.Equal(t, domain.TipoCliente, s.Usuario.Tipo)
	assert.NotEqual(t, "junimo1", s.Usuario.ContrasenhaHash)
	assert.NotEmpty(t, s.Token)

	_, err = f.auth.Register(ctx, registro())
	assert.ErrorIs(t, err, domain.ErrYaExiste)

	_, err = f.auth.Login(ctx, LoginInput{Correo: "ana@duoc.cl", Clave: "otra"})
	assert.ErrorIs(t, err, domain.ErrCredenciales)
	_, err = f.auth.Login(ctx, LoginInput{Correo: "nadie@gmail.com", Clave: "junimo1"})
	assert.ErrorIs(t, err, domain.ErrCredenciales)

	s2, err := f.auth.Login(ctx, LoginInput{Correo: " ANA@duoc.cl ", Clave: "junimo1"})
	require.NoError(t, err)

	me, err := f.auth.Me(ctx, s2.Token)
	require.NoError(t, err)
	assert.Equal(t, "12345678-5", me.Run)

	_, err = f.auth.Me(ctx, "basura")
	assert.ErrorIs(t, err, domain.ErrNoAutorizado)
	_, err = f.auth.Me(ctx, "")
	assert.ErrorIs(t, err, domain.ErrNoAutorizado)

	f.auth.Logout(ctx, me.Run)
	assert.Equal(t, 3, f.rec.count(domain.EventAuthStateChanged))
	ev := f.rec.last[domain.EventAuthStateChanged].(events.AuthStateChanged)
	assert.False(t, ev.LoggedIn)
}

func TestAuthUC_RegisterValidaciones(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	in := registro()
	in.Run = "12.345.678-4"
	in.Correo = "ana@hotmail.com"
	in.ConfirmarClave = "otra"
	in.Telefono = "12345"
	in.Comuna = "Viña del Mar"
	_, err := f.auth.Register(ctx, in)
	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "RUN inválido", ve.Campos["run"])
	assert.Contains(t, ve.Campos, "correo")
	assert.Equal(t, "Las contraseñas no coinciden", ve.Campos["confirmar_clave"])
	assert.Contains(t, ve.Campos, "telefono")
	assert.Contains(t, ve.Campos, "comuna")

	in = registro()
	in.Clave, in.ConfirmarClave = "123", "123"
	_, err = f.auth.Register(ctx, in)
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Campos, "clave")
}

func TestAuthUC_LoginGoogle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	testutil.Usuario(t, f.db, "19876543-0", "vendedor@gmail.com", domain.TipoVendedor, "clave1")

	s, err := f.auth.LoginGoogle(ctx, "Vendedor@Gmail.com")
	require.NoError(t, err)
	assert.Equal(t, domain.TipoVendedor, s.Usuario.Tipo)

	_, err = f.auth.LoginGoogle(ctx, "desconocido@gmail.com")
	assert.ErrorIs(t, err, domain.ErrNoAutorizado)
}

func TestUserUC_CRUD(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	admin := testutil.Usuario(t, f.db, "7654321-6", "admin@duoc.cl", domain.TipoAdmin, "admin1")

	in := UserInput{
		Run:       "19.876.543-0",
		Nombre:    "Pedro",
		Apellidos: "Soto",
		Correo:    "pedro@profesor.duoc.cl",
		Direccion: "Calle 1",
		Region:    "Metropolitana de Santiago",
		Comuna:    "Maipú",
		Tipo:      "Vendedor",
	}
	_, err := f.users.Create(ctx, in)
	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Campos, "clave")

	in.Clave = "vende1"
	u, err := f.users.Create(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, "19876543-0", u.Run)
	hash := u.ContrasenhaHash

	in.Nombre = "Pedro Pablo"
	in.Clave = ""
	u, err = f.users.Update(ctx, "198765430", in)
	require.NoError(t, err)
	assert.Equal(t, "Pedro Pablo", u.Nombre)
	assert.Equal(t, hash, u.ContrasenhaHash)

	in.Correo = admin.Correo
	_, err = f.users.Update(ctx, u.Run, in)
	assert.ErrorIs(t, err, domain.ErrYaExiste)

	vendedores, err := f.users.List(ctx, "Vendedor")
	require.NoError(t, err)
	assert.Len(t, vendedores, 1)
	_, err = f.users.List(ctx, "Jefe")
	assert.ErrorAs(t, err, &ve)

	assert.ErrorIs(t, f.users.Delete(ctx, admin.Run, "7.654.321-6"), domain.ErrProhibido)
	require.NoError(t, f.users.Delete(ctx, admin.Run, u.Run))
	_, err = f.users.Get(ctx, u.Run)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = f.users.Get(ctx, "no-es-run")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
