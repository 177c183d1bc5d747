package validate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phenrril/junimo/internal/domain"
)

func TestNormalizeRUN(t *testing.T) {
	cases := []struct {
		in   string
		want string
		err  error
	}{
		{"12.345.678-5", "12345678-5", nil},
		{"12345678-5", "12345678-5", nil},
		{"123456785", "12345678-5", nil},
		{" 10.000.013-k ", "10000013-K", nil},
		{"19876543-0", "19876543-0", nil},
		{"7.654.321-6", "7654321-6", nil},
		{"12345678-4", "", ErrRUNDigito},
		{"1234-5", "", ErrRUNFormato},
		{"abcdefgh-1", "", ErrRUNFormato},
		{"", "", ErrRUNFormato},
	}
	for _, c := range cases {
		t.Run(c.in, func(t *testing.T) {
			got, err := NormalizeRUN(c.in)
			if c.err != nil {
				assert.ErrorIs(t, err, c.err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, c.want, got)
		})
	}
}

func TestDigitoVerificador(t *testing.T) {
	assert.Equal(t, "5", DigitoVerificador("12345678"))
	assert.Equal(t, "K", DigitoVerificador("10000013"))
	assert.Equal(t, "0", DigitoVerificador("19876543"))
	assert.Equal(t, "1", DigitoVerificador("11111111"))
}

func TestEmailRules(t *testing.T) {
	assert.True(t, ValidEmailDomain("ana@duoc.cl"))
	assert.True(t, ValidEmailDomain("Ana.Perez@DUOCUC.CL"))
	assert.True(t, ValidEmailDomain("profe@profesor.duoc.cl"))
	assert.True(t, ValidEmailDomain("ana@gmail.com"))
	assert.False(t, ValidEmailDomain("ana@hotmail.com"))
	assert.False(t, ValidEmailDomain("ana@duoc.cl.evil.com"))
	assert.False(t, ValidEmailDomain("no-es-correo"))

	assert.True(t, IsDuocEmail("ana@duocuc.cl"))
	assert.True(t, IsDuocEmail("profe@profesor.duoc.cl"))
	assert.False(t, IsDuocEmail("ana@gmail.com"))
	assert.False(t, IsDuocEmail(""))
}

func TestValidPhone(t *testing.T) {
	for _, ok := range []string{"", "+56912345678", "56912345678", "912345678", "+56 9 1234 5678", "9-1234-5678"} {
		assert.True(t, ValidPhone(ok), ok)
	}
	for _, bad := range []string{"12345678", "+56212345678", "91234567", "+5691234567a"} {
		assert.False(t, ValidPhone(bad), bad)
	}
}

func TestValidPassword(t *testing.T) {
	assert.False(t, ValidPassword("abc"))
	assert.True(t, ValidPassword("abcd"))
	assert.True(t, ValidPassword("abcdefghij"))
	assert.False(t, ValidPassword("abcdefghijk"))
	assert.True(t, ValidPassword("ñandú"))
}

func TestCardRules(t *testing.T) {
	assert.True(t, ValidLuhn("4111 1111 1111 1111"))
	assert.True(t, ValidLuhn("5555-5555-5555-4444"))
	assert.True(t, ValidLuhn("378282246310005"))
	assert.False(t, ValidLuhn("4111111111111112"))
	assert.False(t, ValidLuhn("4111"))
	assert.False(t, ValidLuhn("4111x11111111111"))

	now := time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)
	assert.True(t, ValidExpiry("10/26", now))
	assert.True(t, ValidExpiry("01/27", now))
	assert.False(t, ValidExpiry("09/26", now))
	assert.False(t, ValidExpiry("13/27", now))
	assert.False(t, ValidExpiry("1/27", now))
	assert.False(t, ValidExpiry("+1/30", now))
	assert.False(t, ValidExpiry("10/+7", now))
	assert.False(t, ValidExpiry("-1/30", now))

	assert.True(t, ValidCVV("123"))
	assert.True(t, ValidCVV("1234"))
	assert.False(t, ValidCVV("12"))
	assert.False(t, ValidCVV("12a"))

	assert.Equal(t, "1111", Last4("4111 1111 1111 1111"))
}

type registro struct {
	Run     string `json:"run" validate:"required,run"`
	Correo  string `json:"correo" validate:"required,correo_permitido"`
	Fono    string `json:"telefono" validate:"omitempty,telefono_cl"`
	Clave   string `json:"clave" validate:"required,clave"`
	Repetir string `json:"repetir" validate:"eqfield=Clave"`
	Nombre  string `json:"nombre" validate:"required,max=5"`
}

func TestStruct_Messages(t *testing.T) {
	v := New()

	err := Struct(v, registro{Run: "12345678-5", Correo: "a@gmail.com", Clave: "abcd", Repetir: "abcd", Nombre: "Ana"})
	require.NoError(t, err)

	err = Struct(v, registro{Run: "12345678-4", Correo: "a@yahoo.com", Fono: "123", Clave: "ab", Repetir: "zz", Nombre: "Anastasia"})
	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "RUN inválido", ve.Campos["run"])
	assert.Contains(t, ve.Campos["correo"], "@duoc.cl")
	assert.Contains(t, ve.Campos["telefono"], "Teléfono")
	assert.Contains(t, ve.Campos["clave"], "entre 4 y 10")
	assert.Equal(t, "Las contraseñas no coinciden", ve.Campos["repetir"])
	assert.Equal(t, "Debe tener como máximo 5 caracteres", ve.Campos["nombre"])
}

func TestUbicacion(t *testing.T) {
	ve := domain.NewValidationError(nil)
	Ubicacion(ve, "Biobío", "Concepción")
	assert.True(t, ve.Empty())

	Ubicacion(ve, "Biobío", "Providencia")
	assert.Equal(t, "La comuna no pertenece a la región", ve.Campos["comuna"])

	ve = domain.NewValidationError(nil)
	Ubicacion(ve, "Narnia", "X")
	assert.Equal(t, "Región desconocida", ve.Campos["region"])
}
