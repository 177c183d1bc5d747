package validate

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/phenrril/junimo/internal/domain"
)

// New arma el validador con las etiquetas propias de la tienda y nombres de
// campo tomados del tag json.
func New() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})
	str := func(fn func(string) bool) validator.Func {
		return func(fl validator.FieldLevel) bool { return fn(fl.Field().String()) }
	}
	_ = v.RegisterValidation("run", str(ValidRUN))
	_ = v.RegisterValidation("correo_permitido", str(ValidEmailDomain))
	_ = v.RegisterValidation("telefono_cl", str(ValidPhone))
	_ = v.RegisterValidation("clave", str(ValidPassword))
	_ = v.RegisterValidation("luhn", str(ValidLuhn))
	_ = v.RegisterValidation("cvv", str(ValidCVV))
	_ = v.RegisterValidation("vencimiento", str(func(s string) bool { return ValidExpiry(s, time.Now()) }))
	return v
}

// Struct valida s y devuelve *domain.ValidationError con un mensaje por campo.
func Struct(v *validator.Validate, s any) error {
	err := v.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	return domain.NewValidationError(Messages(verrs))
}

// Messages traduce los errores del validador a mensajes en español.
func Messages(errs validator.ValidationErrors) map[string]string {
	out := make(map[string]string, len(errs))
	for _, fe := range errs {
		key := fe.Namespace()
		if i := strings.Index(key, "."); i >= 0 {
			key = key[i+1:]
		}
		if _, ok := out[key]; !ok {
			out[key] = mensaje(fe)
		}
	}
	return out
}

func mensaje(fe validator.FieldError) string {
	isString := fe.Kind() == reflect.String
	switch fe.Tag() {
	case "required", "required_if":
		return "Este campo es obligatorio"
	case "max":
		if isString {
			return fmt.Sprintf("Debe tener como máximo %s caracteres", fe.Param())
		}
		return fmt.Sprintf("Debe ser menor o igual a %s", fe.Param())
	case "min":
		if isString {
			return fmt.Sprintf("Debe tener al menos %s caracteres", fe.Param())
		}
		return fmt.Sprintf("Debe ser mayor o igual a %s", fe.Param())
	case "gte":
		return fmt.Sprintf("Debe ser mayor o igual a %s", fe.Param())
	case "lte":
		return fmt.Sprintf("Debe ser menor o igual a %s", fe.Param())
	case "oneof":
		return "Valor no permitido (" + strings.ReplaceAll(fe.Param(), " ", ", ") + ")"
	case "email":
		return "Correo con formato inválido"
	case "eqfield":
		return "Las contraseñas no coinciden"
	case "run":
		return "RUN inválido"
	case "correo_permitido":
		return "Solo se permiten correos @duoc.cl, @profesor.duoc.cl y @gmail.com"
	case "telefono_cl":
		return "Teléfono inválido (ej: +56 9 1234 5678)"
	case "clave":
		return "La contraseña debe tener entre 4 y 10 caracteres"
	case "luhn":
		return "Número de tarjeta inválido"
	case "vencimiento":
		return "Fecha de vencimiento inválida (MM/AA)"
	case "cvv":
		return "CVV inválido"
	}
	return "Valor inválido"
}

// Ubicacion agrega errores si la región o la comuna no corresponden.
func Ubicacion(ve *domain.ValidationError, region, comuna string) {
	if strings.TrimSpace(region) == "" || strings.TrimSpace(comuna) == "" {
		return
	}
	if _, ok := domain.BuscarRegion(region); !ok {
		ve.Add("region", "Región desconocida")
		return
	}
	if !domain.ComunaValida(region, comuna) {
		ve.Add("comuna", "La comuna no pertenece a la región")
	}
}

// ValidComuna indica si la comuna pertenece a la región.
func ValidComuna(region, comuna string) bool { return domain.ComunaValida(region, comuna) }
