// Package validate reúne las reglas de formularios: RUN, correo, teléfono,
// contraseña y tarjeta, más el validador de structs basado en etiquetas.
package validate

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
)

var (
	ErrRUNFormato = errors.New("formato de RUN inválido")
	ErrRUNDigito  = errors.New("dígito verificador incorrecto")
)

var runRe = regexp.MustCompile(`^(\d{7,8})-?([\dkK])$`)

// DigitoVerificador calcula el dígito del RUN con módulo 11.
func DigitoVerificador(cuerpo string) string {
	sum, mul := 0, 2
	for i := len(cuerpo) - 1; i >= 0; i-- {
		sum += int(cuerpo[i]-'0') * mul
		mul++
		if mul > 7 {
			mul = 2
		}
	}
	switch r := 11 - sum%11; r {
	case 11:
		return "0"
	case 10:
		return "K"
	default:
		return strconv.Itoa(r)
	}
}

// NormalizeRUN acepta 12.345.678-5, 12345678-5 o 123456785 y devuelve 12345678-5.
func NormalizeRUN(s string) (string, error) {
	c := strings.TrimSpace(s)
	c = strings.ReplaceAll(c, ".", "")
	c = strings.ReplaceAll(c, " ", "")
	m := runRe.FindStringSubmatch(c)
	if m == nil {
		return "", ErrRUNFormato
	}
	dv := strings.ToUpper(m[2])
	if DigitoVerificador(m[1]) != dv {
		return "", ErrRUNDigito
	}
	return m[1] + "-" + dv, nil
}

func ValidRUN(s string) bool {
	_, err := NormalizeRUN(s)
	return err == nil
}
