package validate

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var emailRe = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)

var (
	dominiosDuoc       = []string{"duoc.cl", "duocuc.cl", "profesor.duoc.cl"}
	dominiosPermitidos = append(append([]string{}, dominiosDuoc...), "gmail.com")
	telefonoRe         = regexp.MustCompile(`^(\+?56)?9\d{8}$`)
)

func dominio(correo string) string {
	c := strings.ToLower(strings.TrimSpace(correo))
	i := strings.LastIndex(c, "@")
	if i < 0 {
		return ""
	}
	return c[i+1:]
}

func ValidEmail(s string) bool {
	c := strings.TrimSpace(s)
	return len(c) <= 100 && emailRe.MatchString(c)
}

// ValidEmailDomain exige formato válido y un dominio de la lista permitida.
func ValidEmailDomain(s string) bool {
	if !ValidEmail(s) {
		return false
	}
	d := dominio(s)
	for _, p := range dominiosPermitidos {
		if d == p {
			return true
		}
	}
	return false
}

// IsDuocEmail indica si el correo da derecho al descuento DUOC.
func IsDuocEmail(s string) bool {
	if !ValidEmail(s) {
		return false
	}
	d := dominio(s)
	for _, p := range dominiosDuoc {
		if d == p {
			return true
		}
	}
	return false
}

// ValidPhone acepta vacío o un móvil chileno (+569XXXXXXXX, 569XXXXXXXX, 9XXXXXXXX).
func ValidPhone(s string) bool {
	t := strings.NewReplacer(" ", "", "-", "", "(", "", ")", "").Replace(strings.TrimSpace(s))
	if t == "" {
		return true
	}
	return telefonoRe.MatchString(t)
}

// ValidPassword: entre 4 y 10 caracteres.
func ValidPassword(s string) bool {
	n := utf8.RuneCountInString(s)
	return n >= 4 && n <= 10
}
