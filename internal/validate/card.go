package validate

import (
	"strconv"
	"strings"
	"time"
)

func soloDigitos(s string) string {
	return strings.NewReplacer(" ", "", "-", "").Replace(strings.TrimSpace(s))
}

// ValidLuhn verifica largo (13-19) y dígito de control del número de tarjeta.
func ValidLuhn(number string) bool {
	n := soloDigitos(number)
	if len(n) < 13 || len(n) > 19 {
		return false
	}
	sum := 0
	double := false
	for i := len(n) - 1; i >= 0; i-- {
		c := n[i]
		if c < '0' || c > '9' {
			return false
		}
		d := int(c - '0')
		if double {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		sum += d
		double = !double
	}
	return sum%10 == 0
}

// ValidExpiry recibe MM/YY y rechaza meses anteriores al actual.
func ValidExpiry(mmYY string, now time.Time) bool {
	parts := strings.Split(strings.TrimSpace(mmYY), "/")
	if len(parts) != 2 || !digitos(parts[0], 2) || !digitos(parts[1], 2) {
		return false
	}
	mm, err := strconv.Atoi(parts[0])
	if err != nil || mm < 1 || mm > 12 {
		return false
	}
	yy, err := strconv.Atoi(parts[1])
	if err != nil {
		return false
	}
	year := 2000 + yy
	if year != now.Year() {
		return year > now.Year()
	}
	return mm >= int(now.Month())
}

func ValidCVV(s string) bool {
	c := strings.TrimSpace(s)
	return digitos(c, 3) || digitos(c, 4)
}

// digitos indica si s tiene exactamente n dígitos ASCII.
func digitos(s string, n int) bool {
	if len(s) != n {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// Last4 devuelve los últimos cuatro dígitos de la tarjeta.
func Last4(number string) string {
	n := soloDigitos(number)
	if len(n) <= 4 {
		return n
	}
	return n[len(n)-4:]
}
