package auth

import "golang.org/x/crypto/bcrypt"

// Cost de bcrypt; los tests lo bajan a bcrypt.MinCost.
var Cost = bcrypt.DefaultCost

func HashPassword(plain string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(plain), Cost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}

// CheckPassword compara la clave con el hash; un hash vacío nunca coincide.
func CheckPassword(hash, plain string) bool {
	if hash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
