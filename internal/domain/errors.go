package domain

import (
	"errors"
	"sort"
	"strings"
)

var (
	ErrNotFound           = errors.New("no encontrado")
	ErrYaExiste           = errors.New("ya existe")
	ErrStockInsuficiente  = errors.New("stock insuficiente")
	ErrCarritoVacio       = errors.New("carrito vacío")
	ErrPagoRechazado      = errors.New("pago rechazado")
	ErrTransicionInvalida = errors.New("transición de estado inválida")
	ErrCredenciales       = errors.New("credenciales inválidas")
	ErrNoAutorizado       = errors.New("no autorizado")
	ErrProhibido          = errors.New("operación no permitida")
)

// ValidationError agrupa los mensajes de error por campo del formulario.
type ValidationError struct {
	Campos map[string]string
}

func NewValidationError(campos map[string]string) *ValidationError {
	return &ValidationError{Campos: campos}
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Campos))
	for k := range e.Campos {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Campos[k])
	}
	return "datos inválidos (" + strings.Join(parts, "; ") + ")"
}

// Add registra un mensaje si el campo todavía no tiene uno.
func (e *ValidationError) Add(campo, msg string) {
	if e.Campos == nil {
		e.Campos = map[string]string{}
	}
	if _, ok := e.Campos[campo]; !ok {
		e.Campos[campo] = msg
	}
}

func (e *ValidationError) Empty() bool { return len(e.Campos) == 0 }
