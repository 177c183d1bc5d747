package httpserver

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/phenrril/junimo/internal/domain"
)

const maxBody = 1 << 20

type errorBody struct {
	Error   string            `json:"error"`
	Mensaje string            `json:"mensaje"`
	Campos  map[string]string `json:"campos,omitempty"`
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError traduce los errores de dominio a código HTTP y cuerpo JSON.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "validacion", Mensaje: "Revisa los campos marcados", Campos: ve.Campos})
		return
	}
	code, kind := http.StatusInternalServerError, "interno"
	switch {
	case errors.Is(err, domain.ErrNotFound):
		code, kind = http.StatusNotFound, "no_encontrado"
	case errors.Is(err, domain.ErrYaExiste):
		code, kind = http.StatusConflict, "ya_existe"
	case errors.Is(err, domain.ErrStockInsuficiente):
		code, kind = http.StatusConflict, "stock_insuficiente"
	case errors.Is(err, domain.ErrTransicionInvalida):
		code, kind = http.StatusConflict, "transicion_invalida"
	case errors.Is(err, domain.ErrCarritoVacio):
		code, kind = http.StatusBadRequest, "carrito_vacio"
	case errors.Is(err, domain.ErrPagoRechazado):
		code, kind = http.StatusPaymentRequired, "pago_rechazado"
	case errors.Is(err, domain.ErrCredenciales):
		code, kind = http.StatusUnauthorized, "credenciales"
	case errors.Is(err, domain.ErrNoAutorizado):
		code, kind = http.StatusUnauthorized, "no_autorizado"
	case errors.Is(err, domain.ErrProhibido):
		code, kind = http.StatusForbidden, "prohibido"
	}
	msg := err.Error()
	if code == http.StatusInternalServerError {
		log.Error().Err(err).Str("req_id", requestID(r.Context())).Str("path", r.URL.Path).Msg("error interno")
		msg = "Ocurrió un error inesperado"
	}
	writeJSON(w, code, errorBody{Error: kind, Mensaje: msg})
}

// readJSON decodifica el cuerpo; si falla responde 400 y devuelve false.
func readJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBody))
	if err := dec.Decode(v); err != nil {
		msg := "JSON inválido"
		if errors.Is(err, io.EOF) {
			msg = "Cuerpo vacío"
		}
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "json_invalido", Mensaje: msg})
		return false
	}
	return true
}

func queryInt(r *http.Request, key string) int {
	n, _ := strconv.Atoi(strings.TrimSpace(r.URL.Query().Get(key)))
	return n
}

func queryBool(r *http.Request, key string) bool {
	switch strings.ToLower(strings.TrimSpace(r.URL.Query().Get(key))) {
	case "1", "true", "si", "sí":
		return true
	}
	return false
}

func validacion(campo, msg string) error {
	return domain.NewValidationError(map[string]string{campo: msg})
}
