package httpserver

import (
	"context"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/phenrril/junimo/internal/domain"
	"github.com/phenrril/junimo/internal/usecase"
)

const (
	cookieAuth  = "auth_token"
	cookieCart  = "cart_id"
	cookieState = "oauth_state"
	cartMaxAge  = 30 * 24 * 60 * 60
)

func bearerToken(r *http.Request) string {
	if h := r.Header.Get("Authorization"); len(h) > 7 && strings.EqualFold(h[:7], "bearer ") {
		return strings.TrimSpace(h[7:])
	}
	if c, err := r.Cookie(cookieAuth); err == nil {
		return c.Value
	}
	return ""
}

// currentUser devuelve el usuario de la sesión o nil.
func (s *Server) currentUser(r *http.Request) *domain.Usuario {
	if u, ok := r.Context().Value(keyUsuario).(*domain.Usuario); ok {
		return u
	}
	tok := bearerToken(r)
	if tok == "" {
		return nil
	}
	u, err := s.d.Auth.Me(r.Context(), tok)
	if err != nil {
		return nil
	}
	return u
}

// requireRole exige sesión y uno de los tipos dados.
func (s *Server) requireRole(h http.HandlerFunc, tipos ...domain.TipoUsuario) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		u := s.currentUser(r)
		if u == nil {
			writeError(w, r, domain.ErrNoAutorizado)
			return
		}
		if len(tipos) > 0 && !slices.Contains(tipos, u.Tipo) {
			writeError(w, r, domain.ErrProhibido)
			return
		}
		h(w, r.WithContext(context.WithValue(r.Context(), keyUsuario, u)))
	}
}

func (s *Server) vendedor(h http.HandlerFunc) http.HandlerFunc {
	return s.requireRole(h, domain.TipoVendedor, domain.TipoAdmin)
}

func (s *Server) admin(h http.HandlerFunc) http.HandlerFunc {
	return s.requireRole(h, domain.TipoAdmin)
}

func (s *Server) setSession(w http.ResponseWriter, sess *usecase.Session) {
	http.SetCookie(w, &http.Cookie{
		Name:     cookieAuth,
		Value:    sess.Token,
		Path:     "/",
		Expires:  sess.Expira,
		MaxAge:   int(time.Until(sess.Expira).Seconds()),
		HttpOnly: true,
		Secure:   s.d.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}

func (s *Server) clearSession(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{Name: cookieAuth, Value: "", Path: "/", MaxAge: -1, HttpOnly: true, Secure: s.d.SecureCookies, SameSite: http.SameSiteLaxMode})
}

func validCartID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// cartID devuelve el carrito del navegador; con create crea la cookie si falta.
func (s *Server) cartID(w http.ResponseWriter, r *http.Request, create bool) string {
	if c, err := r.Cookie(cookieCart); err == nil && validCartID(c.Value) {
		return c.Value
	}
	if !create {
		return ""
	}
	id := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     cookieCart,
		Value:    id,
		Path:     "/",
		MaxAge:   cartMaxAge,
		HttpOnly: true,
		Secure:   s.d.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})
	return id
}

func correoDe(u *domain.Usuario) string {
	if u == nil {
		return ""
	}
	return u.Correo
}
