package httpserver

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"

	"github.com/phenrril/junimo/internal/domain"
	"github.com/phenrril/junimo/internal/usecase"
)

func (s *Server) apiRegistro(w http.ResponseWriter, r *http.Request) {
	var in usecase.RegisterInput
	if !readJSON(w, r, &in) {
		return
	}
	sess, err := s.d.Auth.Register(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	s.setSession(w, sess)
	writeJSON(w, http.StatusCreated, sess)
}

func (s *Server) apiLogin(w http.ResponseWriter, r *http.Request) {
	var in usecase.LoginInput
	if !readJSON(w, r, &in) {
		return
	}
	sess, err := s.d.Auth.Login(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	s.setSession(w, sess)
	writeJSON(w, http.StatusOK, sess)
}

func (s *Server) apiLogout(w http.ResponseWriter, r *http.Request) {
	run := ""
	if u := s.currentUser(r); u != nil {
		run = u.Run
	}
	s.clearSession(w)
	s.d.Auth.Logout(r.Context(), run)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) apiMe(w http.ResponseWriter, r *http.Request) {
	u, err := s.d.Auth.Me(r.Context(), bearerToken(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (s *Server) apiMisOrdenes(w http.ResponseWriter, r *http.Request) {
	list, err := s.d.Orders.ByUser(r.Context(), s.currentUser(r).Run)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleGoogleLogin(w http.ResponseWriter, r *http.Request) {
	if s.d.OAuth == nil {
		writeJSON(w, http.StatusNotFound, errorBody{Error: "no_encontrado", Mensaje: "Login con Google no configurado"})
		return
	}
	state := uuid.NewString()
	http.SetCookie(w, &http.Cookie{Name: cookieState, Value: state, Path: "/", MaxAge: 300, HttpOnly: true, Secure: s.d.SecureCookies, SameSite: http.SameSiteLaxMode})
	http.Redirect(w, r, s.d.OAuth.AuthCodeURL(state, oauth2.AccessTypeOnline), http.StatusFound)
}

// handleGoogleCallback solo inicia sesión a usuarios ya registrados con ese correo.
func (s *Server) handleGoogleCallback(w http.ResponseWriter, r *http.Request) {
	if s.d.OAuth == nil {
		writeJSON(w, http.StatusNotFound, errorBody{Error: "no_encontrado", Mensaje: "Login con Google no configurado"})
		return
	}
	q := r.URL.Query()
	c, _ := r.Cookie(cookieState)
	if c == nil || c.Value == "" || c.Value != q.Get("state") {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "oauth_state", Mensaje: "Estado de login inválido"})
		return
	}
	http.SetCookie(w, &http.Cookie{Name: cookieState, Value: "", Path: "/", MaxAge: -1})
	tok, err := s.d.OAuth.Exchange(r.Context(), q.Get("code"))
	if err != nil {
		log.Error().Err(err).Msg("exchange oauth")
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "oauth", Mensaje: "No se pudo validar el login con Google"})
		return
	}
	correo, err := s.googleEmail(r, tok)
	if err != nil {
		log.Error().Err(err).Msg("userinfo")
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "oauth", Mensaje: "No se pudo leer el correo de Google"})
		return
	}
	sess, err := s.d.Auth.LoginGoogle(r.Context(), correo)
	if errors.Is(err, domain.ErrNoAutorizado) {
		http.Redirect(w, r, s.d.BaseURL+"/login?error=google_sin_cuenta", http.StatusFound)
		return
	}
	if err != nil {
		writeError(w, r, err)
		return
	}
	s.setSession(w, sess)
	http.Redirect(w, r, s.d.BaseURL+"/", http.StatusFound)
}

func (s *Server) googleEmail(r *http.Request, tok *oauth2.Token) (string, error) {
	resp, err := s.d.OAuth.Client(r.Context(), tok).Get(s.d.UserInfoURL)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", errors.New("userinfo status " + resp.Status)
	}
	var info struct {
		Email         string `json:"email"`
		EmailVerified bool   `json:"email_verified"`
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBody)).Decode(&info); err != nil {
		return "", err
	}
	if info.Email == "" || !info.EmailVerified {
		return "", errors.New("correo de Google sin verificar")
	}
	return strings.ToLower(info.Email), nil
}
