package httpserver

import (
	"bytes"
	"net/http"
	"time"

	"github.com/phenrril/junimo/internal/usecase"
)

func (s *Server) apiDashboard(w http.ResponseWriter, r *http.Request) {
	st, err := s.d.Dashboard.Stats(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func (s *Server) apiUsuarios(w http.ResponseWriter, r *http.Request) {
	list, err := s.d.Users.List(r.Context(), r.URL.Query().Get("tipo"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) apiUsuario(w http.ResponseWriter, r *http.Request) {
	u, err := s.d.Users.Get(r.Context(), r.PathValue("run"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (s *Server) apiCrearUsuario(w http.ResponseWriter, r *http.Request) {
	var in usecase.UserInput
	if !readJSON(w, r, &in) {
		return
	}
	u, err := s.d.Users.Create(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, u)
}

func (s *Server) apiActualizarUsuario(w http.ResponseWriter, r *http.Request) {
	var in usecase.UserInput
	if !readJSON(w, r, &in) {
		return
	}
	u, err := s.d.Users.Update(r.Context(), r.PathValue("run"), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (s *Server) apiBorrarUsuario(w http.ResponseWriter, r *http.Request) {
	if err := s.d.Users.Delete(r.Context(), s.currentUser(r).Run, r.PathValue("run")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) apiOrden(w http.ResponseWriter, r *http.Request) {
	o, err := s.d.Orders.Get(r.Context(), r.PathValue("numero"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, o)
}

func (s *Server) apiPonerOferta(w http.ResponseWriter, r *http.Request) {
	var in usecase.OfferInput
	if !readJSON(w, r, &in) {
		return
	}
	o, err := s.d.Offers.Set(r.Context(), r.PathValue("codigo"), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, o)
}

func (s *Server) apiQuitarOferta(w http.ResponseWriter, r *http.Request) {
	if err := s.d.Offers.Remove(r.Context(), r.PathValue("codigo")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) apiCrearPost(w http.ResponseWriter, r *http.Request) {
	var in usecase.BlogInput
	if !readJSON(w, r, &in) {
		return
	}
	if in.Autor == "" {
		in.Autor = s.currentUser(r).NombreCompleto()
	}
	p, err := s.d.Blog.Create(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (s *Server) apiBorrarPost(w http.ResponseWriter, r *http.Request) {
	if err := s.d.Blog.Delete(r.Context(), r.PathValue("slug")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) apiExportOrdenes(w http.ResponseWriter, r *http.Request) {
	list, err := s.d.Orders.All(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	var buf bytes.Buffer
	if err := writeOrdersXLSX(&buf, list); err != nil {
		writeError(w, r, err)
		return
	}
	attachment(w, "ordenes-"+time.Now().Format("20060102")+".xlsx")
	_, _ = buf.WriteTo(w)
}
