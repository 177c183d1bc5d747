package httpserver

import (
	"net/http"
	"strings"

	"github.com/phenrril/junimo/internal/usecase"
)

func (s *Server) apiProductos(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, err := s.d.Products.List(r.Context(), usecase.ProductQuery{
		Categoria:       q.Get("categoria"),
		Query:           q.Get("q"),
		SoloOfertas:     queryBool(r, "ofertas"),
		SoloDisponibles: queryBool(r, "disponibles"),
		Sort:            q.Get("orden"),
		Page:            queryInt(r, "page"),
		PageSize:        queryInt(r, "page_size"),
		CartID:          s.cartID(w, r, false),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (s *Server) apiProducto(w http.ResponseWriter, r *http.Request) {
	v, err := s.d.Products.Get(r.Context(), r.PathValue("codigo"), s.cartID(w, r, false))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (s *Server) apiCategorias(w http.ResponseWriter, r *http.Request) {
	cats, err := s.d.Products.Categories(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, cats)
}

func (s *Server) apiOfertas(w http.ResponseWriter, r *http.Request) {
	list, err := s.d.Offers.List(r.Context(), s.cartID(w, r, false))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// apiStock responde cuánto más puede agregar este carrito.
func (s *Server) apiStock(w http.ResponseWriter, r *http.Request) {
	codigo := strings.ToUpper(strings.TrimSpace(r.PathValue("codigo")))
	d, err := s.d.Stock.Available(r.Context(), s.cartID(w, r, false), codigo)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"codigo": codigo, "disponible": d})
}

func (s *Server) apiBlog(w http.ResponseWriter, r *http.Request) {
	list, err := s.d.Blog.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) apiBlogPost(w http.ResponseWriter, r *http.Request) {
	p, err := s.d.Blog.Get(r.Context(), r.PathValue("slug"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}
