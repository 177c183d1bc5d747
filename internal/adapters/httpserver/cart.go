package httpserver

import (
	"net/http"

	"github.com/phenrril/junimo/internal/usecase"
)

type cartItemReq struct {
	Codigo   string `json:"codigo"`
	Cantidad *int   `json:"cantidad"`
}

func (s *Server) apiCarrito(w http.ResponseWriter, r *http.Request) {
	res, err := s.d.Cart.Get(r.Context(), s.cartID(w, r, true), correoDe(s.currentUser(r)))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) apiCarritoCantidad(w http.ResponseWriter, r *http.Request) {
	id := s.cartID(w, r, false)
	n := 0
	if id != "" {
		var err error
		if n, err = s.d.Cart.Count(r.Context(), id); err != nil {
			writeError(w, r, err)
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]int{"cantidad": n})
}

func (s *Server) apiCarritoAgregar(w http.ResponseWriter, r *http.Request) {
	var req cartItemReq
	if !readJSON(w, r, &req) {
		return
	}
	cant := 1
	if req.Cantidad != nil {
		cant = *req.Cantidad
	}
	res, err := s.d.Cart.Add(r.Context(), s.cartID(w, r, true), correoDe(s.currentUser(r)), req.Codigo, cant)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) apiCarritoActualizar(w http.ResponseWriter, r *http.Request) {
	var req cartItemReq
	if !readJSON(w, r, &req) {
		return
	}
	if req.Cantidad == nil {
		writeError(w, r, validacion("cantidad", "Este campo es obligatorio"))
		return
	}
	res, err := s.d.Cart.Update(r.Context(), s.cartID(w, r, true), correoDe(s.currentUser(r)), r.PathValue("codigo"), *req.Cantidad)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) apiCarritoQuitar(w http.ResponseWriter, r *http.Request) {
	res, err := s.d.Cart.Remove(r.Context(), s.cartID(w, r, true), correoDe(s.currentUser(r)), r.PathValue("codigo"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) apiCarritoVaciar(w http.ResponseWriter, r *http.Request) {
	id := s.cartID(w, r, true)
	if err := s.d.Cart.Clear(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	res, err := s.d.Cart.Get(r.Context(), id, correoDe(s.currentUser(r)))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) apiCheckout(w http.ResponseWriter, r *http.Request) {
	var in usecase.CheckoutInput
	if !readJSON(w, r, &in) {
		return
	}
	o, err := s.d.Checkout.Checkout(r.Context(), s.cartID(w, r, true), s.currentUser(r), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, o)
}

func (s *Server) apiPayPalOrder(w http.ResponseWriter, r *http.Request) {
	o, err := s.d.Checkout.PayPalOrder(r.Context(), s.cartID(w, r, true), s.currentUser(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, o)
}
