// Package httpserver expone la tienda y el panel como API JSON.
package httpserver

import (
	"net/http"

	"golang.org/x/oauth2"

	"github.com/phenrril/junimo/internal/domain"
	"github.com/phenrril/junimo/internal/metrics"
	"github.com/phenrril/junimo/internal/usecase"
)

const googleUserInfo = "https://www.googleapis.com/oauth2/v3/userinfo"

type Deps struct {
	Products  *usecase.ProductUC
	Offers    *usecase.OfferUC
	Stock     *usecase.StockUC
	Cart      *usecase.CartUC
	Checkout  *usecase.CheckoutUC
	Orders    *usecase.OrderUC
	Auth      *usecase.AuthUC
	Users     *usecase.UserUC
	Blog      *usecase.BlogUC
	Dashboard *usecase.DashboardUC
	Metrics   *metrics.Metrics

	// OAuth nil desactiva el login con Google.
	OAuth       *oauth2.Config
	UserInfoURL string
	BaseURL     string

	// UploadsDir se sirve en /uploads/ cuando las imágenes van a disco.
	UploadsDir    string
	SecureCookies bool
}

type Server struct {
	mux *http.ServeMux
	d   Deps
}

func New(d Deps) http.Handler {
	if d.UserInfoURL == "" {
		d.UserInfoURL = googleUserInfo
	}
	s := &Server{mux: http.NewServeMux(), d: d}
	s.routes()
	return Chain(s.mux,
		RequestID,
		Recovery,
		SecurityHeaders,
		Logging(d.Metrics),
	)
}

func (s *Server) routes() {
	if s.d.UploadsDir != "" {
		s.mux.Handle("GET /uploads/", http.StripPrefix("/uploads/", http.FileServer(http.Dir(s.d.UploadsDir))))
	}
	s.mux.HandleFunc("GET /healthz", s.handleHealth)
	if s.d.Metrics != nil {
		s.mux.Handle("GET /metrics", s.d.Metrics.Handler())
	}

	// catálogo
	s.mux.HandleFunc("GET /api/productos", s.apiProductos)
	s.mux.HandleFunc("GET /api/productos/{codigo}", s.apiProducto)
	s.mux.HandleFunc("GET /api/categorias", s.apiCategorias)
	s.mux.HandleFunc("GET /api/ofertas", s.apiOfertas)
	s.mux.HandleFunc("GET /api/stock/{codigo}", s.apiStock)
	s.mux.HandleFunc("GET /api/regiones", s.apiRegiones)
	s.mux.HandleFunc("GET /api/blog", s.apiBlog)
	s.mux.HandleFunc("GET /api/blog/{slug}", s.apiBlogPost)

	// carrito y compra
	s.mux.HandleFunc("GET /api/carrito", s.apiCarrito)
	s.mux.HandleFunc("GET /api/carrito/cantidad", s.apiCarritoCantidad)
	s.mux.HandleFunc("POST /api/carrito/items", s.apiCarritoAgregar)
	s.mux.HandleFunc("PUT /api/carrito/items/{codigo}", s.apiCarritoActualizar)
	s.mux.HandleFunc("DELETE /api/carrito/items/{codigo}", s.apiCarritoQuitar)
	s.mux.HandleFunc("DELETE /api/carrito", s.apiCarritoVaciar)
	s.mux.HandleFunc("POST /api/checkout", s.apiCheckout)
	s.mux.HandleFunc("POST /api/paypal/orders", s.apiPayPalOrder)

	// sesión
	s.mux.HandleFunc("POST /api/auth/registro", s.apiRegistro)
	s.mux.HandleFunc("POST /api/auth/login", s.apiLogin)
	s.mux.HandleFunc("POST /api/auth/logout", s.apiLogout)
	s.mux.HandleFunc("GET /api/auth/me", s.apiMe)
	s.mux.HandleFunc("GET /api/mis-ordenes", s.requireRole(s.apiMisOrdenes))
	s.mux.HandleFunc("GET /auth/google/login", s.handleGoogleLogin)
	s.mux.HandleFunc("GET /auth/google/callback", s.handleGoogleCallback)

	// vendedor (también admin)
	s.mux.HandleFunc("GET /api/vendedor/productos", s.vendedor(s.apiVendedorProductos))
	s.mux.HandleFunc("POST /api/vendedor/productos", s.vendedor(s.apiCrearProducto))
	s.mux.HandleFunc("GET /api/vendedor/productos/criticos", s.vendedor(s.apiProductosCriticos))
	s.mux.HandleFunc("PUT /api/vendedor/productos/{codigo}", s.vendedor(s.apiActualizarProducto))
	s.mux.HandleFunc("DELETE /api/vendedor/productos/{codigo}", s.vendedor(s.apiBorrarProducto))
	s.mux.HandleFunc("PATCH /api/vendedor/productos/{codigo}/stock", s.vendedor(s.apiStockProducto))
	s.mux.HandleFunc("POST /api/vendedor/productos/{codigo}/imagen", s.vendedor(s.apiImagenProducto))
	s.mux.HandleFunc("GET /api/vendedor/ordenes", s.vendedor(s.apiOrdenes))
	s.mux.HandleFunc("PATCH /api/vendedor/ordenes/{numero}/estado", s.vendedor(s.apiEstadoOrden))
	s.mux.HandleFunc("GET /api/vendedor/export/productos.xlsx", s.vendedor(s.apiExportProductos))
	s.mux.HandleFunc("POST /api/vendedor/import/productos.xlsx", s.vendedor(s.apiImportProductos))

	// admin
	s.mux.HandleFunc("GET /api/admin/dashboard", s.admin(s.apiDashboard))
	s.mux.HandleFunc("GET /api/admin/usuarios", s.admin(s.apiUsuarios))
	s.mux.HandleFunc("POST /api/admin/usuarios", s.admin(s.apiCrearUsuario))
	s.mux.HandleFunc("GET /api/admin/usuarios/{run}", s.admin(s.apiUsuario))
	s.mux.HandleFunc("PUT /api/admin/usuarios/{run}", s.admin(s.apiActualizarUsuario))
	s.mux.HandleFunc("DELETE /api/admin/usuarios/{run}", s.admin(s.apiBorrarUsuario))
	s.mux.HandleFunc("GET /api/admin/ordenes", s.admin(s.apiOrdenes))
	s.mux.HandleFunc("GET /api/admin/ordenes/{numero}", s.admin(s.apiOrden))
	s.mux.HandleFunc("PATCH /api/admin/ordenes/{numero}/estado", s.admin(s.apiEstadoOrden))
	s.mux.HandleFunc("PUT /api/admin/ofertas/{codigo}", s.admin(s.apiPonerOferta))
	s.mux.HandleFunc("DELETE /api/admin/ofertas/{codigo}", s.admin(s.apiQuitarOferta))
	s.mux.HandleFunc("POST /api/admin/blog", s.admin(s.apiCrearPost))
	s.mux.HandleFunc("DELETE /api/admin/blog/{slug}", s.admin(s.apiBorrarPost))
	s.mux.HandleFunc("GET /api/admin/export/ordenes.xlsx", s.admin(s.apiExportOrdenes))
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) apiRegiones(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, domain.Regiones())
}
