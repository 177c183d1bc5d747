package httpserver

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/phenrril/junimo/internal/domain"
	"github.com/phenrril/junimo/internal/usecase"
)

const (
	maxImagen = 8 << 20
	maxXLSX   = 16 << 20
)

func (s *Server) apiVendedorProductos(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, err := s.d.Products.List(r.Context(), usecase.ProductQuery{
		Categoria: q.Get("categoria"),
		Query:     q.Get("q"),
		Sort:      q.Get("orden"),
		Page:      queryInt(r, "page"),
		PageSize:  queryInt(r, "page_size"),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (s *Server) apiCrearProducto(w http.ResponseWriter, r *http.Request) {
	var in usecase.ProductInput
	if !readJSON(w, r, &in) {
		return
	}
	p, err := s.d.Products.Create(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (s *Server) apiActualizarProducto(w http.ResponseWriter, r *http.Request) {
	var in usecase.ProductInput
	if !readJSON(w, r, &in) {
		return
	}
	p, err := s.d.Products.Update(r.Context(), r.PathValue("codigo"), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) apiBorrarProducto(w http.ResponseWriter, r *http.Request) {
	if err := s.d.Products.Delete(r.Context(), r.PathValue("codigo")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) apiProductosCriticos(w http.ResponseWriter, r *http.Request) {
	list, err := s.d.Products.Critical(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// apiStockProducto acepta {"stock": n} para fijar o {"delta": n} para sumar.
func (s *Server) apiStockProducto(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Stock *int `json:"stock"`
		Delta *int `json:"delta"`
	}
	if !readJSON(w, r, &req) {
		return
	}
	var (
		p   *domain.Producto
		err error
	)
	switch {
	case req.Stock != nil:
		p, err = s.d.Products.UpdateStock(r.Context(), r.PathValue("codigo"), *req.Stock)
	case req.Delta != nil:
		p, err = s.d.Products.AdjustStock(r.Context(), r.PathValue("codigo"), *req.Delta)
	default:
		err = validacion("stock", "Indica stock o delta")
	}
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) apiImagenProducto(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxImagen+(1<<20))
	if err := r.ParseMultipartForm(maxImagen); err != nil {
		writeError(w, r, validacion("imagen", "Archivo demasiado grande o formulario inválido"))
		return
	}
	file, fh, err := r.FormFile("imagen")
	if err != nil {
		writeError(w, r, validacion("imagen", "Este campo es obligatorio"))
		return
	}
	defer file.Close()
	ct := fh.Header.Get("Content-Type")
	if ct == "" || ct == "application/octet-stream" {
		head := make([]byte, 512)
		n, _ := io.ReadFull(file, head)
		ct = http.DetectContentType(head[:n])
		if _, err := file.Seek(0, io.SeekStart); err != nil {
			writeError(w, r, err)
			return
		}
	}
	p, err := s.d.Products.UploadImage(r.Context(), r.PathValue("codigo"), fh.Filename, ct, file)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) apiOrdenes(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, err := s.d.Orders.List(r.Context(), usecase.OrderQuery{
		Estado:   q.Get("estado"),
		Run:      q.Get("run"),
		Page:     queryInt(r, "page"),
		PageSize: queryInt(r, "page_size"),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (s *Server) apiEstadoOrden(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Estado string `json:"estado"`
	}
	if !readJSON(w, r, &req) {
		return
	}
	o, err := s.d.Orders.UpdateStatus(r.Context(), r.PathValue("numero"), domain.EstadoEnvio(req.Estado))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, o)
}

func attachment(w http.ResponseWriter, name string) {
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+name+`"`)
}

func (s *Server) apiExportProductos(w http.ResponseWriter, r *http.Request) {
	list, err := s.d.Products.All(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	var buf bytes.Buffer
	if err := writeProductsXLSX(&buf, list); err != nil {
		writeError(w, r, err)
		return
	}
	attachment(w, "productos-"+time.Now().Format("20060102")+".xlsx")
	_, _ = buf.WriteTo(w)
}

func (s *Server) apiImportProductos(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxXLSX+(1<<20))
	if err := r.ParseMultipartForm(maxXLSX); err != nil {
		writeError(w, r, validacion("archivo", "Archivo demasiado grande o formulario inválido"))
		return
	}
	file, _, err := r.FormFile("archivo")
	if err != nil {
		writeError(w, r, validacion("archivo", "Este campo es obligatorio"))
		return
	}
	defer file.Close()
	rows, err := readProductsXLSX(file)
	if err != nil {
		var ve *domain.ValidationError
		if errors.As(err, &ve) {
			writeError(w, r, err)
			return
		}
		writeError(w, r, validacion("archivo", "No es un archivo xlsx válido"))
		return
	}
	res, err := s.d.Products.Import(r.Context(), rows)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}
