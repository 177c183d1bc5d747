package legacy

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/phenrril/junimo/internal/auth"
	"github.com/phenrril/junimo/internal/domain"
	"github.com/phenrril/junimo/internal/usecase"
	"github.com/phenrril/junimo/internal/validate"
)

type Importer struct {
	Products domain.ProductRepo
	Offers   domain.OfferRepo
	Users    domain.UserRepo
	Orders   domain.OrderRepo
	Blog     domain.BlogRepo
	Now      func() time.Time
}

type RowError struct {
	Clave    string `json:"clave"`
	Registro int    `json:"registro"`
	Motivo   string `json:"motivo"`
}

// Resultado cuenta lo cargado de una colección.
type Resultado struct {
	Importados int        `json:"importados"`
	Omitidos   int        `json:"omitidos"`
	Errores    []RowError `json:"errores,omitempty"`
}

type ImportReport struct {
	Productos Resultado `json:"productos"`
	Usuarios  Resultado `json:"usuarios"`
	Ordenes   Resultado `json:"ordenes"`
	Ofertas   Resultado `json:"ofertas"`
	Blog      Resultado `json:"blog"`
	Invalidas []string  `json:"claves_invalidas,omitempty"`
}

// errOmitir marca un registro inválido; cualquier otro error corta la carga.
type errOmitir struct{ motivo string }

func (e errOmitir) Error() string { return e.motivo }

func omitir(format string, args ...any) error {
	return errOmitir{motivo: fmt.Sprintf(format, args...)}
}

func (res *Resultado) track(key string, i int, err error) error {
	if err == nil {
		res.Importados++
		return nil
	}
	var om errOmitir
	if errors.As(err, &om) || errors.Is(err, domain.ErrYaExiste) {
		res.Omitidos++
		res.Errores = append(res.Errores, RowError{Clave: key, Registro: i, Motivo: err.Error()})
		return nil
	}
	return fmt.Errorf("%s[%d]: %w", key, i, err)
}

// Run carga el volcado en orden: productos, ofertas, usuarios, órdenes y blog.
// Cada registro se crea o reemplaza por su clave.
func (im *Importer) Run(ctx context.Context, d *Dump) (*ImportReport, error) {
	rep := &ImportReport{Invalidas: d.Invalidas}
	for i, p := range d.Productos {
		if err := rep.Productos.track(KeyProductos, i, im.producto(ctx, p)); err != nil {
			return rep, err
		}
	}
	for i, o := range d.Ofertas {
		if err := rep.Ofertas.track(KeyOfertas, i, im.oferta(ctx, o)); err != nil {
			return rep, err
		}
	}
	for i, u := range d.Usuarios {
		if err := rep.Usuarios.track(KeyUsuarios, i, im.usuario(ctx, u)); err != nil {
			return rep, err
		}
	}
	for i, o := range d.Ordenes {
		if err := rep.Ordenes.track(KeyOrdenes, i, im.orden(ctx, o)); err != nil {
			return rep, err
		}
	}
	for i, p := range d.Blog {
		if err := rep.Blog.track(KeyBlog, i, im.post(ctx, p)); err != nil {
			return rep, err
		}
	}
	log.Info().
		Int("productos", rep.Productos.Importados).
		Int("usuarios", rep.Usuarios.Importados).
		Int("ordenes", rep.Ordenes.Importados).
		Int("ofertas", rep.Ofertas.Importados).
		Int("blog", rep.Blog.Importados).
		Strs("claves_invalidas", rep.Invalidas).
		Msg("volcado importado")
	return rep, nil
}

func (im *Importer) now() time.Time {
	if im.Now != nil {
		return im.Now()
	}
	return time.Now()
}

func (im *Importer) producto(ctx context.Context, in Producto) error {
	p := &domain.Producto{
		Codigo:       strings.ToUpper(strings.TrimSpace(in.Codigo)),
		Nombre:       strings.TrimSpace(in.Nombre),
		Descripcion:  strings.TrimSpace(in.Descripcion),
		Categoria:    strings.TrimSpace(in.Categoria),
		Precio:       in.Precio.Round(0),
		Stock:        int(in.Stock.IntPart()),
		StockCritico: int(in.StockCritico.IntPart()),
		Imagen:       strings.TrimSpace(in.Imagen),
	}
	switch {
	case p.Codigo == "":
		return omitir("producto sin código")
	case p.Nombre == "":
		return omitir("producto %s sin nombre", p.Codigo)
	case p.Precio.IsNegative():
		return omitir("producto %s con precio negativo", p.Codigo)
	case p.Stock < 0 || p.StockCritico < 0:
		return omitir("producto %s con stock negativo", p.Codigo)
	}
	return im.Products.Save(ctx, p)
}

func (im *Importer) oferta(ctx context.Context, in Oferta) error {
	codigo := strings.ToUpper(strings.TrimSpace(in.Codigo))
	if _, err := im.Products.FindByCodigo(ctx, codigo); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return omitir("oferta para producto inexistente %q", codigo)
		}
		return err
	}
	pct := int(in.Descuento.IntPart())
	if pct < 1 || pct > 90 {
		return omitir("oferta %s con descuento %d fuera de rango", codigo, pct)
	}
	o := &domain.Oferta{Codigo: codigo, Descuento: pct, Activa: in.Activa == nil || *in.Activa}
	if t, ok := parseFecha(in.FechaInicio); ok {
		o.Desde = &t
	}
	if t, ok := parseFecha(in.FechaFin); ok {
		o.Hasta = &t
	}
	return im.Offers.Save(ctx, o)
}

func (im *Importer) usuario(ctx context.Context, in Usuario) error {
	run, err := validate.NormalizeRUN(in.Run)
	if err != nil {
		return omitir("usuario %q: %v", in.Run, err)
	}
	correo := strings.ToLower(strings.TrimSpace(in.Correo))
	if !strings.Contains(correo, "@") {
		return omitir("usuario %s sin correo válido", run)
	}
	tipo := domain.TipoUsuario(strings.TrimSpace(in.Tipo))
	if tipo == "" {
		tipo = domain.TipoCliente
	}
	if !tipo.Valido() {
		return omitir("usuario %s con tipo %q", run, in.Tipo)
	}
	if in.Contrasenha == "" {
		return omitir("usuario %s sin contraseña", run)
	}
	hash := in.Contrasenha
	if !strings.HasPrefix(hash, "$2") {
		if hash, err = auth.HashPassword(in.Contrasenha); err != nil {
			return err
		}
	}
	u := &domain.Usuario{
		Run:             run,
		Nombre:          strings.TrimSpace(in.Nombre),
		Apellidos:       strings.TrimSpace(in.Apellidos),
		Correo:          correo,
		Telefono:        strings.TrimSpace(in.Telefono),
		Direccion:       strings.TrimSpace(in.Direccion),
		Region:          strings.TrimSpace(in.Region),
		Comuna:          strings.TrimSpace(in.Comuna),
		Tipo:            tipo,
		ContrasenhaHash: hash,
	}
	if prev, err := im.Users.FindByRun(ctx, run); err == nil {
		u.CreatedAt = prev.CreatedAt
	} else if !errors.Is(err, domain.ErrNotFound) {
		return err
	}
	return im.Users.Save(ctx, u)
}

func (im *Importer) orden(ctx context.Context, in Orden) error {
	numero := strings.TrimSpace(in.NumeroOrden)
	if numero == "" {
		return omitir("orden sin número")
	}
	if len(in.Productos) == 0 {
		return omitir("orden %s sin productos", numero)
	}
	estado := domain.EstadoEnvio(strings.TrimSpace(in.EstadoEnvio))
	if estado == "" {
		estado = domain.EstadoPendiente
	}
	if !estado.Valido() {
		return omitir("orden %s con estado %q", numero, in.EstadoEnvio)
	}
	metodo := domain.MetodoPago(strings.ToLower(strings.TrimSpace(in.MetodoPago)))
	if metodo != domain.PagoPayPal {
		metodo = domain.PagoTarjeta
	}
	o := &domain.Orden{
		NumeroOrden: numero,
		Nombre:      strings.TrimSpace(in.Nombre),
		Correo:      strings.ToLower(strings.TrimSpace(in.Correo)),
		Telefono:    strings.TrimSpace(in.Telefono),
		Direccion:   strings.TrimSpace(in.Direccion),
		Region:      strings.TrimSpace(in.Region),
		Comuna:      strings.TrimSpace(in.Comuna),
		Descuento:   in.Descuento.Round(0),
		Envio:       in.Envio.Round(0),
		MetodoPago:  metodo,
		EstadoEnvio: estado,
	}
	if run, err := validate.NormalizeRUN(in.Run); err == nil {
		o.Run = run
	}
	o.Fecha, _ = parseFecha(in.Fecha)
	if o.Fecha.IsZero() {
		o.Fecha = im.now()
	}
	sub := decimal.Zero
	for j, it := range in.Productos {
		cant := int(it.Cantidad.IntPart())
		if cant < 1 {
			return omitir("orden %s: línea %d con cantidad %d", numero, j, cant)
		}
		linea := domain.OrdenItem{
			Codigo:         strings.ToUpper(strings.TrimSpace(it.Codigo)),
			Nombre:         strings.TrimSpace(it.Nombre),
			Cantidad:       cant,
			PrecioUnitario: it.Precio.Round(0),
			Subtotal:       it.Subtotal.Round(0),
		}
		if linea.Subtotal.IsZero() {
			linea.Subtotal = linea.PrecioUnitario.Mul(decimal.NewFromInt(int64(cant)))
		}
		sub = sub.Add(linea.Subtotal)
		o.Productos = append(o.Productos, linea)
	}
	o.Subtotal = in.Subtotal.Round(0)
	if o.Subtotal.IsZero() {
		o.Subtotal = sub
	}
	o.Total = in.Total.Round(0)
	if o.Total.IsZero() {
		o.Total = o.Subtotal.Sub(o.Descuento).Add(o.Envio)
	}
	return im.Orders.Save(ctx, o)
}

func (im *Importer) post(ctx context.Context, in Post) error {
	p := &domain.BlogPost{
		Slug:      strings.TrimSpace(in.Slug),
		Titulo:    strings.TrimSpace(in.Titulo),
		Resumen:   strings.TrimSpace(in.Resumen),
		Contenido: in.Contenido,
		Imagen:    strings.TrimSpace(in.Imagen),
		Autor:     strings.TrimSpace(in.Autor),
	}
	if p.Titulo == "" {
		return omitir("entrada de blog sin título")
	}
	if p.Slug == "" {
		p.Slug = usecase.Slugify(p.Titulo)
	}
	if p.Slug == "" {
		return omitir("entrada %q sin slug", p.Titulo)
	}
	if p.Autor == "" {
		p.Autor = usecase.AutorPorDefecto
	}
	p.PublicadoEn, _ = parseFecha(in.Fecha)
	if p.PublicadoEn.IsZero() {
		p.PublicadoEn = im.now()
	}
	return im.Blog.Save(ctx, p)
}

var formatosFecha = []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02 15:04:05", "2006-01-02", "02-01-2006", "02/01/2006"}

func parseFecha(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, f := range formatosFecha {
		if t, err := time.Parse(f, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
