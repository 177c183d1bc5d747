package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/phenrril/junimo/internal/domain"
	"github.com/phenrril/junimo/internal/events"
	"github.com/phenrril/junimo/internal/validate"
)

type ProductUC struct {
	Products domain.ProductRepo
	Offers   domain.OfferRepo
	Carts    domain.CartStore
	Storage  domain.FileStorage
	Events   *events.Bus
	Now      func() time.Time
}

type ProductQuery struct {
	Categoria       string
	Query           string
	SoloOfertas     bool
	SoloDisponibles bool
	Sort            string
	Page            int
	PageSize        int
	CartID          string
}

type ProductInput struct {
	Codigo       string `json:"codigo" validate:"required,min=3,max=20"`
	Nombre       string `json:"nombre" validate:"required,max=100"`
	Descripcion  string `json:"descripcion" validate:"max=500"`
	Categoria    string `json:"categoria" validate:"required,max=60"`
	Precio       *int64 `json:"precio" validate:"required,gte=0"`
	Stock        *int   `json:"stock" validate:"required,gte=0"`
	StockCritico int    `json:"stock_critico" validate:"gte=0"`
	Imagen       string `json:"imagen" validate:"max=255"`
}

func (in *ProductInput) normalize() {
	in.Codigo = strings.ToUpper(strings.TrimSpace(in.Codigo))
	in.Nombre = strings.TrimSpace(in.Nombre)
	in.Descripcion = strings.TrimSpace(in.Descripcion)
	in.Categoria = strings.TrimSpace(in.Categoria)
	in.Imagen = strings.TrimSpace(in.Imagen)
}

func (uc *ProductUC) List(ctx context.Context, q ProductQuery) (*Page[domain.ProductoView], error) {
	page, size := normPage(q.Page, q.PageSize)
	f := domain.ProductFilter{
		Categoria:       strings.TrimSpace(q.Categoria),
		Query:           q.Query,
		SoloDisponibles: q.SoloDisponibles,
		Sort:            q.Sort,
		Page:            page,
		PageSize:        size,
	}
	now := clock(uc.Now)
	if q.SoloOfertas {
		ofs, err := uc.Offers.ListActive(ctx, now)
		if err != nil {
			return nil, err
		}
		f.Codigos = make([]string, 0, len(ofs))
		for _, o := range ofs {
			f.Codigos = append(f.Codigos, o.Codigo)
		}
	}
	list, total, err := uc.Products.List(ctx, f)
	if err != nil {
		return nil, err
	}
	views, err := decorateAll(ctx, uc.Offers, uc.Carts, list, q.CartID, now)
	if err != nil {
		return nil, err
	}
	return &Page[domain.ProductoView]{Items: views, Total: total, Page: page, PageSize: size}, nil
}

// All devuelve el catálogo completo sin paginar (exportaciones).
func (uc *ProductUC) All(ctx context.Context) ([]domain.ProductoView, error) {
	list, _, err := uc.Products.List(ctx, domain.ProductFilter{Sort: "nombre"})
	if err != nil {
		return nil, err
	}
	return decorateAll(ctx, uc.Offers, nil, list, "", clock(uc.Now))
}

func (uc *ProductUC) Get(ctx context.Context, codigo, cartID string) (*domain.ProductoView, error) {
	p, err := uc.Products.FindByCodigo(ctx, strings.ToUpper(strings.TrimSpace(codigo)))
	if err != nil {
		return nil, err
	}
	views, err := decorateAll(ctx, uc.Offers, uc.Carts, []domain.Producto{*p}, cartID, clock(uc.Now))
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

func (uc *ProductUC) Categories(ctx context.Context) ([]domain.CategoriaResumen, error) {
	return uc.Products.Categories(ctx)
}

func (uc *ProductUC) Create(ctx context.Context, in ProductInput) (*domain.Producto, error) {
	in.normalize()
	if err := validate.Struct(validador, in); err != nil {
		return nil, err
	}
	p := &domain.Producto{
		Codigo:       in.Codigo,
		Nombre:       in.Nombre,
		Descripcion:  in.Descripcion,
		Categoria:    in.Categoria,
		Precio:       decimal.NewFromInt(*in.Precio),
		Stock:        *in.Stock,
		StockCritico: in.StockCritico,
		Imagen:       in.Imagen,
	}
	if err := uc.Products.Create(ctx, p); err != nil {
		return nil, err
	}
	uc.Events.Publish(ctx, domain.EventStockUpdated, events.StockUpdated{Codigo: p.Codigo, Stock: p.Stock})
	return p, nil
}

// Update reemplaza los datos del producto; el código de la URL manda sobre el del cuerpo.
func (uc *ProductUC) Update(ctx context.Context, codigo string, in ProductInput) (*domain.Producto, error) {
	in.Codigo = codigo
	in.normalize()
	if err := validate.Struct(validador, in); err != nil {
		return nil, err
	}
	p, err := uc.Products.FindByCodigo(ctx, in.Codigo)
	if err != nil {
		return nil, err
	}
	stockCambio := p.Stock != *in.Stock
	p.Nombre = in.Nombre
	p.Descripcion = in.Descripcion
	p.Categoria = in.Categoria
	p.Precio = decimal.NewFromInt(*in.Precio)
	p.Stock = *in.Stock
	p.StockCritico = in.StockCritico
	if in.Imagen != "" {
		p.Imagen = in.Imagen
	}
	if err := uc.Products.Save(ctx, p); err != nil {
		return nil, err
	}
	if stockCambio {
		uc.Events.Publish(ctx, domain.EventStockUpdated, events.StockUpdated{Codigo: p.Codigo, Stock: p.Stock})
	}
	return p, nil
}

func (uc *ProductUC) Delete(ctx context.Context, codigo string) error {
	codigo = strings.ToUpper(strings.TrimSpace(codigo))
	p, err := uc.Products.FindByCodigo(ctx, codigo)
	if err != nil {
		return err
	}
	if err := uc.Products.Delete(ctx, codigo); err != nil {
		return err
	}
	if uc.Storage != nil && p.Imagen != "" {
		if err := uc.Storage.Delete(ctx, p.Imagen); err != nil {
			log.Warn().Err(err).Str("codigo", codigo).Msg("no se pudo borrar la imagen")
		}
	}
	uc.Events.Publish(ctx, domain.EventStockUpdated, events.StockUpdated{Codigo: codigo, Stock: 0})
	return nil
}

func (uc *ProductUC) UpdateStock(ctx context.Context, codigo string, stock int) (*domain.Producto, error) {
	if stock < 0 {
		return nil, domain.NewValidationError(map[string]string{"stock": "Debe ser mayor o igual a 0"})
	}
	codigo = strings.ToUpper(strings.TrimSpace(codigo))
	if err := uc.Products.SetStock(ctx, codigo, stock); err != nil {
		return nil, err
	}
	return uc.afterStock(ctx, codigo)
}

// AdjustStock suma delta (puede ser negativo); el stock nunca queda bajo cero.
func (uc *ProductUC) AdjustStock(ctx context.Context, codigo string, delta int) (*domain.Producto, error) {
	codigo = strings.ToUpper(strings.TrimSpace(codigo))
	if err := uc.Products.AdjustStock(ctx, codigo, delta); err != nil {
		return nil, err
	}
	return uc.afterStock(ctx, codigo)
}

func (uc *ProductUC) afterStock(ctx context.Context, codigo string) (*domain.Producto, error) {
	p, err := uc.Products.FindByCodigo(ctx, codigo)
	if err != nil {
		return nil, err
	}
	uc.Events.Publish(ctx, domain.EventStockUpdated, events.StockUpdated{Codigo: p.Codigo, Stock: p.Stock})
	return p, nil
}

var imageExts = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

// UploadImage guarda la imagen y reemplaza la anterior del producto.
func (uc *ProductUC) UploadImage(ctx context.Context, codigo, filename, contentType string, r io.Reader) (*domain.Producto, error) {
	if uc.Storage == nil {
		return nil, errors.New("almacenamiento de imágenes no configurado")
	}
	ext, ok := imageExts[strings.ToLower(strings.TrimSpace(strings.SplitN(contentType, ";", 2)[0]))]
	if !ok {
		return nil, domain.NewValidationError(map[string]string{"imagen": "Formato no soportado (jpg, png, webp, gif)"})
	}
	if e := strings.ToLower(filepath.Ext(filename)); e == ".jpeg" || e == ext {
		ext = e
	}
	p, err := uc.Products.FindByCodigo(ctx, strings.ToUpper(strings.TrimSpace(codigo)))
	if err != nil {
		return nil, err
	}
	name := fmt.Sprintf("productos/%s-%s%s", strings.ToLower(p.Codigo), uuid.NewString()[:8], ext)
	url, err := uc.Storage.Save(ctx, name, r, contentType)
	if err != nil {
		return nil, fmt.Errorf("guardar imagen: %w", err)
	}
	old := p.Imagen
	p.Imagen = url
	if err := uc.Products.Save(ctx, p); err != nil {
		_ = uc.Storage.Delete(ctx, url)
		return nil, err
	}
	if old != "" && old != url {
		if err := uc.Storage.Delete(ctx, old); err != nil {
			log.Warn().Err(err).Str("codigo", p.Codigo).Msg("no se pudo borrar la imagen anterior")
		}
	}
	return p, nil
}

// Critical lista los productos con stock bajo su umbral crítico.
func (uc *ProductUC) Critical(ctx context.Context) ([]domain.ProductoView, error) {
	list, err := uc.Products.Critical(ctx)
	if err != nil {
		return nil, err
	}
	return decorateAll(ctx, uc.Offers, nil, list, "", clock(uc.Now))
}

// ImportResult resume una carga masiva de productos.
type ImportResult struct {
	Creados      int               `json:"creados"`
	Actualizados int               `json:"actualizados"`
	Errores      map[string]string `json:"errores,omitempty"`
}

// Import crea o actualiza cada fila; una fila inválida no detiene el resto.
func (uc *ProductUC) Import(ctx context.Context, rows []ProductInput) (*ImportResult, error) {
	res := &ImportResult{Errores: map[string]string{}}
	for i, in := range rows {
		key := strings.ToUpper(strings.TrimSpace(in.Codigo))
		if key == "" {
			key = fmt.Sprintf("fila %d", i+2)
		}
		_, err := uc.Products.FindByCodigo(ctx, key)
		switch {
		case err == nil:
			_, err = uc.Update(ctx, key, in)
			if err == nil {
				res.Actualizados++
			}
		case errors.Is(err, domain.ErrNotFound):
			_, err = uc.Create(ctx, in)
			if err == nil {
				res.Creados++
			}
		}
		if err != nil {
			var ve *domain.ValidationError
			if !errors.As(err, &ve) && !errors.Is(err, domain.ErrYaExiste) {
				return res, err
			}
			res.Errores[key] = err.Error()
		}
	}
	return res, nil
}
