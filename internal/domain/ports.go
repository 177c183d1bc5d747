package domain

import (
	"context"
	"io"
	"time"
)

type ProductRepo interface {
	Create(ctx context.Context, p *Producto) error
	Save(ctx context.Context, p *Producto) error
	FindByCodigo(ctx context.Context, codigo string) (*Producto, error)
	FindByCodigos(ctx context.Context, codigos []string) ([]Producto, error)
	List(ctx context.Context, f ProductFilter) ([]Producto, int64, error)
	Delete(ctx context.Context, codigo string) error
	Categories(ctx context.Context) ([]CategoriaResumen, error)
	SetStock(ctx context.Context, codigo string, stock int) error
	AdjustStock(ctx context.Context, codigo string, delta int) error
	Critical(ctx context.Context) ([]Producto, error)
	Count(ctx context.Context) (int64, error)
}

type OfferRepo interface {
	Save(ctx context.Context, o *Oferta) error
	Delete(ctx context.Context, codigo string) error
	FindByCodigos(ctx context.Context, codigos []string) ([]Oferta, error)
	ListActive(ctx context.Context, now time.Time) ([]Oferta, error)
}

type UserRepo interface {
	Create(ctx context.Context, u *Usuario) error
	Save(ctx context.Context, u *Usuario) error
	FindByRun(ctx context.Context, run string) (*Usuario, error)
	FindByCorreo(ctx context.Context, correo string) (*Usuario, error)
	List(ctx context.Context, tipo TipoUsuario) ([]Usuario, error)
	Delete(ctx context.Context, run string) error
	CountByTipo(ctx context.Context) (map[TipoUsuario]int64, error)
}

type OrderRepo interface {
	// CreateWithStock descuenta stock, ejecuta charge y persiste la orden en una
	// misma transacción. Si charge falla no queda nada escrito.
	CreateWithStock(ctx context.Context, o *Orden, charge func(ctx context.Context) error) error
	// CancelWithRestock marca la orden como Cancelado y devuelve el stock.
	CancelWithRestock(ctx context.Context, numero string) (*Orden, error)
	// UpdateEstado cambia el estado solo si la orden sigue en from.
	UpdateEstado(ctx context.Context, numero string, from, to EstadoEnvio) error
	// Save crea o reemplaza la orden completa con sus líneas.
	Save(ctx context.Context, o *Orden) error
	FindByNumero(ctx context.Context, numero string) (*Orden, error)
	List(ctx context.Context, f OrderFilter) ([]Orden, int64, error)
	Recent(ctx context.Context, n int) ([]Orden, error)
	Stats(ctx context.Context) (*OrderStats, error)
}

// CartStore guarda las líneas de carrito fuera de la tabla de productos.
type CartStore interface {
	Items(ctx context.Context, cartID string) ([]CartItem, error)
	Put(ctx context.Context, item CartItem) error
	Remove(ctx context.Context, cartID, codigo string) error
	Replace(ctx context.Context, cartID string, items []CartItem) error
	Clear(ctx context.Context, cartID string) error
}

type BlogRepo interface {
	Save(ctx context.Context, p *BlogPost) error
	FindBySlug(ctx context.Context, slug string) (*BlogPost, error)
	List(ctx context.Context) ([]BlogPost, error)
	Delete(ctx context.Context, slug string) error
}

type FileStorage interface {
	Save(ctx context.Context, name string, r io.Reader, contentType string) (string, error)
	Delete(ctx context.Context, path string) error
}
