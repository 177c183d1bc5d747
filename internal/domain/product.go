package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Producto struct {
	Codigo       string          `gorm:"primaryKey;size:20" json:"codigo"`
	Nombre       string          `gorm:"size:100;not null" json:"nombre"`
	Descripcion  string          `gorm:"size:500" json:"descripcion"`
	Categoria    string          `gorm:"size:60;index" json:"categoria"`
	Precio       decimal.Decimal `gorm:"type:decimal(12,0);not null" json:"precio"`
	Stock        int             `gorm:"not null;default:0" json:"stock"`
	StockCritico int             `gorm:"not null;default:0" json:"stock_critico"`
	Imagen       string          `gorm:"size:255" json:"imagen"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

func (Producto) TableName() string { return "productos" }

type Oferta struct {
	Codigo    string     `gorm:"primaryKey;size:20" json:"codigo"`
	Descuento int        `gorm:"not null" json:"descuento"`
	Activa    bool       `gorm:"not null" json:"activa"`
	Desde     *time.Time `json:"desde,omitempty"`
	Hasta     *time.Time `json:"hasta,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

func (Oferta) TableName() string { return "ofertas" }

// VigenteEn indica si la oferta aplica en el instante t.
func (o *Oferta) VigenteEn(t time.Time) bool {
	if o == nil || !o.Activa || o.Descuento <= 0 {
		return false
	}
	if o.Desde != nil && t.Before(*o.Desde) {
		return false
	}
	if o.Hasta != nil && !t.Before(*o.Hasta) {
		return false
	}
	return true
}

// ProductoView es el producto con los campos derivados calculados al leer.
type ProductoView struct {
	Producto
	StockDisponible int             `json:"stock_disponible"`
	EnOferta        bool            `json:"en_oferta"`
	Descuento       int             `json:"descuento"`
	PrecioOferta    decimal.Decimal `json:"precio_oferta"`
	PrecioFinal     decimal.Decimal `json:"precio_final"`
	StockBajo       bool            `json:"stock_bajo"`
	Agotado         bool            `json:"agotado"`
}

type ProductFilter struct {
	Categoria       string
	Query           string
	Codigos         []string
	SoloDisponibles bool
	Sort            string
	Page            int
	PageSize        int
}

type CategoriaResumen struct {
	Nombre   string `json:"nombre"`
	Cantidad int64  `json:"cantidad"`
}
