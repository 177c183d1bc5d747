package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type CartItem struct {
	CartID    string          `gorm:"primaryKey;size:64" json:"-"`
	Codigo    string          `gorm:"primaryKey;size:20" json:"codigo"`
	Cantidad  int             `gorm:"not null" json:"cantidad"`
	Precio    decimal.Decimal `gorm:"type:decimal(12,0)" json:"precio"`
	Subtotal  decimal.Decimal `gorm:"type:decimal(12,0)" json:"subtotal"`
	UpdatedAt time.Time       `json:"-"`
}

func (CartItem) TableName() string { return "cart_items" }

type LineaCarrito struct {
	Codigo          string          `json:"codigo"`
	Nombre          string          `json:"nombre"`
	Imagen          string          `json:"imagen"`
	Categoria       string          `json:"categoria"`
	Cantidad        int             `json:"cantidad"`
	PrecioUnitario  decimal.Decimal `json:"precio_unitario"`
	PrecioOriginal  decimal.Decimal `json:"precio_original"`
	EnOferta        bool            `json:"en_oferta"`
	Subtotal        decimal.Decimal `json:"subtotal"`
	StockDisponible int             `json:"stock_disponible"`
	Ajustado        bool            `json:"ajustado,omitempty"`
}

// Resumen es el carrito reconciliado con stock, ofertas y reglas de envío.
type Resumen struct {
	Items         []LineaCarrito  `json:"items"`
	CantidadTotal int             `json:"cantidad_total"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	Descuento     decimal.Decimal `json:"descuento"`
	Envio         decimal.Decimal `json:"envio"`
	Total         decimal.Decimal `json:"total"`
	DescuentoDuoc bool            `json:"descuento_duoc"`
	EnvioGratis   bool            `json:"envio_gratis"`
}

func (r *Resumen) Ajustado() bool {
	for _, l := range r.Items {
		if l.Ajustado {
			return true
		}
	}
	return false
}
