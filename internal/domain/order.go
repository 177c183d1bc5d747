package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type EstadoEnvio string

const (
	EstadoPendiente EstadoEnvio = "Pendiente"
	EstadoEnviado   EstadoEnvio = "Enviado"
	EstadoEntregado EstadoEnvio = "Entregado"
	EstadoCancelado EstadoEnvio = "Cancelado"
)

func (e EstadoEnvio) Valido() bool {
	switch e {
	case EstadoPendiente, EstadoEnviado, EstadoEntregado, EstadoCancelado:
		return true
	}
	return false
}

// PuedePasarA: Pendiente -> Enviado|Cancelado, Enviado -> Entregado|Cancelado.
// Entregado y Cancelado son terminales.
func (e EstadoEnvio) PuedePasarA(n EstadoEnvio) bool {
	switch e {
	case EstadoPendiente:
		return n == EstadoEnviado || n == EstadoCancelado
	case EstadoEnviado:
		return n == EstadoEntregado || n == EstadoCancelado
	}
	return false
}

type MetodoPago string

const (
	PagoTarjeta MetodoPago = "tarjeta"
	PagoPayPal  MetodoPago = "paypal"
)

type Orden struct {
	NumeroOrden    string          `gorm:"primaryKey;size:20" json:"numero_orden"`
	Fecha          time.Time       `gorm:"index" json:"fecha"`
	Run            string          `gorm:"size:12;index" json:"run,omitempty"`
	Nombre         string          `gorm:"size:160" json:"nombre"`
	Correo         string          `gorm:"size:100" json:"correo"`
	Telefono       string          `gorm:"size:20" json:"telefono,omitempty"`
	Direccion      string          `gorm:"size:300" json:"direccion"`
	Region         string          `gorm:"size:80" json:"region"`
	Comuna         string          `gorm:"size:80" json:"comuna"`
	Subtotal       decimal.Decimal `gorm:"type:decimal(12,0);default:0" json:"subtotal"`
	Descuento      decimal.Decimal `gorm:"type:decimal(12,0);default:0" json:"descuento"`
	Envio          decimal.Decimal `gorm:"type:decimal(12,0);default:0" json:"envio"`
	Total          decimal.Decimal `gorm:"type:decimal(12,0)" json:"total"`
	MetodoPago     MetodoPago      `gorm:"type:varchar(10)" json:"metodo_pago"`
	PagoReferencia string          `gorm:"size:80" json:"pago_referencia,omitempty"`
	EstadoEnvio    EstadoEnvio     `gorm:"type:varchar(12);index" json:"estado_envio"`
	Productos      []OrdenItem     `gorm:"foreignKey:NumeroOrden;references:NumeroOrden" json:"productos"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

func (Orden) TableName() string { return "ordenes" }

type OrdenItem struct {
	ID             uint            `gorm:"primaryKey" json:"-"`
	NumeroOrden    string          `gorm:"size:20;index" json:"-"`
	Codigo         string          `gorm:"size:20" json:"codigo"`
	Nombre         string          `gorm:"size:100" json:"nombre"`
	Cantidad       int             `gorm:"not null" json:"cantidad"`
	PrecioUnitario decimal.Decimal `gorm:"type:decimal(12,0)" json:"precio_unitario"`
	Subtotal       decimal.Decimal `gorm:"type:decimal(12,0)" json:"subtotal"`
}

func (OrdenItem) TableName() string { return "orden_items" }

func NuevoNumeroOrden() string {
	id := strings.ReplaceAll(uuid.NewString(), "-", "")
	return "ORD-" + strings.ToUpper(id[:8])
}

type OrderFilter struct {
	Estado   EstadoEnvio
	Run      string
	Page     int
	PageSize int
}

type OrderStats struct {
	Total     int64                 `json:"total"`
	Ventas    decimal.Decimal       `json:"ventas"`
	PorEstado map[EstadoEnvio]int64 `json:"por_estado"`
}
