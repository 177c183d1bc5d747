package domain

import (
	"context"

	"github.com/shopspring/decimal"
)

type Tarjeta struct {
	Numero      string
	Titular     string
	Vencimiento string
	CVV         string
}

// PayPalOrden es la orden de cobro creada en PayPal antes de que el cliente la apruebe.
type PayPalOrden struct {
	ID         string          `json:"id"`
	Status     string          `json:"status"`
	ApproveURL string          `json:"approve_url,omitempty"`
	MontoUSD   decimal.Decimal `json:"monto_usd"`
	Simulado   bool            `json:"simulado"`
}

type CardProcessor interface {
	Charge(ctx context.Context, t Tarjeta, monto decimal.Decimal) (string, error)
}

type PayPalGateway interface {
	CreateOrder(ctx context.Context, total decimal.Decimal, reference string) (*PayPalOrden, error)
	Capture(ctx context.Context, orderID string, total decimal.Decimal) (string, error)
}
