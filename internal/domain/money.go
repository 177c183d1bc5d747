package domain

import "github.com/shopspring/decimal"

func init() {
	// Los montos viajan como números JSON (pesos chilenos sin decimales).
	decimal.MarshalJSONWithoutQuotes = true
}

// CLP construye un monto en pesos.
func CLP(v int64) decimal.Decimal { return decimal.NewFromInt(v) }
