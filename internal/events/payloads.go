package events

import "github.com/shopspring/decimal"

type CartUpdated struct {
	CartID   string
	Cantidad int
}

type AuthStateChanged struct {
	Run      string
	LoggedIn bool
}

type StockUpdated struct {
	Codigo string
	Stock  int
}

type OrderCreated struct {
	NumeroOrden string
	MetodoPago  string
	Total       decimal.Decimal
	Items       int
}

type OrderStatusChanged struct {
	NumeroOrden string
	Anterior    string
	Nuevo       string
}
