package domain

// Nombres de eventos publicados en el bus interno.
const (
	EventCartUpdated        = "cartUpdated"
	EventAuthStateChanged   = "authStateChanged"
	EventStockUpdated       = "stockUpdated"
	EventOrderCreated       = "orderCreated"
	EventOrderStatusChanged = "orderStatusChanged"
)
