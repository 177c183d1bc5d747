package usecase

import (
	"context"
	"sync"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/phenrril/junimo/internal/adapters/payments/card"
	"github.com/phenrril/junimo/internal/adapters/payments/paypal"
	"github.com/phenrril/junimo/internal/adapters/repo/postgres"
	"github.com/phenrril/junimo/internal/auth"
	"github.com/phenrril/junimo/internal/domain"
	"github.com/phenrril/junimo/internal/events"
	"github.com/phenrril/junimo/internal/pricing"
	"github.com/phenrril/junimo/internal/testutil"
)

var ahora = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

type recorder struct {
	mu    sync.Mutex
	names []string
	last  map[string]any
}

func (r *recorder) handle(_ context.Context, e events.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.names = append(r.names, e.Name)
	if r.last == nil {
		r.last = map[string]any{}
	}
	r.last[e.Name] = e.Payload
	return nil
}

func (r *recorder) count(name string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, x := range r.names {
		if x == name {
			n++
		}
	}
	return n
}

type fixture struct {
	db        *gorm.DB
	rec       *recorder
	products  *ProductUC
	offers    *OfferUC
	stock     *StockUC
	cart      *CartUC
	checkout  *CheckoutUC
	orders    *OrderUC
	auth      *AuthUC
	users     *UserUC
	blog      *BlogUC
	dashboard *DashboardUC
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testutil.NewDB(t)
	testutil.Productos(t, db)

	rec := &recorder{}
	bus := events.NewBus()
	bus.Subscribe(rec.handle)
	now := func() time.Time { return ahora }

	prods := postgres.NewProductRepo(db)
	offers := postgres.NewOfferRepo(db)
	carts := postgres.NewCartRepo(db)
	orders := postgres.NewOrderRepo(db)
	users := postgres.NewUserRepo(db)

	cart := &CartUC{Products: prods, Offers: offers, Carts: carts, Events: bus, Reglas: pricing.ReglasPorDefecto(), Now: now}
	stock := &StockUC{Products: prods, Carts: carts, Events: bus}
	return &fixture{
		db:        db,
		rec:       rec,
		products:  &ProductUC{Products: prods, Offers: offers, Carts: carts, Events: bus, Now: now},
		offers:    &OfferUC{Offers: offers, Products: prods, Carts: carts, Now: now},
		stock:     stock,
		cart:      cart,
		checkout:  &CheckoutUC{Cart: cart, Orders: orders, Card: card.NewProcessor(0), PayPal: paypal.NewGateway(paypal.Config{CLPPorUSD: domain.CLP(950)}), Events: bus, Now: now},
		orders:    &OrderUC{Orders: orders, Stock: stock, Events: bus},
		auth:      &AuthUC{Users: users, Tokens: auth.NewTokenService("secreto-de-prueba", time.Hour), Events: bus},
		users:     &UserUC{Users: users},
		blog:      &BlogUC{Posts: postgres.NewBlogRepo(db), Now: now},
		dashboard: &DashboardUC{Products: prods, Users: users, Orders: orders},
	}
}

func (f *fixture) stockDe(t *testing.T, codigo string) int {
	t.Helper()
	var p domain.Producto
	if err := f.db.First(&p, "codigo = ?", codigo).Error; err != nil {
		t.Fatalf("producto %s: %v", codigo, err)
	}
	return p.Stock
}
