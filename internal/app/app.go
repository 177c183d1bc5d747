// Package app arma la tienda: abre la base, elige los adaptadores según la
// configuración y conecta los casos de uso con el servidor HTTP.
package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"gorm.io/gorm"

	cartredis "github.com/phenrril/junimo/internal/adapters/cartstore/redis"
	"github.com/phenrril/junimo/internal/adapters/httpserver"
	"github.com/phenrril/junimo/internal/adapters/payments/card"
	"github.com/phenrril/junimo/internal/adapters/payments/paypal"
	"github.com/phenrril/junimo/internal/adapters/repo/postgres"
	"github.com/phenrril/junimo/internal/adapters/storage/localfs"
	"github.com/phenrril/junimo/internal/adapters/storage/s3"
	"github.com/phenrril/junimo/internal/auth"
	"github.com/phenrril/junimo/internal/config"
	"github.com/phenrril/junimo/internal/domain"
	"github.com/phenrril/junimo/internal/events"
	"github.com/phenrril/junimo/internal/legacy"
	"github.com/phenrril/junimo/internal/metrics"
	"github.com/phenrril/junimo/internal/pricing"
	"github.com/phenrril/junimo/internal/usecase"
)

type App struct {
	DB      *gorm.DB
	Config  *config.Config
	Bus     *events.Bus
	Metrics *metrics.Metrics

	ProductUC   *usecase.ProductUC
	OfferUC     *usecase.OfferUC
	StockUC     *usecase.StockUC
	CartUC      *usecase.CartUC
	CheckoutUC  *usecase.CheckoutUC
	OrderUC     *usecase.OrderUC
	AuthUC      *usecase.AuthUC
	UserUC      *usecase.UserUC
	BlogUC      *usecase.BlogUC
	DashboardUC *usecase.DashboardUC
	Legacy      *legacy.Importer

	OAuthConfig *oauth2.Config
	uploadsDir  string
	closers     []func() error
}

func NewApp(ctx context.Context, cfg *config.Config, db *gorm.DB) (*App, error) {
	a := &App{DB: db, Config: cfg, Bus: events.NewBus(), Metrics: metrics.New()}
	a.Bus.Subscribe(a.Metrics.Handle)
	a.Bus.Subscribe(events.LogHandler)

	prodRepo := postgres.NewProductRepo(db)
	offerRepo := postgres.NewOfferRepo(db)
	userRepo := postgres.NewUserRepo(db)
	orderRepo := postgres.NewOrderRepo(db)
	blogRepo := postgres.NewBlogRepo(db)

	var carts domain.CartStore = postgres.NewCartRepo(db)
	if cfg.CartStore == "redis" {
		st, err := cartredis.New(ctx, cartredis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword, DB: cfg.RedisDB, TTL: cfg.CartTTL})
		if err != nil {
			return nil, err
		}
		carts = st
		a.closers = append(a.closers, st.Close)
		log.Info().Str("addr", cfg.RedisAddr).Msg("carritos en Redis")
	}

	var storage domain.FileStorage
	switch cfg.Storage {
	case "s3":
		st, err := s3.New(ctx, s3.Config{
			Bucket:    cfg.S3.Bucket,
			Region:    cfg.S3.Region,
			Endpoint:  cfg.S3.Endpoint,
			AccessKey: cfg.S3.AccessKey,
			SecretKey: cfg.S3.SecretKey,
			PublicURL: cfg.S3.PublicURL,
		})
		if err != nil {
			return nil, fmt.Errorf("storage s3: %w", err)
		}
		storage = st
		log.Info().Str("bucket", cfg.S3.Bucket).Msg("imágenes en S3")
	default:
		st, err := localfs.New(cfg.StorageDir)
		if err != nil {
			return nil, err
		}
		storage = st
		a.uploadsDir = st.Dir()
	}

	pp := paypal.NewGateway(paypal.Config{
		ClientID:  cfg.PayPal.ClientID,
		Secret:    cfg.PayPal.Secret,
		Mode:      cfg.PayPal.Mode,
		CLPPorUSD: cfg.PayPal.CLPPorUSD,
	})
	if cfg.PayPal.ClientID == "" {
		log.Warn().Msg("PAYPAL_CLIENT_ID vacío: PayPal en modo simulado")
	}

	reglas := pricing.Reglas{
		DescuentoDuocPct: cfg.DescuentoDuocPct,
		EnvioGratisDesde: cfg.EnvioGratisDesde,
		CostoEnvio:       cfg.CostoEnvio,
	}

	a.ProductUC = &usecase.ProductUC{Products: prodRepo, Offers: offerRepo, Carts: carts, Storage: storage, Events: a.Bus}
	a.OfferUC = &usecase.OfferUC{Offers: offerRepo, Products: prodRepo, Carts: carts}
	a.StockUC = &usecase.StockUC{Products: prodRepo, Carts: carts, Events: a.Bus}
	a.CartUC = &usecase.CartUC{Products: prodRepo, Offers: offerRepo, Carts: carts, Events: a.Bus, Reglas: reglas}
	a.CheckoutUC = &usecase.CheckoutUC{Cart: a.CartUC, Orders: orderRepo, Card: card.NewProcessor(cfg.CardDelay), PayPal: pp, Events: a.Bus}
	a.OrderUC = &usecase.OrderUC{Orders: orderRepo, Stock: a.StockUC, Events: a.Bus}
	a.AuthUC = &usecase.AuthUC{Users: userRepo, Tokens: auth.NewTokenService(cfg.JWTSecret, cfg.SessionTTL), Events: a.Bus}
	a.UserUC = &usecase.UserUC{Users: userRepo}
	a.BlogUC = &usecase.BlogUC{Posts: blogRepo}
	a.DashboardUC = &usecase.DashboardUC{Products: prodRepo, Users: userRepo, Orders: orderRepo}
	a.Legacy = &legacy.Importer{Products: prodRepo, Offers: offerRepo, Users: userRepo, Orders: orderRepo, Blog: blogRepo}

	if cfg.GoogleClientID != "" && cfg.GoogleClientSecret != "" {
		a.OAuthConfig = &oauth2.Config{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RedirectURL:  cfg.BaseURL + "/auth/google/callback",
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint:     google.Endpoint,
		}
	}
	return a, nil
}

func (a *App) HTTPHandler() http.Handler {
	return httpserver.New(httpserver.Deps{
		Products:      a.ProductUC,
		Offers:        a.OfferUC,
		Stock:         a.StockUC,
		Cart:          a.CartUC,
		Checkout:      a.CheckoutUC,
		Orders:        a.OrderUC,
		Auth:          a.AuthUC,
		Users:         a.UserUC,
		Blog:          a.BlogUC,
		Dashboard:     a.DashboardUC,
		Metrics:       a.Metrics,
		OAuth:         a.OAuthConfig,
		BaseURL:       a.Config.BaseURL,
		UploadsDir:    a.uploadsDir,
		SecureCookies: a.Config.Production(),
	})
}

// MigrateAndSeed migra el esquema y, con SEED activo, carga los datos de
// demostración que falten.
func (a *App) MigrateAndSeed(ctx context.Context) error {
	if err := postgres.Migrate(a.DB); err != nil {
		return fmt.Errorf("migrar: %w", err)
	}
	if !a.Config.Seed {
		return nil
	}
	return seed(ctx, a, time.Now())
}

// Close libera las conexiones externas (Redis) y la base.
func (a *App) Close() error {
	for _, c := range a.closers {
		if err := c(); err != nil {
			log.Warn().Err(err).Msg("cerrar recurso")
		}
	}
	sqlDB, err := a.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
