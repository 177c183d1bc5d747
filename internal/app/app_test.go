package app

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/phenrril/junimo/internal/auth"
	"github.com/phenrril/junimo/internal/config"
	"github.com/phenrril/junimo/internal/domain"
	"github.com/phenrril/junimo/internal/usecase"
)

func testConfig(t *testing.T) *config.Config {
	return &config.Config{
		Env:              "development",
		LogLevel:         "error",
		BaseURL:          "http://localhost:8080",
		Seed:             true,
		DBDriver:         "sqlite",
		SQLitePath:       filepath.Join(t.TempDir(), "junimo.db"),
		JWTSecret:        "secreto",
		SessionTTL:       time.Hour,
		CartStore:        "sql",
		Storage:          "local",
		StorageDir:       t.TempDir(),
		PayPal:           config.PayPalConfig{Mode: "sandbox", CLPPorUSD: domain.CLP(950)},
		DescuentoDuocPct: 20,
		EnvioGratisDesde: domain.CLP(50000),
		CostoEnvio:       domain.CLP(3990),
		AdminRun:         "11.111.111-1",
		AdminEmail:       "admin@duoc.cl",
		AdminPassword:    "admin123",
	}
}

func newTestApp(t *testing.T) *App {
	t.Helper()
	auth.Cost = bcrypt.MinCost
	cfg := testConfig(t)
	db, err := OpenDB(cfg)
	require.NoError(t, err)
	a, err := NewApp(context.Background(), cfg, db)
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })
	return a
}

func TestMigrateAndSeed_Idempotente(t *testing.T) {
	a := newTestApp(t)
	ctx := context.Background()
	require.NoError(t, a.MigrateAndSeed(ctx))
	require.NoError(t, a.MigrateAndSeed(ctx))

	n, err := a.ProductUC.Products.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, len(catalogo), n)

	posts, err := a.BlogUC.List(ctx)
	require.NoError(t, err)
	assert.Len(t, posts, len(postsIniciales))

	sess, err := a.AuthUC.Login(ctx, usecase.LoginInput{Correo: "admin@duoc.cl", Clave: "admin123"})
	require.NoError(t, err)
	assert.Equal(t, domain.TipoAdmin, sess.Usuario.Tipo)
	assert.Equal(t, "11111111-1", sess.Usuario.Run)
}

func TestMigrateAndSeed_SinSeed(t *testing.T) {
	a := newTestApp(t)
	a.Config.Seed = false
	require.NoError(t, a.MigrateAndSeed(context.Background()))
	n, err := a.ProductUC.Products.Count(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestHTTPHandler_Ofertas(t *testing.T) {
	a := newTestApp(t)
	require.NoError(t, a.MigrateAndSeed(context.Background()))
	h := a.HTTPHandler()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/ofertas", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var list []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list, len(ofertasIniciales))
	assert.Equal(t, "JM003", list[0]["codigo"])

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/auth/google/login", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSetupLogging(t *testing.T) {
	prev, prevLvl := zlog.Logger, zerolog.GlobalLevel()
	t.Cleanup(func() {
		zlog.Logger = prev
		zerolog.SetGlobalLevel(prevLvl)
	})

	var buf bytes.Buffer
	setupLogging(&config.Config{Env: "production", LogLevel: "warn"}, &buf)
	zlog.Info().Msg("oculto")
	zlog.Warn().Str("k", "v").Msg("visible")

	var line map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &line))
	assert.Equal(t, "visible", line["message"])
	assert.Equal(t, "junimo", line["app"])
	assert.Equal(t, "warn", line["level"])

	setupLogging(&config.Config{Env: "development", LogLevel: "nada"}, &buf)
	assert.Equal(t, zerolog.InfoLevel, zerolog.GlobalLevel())
}
