// Package config lee la configuración desde variables de entorno y .env.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

type Config struct {
	Port     string
	Env      string
	LogLevel string
	BaseURL  string
	Seed     bool

	DBDriver   string
	DSN        string
	SQLitePath string

	JWTSecret  string
	SessionTTL time.Duration

	CartStore     string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	CartTTL       time.Duration

	Storage    string
	StorageDir string
	S3         S3Config

	PayPal    PayPalConfig
	CardDelay time.Duration

	DescuentoDuocPct int
	EnvioGratisDesde decimal.Decimal
	CostoEnvio       decimal.Decimal

	GoogleClientID     string
	GoogleClientSecret string

	AdminRun      string
	AdminEmail    string
	AdminPassword string
}

type S3Config struct {
	Bucket    string
	Region    string
	Endpoint  string
	AccessKey string
	SecretKey string
	PublicURL string
}

type PayPalConfig struct {
	ClientID  string
	Secret    string
	Mode      string
	CLPPorUSD decimal.Decimal
}

func (c *Config) Production() bool {
	e := strings.ToLower(c.Env)
	return e == "production" || e == "prod"
}

// Load intenta leer .env y luego arma Config desde el entorno.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return FromEnv()
}

func FromEnv() (*Config, error) {
	c := &Config{
		Port:     env("PORT", "8080"),
		Env:      env("APP_ENV", "development"),
		LogLevel: env("LOG_LEVEL", "info"),
		BaseURL:  strings.TrimRight(env("BASE_URL", "http://localhost:8080"), "/"),

		DBDriver:   strings.ToLower(env("DB_DRIVER", "postgres")),
		SQLitePath: env("SQLITE_PATH", "junimo.db"),

		JWTSecret: os.Getenv("JWT_SECRET"),

		CartStore:     strings.ToLower(env("CART_STORE", "sql")),
		RedisAddr:     env("REDIS_ADDR", "localhost:6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),

		Storage:    strings.ToLower(env("STORAGE", "local")),
		StorageDir: env("STORAGE_DIR", "uploads"),
		S3: S3Config{
			Bucket:    os.Getenv("S3_BUCKET"),
			Region:    env("S3_REGION", "us-east-1"),
			Endpoint:  os.Getenv("S3_ENDPOINT"),
			AccessKey: os.Getenv("S3_ACCESS_KEY"),
			SecretKey: os.Getenv("S3_SECRET_KEY"),
			PublicURL: os.Getenv("S3_PUBLIC_URL"),
		},

		PayPal: PayPalConfig{
			ClientID: os.Getenv("PAYPAL_CLIENT_ID"),
			Secret:   os.Getenv("PAYPAL_SECRET"),
			Mode:     strings.ToLower(env("PAYPAL_MODE", "sandbox")),
		},

		GoogleClientID:     os.Getenv("GOOGLE_CLIENT_ID"),
		GoogleClientSecret: os.Getenv("GOOGLE_CLIENT_SECRET"),

		AdminRun:      env("ADMIN_RUN", "11111111-1"),
		AdminEmail:    env("ADMIN_EMAIL", "admin@duoc.cl"),
		AdminPassword: env("ADMIN_PASSWORD", "admin123"),
	}
	c.DSN = dsn()

	var err error
	if c.Seed, err = boolEnv("SEED", true); err != nil {
		return nil, err
	}
	if c.SessionTTL, err = durationEnv("SESSION_TTL", 24*time.Hour); err != nil {
		return nil, err
	}
	if c.CartTTL, err = durationEnv("CART_TTL", 7*24*time.Hour); err != nil {
		return nil, err
	}
	if c.CardDelay, err = durationEnv("CARD_DELAY", 1500*time.Millisecond); err != nil {
		return nil, err
	}
	if c.RedisDB, err = intEnv("REDIS_DB", 0); err != nil {
		return nil, err
	}
	if c.DescuentoDuocPct, err = intEnv("DUOC_DISCOUNT_PCT", 20); err != nil {
		return nil, err
	}
	if c.DescuentoDuocPct < 0 || c.DescuentoDuocPct > 100 {
		return nil, fmt.Errorf("DUOC_DISCOUNT_PCT fuera de rango: %d", c.DescuentoDuocPct)
	}
	if c.EnvioGratisDesde, err = decimalEnv("FREE_SHIPPING_FROM", 50000); err != nil {
		return nil, err
	}
	if c.CostoEnvio, err = decimalEnv("SHIPPING_COST", 3990); err != nil {
		return nil, err
	}
	if c.PayPal.CLPPorUSD, err = decimalEnv("PAYPAL_CLP_USD", 950); err != nil {
		return nil, err
	}
	if !c.PayPal.CLPPorUSD.IsPositive() {
		return nil, fmt.Errorf("PAYPAL_CLP_USD debe ser positivo")
	}

	switch c.DBDriver {
	case "postgres", "sqlite":
	default:
		return nil, fmt.Errorf("DB_DRIVER desconocido: %q", c.DBDriver)
	}
	switch c.CartStore {
	case "sql", "redis":
	default:
		return nil, fmt.Errorf("CART_STORE desconocido: %q", c.CartStore)
	}
	switch c.Storage {
	case "local":
	case "s3":
		if c.S3.Bucket == "" {
			return nil, fmt.Errorf("STORAGE=s3 requiere S3_BUCKET")
		}
	default:
		return nil, fmt.Errorf("STORAGE desconocido: %q", c.Storage)
	}
	if c.JWTSecret == "" {
		if c.Production() {
			return nil, fmt.Errorf("JWT_SECRET es obligatorio en producción")
		}
		c.JWTSecret = "junimo-dev-secret"
	}
	return c, nil
}

// dsn usa DB_DSN o lo arma con DB_HOST, DB_PORT, DB_USER, DB_PASSWORD, DB_NAME y DB_SSLMODE.
func dsn() string {
	if d := strings.TrimSpace(os.Getenv("DB_DSN")); d != "" {
		return d
	}
	host := env("DB_HOST", "localhost")
	port := env("DB_PORT", "5432")
	user := first(os.Getenv("DB_USER"), os.Getenv("POSTGRES_USER"), "postgres")
	pass := first(os.Getenv("DB_PASSWORD"), os.Getenv("POSTGRES_PASSWORD"), "postgres")
	name := first(os.Getenv("DB_NAME"), os.Getenv("POSTGRES_DB"), "junimo")
	ssl := env("DB_SSLMODE", "disable")
	return "host=" + host + " user=" + user + " password=" + pass + " dbname=" + name + " port=" + port + " sslmode=" + ssl
}

func env(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func first(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

func intEnv(key string, def int) (int, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

func boolEnv(key string, def bool) (bool, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%s: %w", key, err)
	}
	return b, nil
}

func durationEnv(key string, def time.Duration) (time.Duration, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}

func decimalEnv(key string, def int64) (decimal.Decimal, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return decimal.NewFromInt(def), nil
	}
	d, err := decimal.NewFromString(v)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}
