package app

import (
	"fmt"
	"strings"
	"time"

	pgdriver "gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/phenrril/junimo/internal/config"
)

// OpenDB abre Postgres o, con DB_DRIVER=sqlite, un archivo local.
func OpenDB(cfg *config.Config) (*gorm.DB, error) {
	gcfg := &gorm.Config{Logger: logger.Default.LogMode(logger.Warn)}
	var (
		db  *gorm.DB
		err error
	)
	switch cfg.DBDriver {
	case "sqlite":
		dsn := cfg.SQLitePath
		if !strings.Contains(dsn, "?") {
			dsn += "?_busy_timeout=5000"
		}
		db, err = gorm.Open(sqlite.Open(dsn), gcfg)
		if err != nil {
			return nil, fmt.Errorf("abrir sqlite %s: %w", cfg.SQLitePath, err)
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		// un solo escritor; evita "database is locked"
		sqlDB.SetMaxOpenConns(1)
	default:
		db, err = gorm.Open(pgdriver.Open(cfg.DSN), gcfg)
		if err != nil {
			return nil, fmt.Errorf("conectar a postgres: %w", err)
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(20)
		sqlDB.SetMaxIdleConns(5)
		sqlDB.SetConnMaxLifetime(30 * time.Minute)
	}
	return db, nil
}
