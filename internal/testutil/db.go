// Package testutil arma dependencias compartidas por los tests.
package testutil

import (
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/phenrril/junimo/internal/adapters/repo/postgres"
	"github.com/phenrril/junimo/internal/auth"
	"github.com/phenrril/junimo/internal/domain"
)

// NewDB abre una SQLite en memoria ya migrada. Una sola conexión: cada
// conexión nueva a :memory: sería otra base vacía.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()
	auth.Cost = bcrypt.MinCost
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, postgres.Migrate(db))
	return db
}

// Productos deja un catálogo chico y conocido.
func Productos(t *testing.T, db *gorm.DB) []domain.Producto {
	t.Helper()
	list := []domain.Producto{
		{Codigo: "JM001", Nombre: "Peluche Junimo Verde", Descripcion: "Suave y abrazable", Categoria: "Peluches", Precio: domain.CLP(12990), Stock: 10, StockCritico: 3},
		{Codigo: "JM002", Nombre: "Taza Stardew Valley", Descripcion: "Cerámica 350ml", Categoria: "Tazas", Precio: domain.CLP(7990), Stock: 2, StockCritico: 3},
		{Codigo: "JM003", Nombre: "Peluche Junimo Morado", Categoria: "Peluches", Precio: domain.CLP(14990), Stock: 0},
		{Codigo: "JM004", Nombre: "Póster Granja", Categoria: "Decoración", Precio: domain.CLP(45000), Stock: 5},
	}
	require.NoError(t, db.Create(&list).Error)
	return list
}

// Usuario crea un usuario con la clave dada.
func Usuario(t *testing.T, db *gorm.DB, run, correo string, tipo domain.TipoUsuario, clave string) *domain.Usuario {
	t.Helper()
	hash, err := auth.HashPassword(clave)
	require.NoError(t, err)
	u := &domain.Usuario{
		Run:             run,
		Nombre:          "Ana",
		Apellidos:       "Pérez Soto",
		Correo:          correo,
		Direccion:       "Av. Siempre Viva 742",
		Region:          "Metropolitana de Santiago",
		Comuna:          "Santiago",
		Tipo:            tipo,
		ContrasenhaHash: hash,
	}
	require.NoError(t, db.Create(u).Error)
	return u
}
