package postgres

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/phenrril/junimo/internal/domain"
)

// Migrate renombra la tabla heredada admin_ordenes y aplica AutoMigrate.
func Migrate(db *gorm.DB) error {
	m := db.Migrator()
	if m.HasTable("admin_ordenes") && !m.HasTable("ordenes") {
		if err := m.RenameTable("admin_ordenes", "ordenes"); err != nil {
			return fmt.Errorf("renombrar admin_ordenes: %w", err)
		}
		log.Info().Msg("tabla admin_ordenes renombrada a ordenes")
	}
	return db.AutoMigrate(
		&domain.Producto{},
		&domain.Oferta{},
		&domain.Usuario{},
		&domain.Orden{},
		&domain.OrdenItem{},
		&domain.CartItem{},
		&domain.BlogPost{},
	)
}
