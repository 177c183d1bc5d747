package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/phenrril/junimo/internal/auth"
	"github.com/phenrril/junimo/internal/domain"
	"github.com/phenrril/junimo/internal/validate"
)

var catalogo = []domain.Producto{
	{Codigo: "JM001", Nombre: "Peluche Junimo Verde", Descripcion: "Peluche suave de 20 cm del Junimo clásico.", Categoria: "Peluches", Precio: domain.CLP(12990), Stock: 25, StockCritico: 5},
	{Codigo: "JM002", Nombre: "Peluche Junimo Morado", Descripcion: "Edición morada, ideal para coleccionistas.", Categoria: "Peluches", Precio: domain.CLP(14990), Stock: 12, StockCritico: 4},
	{Codigo: "JM003", Nombre: "Set de 6 Junimos", Descripcion: "Seis mini peluches de colores.", Categoria: "Peluches", Precio: domain.CLP(49990), Stock: 6, StockCritico: 2},
	{Codigo: "TZ001", Nombre: "Taza Stardew Valley", Descripcion: "Taza de cerámica de 350 ml.", Categoria: "Tazas", Precio: domain.CLP(7990), Stock: 40, StockCritico: 10},
	{Codigo: "TZ002", Nombre: "Taza Térmica Pelican Town", Descripcion: "Mantiene tu café caliente en la mina.", Categoria: "Tazas", Precio: domain.CLP(11990), Stock: 15, StockCritico: 5},
	{Codigo: "PS001", Nombre: "Póster Granja de Verano", Descripcion: "Impresión A3 en papel mate.", Categoria: "Decoración", Precio: domain.CLP(6990), Stock: 30, StockCritico: 5},
	{Codigo: "PS002", Nombre: "Cuadro Centro Comunitario", Descripcion: "Lienzo con marco de madera.", Categoria: "Decoración", Precio: domain.CLP(24990), Stock: 8, StockCritico: 3},
	{Codigo: "AC001", Nombre: "Llavero Fruta Estelar", Descripcion: "Llavero acrílico doble cara.", Categoria: "Accesorios", Precio: domain.CLP(3990), Stock: 60, StockCritico: 10},
	{Codigo: "AC002", Nombre: "Pin Gallina Azul", Descripcion: "Pin metálico esmaltado.", Categoria: "Accesorios", Precio: domain.CLP(2990), Stock: 3, StockCritico: 5},
	{Codigo: "RP001", Nombre: "Polerón Joja Cola", Descripcion: "Polerón unisex de algodón.", Categoria: "Ropa", Precio: domain.CLP(29990), Stock: 10, StockCritico: 3},
}

var ofertasIniciales = []domain.Oferta{
	{Codigo: "JM003", Descuento: 20, Activa: true},
	{Codigo: "TZ002", Descuento: 15, Activa: true},
}

var postsIniciales = []domain.BlogPost{
	{
		Slug:      "como-cuidar-tu-peluche-junimo",
		Titulo:    "Cómo cuidar tu peluche Junimo",
		Resumen:   "Lavado, secado y guardado para que dure muchas temporadas.",
		Contenido: "Lava a mano con agua fría y jabón neutro. Seca a la sombra y cepilla suavemente el pelaje.",
		Autor:     "Equipo Junimo",
	},
	{
		Slug:      "ideas-de-regalo-para-granjeros",
		Titulo:    "Ideas de regalo para granjeros",
		Resumen:   "Nuestra selección para fans de Stardew Valley.",
		Contenido: "Un set de Junimos, una taza térmica y un póster de la granja son apuestas seguras.",
		Autor:     "Equipo Junimo",
	},
}

// seed solo inserta lo que falta; puede correr en cada arranque.
func seed(ctx context.Context, a *App, now time.Time) error {
	n, err := a.ProductUC.Products.Count(ctx)
	if err != nil {
		return err
	}
	if n == 0 {
		for i := range catalogo {
			p := catalogo[i]
			if err := a.ProductUC.Products.Create(ctx, &p); err != nil {
				return fmt.Errorf("seed producto %s: %w", p.Codigo, err)
			}
		}
		for i := range ofertasIniciales {
			o := ofertasIniciales[i]
			if err := a.OfferUC.Offers.Save(ctx, &o); err != nil {
				return fmt.Errorf("seed oferta %s: %w", o.Codigo, err)
			}
		}
		log.Info().Int("productos", len(catalogo)).Msg("catálogo inicial cargado")
	}

	posts, err := a.BlogUC.Posts.List(ctx)
	if err != nil {
		return err
	}
	if len(posts) == 0 {
		for i := range postsIniciales {
			p := postsIniciales[i]
			p.PublicadoEn = now.Add(-time.Duration(i) * 24 * time.Hour)
			if err := a.BlogUC.Posts.Save(ctx, &p); err != nil {
				return fmt.Errorf("seed blog %s: %w", p.Slug, err)
			}
		}
	}
	return seedAdmin(ctx, a)
}

func seedAdmin(ctx context.Context, a *App) error {
	cfg := a.Config
	if cfg.AdminEmail == "" || cfg.AdminPassword == "" {
		return nil
	}
	_, err := a.UserUC.Users.FindByCorreo(ctx, cfg.AdminEmail)
	if err == nil {
		return nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return err
	}
	run, err := validate.NormalizeRUN(cfg.AdminRun)
	if err != nil {
		return fmt.Errorf("ADMIN_RUN: %w", err)
	}
	hash, err := auth.HashPassword(cfg.AdminPassword)
	if err != nil {
		return err
	}
	u := &domain.Usuario{
		Run:             run,
		Nombre:          "Administrador",
		Apellidos:       "Junimo",
		Correo:          cfg.AdminEmail,
		Direccion:       "Sin dirección",
		Region:          "Metropolitana de Santiago",
		Comuna:          "Santiago",
		Tipo:            domain.TipoAdmin,
		ContrasenhaHash: hash,
	}
	if err := a.UserUC.Users.Create(ctx, u); err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}
	if cfg.AdminPassword == "admin123" {
		log.Warn().Str("correo", u.Correo).Msg("admin creado con la clave por defecto; cámbiala")
	}
	return nil
}
