// junimo-import carga en la base un volcado JSON del almacenamiento local de
// la tienda antigua.
//
//	junimo-import -f volcado.json
//	junimo-import < volcado.json
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"

	zlog "github.com/rs/zerolog/log"

	"github.com/phenrril/junimo/internal/app"
	"github.com/phenrril/junimo/internal/config"
	"github.com/phenrril/junimo/internal/legacy"
)

func main() {
	file := flag.String("f", "-", "archivo con el volcado; - lee stdin")
	migrate := flag.Bool("migrate", true, "migrar el esquema antes de importar")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}
	cfg.Seed = false
	cfg.CartStore = "sql"
	app.SetupLogging(cfg)

	if err := run(cfg, *file, *migrate); err != nil {
		zlog.Fatal().Err(err).Msg("importación fallida")
	}
}

func run(cfg *config.Config, file string, migrate bool) error {
	var in io.Reader = os.Stdin
	if file != "-" {
		f, err := os.Open(file)
		if err != nil {
			return err
		}
		defer f.Close()
		in = f
	}
	dump, err := legacy.Parse(in)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	db, err := app.OpenDB(cfg)
	if err != nil {
		return err
	}
	a, err := app.NewApp(ctx, cfg, db)
	if err != nil {
		return err
	}
	defer a.Close()
	if migrate {
		if err := a.MigrateAndSeed(ctx); err != nil {
			return err
		}
	}
	rep, err := a.Legacy.Run(ctx, dump)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(rep)
}
