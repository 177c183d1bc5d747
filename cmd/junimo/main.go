package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	zlog "github.com/rs/zerolog/log"

	"github.com/phenrril/junimo/internal/app"
	"github.com/phenrril/junimo/internal/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}
	app.SetupLogging(cfg)

	db, err := app.OpenDB(cfg)
	if err != nil {
		zlog.Fatal().Err(err).Msg("failed to connect to database")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	application, err := app.NewApp(ctx, cfg, db)
	if err != nil {
		zlog.Fatal().Err(err).Msg("failed to create app")
	}
	defer application.Close()
	if err := application.MigrateAndSeed(ctx); err != nil {
		zlog.Fatal().Err(err).Msg("failed to migrate and seed database")
	}

	ln, err := net.Listen("tcp", ":"+cfg.Port)
	if err != nil {
		zlog.Fatal().Err(err).Str("port", cfg.Port).Msg("listen")
	}

	server := &http.Server{
		Handler:           application.HTTPHandler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		zlog.Info().Str("addr", ln.Addr().String()).Str("env", cfg.Env).Str("db", cfg.DBDriver).Msg("junimo escuchando")
		if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zlog.Error().Err(err).Msg("server")
			stop()
		}
	}()

	<-ctx.Done()
	zlog.Info().Msg("apagando")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		zlog.Error().Err(err).Msg("shutdown")
	}
}
