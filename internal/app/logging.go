package app

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"

	"github.com/phenrril/junimo/internal/config"
)

// SetupLogging deja el logger global en consola legible para desarrollo y en
// JSON para producción.
func SetupLogging(cfg *config.Config) {
	setupLogging(cfg, os.Stdout)
}

func setupLogging(cfg *config.Config, out io.Writer) {
	zerolog.TimeFieldFormat = time.RFC3339
	lvl, err := zerolog.ParseLevel(strings.ToLower(cfg.LogLevel))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
	if cfg.Production() {
		zlog.Logger = zerolog.New(out).With().Timestamp().Str("app", "junimo").Logger()
		return
	}
	zlog.Logger = zlog.Output(zerolog.ConsoleWriter{Out: out, TimeFormat: time.Kitchen})
}
