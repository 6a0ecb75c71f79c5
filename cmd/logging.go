package cmd

import (
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// setupLogging points the global logger at w. debug wins over level; an
// empty or unknown level means info.
func setupLogging(w io.Writer, debug bool, level string) {
	lvl := zerolog.InfoLevel
	if parsed, err := zerolog.ParseLevel(strings.TrimSpace(level)); err == nil && parsed != zerolog.NoLevel {
		lvl = parsed
	}
	if debug {
		lvl = zerolog.DebugLevel
	}

	zerolog.SetGlobalLevel(lvl)
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}).
		With().
		Timestamp().
		Logger()
}
