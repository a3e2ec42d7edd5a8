package gameconfig

import (
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// LogConfig selects the level and output format of the global logger.
type LogConfig struct {
	Level  string
	Format string // "console" or "json"
}

// NewLogConfigFromEnv reads GUESSWORD_LOG_* environment variables (with defaults).
func NewLogConfigFromEnv() LogConfig {
	return LogConfig{
		Level:  getEnv("GUESSWORD_LOG_LEVEL", "info"),
		Format: getEnv("GUESSWORD_LOG_FORMAT", "console"),
	}
}

// Setup points the global zerolog logger at out. An unknown level falls
// back to info and is reported once the logger is ready.
func (c LogConfig) Setup(out io.Writer) {
	if out == nil {
		out = os.Stderr
	}

	if c.Format == "json" {
		log.Logger = zerolog.New(out).With().Timestamp().Logger()
	} else {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: out})
	}

	level, err := zerolog.ParseLevel(c.Level)
	if err != nil || level == zerolog.NoLevel {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
		log.Warn().Str("level", c.Level).Msg("unknown log level, using info")
		return
	}
	zerolog.SetGlobalLevel(level)
}
