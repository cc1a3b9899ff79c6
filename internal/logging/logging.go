// Package logging configures the process wide zerolog logger.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/chrisdamba/webdiner/internal/models"
)

// New builds a logger writing to w in the configured format.
func New(cfg models.LogConfig, w io.Writer) (zerolog.Logger, error) {
	level, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(cfg.Level)))
	if err != nil {
		return zerolog.Nop(), fmt.Errorf("log level %q: %w", cfg.Level, err)
	}
	if level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	out := w
	if cfg.Format != "json" {
		out = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}
	return zerolog.New(out).Level(level).With().Timestamp().Str("service", "webdiner").Logger(), nil
}

// Setup installs the configured logger as the global zerolog logger and
// returns it.
func Setup(cfg models.LogConfig) (zerolog.Logger, error) {
	zerolog.TimeFieldFormat = time.RFC3339
	logger, err := New(cfg, os.Stderr)
	if err != nil {
		return logger, err
	}
	log.Logger = logger
	zerolog.SetGlobalLevel(logger.GetLevel())
	return logger, nil
}
