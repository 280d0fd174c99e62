// Package logging builds the zerolog logger shared by the harness and the
// engine, and routes gnark's internal logger through it.
package logging

import (
	"io"
	"os"
	"time"

	gnarklogger "github.com/consensys/gnark/logger"
	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"

	"zkl-file-verify/pkg/config"
)

// New returns a logger writing to the console, a rotating file, or both.
func New(cfg config.LogConfig) (zerolog.Logger, error) {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		return zerolog.Nop(), err
	}
	if level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	var writers []io.Writer
	if cfg.ToConsole {
		writers = append(writers, zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
	if cfg.FilePath != "" {
		writers = append(writers, &lumberjack.Logger{
			Filename:   cfg.FilePath,
			MaxSize:    cfg.MaxSize,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAge,
			Compress:   cfg.Compress,
		})
	}

	var out io.Writer
	switch len(writers) {
	case 0:
		out = io.Discard
	case 1:
		out = writers[0]
	default:
		out = zerolog.MultiLevelWriter(writers...)
	}

	return zerolog.New(out).Level(level).With().Timestamp().Logger(), nil
}

// ConfigureGnark sends gnark's compile and prove logs to l at debug level and
// below; at info and above they are dropped.
func ConfigureGnark(l zerolog.Logger) {
	if l.GetLevel() > zerolog.DebugLevel {
		gnarklogger.Disable()
		return
	}
	gnarklogger.Set(l.With().Str("component", "gnark").Logger())
}
