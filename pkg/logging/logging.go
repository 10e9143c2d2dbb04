// Package logging builds the structured loggers used across nibble.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/nibble-vm/nibble/pkg/config"
	slogmulti "github.com/samber/slog-multi"
	"github.com/spf13/afero"
)

// Logger wraps a slog.Logger together with the resources it writes to
type Logger struct {
	*slog.Logger
	closers []io.Closer
}

// Close releases the log file, if any
func (l *Logger) Close() error {
	for _, closer := range l.closers {
		if err := closer.Close(); err != nil {
			return err
		}
	}
	return nil
}

// Level returns the console log level for the given settings
func Level(cfg config.Config) slog.Level {
	if cfg.Verbose {
		return slog.LevelDebug
	}
	return slog.LevelInfo
}

// New creates a logger writing text to console and, if cfg.LogFile is set, JSON lines
// appended to that file
func New(cfg config.Config, console io.Writer, fs afero.Fs) (*Logger, error) {
	handlers := []slog.Handler{
		slog.NewTextHandler(console, &slog.HandlerOptions{Level: Level(cfg)}),
	}

	logger := &Logger{}

	if cfg.LogFile != "" {
		file, err := fs.OpenFile(cfg.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file '%v': %w", cfg.LogFile, err)
		}

		handlers = append(handlers, slog.NewJSONHandler(file, &slog.HandlerOptions{Level: slog.LevelDebug}))
		logger.closers = append(logger.closers, file)
	}

	logger.Logger = slog.New(slogmulti.Fanout(handlers...))
	return logger, nil
}

// Discard returns a logger dropping every record
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
