package logging

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/lmittmann/tint"

	"go-firewatch/internal/config"
)

// New builds the process logger. Records go to the configured log file (tint in dev,
// JSON in prod) and, when buf is non-nil, to buf for on-screen display.
func New(cfg config.Config, version string, buf *Buffer) (*slog.Logger, io.Closer, error) {
	f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file %q: %w", cfg.LogFile, err)
	}

	var file slog.Handler
	if cfg.AppEnv == "dev" {
		file = tint.NewHandler(f, &tint.Options{
			Level:      cfg.LogLevel,
			AddSource:  true,
			TimeFormat: time.Kitchen,
			NoColor:    true,
		})
	} else {
		file = slog.NewJSONHandler(f, &slog.HandlerOptions{Level: cfg.LogLevel})
	}

	h := file
	if buf != nil {
		h = fanout{file, NewBufferHandler(buf, cfg.LogLevel)}
	}

	logger := slog.New(h).With("app", "firewatch")
	if cfg.AppEnv != "dev" {
		logger = logger.With("version", version, "env", cfg.AppEnv)
	}
	return logger, f, nil
}

// NewBufferHandler renders short colored lines into buf.
func NewBufferHandler(buf *Buffer, level slog.Leveler) slog.Handler {
	return tint.NewHandler(buf, &tint.Options{
		Level:      level,
		TimeFormat: "15:04:05",
	})
}

// Tee returns a logger that writes to base and also renders into buf. Each
// interactive session gets its own buf so its log view shows only its records.
func Tee(base *slog.Logger, buf *Buffer, level slog.Leveler) *slog.Logger {
	return slog.New(fanout{base.Handler(), NewBufferHandler(buf, level)})
}

// Discard returns a logger that drops everything; used by tests and headless commands.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fanout []slog.Handler

func (f fanout) Enabled(ctx context.Context, l slog.Level) bool {
	for _, h := range f {
		if h.Enabled(ctx, l) {
			return true
		}
	}
	return false
}

func (f fanout) Handle(ctx context.Context, r slog.Record) error {
	var errs []error
	for _, h := range f {
		if h.Enabled(ctx, r.Level) {
			errs = append(errs, h.Handle(ctx, r.Clone()))
		}
	}
	return errors.Join(errs...)
}

func (f fanout) WithAttrs(attrs []slog.Attr) slog.Handler {
	out := make(fanout, len(f))
	for i, h := range f {
		out[i] = h.WithAttrs(attrs)
	}
	return out
}

func (f fanout) WithGroup(name string) slog.Handler {
	out := make(fanout, len(f))
	for i, h := range f {
		out[i] = h.WithGroup(name)
	}
	return out
}
