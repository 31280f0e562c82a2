// Package logging builds the hclog loggers used by the texsurf command.
package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/hashicorp/go-hclog"
)

// Environment variables read by the command.
const (
	EnvLogLevel = "TEXSURF_LOG_LEVEL"
	EnvJSONLog  = "TEXSURF_JSON_LOG"
)

// NewLogger creates an hclog logger writing to output (stderr when nil).
func NewLogger(name, level string, output io.Writer) hclog.Logger {
	if output == nil {
		output = os.Stderr
	}

	return hclog.New(&hclog.LoggerOptions{
		Name:       name,
		Level:      hclog.LevelFromString(level),
		JSONFormat: os.Getenv(EnvJSONLog) == "1",
		Output:     output,
		TimeFormat: "2006-01-02T15:04:05Z",
		TimeFn: func() time.Time {
			return time.Now().UTC()
		},
	})
}

// GetLogLevel returns flagLevel, else the level from the environment, else
// "warn".
func GetLogLevel(flagLevel string) string {
	if flagLevel != "" {
		return flagLevel
	}
	if level := os.Getenv(EnvLogLevel); level != "" {
		return level
	}

	return "warn"
}

// SlogHandler forwards slog records to an hclog logger so library output
// shares the command's format and level.
type SlogHandler struct {
	logger hclog.Logger
	attrs  []any
}

// NewSlogHandler wraps logger.
func NewSlogHandler(logger hclog.Logger) *SlogHandler {
	return &SlogHandler{logger: logger}
}

// Enabled implements slog.Handler.
func (h *SlogHandler) Enabled(_ context.Context, level slog.Level) bool {
	switch {
	case level >= slog.LevelError:
		return h.logger.IsError()
	case level >= slog.LevelWarn:
		return h.logger.IsWarn()
	case level >= slog.LevelInfo:
		return h.logger.IsInfo()
	default:
		return h.logger.IsDebug()
	}
}

// Handle implements slog.Handler.
func (h *SlogHandler) Handle(_ context.Context, r slog.Record) error {
	args := make([]any, 0, len(h.attrs)+2*r.NumAttrs())
	args = append(args, h.attrs...)
	r.Attrs(func(a slog.Attr) bool {
		args = append(args, a.Key, a.Value.Any())
		return true
	})

	switch {
	case r.Level >= slog.LevelError:
		h.logger.Error(r.Message, args...)
	case r.Level >= slog.LevelWarn:
		h.logger.Warn(r.Message, args...)
	case r.Level >= slog.LevelInfo:
		h.logger.Info(r.Message, args...)
	default:
		h.logger.Debug(r.Message, args...)
	}

	return nil
}

// WithAttrs implements slog.Handler.
func (h *SlogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := &SlogHandler{logger: h.logger, attrs: append([]any{}, h.attrs...)}
	for _, a := range attrs {
		next.attrs = append(next.attrs, a.Key, a.Value.Any())
	}

	return next
}

// WithGroup implements slog.Handler.
func (h *SlogHandler) WithGroup(name string) slog.Handler {
	return &SlogHandler{logger: h.logger.Named(name), attrs: h.attrs}
}
