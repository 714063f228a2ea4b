package logger

import (
	"io"
	"log/slog"
	"os"
)

type options struct {
	writer     io.Writer
	extractors []ContextExtractor
	level      slog.Level
}

// Option configures New.
type Option func(*options)

// WithWriter sets the destination (default: stdout).
func WithWriter(w io.Writer) Option {
	return func(o *options) {
		if w != nil {
			o.writer = w
		}
	}
}

// WithLevel sets the minimum level (default: info).
func WithLevel(level slog.Level) Option {
	return func(o *options) {
		o.level = level
	}
}

// WithExtractors adds context extractors.
func WithExtractors(extractors ...ContextExtractor) Option {
	return func(o *options) {
		o.extractors = append(o.extractors, extractors...)
	}
}

// New creates a JSON logger.
func New(opts ...Option) *slog.Logger {
	o := options{writer: os.Stdout, level: slog.LevelInfo}
	for _, opt := range opts {
		opt(&o)
	}

	h := slog.NewJSONHandler(o.writer, &slog.HandlerOptions{Level: o.level})
	return slog.New(NewContextHandler(h, o.extractors...))
}

// NewNope creates a logger that discards all output.
func NewNope() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
