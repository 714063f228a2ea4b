package logger

import (
	"context"
	"log/slog"
)

// ContextExtractor extracts a slog attribute from context.
type ContextExtractor func(ctx context.Context) (slog.Attr, bool)

type ctxKey int

const (
	sendIDKey ctxKey = iota
	driverKey
)

// WithSendID returns a context carrying the ID of the current send.
func WithSendID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, sendIDKey, id)
}

// SendID returns the send ID stored in ctx, if any.
func SendID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(sendIDKey).(string)
	return id, ok && id != ""
}

// WithDriver returns a context carrying the type of the driver handling the send.
func WithDriver(ctx context.Context, driver string) context.Context {
	return context.WithValue(ctx, driverKey, driver)
}

// SendIDExtractor adds "send_id" to records logged within a send.
func SendIDExtractor(ctx context.Context) (slog.Attr, bool) {
	if id, ok := SendID(ctx); ok {
		return slog.String("send_id", id), true
	}
	return slog.Attr{}, false
}

// DriverExtractor adds "driver" to records logged within a send.
func DriverExtractor(ctx context.Context) (slog.Attr, bool) {
	if d, ok := ctx.Value(driverKey).(string); ok && d != "" {
		return slog.String("driver", d), true
	}
	return slog.Attr{}, false
}

// DefaultExtractors returns the extractors for the values drivers put in context.
func DefaultExtractors() []ContextExtractor {
	return []ContextExtractor{SendIDExtractor, DriverExtractor}
}
