// Package logger builds the slog loggers used by unmail drivers and tools.
//
// Loggers write JSON to stdout (or any writer) and enrich every record with
// values carried in the context. Drivers stamp each send with a send ID and
// the driver type, so all records of one send can be correlated:
//
//	log := logger.New(logger.WithExtractors(logger.DefaultExtractors()...))
//
//	ctx = logger.WithSendID(ctx, "0b8c...")
//	ctx = logger.WithDriver(ctx, "sendgrid")
//	log.InfoContext(ctx, "mail sent", slog.Int("code", 202))
//	// {"level":"INFO","msg":"mail sent","code":202,"send_id":"0b8c...","driver":"sendgrid"}
//
// # Sentry
//
// NewWithSentry additionally forwards warnings and errors to Sentry. With an
// empty DSN it falls back to stdout only, so the same code path works locally.
//
// # Silence
//
// NewNope returns a logger that discards everything. It is the default for
// drivers and the facade when no logger is configured.
package logger
