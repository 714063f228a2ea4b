package unmail

import "log/slog"

// Option configures the facade.
type Option func(*Unmail)

// WithLogger sets the facade logger.
// If nil, logging is disabled.
func WithLogger(l *slog.Logger) Option {
	return func(u *Unmail) {
		if l != nil {
			u.logger = l
		}
	}
}
