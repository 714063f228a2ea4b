package unmail

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/unproducts/unmail/pkg/driver"
	"github.com/unproducts/unmail/pkg/logger"
	"github.com/unproducts/unmail/pkg/mail"
)

// ErrNoDriver is returned by Make when no driver is given.
var ErrNoDriver = errors.New("unmail: driver is required")

// Unmail is the single entry point wrapping one driver.
type Unmail struct {
	driver *driver.Driver
	logger *slog.Logger
}

// Make wraps d and runs its initialization step.
// Initialization happens here and nowhere else, so a driver should be
// handed to Make only once.
func Make(ctx context.Context, d *driver.Driver, opts ...Option) (*Unmail, error) {
	if d == nil {
		return nil, ErrNoDriver
	}

	u := &Unmail{
		driver: d,
		logger: logger.NewNope(),
	}
	for _, opt := range opts {
		opt(u)
	}

	if err := d.Init(ctx); err != nil {
		return nil, fmt.Errorf("unmail: init %s driver: %w", d.Type(), err)
	}

	u.logger.InfoContext(ctx, "unmail initialized", slog.String("driver", d.Type()))

	return u, nil
}

// SendMail delegates to the wrapped driver without touching req or the response.
func (u *Unmail) SendMail(ctx context.Context, req *mail.SendMailRequest) (*mail.SendMailResponse, error) {
	return u.driver.SendMail(ctx, req)
}

// Driver returns the wrapped driver.
func (u *Unmail) Driver() *driver.Driver {
	return u.driver
}
