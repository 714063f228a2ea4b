package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/unproducts/unmail/pkg/driver"
	"github.com/unproducts/unmail/pkg/driver/mailchimp"
	"github.com/unproducts/unmail/pkg/driver/mailersend"
	"github.com/unproducts/unmail/pkg/driver/mailjet"
	"github.com/unproducts/unmail/pkg/driver/mocker"
	"github.com/unproducts/unmail/pkg/driver/postmark"
	"github.com/unproducts/unmail/pkg/driver/resend"
	"github.com/unproducts/unmail/pkg/driver/sendgrid"
	"github.com/unproducts/unmail/pkg/logger"
	"github.com/unproducts/unmail/pkg/storage"
)

type config struct {
	Driver string `env:"UNMAIL_DRIVER" envDefault:"mocker"`

	SendGrid   sendgrid.Config
	Mailjet    mailjet.Config
	Postmark   postmark.Config
	Resend     resend.Config
	Mailchimp  mailchimp.Config
	MailerSend mailersend.Config
	Mocker     mocker.Config

	Storage storage.Config
	Sentry  logger.SentryConfig
}

// buildDriver constructs the driver named by cfg.Driver.
// Vendor configs are validated by the driver factories, so only the
// selected vendor needs credentials.
func buildDriver(cfg config, log *slog.Logger) (*driver.Driver, error) {
	opts := []driver.Option{driver.WithLogger(log)}

	switch cfg.Driver {
	case sendgrid.Type:
		return sendgrid.New(cfg.SendGrid, opts...)
	case mailjet.Type:
		return mailjet.New(cfg.Mailjet, opts...)
	case postmark.Type:
		return postmark.New(cfg.Postmark, opts...)
	case resend.Type:
		if cfg.Storage.Enabled() {
			store, err := storage.New(cfg.Storage)
			if err != nil {
				return nil, fmt.Errorf("attachment storage: %w", err)
			}
			opts = append(opts, driver.WithExternaliser(storage.NewExternaliser(store)))
		}
		return resend.New(cfg.Resend, opts...)
	case mailchimp.Type:
		return mailchimp.New(cfg.Mailchimp, opts...)
	case mailersend.Type:
		return mailersend.New(cfg.MailerSend, opts...)
	case mocker.Type:
		if cfg.Mocker.Preview == nil {
			cfg.Mocker.Preview = os.Stderr
		}
		return mocker.New(cfg.Mocker, opts...)
	default:
		return nil, fmt.Errorf("unknown driver %q", cfg.Driver)
	}
}
