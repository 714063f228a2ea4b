package driver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/unproducts/unmail/pkg/logger"
	"github.com/unproducts/unmail/pkg/mail"
)

// Adapter is the vendor-specific half of a driver.
type Adapter interface {
	// Type returns the driver identifier (e.g., "sendgrid").
	Type() string

	// SendMail translates req into a vendor call and normalizes the outcome.
	// It may assume req already passed mail.Validate.
	SendMail(ctx context.Context, req *mail.SendMailRequest) (*mail.SendMailResponse, error)

	// SetPayloadModifier installs the modifier applied before transmission.
	SetPayloadModifier(fn PayloadModifier)
}

// Initializer is implemented by adapters that need a setup step before the
// first send.
type Initializer interface {
	Init(ctx context.Context) error
}

// Driver wraps an Adapter with the base validation and send logging.
type Driver struct {
	adapter Adapter
	logger  *slog.Logger
	options any
}

// Type returns the driver identifier.
func (d *Driver) Type() string {
	return d.adapter.Type()
}

// Options returns the vendor configuration the driver was built with.
func (d *Driver) Options() any {
	return d.options
}

// Init runs the adapter's setup step, if it has one.
func (d *Driver) Init(ctx context.Context) error {
	if i, ok := d.adapter.(Initializer); ok {
		return i.Init(ctx)
	}
	return nil
}

// SetPayloadModifier installs fn as the driver's payload modifier.
func (d *Driver) SetPayloadModifier(fn PayloadModifier) {
	d.adapter.SetPayloadModifier(fn)
}

// SendMail validates req and hands it to the adapter.
// Validation and processing failures are returned as errors; vendor and
// transport failures come back as a response with Success set to false.
func (d *Driver) SendMail(ctx context.Context, req *mail.SendMailRequest) (*mail.SendMailResponse, error) {
	if _, ok := logger.SendID(ctx); !ok {
		ctx = logger.WithSendID(ctx, uuid.NewString())
	}
	ctx = logger.WithDriver(ctx, d.Type())

	if err := mail.Validate(req, d.Type()); err != nil {
		d.logger.DebugContext(ctx, "mail rejected", slog.String("error", err.Error()))
		return nil, err
	}

	resp, err := d.adapter.SendMail(ctx, req)
	switch {
	case err != nil:
		d.logger.ErrorContext(ctx, "mail not processed", slog.String("error", err.Error()))
	case resp == nil:
		err = mail.NewProcessingError(d.Type(), "driver returned no response")
		d.logger.ErrorContext(ctx, "mail not processed", slog.String("error", err.Error()))
	case resp.Success:
		d.logger.InfoContext(ctx, "mail sent", slog.Int("code", resp.Code))
	default:
		d.logger.WarnContext(ctx, "mail send failed",
			slog.Int("code", resp.Code),
			slog.String("message", resp.Message),
		)
	}
	return resp, err
}

var configValidator = validator.New(validator.WithRequiredStructEnabled())

// Define turns a vendor constructor into a driver factory.
// The factory validates cfg, applies options and wraps the adapter so that
// every SendMail goes through mail.Validate first.
func Define[C any](build func(cfg C, o Options) (Adapter, error)) func(C, ...Option) (*Driver, error) {
	return func(cfg C, opts ...Option) (*Driver, error) {
		if err := validateConfig(cfg); err != nil {
			return nil, err
		}

		o := Options{Logger: logger.NewNope()}
		for _, opt := range opts {
			opt(&o)
		}

		adapter, err := build(cfg, o)
		if err != nil {
			return nil, err
		}

		return &Driver{adapter: adapter, logger: o.Logger, options: cfg}, nil
	}
}

func validateConfig(cfg any) error {
	err := configValidator.Struct(cfg)
	if err == nil {
		return nil
	}

	var invalid *validator.InvalidValidationError
	if errors.As(err, &invalid) {
		// Not a struct; nothing to check.
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return errors.Join(ErrInvalidConfig, err)
	}

	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fmt.Sprintf("%s (%s)", fe.Field(), fe.Tag()))
	}
	return errors.Join(ErrInvalidConfig, fmt.Errorf("invalid fields: %s", strings.Join(fields, ", ")))
}
