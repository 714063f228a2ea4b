package driver

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/unproducts/unmail/pkg/mail"
	"github.com/unproducts/unmail/pkg/transport"
)

// Externaliser uploads attachment content somewhere a vendor can fetch it
// and returns the public URL.
type Externaliser interface {
	Externalise(ctx context.Context, a mail.Attachment) (string, error)
}

// Options holds the settings shared by all drivers.
type Options struct {
	Client       transport.Client
	HTTPClient   *http.Client
	Logger       *slog.Logger
	Externaliser Externaliser
	BaseURL      string
}

// Option configures a driver at construction.
type Option func(*Options)

// WithClient replaces the vendor transport entirely.
// Base URL and authentication options are then up to the supplied client.
func WithClient(c transport.Client) Option {
	return func(o *Options) {
		o.Client = c
	}
}

// WithHTTPClient sets the *http.Client used by the default transport.
func WithHTTPClient(c *http.Client) Option {
	return func(o *Options) {
		o.HTTPClient = c
	}
}

// WithBaseURL overrides the vendor API base URL.
func WithBaseURL(url string) Option {
	return func(o *Options) {
		o.BaseURL = url
	}
}

// WithExternaliser sets the uploader used by drivers that turn inline
// attachments into hosted ones.
func WithExternaliser(e Externaliser) Option {
	return func(o *Options) {
		o.Externaliser = e
	}
}

// WithLogger sets the logger used for send outcomes.
func WithLogger(l *slog.Logger) Option {
	return func(o *Options) {
		if l != nil {
			o.Logger = l
		}
	}
}

// Transport returns the configured client, or a transport.HTTPClient bound to
// the vendor base URL with the given auth options.
func (o Options) Transport(defaultBaseURL string, auth ...transport.Option) transport.Client {
	if o.Client != nil {
		return o.Client
	}

	base := defaultBaseURL
	if o.BaseURL != "" {
		base = o.BaseURL
	}

	opts := make([]transport.Option, 0, len(auth)+1)
	opts = append(opts, transport.WithHTTPClient(o.HTTPClient))
	opts = append(opts, auth...)
	return transport.New(base, opts...)
}
