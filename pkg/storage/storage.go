package storage

import (
	"context"
	"errors"
	"time"
)

// Storage is the subset of object storage the mail drivers rely on.
type Storage interface {
	// Put uploads data and returns where it was stored.
	Put(ctx context.Context, data []byte, opts ...Option) (*FileInfo, error)

	// Delete removes a stored object.
	Delete(ctx context.Context, key string) error

	// URL returns an address a vendor can fetch the object from.
	URL(ctx context.Context, key string, opts ...URLOption) (string, error)
}

// Config holds S3-compatible storage configuration.
type Config struct {
	Bucket    string `env:"STORAGE_BUCKET"`
	AccessKey string `env:"STORAGE_ACCESS_KEY"`
	SecretKey string `env:"STORAGE_SECRET_KEY"`

	// Endpoint points at MinIO or another S3-compatible service.
	Endpoint string `env:"STORAGE_ENDPOINT"`
	Region   string `env:"STORAGE_REGION" envDefault:"us-east-1"`

	// PublicURL is a CDN prefix used instead of the bucket URL for public objects.
	PublicURL string `env:"STORAGE_PUBLIC_URL"`

	// Prefix is prepended to every generated key.
	Prefix     string `env:"STORAGE_PREFIX" envDefault:"attachments"`
	DefaultACL ACL    `env:"STORAGE_DEFAULT_ACL" envDefault:"public-read"`
	PathStyle  bool   `env:"STORAGE_PATH_STYLE"`
}

// Enabled reports whether enough is configured to build a store.
func (c Config) Enabled() bool {
	return c.Bucket != ""
}

// FileInfo describes an uploaded object.
type FileInfo struct {
	Key         string
	ContentType string
	ACL         ACL
	Size        int64
}

// ACL is the canned access level of an object.
type ACL string

const (
	ACLPrivate    ACL = "private"
	ACLPublicRead ACL = "public-read"
)

const (
	DefaultRegion    = "us-east-1"
	DefaultPrefix    = "attachments"
	DefaultURLExpiry = 15 * time.Minute
)

func (c *Config) applyDefaults() {
	if c.Region == "" {
		c.Region = DefaultRegion
	}
	if c.Prefix == "" {
		c.Prefix = DefaultPrefix
	}
	if c.DefaultACL == "" {
		c.DefaultACL = ACLPublicRead
	}
}

func (c *Config) validate() error {
	var errs []error
	if c.Bucket == "" {
		errs = append(errs, errors.New("bucket is required"))
	}
	if c.AccessKey == "" {
		errs = append(errs, errors.New("access key is required"))
	}
	if c.SecretKey == "" {
		errs = append(errs, errors.New("secret key is required"))
	}
	switch c.DefaultACL {
	case ACLPrivate, ACLPublicRead:
	default:
		errs = append(errs, errors.New("unknown default acl "+string(c.DefaultACL)))
	}
	if len(errs) > 0 {
		return errors.Join(append([]error{ErrInvalidConfig}, errs...)...)
	}
	return nil
}

// Option configures a Put call.
type Option func(*putOptions)

type putOptions struct {
	filename    string
	contentType string
	acl         ACL
}

// WithFilename keeps the original file name as the last key segment.
func WithFilename(name string) Option {
	return func(o *putOptions) {
		o.filename = name
	}
}

// WithContentType overrides MIME detection.
func WithContentType(ct string) Option {
	return func(o *putOptions) {
		o.contentType = ct
	}
}

// WithACL overrides Config.DefaultACL for one upload.
func WithACL(acl ACL) Option {
	return func(o *putOptions) {
		o.acl = acl
	}
}

// URLOption configures URL generation.
type URLOption func(*urlOptions)

type urlOptions struct {
	expiry time.Duration
	public bool
}

// WithExpiry sets the lifetime of a presigned URL.
func WithExpiry(d time.Duration) URLOption {
	return func(o *urlOptions) {
		if d > 0 {
			o.expiry = d
		}
	}
}

// WithPublic returns the unsigned public URL.
func WithPublic() URLOption {
	return func(o *urlOptions) {
		o.public = true
	}
}
