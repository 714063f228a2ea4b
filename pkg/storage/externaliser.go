package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/unproducts/unmail/pkg/driver"
	"github.com/unproducts/unmail/pkg/mail"
)

// Externaliser uploads attachments to a Storage and hands back a fetchable URL.
type Externaliser struct {
	store  Storage
	acl    ACL
	expiry time.Duration
}

// ExternaliserOption configures an Externaliser.
type ExternaliserOption func(*Externaliser)

// WithSignedURLs uploads privately and returns presigned URLs valid for d.
// Vendors fetch attachments asynchronously, so d should cover their queue delay.
func WithSignedURLs(d time.Duration) ExternaliserOption {
	return func(e *Externaliser) {
		e.acl = ACLPrivate
		e.expiry = d
	}
}

// NewExternaliser wraps s. Uploads are public-read unless WithSignedURLs is used.
func NewExternaliser(s Storage, opts ...ExternaliserOption) *Externaliser {
	e := &Externaliser{store: s, acl: ACLPublicRead}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Externalise uploads a's content and returns its URL.
// Attachments that already carry a HostedPath are returned as is. An upload
// whose URL cannot be produced is deleted again.
func (e *Externaliser) Externalise(ctx context.Context, a mail.Attachment) (string, error) {
	if a.IsHosted() {
		return a.HostedPath, nil
	}

	info, err := e.store.Put(ctx, a.Content,
		WithFilename(a.Filename),
		WithContentType(a.ContentType),
		WithACL(e.acl),
	)
	if err != nil {
		return "", fmt.Errorf("externalise %q: %w", a.Filename, err)
	}

	opt := WithExpiry(e.expiry)
	if e.acl == ACLPublicRead {
		opt = WithPublic()
	}

	url, err := e.store.URL(ctx, info.Key, opt)
	if err != nil {
		if derr := e.store.Delete(ctx, info.Key); derr != nil {
			err = errors.Join(err, derr)
		}
		return "", fmt.Errorf("externalise %q: %w", a.Filename, err)
	}
	return url, nil
}

var _ driver.Externaliser = (*Externaliser)(nil)
