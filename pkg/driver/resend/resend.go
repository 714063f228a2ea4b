// Package resend implements the Resend email API driver.
//
// Resend has no template support and rejects inline attachments. With
// ExternaliseInlineAttachments set, inline attachments are sent as hosted
// files instead: an attachment that already has a HostedPath keeps it, other
// content is uploaded through the driver.Externaliser, which is then required.
//
//	d, err := resend.New(resend.Config{
//		APIKey:                       os.Getenv("RESEND_API_KEY"),
//		ExternaliseInlineAttachments: true,
//	}, driver.WithExternaliser(storage.NewExternaliser(store)))
package resend

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/resend/resend-go/v3"
	"github.com/samber/lo"

	"github.com/unproducts/unmail/pkg/driver"
	"github.com/unproducts/unmail/pkg/mail"
	"github.com/unproducts/unmail/pkg/transport"
)

const (
	// Type identifies the driver in logs and errors.
	Type = "resend"

	// BaseURL is the Resend API root.
	BaseURL = "https://api.resend.com"

	emailsPath = "/emails"
)

// Config holds Resend credentials and attachment handling.
type Config struct {
	APIKey                       string `env:"RESEND_API_KEY" validate:"required"`
	ExternaliseInlineAttachments bool   `env:"RESEND_EXTERNALISE_INLINE_ATTACHMENTS"`
}

type sender struct {
	driver.ModifierSlot
	client       transport.Client
	externaliser driver.Externaliser
	externalise  bool
}

var newDriver = driver.Define(func(cfg Config, o driver.Options) (driver.Adapter, error) {
	if cfg.ExternaliseInlineAttachments && o.Externaliser == nil {
		return nil, errors.Join(driver.ErrInvalidConfig,
			errors.New("ExternaliseInlineAttachments requires driver.WithExternaliser"))
	}
	return &sender{
		client:       o.Transport(BaseURL, transport.WithBearerToken(cfg.APIKey)),
		externaliser: o.Externaliser,
		externalise:  cfg.ExternaliseInlineAttachments,
	}, nil
})

// New creates a Resend driver.
func New(cfg Config, opts ...driver.Option) (*driver.Driver, error) {
	return newDriver(cfg, opts...)
}

func (s *sender) Type() string { return Type }

func (s *sender) SendMail(ctx context.Context, req *mail.SendMailRequest) (*mail.SendMailResponse, error) {
	if req.Text == "" && req.HTML == "" && req.TemplateID != "" {
		return nil, mail.NewProcessingError(Type, "resend doesnt support templates yet")
	}
	if !s.externalise && req.HasInlineAttachments() {
		return nil, mail.NewProcessingError(Type,
			"resend doesnt support inline attachments. If you want to automatically convert it to external, "+
				"set `ExternaliseInlineAttachments` to true in driver options.")
	}

	attachments, err := s.attachments(ctx, req.Attachments)
	if err != nil {
		return nil, err
	}

	email := &resend.SendEmailRequest{
		From:        req.From.String(),
		To:          identities(req.To),
		Cc:          identities(req.Cc),
		Bcc:         identities(req.Bcc),
		Subject:     req.Subject,
		Headers:     req.Headers,
		Attachments: attachments,
		Tags: lo.Map(req.Tags, func(t mail.Tag, _ int) resend.Tag {
			return resend.Tag{Name: t.Name, Value: t.Value}
		}),
	}
	if req.ReplyTo != nil {
		email.ReplyTo = req.ReplyTo.String()
	}
	if req.HTML != "" {
		email.Html = req.HTML
	} else {
		email.Text = req.Text
	}

	payload, err := s.BuildPayload(Type, email)
	if err != nil {
		return nil, err
	}

	resp, err := s.client.Post(ctx, emailsPath, payload)
	if err != nil {
		var body struct {
			Message string `json:"message"`
		}
		if driver.DecodeErrorBody(err, &body) && body.Message != "" {
			return driver.FailureResponse(err, body.Message, nil), nil
		}
		return driver.FailureResponse(err, driver.RawMessage(err), nil), nil
	}

	var sent resend.SendEmailResponse
	if json.Unmarshal(resp.Data, &sent) != nil || sent.Id == "" {
		return &mail.SendMailResponse{
			Success: false,
			Code:    resp.Status,
			Message: "No ID returned from Resend API",
		}, nil
	}
	return driver.Success(resp.Status, sent.Id), nil
}

func (s *sender) attachments(ctx context.Context, in []mail.Attachment) ([]*resend.Attachment, error) {
	if len(in) == 0 {
		return nil, nil
	}

	out := make([]*resend.Attachment, 0, len(in))
	for _, a := range in {
		att := &resend.Attachment{
			Filename:    a.Filename,
			ContentType: a.ContentType,
		}

		switch {
		case a.IsHosted():
			att.Path = a.HostedPath
		case a.IsInline():
			url, err := s.externaliser.Externalise(ctx, a)
			if err != nil {
				return nil, mail.WrapProcessingError(Type, "failed to externalise inline attachment "+a.Filename, err)
			}
			att.Path = url
		default:
			att.Content = a.Content
		}

		out = append(out, att)
	}
	return out, nil
}

func identities(ids []mail.Identity) []string {
	if len(ids) == 0 {
		return nil
	}
	return lo.Map(ids, func(i mail.Identity, _ int) string { return i.String() })
}
