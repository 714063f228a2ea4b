// Package sendgrid implements the SendGrid v3 Mail Send driver.
//
// The body is an SGMailV3 from the SendGrid helpers package, posted
// through the shared transport rather than the SendGrid client.
package sendgrid

import (
	"context"

	"github.com/samber/lo"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"

	"github.com/unproducts/unmail/pkg/driver"
	"github.com/unproducts/unmail/pkg/mail"
	"github.com/unproducts/unmail/pkg/transport"
)

const (
	// Type identifies the driver in logs and errors.
	Type = "sendgrid"

	// BaseURL is the SendGrid API root.
	BaseURL = "https://api.sendgrid.com"

	sendPath      = "/v3/mail/send"
	maxCategories = 10
)

// Config holds SendGrid credentials.
type Config struct {
	APIKey string `env:"SENDGRID_API_KEY" validate:"required"`
}

type sender struct {
	driver.ModifierSlot
	client transport.Client
}

var newDriver = driver.Define(func(cfg Config, o driver.Options) (driver.Adapter, error) {
	return &sender{
		client: o.Transport(BaseURL, transport.WithBearerToken(cfg.APIKey)),
	}, nil
})

// New creates a SendGrid driver.
func New(cfg Config, opts ...driver.Option) (*driver.Driver, error) {
	return newDriver(cfg, opts...)
}

func (s *sender) Type() string { return Type }

func (s *sender) SendMail(ctx context.Context, req *mail.SendMailRequest) (*mail.SendMailResponse, error) {
	if req.HasHostedAttachments() {
		return nil, mail.NewProcessingError(Type, "sendgrid does not support hosted attachments")
	}

	payload, err := s.BuildPayload(Type, buildMessage(req))
	if err != nil {
		return nil, err
	}

	resp, err := s.client.Post(ctx, sendPath, payload)
	if err != nil {
		return driver.FailureResponse(err, driver.RawMessage(err), payload), nil
	}
	return driver.Success(resp.Status, driver.DefaultSuccessMessage), nil
}

func buildMessage(req *mail.SendMailRequest) *sgmail.SGMailV3 {
	p := sgmail.NewPersonalization()
	p.AddTos(toEmails(req.To)...)
	p.AddCCs(toEmails(req.Cc)...)
	p.AddBCCs(toEmails(req.Bcc)...)
	p.Subject = req.Subject

	m := sgmail.NewV3Mail()
	m.SetFrom(toEmail(req.From))
	for k, v := range req.Headers {
		m.SetHeader(k, v)
	}
	if req.ReplyTo != nil {
		m.SetReplyTo(toEmail(*req.ReplyTo))
	}

	switch req.ContentType() {
	case mail.ContentTemplate:
		m.SetTemplateID(req.TemplateID)
		p.DynamicTemplateData = req.FirstTemplateData()
	case mail.ContentHTML:
		m.AddContent(sgmail.NewContent("text/html", req.HTML))
	default:
		m.AddContent(sgmail.NewContent("text/plain", req.Text))
	}
	m.AddPersonalizations(p)

	if len(req.Tags) > 0 {
		names := lo.Map(req.Tags, func(t mail.Tag, _ int) string { return t.Name })
		m.AddCategories(lo.Subset(names, 0, maxCategories)...)
	}

	for _, a := range req.Attachments {
		att := sgmail.NewAttachment().
			SetContent(a.Base64()).
			SetFilename(a.Filename).
			SetType(a.ContentType).
			SetDisposition(string(a.Disposition))
		if a.IsInline() {
			att.SetContentID(a.CID)
		}
		m.AddAttachment(att)
	}

	return m
}

func toEmail(i mail.Identity) *sgmail.Email {
	return sgmail.NewEmail(i.Name, i.Email)
}

func toEmails(ids []mail.Identity) []*sgmail.Email {
	return lo.Map(ids, func(i mail.Identity, _ int) *sgmail.Email { return toEmail(i) })
}
