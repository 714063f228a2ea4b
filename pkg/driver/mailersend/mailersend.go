// Package mailersend implements the MailerSend email API driver.
//
// Messages are built with the official SDK types and posted through the
// shared transport, so the payload modifier sees the exact SDK body.
package mailersend

import (
	"context"
	"slices"

	"github.com/mailersend/mailersend-go"
	"github.com/samber/lo"

	"github.com/unproducts/unmail/pkg/driver"
	"github.com/unproducts/unmail/pkg/mail"
	"github.com/unproducts/unmail/pkg/transport"
)

const (
	// Type identifies the driver in logs and errors.
	Type = "mailersend"

	// BaseURL is the MailerSend v1 API root.
	BaseURL = "https://api.mailersend.com/v1"

	emailPath = "/email"
	maxTags   = 5

	messageIDHeader = "X-Message-Id"
)

// Config holds MailerSend credentials.
type Config struct {
	APIKey string `env:"MAILERSEND_API_KEY" validate:"required"`
}

// message is the SDK message plus the custom headers it does not carry.
type message struct {
	*mailersend.Message
	Headers []header `json:"headers,omitempty"`
}

type header struct {
	Name  string `json:"name"`
	Value string `json:"value"`
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

// New creates a MailerSend driver.
func New(cfg Config, opts ...driver.Option) (*driver.Driver, error) {
	return newDriver(cfg, opts...)
}

func (s *sender) Type() string { return Type }

func (s *sender) SendMail(ctx context.Context, req *mail.SendMailRequest) (*mail.SendMailResponse, error) {
	if req.HasHostedAttachments() {
		return nil, mail.NewProcessingError(Type, "mailersend doesnt allow hosted attachments")
	}

	payload, err := s.BuildPayload(Type, buildEmail(req))
	if err != nil {
		return nil, err
	}

	resp, err := s.client.Post(ctx, emailPath, payload)
	if err != nil {
		var body struct {
			Message string `json:"message"`
		}
		if driver.DecodeErrorBody(err, &body) && body.Message != "" {
			return driver.FailureResponse(err, body.Message, nil), nil
		}
		return driver.FailureResponse(err, driver.RawMessage(err), nil), nil
	}

	if id := resp.Header.Get(messageIDHeader); id != "" {
		return driver.Success(resp.Status, id), nil
	}
	return driver.Success(resp.Status, string(resp.Data)), nil
}

func buildEmail(req *mail.SendMailRequest) message {
	m := &mailersend.Message{}

	from := mailersend.From{Name: req.From.Name, Email: req.From.Email}
	m.SetFrom(from)
	m.SetRecipients(toRecipients(req.To))
	m.SetCc(toRecipients(req.Cc))
	m.SetBcc(toRecipients(req.Bcc))
	m.SetSubject(req.Subject)

	if req.ReplyTo != nil {
		m.SetReplyTo(mailersend.ReplyTo{Name: req.ReplyTo.Name, Email: req.ReplyTo.Email})
	} else {
		m.SetReplyTo(mailersend.ReplyTo{Name: from.Name, Email: from.Email})
	}

	switch req.ContentType() {
	case mail.ContentTemplate:
		m.SetTemplateID(req.TemplateID)
		m.SetPersonalization(lo.Map(req.TemplateData, func(d mail.TemplateData, _ int) mailersend.Personalization {
			return mailersend.Personalization{Email: d.Email, Data: d.Data}
		}))
	case mail.ContentHTML:
		m.SetHTML(req.HTML)
	default:
		m.SetText(req.Text)
	}

	if len(req.Tags) > 0 {
		m.SetTags(lo.Subset(lo.Map(req.Tags, func(t mail.Tag, _ int) string { return t.Name }), 0, maxTags))
	}

	for _, a := range req.Attachments {
		att := mailersend.Attachment{
			Content:     a.Base64(),
			Filename:    a.Filename,
			Disposition: string(a.Disposition),
		}
		if a.IsInline() {
			att.ID = a.CID
		}
		m.AddAttachment(att)
	}

	out := message{Message: m}
	keys := lo.Keys(req.Headers)
	slices.Sort(keys)
	for _, k := range keys {
		out.Headers = append(out.Headers, header{Name: k, Value: req.Headers[k]})
	}
	return out
}

func toRecipients(ids []mail.Identity) []mailersend.Recipient {
	if len(ids) == 0 {
		return nil
	}
	return lo.Map(ids, func(i mail.Identity, _ int) mailersend.Recipient {
		return mailersend.Recipient{Name: i.Name, Email: i.Email}
	})
}
