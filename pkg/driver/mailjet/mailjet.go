// Package mailjet implements the Mailjet Send API v3.1 driver.
//
// Template IDs must be numeric. A 2xx answer whose first message reports
// Status "error" is returned as a failed response.
package mailjet

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/samber/lo"

	"github.com/unproducts/unmail/pkg/driver"
	"github.com/unproducts/unmail/pkg/mail"
	"github.com/unproducts/unmail/pkg/transport"
)

const (
	// Type identifies the driver in logs and errors.
	Type = "mailjet"

	// BaseURL is the Mailjet v3.1 API root.
	BaseURL = "https://api.mailjet.com/v3.1"

	sendPath = "/send"
)

// Config holds Mailjet credentials.
type Config struct {
	Token     string `env:"MAILJET_TOKEN" validate:"required"`
	SecretKey string `env:"MAILJET_SECRET_KEY" validate:"required"`
}

type contact struct {
	Email string `json:"Email"`
	Name  string `json:"Name,omitempty"`
}

type attachment struct {
	ContentType   string `json:"ContentType"`
	Filename      string `json:"Filename"`
	Base64Content string `json:"Base64Content"`
	ContentID     string `json:"ContentID,omitempty"`
}

type message struct {
	ReplyTo            *contact          `json:"ReplyTo,omitempty"`
	Variables          map[string]any    `json:"Variables,omitempty"`
	Headers            map[string]string `json:"Headers,omitempty"`
	From               contact           `json:"From"`
	Subject            string            `json:"Subject,omitempty"`
	HTMLPart           string            `json:"HTMLPart,omitempty"`
	TextPart           string            `json:"TextPart,omitempty"`
	To                 []contact         `json:"To"`
	Cc                 []contact         `json:"Cc,omitempty"`
	Bcc                []contact         `json:"Bcc,omitempty"`
	Attachments        []attachment      `json:"Attachments,omitempty"`
	InlinedAttachments []attachment      `json:"InlinedAttachments,omitempty"`
	TemplateID         int64             `json:"TemplateID,omitempty"`
	TemplateLanguage   bool              `json:"TemplateLanguage,omitempty"`
}

type request struct {
	Messages []message `json:"Messages"`
}

type sendResult struct {
	Messages []struct {
		Status string `json:"Status"`
		Errors []struct {
			ErrorMessage string `json:"ErrorMessage"`
			StatusCode   int    `json:"StatusCode"`
		} `json:"Errors"`
	} `json:"Messages"`
}

type sender struct {
	driver.ModifierSlot
	client transport.Client
}

var newDriver = driver.Define(func(cfg Config, o driver.Options) (driver.Adapter, error) {
	return &sender{
		client: o.Transport(BaseURL, transport.WithBasicAuth(cfg.Token, cfg.SecretKey)),
	}, nil
})

// New creates a Mailjet driver.
func New(cfg Config, opts ...driver.Option) (*driver.Driver, error) {
	return newDriver(cfg, opts...)
}

func (s *sender) Type() string { return Type }

func (s *sender) SendMail(ctx context.Context, req *mail.SendMailRequest) (*mail.SendMailResponse, error) {
	if req.HasHostedAttachments() {
		return nil, mail.NewProcessingError(Type, "mailjet doesnt allow hosted attachments")
	}

	msg, err := buildMessage(req)
	if err != nil {
		return nil, err
	}

	payload, err := s.BuildPayload(Type, request{Messages: []message{msg}})
	if err != nil {
		return nil, err
	}

	resp, err := s.client.Post(ctx, sendPath, payload)
	if err != nil {
		return driver.FailureResponse(err, driver.RawMessage(err), payload), nil
	}

	var result sendResult
	if json.Unmarshal(resp.Data, &result) == nil && len(result.Messages) > 0 && result.Messages[0].Status == "error" {
		code, text := http.StatusInternalServerError, string(resp.Data)
		if errs := result.Messages[0].Errors; len(errs) > 0 {
			if errs[0].StatusCode != 0 {
				code = errs[0].StatusCode
			}
			text = errs[0].ErrorMessage
		}
		return &mail.SendMailResponse{
			Success: false,
			Code:    code,
			Message: text,
			Error:   &transport.Error{Status: code, Header: resp.Header, Data: resp.Data},
			Payload: payload,
		}, nil
	}

	return driver.Success(resp.Status, string(resp.Data)), nil
}

func buildMessage(req *mail.SendMailRequest) (message, error) {
	m := message{
		From:    toContact(req.From),
		To:      toContacts(req.To),
		Cc:      toContacts(req.Cc),
		Bcc:     toContacts(req.Bcc),
		Subject: req.Subject,
		Headers: req.Headers,
	}
	if req.ReplyTo != nil {
		m.ReplyTo = lo.ToPtr(toContact(*req.ReplyTo))
	}

	switch req.ContentType() {
	case mail.ContentTemplate:
		id, err := strconv.ParseInt(req.TemplateID, 10, 64)
		if err != nil {
			return message{}, mail.WrapProcessingError(Type, "mailjet template id must be numeric", err)
		}
		m.TemplateID = id
		m.TemplateLanguage = true
		m.Variables = req.FirstTemplateData()
	case mail.ContentHTML:
		m.HTMLPart = req.HTML
	default:
		m.TextPart = req.Text
	}

	for _, a := range req.Attachments {
		out := attachment{
			ContentType:   a.ContentType,
			Filename:      a.Filename,
			Base64Content: a.Base64(),
		}
		if a.IsInline() {
			out.ContentID = a.CID
			m.InlinedAttachments = append(m.InlinedAttachments, out)
			continue
		}
		m.Attachments = append(m.Attachments, out)
	}

	return m, nil
}

func toContact(i mail.Identity) contact {
	return contact{Email: i.Email, Name: i.Name}
}

func toContacts(ids []mail.Identity) []contact {
	if len(ids) == 0 {
		return nil
	}
	return lo.Map(ids, func(i mail.Identity, _ int) contact { return toContact(i) })
}
