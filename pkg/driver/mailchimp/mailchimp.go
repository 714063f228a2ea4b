// Package mailchimp implements the Mailchimp Transactional (Mandrill) driver.
//
// Mandrill authenticates with a key inside the request body and answers with
// one result per recipient. Only the first result decides the outcome.
package mailchimp

import (
	"context"
	"encoding/json"
	"net/http"
	"slices"

	"github.com/samber/lo"

	"github.com/unproducts/unmail/pkg/driver"
	"github.com/unproducts/unmail/pkg/mail"
	"github.com/unproducts/unmail/pkg/transport"
)

const (
	// Type identifies the driver in logs and errors.
	Type = "mailchimp"

	// BaseURL is the Mandrill API root.
	BaseURL = "https://mandrillapp.com/api/1.0"

	sendPath         = "/messages/send.json"
	sendTemplatePath = "/messages/send-template.json"
)

// Config holds Mandrill credentials.
type Config struct {
	Token string `env:"MAILCHIMP_TOKEN" validate:"required"`
}

// errorNames maps Mandrill error names to canonical status codes.
var errorNames = map[string]int{
	"Invalid_Key":        http.StatusUnauthorized,
	"PaymentRequired":    http.StatusPaymentRequired,
	"Unknown_Subaccount": http.StatusNotFound,
	"Unknown_Template":   http.StatusNotFound,
	"ValidationError":    http.StatusBadRequest,
	"GeneralError":       http.StatusInternalServerError,
}

// successStatuses are the per-recipient statuses Mandrill reports for
// accepted messages.
var successStatuses = []string{"sent", "queued", "scheduled"}

type recipient struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
	Type  string `json:"type"`
}

type attachment struct {
	Type    string `json:"type"`
	Name    string `json:"name"`
	Content string `json:"content"`
}

type message struct {
	Headers     map[string]string `json:"headers,omitempty"`
	FromEmail   string            `json:"from_email"`
	FromName    string            `json:"from_name"`
	Subject     string            `json:"subject,omitempty"`
	HTML        string            `json:"html,omitempty"`
	Text        string            `json:"text,omitempty"`
	To          []recipient       `json:"to"`
	Tags        []string          `json:"tags,omitempty"`
	Attachments []attachment      `json:"attachments,omitempty"`
}

type mergeVar struct {
	Content any    `json:"content"`
	Name    string `json:"name"`
}

type request struct {
	Message         message    `json:"message"`
	Key             string     `json:"key"`
	TemplateName    string     `json:"template_name,omitempty"`
	TemplateContent any        `json:"template_content,omitempty"`
	GlobalMergeVars []mergeVar `json:"global_merge_vars,omitempty"`
}

type result struct {
	ID           string `json:"_id"`
	Status       string `json:"status"`
	RejectReason string `json:"reject_reason"`
}

type apiError struct {
	Message string `json:"message"`
	Name    string `json:"name"`
}

type sender struct {
	driver.ModifierSlot
	client transport.Client
	key    string
}

var newDriver = driver.Define(func(cfg Config, o driver.Options) (driver.Adapter, error) {
	return &sender{
		client: o.Transport(BaseURL),
		key:    cfg.Token,
	}, nil
})

// New creates a Mailchimp Transactional driver.
func New(cfg Config, opts ...driver.Option) (*driver.Driver, error) {
	return newDriver(cfg, opts...)
}

func (s *sender) Type() string { return Type }

func (s *sender) SendMail(ctx context.Context, req *mail.SendMailRequest) (*mail.SendMailResponse, error) {
	if req.HasHostedAttachments() {
		return nil, mail.NewProcessingError(Type, "mailchimp doesnt allow hosted attachments")
	}

	body := request{Key: s.key, Message: buildMessage(req)}
	path := sendPath
	if req.ContentType() == mail.ContentTemplate {
		path = sendTemplatePath
		body.TemplateName = req.TemplateID
		body.TemplateContent = []mergeVar{}
		body.GlobalMergeVars = mergeVars(req.FirstTemplateData())
	}

	payload, err := s.BuildPayload(Type, body)
	if err != nil {
		return nil, err
	}

	resp, err := s.client.Post(ctx, path, payload)
	if err != nil {
		return failure(err), nil
	}

	var results []result
	if json.Unmarshal(resp.Data, &results) != nil {
		return &mail.SendMailResponse{
			Success: false,
			Code:    resp.Status,
			Message: "Unexpected response format from Mailchimp API",
		}, nil
	}

	if len(results) > 0 && slices.Contains(successStatuses, results[0].Status) {
		msg := results[0].ID
		if msg == "" {
			msg = driver.DefaultSuccessMessage
		}
		return driver.Success(resp.Status, msg), nil
	}

	msg := "Unknown error"
	if len(results) > 0 && results[0].RejectReason != "" {
		msg = results[0].RejectReason
	}
	return &mail.SendMailResponse{Success: false, Code: resp.Status, Message: msg}, nil
}

func failure(err error) *mail.SendMailResponse {
	var body apiError
	if !driver.DecodeErrorBody(err, &body) {
		return driver.FailureResponse(err, driver.RawMessage(err), nil)
	}

	msg := body.Message
	if msg == "" {
		msg = body.Name
	}
	if msg == "" {
		msg = driver.RawMessage(err)
	}

	out := driver.FailureResponse(err, msg, nil)
	if code, ok := errorNames[body.Name]; ok {
		out.Code = code
	}
	return out
}

func buildMessage(req *mail.SendMailRequest) message {
	m := message{
		FromEmail: req.From.Email,
		FromName:  lo.Ternary(req.From.Name != "", req.From.Name, req.From.Email),
		Subject:   req.Subject,
	}

	m.To = append(m.To, recipients(req.To, "to")...)
	m.To = append(m.To, recipients(req.Cc, "cc")...)
	m.To = append(m.To, recipients(req.Bcc, "bcc")...)

	if req.ReplyTo != nil || len(req.Headers) > 0 {
		m.Headers = make(map[string]string, len(req.Headers)+1)
		if req.ReplyTo != nil {
			m.Headers["Reply-To"] = req.ReplyTo.String()
		}
		for k, v := range req.Headers {
			m.Headers[k] = v
		}
	}

	switch req.ContentType() {
	case mail.ContentHTML:
		m.HTML = req.HTML
	case mail.ContentText:
		m.Text = req.Text
	}

	if len(req.Tags) > 0 {
		m.Tags = lo.Map(req.Tags, func(t mail.Tag, _ int) string {
			return lo.Ternary(t.Name != "", t.Name, t.Value)
		})
	}

	m.Attachments = lo.Map(req.Attachments, func(a mail.Attachment, _ int) attachment {
		return attachment{Type: a.ContentType, Name: a.Filename, Content: a.Base64()}
	})

	return m
}

func recipients(ids []mail.Identity, kind string) []recipient {
	return lo.Map(ids, func(i mail.Identity, _ int) recipient {
		return recipient{Email: i.Email, Name: i.Name, Type: kind}
	})
}

func mergeVars(data map[string]any) []mergeVar {
	if len(data) == 0 {
		return nil
	}
	keys := lo.Keys(data)
	slices.Sort(keys)
	return lo.Map(keys, func(k string, _ int) mergeVar {
		return mergeVar{Name: k, Content: data[k]}
	})
}
