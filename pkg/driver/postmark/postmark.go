// Package postmark implements the Postmark email API driver.
package postmark

import (
	"context"
	"encoding/json"
	"net/http"
	"slices"
	"strconv"
	"strings"

	"github.com/samber/lo"

	"github.com/unproducts/unmail/pkg/driver"
	"github.com/unproducts/unmail/pkg/mail"
	"github.com/unproducts/unmail/pkg/transport"
)

const (
	// Type identifies the driver in logs and errors.
	Type = "postmark"

	// BaseURL is the Postmark API root.
	BaseURL = "https://api.postmarkapp.com"

	// DefaultMessageStream is the transactional stream every server has.
	DefaultMessageStream = "outbound"

	emailPath         = "/email"
	emailTemplatePath = "/email/withTemplate"
	tokenHeader       = "X-Postmark-Server-Token"
)

// Config holds Postmark credentials.
type Config struct {
	Token         string `env:"POSTMARK_TOKEN" validate:"required"`
	MessageStream string `env:"POSTMARK_MESSAGE_STREAM" envDefault:"outbound"`
}

// errorCodes maps Postmark API error codes to canonical status codes.
var errorCodes = map[int]int{
	10:   http.StatusUnauthorized,        // bad or missing server token
	300:  http.StatusBadRequest,          // invalid email request
	400:  http.StatusForbidden,           // sender signature not found
	401:  http.StatusForbidden,           // sender signature not confirmed
	405:  http.StatusPaymentRequired,     // not allowed to send
	406:  http.StatusUnprocessableEntity, // inactive recipient
	409:  http.StatusBadRequest,          // JSON required
	412:  http.StatusForbidden,           // account pending approval
	1101: http.StatusNotFound,            // template not found
}

type header struct {
	Name  string `json:"Name"`
	Value string `json:"Value"`
}

type attachment struct {
	Name        string `json:"Name"`
	Content     string `json:"Content"`
	ContentType string `json:"ContentType"`
	ContentID   string `json:"ContentID,omitempty"`
}

type message struct {
	TemplateModel any          `json:"TemplateModel,omitempty"`
	From          string       `json:"From"`
	To            string       `json:"To"`
	Cc            string       `json:"Cc,omitempty"`
	Bcc           string       `json:"Bcc,omitempty"`
	ReplyTo       string       `json:"ReplyTo,omitempty"`
	Subject       string       `json:"Subject,omitempty"`
	HTMLBody      string       `json:"HtmlBody,omitempty"`
	TextBody      string       `json:"TextBody,omitempty"`
	TemplateAlias string       `json:"TemplateAlias,omitempty"`
	Tag           string       `json:"Tag,omitempty"`
	MessageStream string       `json:"MessageStream"`
	Headers       []header     `json:"Headers,omitempty"`
	Attachments   []attachment `json:"Attachments,omitempty"`
	TemplateID    int64        `json:"TemplateId,omitempty"`
}

type apiResponse struct {
	Message   string `json:"Message"`
	MessageID string `json:"MessageID"`
	ErrorCode int    `json:"ErrorCode"`
}

type sender struct {
	driver.ModifierSlot
	client transport.Client
	stream string
}

var newDriver = driver.Define(func(cfg Config, o driver.Options) (driver.Adapter, error) {
	stream := cfg.MessageStream
	if stream == "" {
		stream = DefaultMessageStream
	}
	return &sender{
		client: o.Transport(BaseURL, transport.WithHeader(tokenHeader, cfg.Token)),
		stream: stream,
	}, nil
})

// New creates a Postmark driver.
func New(cfg Config, opts ...driver.Option) (*driver.Driver, error) {
	return newDriver(cfg, opts...)
}

func (s *sender) Type() string { return Type }

func (s *sender) SendMail(ctx context.Context, req *mail.SendMailRequest) (*mail.SendMailResponse, error) {
	if req.HasHostedAttachments() {
		return nil, mail.NewProcessingError(Type, "postmark does not support hosted attachments")
	}

	msg := s.buildMessage(req)
	path := emailPath
	if req.ContentType() == mail.ContentTemplate {
		path = emailTemplatePath
	}

	payload, err := s.BuildPayload(Type, msg)
	if err != nil {
		return nil, err
	}

	resp, err := s.client.Post(ctx, path, payload)
	if err != nil {
		var body apiResponse
		if !driver.DecodeErrorBody(err, &body) || body.Message == "" {
			return driver.FailureResponse(err, driver.RawMessage(err), payload), nil
		}
		out := driver.FailureResponse(err, body.Message, payload)
		if code, ok := errorCodes[body.ErrorCode]; ok {
			out.Code = code
		}
		return out, nil
	}

	var body apiResponse
	if json.Unmarshal(resp.Data, &body) == nil && body.MessageID != "" {
		return driver.Success(resp.Status, body.MessageID), nil
	}
	return driver.Success(resp.Status, string(resp.Data)), nil
}

func (s *sender) buildMessage(req *mail.SendMailRequest) message {
	m := message{
		From:          req.From.String(),
		To:            joinIdentities(req.To),
		Cc:            joinIdentities(req.Cc),
		Bcc:           joinIdentities(req.Bcc),
		MessageStream: s.stream,
	}
	if req.ReplyTo != nil {
		m.ReplyTo = req.ReplyTo.String()
	}

	switch req.ContentType() {
	case mail.ContentTemplate:
		if id, err := strconv.ParseInt(req.TemplateID, 10, 64); err == nil {
			m.TemplateID = id
		} else {
			m.TemplateAlias = req.TemplateID
		}
		model := req.FirstTemplateData()
		if model == nil {
			model = map[string]any{}
		}
		m.TemplateModel = model
	case mail.ContentHTML:
		m.Subject = req.Subject
		m.HTMLBody = req.HTML
	default:
		m.Subject = req.Subject
		m.TextBody = req.Text
	}

	// Postmark accepts a single tag per message.
	if len(req.Tags) > 0 {
		m.Tag = req.Tags[0].Name
	}

	keys := lo.Keys(req.Headers)
	slices.Sort(keys)
	for _, k := range keys {
		m.Headers = append(m.Headers, header{Name: k, Value: req.Headers[k]})
	}

	m.Attachments = lo.Map(req.Attachments, func(a mail.Attachment, _ int) attachment {
		out := attachment{
			Name:        a.Filename,
			Content:     a.Base64(),
			ContentType: a.ContentType,
		}
		if a.IsInline() {
			out.ContentID = a.CID
		}
		return out
	})

	return m
}

func joinIdentities(ids []mail.Identity) string {
	return strings.Join(lo.Map(ids, func(i mail.Identity, _ int) string { return i.String() }), ",")
}
