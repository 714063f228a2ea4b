package mail

import (
	"encoding/base64"
	"fmt"
)

// Identity is a sender, recipient or reply-to address.
type Identity struct {
	Email string `json:"email" yaml:"email"`
	Name  string `json:"name,omitempty" yaml:"name,omitempty"`
}

// String formats the identity in RFC 5322 address form.
// Returns "Name <email>" if a name is set, otherwise just the email.
func (i Identity) String() string {
	if i.Name == "" {
		return i.Email
	}
	return fmt.Sprintf("%s <%s>", i.Name, i.Email)
}

// Disposition tells the vendor how an attachment is presented.
type Disposition string

const (
	// DispositionInline embeds the attachment in the HTML body via its cid.
	DispositionInline Disposition = "inline"
	// DispositionAttachment presents the file as a regular download.
	DispositionAttachment Disposition = "attachment"
)

// Attachment is a file sent along with the message.
type Attachment struct {
	Content     Content     `json:"content,omitempty" yaml:"content,omitempty"`
	ContentType string      `json:"contentType" yaml:"contentType"`
	Filename    string      `json:"filename" yaml:"filename"`
	Disposition Disposition `json:"disposition" yaml:"disposition"`
	// CID is the Content-ID referenced from the HTML body. Required when inline.
	CID string `json:"cid,omitempty" yaml:"cid,omitempty"`
	// HostedPath points to an externally hosted copy of the file.
	// Only some vendors accept it.
	HostedPath string `json:"hostedPath,omitempty" yaml:"hostedPath,omitempty"`
}

// IsInline reports whether the attachment is meant to be embedded in the body.
func (a Attachment) IsInline() bool {
	return a.Disposition == DispositionInline
}

// IsHosted reports whether the attachment references an external resource.
func (a Attachment) IsHosted() bool {
	return a.HostedPath != ""
}

// Base64 returns the attachment content in standard base64 encoding.
func (a Attachment) Base64() string {
	return base64.StdEncoding.EncodeToString(a.Content)
}

// Tag labels a message. Vendors map tags to categories, tags or metadata.
type Tag struct {
	Name  string `json:"name" yaml:"name"`
	Value string `json:"value" yaml:"value"`
}

// TemplateData carries per-recipient template variables.
type TemplateData struct {
	Email string         `json:"email" yaml:"email"`
	Data  map[string]any `json:"data" yaml:"data"`
}

// SendMailRequest is the canonical send request accepted by every driver.
type SendMailRequest struct {
	From         Identity          `json:"from" yaml:"from"`
	To           []Identity        `json:"to" yaml:"to"`
	Cc           []Identity        `json:"cc,omitempty" yaml:"cc,omitempty"`
	Bcc          []Identity        `json:"bcc,omitempty" yaml:"bcc,omitempty"`
	ReplyTo      *Identity         `json:"replyTo,omitempty" yaml:"replyTo,omitempty"`
	Subject      string            `json:"subject,omitempty" yaml:"subject,omitempty"`
	Text         string            `json:"text,omitempty" yaml:"text,omitempty"`
	HTML         string            `json:"html,omitempty" yaml:"html,omitempty"`
	Attachments  []Attachment      `json:"attachments,omitempty" yaml:"attachments,omitempty"`
	Headers      map[string]string `json:"headers,omitempty" yaml:"headers,omitempty"`
	TemplateID   string            `json:"templateId,omitempty" yaml:"templateId,omitempty"`
	TemplateData []TemplateData    `json:"templateData,omitempty" yaml:"templateData,omitempty"`
	Tags         []Tag             `json:"tags,omitempty" yaml:"tags,omitempty"`
}

// ContentType identifies which body a driver should send.
type ContentType string

const (
	ContentTemplate ContentType = "template"
	ContentHTML     ContentType = "html"
	ContentText     ContentType = "text"
)

// ContentType picks the body to send: a template wins when TemplateID is set,
// otherwise HTML wins over plain text.
func (r *SendMailRequest) ContentType() ContentType {
	switch {
	case r.TemplateID != "":
		return ContentTemplate
	case r.HTML != "":
		return ContentHTML
	default:
		return ContentText
	}
}

// FirstTemplateData returns the variables of the first template data entry,
// or nil when there is none.
func (r *SendMailRequest) FirstTemplateData() map[string]any {
	if len(r.TemplateData) == 0 {
		return nil
	}
	return r.TemplateData[0].Data
}

// HasInlineAttachments reports whether any attachment is inline.
func (r *SendMailRequest) HasInlineAttachments() bool {
	for _, a := range r.Attachments {
		if a.IsInline() {
			return true
		}
	}
	return false
}

// HasHostedAttachments reports whether any attachment is externally hosted.
func (r *SendMailRequest) HasHostedAttachments() bool {
	for _, a := range r.Attachments {
		if a.IsHosted() {
			return true
		}
	}
	return false
}

// SendMailResponse is the normalized outcome of a send.
type SendMailResponse struct {
	// Error holds the underlying transport or vendor error on failure.
	Error error `json:"-" yaml:"-"`
	// Payload optionally carries the exact vendor body that was sent.
	Payload any    `json:"payload,omitempty" yaml:"payload,omitempty"`
	Message string `json:"message,omitempty" yaml:"message,omitempty"`
	// Code is an HTTP-status-like value normalized across vendors.
	Code    int  `json:"code" yaml:"code"`
	Success bool `json:"success" yaml:"success"`
}
