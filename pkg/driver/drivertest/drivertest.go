// Package drivertest provides fixtures and shared checks for driver tests.
package drivertest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/unproducts/unmail/pkg/driver"
	"github.com/unproducts/unmail/pkg/mail"
	"github.com/unproducts/unmail/pkg/transport/transporttest"
)

// Request returns a minimal valid plain-text request.
func Request() *mail.SendMailRequest {
	return &mail.SendMailRequest{
		From:    mail.Identity{Email: "sender@example.com", Name: "Sender"},
		To:      []mail.Identity{{Email: "rcpt@example.com", Name: "Rcpt"}},
		Subject: "Hello",
		Text:    "Hello there",
	}
}

// TemplateRequest returns a valid template request without subject or body.
func TemplateRequest(templateID string) *mail.SendMailRequest {
	return &mail.SendMailRequest{
		From:       mail.Identity{Email: "sender@example.com"},
		To:         []mail.Identity{{Email: "rcpt@example.com"}},
		TemplateID: templateID,
		TemplateData: []mail.TemplateData{
			{Email: "rcpt@example.com", Data: map[string]any{"name": "Rcpt", "code": "1234"}},
		},
	}
}

// Factory builds the driver under test on top of the given recorder.
type Factory func(t *testing.T, rec *transporttest.Recorder) *driver.Driver

// RunContract checks the behavior every HTTP-backed driver shares:
// malformed requests never reach the transport, template requests pass base
// validation and the payload modifier output is what goes over the wire.
func RunContract(t *testing.T, newDriver Factory, templateID string) {
	t.Helper()

	t.Run("missing from is rejected before transport", func(t *testing.T) {
		t.Parallel()

		rec := &transporttest.Recorder{}
		d := newDriver(t, rec)

		req := Request()
		req.From = mail.Identity{}

		resp, err := d.SendMail(context.Background(), req)
		require.Nil(t, resp)
		require.ErrorIs(t, err, mail.ErrValidation)
		require.Contains(t, err.Error(), "[driver "+d.Type()+"] Validation Error: 'from' required")
		require.Empty(t, rec.Calls())
	})

	t.Run("empty to is rejected before transport", func(t *testing.T) {
		t.Parallel()

		rec := &transporttest.Recorder{}
		d := newDriver(t, rec)

		req := Request()
		req.To = []mail.Identity{}

		_, err := d.SendMail(context.Background(), req)
		require.ErrorIs(t, err, mail.ErrValidation)
		require.Empty(t, rec.Calls())
	})

	t.Run("inline attachment without cid is rejected", func(t *testing.T) {
		t.Parallel()

		rec := &transporttest.Recorder{}
		d := newDriver(t, rec)

		req := Request()
		req.Attachments = []mail.Attachment{
			{Filename: "a.txt", Content: []byte("a"), Disposition: mail.DispositionAttachment},
			{Filename: "b.png", Content: []byte("b"), Disposition: mail.DispositionInline},
		}

		_, err := d.SendMail(context.Background(), req)
		require.ErrorIs(t, err, mail.ErrValidation)
		require.Contains(t, err.Error(), "attachment[1]")
		require.Empty(t, rec.Calls())
	})

	t.Run("template request passes base validation", func(t *testing.T) {
		t.Parallel()

		rec := &transporttest.Recorder{}
		d := newDriver(t, rec)

		_, err := d.SendMail(context.Background(), TemplateRequest(templateID))
		if err != nil {
			require.NotErrorIs(t, err, mail.ErrValidation)
		}
	})

	t.Run("modifier output is sent", func(t *testing.T) {
		t.Parallel()

		rec := &transporttest.Recorder{}
		d := newDriver(t, rec)
		d.SetPayloadModifier(func(p driver.Payload) driver.Payload {
			p["x_custom"] = "yes"
			return p
		})

		_, err := d.SendMail(context.Background(), Request())
		require.NoError(t, err)
		require.Len(t, rec.Calls(), 1)
		require.Equal(t, "yes", rec.LastBody()["x_custom"])
	})

	t.Run("network failure is returned with code 500", func(t *testing.T) {
		t.Parallel()

		rec := transporttest.Fail(0, "")
		d := newDriver(t, rec)

		resp, err := d.SendMail(context.Background(), Request())
		require.NoError(t, err)
		require.False(t, resp.Success)
		require.Equal(t, 500, resp.Code)
		require.Error(t, resp.Error)
	})
}
