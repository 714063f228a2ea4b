package mailersend_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/unproducts/unmail/pkg/driver"
	"github.com/unproducts/unmail/pkg/driver/drivertest"
	"github.com/unproducts/unmail/pkg/driver/mailersend"
	"github.com/unproducts/unmail/pkg/mail"
	"github.com/unproducts/unmail/pkg/transport/transporttest"
)

func newDriver(t *testing.T, rec *transporttest.Recorder) *driver.Driver {
	t.Helper()
	d, err := mailersend.New(mailersend.Config{APIKey: "mlsn.key"}, driver.WithClient(rec))
	require.NoError(t, err)
	return d
}

func TestContract(t *testing.T) {
	t.Parallel()
	drivertest.RunContract(t, newDriver, "z3m5jgrq")
}

func TestSendMail(t *testing.T) {
	t.Parallel()

	t.Run("reply to defaults to sender", func(t *testing.T) {
		t.Parallel()

		rec := &transporttest.Recorder{
			Status: http.StatusAccepted,
			Header: http.Header{"X-Message-Id": []string{"5e42957d51f1d94a1070a733"}},
		}
		d := newDriver(t, rec)

		resp, err := d.SendMail(context.Background(), drivertest.Request())
		require.NoError(t, err)
		require.Equal(t, &mail.SendMailResponse{Success: true, Code: 202, Message: "5e42957d51f1d94a1070a733"}, resp)

		require.Equal(t, "/email", rec.Last().Path)
		body := rec.LastBody()
		require.Equal(t, map[string]any{"email": "sender@example.com", "name": "Sender"}, body["from"])
		require.Equal(t, []any{map[string]any{"email": "rcpt@example.com", "name": "Rcpt"}}, body["to"])
		require.Equal(t, body["from"], body["reply_to"])
		require.Equal(t, "Hello there", body["text"])
	})

	t.Run("template uses personalization", func(t *testing.T) {
		t.Parallel()

		rec := &transporttest.Recorder{Status: http.StatusAccepted}
		d := newDriver(t, rec)

		req := drivertest.TemplateRequest("z3m5jgrq")
		req.ReplyTo = &mail.Identity{Email: "reply@example.com"}

		_, err := d.SendMail(context.Background(), req)
		require.NoError(t, err)

		body := rec.LastBody()
		require.Equal(t, "z3m5jgrq", body["template_id"])
		require.Equal(t, "reply@example.com", body["reply_to"].(map[string]any)["email"])
		require.Equal(t, []any{map[string]any{
			"email": "rcpt@example.com",
			"data":  map[string]any{"name": "Rcpt", "code": "1234"},
		}}, body["personalization"])
	})

	t.Run("attachments and tags", func(t *testing.T) {
		t.Parallel()

		rec := &transporttest.Recorder{Status: http.StatusAccepted}
		d := newDriver(t, rec)

		req := drivertest.Request()
		req.Attachments = []mail.Attachment{
			{Filename: "logo.png", Content: []byte("hello"), Disposition: mail.DispositionInline, CID: "logo"},
		}
		req.Headers = map[string]string{"X-B": "2", "X-A": "1"}
		for _, n := range []string{"a", "b", "c", "d", "e", "f"} {
			req.Tags = append(req.Tags, mail.Tag{Name: n})
		}

		_, err := d.SendMail(context.Background(), req)
		require.NoError(t, err)

		body := rec.LastBody()
		require.Equal(t, []any{"a", "b", "c", "d", "e"}, body["tags"])
		require.Equal(t, []any{
			map[string]any{"name": "X-A", "value": "1"},
			map[string]any{"name": "X-B", "value": "2"},
		}, body["headers"])
		require.Equal(t, []any{map[string]any{
			"content": "aGVsbG8=", "filename": "logo.png", "disposition": "inline", "id": "logo",
		}}, body["attachments"])
	})

	t.Run("hosted attachment is a processing error", func(t *testing.T) {
		t.Parallel()

		rec := &transporttest.Recorder{}
		d := newDriver(t, rec)

		req := drivertest.Request()
		req.Attachments = []mail.Attachment{
			{Filename: "a.pdf", HostedPath: "https://cdn.example.com/a.pdf", Disposition: mail.DispositionAttachment},
		}

		_, err := d.SendMail(context.Background(), req)
		require.ErrorIs(t, err, mail.ErrProcessing)
		require.Empty(t, rec.Calls())
	})

	t.Run("vendor error message", func(t *testing.T) {
		t.Parallel()

		d := newDriver(t, transporttest.Fail(422, `{"message":"The from.email must be verified.","errors":{}}`))

		resp, err := d.SendMail(context.Background(), drivertest.Request())
		require.NoError(t, err)
		require.False(t, resp.Success)
		require.Equal(t, 422, resp.Code)
		require.Equal(t, "The from.email must be verified.", resp.Message)
	})
}
