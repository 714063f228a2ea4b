package main

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/unproducts/unmail"
	"github.com/unproducts/unmail/pkg/driver"
	"github.com/unproducts/unmail/pkg/driver/mocker"
	"github.com/unproducts/unmail/pkg/driver/resend"
	"github.com/unproducts/unmail/pkg/driver/sendgrid"
	"github.com/unproducts/unmail/pkg/logger"
	"github.com/unproducts/unmail/pkg/mail"
	"github.com/unproducts/unmail/pkg/storage"
	"github.com/unproducts/unmail/pkg/transport"
	"github.com/unproducts/unmail/pkg/transport/transporttest"
)

func TestLoadRequests(t *testing.T) {
	t.Parallel()

	reqs, err := loadRequests("testdata/requests.yaml")
	require.NoError(t, err)
	require.Len(t, reqs, 4)

	require.Equal(t, "Sender", reqs[0].From.Name)
	require.Equal(t, []mail.Tag{{Name: "campaign", Value: "playground"}}, reqs[0].Tags)
	require.Equal(t, mail.DispositionAttachment, reqs[1].Attachments[0].Disposition)
	require.Equal(t, mail.Content("some notes"), reqs[1].Attachments[0].Content)
	require.Equal(t, "1234", reqs[2].TemplateID)
	require.Equal(t, "Rcpt", reqs[2].FirstTemplateData()["name"])
	require.Empty(t, reqs[3].To)
}

func TestLoadRequests_Errors(t *testing.T) {
	t.Parallel()

	_, err := loadRequests(filepath.Join(t.TempDir(), "missing.yaml"))
	require.ErrorIs(t, err, os.ErrNotExist)

	empty := filepath.Join(t.TempDir(), "empty.yaml")
	require.NoError(t, os.WriteFile(empty, []byte("[]\n"), 0o600))
	_, err = loadRequests(empty)
	require.ErrorContains(t, err, "no requests")
}

func TestBuildDriver(t *testing.T) {
	t.Parallel()

	log := logger.NewNope()

	tests := []struct {
		name     string
		cfg      config
		wantType string
		wantErr  string
	}{
		{name: "mocker", cfg: config{Driver: mocker.Type}, wantType: mocker.Type},
		{name: "sendgrid", cfg: config{Driver: sendgrid.Type, SendGrid: sendgrid.Config{APIKey: "k"}}, wantType: sendgrid.Type},
		{name: "sendgrid without key", cfg: config{Driver: sendgrid.Type}, wantErr: "invalid"},
		{
			name: "resend with storage",
			cfg: config{
				Driver:  resend.Type,
				Resend:  resend.Config{APIKey: "k", ExternaliseInlineAttachments: true},
				Storage: storage.Config{Bucket: "b", AccessKey: "a", SecretKey: "s"},
			},
			wantType: resend.Type,
		},
		{
			name:    "resend externalising without storage",
			cfg:     config{Driver: resend.Type, Resend: resend.Config{APIKey: "k", ExternaliseInlineAttachments: true}},
			wantErr: "WithExternaliser",
		},
		{
			name: "resend with broken storage",
			cfg: config{
				Driver:  resend.Type,
				Resend:  resend.Config{APIKey: "k"},
				Storage: storage.Config{Bucket: "b"},
			},
			wantErr: "attachment storage",
		},
		{name: "unknown", cfg: config{Driver: "pigeon"}, wantErr: `unknown driver "pigeon"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			d, err := buildDriver(tt.cfg, log)
			if tt.wantErr != "" {
				require.ErrorContains(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.wantType, d.Type())
		})
	}
}

func TestSendAll(t *testing.T) {
	t.Parallel()

	reqs, err := loadRequests("testdata/requests.yaml")
	require.NoError(t, err)

	d, err := mocker.New(mocker.Config{Message: "queued"})
	require.NoError(t, err)
	u, err := unmail.Make(context.Background(), d)
	require.NoError(t, err)

	results := sendAll(context.Background(), u, reqs, 2)
	require.Len(t, results, len(reqs))

	for i, r := range results[:3] {
		require.Equal(t, i, r.Index)
		require.True(t, r.Success)
		require.Equal(t, mocker.DefaultSuccessCode, r.Code)
		require.Equal(t, "queued", r.Message)
		require.Equal(t, outcomeSent, r.Outcome)
		require.Empty(t, r.Error)
	}

	last := results[3]
	require.False(t, last.Success)
	require.Equal(t, outcomeInvalid, last.Outcome)
	require.Contains(t, last.Error, "Validation Error")
}

func TestSendAll_FailureCarriesPayload(t *testing.T) {
	t.Parallel()

	d, err := mocker.New(mocker.Config{Mode: mocker.ModeFailure, Code: 429})
	require.NoError(t, err)
	u, err := unmail.Make(context.Background(), d)
	require.NoError(t, err)

	results := sendAll(context.Background(), u, []*mail.SendMailRequest{{
		From:    mail.Identity{Email: "a@example.com"},
		To:      []mail.Identity{{Email: "b@example.com"}},
		Subject: "s",
		Text:    "t",
	}}, 0)

	require.False(t, results[0].Success)
	require.Equal(t, outcomeRejected, results[0].Outcome)
	require.Equal(t, 429, results[0].Code)
	require.Contains(t, results[0].Error, "429")
	require.NotNil(t, results[0].Payload)
}

func TestRun(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	err := run([]string{"-driver", "mocker", "-request", "testdata/requests.yaml"}, &out)
	require.NoError(t, err)

	var lines []result
	sc := bufio.NewScanner(&out)
	sc.Buffer(make([]byte, 1<<20), 1<<20)
	for sc.Scan() {
		var r result
		require.NoError(t, json.Unmarshal(sc.Bytes(), &r))
		lines = append(lines, r)
	}
	require.Len(t, lines, 4)
	require.True(t, lines[0].Success)
	require.False(t, lines[3].Success)
}

func TestRun_UnknownDriver(t *testing.T) {
	t.Parallel()

	err := run([]string{"-driver", "pigeon", "-request", "testdata/requests.yaml"}, &bytes.Buffer{})
	require.ErrorContains(t, err, "unknown driver")
}

func TestOutcome(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		resp *mail.SendMailResponse
		err  error
		want string
	}{
		{name: "sent", resp: &mail.SendMailResponse{Success: true, Code: 202}, want: outcomeSent},
		{name: "invalid", err: mail.NewValidationError("sendgrid", "'from' required"), want: outcomeInvalid},
		{name: "unsupported", err: mail.NewProcessingError("mailjet", "mailjet doesnt allow hosted attachments"), want: outcomeUnsupported},
		{
			name: "transport",
			resp: &mail.SendMailResponse{Code: 401, Error: &transport.Error{Status: 401}},
			want: outcomeTransport,
		},
		{
			name: "rejected",
			resp: &mail.SendMailResponse{Code: 200, Message: "invalid", Error: errors.New("rejected")},
			want: outcomeRejected,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tt.want, outcome(tt.resp, tt.err))
		})
	}
}

func TestSendAll_TransportFailure(t *testing.T) {
	t.Parallel()

	d, err := sendgrid.New(sendgrid.Config{APIKey: "k"},
		driver.WithClient(transporttest.Fail(401, `{"errors":[{"message":"bad key"}]}`)))
	require.NoError(t, err)
	u, err := unmail.Make(context.Background(), d)
	require.NoError(t, err)

	results := sendAll(context.Background(), u, []*mail.SendMailRequest{{
		From:    mail.Identity{Email: "a@example.com"},
		To:      []mail.Identity{{Email: "b@example.com"}},
		Subject: "s",
		Text:    "t",
	}}, 1)

	require.Equal(t, outcomeTransport, results[0].Outcome)
	require.Equal(t, 401, results[0].Code)
	require.NotNil(t, results[0].Payload)
}
