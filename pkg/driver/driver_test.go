package driver_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/unproducts/unmail/pkg/driver"
	"github.com/unproducts/unmail/pkg/logger"
	"github.com/unproducts/unmail/pkg/mail"
	"github.com/unproducts/unmail/pkg/transport"
)

type spyConfig struct {
	Token string `validate:"required"`
}

type spyAdapter struct {
	driver.ModifierSlot
	resp  *mail.SendMailResponse
	err   error
	calls atomic.Int32
	inits atomic.Int32
}

func (a *spyAdapter) Type() string { return "spy" }

func (a *spyAdapter) SendMail(_ context.Context, _ *mail.SendMailRequest) (*mail.SendMailResponse, error) {
	a.calls.Add(1)
	return a.resp, a.err
}

func (a *spyAdapter) Init(context.Context) error {
	a.inits.Add(1)
	return nil
}

func newSpy(t *testing.T, a *spyAdapter, opts ...driver.Option) *driver.Driver {
	t.Helper()
	factory := driver.Define(func(cfg spyConfig, o driver.Options) (driver.Adapter, error) {
		return a, nil
	})
	d, err := factory(spyConfig{Token: "t"}, opts...)
	require.NoError(t, err)
	return d
}

func validRequest() *mail.SendMailRequest {
	return &mail.SendMailRequest{
		From:    mail.Identity{Email: "from@example.com"},
		To:      []mail.Identity{{Email: "to@example.com"}},
		Subject: "Hi",
		Text:    "Hello",
	}
}

func TestDefine(t *testing.T) {
	t.Parallel()

	t.Run("rejects invalid config", func(t *testing.T) {
		t.Parallel()

		built := false
		factory := driver.Define(func(cfg spyConfig, o driver.Options) (driver.Adapter, error) {
			built = true
			return &spyAdapter{}, nil
		})

		d, err := factory(spyConfig{})
		require.Nil(t, d)
		require.ErrorIs(t, err, driver.ErrInvalidConfig)
		require.Contains(t, err.Error(), "Token")
		require.False(t, built)
	})

	t.Run("accepts non-struct config", func(t *testing.T) {
		t.Parallel()

		factory := driver.Define(func(cfg string, o driver.Options) (driver.Adapter, error) {
			return &spyAdapter{}, nil
		})

		d, err := factory("anything")
		require.NoError(t, err)
		require.Equal(t, "spy", d.Type())
	})

	t.Run("propagates build error", func(t *testing.T) {
		t.Parallel()

		boom := errors.New("boom")
		factory := driver.Define(func(cfg spyConfig, o driver.Options) (driver.Adapter, error) {
			return nil, boom
		})

		_, err := factory(spyConfig{Token: "t"})
		require.ErrorIs(t, err, boom)
	})

	t.Run("passes options to build", func(t *testing.T) {
		t.Parallel()

		var got driver.Options
		factory := driver.Define(func(cfg spyConfig, o driver.Options) (driver.Adapter, error) {
			got = o
			return &spyAdapter{}, nil
		})

		d, err := factory(spyConfig{Token: "t"}, driver.WithBaseURL("http://local"))
		require.NoError(t, err)
		require.Equal(t, "http://local", got.BaseURL)
		require.NotNil(t, got.Logger)
		require.Equal(t, spyConfig{Token: "t"}, d.Options())
	})
}

func TestDriver_SendMail(t *testing.T) {
	t.Parallel()

	t.Run("validates before the adapter runs", func(t *testing.T) {
		t.Parallel()

		a := &spyAdapter{resp: driver.Success(200, "ok")}
		d := newSpy(t, a)

		req := validRequest()
		req.To = nil

		resp, err := d.SendMail(context.Background(), req)
		require.Nil(t, resp)
		require.ErrorIs(t, err, mail.ErrValidation)
		require.Equal(t, "[driver spy] Validation Error: 'to' required and cannot be empty", err.Error())
		require.Zero(t, a.calls.Load())
	})

	t.Run("delegates valid request", func(t *testing.T) {
		t.Parallel()

		a := &spyAdapter{resp: driver.Success(202, "queued")}
		d := newSpy(t, a)

		resp, err := d.SendMail(context.Background(), validRequest())
		require.NoError(t, err)
		require.True(t, resp.Success)
		require.Equal(t, 202, resp.Code)
		require.EqualValues(t, 1, a.calls.Load())
	})

	t.Run("processing error is returned", func(t *testing.T) {
		t.Parallel()

		a := &spyAdapter{err: mail.NewProcessingError("spy", "unsupported")}
		d := newSpy(t, a)

		_, err := d.SendMail(context.Background(), validRequest())
		require.ErrorIs(t, err, mail.ErrProcessing)
	})

	t.Run("nil response becomes processing error", func(t *testing.T) {
		t.Parallel()

		d := newSpy(t, &spyAdapter{})

		_, err := d.SendMail(context.Background(), validRequest())
		require.ErrorIs(t, err, mail.ErrProcessing)
	})

	t.Run("logs outcome with send id and driver", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		l := logger.New(
			logger.WithWriter(&buf),
			logger.WithLevel(slog.LevelDebug),
			logger.WithExtractors(logger.DefaultExtractors()...),
		)

		a := &spyAdapter{resp: driver.FailureResponse(&transport.Error{Status: 400}, "bad", nil)}
		d := newSpy(t, a, driver.WithLogger(l))

		ctx := logger.WithSendID(context.Background(), "send-1")
		resp, err := d.SendMail(ctx, validRequest())
		require.NoError(t, err)
		require.False(t, resp.Success)

		var rec map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
		require.Equal(t, "WARN", rec["level"])
		require.Equal(t, "send-1", rec["send_id"])
		require.Equal(t, "spy", rec["driver"])
		require.EqualValues(t, 400, rec["code"])
	})
}

func TestDriver_Init(t *testing.T) {
	t.Parallel()

	a := &spyAdapter{}
	d := newSpy(t, a)

	require.NoError(t, d.Init(context.Background()))
	require.EqualValues(t, 1, a.inits.Load())
}

func TestDriver_SetPayloadModifier(t *testing.T) {
	t.Parallel()

	a := &spyAdapter{}
	d := newSpy(t, a)

	d.SetPayloadModifier(func(p driver.Payload) driver.Payload {
		p["custom"] = true
		return p
	})

	got := a.Modify(driver.Payload{})
	require.Equal(t, true, got["custom"])
}
