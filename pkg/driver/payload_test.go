package driver_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/unproducts/unmail/pkg/driver"
	"github.com/unproducts/unmail/pkg/mail"
	"github.com/unproducts/unmail/pkg/transport"
	"github.com/unproducts/unmail/pkg/transport/transporttest"
)

func TestEncode(t *testing.T) {
	t.Parallel()

	type wire struct {
		Name       string `json:"name"`
		TemplateID int64  `json:"template_id"`
	}

	p, err := driver.Encode(wire{Name: "a", TemplateID: 9007199254740993})
	require.NoError(t, err)
	require.Equal(t, "a", p["name"])
	require.Equal(t, json.Number("9007199254740993"), p["template_id"])

	_, err = driver.Encode(make(chan int))
	require.ErrorIs(t, err, driver.ErrEncodePayload)
}

func TestModifierSlot_BuildPayload(t *testing.T) {
	t.Parallel()

	var slot driver.ModifierSlot

	p, err := slot.BuildPayload("test", map[string]string{"a": "b"})
	require.NoError(t, err)
	require.Equal(t, driver.Payload{"a": "b"}, p)

	slot.SetPayloadModifier(func(p driver.Payload) driver.Payload {
		p["extra"] = "x"
		return p
	})
	p, err = slot.BuildPayload("test", map[string]string{"a": "b"})
	require.NoError(t, err)
	require.Equal(t, driver.Payload{"a": "b", "extra": "x"}, p)

	slot.SetPayloadModifier(nil)
	p, err = slot.BuildPayload("test", map[string]string{"a": "b"})
	require.NoError(t, err)
	require.NotContains(t, p, "extra")

	_, err = slot.BuildPayload("test", func() {})
	require.ErrorIs(t, err, mail.ErrProcessing)
	require.ErrorIs(t, err, driver.ErrEncodePayload)
}

func TestFailureResponse(t *testing.T) {
	t.Parallel()

	t.Run("vendor status", func(t *testing.T) {
		t.Parallel()

		err := &transport.Error{Status: 422, Data: []byte(`{"message":"bad"}`)}
		resp := driver.FailureResponse(err, driver.RawMessage(err), driver.Payload{"k": "v"})

		require.False(t, resp.Success)
		require.Equal(t, 422, resp.Code)
		require.Equal(t, `{"message":"bad"}`, resp.Message)
		require.Equal(t, driver.Payload{"k": "v"}, resp.Payload)
		require.ErrorIs(t, resp.Error, transport.ErrRequestFailed)

		var body struct {
			Message string `json:"message"`
		}
		require.True(t, driver.DecodeErrorBody(err, &body))
		require.Equal(t, "bad", body.Message)
	})

	t.Run("no response falls back to 500", func(t *testing.T) {
		t.Parallel()

		err := &transport.Error{Err: errors.New("connection refused")}
		resp := driver.FailureResponse(err, driver.RawMessage(err), nil)

		require.Equal(t, http.StatusInternalServerError, resp.Code)
		require.Equal(t, "connection refused", resp.Message)
		require.Nil(t, resp.Payload)
		require.False(t, driver.DecodeErrorBody(err, &struct{}{}))
	})
}

func TestOptions_Transport(t *testing.T) {
	t.Parallel()

	t.Run("custom client wins", func(t *testing.T) {
		t.Parallel()

		rec := &transporttest.Recorder{}
		o := driver.Options{Client: rec, BaseURL: "http://ignored"}
		require.Same(t, rec, o.Transport("http://default"))
	})

	t.Run("base url override", func(t *testing.T) {
		t.Parallel()

		var gotPath, gotAuth string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotPath = r.URL.Path
			gotAuth = r.Header.Get("Authorization")
			w.WriteHeader(http.StatusAccepted)
		}))
		defer srv.Close()

		o := driver.Options{BaseURL: srv.URL}
		c := o.Transport("http://default.invalid", transport.WithBearerToken("tok"))

		resp, err := c.Post(context.Background(), "/send", map[string]string{})
		require.NoError(t, err)
		require.Equal(t, http.StatusAccepted, resp.Status)
		require.Equal(t, "/send", gotPath)
		require.Equal(t, "Bearer tok", gotAuth)
	})
}
