// Package transporttest provides a recording transport.Client for driver tests.
package transporttest

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"

	"github.com/unproducts/unmail/pkg/transport"
)

// Call is a single recorded Post.
type Call struct {
	Body any
	// JSON is the body exactly as it would go over the wire.
	JSON []byte
	Path string
}

// Recorder records every Post and answers with a canned response.
// The zero value answers 200 with an empty body.
type Recorder struct {
	Err    error
	Header http.Header
	Data   []byte
	Status int

	mu    sync.Mutex
	calls []Call
}

// Respond returns a Recorder answering with status and data.
func Respond(status int, data string) *Recorder {
	return &Recorder{Status: status, Data: []byte(data)}
}

// Fail returns a Recorder answering with a transport error carrying status and data.
// A zero status simulates a network failure.
func Fail(status int, data string) *Recorder {
	terr := &transport.Error{Status: status, Data: []byte(data)}
	if status == 0 {
		terr.Err = errors.New("connection refused")
	} else {
		terr.Err = errors.New(http.StatusText(status))
	}
	return &Recorder{Err: terr}
}

// Post implements transport.Client.
func (r *Recorder) Post(_ context.Context, path string, body any) (*transport.Response, error) {
	raw, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	r.calls = append(r.calls, Call{Path: path, Body: body, JSON: raw})
	r.mu.Unlock()

	if r.Err != nil {
		return nil, r.Err
	}

	status := r.Status
	if status == 0 {
		status = http.StatusOK
	}
	return &transport.Response{Status: status, Header: r.Header, Data: r.Data}, nil
}

// Calls returns a copy of the recorded calls.
func (r *Recorder) Calls() []Call {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Call(nil), r.calls...)
}

// Last returns the most recent call. It panics when nothing was recorded.
func (r *Recorder) Last() Call {
	calls := r.Calls()
	return calls[len(calls)-1]
}

// LastBody decodes the most recent wire body into a generic map.
func (r *Recorder) LastBody() map[string]any {
	var m map[string]any
	_ = json.Unmarshal(r.Last().JSON, &m)
	return m
}

var _ transport.Client = (*Recorder)(nil)
