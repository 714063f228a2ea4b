// Package mocker implements a driver that never leaves the process.
//
// The outcome is fixed by configuration, which makes it useful in tests and
// local development. The echoed payload passes through the payload modifier
// like a vendor body would, and an optional Preview writer receives a
// readable rendering of every message.
//
//	d, _ := mocker.New(mocker.Config{Mode: mocker.ModeFailure, Code: 403})
//	resp, _ := d.SendMail(ctx, req) // resp.Success == false, resp.Code == 403
package mocker

import (
	"context"
	"encoding/json"
	"io"
	"sync"

	"github.com/unproducts/unmail/pkg/driver"
	"github.com/unproducts/unmail/pkg/mail"
)

// Type identifies the driver in logs and errors.
const Type = "mocker"

// Mode selects the simulated outcome.
type Mode string

const (
	ModeSuccess Mode = "success"
	ModeFailure Mode = "failure"
)

// Default codes used when Config.Code is zero.
const (
	DefaultSuccessCode = 201
	DefaultFailureCode = 401
)

// ResponseHandler observes every produced response with the request that
// caused it.
type ResponseHandler func(resp *mail.SendMailResponse, req *mail.SendMailRequest)

// Config controls the simulated outcome.
type Config struct {
	// Preview receives a readable rendering of every message. Optional.
	Preview io.Writer
	// HandleResponse is invoked exactly once per send. Optional.
	HandleResponse ResponseHandler

	// Mode defaults to ModeSuccess.
	Mode Mode `env:"MOCKER_MODE" envDefault:"success" validate:"omitempty,oneof=success failure"`
	// Message defaults to the request encoded as JSON.
	Message string `env:"MOCKER_MESSAGE"`
	// Code defaults to DefaultSuccessCode or DefaultFailureCode.
	Code int `env:"MOCKER_CODE" validate:"gte=0"`
}

type sender struct {
	driver.ModifierSlot
	cfg Config
	mu  sync.Mutex
}

var newDriver = driver.Define(func(cfg Config, _ driver.Options) (driver.Adapter, error) {
	if cfg.Mode == "" {
		cfg.Mode = ModeSuccess
	}
	return &sender{cfg: cfg}, nil
})

// New creates a mocker driver.
func New(cfg Config, opts ...driver.Option) (*driver.Driver, error) {
	return newDriver(cfg, opts...)
}

func (s *sender) Type() string { return Type }

func (s *sender) SendMail(_ context.Context, req *mail.SendMailRequest) (*mail.SendMailResponse, error) {
	payload, err := s.BuildPayload(Type, req)
	if err != nil {
		return nil, err
	}

	success := s.cfg.Mode != ModeFailure

	code := s.cfg.Code
	if code == 0 {
		code = DefaultFailureCode
		if success {
			code = DefaultSuccessCode
		}
	}

	message := s.cfg.Message
	if message == "" {
		raw, err := json.Marshal(req)
		if err != nil {
			return nil, mail.WrapProcessingError(Type, "failed to encode request", err)
		}
		message = string(raw)
	}

	resp := &mail.SendMailResponse{
		Success: success,
		Code:    code,
		Message: message,
		Payload: payload,
	}
	if !success {
		resp.Error = &Error{Code: code, Message: message}
	}

	if s.cfg.Preview != nil {
		s.mu.Lock()
		_, _ = io.WriteString(s.cfg.Preview, render(req, resp))
		s.mu.Unlock()
	}

	if s.cfg.HandleResponse != nil {
		s.cfg.HandleResponse(resp, req)
	}

	return resp, nil
}
