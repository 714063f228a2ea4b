package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/unproducts/unmail"
	"github.com/unproducts/unmail/pkg/mail"
	"github.com/unproducts/unmail/pkg/transport"
)

// Outcome kinds reported per request.
const (
	outcomeSent        = "sent"
	outcomeInvalid     = "invalid"
	outcomeUnsupported = "unsupported"
	outcomeTransport   = "transport"
	outcomeRejected    = "rejected"
)

// result is one printed line of playground output.
type result struct {
	Index   int    `json:"index"`
	Outcome string `json:"outcome"`
	Success bool   `json:"success"`
	Code    int    `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
	Payload any    `json:"payload,omitempty"`
}

func loadRequests(path string) ([]*mail.SendMailRequest, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read requests: %w", err)
	}

	var reqs []*mail.SendMailRequest
	if err := yaml.Unmarshal(raw, &reqs); err != nil {
		return nil, fmt.Errorf("decode requests %s: %w", path, err)
	}
	if len(reqs) == 0 {
		return nil, fmt.Errorf("no requests in %s", path)
	}
	return reqs, nil
}

// sendAll sends every request in parallel and returns results in input order.
// A failed send never cancels the others.
func sendAll(ctx context.Context, u *unmail.Unmail, reqs []*mail.SendMailRequest, limit int) []result {
	results := make([]result, len(reqs))

	g, ctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}

	for i, req := range reqs {
		g.Go(func() error {
			resp, err := u.SendMail(ctx, req)
			results[i] = toResult(i, resp, err)
			return nil
		})
	}
	_ = g.Wait()

	return results
}

func toResult(i int, resp *mail.SendMailResponse, err error) result {
	r := result{Index: i, Outcome: outcome(resp, err)}
	if err != nil {
		r.Error = err.Error()
		return r
	}

	r.Success = resp.Success
	r.Code = resp.Code
	r.Message = resp.Message
	if resp.Error != nil {
		r.Error = resp.Error.Error()
		r.Payload = resp.Payload
	}
	return r
}

// outcome separates raised errors from returned failures, and HTTP-level
// failures from rejections the vendor reported in a successful exchange.
func outcome(resp *mail.SendMailResponse, err error) string {
	switch {
	case errors.Is(err, mail.ErrValidation):
		return outcomeInvalid
	case err != nil:
		return outcomeUnsupported
	case resp.Success:
		return outcomeSent
	case errors.Is(resp.Error, transport.ErrRequestFailed):
		return outcomeTransport
	default:
		return outcomeRejected
	}
}
