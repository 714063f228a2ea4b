package transport

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"
)

// DefaultTimeout bounds a single request when no *http.Client is supplied.
const DefaultTimeout = 30 * time.Second

// Response is a successful (2xx) exchange.
type Response struct {
	Header http.Header
	Data   []byte
	Status int
}

// Client posts JSON bodies to a vendor API.
type Client interface {
	// Post marshals body to JSON and sends it to path.
	// Non-2xx statuses are returned as *Error.
	Post(ctx context.Context, path string, body any) (*Response, error)
}

// HTTPClient implements Client on top of net/http.
type HTTPClient struct {
	http    *http.Client
	header  http.Header
	baseURL string
}

// Option configures an HTTPClient.
type Option func(*HTTPClient)

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(c *http.Client) Option {
	return func(hc *HTTPClient) {
		if c != nil {
			hc.http = c
		}
	}
}

// WithHeader sets a header sent with every request.
func WithHeader(key, value string) Option {
	return func(hc *HTTPClient) {
		hc.header.Set(key, value)
	}
}

// WithBearerToken authenticates with "Authorization: Bearer <token>".
func WithBearerToken(token string) Option {
	return WithHeader("Authorization", "Bearer "+token)
}

// WithBasicAuth authenticates with "Authorization: Basic base64(user:pass)".
func WithBasicAuth(user, pass string) Option {
	creds := base64.StdEncoding.EncodeToString([]byte(user + ":" + pass))
	return WithHeader("Authorization", "Basic "+creds)
}

// New creates an HTTPClient bound to baseURL.
func New(baseURL string, opts ...Option) *HTTPClient {
	hc := &HTTPClient{
		http:    &http.Client{Timeout: DefaultTimeout},
		header:  make(http.Header),
		baseURL: strings.TrimSuffix(baseURL, "/"),
	}
	hc.header.Set("Content-Type", "application/json")
	hc.header.Set("Accept", "application/json")

	for _, opt := range opts {
		opt(hc)
	}
	return hc
}

// BaseURL returns the URL every path is resolved against.
func (c *HTTPClient) BaseURL() string {
	return c.baseURL
}

// Post implements Client.
func (c *HTTPClient) Post(ctx context.Context, path string, body any) (*Response, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return nil, errors.Join(ErrEncodeBody, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return nil, &Error{Err: err}
	}
	req.Header = c.header.Clone()

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &Error{Err: err}
	}
	if resp == nil || resp.Body == nil {
		return nil, &Error{Err: errors.New("empty response")}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{Status: resp.StatusCode, Header: resp.Header, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &Error{
			Status: resp.StatusCode,
			Header: resp.Header,
			Data:   raw,
			Err:    errors.New(http.StatusText(resp.StatusCode)),
		}
	}

	return &Response{
		Status: resp.StatusCode,
		Header: resp.Header,
		Data:   raw,
	}, nil
}

// Ensure HTTPClient implements Client.
var _ Client = (*HTTPClient)(nil)
