// Package httpclient is the one outbound HTTP client used for every
// downstream service. A Client is bound to a base URL and optionally to an
// OAuth2 token source and a rate limit. Transport errors and 5xx responses
// are retried with exponential backoff; every other response is returned to
// the caller, which owns the mapping of statuses to domain errors.
package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"

	"github.com/ghuser/hmjoarksink/pkg/logger"
)

// CallIDHeader carries the correlation id to downstream services.
const CallIDHeader = "Nav-Call-Id"

const defaultInitialInterval = 500 * time.Millisecond

// Config describes one downstream.
type Config struct {
	Name            string
	BaseURL         string
	Timeout         time.Duration
	MaxRetries      uint
	InitialInterval time.Duration
	// RateLimit is requests per second; 0 disables limiting.
	RateLimit   float64
	TokenSource oauth2.TokenSource
	Logger      logger.Logger
	// Transport overrides the base transport; tests pass httptest transports.
	Transport http.RoundTripper
}

// Client performs requests against one downstream.
type Client struct {
	name            string
	base            *url.URL
	http            *http.Client
	maxRetries      uint
	initialInterval time.Duration
	limiter         *rate.Limiter
	tokens          oauth2.TokenSource
	log             logger.Logger
}

// New returns a Client for cfg.
func New(cfg Config) (*Client, error) {
	base, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("httpclient %s: parse base url: %w", cfg.Name, err)
	}
	transport := cfg.Transport
	if transport == nil {
		transport = http.DefaultTransport
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	initial := cfg.InitialInterval
	if initial == 0 {
		initial = defaultInitialInterval
	}
	c := &Client{
		name:            cfg.Name,
		base:            base,
		http:            &http.Client{Timeout: timeout, Transport: otelhttp.NewTransport(transport)},
		maxRetries:      cfg.MaxRetries,
		initialInterval: initial,
		tokens:          cfg.TokenSource,
		log:             cfg.Logger,
	}
	if cfg.RateLimit > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), 1)
	}
	return c, nil
}

// Name returns the downstream name.
func (c *Client) Name() string { return c.name }

// Request is one outbound call. Path is joined onto the base URL.
type Request struct {
	Method      string
	Path        string
	Query       url.Values
	Header      http.Header
	Body        []byte
	ContentType string
}

// Response is a fully read response.
type Response struct {
	Method     string
	URL        string
	StatusCode int
	Header     http.Header
	Body       []byte
}

// DecodeJSON unmarshals the body into v.
func (r *Response) DecodeJSON(v any) error {
	if err := json.Unmarshal(r.Body, v); err != nil {
		return fmt.Errorf("decode response from '%s %s': %w", r.Method, r.URL, err)
	}
	return nil
}

// Error returns a *StatusError describing r.
func (r *Response) Error() *StatusError {
	return &StatusError{Method: r.Method, URL: r.URL, StatusCode: r.StatusCode, Body: string(r.Body)}
}

// StatusError is an unexpected HTTP status.
type StatusError struct {
	Method     string
	URL        string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected response from '%s %s', status: %d, body: '%s'", e.Method, e.URL, e.StatusCode, e.Body)
}

// RequestOption modifies a Request.
type RequestOption func(*Request)

// WithQuery adds a query parameter.
func WithQuery(key, value string) RequestOption {
	return func(r *Request) {
		if r.Query == nil {
			r.Query = url.Values{}
		}
		r.Query.Add(key, value)
	}
}

// WithHeader sets a header.
func WithHeader(key, value string) RequestOption {
	return func(r *Request) {
		if r.Header == nil {
			r.Header = http.Header{}
		}
		r.Header.Set(key, value)
	}
}

// Get performs a GET.
func (c *Client) Get(ctx context.Context, path string, opts ...RequestOption) (*Response, error) {
	return c.Do(ctx, newRequest(http.MethodGet, path, nil, "", opts))
}

// PostJSON performs a POST with body encoded as JSON.
func (c *Client) PostJSON(ctx context.Context, path string, body any, opts ...RequestOption) (*Response, error) {
	return c.sendJSON(ctx, http.MethodPost, path, body, opts)
}

// PutJSON performs a PUT with body encoded as JSON.
func (c *Client) PutJSON(ctx context.Context, path string, body any, opts ...RequestOption) (*Response, error) {
	return c.sendJSON(ctx, http.MethodPut, path, body, opts)
}

// PatchJSON performs a PATCH with body encoded as JSON. A nil body sends no content.
func (c *Client) PatchJSON(ctx context.Context, path string, body any, opts ...RequestOption) (*Response, error) {
	return c.sendJSON(ctx, http.MethodPatch, path, body, opts)
}

func (c *Client) sendJSON(ctx context.Context, method, path string, body any, opts []RequestOption) (*Response, error) {
	if body == nil {
		return c.Do(ctx, newRequest(method, path, nil, "", opts))
	}
	b, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("httpclient %s: encode body: %w", c.name, err)
	}
	return c.Do(ctx, newRequest(method, path, b, "application/json", opts))
}

func newRequest(method, path string, body []byte, contentType string, opts []RequestOption) Request {
	r := Request{Method: method, Path: path, Body: body, ContentType: contentType}
	for _, opt := range opts {
		opt(&r)
	}
	return r
}

// Do sends req, retrying transport errors and 5xx responses. It returns an
// error only when no response could be obtained; the last response is
// returned as is, whatever its status.
func (c *Client) Do(ctx context.Context, req Request) (*Response, error) {
	target := c.base.JoinPath(req.Path)
	if len(req.Query) > 0 {
		target.RawQuery = req.Query.Encode()
	}
	callID := middleware.GetReqID(ctx)
	if callID == "" {
		callID = uuid.NewString()
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = c.initialInterval

	var last *Response
	attempt := 0
	operation := func() (*Response, error) {
		attempt++
		resp, err := c.send(ctx, req, target.String(), callID)
		if err != nil {
			if ctx.Err() != nil {
				return nil, backoff.Permanent(err)
			}
			c.warn(ctx, "request failed, retrying", req.Method, target.String(), attempt, err)
			return nil, err
		}
		last = resp
		if resp.StatusCode >= http.StatusInternalServerError {
			c.warn(ctx, "server error, retrying", req.Method, target.String(), attempt, resp.Error())
			return resp, resp.Error()
		}
		return resp, nil
	}

	_, err := backoff.Retry(ctx, operation,
		backoff.WithBackOff(b),
		backoff.WithMaxTries(c.maxRetries+1),
	)
	if last != nil {
		var se *StatusError
		if err == nil || errors.As(err, &se) {
			return last, nil
		}
	}
	if err != nil {
		return nil, fmt.Errorf("httpclient %s: %s %s: %w", c.name, req.Method, target.String(), err)
	}
	return last, nil
}

func (c *Client) send(ctx context.Context, req Request, target, callID string) (*Response, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	var body io.Reader
	if req.Body != nil {
		body = bytes.NewReader(req.Body)
	}
	httpReq, err := http.NewRequestWithContext(ctx, req.Method, target, body)
	if err != nil {
		return nil, backoff.Permanent(err)
	}
	for k, vs := range req.Header {
		for _, v := range vs {
			httpReq.Header.Add(k, v)
		}
	}
	if req.ContentType != "" {
		httpReq.Header.Set("Content-Type", req.ContentType)
	}
	if httpReq.Header.Get("Accept") == "" {
		httpReq.Header.Set("Accept", "application/json")
	}
	httpReq.Header.Set(CallIDHeader, callID)
	if c.tokens != nil {
		tok, err := c.tokens.Token()
		if err != nil {
			return nil, fmt.Errorf("fetch token: %w", err)
		}
		tok.SetAuthHeader(httpReq)
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close() //nolint:errcheck
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	return &Response{
		Method:     req.Method,
		URL:        target,
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       data,
	}, nil
}

func (c *Client) warn(ctx context.Context, msg, method, target string, attempt int, err error) {
	if c.log == nil {
		return
	}
	c.log.WarnContext(ctx, "httpclient: "+msg,
		"downstream", c.name, "method", method, "url", target, "attempt", attempt, "error", err)
}
