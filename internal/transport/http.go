// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/apex/log"
	"github.com/hashicorp/go-cleanhttp"
	"github.com/tidwall/gjson"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	// DefaultBaseURL is used when nothing else is configured.
	DefaultBaseURL = "http://localhost:8080/api"
	// DefaultTimeout bounds every round trip.
	DefaultTimeout = 10 * time.Second

	tracerName = "github.com/staranto/fintrack/internal/transport"
)

// HTTP is the Transport used against the real service.
type HTTP struct {
	base   *url.URL
	client *http.Client
	tracer trace.Tracer
}

// Option configures an HTTP transport.
type Option func(*HTTP)

// WithTimeout overrides DefaultTimeout. Non-positive values are ignored.
func WithTimeout(d time.Duration) Option {
	return func(h *HTTP) {
		if d > 0 {
			h.client.Timeout = d
		}
	}
}

// WithHTTPClient replaces the pooled client. The client's own Timeout is
// kept as is.
func WithHTTPClient(c *http.Client) Option {
	return func(h *HTTP) {
		if c != nil {
			h.client = c
		}
	}
}

// WithTracerProvider sets where request spans go. The global provider is used
// otherwise.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(h *HTTP) {
		if tp != nil {
			h.tracer = tp.Tracer(tracerName)
		}
	}
}

// NewHTTP returns a transport rooted at baseURL, e.g.
// http://localhost:8080/api.
func NewHTTP(baseURL string, opts ...Option) (*HTTP, error) {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL %q: %w", baseURL, err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("invalid base URL %q: scheme must be http or https", baseURL)
	}

	client := cleanhttp.DefaultPooledClient()
	client.Timeout = DefaultTimeout

	h := &HTTP{
		base:   base,
		client: client,
		tracer: otel.GetTracerProvider().Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(h)
	}

	return h, nil
}

// BaseURL returns the configured service root.
func (h *HTTP) BaseURL() string {
	return h.base.String()
}

func (h *HTTP) Get(ctx context.Context, endpoint string, params url.Values) (*Response, error) {
	return h.do(ctx, http.MethodGet, endpoint, params, nil)
}

func (h *HTTP) Post(ctx context.Context, endpoint string, payload any) (*Response, error) {
	return h.do(ctx, http.MethodPost, endpoint, nil, payload)
}

func (h *HTTP) Put(ctx context.Context, endpoint string, payload any) (*Response, error) {
	return h.do(ctx, http.MethodPut, endpoint, nil, payload)
}

func (h *HTTP) Delete(ctx context.Context, endpoint string) (*Response, error) {
	return h.do(ctx, http.MethodDelete, endpoint, nil, nil)
}

// resolve joins endpoint onto the base path and appends params.
func (h *HTTP) resolve(endpoint string, params url.Values) string {
	u := *h.base
	u.Path = strings.TrimRight(u.Path, "/") + "/" + strings.TrimLeft(endpoint, "/")
	u.RawQuery = ""
	if len(params) > 0 {
		u.RawQuery = params.Encode()
	}
	return u.String()
}

func (h *HTTP) do(ctx context.Context, method, endpoint string, params url.Values, payload any) (*Response, error) {
	target := h.resolve(endpoint, params)

	ctx, span := h.tracer.Start(ctx, method+" "+endpoint, trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()
	span.SetAttributes(
		attribute.String("http.request.method", method),
		attribute.String("url.full", target),
	)

	resp, err := h.roundTrip(ctx, method, target, payload)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		var te *Error
		if errors.As(err, &te) && te.StatusCode != 0 {
			span.SetAttributes(attribute.Int("http.response.status_code", te.StatusCode))
		}
		return nil, err
	}

	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))
	return resp, nil
}

func (h *HTTP) roundTrip(ctx context.Context, method, target string, payload any) (*Response, error) {
	fail := func(status int, msg string, err error) *Error {
		return &Error{Method: method, URL: target, StatusCode: status, Message: msg, Err: err}
	}

	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return nil, fail(0, "", fmt.Errorf("%w: failed to encode payload: %w", ErrRequest, err))
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, fail(0, "", fmt.Errorf("%w: failed to create request: %w", ErrRequest, err))
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	log.Debugf("%s %s", method, target)

	resp, err := h.client.Do(req)
	if err != nil {
		if isTimeout(err) {
			log.Error("request timeout")
			return nil, fail(0, "", fmt.Errorf("%w: %w", ErrTimeout, err))
		}
		return nil, fail(0, "", fmt.Errorf("%w: %w", ErrRequest, err))
	}
	defer resp.Body.Close()

	var doc bytes.Buffer
	if _, err := doc.ReadFrom(resp.Body); err != nil {
		if isTimeout(err) {
			log.Error("request timeout")
			return nil, fail(resp.StatusCode, "", fmt.Errorf("%w: %w", ErrTimeout, err))
		}
		return nil, fail(resp.StatusCode, "", fmt.Errorf("%w: failed to read response: %w", ErrRequest, err))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := gjson.GetBytes(doc.Bytes(), "message").String()
		return nil, fail(resp.StatusCode, msg, ErrStatus)
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       doc.Bytes(),
	}, nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}
