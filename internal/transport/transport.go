// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package transport

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
)

// Transport performs single network round trips against the finance service.
// Implementations never retry and never cache.
type Transport interface {
	Get(ctx context.Context, endpoint string, params url.Values) (*Response, error)
	Post(ctx context.Context, endpoint string, payload any) (*Response, error)
	Put(ctx context.Context, endpoint string, payload any) (*Response, error)
	Delete(ctx context.Context, endpoint string) (*Response, error)
}

// Response is a successful (2xx) reply.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Sentinel errors carried by *Error. Callers match them with errors.Is.
var (
	ErrTimeout = errors.New("request timeout")
	ErrStatus  = errors.New("unexpected status")
	ErrRequest = errors.New("request failed")
)

// Error describes a failed round trip: a network error, a timeout or a
// non-success status.
type Error struct {
	Method     string
	URL        string
	StatusCode int
	// Message is the service's own explanation, when it sent one.
	Message string
	Err     error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%s %s", e.Method, e.URL)
	if e.StatusCode != 0 {
		msg += fmt.Sprintf(": status %d", e.StatusCode)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}
