// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// Package transporttest provides an in-memory transport.Transport for tests.
package transporttest

import (
	"context"
	"net/http"
	"net/url"
	"sync"

	"github.com/staranto/fintrack/internal/transport"
)

// Call records one request made through a Fake.
type Call struct {
	Method   string
	Endpoint string
	Params   url.Values
	Payload  any
}

// Handler produces the reply for a call.
type Handler func(Call) (*transport.Response, error)

// Fake is a routable transport. Requests with no route fail with a 404
// *transport.Error.
type Fake struct {
	mu      sync.Mutex
	routes  map[string]Handler
	calls   []Call
	gate    chan struct{}
	entered chan struct{}
	once    *sync.Once
}

// New returns a Fake with no routes.
func New() *Fake {
	return &Fake{routes: map[string]Handler{}}
}

// On routes method+endpoint to h.
func (f *Fake) On(method, endpoint string, h Handler) *Fake {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.routes[method+" "+endpoint] = h
	return f
}

// OnJSON routes method+endpoint to a 200 reply carrying body.
func (f *Fake) OnJSON(method, endpoint, body string) *Fake {
	return f.On(method, endpoint, func(Call) (*transport.Response, error) {
		return OK(body), nil
	})
}

// OnError routes method+endpoint to a failure with the given status.
func (f *Fake) OnError(method, endpoint string, status int, message string) *Fake {
	return f.On(method, endpoint, func(c Call) (*transport.Response, error) {
		return nil, &transport.Error{
			Method:     c.Method,
			URL:        c.Endpoint,
			StatusCode: status,
			Message:    message,
			Err:        transport.ErrStatus,
		}
	})
}

// Hold makes every following call block until release is called or the
// call's context ends. entered receives once per call that reaches the gate.
func (f *Fake) Hold() (entered <-chan struct{}, release func()) {
	f.mu.Lock()
	defer f.mu.Unlock()

	gate := make(chan struct{})
	f.gate = gate
	f.entered = make(chan struct{}, 128)
	f.once = &sync.Once{}
	once := f.once

	return f.entered, func() {
		once.Do(func() { close(gate) })
	}
}

// Calls returns a copy of every call made so far.
func (f *Fake) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Call(nil), f.calls...)
}

// Count returns how many calls were made for method+endpoint.
func (f *Fake) Count(method, endpoint string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if c.Method == method && c.Endpoint == endpoint {
			n++
		}
	}
	return n
}

// Total returns the number of calls made.
func (f *Fake) Total() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func (f *Fake) Get(ctx context.Context, endpoint string, params url.Values) (*transport.Response, error) {
	return f.do(ctx, Call{Method: http.MethodGet, Endpoint: endpoint, Params: params})
}

func (f *Fake) Post(ctx context.Context, endpoint string, payload any) (*transport.Response, error) {
	return f.do(ctx, Call{Method: http.MethodPost, Endpoint: endpoint, Payload: payload})
}

func (f *Fake) Put(ctx context.Context, endpoint string, payload any) (*transport.Response, error) {
	return f.do(ctx, Call{Method: http.MethodPut, Endpoint: endpoint, Payload: payload})
}

func (f *Fake) Delete(ctx context.Context, endpoint string) (*transport.Response, error) {
	return f.do(ctx, Call{Method: http.MethodDelete, Endpoint: endpoint})
}

func (f *Fake) do(ctx context.Context, c Call) (*transport.Response, error) {
	f.mu.Lock()
	f.calls = append(f.calls, c)
	h := f.routes[c.Method+" "+c.Endpoint]
	gate, entered := f.gate, f.entered
	f.mu.Unlock()

	if gate != nil {
		select {
		case entered <- struct{}{}:
		default:
		}
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	if h == nil {
		return nil, &transport.Error{
			Method:     c.Method,
			URL:        c.Endpoint,
			StatusCode: http.StatusNotFound,
			Err:        transport.ErrStatus,
		}
	}
	return h(c)
}

// OK wraps body in a 200 response.
func OK(body string) *transport.Response {
	return &transport.Response{
		StatusCode: http.StatusOK,
		Header:     http.Header{"Content-Type": {"application/json"}},
		Body:       []byte(body),
	}
}
