// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/staranto/fintrack/internal/cache"
	"github.com/staranto/fintrack/internal/dispatch"
	"github.com/staranto/fintrack/internal/transport"
)

// Client is the entry point to the finance service. One Client owns one
// response cache; build one per process and share it.
type Client struct {
	dispatcher *dispatch.Dispatcher
	caching    bool

	Dashboard    *DashboardService
	Transactions *TransactionService
	Accounts     *AccountService
	Transfers    *TransferService
	Categories   *CategoryService
}

// Option configures a Client.
type Option func(*clientOptions)

type clientOptions struct {
	store   *cache.Store[*transport.Response]
	metrics dispatch.Metrics
	caching bool
}

// WithStore supplies the response cache, e.g. one with a custom window.
func WithStore(s *cache.Store[*transport.Response]) Option {
	return func(o *clientOptions) {
		o.store = s
	}
}

// WithMetrics forwards dispatcher events to m.
func WithMetrics(m dispatch.Metrics) Option {
	return func(o *clientOptions) {
		o.metrics = m
	}
}

// WithCaching turns the response cache on or off for reads that would
// otherwise use it. Writes clear the cache either way.
func WithCaching(enabled bool) Option {
	return func(o *clientOptions) {
		o.caching = enabled
	}
}

// NewClient returns a Client sending requests through t.
func NewClient(t transport.Transport, opts ...Option) *Client {
	o := clientOptions{caching: true}
	for _, opt := range opts {
		opt(&o)
	}
	if o.store == nil {
		o.store = cache.NewStore[*transport.Response]()
	}

	var dopts []dispatch.Option
	if o.metrics != nil {
		dopts = append(dopts, dispatch.WithMetrics(o.metrics))
	}

	c := &Client{
		dispatcher: dispatch.New(o.store, t, dopts...),
		caching:    o.caching,
	}
	c.Dashboard = &DashboardService{client: c}
	c.Transactions = &TransactionService{client: c}
	c.Accounts = &AccountService{client: c}
	c.Transfers = &TransferService{client: c}
	c.Categories = &CategoryService{client: c}

	return c
}

// ClearCache drops every cached response.
func (c *Client) ClearCache() {
	c.dispatcher.Store().Clear()
}

// CacheLen returns the number of cached responses.
func (c *Client) CacheLen() int {
	return c.dispatcher.Store().Len()
}

func (c *Client) cached(ctx context.Context, endpoint string, params url.Values) (*transport.Response, error) {
	return c.dispatcher.FetchCached(ctx, endpoint, params, c.caching)
}

func (c *Client) bypass(ctx context.Context, endpoint string, params url.Values) (*transport.Response, error) {
	return c.dispatcher.Fetch(ctx, endpoint, params)
}

func (c *Client) post(ctx context.Context, endpoint string, payload any) (*transport.Response, error) {
	return c.dispatcher.DispatchWrite(ctx, http.MethodPost, endpoint, payload)
}

func (c *Client) put(ctx context.Context, endpoint string, payload any) (*transport.Response, error) {
	return c.dispatcher.DispatchWrite(ctx, http.MethodPut, endpoint, payload)
}

func (c *Client) delete(ctx context.Context, endpoint string) (*transport.Response, error) {
	return c.dispatcher.DispatchWrite(ctx, http.MethodDelete, endpoint, nil)
}
