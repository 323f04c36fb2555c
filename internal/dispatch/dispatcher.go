// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package dispatch

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/apex/log"
	"golang.org/x/sync/singleflight"

	"github.com/staranto/fintrack/internal/cache"
	"github.com/staranto/fintrack/internal/transport"
)

// ErrUnsupportedMethod is returned by DispatchWrite for anything other than
// POST, PUT or DELETE.
var ErrUnsupportedMethod = errors.New("unsupported write method")

// Dispatcher routes reads through the response cache and writes through a
// full cache invalidation.
type Dispatcher struct {
	store     *cache.Store[*transport.Response]
	transport transport.Transport
	metrics   Metrics
	group     singleflight.Group
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithMetrics sets the event sink. NoopMetrics is used otherwise.
func WithMetrics(m Metrics) Option {
	return func(d *Dispatcher) {
		if m != nil {
			d.metrics = m
		}
	}
}

// New returns a Dispatcher over store and t.
func New(store *cache.Store[*transport.Response], t transport.Transport, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		store:     store,
		transport: t,
		metrics:   NoopMetrics{},
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Store returns the underlying cache.
func (d *Dispatcher) Store() *cache.Store[*transport.Response] {
	return d.store
}

// FetchCached performs a read of endpoint. With cacheEnabled false the store
// is neither consulted nor populated. Otherwise a fresh cached response is
// returned without a round trip, and a successful round trip is stored.
// Failures are returned unchanged and never stored.
//
// Concurrent misses for one key share a single round trip. The response
// returned to callers must be treated as read-only.
func (d *Dispatcher) FetchCached(ctx context.Context, endpoint string, params url.Values, cacheEnabled bool) (*transport.Response, error) {
	if !cacheEnabled {
		d.metrics.Bypass(endpoint)
		log.Debugf("cache bypass: %s", endpoint)
		return d.get(ctx, endpoint, params)
	}

	key := cache.Key(endpoint, params)
	if resp, ok := d.store.Get(key); ok {
		d.metrics.Hit(endpoint)
		log.Debugf("cache hit: %s", key)
		return resp, nil
	}

	d.metrics.Miss(endpoint)
	log.Debugf("cache miss: %s", key)

	// Flights are scoped to a generation so a read that started before a
	// Clear is never joined by one that started after it.
	gen := d.store.Generation()
	flight := key + "#" + strconv.FormatUint(gen, 10)

	// The flight outlives any one caller. Only the transport timeout bounds
	// it, so a caller that leaves early cannot fail the others.
	fctx := context.WithoutCancel(ctx)
	ch := d.group.DoChan(flight, func() (any, error) {
		resp, err := d.get(fctx, endpoint, params)
		if err != nil {
			return nil, err
		}
		if !d.store.PutIf(gen, key, resp) {
			log.Debugf("cache invalidated in flight, not storing: %s", key)
		}
		return resp, nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*transport.Response), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Fetch performs a read that bypasses the cache.
func (d *Dispatcher) Fetch(ctx context.Context, endpoint string, params url.Values) (*transport.Response, error) {
	return d.FetchCached(ctx, endpoint, params, false)
}

// DispatchWrite clears the whole cache and then performs the write. The cache
// is cleared even when the write fails.
func (d *Dispatcher) DispatchWrite(ctx context.Context, method, endpoint string, payload any) (*transport.Response, error) {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodDelete:
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedMethod, method)
	}

	d.store.Clear()
	d.metrics.Invalidate()

	var (
		resp *transport.Response
		err  error
	)
	switch method {
	case http.MethodPost:
		resp, err = d.transport.Post(ctx, endpoint, payload)
	case http.MethodPut:
		resp, err = d.transport.Put(ctx, endpoint, payload)
	case http.MethodDelete:
		resp, err = d.transport.Delete(ctx, endpoint)
	}
	if err != nil {
		d.metrics.TransportError(method, endpoint)
		log.WithError(err).WithField("endpoint", endpoint).Debug("write failed")
		return nil, err
	}

	return resp, nil
}

func (d *Dispatcher) get(ctx context.Context, endpoint string, params url.Values) (*transport.Response, error) {
	resp, err := d.transport.Get(ctx, endpoint, params)
	if err != nil {
		d.metrics.TransportError(http.MethodGet, endpoint)
		log.WithError(err).WithField("endpoint", endpoint).Debug("read failed")
		return nil, err
	}
	return resp, nil
}
