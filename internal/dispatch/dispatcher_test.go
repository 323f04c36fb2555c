// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package dispatch

import (
	"context"
	"net/http"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/staranto/fintrack/internal/cache"
	"github.com/staranto/fintrack/internal/transport"
	"github.com/staranto/fintrack/internal/transport/transporttest"
)

const summary = "/dashboard/summary"

type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// recorder counts Metrics events.
type recorder struct {
	mu     sync.Mutex
	events map[string]int
}

func newRecorder() *recorder { return &recorder{events: map[string]int{}} }

func (r *recorder) add(k string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events[k]++
}

func (r *recorder) get(k string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.events[k]
}

func (r *recorder) Hit(e string) { r.add("hit " + e) }
func (r *recorder) Miss(e string) { r.add("miss " + e) }
func (r *recorder) Bypass(e string) { r.add("bypass " + e) }
func (r *recorder) Invalidate() { r.add("invalidate") }
func (r *recorder) TransportError(m, e string) { r.add("error " + m + " " + e) }

func setup(opts ...cache.Option) (*Dispatcher, *transporttest.Fake, *recorder) {
	fake := transporttest.New().
		OnJSON(http.MethodGet, summary, `{"success":true,"data":{"totalIncome":100}}`).
		OnJSON(http.MethodGet, "/accounts", `{"success":true,"data":[]}`).
		OnJSON(http.MethodPost, "/transactions", `{"success":true}`).
		OnJSON(http.MethodPut, "/transactions/1", `{"success":true}`).
		OnJSON(http.MethodDelete, "/transactions/1", `{"success":true}`).
		OnError(http.MethodPost, "/broken", http.StatusInternalServerError, "boom").
		OnError(http.MethodGet, "/broken", http.StatusInternalServerError, "boom")

	rec := newRecorder()
	d := New(cache.NewStore[*transport.Response](opts...), fake, WithMetrics(rec))
	return d, fake, rec
}

func monthly() url.Values { return url.Values{"period": {"MONTHLY"}} }

func TestFetchCached_HitAfterMiss(t *testing.T) {
	d, fake, rec := setup()
	ctx := context.Background()

	first, err := d.FetchCached(ctx, summary, monthly(), true)
	require.NoError(t, err)
	second, err := d.FetchCached(ctx, summary, monthly(), true)
	require.NoError(t, err)

	assert.Equal(t, 1, fake.Count(http.MethodGet, summary))
	assert.Same(t, first, second)
	assert.Equal(t, 1, rec.get("miss "+summary))
	assert.Equal(t, 1, rec.get("hit "+summary))
}

func TestFetchCached_FreshnessBoundary(t *testing.T) {
	tests := []struct {
		name      string
		advance   time.Duration
		wantCalls int
	}{
		{name: "inside window", advance: 29 * time.Second, wantCalls: 1},
		{name: "at window", advance: 30 * time.Second, wantCalls: 2},
		{name: "past window", advance: 31 * time.Second, wantCalls: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clk := &clock{now: time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)}
			d, fake, _ := setup(cache.WithClock(clk.Now))
			ctx := context.Background()

			_, err := d.FetchCached(ctx, summary, monthly(), true)
			require.NoError(t, err)
			clk.Advance(tt.advance)
			_, err = d.FetchCached(ctx, summary, monthly(), true)
			require.NoError(t, err)

			assert.Equal(t, tt.wantCalls, fake.Count(http.MethodGet, summary))
		})
	}
}

func TestFetchCached_FailureNotCached(t *testing.T) {
	d, fake, rec := setup()
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		_, err := d.FetchCached(ctx, "/broken", nil, true)
		require.Error(t, err)
		assert.ErrorIs(t, err, transport.ErrStatus)
	}

	assert.Equal(t, 2, fake.Count(http.MethodGet, "/broken"))
	assert.Equal(t, 0, d.Store().Len())
	assert.Equal(t, 2, rec.get("error GET /broken"))
}

func TestFetchCached_FailurePropagatedUnchanged(t *testing.T) {
	d, _, _ := setup()

	_, err := d.FetchCached(context.Background(), "/broken", nil, true)

	var te *transport.Error
	require.ErrorAs(t, err, &te)
	assert.Equal(t, http.StatusInternalServerError, te.StatusCode)
	assert.Equal(t, "boom", te.Message)
}

func TestFetchCached_Bypass(t *testing.T) {
	d, fake, rec := setup()
	ctx := context.Background()

	_, err := d.FetchCached(ctx, summary, monthly(), false)
	require.NoError(t, err)
	assert.Equal(t, 0, d.Store().Len(), "bypass never populates")

	_, err = d.FetchCached(ctx, summary, monthly(), true)
	require.NoError(t, err)
	require.Equal(t, 1, d.Store().Len())

	_, err = d.Fetch(ctx, summary, monthly())
	require.NoError(t, err)

	assert.Equal(t, 3, fake.Count(http.MethodGet, summary), "bypass never consults")
	assert.Equal(t, 2, rec.get("bypass "+summary))
}

func TestFetchCached_KeySensitivity(t *testing.T) {
	d, fake, _ := setup()
	ctx := context.Background()

	_, err := d.FetchCached(ctx, summary, url.Values{"period": {"MONTHLY"}}, true)
	require.NoError(t, err)
	_, err = d.FetchCached(ctx, summary, url.Values{"period": {"YEARLY"}}, true)
	require.NoError(t, err)

	assert.Equal(t, 2, fake.Count(http.MethodGet, summary))
	assert.Equal(t, 2, d.Store().Len())
}

func TestFetchCached_ParamOrderIrrelevant(t *testing.T) {
	d, fake, _ := setup()
	ctx := context.Background()

	a := url.Values{}
	a.Set("period", "MONTHLY")
	a.Set("date", "2025-06")
	b := url.Values{}
	b.Set("date", "2025-06")
	b.Set("period", "MONTHLY")

	_, err := d.FetchCached(ctx, summary, a, true)
	require.NoError(t, err)
	_, err = d.FetchCached(ctx, summary, b, true)
	require.NoError(t, err)

	assert.Equal(t, 1, fake.Count(http.MethodGet, summary))
}

func TestDispatchWrite_Invalidates(t *testing.T) {
	tests := []struct {
		name     string
		method   string
		endpoint string
		wantErr  bool
	}{
		{name: "post", method: http.MethodPost, endpoint: "/transactions"},
		{name: "put", method: http.MethodPut, endpoint: "/transactions/1"},
		{name: "delete", method: http.MethodDelete, endpoint: "/transactions/1"},
		{name: "failed write", method: http.MethodPost, endpoint: "/broken", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, fake, rec := setup()
			ctx := context.Background()

			_, err := d.FetchCached(ctx, summary, monthly(), true)
			require.NoError(t, err)
			_, err = d.FetchCached(ctx, "/accounts", nil, true)
			require.NoError(t, err)
			require.Equal(t, 2, d.Store().Len())

			_, err = d.DispatchWrite(ctx, tt.method, tt.endpoint, map[string]any{"amount": 10})
			if tt.wantErr {
				assert.ErrorIs(t, err, transport.ErrStatus)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, 0, d.Store().Len())
			assert.Equal(t, 1, rec.get("invalidate"))

			_, err = d.FetchCached(ctx, summary, monthly(), true)
			require.NoError(t, err)
			assert.Equal(t, 2, fake.Count(http.MethodGet, summary))
		})
	}
}

func TestDispatchWrite_ClearsBeforeSending(t *testing.T) {
	d, fake, _ := setup()
	ctx := context.Background()

	_, err := d.FetchCached(ctx, summary, monthly(), true)
	require.NoError(t, err)

	var lenAtSend int
	fake.On(http.MethodPost, "/transactions", func(transporttest.Call) (*transport.Response, error) {
		lenAtSend = d.Store().Len()
		return transporttest.OK(`{"success":true}`), nil
	})

	_, err = d.DispatchWrite(ctx, http.MethodPost, "/transactions", nil)
	require.NoError(t, err)
	assert.Equal(t, 0, lenAtSend)
}

func TestDispatchWrite_UnsupportedMethod(t *testing.T) {
	d, fake, rec := setup()
	ctx := context.Background()

	_, err := d.FetchCached(ctx, summary, monthly(), true)
	require.NoError(t, err)

	_, err = d.DispatchWrite(ctx, http.MethodPatch, "/transactions/1", nil)
	assert.ErrorIs(t, err, ErrUnsupportedMethod)
	assert.Equal(t, 1, d.Store().Len(), "rejected before clearing")
	assert.Equal(t, 1, fake.Total())
	assert.Equal(t, 0, rec.get("invalidate"))
}

func TestDispatchWrite_EmptyStore(t *testing.T) {
	d, _, _ := setup()

	assert.NotPanics(t, func() {
		_, err := d.DispatchWrite(context.Background(), http.MethodDelete, "/transactions/1", nil)
		assert.NoError(t, err)
	})
	assert.Equal(t, 0, d.Store().Len())
}

func TestFetchCached_ConcurrentMissesShareOneCall(t *testing.T) {
	d, fake, _ := setup()
	entered, release := fake.Hold()
	ctx := context.Background()

	const n = 16
	var wg sync.WaitGroup
	results := make([]*transport.Response, n)
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = d.FetchCached(ctx, summary, monthly(), true)
		}(i)
	}

	<-entered
	// Let the remaining callers reach the in-flight call.
	time.Sleep(50 * time.Millisecond)
	release()
	wg.Wait()

	for i := 0; i < n; i++ {
		require.NoError(t, errs[i])
		assert.Same(t, results[0], results[i])
	}
	assert.Equal(t, 1, fake.Count(http.MethodGet, summary))
}

func TestFetchCached_InFlightAcrossClear(t *testing.T) {
	d, fake, _ := setup()
	entered, release := fake.Hold()
	ctx := context.Background()

	done := make(chan error, 1)
	go func() {
		resp, err := d.FetchCached(ctx, summary, monthly(), true)
		if err == nil && resp == nil {
			err = assert.AnError
		}
		done <- err
	}()

	<-entered
	d.Store().Clear()
	release()

	require.NoError(t, <-done, "caller still gets its result")
	assert.Equal(t, 0, d.Store().Len(), "result from before the clear is not stored")
}

func TestFetchCached_CallerCancel(t *testing.T) {
	d, fake, _ := setup()
	_, release := fake.Hold()
	defer release()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := d.FetchCached(ctx, summary, monthly(), true)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, 0, d.Store().Len())
}

func TestFetchCached_JoinerOutlivesCancelledLeader(t *testing.T) {
	d, fake, _ := setup()
	entered, release := fake.Hold()
	defer release()

	leaderCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	leader := make(chan error, 1)
	go func() {
		_, err := d.FetchCached(leaderCtx, summary, monthly(), true)
		leader <- err
	}()
	<-entered

	type result struct {
		resp *transport.Response
		err  error
	}
	joiner := make(chan result, 1)
	go func() {
		resp, err := d.FetchCached(context.Background(), summary, monthly(), true)
		joiner <- result{resp, err}
	}()
	// Let the joiner reach the in-flight call.
	time.Sleep(50 * time.Millisecond)

	cancel()
	assert.ErrorIs(t, <-leader, context.Canceled)

	release()
	got := <-joiner
	require.NoError(t, got.err)
	require.NotNil(t, got.resp)
	assert.Equal(t, 1, fake.Count(http.MethodGet, summary))
	assert.Equal(t, 1, d.Store().Len(), "shared result is stored")
}
