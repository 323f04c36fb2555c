// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/staranto/fintrack/internal/dispatch"
)

var _ dispatch.Metrics = (*Collector)(nil)

func TestResource(t *testing.T) {
	tests := []struct {
		endpoint string
		want     string
	}{
		{"/dashboard/summary", "dashboard/summary"},
		{"/dashboard/category-summary", "dashboard/category-summary"},
		{"/dashboard", "dashboard"},
		{"/transactions", "transactions"},
		{"/transactions/42", "transactions"},
		{"/categories/initialize", "categories"},
		{"accounts/", "accounts"},
		{"/", "root"},
		{"", "root"},
	}

	for _, tt := range tests {
		t.Run(tt.endpoint, func(t *testing.T) {
			assert.Equal(t, tt.want, Resource(tt.endpoint))
		})
	}
}

func TestCollector_Counts(t *testing.T) {
	c := New()

	c.Hit("/dashboard/summary")
	c.Hit("/dashboard/summary")
	c.Miss("/dashboard/summary")
	c.Bypass("/transactions")
	c.Invalidate()
	c.TransportError(http.MethodGet, "/accounts/7")

	assert.Equal(t, 2.0, testutil.ToFloat64(c.hits.WithLabelValues("dashboard/summary")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.misses.WithLabelValues("dashboard/summary")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.bypasses.WithLabelValues("transactions")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.invalidations))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.transportFails.WithLabelValues("GET", "accounts")))
}

func TestCollector_Handler(t *testing.T) {
	c := New()
	c.Miss("/accounts")

	srv := httptest.NewServer(c.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `fintrack_cache_misses_total{resource="accounts"} 1`)
}
