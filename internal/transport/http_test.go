// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package transport

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestNewHTTP_BaseURL(t *testing.T) {
	tests := []struct {
		name    string
		base    string
		want    string
		wantErr bool
	}{
		{name: "default", base: "", want: DefaultBaseURL},
		{name: "explicit", base: "https://fin.example.com/api", want: "https://fin.example.com/api"},
		{name: "bad scheme", base: "ftp://fin.example.com", wantErr: true},
		{name: "unparseable", base: "http://[::1", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, err := NewHTTP(tt.base)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, h.BaseURL())
			assert.Equal(t, DefaultTimeout, h.client.Timeout)
		})
	}
}

func TestHTTP_Resolve(t *testing.T) {
	tests := []struct {
		name     string
		base     string
		endpoint string
		params   url.Values
		want     string
	}{
		{
			name:     "plain",
			base:     "http://localhost:8080/api",
			endpoint: "/accounts",
			want:     "http://localhost:8080/api/accounts",
		},
		{
			name:     "trailing slash on base",
			base:     "http://localhost:8080/api/",
			endpoint: "/accounts/7",
			want:     "http://localhost:8080/api/accounts/7",
		},
		{
			name:     "params",
			base:     "http://localhost:8080/api",
			endpoint: "/dashboard/summary",
			params:   url.Values{"period": {"MONTHLY"}, "date": {"2025-06"}},
			want:     "http://localhost:8080/api/dashboard/summary?date=2025-06&period=MONTHLY",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, err := NewHTTP(tt.base)
			require.NoError(t, err)
			assert.Equal(t, tt.want, h.resolve(tt.endpoint, tt.params))
		})
	}
}

func TestHTTP_Get(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/dashboard/chart", r.URL.Path)
		assert.Equal(t, "YEARLY", r.URL.Query().Get("period"))
		assert.Equal(t, "2025", r.URL.Query().Get("year"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"success":true,"data":{"labels":["Jan"]}}`)
	}))
	defer srv.Close()

	h, err := NewHTTP(srv.URL + "/api")
	require.NoError(t, err)

	resp, err := h.Get(context.Background(), "/dashboard/chart", url.Values{"period": {"YEARLY"}, "year": {"2025"}})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"success":true,"data":{"labels":["Jan"]}}`, string(resp.Body))
}

func TestHTTP_WritesSendJSON(t *testing.T) {
	type seen struct {
		method string
		ctype  string
		body   map[string]any
	}
	got := make(chan seen, 1)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var s seen
		s.method = r.Method
		s.ctype = r.Header.Get("Content-Type")
		if r.Body != nil {
			b, _ := io.ReadAll(r.Body)
			if len(b) > 0 {
				_ = json.Unmarshal(b, &s.body)
			}
		}
		got <- s
		_, _ = io.WriteString(w, `{"success":true}`)
	}))
	defer srv.Close()

	h, err := NewHTTP(srv.URL)
	require.NoError(t, err)
	ctx := context.Background()
	payload := map[string]any{"accountName": "Savings", "balance": 10.5}

	_, err = h.Post(ctx, "/accounts", payload)
	require.NoError(t, err)
	s := <-got
	assert.Equal(t, http.MethodPost, s.method)
	assert.Equal(t, "application/json", s.ctype)
	assert.Equal(t, "Savings", s.body["accountName"])

	_, err = h.Put(ctx, "/accounts/1", payload)
	require.NoError(t, err)
	s = <-got
	assert.Equal(t, http.MethodPut, s.method)
	assert.Equal(t, 10.5, s.body["balance"])

	_, err = h.Delete(ctx, "/accounts/1")
	require.NoError(t, err)
	s = <-got
	assert.Equal(t, http.MethodDelete, s.method)
	assert.Nil(t, s.body)
}

func TestHTTP_StatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{"success":false,"message":"Transaction not found"}`)
	}))
	defer srv.Close()

	h, err := NewHTTP(srv.URL)
	require.NoError(t, err)

	_, err = h.Get(context.Background(), "/transactions/99", nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrStatus)

	var te *Error
	require.True(t, errors.As(err, &te))
	assert.Equal(t, http.StatusNotFound, te.StatusCode)
	assert.Equal(t, "Transaction not found", te.Message)
	assert.Equal(t, http.MethodGet, te.Method)
	assert.Contains(t, err.Error(), "status 404")
}

func TestHTTP_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	h, err := NewHTTP(srv.URL, WithTimeout(50*time.Millisecond))
	require.NoError(t, err)

	_, err = h.Get(context.Background(), "/accounts", nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTimeout)
}

func TestHTTP_ConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL
	srv.Close()

	h, err := NewHTTP(base)
	require.NoError(t, err)

	_, err = h.Get(context.Background(), "/accounts", nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRequest)
	assert.NotErrorIs(t, err, ErrStatus)
}

func TestHTTP_BadPayload(t *testing.T) {
	h, err := NewHTTP("")
	require.NoError(t, err)

	_, err = h.Post(context.Background(), "/accounts", map[string]any{"bad": make(chan int)})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRequest)
}

func TestHTTP_Spans(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/broken" {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_, _ = io.WriteString(w, `{"success":true}`)
	}))
	defer srv.Close()

	rec := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec))

	h, err := NewHTTP(srv.URL, WithTracerProvider(tp))
	require.NoError(t, err)

	_, err = h.Get(context.Background(), "/accounts", nil)
	require.NoError(t, err)
	_, err = h.Get(context.Background(), "/broken", nil)
	require.Error(t, err)

	spans := rec.Ended()
	require.Len(t, spans, 2)

	assert.Equal(t, "GET /accounts", spans[0].Name())
	assert.Equal(t, codes.Unset, spans[0].Status().Code)

	assert.Equal(t, "GET /broken", spans[1].Name())
	assert.Equal(t, codes.Error, spans[1].Status().Code)

	var status int64
	for _, kv := range spans[1].Attributes() {
		if kv.Key == "http.response.status_code" {
			status = kv.Value.AsInt64()
		}
	}
	assert.Equal(t, int64(http.StatusInternalServerError), status)
}
