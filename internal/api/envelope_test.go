// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package api

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/staranto/fintrack/internal/transport"
	"github.com/staranto/fintrack/internal/transport/transporttest"
)

func TestDecode(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		want    Summary
		wantErr error
		errText string
	}{
		{
			name: "ok",
			body: `{"success":true,"data":{"totalIncome":10,"totalExpense":4,"balance":6,"periodLabel":"June 2025"}}`,
			want: Summary{TotalIncome: 10, TotalExpense: 4, Balance: 6, PeriodLabel: "June 2025"},
		},
		{
			name:    "unsuccessful with message",
			body:    `{"success":false,"message":"Invalid period"}`,
			wantErr: ErrUnsuccessful,
			errText: "Invalid period",
		},
		{
			name:    "unsuccessful without message",
			body:    `{"success":false}`,
			wantErr: ErrUnsuccessful,
		},
		{
			name:    "missing success",
			body:    `{"data":{}}`,
			wantErr: ErrUnsuccessful,
		},
		{
			name:    "no data",
			body:    `{"success":true}`,
			wantErr: ErrNoData,
		},
		{
			name:    "null data",
			body:    `{"success":true,"data":null}`,
			wantErr: ErrNoData,
		},
		{
			name:    "not json",
			body:    `<html>`,
			errText: "invalid response body",
		},
		{
			name:    "wrong shape",
			body:    `{"success":true,"data":[1,2]}`,
			errText: "failed to decode data",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := decode[Summary](dashboardSummary, transporttest.OK(tt.body))
			if tt.wantErr == nil && tt.errText == "" {
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
				return
			}
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
			if tt.errText != "" {
				assert.Contains(t, err.Error(), tt.errText)
			}
			assert.Contains(t, err.Error(), dashboardSummary)
		})
	}
}

func TestDecode_NilResponse(t *testing.T) {
	_, err := decode[Summary]("/x", nil)
	assert.Error(t, err)
}

func TestRaw(t *testing.T) {
	raw, err := Raw("/accounts", transporttest.OK(`{"success":true,"data":[{"id":"a1"}]}`))
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":"a1"}]`, string(raw))

	_, err = Raw("/accounts", transporttest.OK(`{"success":false}`))
	assert.ErrorIs(t, err, ErrUnsuccessful)
}

func TestClient_UnsuccessfulEnvelopeIsCached(t *testing.T) {
	// An unsuccessful envelope arrives over a 2xx reply, so the transport
	// sees a success and it is cached like any other response.
	fake := transporttest.New().OnJSON(http.MethodGet, accountsPath, `{"success":false,"message":"db down"}`)
	c := NewClient(fake)
	ctx := context.Background()

	_, err := c.Accounts.List(ctx)
	assert.ErrorIs(t, err, ErrUnsuccessful)
	_, err = c.Accounts.List(ctx)
	assert.ErrorIs(t, err, ErrUnsuccessful)
	assert.Equal(t, 1, fake.Count(http.MethodGet, accountsPath))
}

func TestTimestamp_JSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want time.Time
	}{
		{"utc", `"2025-06-01T10:15:00Z"`, time.Date(2025, 6, 1, 10, 15, 0, 0, time.UTC)},
		{"millis", `"2025-06-01T10:15:00.250Z"`, time.Date(2025, 6, 1, 10, 15, 0, 250000000, time.UTC)},
		{"no zone", `"2025-06-01T10:15:00"`, time.Date(2025, 6, 1, 10, 15, 0, 0, time.Local)},
		{"null", `null`, time.Time{}},
		{"empty", `""`, time.Time{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ts Timestamp
			require.NoError(t, json.Unmarshal([]byte(tt.in), &ts))
			assert.True(t, tt.want.Equal(ts.Time), "want %v, got %v", tt.want, ts.Time)
		})
	}

	var ts Timestamp
	assert.Error(t, json.Unmarshal([]byte(`42`), &ts))
	assert.Error(t, json.Unmarshal([]byte(`"yesterday"`), &ts))
}

func TestTimestamp_Marshal(t *testing.T) {
	b, err := json.Marshal(TransferInput{
		FromAccountID: "a1",
		ToAccountID:   "a2",
		Amount:        10,
		Date:          Timestamp{time.Date(2025, 6, 1, 15, 30, 0, 0, time.FixedZone("IST", 5*3600+1800))},
	})
	require.NoError(t, err)
	assert.JSONEq(t, `{"fromAccountId":"a1","toAccountId":"a2","amount":10,"description":"","date":"2025-06-01T10:00:00.000Z"}`, string(b))

	b, err = json.Marshal(Timestamp{})
	require.NoError(t, err)
	assert.Equal(t, "null", string(b))
}

func TestCategories_ListOrInitialize(t *testing.T) {
	t.Run("list works", func(t *testing.T) {
		fake := dashboardFake(t)
		c := NewClient(fake)

		cats, err := c.Categories.ListOrInitialize(context.Background())
		require.NoError(t, err)
		require.Len(t, cats, 1)
		assert.Equal(t, 0, fake.Count(http.MethodPost, categoriesInitPath))
	})

	t.Run("list fails then initializes", func(t *testing.T) {
		fake := dashboardFake(t)
		failed := false
		fake.On(http.MethodGet, categoriesPath, func(c transporttest.Call) (*transport.Response, error) {
			if !failed {
				failed = true
				return nil, &transport.Error{Method: c.Method, URL: c.Endpoint, StatusCode: 500, Err: transport.ErrStatus}
			}
			return transporttest.OK(`{"success":true,"data":[{"id":"c1","name":"salary","type":"INCOME"}]}`), nil
		})
		c := NewClient(fake)

		cats, err := c.Categories.ListOrInitialize(context.Background())
		require.NoError(t, err)
		require.Len(t, cats, 1)
		assert.Equal(t, "salary", cats[0].Name)
		assert.Equal(t, 1, fake.Count(http.MethodPost, categoriesInitPath))
		assert.Equal(t, 2, fake.Count(http.MethodGet, categoriesPath))
	})

	t.Run("initialize fails", func(t *testing.T) {
		fake := transporttest.New()
		c := NewClient(fake)

		_, err := c.Categories.ListOrInitialize(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to initialize categories")
		assert.Equal(t, 1, fake.Count(http.MethodGet, categoriesPath))
	})

	t.Run("unsuccessful list is not retried", func(t *testing.T) {
		fake := transporttest.New().OnJSON(http.MethodGet, categoriesPath, `{"success":false}`)
		c := NewClient(fake)

		_, err := c.Categories.ListOrInitialize(context.Background())
		assert.ErrorIs(t, err, ErrUnsuccessful)
		assert.Equal(t, 0, fake.Count(http.MethodPost, categoriesInitPath))
	})
}
