// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package format

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDate(t *testing.T) {
	ts := time.Date(2025, time.June, 1, 14, 30, 0, 0, time.UTC)

	assert.Equal(t, "Jun 01, 2025", Date(ts))
	assert.Equal(t, "Jun 01, 2025 14:30", DateTime(ts))
	assert.Equal(t, "2025-06", Month(ts))
	assert.Equal(t, "", Date(time.Time{}))
	assert.Equal(t, "", DateTime(time.Time{}))
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		in      string
		want    time.Time
		wantErr bool
	}{
		{in: "2025-06-01T14:30:00Z", want: time.Date(2025, 6, 1, 14, 30, 0, 0, time.UTC)},
		{in: "2025-06-01T14:30:00.123Z", want: time.Date(2025, 6, 1, 14, 30, 0, 123000000, time.UTC)},
		{in: "2025-06-01T14:30:00", want: time.Date(2025, 6, 1, 14, 30, 0, 0, time.Local)},
		{in: "2025-06-01T14:30", want: time.Date(2025, 6, 1, 14, 30, 0, 0, time.Local)},
		{in: "2025-06-01", want: time.Date(2025, 6, 1, 0, 0, 0, 0, time.Local)},
		{in: " 2025-06-01 ", want: time.Date(2025, 6, 1, 0, 0, 0, 0, time.Local)},
		{in: "June 1st", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseDate(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "want %v, got %v", tt.want, got)
		})
	}
}

func TestCurrency(t *testing.T) {
	tests := []struct {
		amount float64
		want   string
	}{
		{0, "₹0.00"},
		{5, "₹5.00"},
		{999.5, "₹999.50"},
		{1000, "₹1,000.00"},
		{12345.678, "₹12,345.68"},
		{100000, "₹1,00,000.00"},
		{1234567.89, "₹12,34,567.89"},
		{123456789, "₹12,34,56,789.00"},
		{-2500, "₹-2,500.00"},
		{-0.001, "₹0.00"},
		{math.NaN(), "₹0.00"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, Currency(tt.amount))
		})
	}
}

func TestCurrencyIntl(t *testing.T) {
	assert.Equal(t, "₹1,234,567.89", CurrencyIntl(1234567.89))
	assert.Equal(t, "₹1,000.00", CurrencyIntl(1000))
}

func TestDateRange(t *testing.T) {
	// Wednesday.
	ref := time.Date(2025, time.June, 11, 15, 4, 5, 0, time.UTC)
	last := func(y int, m time.Month, d int) time.Time {
		return time.Date(y, m, d, 23, 59, 59, 999999999, time.UTC)
	}

	tests := []struct {
		period    string
		wantStart time.Time
		wantEnd   time.Time
	}{
		{Weekly, time.Date(2025, 6, 8, 0, 0, 0, 0, time.UTC), last(2025, 6, 14)},
		{Monthly, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), last(2025, 6, 30)},
		{Yearly, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), last(2025, 12, 31)},
		{"", time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), last(2025, 6, 30)},
	}

	for _, tt := range tests {
		t.Run(tt.period, func(t *testing.T) {
			start, end := DateRange(tt.period, ref)
			assert.Equal(t, tt.wantStart, start)
			assert.Equal(t, tt.wantEnd, end)
		})
	}
}

func TestDateRange_WeekOnSunday(t *testing.T) {
	sunday := time.Date(2025, time.June, 8, 9, 0, 0, 0, time.UTC)
	start, _ := DateRange(Weekly, sunday)
	assert.Equal(t, time.Date(2025, 6, 8, 0, 0, 0, 0, time.UTC), start)
}

func TestDateRange_February(t *testing.T) {
	_, end := DateRange(Monthly, time.Date(2024, time.February, 10, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, 29, end.Day())
}

func TestValidPeriod(t *testing.T) {
	assert.True(t, ValidPeriod("WEEKLY"))
	assert.True(t, ValidPeriod("MONTHLY"))
	assert.True(t, ValidPeriod("YEARLY"))
	assert.False(t, ValidPeriod("monthly"))
	assert.False(t, ValidPeriod(""))
}

func TestCategoryIcon(t *testing.T) {
	assert.Equal(t, "⛽", CategoryIcon("fuel"))
	assert.Equal(t, "💳", CategoryIcon("other-expense"))
	assert.Equal(t, DefaultIcon, CategoryIcon("unknown"))
	assert.Equal(t, DefaultIcon, CategoryIcon(""))
}

func TestAgo(t *testing.T) {
	assert.Equal(t, "", Ago(time.Time{}))
	assert.Equal(t, "2 hours ago", Ago(time.Now().Add(-2*time.Hour-time.Minute)))
}
