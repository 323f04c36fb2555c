// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/staranto/fintrack/internal/format"
)

// Transaction types.
const (
	Income  = "INCOME"
	Expense = "EXPENSE"
	Both    = "BOTH"
)

// Divisions.
const (
	Personal = "PERSONAL"
	Office   = "OFFICE"
)

// Periods understood by the dashboard endpoints.
const (
	Weekly  = format.Weekly
	Monthly = format.Monthly
	Yearly  = format.Yearly
)

// Timestamp is a time the service sends as an ISO-8601 string, with or
// without a zone. It is sent back in the UTC millisecond form.
type Timestamp struct {
	time.Time
}

// isoLayout matches what browsers produce for Date.toISOString.
const isoLayout = "2006-01-02T15:04:05.000Z07:00"

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.UTC().Format(isoLayout))
}

func (t *Timestamp) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		t.Time = time.Time{}
		return nil
	}

	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("timestamp must be a string: %w", err)
	}
	if s == "" {
		t.Time = time.Time{}
		return nil
	}

	parsed, err := format.ParseDate(s)
	if err != nil {
		return err
	}
	t.Time = parsed
	return nil
}

// ISO formats t the way query parameters expect it.
func ISO(t time.Time) string {
	return t.UTC().Format(isoLayout)
}

type Transaction struct {
	ID          string    `json:"id"`
	Type        string    `json:"type"`
	Amount      float64   `json:"amount"`
	Category    string    `json:"category"`
	Division    string    `json:"division"`
	Description string    `json:"description,omitempty"`
	Date        Timestamp `json:"date"`
	CreatedAt   Timestamp `json:"createdAt,omitempty"`
	Editable    bool      `json:"isEditable"`
	AccountID   string    `json:"accountId,omitempty"`
}

// TransactionInput is the body of a transaction create or update.
type TransactionInput struct {
	Type        string    `json:"type"`
	Amount      float64   `json:"amount"`
	Category    string    `json:"category"`
	Division    string    `json:"division"`
	Description string    `json:"description"`
	Date        Timestamp `json:"date"`
	AccountID   string    `json:"accountId,omitempty"`
}

type Account struct {
	ID          string    `json:"id"`
	AccountName string    `json:"accountName"`
	AccountType string    `json:"accountType,omitempty"`
	Balance     float64   `json:"balance"`
	CreatedAt   Timestamp `json:"createdAt,omitempty"`
}

// AccountInput is the body of an account create or update.
type AccountInput struct {
	AccountName string  `json:"accountName"`
	AccountType string  `json:"accountType,omitempty"`
	Balance     float64 `json:"balance"`
}

type Transfer struct {
	ID            string    `json:"id"`
	FromAccountID string    `json:"fromAccountId"`
	ToAccountID   string    `json:"toAccountId"`
	Amount        float64   `json:"amount"`
	Description   string    `json:"description,omitempty"`
	Date          Timestamp `json:"date"`
}

// TransferInput is the body of a transfer create.
type TransferInput struct {
	FromAccountID string    `json:"fromAccountId"`
	ToAccountID   string    `json:"toAccountId"`
	Amount        float64   `json:"amount"`
	Description   string    `json:"description"`
	Date          Timestamp `json:"date"`
}

type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"`
	Icon string `json:"icon,omitempty"`
}

// CategoryInput is the body of a category create.
type CategoryInput struct {
	Name string `json:"name"`
	Type string `json:"type"`
	Icon string `json:"icon,omitempty"`
}

type Summary struct {
	TotalIncome  float64 `json:"totalIncome"`
	TotalExpense float64 `json:"totalExpense"`
	Balance      float64 `json:"balance"`
	PeriodLabel  string  `json:"periodLabel"`
}

// ChartData holds parallel series, one element per label.
type ChartData struct {
	Labels  []string  `json:"labels"`
	Income  []float64 `json:"income"`
	Expense []float64 `json:"expense"`
}

type CategoryTotal struct {
	Category   string  `json:"category"`
	Amount     float64 `json:"amount"`
	Percentage float64 `json:"percentage"`
}

type DivisionTotals struct {
	Income  float64 `json:"income"`
	Expense float64 `json:"expense"`
	Balance float64 `json:"balance"`
}

type DivisionSummary struct {
	Divisions map[string]DivisionTotals `json:"divisions"`
}

// Dashboard is everything the dashboard view shows for one period.
type Dashboard struct {
	Summary    Summary         `json:"summary"`
	Chart      ChartData       `json:"chart"`
	Categories []CategoryTotal `json:"categories"`
	Divisions  DivisionSummary `json:"divisions"`
}
