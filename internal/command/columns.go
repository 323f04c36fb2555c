// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"strconv"

	"github.com/staranto/fintrack/internal/format"
	"github.com/staranto/fintrack/internal/output"
)

func renderCurrency(v any) string {
	f, ok := v.(float64)
	if !ok {
		return "-"
	}
	return format.Currency(f)
}

func renderDate(v any) string {
	s, ok := v.(string)
	if !ok || s == "" {
		return "-"
	}
	t, err := format.ParseDate(s)
	if err != nil {
		return s
	}
	return format.Date(t.Local())
}

// renderCategory prefixes a category name with its icon.
func renderCategory(v any) string {
	name, _ := v.(string)
	if name == "" {
		return "-"
	}
	return format.CategoryIcon(name) + " " + name
}

// renderOwnIcon shows an icon the service sent, or the default.
func renderOwnIcon(v any) string {
	if icon, _ := v.(string); icon != "" {
		return icon
	}
	return format.DefaultIcon
}

func renderPercent(v any) string {
	f, _ := v.(float64)
	return strconv.FormatFloat(f, 'f', 1, 64) + "%"
}

var transactionColumns = []output.Column{
	{Key: "id"},
	{Key: "date", Render: renderDate},
	{Key: "type"},
	{Key: "category", Render: renderCategory},
	{Key: "division"},
	{Key: "amount", Render: renderCurrency},
	{Key: "description"},
}

var accountColumns = []output.Column{
	{Key: "id"},
	{Key: "accountName", Name: "name"},
	{Key: "accountType", Name: "type"},
	{Key: "balance", Render: renderCurrency},
	{Key: "createdAt", Name: "created", Render: renderDate},
}

var transferColumns = []output.Column{
	{Key: "id"},
	{Key: "date", Render: renderDate},
	{Key: "fromAccountId", Name: "from"},
	{Key: "toAccountId", Name: "to"},
	{Key: "amount", Render: renderCurrency},
	{Key: "description"},
}

var categoryColumns = []output.Column{
	{Key: "id"},
	{Key: "icon", Render: renderOwnIcon},
	{Key: "name"},
	{Key: "type"},
}

var summaryColumns = []output.Column{
	{Key: "periodLabel", Name: "period"},
	{Key: "totalIncome", Name: "income", Render: renderCurrency},
	{Key: "totalExpense", Name: "expense", Render: renderCurrency},
	{Key: "balance", Render: renderCurrency},
}

var chartColumns = []output.Column{
	{Key: "label"},
	{Key: "income", Render: renderCurrency},
	{Key: "expense", Render: renderCurrency},
}

var categoryTotalColumns = []output.Column{
	{Key: "category", Render: renderCategory},
	{Key: "amount", Render: renderCurrency},
	{Key: "percentage", Name: "share", Render: renderPercent},
}

var divisionColumns = []output.Column{
	{Key: "division"},
	{Key: "income", Render: renderCurrency},
	{Key: "expense", Render: renderCurrency},
	{Key: "balance", Render: renderCurrency},
}
