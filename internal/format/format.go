// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// Package format renders dates, amounts and category names for display.
package format

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

// Periods.
const (
	Weekly  = "WEEKLY"
	Monthly = "MONTHLY"
	Yearly  = "YEARLY"
)

const (
	dateLayout     = "Jan 02, 2006"
	dateTimeLayout = "Jan 02, 2006 15:04"
	monthLayout    = "2006-01"

	// CurrencySymbol prefixes every formatted amount.
	CurrencySymbol = "₹"
)

// parseLayouts are tried in order by ParseDate. Layouts without a zone are
// read as local time.
var parseLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Date formats t as "Jun 01, 2025". The zero time is "".
func Date(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(dateLayout)
}

// DateTime formats t as "Jun 01, 2025 14:30". The zero time is "".
func DateTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(dateTimeLayout)
}

// Month formats t as YYYY-MM, the form the dashboard takes its date in.
func Month(t time.Time) string {
	return t.Format(monthLayout)
}

// ParseDate reads an ISO-8601 date or date-time.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range parseLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}

// Currency formats amount with two decimals and Indian digit grouping, e.g.
// ₹12,34,567.89. The sign follows the symbol.
func Currency(amount float64) string {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return CurrencySymbol + "0.00"
	}

	s := strconv.FormatFloat(math.Abs(amount), 'f', 2, 64)
	whole, frac, _ := strings.Cut(s, ".")

	var b strings.Builder
	b.WriteString(CurrencySymbol)
	if amount < 0 && s != "0.00" {
		b.WriteByte('-')
	}
	b.WriteString(groupIndian(whole))
	b.WriteByte('.')
	b.WriteString(frac)
	return b.String()
}

// groupIndian puts a comma before the last three digits and then after every
// two.
func groupIndian(digits string) string {
	if len(digits) <= 3 {
		return digits
	}

	head, tail := digits[:len(digits)-3], digits[len(digits)-3:]
	var groups []string
	for len(head) > 2 {
		groups = append([]string{head[len(head)-2:]}, groups...)
		head = head[:len(head)-2]
	}
	if head != "" {
		groups = append([]string{head}, groups...)
	}
	return strings.Join(groups, ",") + "," + tail
}

// CurrencyIntl formats amount with western thousands grouping.
func CurrencyIntl(amount float64) string {
	return CurrencySymbol + humanize.FormatFloat("#,###.##", amount)
}

// Ago describes t relative to now, e.g. "3 hours ago".
func Ago(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return humanize.Time(t)
}

// ValidPeriod reports whether p names a known period.
func ValidPeriod(p string) bool {
	switch p {
	case Weekly, Monthly, Yearly:
		return true
	}
	return false
}

// DateRange returns the first and last instant of the period containing t.
// Weeks start on Sunday. Unknown periods are treated as MONTHLY.
func DateRange(period string, t time.Time) (start, end time.Time) {
	y, m, d := t.Date()
	loc := t.Location()

	switch period {
	case Weekly:
		start = time.Date(y, m, d-int(t.Weekday()), 0, 0, 0, 0, loc)
		end = time.Date(y, m, d-int(t.Weekday())+7, 0, 0, 0, 0, loc)
	case Yearly:
		start = time.Date(y, time.January, 1, 0, 0, 0, 0, loc)
		end = time.Date(y+1, time.January, 1, 0, 0, 0, 0, loc)
	default:
		start = time.Date(y, m, 1, 0, 0, 0, 0, loc)
		end = time.Date(y, m+1, 1, 0, 0, 0, 0, loc)
	}

	return start, end.Add(-time.Nanosecond)
}

var categoryIcons = map[string]string{
	"salary":         "💰",
	"freelance":      "💼",
	"investment":     "📈",
	"gift":           "🎁",
	"other-income":   "💵",
	"fuel":           "⛽",
	"food":           "🍔",
	"movie":          "🎬",
	"medical":        "🏥",
	"loan":           "🏦",
	"rent":           "🏠",
	"utilities":      "💡",
	"shopping":       "🛍️",
	"transportation": "🚗",
	"entertainment":  "🎮",
	"education":      "📚",
	"other-expense":  "💳",
}

// DefaultIcon is used for categories without one of their own.
const DefaultIcon = "💰"

// CategoryIcon returns the icon for a category name.
func CategoryIcon(name string) string {
	if icon, ok := categoryIcons[name]; ok {
		return icon
	}
	return DefaultIcon
}
