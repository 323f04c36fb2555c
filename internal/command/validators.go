// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

package command

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/staranto/fintrack/internal/api"
	"github.com/staranto/fintrack/internal/format"
)

// GlobalFlagsValidator checks the resolved client settings before any leaf
// command runs.
func GlobalFlagsValidator(ctx context.Context, c *cli.Command) error {
	return settingsFromCommand(c).Validate()
}

type FlagValidatorType func(any) error

func FlagValidators(value any, validators ...FlagValidatorType) error {
	for _, v := range validators {
		if err := v(value); err != nil {
			return err
		}
	}
	return nil
}

// JammedFlagValidator verifies that the arg following a flag does not begin
// with '--'.  urfave/cli allows this and I don't see how to turn it off.
func JammedFlagValidator(value any) error {
	if strings.HasPrefix(value.(string), "--") {
		return errors.New("must not begin with '--'")
	}
	return nil
}

func NotEmptyValidator(value any) error {
	if strings.TrimSpace(value.(string)) == "" {
		return errors.New("must not be empty")
	}
	return nil
}

func OutputValidator(value any) error {
	var validOutputFlagValues = []string{"text", "json", "raw", "yaml"}
	valid := false
	for _, v := range validOutputFlagValues {
		if v == value {
			valid = true
			break
		}
	}
	if !valid {
		return fmt.Errorf("must be one of %v", validOutputFlagValues)
	}
	return nil
}

func PeriodValidator(value any) error {
	if !format.ValidPeriod(value.(string)) {
		return fmt.Errorf("must be one of %v", []string{format.Weekly, format.Monthly, format.Yearly})
	}
	return nil
}

// MonthValidator accepts YYYY-MM.
func MonthValidator(value any) error {
	if _, err := time.Parse("2006-01", value.(string)); err != nil {
		return errors.New("must be YYYY-MM")
	}
	return nil
}

func DateValidator(value any) error {
	if _, err := format.ParseDate(value.(string)); err != nil {
		return errors.New("must be an ISO-8601 date, e.g. 2025-06-01")
	}
	return nil
}

func AmountValidator(value any) error {
	f, err := strconv.ParseFloat(value.(string), 64)
	if err != nil {
		return errors.New("must be a number")
	}
	if f <= 0 {
		return errors.New("must be positive")
	}
	return nil
}

// TransactionTypeValidator accepts INCOME or EXPENSE.
func TransactionTypeValidator(value any) error {
	valid := []string{api.Income, api.Expense}
	if !slices.Contains(valid, value.(string)) {
		return fmt.Errorf("must be one of %v", valid)
	}
	return nil
}

// CategoryTypeValidator also accepts BOTH.
func CategoryTypeValidator(value any) error {
	valid := []string{api.Income, api.Expense, api.Both}
	if !slices.Contains(valid, value.(string)) {
		return fmt.Errorf("must be one of %v", valid)
	}
	return nil
}

func DivisionValidator(value any) error {
	valid := []string{api.Personal, api.Office}
	if !slices.Contains(valid, value.(string)) {
		return fmt.Errorf("must be one of %v", valid)
	}
	return nil
}

func URLValidator(value any) error {
	u, err := url.Parse(value.(string))
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return errors.New("must be an http(s) URL")
	}
	return nil
}
