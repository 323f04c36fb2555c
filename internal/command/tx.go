// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/staranto/fintrack/internal/api"
	"github.com/staranto/fintrack/internal/format"
	"github.com/staranto/fintrack/internal/meta"
)

// transactionFilter builds the list filter. --period fills in whichever of
// --start and --end are missing with the period around now.
func transactionFilter(cmd *cli.Command, now time.Time) (api.TransactionFilter, error) {
	f := api.TransactionFilter{
		Type:     cmd.String("type"),
		Division: cmd.String("division"),
		Category: cmd.String("category"),
	}

	var start, end time.Time
	if p := cmd.String("period"); p != "" {
		start, end = format.DateRange(p, now)
	}

	var err error
	if f.StartDate, err = parseTime(cmd, "start", start); err != nil {
		return f, err
	}
	if f.EndDate, err = parseTime(cmd, "end", end); err != nil {
		return f, err
	}

	return f, nil
}

// transactionInput overlays the set flags on base.
func transactionInput(cmd *cli.Command, base api.TransactionInput) (api.TransactionInput, error) {
	in := base
	if cmd.IsSet("type") {
		in.Type = cmd.String("type")
	}
	if cmd.IsSet("amount") {
		in.Amount = parseAmount(cmd, "amount")
	}
	if cmd.IsSet("category") {
		in.Category = cmd.String("category")
	}
	if cmd.IsSet("division") || in.Division == "" {
		in.Division = cmd.String("division")
	}
	if cmd.IsSet("description") {
		in.Description = cmd.String("description")
	}
	if cmd.IsSet("account") {
		in.AccountID = cmd.String("account")
	}

	def := base.Date.Time
	if def.IsZero() {
		def = time.Now()
	}
	t, err := parseTime(cmd, "date", def)
	if err != nil {
		return in, err
	}
	in.Date = api.Timestamp{Time: t}

	return in, nil
}

func txWriteFlags(required bool) []cli.Flag {
	division := newDivisionFlag(false)
	division.Value = api.Personal

	return []cli.Flag{
		newTypeFlag("INCOME or EXPENSE", required, TransactionTypeValidator),
		newAmountFlag(required),
		&cli.StringFlag{
			Name:     "category",
			Usage:    "category name, e.g. food",
			Required: required,
		},
		division,
		&cli.StringFlag{
			Name:  "description",
			Usage: "free text",
		},
		&cli.StringFlag{
			Name:  "account",
			Usage: "account the transaction belongs to",
		},
		newDateFlag("when it happened. Defaults to now"),
	}
}

func TxListCommandAction(ctx context.Context, cmd *cli.Command) error {
	runner := &QueryActionRunner[[]api.Transaction]{
		CommandName: "tx list",
		Columns:     transactionColumns,
		FetchFn: func(ctx context.Context, cmd *cli.Command, client *api.Client) ([]api.Transaction, error) {
			f, err := transactionFilter(cmd, time.Now())
			if err != nil {
				return nil, err
			}
			return client.Transactions.List(ctx, f)
		},
	}
	return runner.Run(ctx, cmd)
}

func TxGetCommandAction(ctx context.Context, cmd *cli.Command) error {
	runner := &QueryActionRunner[*api.Transaction]{
		CommandName: "tx get",
		Columns:     transactionColumns,
		FetchFn: func(ctx context.Context, cmd *cli.Command, client *api.Client) (*api.Transaction, error) {
			return client.Transactions.Get(ctx, cmd.String("id"))
		},
	}
	return runner.Run(ctx, cmd)
}

func TxCreateCommandAction(ctx context.Context, cmd *cli.Command) error {
	runner := &QueryActionRunner[*api.Transaction]{
		CommandName: "tx create",
		Columns:     transactionColumns,
		FetchFn: func(ctx context.Context, cmd *cli.Command, client *api.Client) (*api.Transaction, error) {
			in, err := transactionInput(cmd, api.TransactionInput{})
			if err != nil {
				return nil, err
			}
			return client.Transactions.Create(ctx, in)
		},
	}
	return runner.Run(ctx, cmd)
}

// TxUpdateCommandAction reads the transaction first so that unset flags keep
// their current values.
func TxUpdateCommandAction(ctx context.Context, cmd *cli.Command) error {
	runner := &QueryActionRunner[*api.Transaction]{
		CommandName: "tx update",
		Columns:     transactionColumns,
		FetchFn: func(ctx context.Context, cmd *cli.Command, client *api.Client) (*api.Transaction, error) {
			id := cmd.String("id")
			cur, err := client.Transactions.Get(ctx, id)
			if err != nil {
				return nil, fmt.Errorf("failed to read transaction %s: %w", id, err)
			}
			if !cur.Editable {
				return nil, fmt.Errorf("transaction %s can only be edited within 12 hours of creation", id)
			}

			in, err := transactionInput(cmd, api.TransactionInput{
				Type:        cur.Type,
				Amount:      cur.Amount,
				Category:    cur.Category,
				Division:    cur.Division,
				Description: cur.Description,
				Date:        cur.Date,
				AccountID:   cur.AccountID,
			})
			if err != nil {
				return nil, err
			}
			return client.Transactions.Update(ctx, id, in)
		},
	}
	return runner.Run(ctx, cmd)
}

func TxDeleteCommandAction(ctx context.Context, cmd *cli.Command) error {
	runner := &ConfirmActionRunner{
		CommandName: "tx delete",
		Message:     fmt.Sprintf("transaction %s deleted", cmd.String("id")),
		DoFn: func(ctx context.Context, cmd *cli.Command, client *api.Client) error {
			return client.Transactions.Delete(ctx, cmd.String("id"))
		},
	}
	return runner.Run(ctx, cmd)
}

// TxCommandBuilder constructs the "tx" command group.
func TxCommandBuilder(meta meta.Meta) *cli.Command {
	return &cli.Command{
		Name:    "tx",
		Aliases: []string{"transaction"},
		Usage:   "income and expense transactions",
		Commands: []*cli.Command{
			(&QueryCommandBuilder{
				Name:      "list",
				Namespace: "tx",
				Usage:     "list transactions",
				UsageText: `fintrack tx list [--type EXPENSE] [--period MONTHLY] [--start DATE] [--end DATE] [options]`,
				Flags: []cli.Flag{
					newTypeFlag("INCOME or EXPENSE", false, TransactionTypeValidator),
					newDivisionFlag(false),
					&cli.StringFlag{
						Name:  "category",
						Usage: "only this category",
					},
					&cli.StringFlag{
						Name:  "period",
						Usage: "WEEKLY, MONTHLY or YEARLY around today",
						Validator: func(value string) error {
							return FlagValidators(value, PeriodValidator)
						},
					},
					&cli.StringFlag{
						Name:  "start",
						Usage: "earliest date",
						Validator: func(value string) error {
							return FlagValidators(value, DateValidator)
						},
					},
					&cli.StringFlag{
						Name:  "end",
						Usage: "latest date",
						Validator: func(value string) error {
							return FlagValidators(value, DateValidator)
						},
					},
				},
				Action: TxListCommandAction,
				Meta:   meta,
			}).Build(),
			(&QueryCommandBuilder{
				Name:      "get",
				Namespace: "tx",
				Usage:     "show one transaction",
				Flags:     []cli.Flag{newIDFlag()},
				Action:    TxGetCommandAction,
				Meta:      meta,
			}).Build(),
			(&QueryCommandBuilder{
				Name:      "create",
				Namespace: "tx",
				Usage:     "record a transaction",
				UsageText: `fintrack tx create --type EXPENSE --amount 250 --category food [options]`,
				Flags:     txWriteFlags(true),
				Action:    TxCreateCommandAction,
				Meta:      meta,
			}).Build(),
			(&QueryCommandBuilder{
				Name:      "update",
				Namespace: "tx",
				Usage:     "change a transaction",
				Flags:     append([]cli.Flag{newIDFlag()}, txWriteFlags(false)...),
				Action:    TxUpdateCommandAction,
				Meta:      meta,
			}).Build(),
			(&QueryCommandBuilder{
				Name:      "delete",
				Namespace: "tx",
				Usage:     "remove a transaction",
				Flags:     []cli.Flag{newIDFlag()},
				Action:    TxDeleteCommandAction,
				Meta:      meta,
			}).Build(),
		},
	}
}
