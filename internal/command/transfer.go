// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"errors"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/staranto/fintrack/internal/api"
	"github.com/staranto/fintrack/internal/meta"
)

// transferRange reads --start and --end. The range is only sent when both
// are given.
func transferRange(cmd *cli.Command) (api.DateRange, error) {
	var (
		r   api.DateRange
		err error
	)
	if r.Start, err = parseTime(cmd, "start", time.Time{}); err != nil {
		return r, err
	}
	if r.End, err = parseTime(cmd, "end", time.Time{}); err != nil {
		return r, err
	}
	return r, nil
}

func transferInput(cmd *cli.Command, now time.Time) (api.TransferInput, error) {
	in := api.TransferInput{
		FromAccountID: cmd.String("from"),
		ToAccountID:   cmd.String("to"),
		Amount:        parseAmount(cmd, "amount"),
		Description:   cmd.String("description"),
	}

	t, err := parseTime(cmd, "date", now)
	if err != nil {
		return in, err
	}
	in.Date = api.Timestamp{Time: t}

	return in, nil
}

func TransferListCommandAction(ctx context.Context, cmd *cli.Command) error {
	runner := &QueryActionRunner[[]api.Transfer]{
		CommandName: "transfer list",
		Columns:     transferColumns,
		FetchFn: func(ctx context.Context, cmd *cli.Command, client *api.Client) ([]api.Transfer, error) {
			r, err := transferRange(cmd)
			if err != nil {
				return nil, err
			}
			return client.Transfers.List(ctx, r)
		},
	}
	return runner.Run(ctx, cmd)
}

func TransferGetCommandAction(ctx context.Context, cmd *cli.Command) error {
	runner := &QueryActionRunner[*api.Transfer]{
		CommandName: "transfer get",
		Columns:     transferColumns,
		FetchFn: func(ctx context.Context, cmd *cli.Command, client *api.Client) (*api.Transfer, error) {
			return client.Transfers.Get(ctx, cmd.String("id"))
		},
	}
	return runner.Run(ctx, cmd)
}

func TransferCreateCommandAction(ctx context.Context, cmd *cli.Command) error {
	runner := &QueryActionRunner[*api.Transfer]{
		CommandName: "transfer create",
		Columns:     transferColumns,
		FetchFn: func(ctx context.Context, cmd *cli.Command, client *api.Client) (*api.Transfer, error) {
			if cmd.String("from") == cmd.String("to") {
				return nil, errors.New("--from and --to must be different accounts")
			}
			in, err := transferInput(cmd, time.Now())
			if err != nil {
				return nil, err
			}
			return client.Transfers.Create(ctx, in)
		},
	}
	return runner.Run(ctx, cmd)
}

// TransferCommandBuilder constructs the "transfer" command group.
func TransferCommandBuilder(meta meta.Meta) *cli.Command {
	return &cli.Command{
		Name:  "transfer",
		Usage: "money moved between accounts",
		Commands: []*cli.Command{
			(&QueryCommandBuilder{
				Name:      "list",
				Namespace: "transfer",
				Usage:     "list transfers",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "start",
						Usage: "earliest date, used with --end",
						Validator: func(value string) error {
							return FlagValidators(value, DateValidator)
						},
					},
					&cli.StringFlag{
						Name:  "end",
						Usage: "latest date, used with --start",
						Validator: func(value string) error {
							return FlagValidators(value, DateValidator)
						},
					},
				},
				Action: TransferListCommandAction,
				Meta:   meta,
			}).Build(),
			(&QueryCommandBuilder{
				Name:      "get",
				Namespace: "transfer",
				Usage:     "show one transfer",
				Flags:     []cli.Flag{newIDFlag()},
				Action:    TransferGetCommandAction,
				Meta:      meta,
			}).Build(),
			(&QueryCommandBuilder{
				Name:      "create",
				Namespace: "transfer",
				Usage:     "move money between accounts",
				UsageText: `fintrack transfer create --from ID --to ID --amount 500 [options]`,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "from",
						Usage:    "source account",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "to",
						Usage:    "destination account",
						Required: true,
					},
					newAmountFlag(true),
					&cli.StringFlag{
						Name:  "description",
						Usage: "free text",
					},
					newDateFlag("when it happened. Defaults to now"),
				},
				Action: TransferCreateCommandAction,
				Meta:   meta,
			}).Build(),
		},
	}
}
