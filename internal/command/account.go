// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"
	"strconv"

	"github.com/urfave/cli/v3"

	"github.com/staranto/fintrack/internal/api"
	"github.com/staranto/fintrack/internal/meta"
)

// accountInput overlays the set flags on base.
func accountInput(cmd *cli.Command, base api.AccountInput) api.AccountInput {
	in := base
	if cmd.IsSet("name") {
		in.AccountName = cmd.String("name")
	}
	if cmd.IsSet("type") {
		in.AccountType = cmd.String("type")
	}
	if cmd.IsSet("balance") {
		in.Balance, _ = strconv.ParseFloat(cmd.String("balance"), 64)
	}
	return in
}

func accountWriteFlags(required bool) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:     "name",
			Usage:    "account name",
			Required: required,
			Validator: func(value string) error {
				return FlagValidators(value, JammedFlagValidator, NotEmptyValidator)
			},
		},
		&cli.StringFlag{
			Name:  "type",
			Usage: "kind of account, e.g. SAVINGS",
		},
		&cli.StringFlag{
			Name:  "balance",
			Usage: "opening balance",
			Validator: func(value string) error {
				if _, err := strconv.ParseFloat(value, 64); err != nil {
					return fmt.Errorf("must be a number")
				}
				return nil
			},
		},
	}
}

func AccountListCommandAction(ctx context.Context, cmd *cli.Command) error {
	runner := &QueryActionRunner[[]api.Account]{
		CommandName: "account list",
		Columns:     accountColumns,
		FetchFn: func(ctx context.Context, cmd *cli.Command, client *api.Client) ([]api.Account, error) {
			return client.Accounts.List(ctx)
		},
	}
	return runner.Run(ctx, cmd)
}

func AccountGetCommandAction(ctx context.Context, cmd *cli.Command) error {
	runner := &QueryActionRunner[*api.Account]{
		CommandName: "account get",
		Columns:     accountColumns,
		FetchFn: func(ctx context.Context, cmd *cli.Command, client *api.Client) (*api.Account, error) {
			return client.Accounts.Get(ctx, cmd.String("id"))
		},
	}
	return runner.Run(ctx, cmd)
}

func AccountCreateCommandAction(ctx context.Context, cmd *cli.Command) error {
	runner := &QueryActionRunner[*api.Account]{
		CommandName: "account create",
		Columns:     accountColumns,
		FetchFn: func(ctx context.Context, cmd *cli.Command, client *api.Client) (*api.Account, error) {
			return client.Accounts.Create(ctx, accountInput(cmd, api.AccountInput{}))
		},
	}
	return runner.Run(ctx, cmd)
}

func AccountUpdateCommandAction(ctx context.Context, cmd *cli.Command) error {
	runner := &QueryActionRunner[*api.Account]{
		CommandName: "account update",
		Columns:     accountColumns,
		FetchFn: func(ctx context.Context, cmd *cli.Command, client *api.Client) (*api.Account, error) {
			id := cmd.String("id")
			cur, err := client.Accounts.Get(ctx, id)
			if err != nil {
				return nil, fmt.Errorf("failed to read account %s: %w", id, err)
			}
			in := accountInput(cmd, api.AccountInput{
				AccountName: cur.AccountName,
				AccountType: cur.AccountType,
				Balance:     cur.Balance,
			})
			return client.Accounts.Update(ctx, id, in)
		},
	}
	return runner.Run(ctx, cmd)
}

func AccountDeleteCommandAction(ctx context.Context, cmd *cli.Command) error {
	runner := &ConfirmActionRunner{
		CommandName: "account delete",
		Message:     fmt.Sprintf("account %s deleted", cmd.String("id")),
		DoFn: func(ctx context.Context, cmd *cli.Command, client *api.Client) error {
			return client.Accounts.Delete(ctx, cmd.String("id"))
		},
	}
	return runner.Run(ctx, cmd)
}

// AccountCommandBuilder constructs the "account" command group.
func AccountCommandBuilder(meta meta.Meta) *cli.Command {
	return &cli.Command{
		Name:  "account",
		Usage: "accounts and balances",
		Commands: []*cli.Command{
			(&QueryCommandBuilder{
				Name:      "list",
				Namespace: "account",
				Usage:     "list accounts",
				Action:    AccountListCommandAction,
				Meta:      meta,
			}).Build(),
			(&QueryCommandBuilder{
				Name:      "get",
				Namespace: "account",
				Usage:     "show one account",
				Flags:     []cli.Flag{newIDFlag()},
				Action:    AccountGetCommandAction,
				Meta:      meta,
			}).Build(),
			(&QueryCommandBuilder{
				Name:      "create",
				Namespace: "account",
				Usage:     "open an account",
				UsageText: `fintrack account create --name Savings [--type SAVINGS] [--balance 1000] [options]`,
				Flags:     accountWriteFlags(true),
				Action:    AccountCreateCommandAction,
				Meta:      meta,
			}).Build(),
			(&QueryCommandBuilder{
				Name:      "update",
				Namespace: "account",
				Usage:     "change an account",
				Flags:     append([]cli.Flag{newIDFlag()}, accountWriteFlags(false)...),
				Action:    AccountUpdateCommandAction,
				Meta:      meta,
			}).Build(),
			(&QueryCommandBuilder{
				Name:      "delete",
				Namespace: "account",
				Usage:     "close an account",
				Flags:     []cli.Flag{newIDFlag()},
				Action:    AccountDeleteCommandAction,
				Meta:      meta,
			}).Build(),
		},
	}
}
