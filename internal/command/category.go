// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/staranto/fintrack/internal/api"
	"github.com/staranto/fintrack/internal/meta"
)

// CategoryListCommandAction lists categories, creating the defaults when the
// service has none to give.
func CategoryListCommandAction(ctx context.Context, cmd *cli.Command) error {
	runner := &QueryActionRunner[[]api.Category]{
		CommandName: "category list",
		Columns:     categoryColumns,
		FetchFn: func(ctx context.Context, cmd *cli.Command, client *api.Client) ([]api.Category, error) {
			cats, err := client.Categories.ListOrInitialize(ctx)
			if err != nil {
				return nil, err
			}
			if t := cmd.String("type"); t != "" {
				kept := cats[:0]
				for _, c := range cats {
					if c.Type == t || c.Type == api.Both {
						kept = append(kept, c)
					}
				}
				cats = kept
			}
			return cats, nil
		},
	}
	return runner.Run(ctx, cmd)
}

func CategoryCreateCommandAction(ctx context.Context, cmd *cli.Command) error {
	runner := &QueryActionRunner[*api.Category]{
		CommandName: "category create",
		Columns:     categoryColumns,
		FetchFn: func(ctx context.Context, cmd *cli.Command, client *api.Client) (*api.Category, error) {
			return client.Categories.Create(ctx, api.CategoryInput{
				Name: cmd.String("name"),
				Type: cmd.String("type"),
				Icon: cmd.String("icon"),
			})
		},
	}
	return runner.Run(ctx, cmd)
}

func CategoryInitCommandAction(ctx context.Context, cmd *cli.Command) error {
	runner := &ConfirmActionRunner{
		CommandName: "category init",
		Message:     "default categories initialized",
		DoFn: func(ctx context.Context, cmd *cli.Command, client *api.Client) error {
			return client.Categories.Initialize(ctx)
		},
	}
	return runner.Run(ctx, cmd)
}

// CategoryCommandBuilder constructs the "category" command group.
func CategoryCommandBuilder(meta meta.Meta) *cli.Command {
	return &cli.Command{
		Name:  "category",
		Usage: "transaction categories",
		Commands: []*cli.Command{
			(&QueryCommandBuilder{
				Name:      "list",
				Namespace: "category",
				Usage:     "list categories",
				Flags: []cli.Flag{
					newTypeFlag("only categories usable for INCOME or EXPENSE", false, TransactionTypeValidator),
				},
				Action: CategoryListCommandAction,
				Meta:   meta,
			}).Build(),
			(&QueryCommandBuilder{
				Name:      "create",
				Namespace: "category",
				Usage:     "add a category",
				UsageText: `fintrack category create --name pets --type EXPENSE [--icon 🐶] [options]`,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "name",
						Usage:    "category name",
						Required: true,
						Validator: func(value string) error {
							return FlagValidators(value, JammedFlagValidator, NotEmptyValidator)
						},
					},
					newTypeFlag("INCOME, EXPENSE or BOTH", true, CategoryTypeValidator),
					&cli.StringFlag{
						Name:  "icon",
						Usage: "emoji shown next to the name",
					},
				},
				Action: CategoryCreateCommandAction,
				Meta:   meta,
			}).Build(),
			(&QueryCommandBuilder{
				Name:      "init",
				Namespace: "category",
				Usage:     "create the default categories",
				Action:    CategoryInitCommandAction,
				Meta:      meta,
			}).Build(),
		},
	}
}
