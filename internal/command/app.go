// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT
package command

import (
	"context"
	"fmt"
	"sort"

	"github.com/urfave/cli/v3"

	"github.com/staranto/fintrack/internal/config"
	"github.com/staranto/fintrack/internal/meta"
)

// InitApp resolves settings from the config file and env and builds the
// command tree. A bad config file or env value fails here, before any
// command runs.
func InitApp(ctx context.Context, args []string) (*cli.Command, error) {
	// No config file is fine; everything has a default.
	cfg, _ := config.Load()

	settings := config.Resolve()
	if err := settings.Validate(); err != nil {
		return nil, fmt.Errorf("invalid settings: %w", err)
	}

	meta := meta.Meta{
		Args:     args,
		Config:   cfg,
		Context:  ctx,
		Settings: settings,
	}

	app := &cli.Command{
		Name:  "fintrack",
		Usage: "personal finance tracker",
		Metadata: map[string]any{
			"meta": meta,
		},
		Flags: append([]cli.Flag{
			&cli.BoolFlag{
				Name:        "version",
				Aliases:     []string{"v"},
				Usage:       "fintrack version info",
				HideDefault: true,
			},
		}, NewClientFlags(settings)...),
	}

	app.Commands = append(app.Commands,
		DashboardCommandBuilder(meta),
		TxCommandBuilder(meta),
		AccountCommandBuilder(meta),
		TransferCommandBuilder(meta),
		CategoryCommandBuilder(meta),
		CompletionCommandBuilder(meta),
	)

	// Make sure flags are sorted for the --help text.
	var sortFlags func(cmds []*cli.Command)
	sortFlags = func(cmds []*cli.Command) {
		for _, cmd := range cmds {
			sort.Slice(cmd.Flags, func(i, j int) bool {
				return cmd.Flags[i].Names()[0] < cmd.Flags[j].Names()[0]
			})
			sortFlags(cmd.Commands)
		}
	}
	sortFlags(app.Commands)

	return app, nil
}
