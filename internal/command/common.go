// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"reflect"
	"strconv"
	"time"

	"github.com/apex/log"
	"github.com/urfave/cli/v3"

	"github.com/staranto/fintrack/internal/api"
	"github.com/staranto/fintrack/internal/cache"
	"github.com/staranto/fintrack/internal/config"
	"github.com/staranto/fintrack/internal/dispatch"
	"github.com/staranto/fintrack/internal/format"
	"github.com/staranto/fintrack/internal/meta"
	"github.com/staranto/fintrack/internal/output"
	"github.com/staranto/fintrack/internal/transport"
)

// GetMeta returns the meta.Meta stored in the command's Metadata. If missing
// or of an unexpected type, it returns the zero value.
func GetMeta(cmd *cli.Command) meta.Meta {
	if cmd == nil || cmd.Metadata == nil {
		return meta.Meta{}
	}
	if m, ok := cmd.Metadata["meta"].(meta.Meta); ok {
		return m
	}
	return meta.Meta{}
}

// settingsFromCommand applies the root client flags over the resolved
// settings.
func settingsFromCommand(cmd *cli.Command) config.Settings {
	s := GetMeta(cmd).Settings
	if s.APIURL == "" {
		s = config.Resolve()
	}

	if v := cmd.String("api-url"); v != "" {
		s.APIURL = v
	}
	if v := cmd.Duration("timeout"); v != 0 {
		s.Timeout = v
	}
	if v := cmd.Duration("cache-window"); v != 0 {
		s.CacheWindow = v
	}
	if cmd.Bool("no-cache") {
		s.CacheEnabled = false
	}

	return s
}

// NewClient builds the one api.Client a command talks through. m may be nil.
func NewClient(cmd *cli.Command, m dispatch.Metrics) (*api.Client, error) {
	s := settingsFromCommand(cmd)
	log.Debugf("settings: %+v", s)

	t, err := transport.NewHTTP(s.APIURL, transport.WithTimeout(s.Timeout))
	if err != nil {
		return nil, err
	}

	opts := []api.Option{
		api.WithStore(cache.NewStore[*transport.Response](cache.WithWindow(s.CacheWindow))),
		api.WithCaching(s.CacheEnabled),
	}
	if m != nil {
		opts = append(opts, api.WithMetrics(m))
	}

	return api.NewClient(t, opts...), nil
}

// writer is where results go. Tests swap the root Writer.
func writer(cmd *cli.Command) io.Writer {
	if root := cmd.Root(); root != nil && root.Writer != nil {
		return root.Writer
	}
	return os.Stdout
}

// outputOptions reads the output flags added by NewGlobalFlags.
func outputOptions(cmd *cli.Command) output.Options {
	color := cmd.Bool("color")
	if !cmd.IsSet("color") {
		color = color || output.ColorDefault()
	}

	return output.Options{
		Format: cmd.String("output"),
		Sort:   cmd.String("sort"),
		Filter: cmd.String("filter"),
		Titles: cmd.Bool("titles"),
		Color:  color,
	}
}

// EmitResults marshals results and passes them to the common output routine.
// A nil slice is an empty list; any other nil result prints nothing.
func EmitResults(cmd *cli.Command, results any, cols []output.Column) error {
	raw, err := json.Marshal(results)
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	if string(raw) == "null" {
		if reflect.ValueOf(results).Kind() != reflect.Slice {
			return nil
		}
		raw = []byte("[]")
	}
	return output.Emit(writer(cmd), raw, cols, outputOptions(cmd))
}

// QueryActionRunner[T] encapsulates the common action pattern: build the
// client, fetch with FetchFn, emit with Columns.
type QueryActionRunner[T any] struct {
	CommandName string
	Columns     []output.Column
	FetchFn     func(context.Context, *cli.Command, *api.Client) (T, error)
}

// Run executes the action with the provided context and command.
func (qar *QueryActionRunner[T]) Run(ctx context.Context, cmd *cli.Command) error {
	m := GetMeta(cmd)
	log.Debugf("Executing action for %s %v", qar.CommandName, m.Args)

	client, err := NewClient(cmd, nil)
	if err != nil {
		return err
	}

	results, err := qar.FetchFn(ctx, cmd, client)
	if err != nil {
		return err
	}

	return EmitResults(cmd, results, qar.Columns)
}

// ConfirmActionRunner runs a write whose reply carries nothing worth
// rendering, then reports Message.
type ConfirmActionRunner struct {
	CommandName string
	Message     string
	DoFn        func(context.Context, *cli.Command, *api.Client) error
}

func (car *ConfirmActionRunner) Run(ctx context.Context, cmd *cli.Command) error {
	log.Debugf("Executing action for %s", car.CommandName)

	client, err := NewClient(cmd, nil)
	if err != nil {
		return err
	}
	if err := car.DoFn(ctx, cmd, client); err != nil {
		return err
	}

	_, err = fmt.Fprintln(writer(cmd), car.Message)
	return err
}

// QueryCommandBuilder constructs a leaf cli.Command using a consistent
// pattern. Namespace selects the config keys the output flags read; it
// defaults to Name.
type QueryCommandBuilder struct {
	Name      string
	Namespace string
	Usage     string
	UsageText string
	Flags     []cli.Flag
	Action    func(context.Context, *cli.Command) error
	Meta      meta.Meta
}

// Build returns a configured cli.Command from the builder.
func (qcb *QueryCommandBuilder) Build() *cli.Command {
	ns := qcb.Namespace
	if ns == "" {
		ns = qcb.Name
	}

	return &cli.Command{
		Name:      qcb.Name,
		Usage:     qcb.Usage,
		UsageText: qcb.UsageText,
		Metadata: map[string]any{
			"meta": qcb.Meta,
		},
		Flags: append(qcb.Flags, NewGlobalFlags(ns)...),
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			return ctx, GlobalFlagsValidator(ctx, c)
		},
		Action: qcb.Action,
	}
}

// parseAmount reads a flag already checked by AmountValidator.
func parseAmount(cmd *cli.Command, name string) float64 {
	f, _ := strconv.ParseFloat(cmd.String(name), 64)
	return f
}

// parseTime reads a date flag, falling back to def when it is unset.
func parseTime(cmd *cli.Command, name string, def time.Time) (time.Time, error) {
	v := cmd.String(name)
	if v == "" {
		return def, nil
	}
	t, err := format.ParseDate(v)
	if err != nil {
		return time.Time{}, fmt.Errorf("--%s: %w", name, err)
	}
	return t, nil
}
