// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"time"

	"github.com/apex/log"
	"github.com/urfave/cli/v3"

	"github.com/staranto/fintrack/internal/api"
	"github.com/staranto/fintrack/internal/dispatch"
	"github.com/staranto/fintrack/internal/format"
	"github.com/staranto/fintrack/internal/meta"
	"github.com/staranto/fintrack/internal/metrics"
	"github.com/staranto/fintrack/internal/output"
)

// chartRow is one label of the trend series.
type chartRow struct {
	Label   string  `json:"label"`
	Income  float64 `json:"income"`
	Expense float64 `json:"expense"`
}

type divisionRow struct {
	Division string  `json:"division"`
	Income   float64 `json:"income"`
	Expense  float64 `json:"expense"`
	Balance  float64 `json:"balance"`
}

// chartRows zips the parallel chart series. Missing values are zero.
func chartRows(c api.ChartData) []chartRow {
	rows := make([]chartRow, 0, len(c.Labels))
	for i, label := range c.Labels {
		r := chartRow{Label: label}
		if i < len(c.Income) {
			r.Income = c.Income[i]
		}
		if i < len(c.Expense) {
			r.Expense = c.Expense[i]
		}
		rows = append(rows, r)
	}
	return rows
}

// divisionRows flattens the division map in name order.
func divisionRows(d api.DivisionSummary) []divisionRow {
	rows := make([]divisionRow, 0, len(d.Divisions))
	for name, t := range d.Divisions {
		rows = append(rows, divisionRow{Division: name, Income: t.Income, Expense: t.Expense, Balance: t.Balance})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Division < rows[j].Division })
	return rows
}

// renderDashboard writes d as one document, or as four tables for text.
// --sort and --filter apply to the category breakdown only.
func renderDashboard(cmd *cli.Command, d *api.Dashboard) error {
	w := writer(cmd)
	opts := outputOptions(cmd)

	if opts.Format != output.Text && opts.Format != "" {
		raw, err := json.Marshal(d)
		if err != nil {
			return fmt.Errorf("failed to marshal dashboard: %w", err)
		}
		return output.EmitDocument(w, raw, opts.Format)
	}

	plain := opts
	plain.Sort, plain.Filter = "", ""

	catOpts := opts
	if catOpts.Sort == "" {
		catOpts.Sort = "-amount"
	}

	sections := []struct {
		title string
		data  any
		cols  []output.Column
		opts  output.Options
	}{
		{"Summary", d.Summary, summaryColumns, plain},
		{"Trend", chartRows(d.Chart), chartColumns, plain},
		{"Expenses by category", d.Categories, categoryTotalColumns, catOpts},
		{"Divisions", divisionRows(d.Divisions), divisionColumns, plain},
	}

	for i, s := range sections {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintln(w, s.title)

		raw, err := json.Marshal(s.data)
		if err != nil {
			return fmt.Errorf("failed to marshal %s: %w", s.title, err)
		}
		if err := output.Emit(w, raw, s.cols, s.opts); err != nil {
			return err
		}
	}

	return nil
}

// serveMetrics exposes c on addr until ctx is done.
func serveMetrics(ctx context.Context, addr string, c *metrics.Collector) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", c.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		log.Infof("serving metrics on %s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Error("metrics server failed")
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
}

// DashboardCommandAction loads and renders the four dashboard views. With
// --watch it re-renders on an interval until interrupted; renders inside the
// cache window are served from the cache.
func DashboardCommandAction(ctx context.Context, cmd *cli.Command) error {
	period := cmd.String("period")
	date := cmd.String("date")
	if date == "" {
		date = format.Month(time.Now())
	}
	watch := cmd.Duration("watch")

	var m dispatch.Metrics
	if addr := cmd.String("metrics-addr"); addr != "" && watch > 0 {
		collector := metrics.New()
		m = collector

		var cancel context.CancelFunc
		ctx, cancel = context.WithCancel(ctx)
		defer cancel()
		serveMetrics(ctx, addr, collector)
	}

	client, err := NewClient(cmd, m)
	if err != nil {
		return err
	}

	render := func() error {
		d, err := client.Dashboard.Load(ctx, period, date)
		if err != nil {
			return err
		}
		return renderDashboard(cmd, d)
	}

	if watch <= 0 {
		return render()
	}

	ticker := time.NewTicker(watch)
	defer ticker.Stop()

	for {
		if err := render(); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			log.WithError(err).Error("failed to refresh dashboard")
		}

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			log.Debugf("refreshing dashboard, %d cached responses", client.CacheLen())
		}
	}
}

// DashboardCommandBuilder constructs the cli.Command definition for the
// "dashboard" command.
func DashboardCommandBuilder(meta meta.Meta) *cli.Command {
	return (&QueryCommandBuilder{
		Name:      "dashboard",
		Usage:     "income, expense and balance for a period",
		UsageText: `fintrack dashboard [--period MONTHLY] [--date YYYY-MM] [--watch 10s] [options]`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "period",
				Aliases: []string{"p"},
				Usage:   "WEEKLY, MONTHLY or YEARLY",
				Value:   format.Monthly,
				Validator: func(value string) error {
					return FlagValidators(value, PeriodValidator)
				},
			},
			&cli.StringFlag{
				Name:  "date",
				Usage: "month the period is anchored on, YYYY-MM. Defaults to this month",
				Validator: func(value string) error {
					return FlagValidators(value, MonthValidator)
				},
			},
			&cli.DurationFlag{
				Name:    "watch",
				Aliases: []string{"w"},
				Usage:   "re-render on this interval until interrupted",
			},
		},
		Action: DashboardCommandAction,
		Meta:   meta,
	}).Build()
}
