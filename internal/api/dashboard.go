// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package api

import (
	"context"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"
)

const (
	dashboardSummary         = "/dashboard/summary"
	dashboardChart           = "/dashboard/chart"
	dashboardCategorySummary = "/dashboard/category-summary"
	dashboardDivisionSummary = "/dashboard/division-summary"
)

// DashboardService reads the aggregate views. Every read is cached.
type DashboardService struct {
	client *Client
}

// SummaryParams selects the period a summary covers. Date is YYYY-MM.
type SummaryParams struct {
	Period string
	Date   string
}

func (p SummaryParams) values() url.Values {
	v := url.Values{}
	if p.Period != "" {
		v.Set("period", p.Period)
	}
	if p.Date != "" {
		v.Set("date", p.Date)
	}
	return v
}

// ChartParams selects the trend series.
type ChartParams struct {
	Period string
	Year   int
}

func (p ChartParams) values() url.Values {
	v := url.Values{}
	if p.Period != "" {
		v.Set("period", p.Period)
	}
	if p.Year != 0 {
		v.Set("year", strconv.Itoa(p.Year))
	}
	return v
}

// CategorySummaryParams selects which transaction type is broken down.
type CategorySummaryParams struct {
	Type string
}

func (p CategorySummaryParams) values() url.Values {
	v := url.Values{}
	if p.Type != "" {
		v.Set("type", p.Type)
	}
	return v
}

// Summary returns income, expense and balance totals for a period.
func (s *DashboardService) Summary(ctx context.Context, p SummaryParams) (Summary, error) {
	resp, err := s.client.cached(ctx, dashboardSummary, p.values())
	if err != nil {
		return Summary{}, err
	}
	return decode[Summary](dashboardSummary, resp)
}

// Chart returns the income and expense series for a year.
func (s *DashboardService) Chart(ctx context.Context, p ChartParams) (ChartData, error) {
	resp, err := s.client.cached(ctx, dashboardChart, p.values())
	if err != nil {
		return ChartData{}, err
	}
	return decode[ChartData](dashboardChart, resp)
}

// CategorySummary returns per-category totals for one transaction type.
func (s *DashboardService) CategorySummary(ctx context.Context, p CategorySummaryParams) ([]CategoryTotal, error) {
	resp, err := s.client.cached(ctx, dashboardCategorySummary, p.values())
	if err != nil {
		return nil, err
	}
	return decode[[]CategoryTotal](dashboardCategorySummary, resp)
}

// DivisionSummary returns totals per division.
func (s *DashboardService) DivisionSummary(ctx context.Context) (DivisionSummary, error) {
	resp, err := s.client.cached(ctx, dashboardDivisionSummary, url.Values{})
	if err != nil {
		return DivisionSummary{}, err
	}
	return decode[DivisionSummary](dashboardDivisionSummary, resp)
}

// Load fetches the four dashboard views for period and date (YYYY-MM)
// concurrently. The chart year is taken from date, or the current year when
// date does not parse. The first failure cancels the others.
func (s *DashboardService) Load(ctx context.Context, period, date string) (*Dashboard, error) {
	year := time.Now().Year()
	if t, err := time.Parse("2006-01", date); err == nil {
		year = t.Year()
	}

	var d Dashboard
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() (err error) {
		d.Summary, err = s.Summary(gctx, SummaryParams{Period: period, Date: date})
		return err
	})
	g.Go(func() (err error) {
		d.Chart, err = s.Chart(gctx, ChartParams{Period: period, Year: year})
		return err
	})
	g.Go(func() (err error) {
		d.Categories, err = s.CategorySummary(gctx, CategorySummaryParams{Type: Expense})
		return err
	})
	g.Go(func() (err error) {
		d.Divisions, err = s.DivisionSummary(gctx)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &d, nil
}
