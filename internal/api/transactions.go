// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package api

import (
	"context"
	"net/url"
	"time"
)

const transactionsPath = "/transactions"

// TransactionService manages income and expense records. Reads always go to
// the service.
type TransactionService struct {
	client *Client
}

// TransactionFilter narrows a list. Zero fields are not sent.
type TransactionFilter struct {
	Type      string
	Division  string
	Category  string
	StartDate time.Time
	EndDate   time.Time
}

func (f TransactionFilter) values() url.Values {
	v := url.Values{}
	if !f.StartDate.IsZero() {
		v.Set("startDate", ISO(f.StartDate))
	}
	if !f.EndDate.IsZero() {
		v.Set("endDate", ISO(f.EndDate))
	}
	if f.Type != "" {
		v.Set("type", f.Type)
	}
	if f.Division != "" {
		v.Set("division", f.Division)
	}
	if f.Category != "" {
		v.Set("category", f.Category)
	}
	return v
}

// List returns the transactions matching f. Always asks the service.
func (s *TransactionService) List(ctx context.Context, f TransactionFilter) ([]Transaction, error) {
	resp, err := s.client.bypass(ctx, transactionsPath, f.values())
	if err != nil {
		return nil, err
	}
	return decode[[]Transaction](transactionsPath, resp)
}

// Get returns one transaction. Always asks the service.
func (s *TransactionService) Get(ctx context.Context, id string) (*Transaction, error) {
	endpoint := itemPath(transactionsPath, id)
	resp, err := s.client.bypass(ctx, endpoint, nil)
	if err != nil {
		return nil, err
	}
	t, err := decode[Transaction](endpoint, resp)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// Create records a transaction.
func (s *TransactionService) Create(ctx context.Context, in TransactionInput) (*Transaction, error) {
	resp, err := s.client.post(ctx, transactionsPath, in)
	if err != nil {
		return nil, err
	}
	return decodeOptional[Transaction](transactionsPath, resp)
}

// Update replaces the transaction with id.
func (s *TransactionService) Update(ctx context.Context, id string, in TransactionInput) (*Transaction, error) {
	endpoint := itemPath(transactionsPath, id)
	resp, err := s.client.put(ctx, endpoint, in)
	if err != nil {
		return nil, err
	}
	return decodeOptional[Transaction](endpoint, resp)
}

// Delete removes the transaction with id.
func (s *TransactionService) Delete(ctx context.Context, id string) error {
	endpoint := itemPath(transactionsPath, id)
	resp, err := s.client.delete(ctx, endpoint)
	if err != nil {
		return err
	}
	_, err = open(endpoint, resp)
	return err
}

func itemPath(base, id string) string {
	return base + "/" + url.PathEscape(id)
}
