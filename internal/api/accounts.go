// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package api

import (
	"context"
	"net/url"
)

const accountsPath = "/accounts"

// AccountService manages accounts. The list is cached; single reads are not.
type AccountService struct {
	client *Client
}

// List returns all accounts. Served from the cache while fresh.
func (s *AccountService) List(ctx context.Context) ([]Account, error) {
	resp, err := s.client.cached(ctx, accountsPath, url.Values{})
	if err != nil {
		return nil, err
	}
	return decode[[]Account](accountsPath, resp)
}

// Get returns one account. Served from the cache while fresh.
func (s *AccountService) Get(ctx context.Context, id string) (*Account, error) {
	endpoint := itemPath(accountsPath, id)
	resp, err := s.client.cached(ctx, endpoint, url.Values{})
	if err != nil {
		return nil, err
	}
	a, err := decode[Account](endpoint, resp)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// Create adds an account. The result is nil when the service does not echo it.
func (s *AccountService) Create(ctx context.Context, in AccountInput) (*Account, error) {
	resp, err := s.client.post(ctx, accountsPath, in)
	if err != nil {
		return nil, err
	}
	return decodeOptional[Account](accountsPath, resp)
}

// Update replaces the account with id.
func (s *AccountService) Update(ctx context.Context, id string, in AccountInput) (*Account, error) {
	endpoint := itemPath(accountsPath, id)
	resp, err := s.client.put(ctx, endpoint, in)
	if err != nil {
		return nil, err
	}
	return decodeOptional[Account](endpoint, resp)
}

// Delete removes the account with id.
func (s *AccountService) Delete(ctx context.Context, id string) error {
	endpoint := itemPath(accountsPath, id)
	resp, err := s.client.delete(ctx, endpoint)
	if err != nil {
		return err
	}
	_, err = open(endpoint, resp)
	return err
}
