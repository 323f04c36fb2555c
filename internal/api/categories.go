// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package api

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/apex/log"
)

const (
	categoriesPath     = "/categories"
	categoriesInitPath = "/categories/initialize"
)

// CategoryService manages transaction categories. The list is cached.
type CategoryService struct {
	client *Client
}

// List returns all categories. Served from the cache while fresh.
func (s *CategoryService) List(ctx context.Context) ([]Category, error) {
	resp, err := s.client.cached(ctx, categoriesPath, url.Values{})
	if err != nil {
		return nil, err
	}
	return decode[[]Category](categoriesPath, resp)
}

// Create adds a category.
func (s *CategoryService) Create(ctx context.Context, in CategoryInput) (*Category, error) {
	resp, err := s.client.post(ctx, categoriesPath, in)
	if err != nil {
		return nil, err
	}
	return decodeOptional[Category](categoriesPath, resp)
}

// Initialize asks the service to create its default categories.
func (s *CategoryService) Initialize(ctx context.Context) error {
	resp, err := s.client.post(ctx, categoriesInitPath, nil)
	if err != nil {
		return err
	}
	_, err = open(categoriesInitPath, resp)
	return err
}

// ListOrInitialize lists categories. If the list cannot be fetched the
// defaults are initialized and the list is fetched once more. A list the
// service answered with success false is returned as is.
func (s *CategoryService) ListOrInitialize(ctx context.Context) ([]Category, error) {
	cats, err := s.List(ctx)
	if err == nil || errors.Is(err, ErrUnsuccessful) {
		return cats, err
	}
	if ctx.Err() != nil {
		return nil, err
	}

	log.WithError(err).Warn("failed to load categories, initializing defaults")
	if ierr := s.Initialize(ctx); ierr != nil {
		return nil, fmt.Errorf("failed to initialize categories: %w", ierr)
	}

	return s.List(ctx)
}
