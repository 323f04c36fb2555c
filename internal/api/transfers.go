// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package api

import (
	"context"
	"net/url"
	"time"
)

const transfersPath = "/transfers"

// TransferService moves money between accounts. Reads always go to the
// service.
type TransferService struct {
	client *Client
}

// DateRange bounds a transfer list. It is only sent when both ends are set.
type DateRange struct {
	Start time.Time
	End   time.Time
}

func (r DateRange) values() url.Values {
	v := url.Values{}
	if r.Start.IsZero() || r.End.IsZero() {
		return v
	}
	v.Set("startDate", ISO(r.Start))
	v.Set("endDate", ISO(r.End))
	return v
}

// List returns transfers, limited to r when both ends are set. Always asks
// the service.
func (s *TransferService) List(ctx context.Context, r DateRange) ([]Transfer, error) {
	resp, err := s.client.bypass(ctx, transfersPath, r.values())
	if err != nil {
		return nil, err
	}
	return decode[[]Transfer](transfersPath, resp)
}

// Get returns one transfer.
func (s *TransferService) Get(ctx context.Context, id string) (*Transfer, error) {
	endpoint := itemPath(transfersPath, id)
	resp, err := s.client.bypass(ctx, endpoint, nil)
	if err != nil {
		return nil, err
	}
	t, err := decode[Transfer](endpoint, resp)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// Create moves money between two accounts.
func (s *TransferService) Create(ctx context.Context, in TransferInput) (*Transfer, error) {
	resp, err := s.client.post(ctx, transfersPath, in)
	if err != nil {
		return nil, err
	}
	return decodeOptional[Transfer](transfersPath, resp)
}
