// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package api

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/tidwall/gjson"

	"github.com/staranto/fintrack/internal/transport"
)

var (
	// ErrUnsuccessful is returned when the service answers with
	// "success": false.
	ErrUnsuccessful = errors.New("request was not successful")
	// ErrNoData is returned when a read answers without a data member.
	ErrNoData = errors.New("response has no data")
)

// Envelope is the wrapper every service reply comes in.
type Envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Message string          `json:"message,omitempty"`
}

// open validates the envelope in resp and returns its data member, which may
// not exist.
func open(endpoint string, resp *transport.Response) (gjson.Result, error) {
	if resp == nil || !gjson.ValidBytes(resp.Body) {
		return gjson.Result{}, fmt.Errorf("%s: invalid response body", endpoint)
	}

	doc := gjson.ParseBytes(resp.Body)
	if !doc.Get("success").Bool() {
		msg := doc.Get("message").String()
		if msg == "" {
			return gjson.Result{}, fmt.Errorf("%s: %w", endpoint, ErrUnsuccessful)
		}
		return gjson.Result{}, fmt.Errorf("%s: %w: %s", endpoint, ErrUnsuccessful, msg)
	}

	return doc.Get("data"), nil
}

// decode unwraps resp and unmarshals its data into a T.
func decode[T any](endpoint string, resp *transport.Response) (T, error) {
	var out T

	data, err := open(endpoint, resp)
	if err != nil {
		return out, err
	}
	if !data.Exists() || data.Type == gjson.Null {
		return out, fmt.Errorf("%s: %w", endpoint, ErrNoData)
	}

	if err := json.Unmarshal([]byte(data.Raw), &out); err != nil {
		return out, fmt.Errorf("%s: failed to decode data: %w", endpoint, err)
	}
	return out, nil
}

// decodeOptional is decode for writes, where the service may not echo the
// entity back. A missing data member yields nil.
func decodeOptional[T any](endpoint string, resp *transport.Response) (*T, error) {
	data, err := open(endpoint, resp)
	if err != nil {
		return nil, err
	}
	if !data.Exists() || data.Type == gjson.Null {
		return nil, nil
	}

	out := new(T)
	if err := json.Unmarshal([]byte(data.Raw), out); err != nil {
		return nil, fmt.Errorf("%s: failed to decode data: %w", endpoint, err)
	}
	return out, nil
}

// Raw returns the data member of resp unchanged, after validating the
// envelope. It serves callers that render the service's own JSON.
func Raw(endpoint string, resp *transport.Response) ([]byte, error) {
	data, err := open(endpoint, resp)
	if err != nil {
		return nil, err
	}
	if !data.Exists() {
		return nil, fmt.Errorf("%s: %w", endpoint, ErrNoData)
	}
	return []byte(data.Raw), nil
}
