// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package cache

import (
	"net/url"
	"strings"
)

// KeySeparator sits between the endpoint and the encoded parameters.
const KeySeparator = "_"

// Key derives the cache key for a read of endpoint with params. Parameters
// are encoded sorted by name, so two calls that build the same set in a
// different order share a key. Multiple values for one name keep their order.
func Key(endpoint string, params url.Values) string {
	var b strings.Builder
	b.WriteString(endpoint)
	b.WriteString(KeySeparator)
	if len(params) > 0 {
		// Encode sorts by key.
		b.WriteString(params.Encode())
	}
	return b.String()
}
