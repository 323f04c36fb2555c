// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package dispatch

// Metrics receives dispatcher events. Implementations must be safe for
// concurrent use.
type Metrics interface {
	Hit(endpoint string)
	Miss(endpoint string)
	Bypass(endpoint string)
	Invalidate()
	TransportError(method, endpoint string)
}

// NoopMetrics discards every event.
type NoopMetrics struct{}

func (NoopMetrics) Hit(string) {}
func (NoopMetrics) Miss(string) {}
func (NoopMetrics) Bypass(string) {}
func (NoopMetrics) Invalidate() {}
func (NoopMetrics) TransportError(string, string) {}
