// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// Package dispatch sits between the service methods and the transport. Reads
// either go through the response cache or bypass it; writes always empty the
// cache before they are sent.
package dispatch
