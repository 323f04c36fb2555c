// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// Package api is the typed client for the finance service.
//
// Dashboard aggregates, accounts and the category list are served
// from a short-lived response cache. Transaction and transfer reads always go
// to the service. Every write empties the cache before it is sent, so the
// next read of any view reflects it.
package api
