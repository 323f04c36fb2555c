// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

// Package cache holds the process-wide response cache. Entries share a single
// freshness window and are expired lazily, at read time, rather than by a
// background sweeper. A full Clear is the only invalidation primitive.
package cache
