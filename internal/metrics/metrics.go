// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// Package metrics exposes dispatcher events as Prometheus counters.
package metrics

import (
	"net/http"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "fintrack"

// Collector implements dispatch.Metrics on a private registry.
type Collector struct {
	registry       *prometheus.Registry
	hits           *prometheus.CounterVec
	misses         *prometheus.CounterVec
	bypasses       *prometheus.CounterVec
	invalidations  prometheus.Counter
	transportFails *prometheus.CounterVec
}

// New registers the fintrack counters on a fresh registry.
func New() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		hits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "hits_total",
			Help:      "Reads served from the response cache.",
		}, []string{"resource"}),
		misses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "misses_total",
			Help:      "Cacheable reads that went to the service.",
		}, []string{"resource"}),
		bypasses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "bypass_total",
			Help:      "Reads that skipped the response cache.",
		}, []string{"resource"}),
		invalidations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "invalidations_total",
			Help:      "Full cache clears caused by writes.",
		}),
		transportFails: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "transport",
			Name:      "errors_total",
			Help:      "Failed round trips to the service.",
		}, []string{"method", "resource"}),
	}

	c.registry.MustRegister(c.hits, c.misses, c.bypasses, c.invalidations, c.transportFails)
	return c
}

// Hit counts a read served from the cache.
func (c *Collector) Hit(endpoint string) {
	c.hits.WithLabelValues(Resource(endpoint)).Inc()
}

// Miss counts a cached read that went to the service.
func (c *Collector) Miss(endpoint string) {
	c.misses.WithLabelValues(Resource(endpoint)).Inc()
}

// Bypass counts a read that skipped the cache.
func (c *Collector) Bypass(endpoint string) {
	c.bypasses.WithLabelValues(Resource(endpoint)).Inc()
}

// Invalidate counts a full cache clear.
func (c *Collector) Invalidate() {
	c.invalidations.Inc()
}

// TransportError counts a failed round trip.
func (c *Collector) TransportError(method, endpoint string) {
	c.transportFails.WithLabelValues(method, Resource(endpoint)).Inc()
}

// Registry returns the registry the counters live on.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// Resource reduces an endpoint to a low-cardinality label. Dashboard
// endpoints keep their second segment, everything else keeps the first, so
// ids never become label values.
func Resource(endpoint string) string {
	parts := strings.Split(strings.Trim(endpoint, "/"), "/")
	if parts[0] == "" {
		return "root"
	}
	if parts[0] == "dashboard" && len(parts) > 1 {
		return parts[0] + "/" + parts[1]
	}
	return parts[0]
}
