// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// Package tracing installs the process-wide OpenTelemetry tracer provider.
package tracing

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/apex/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// EnvVar turns span export on when set to a true value.
const EnvVar = "FINTRACK_TRACE"

// Shutdown flushes and stops the provider installed by Setup.
type Shutdown func(context.Context) error

// Enabled reports whether FINTRACK_TRACE asks for tracing.
func Enabled() bool {
	switch os.Getenv(EnvVar) {
	case "1", "true", "TRUE", "yes", "on":
		return true
	}
	return false
}

// Setup installs a provider that writes finished spans to w as JSON. When
// enabled is false the global provider is left alone and the returned
// Shutdown does nothing.
func Setup(w io.Writer, enabled bool) (Shutdown, error) {
	if !enabled {
		return func(context.Context) error { return nil }, nil
	}

	exporter, err := stdouttrace.New(stdouttrace.WithWriter(w), stdouttrace.WithPrettyPrint())
	if err != nil {
		return nil, fmt.Errorf("failed to create span exporter: %w", err)
	}

	tp := sdktrace.NewTracerProvider(sdktrace.WithBatcher(exporter))
	otel.SetTracerProvider(tp)
	log.Debug("tracing enabled")

	return tp.Shutdown, nil
}
