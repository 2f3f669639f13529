// Package tracing provides OpenTelemetry instrumentation for HTTP
// request handling. Trace context is extracted from incoming headers
// (W3C Trace Context) and the trace ID is echoed back to clients in the
// X-Trace-Id response header.
package tracing

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("wimbledon-api")

// Tracer returns the service tracer used to start spans.
func Tracer() trace.Tracer {
	return tracer
}
