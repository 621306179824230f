// Package tracing is a thin wrapper around OpenTelemetry so the rest of the
// code base can create spans without importing the upstream API directly.
package tracing
