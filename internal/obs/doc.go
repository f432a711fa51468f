// Package obs carries the observability context of the engine: a
// structured logger, an OpenTelemetry tracer and a timing recorder. An
// *Observer is handed explicitly to graph building and evaluation instead
// of living in package-level state.
package obs
