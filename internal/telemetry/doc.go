// Package telemetry sets up OpenTelemetry tracing for the game controller.
//
// Tracing is opt-in: without a collector endpoint Setup registers nothing and
// spans go to the global no-op provider.
package telemetry
