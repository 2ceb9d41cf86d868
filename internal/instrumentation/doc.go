// Package instrumentation provides OpenTelemetry-based observability for the
// meetsched agent.
//
// It wires up metrics and tracing with selectable exporters:
//
//   - Metrics: Prometheus (default), OTLP HTTP, or stdout
//   - Tracing: none (default), OTLP HTTP, or stdout
//
// Configuration is environment-driven via DefaultConfig; see Config for the
// recognized variables.
//
// The Metrics type records the agent's domain events: poll cycles, processed
// messages, scheduling outcomes, confirmation resolutions, Google API calls,
// and language model calls. High-cardinality labels (per-user) are gated
// behind METRICS_DETAILED_LABELS to avoid cardinality explosion in production.
//
// Usage:
//
//	provider, err := instrumentation.NewProvider(ctx, instrumentation.DefaultConfig())
//	if err != nil { ... }
//	defer provider.Shutdown(ctx)
//
//	provider.Metrics().RecordCycle(ctx, user, instrumentation.StatusSuccess, elapsed)
package instrumentation
