package instrumentation

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metric attribute keys - using constants for consistency and DRY
const (
	attrStatus    = "status"
	attrOperation = "operation"
	attrService   = "service"
	attrResult    = "result"
	attrOutcome   = "outcome"
	attrUser      = "user"
)

// Metrics provides methods for recording observability metrics.
type Metrics struct {
	// Agent loop metrics
	cyclesTotal     metric.Int64Counter
	cycleDuration   metric.Float64Histogram
	messagesTotal   metric.Int64Counter
	schedulingTotal metric.Int64Counter
	resolutionTotal metric.Int64Counter
	activeAgents    metric.Int64UpDownCounter

	// Google API metrics
	googleAPIOperationsTotal   metric.Int64Counter
	googleAPIOperationDuration metric.Float64Histogram

	// Language model metrics
	llmCallsTotal   metric.Int64Counter
	llmCallDuration metric.Float64Histogram

	// Configuration
	// detailedLabels controls whether high-cardinality labels are included
	detailedLabels bool
}

// NewNoopMetrics returns a Metrics instance whose recorders do nothing.
// Useful for one-shot invocations and tests.
func NewNoopMetrics() *Metrics {
	return &Metrics{}
}

// NewMetrics creates a new Metrics instance with all metrics initialized.
// The detailedLabels parameter controls whether high-cardinality labels are included.
func NewMetrics(meter metric.Meter, detailedLabels bool) (*Metrics, error) {
	m := &Metrics{
		detailedLabels: detailedLabels,
	}

	var err error

	// Agent loop metrics
	m.cyclesTotal, err = meter.Int64Counter(
		"agent_cycles_total",
		metric.WithDescription("Total number of agent poll cycles"),
		metric.WithUnit("{cycle}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create agent_cycles_total counter: %w", err)
	}

	m.cycleDuration, err = meter.Float64Histogram(
		"agent_cycle_duration_seconds",
		metric.WithDescription("Agent poll cycle duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.1, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0, 60.0),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create agent_cycle_duration_seconds histogram: %w", err)
	}

	m.messagesTotal, err = meter.Int64Counter(
		"agent_messages_processed_total",
		metric.WithDescription("Total number of inbox messages processed"),
		metric.WithUnit("{message}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create agent_messages_processed_total counter: %w", err)
	}

	m.schedulingTotal, err = meter.Int64Counter(
		"agent_scheduling_total",
		metric.WithDescription("Total number of scheduling attempts by outcome"),
		metric.WithUnit("{attempt}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create agent_scheduling_total counter: %w", err)
	}

	m.resolutionTotal, err = meter.Int64Counter(
		"agent_confirmation_resolutions_total",
		metric.WithDescription("Total number of confirmation reply resolutions by result"),
		metric.WithUnit("{resolution}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create agent_confirmation_resolutions_total counter: %w", err)
	}

	m.activeAgents, err = meter.Int64UpDownCounter(
		"active_agents",
		metric.WithDescription("Number of running per-user agent loops"),
		metric.WithUnit("{agent}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create active_agents gauge: %w", err)
	}

	// Google API Metrics
	m.googleAPIOperationsTotal, err = meter.Int64Counter(
		"google_api_operations_total",
		metric.WithDescription("Total number of Google API operations"),
		metric.WithUnit("{operation}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create google_api_operations_total counter: %w", err)
	}

	m.googleAPIOperationDuration, err = meter.Float64Histogram(
		"google_api_operation_duration_seconds",
		metric.WithDescription("Google API operation duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.01, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create google_api_operation_duration_seconds histogram: %w", err)
	}

	// Language model metrics
	m.llmCallsTotal, err = meter.Int64Counter(
		"llm_calls_total",
		metric.WithDescription("Total number of language model calls"),
		metric.WithUnit("{call}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create llm_calls_total counter: %w", err)
	}

	m.llmCallDuration, err = meter.Float64Histogram(
		"llm_call_duration_seconds",
		metric.WithDescription("Language model call duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0, 60.0),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create llm_call_duration_seconds histogram: %w", err)
	}

	return m, nil
}

// RecordCycle records a completed agent poll cycle with status and duration.
// The user label is only added when detailedLabels is enabled.
func (m *Metrics) RecordCycle(ctx context.Context, user, status string, duration time.Duration) {
	if m == nil || m.cyclesTotal == nil || m.cycleDuration == nil {
		return // Instrumentation not initialized
	}

	attrs := []attribute.KeyValue{
		attribute.String(attrStatus, status),
	}
	if m.detailedLabels && user != "" {
		attrs = append(attrs, attribute.String(attrUser, user))
	}

	m.cyclesTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.cycleDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
}

// RecordMessage records an inbox message processed by the agent.
// Status should be one of: "success", "error".
func (m *Metrics) RecordMessage(ctx context.Context, status string) {
	if m == nil || m.messagesTotal == nil {
		return // Instrumentation not initialized
	}

	m.messagesTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String(attrStatus, status),
	))
}

// RecordScheduling records a scheduling attempt outcome.
// Outcome should be one of: "booked", "negotiated", "dropped".
func (m *Metrics) RecordScheduling(ctx context.Context, outcome string) {
	if m == nil || m.schedulingTotal == nil {
		return // Instrumentation not initialized
	}

	m.schedulingTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String(attrOutcome, outcome),
	))
}

// RecordResolution records a confirmation reply resolution result.
// Result should be one of: "matched", "unmatched".
func (m *Metrics) RecordResolution(ctx context.Context, result string) {
	if m == nil || m.resolutionTotal == nil {
		return // Instrumentation not initialized
	}

	m.resolutionTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String(attrResult, result),
	))
}

// RecordGoogleAPIOperation records a Google API operation with service, operation,
// status, and duration.
//
// Parameters:
//   - service: Google service name (gmail, calendar)
//   - operation: Operation type (list, get, send, freebusy, insert, etc.)
//   - status: Result status ("success" or "error")
//   - duration: Time taken for the operation
func (m *Metrics) RecordGoogleAPIOperation(ctx context.Context, service, operation, status string, duration time.Duration) {
	if m == nil || m.googleAPIOperationsTotal == nil || m.googleAPIOperationDuration == nil {
		return // Instrumentation not initialized
	}

	attrs := []attribute.KeyValue{
		attribute.String(attrService, service),
		attribute.String(attrOperation, operation),
		attribute.String(attrStatus, status),
	}

	m.googleAPIOperationsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.googleAPIOperationDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
}

// RecordLLMCall records a language model call with the prompt kind
// (extract, alternates, resolve), status, and duration.
func (m *Metrics) RecordLLMCall(ctx context.Context, operation, status string, duration time.Duration) {
	if m == nil || m.llmCallsTotal == nil || m.llmCallDuration == nil {
		return // Instrumentation not initialized
	}

	attrs := []attribute.KeyValue{
		attribute.String(attrOperation, operation),
		attribute.String(attrStatus, status),
	}

	m.llmCallsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.llmCallDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
}

// IncrementActiveAgents increments the running agent loop counter.
func (m *Metrics) IncrementActiveAgents(ctx context.Context) {
	if m == nil || m.activeAgents == nil {
		return // Instrumentation not initialized
	}

	m.activeAgents.Add(ctx, 1)
}

// DecrementActiveAgents decrements the running agent loop counter.
func (m *Metrics) DecrementActiveAgents(ctx context.Context) {
	if m == nil || m.activeAgents == nil {
		return // Instrumentation not initialized
	}

	m.activeAgents.Add(ctx, -1)
}
