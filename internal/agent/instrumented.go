package agent

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/meetsched/meetsched/internal/instrumentation"
	"github.com/meetsched/meetsched/internal/logging"
)

// LLM prompt kinds recorded on model-call metrics and spans.
const (
	LLMOperationExtract    = "extract"
	LLMOperationAlternates = "alternates"
	LLMOperationResolve    = "resolve"
)

// InstrumentedInbox wraps an Inbox so every Gmail call is recorded as a
// Google API operation metric and a client span. Metrics may be nil.
type InstrumentedInbox struct {
	inbox   Inbox
	metrics *instrumentation.Metrics
	logger  *slog.Logger
}

// NewInstrumentedInbox wraps inbox with metrics and tracing.
func NewInstrumentedInbox(inbox Inbox, metrics *instrumentation.Metrics, logger *slog.Logger) *InstrumentedInbox {
	if logger == nil {
		logger = slog.Default()
	}
	return &InstrumentedInbox{
		inbox:   inbox,
		metrics: metrics,
		logger:  logging.WithService(logger, instrumentation.ServiceGmail),
	}
}

func (i *InstrumentedInbox) ListUnread(ctx context.Context, maxResults int64) ([]string, error) {
	ctx, span := instrumentation.StartExternalSpan(ctx, instrumentation.ServiceGmail, "list")
	defer span.End()

	start := time.Now()
	ids, err := i.inbox.ListUnread(ctx, maxResults)
	i.observe(ctx, span, "list", start, err)
	return ids, err
}

func (i *InstrumentedInbox) Fetch(ctx context.Context, id string) (Message, error) {
	ctx, span := instrumentation.StartExternalSpan(ctx, instrumentation.ServiceGmail, "get")
	defer span.End()

	start := time.Now()
	msg, err := i.inbox.Fetch(ctx, id)
	i.observe(ctx, span, "get", start, err)
	return msg, err
}

func (i *InstrumentedInbox) MarkRead(ctx context.Context, id string) error {
	ctx, span := instrumentation.StartExternalSpan(ctx, instrumentation.ServiceGmail, "modify")
	defer span.End()

	start := time.Now()
	err := i.inbox.MarkRead(ctx, id)
	i.observe(ctx, span, "modify", start, err)
	return err
}

func (i *InstrumentedInbox) Send(ctx context.Context, to, subject, body string) (string, error) {
	ctx, span := instrumentation.StartExternalSpan(ctx, instrumentation.ServiceGmail, "send")
	defer span.End()

	start := time.Now()
	id, err := i.inbox.Send(ctx, to, subject, body)
	i.observe(ctx, span, "send", start, err)
	return id, err
}

func (i *InstrumentedInbox) observe(ctx context.Context, span trace.Span, operation string, start time.Time, err error) {
	status := spanOutcome(span, err)
	i.metrics.RecordGoogleAPIOperation(ctx, instrumentation.ServiceGmail, operation, status, time.Since(start))
	i.logger.Debug("external call",
		logging.Operation(operation), logging.Status(status), logging.Err(err))
}

// InstrumentedCalendar wraps a Calendar the same way InstrumentedInbox wraps
// an Inbox.
type InstrumentedCalendar struct {
	cal     Calendar
	metrics *instrumentation.Metrics
	logger  *slog.Logger
}

// NewInstrumentedCalendar wraps cal with metrics and tracing.
func NewInstrumentedCalendar(cal Calendar, metrics *instrumentation.Metrics, logger *slog.Logger) *InstrumentedCalendar {
	if logger == nil {
		logger = slog.Default()
	}
	return &InstrumentedCalendar{
		cal:     cal,
		metrics: metrics,
		logger:  logging.WithService(logger, instrumentation.ServiceCalendar),
	}
}

func (c *InstrumentedCalendar) IsFree(ctx context.Context, start, end time.Time) (bool, error) {
	ctx, span := instrumentation.StartExternalSpan(ctx, instrumentation.ServiceCalendar, "freebusy")
	defer span.End()

	began := time.Now()
	free, err := c.cal.IsFree(ctx, start, end)
	c.observe(ctx, span, "freebusy", began, err)
	return free, err
}

func (c *InstrumentedCalendar) Insert(ctx context.Context, summary string, start, end time.Time, attendee string) (string, error) {
	ctx, span := instrumentation.StartExternalSpan(ctx, instrumentation.ServiceCalendar, "insert")
	defer span.End()

	began := time.Now()
	link, err := c.cal.Insert(ctx, summary, start, end, attendee)
	c.observe(ctx, span, "insert", began, err)
	return link, err
}

func (c *InstrumentedCalendar) observe(ctx context.Context, span trace.Span, operation string, start time.Time, err error) {
	status := spanOutcome(span, err)
	c.metrics.RecordGoogleAPIOperation(ctx, instrumentation.ServiceCalendar, operation, status, time.Since(start))
	c.logger.Debug("external call",
		logging.Operation(operation), logging.Status(status), logging.Err(err))
}

// InstrumentedCompleter wraps a Completer and records each model call under
// the given prompt kind (extract, alternates, resolve). Each prompt kind gets
// its own wrapper so latency series stay separable.
type InstrumentedCompleter struct {
	llm       Completer
	operation string
	metrics   *instrumentation.Metrics
	logger    *slog.Logger
}

// NewInstrumentedCompleter wraps llm with metrics and tracing for one prompt
// kind.
func NewInstrumentedCompleter(llm Completer, operation string, metrics *instrumentation.Metrics, logger *slog.Logger) *InstrumentedCompleter {
	if logger == nil {
		logger = slog.Default()
	}
	return &InstrumentedCompleter{
		llm:       llm,
		operation: operation,
		metrics:   metrics,
		logger:    logging.WithService(logger, instrumentation.ServiceLLM),
	}
}

func (c *InstrumentedCompleter) Complete(ctx context.Context, system, user string) (string, error) {
	ctx, span := instrumentation.StartExternalSpan(ctx, instrumentation.ServiceLLM, c.operation)
	defer span.End()

	start := time.Now()
	raw, err := c.llm.Complete(ctx, system, user)

	status := spanOutcome(span, err)
	c.metrics.RecordLLMCall(ctx, c.operation, status, time.Since(start))
	c.logger.Debug("model call",
		logging.Operation(c.operation), logging.Status(status), logging.Err(err))
	return raw, err
}

// spanOutcome marks the span from err and returns the matching status label.
func spanOutcome(span trace.Span, err error) string {
	if err != nil {
		instrumentation.SetSpanError(span, err)
		return instrumentation.StatusError
	}
	instrumentation.SetSpanSuccess(span)
	return instrumentation.StatusSuccess
}
