package agent

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/meetsched/meetsched/internal/instrumentation"
	"github.com/meetsched/meetsched/internal/logging"
)

const (
	// DefaultPollInterval is the pause between cycles.
	DefaultPollInterval = 60 * time.Second
	// DefaultMaxResults bounds how many unread messages one cycle
	// examines.
	DefaultMaxResults = 5
)

// LoopConfig holds the per-user loop settings.
type LoopConfig struct {
	User         string
	PollInterval time.Duration // zero means DefaultPollInterval
	MaxResults   int64         // zero means DefaultMaxResults
	SeenCapacity int           // zero means DefaultSeenCapacity
}

// Deps are the collaborators one loop instance drives. All are required
// except Metrics, which may be nil.
type Deps struct {
	Inbox     Inbox
	Extractor *Extractor
	Scheduler *Scheduler
	Resolver  *Resolver
	Tracker   *Tracker
	Store     Store
	Activity  *ActivityLog
	Logger    *slog.Logger
	Metrics   *instrumentation.Metrics
}

// Loop is one user's agent cycle: poll unread mail, extract and schedule
// events, resolve confirmation replies, sleep, repeat. All steps within a
// cycle run sequentially; a Loop is not shared across goroutines.
type Loop struct {
	cfg     LoopConfig
	deps    Deps
	seen    *SeenSet
	logger  *slog.Logger
	metrics *instrumentation.Metrics
	now     func() time.Time
}

// NewLoop creates a Loop for one user.
func NewLoop(cfg LoopConfig, deps Deps) (*Loop, error) {
	if cfg.User == "" {
		return nil, fmt.Errorf("user is required")
	}
	if deps.Inbox == nil || deps.Extractor == nil || deps.Scheduler == nil ||
		deps.Resolver == nil || deps.Tracker == nil || deps.Store == nil {
		return nil, fmt.Errorf("missing loop dependency")
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = DefaultPollInterval
	}
	if cfg.MaxResults <= 0 {
		cfg.MaxResults = DefaultMaxResults
	}

	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logging.WithUser(logger, logging.AnonymizeEmail(cfg.User))

	return &Loop{
		cfg:     cfg,
		deps:    deps,
		logger:  logger,
		metrics: deps.Metrics,
		now:     time.Now,
	}, nil
}

// Run executes cycles until ctx is cancelled. The stop signal is observed at
// the top of every cycle and during the sleep between cycles, so shutdown
// latency is bounded by the poll interval. No failure inside a cycle is
// fatal to the loop.
func (l *Loop) Run(ctx context.Context) {
	if l.seen == nil {
		l.loadSeen(ctx)
	}
	l.logger.Info("agent loop started")

	l.metrics.IncrementActiveAgents(ctx)
	defer l.metrics.DecrementActiveAgents(context.WithoutCancel(ctx))

	for {
		if ctx.Err() != nil {
			l.logger.Info("agent loop stopped")
			return
		}

		start := l.now()
		status := l.runCycle(ctx)
		l.metrics.RecordCycle(ctx, l.cfg.User, status, l.now().Sub(start))

		select {
		case <-ctx.Done():
			l.logger.Info("agent loop stopped")
			return
		case <-time.After(l.cfg.PollInterval):
		}
	}
}

// RunOnce executes a single cycle and returns an error when any pass inside
// it failed. Meant for one-shot invocations; Run is the long-running form.
func (l *Loop) RunOnce(ctx context.Context) error {
	if l.seen == nil {
		l.loadSeen(ctx)
	}
	if status := l.runCycle(ctx); status != logging.StatusSuccess {
		return fmt.Errorf("cycle completed with errors, see log")
	}
	return nil
}

// loadSeen restores the persisted seen-id set. A read failure falls back to
// an empty set; it must never prevent the loop from starting.
func (l *Loop) loadSeen(ctx context.Context) {
	ids, err := l.deps.Store.LoadSeenIDs(ctx, l.cfg.User)
	if err != nil {
		l.logger.Warn("failed to load seen ids, starting empty", logging.Err(err))
		ids = nil
	}
	l.seen = NewSeenSet(l.cfg.SeenCapacity, ids)
}

// runCycle performs one poll-process-resolve pass and returns a status for
// metrics.
func (l *Loop) runCycle(ctx context.Context) string {
	ctx, span := instrumentation.StartCycleSpan(ctx, logging.AnonymizeEmail(l.cfg.User))
	defer span.End()

	status := logging.StatusSuccess
	if err := l.processNewMessages(ctx); err != nil {
		l.logger.Error("message pass failed", logging.Err(err))
		instrumentation.SetSpanError(span, err)
		status = logging.StatusError
	}
	instrumentation.AddSpanEvent(span, "message_pass_complete")

	if err := l.processReplies(ctx); err != nil {
		l.logger.Error("reply pass failed", logging.Err(err))
		instrumentation.SetSpanError(span, err)
		status = logging.StatusError
	}
	instrumentation.AddSpanEvent(span, "reply_pass_complete")

	if status == logging.StatusSuccess {
		instrumentation.SetSpanSuccess(span)
	}
	l.logger.Debug("cycle complete", logging.Status(status),
		slog.String("trace_id", instrumentation.GetTraceID(ctx)))
	return status
}

// processNewMessages runs the extract-and-schedule pass over unread mail.
// Per-message failures are logged and skipped so one bad email never aborts
// the batch.
func (l *Loop) processNewMessages(ctx context.Context) error {
	logger := logging.WithOperation(l.logger, "message_pass")

	ids, err := l.deps.Inbox.ListUnread(ctx, l.cfg.MaxResults)
	if err != nil {
		return fmt.Errorf("failed to list unread messages: %w", err)
	}

	var newlySeen []string
	for _, id := range ids {
		if l.seen.Contains(id) {
			continue
		}
		l.seen.Add(id)
		newlySeen = append(newlySeen, id)

		if err := l.processMessage(ctx, id); err != nil {
			logger.Warn("failed to process message",
				logging.MessageID(id), logging.Err(err))
			l.metrics.RecordMessage(ctx, logging.StatusError)
		}
	}

	// Persist the updated seen set. A write failure costs at most a
	// duplicate extraction attempt after a restart.
	if len(newlySeen) > 0 {
		if err := l.deps.Store.AddSeenIDs(ctx, l.cfg.User, newlySeen...); err != nil {
			logger.Warn("failed to persist seen ids", logging.Err(err))
		}
	}
	return nil
}

func (l *Loop) processMessage(ctx context.Context, id string) (err error) {
	ctx, span := instrumentation.StartSpan(ctx, "agent.message",
		attribute.String(instrumentation.SpanAttrPhase, "process"),
		attribute.String(instrumentation.SpanAttrMessageID, id))
	defer func() {
		instrumentation.SetSpanError(span, err)
		span.End()
	}()

	msg, err := l.deps.Inbox.Fetch(ctx, id)
	if err != nil {
		return fmt.Errorf("fetch failed: %w", err)
	}

	l.deps.Activity.Record(ctx, ActivityEmailProcessed,
		fmt.Sprintf("Processed message from %s", msg.Sender))

	draft, err := l.deps.Extractor.Extract(ctx, msg.Body, l.now())
	if err != nil {
		return fmt.Errorf("extraction failed: %w", err)
	}
	if draft == nil {
		l.logger.Debug("no event found in message",
			logging.MessageID(id), logging.SenderHash(msg.Sender))
		l.metrics.RecordMessage(ctx, logging.StatusSkipped)
		return nil
	}

	outcome, link, err := l.deps.Scheduler.Schedule(ctx, *draft, msg.Sender, id)
	if err != nil {
		return fmt.Errorf("scheduling failed: %w", err)
	}
	l.metrics.RecordScheduling(ctx, string(outcome))
	l.metrics.RecordMessage(ctx, logging.StatusSuccess)

	switch outcome {
	case OutcomeBooked:
		l.logger.Info("event scheduled",
			slog.String("title", draft.Title),
			slog.String("link", link),
			logging.SenderHash(msg.Sender))
		l.deps.Activity.Record(ctx, ActivityEventScheduled,
			fmt.Sprintf("Scheduled '%s' on %s at %s", draft.Title, draft.Date, draft.Start))
	case OutcomeNegotiated:
		l.logger.Info("alternates offered",
			slog.String("title", draft.Title),
			logging.SenderHash(msg.Sender),
			logging.Domain(msg.Sender))
		l.deps.Activity.Record(ctx, ActivityAlternatesSent,
			fmt.Sprintf("Offered alternate slots for '%s' to %s", draft.Title, msg.Sender))
	case OutcomeDropped:
		l.logger.Debug("draft dropped", slog.String("title", draft.Title))
	}
	return nil
}

// processReplies runs the confirmation pass: any unread message whose sender
// has a pending confirmation is resolved against the offered slots, and on a
// match the slot is booked without an availability re-check since the agent
// itself proposed it. Every examined message is marked read so the next
// cycle's unread listing stays fresh; a failed booking leaves the message
// unread and the confirmation standing so the reply is retried.
func (l *Loop) processReplies(ctx context.Context) error {
	logger := logging.WithOperation(l.logger, "reply_pass")

	ids, err := l.deps.Inbox.ListUnread(ctx, l.cfg.MaxResults)
	if err != nil {
		return fmt.Errorf("failed to list unread messages: %w", err)
	}

	for _, id := range ids {
		if err := l.processReply(ctx, id); err != nil {
			logger.Warn("failed to process reply",
				logging.MessageID(id), logging.Err(err))
			continue
		}
		if err := l.deps.Inbox.MarkRead(ctx, id); err != nil {
			logger.Warn("failed to mark message read",
				logging.MessageID(id), logging.Err(err))
		}
	}
	return nil
}

func (l *Loop) processReply(ctx context.Context, id string) (err error) {
	ctx, span := instrumentation.StartSpan(ctx, "agent.reply",
		attribute.String(instrumentation.SpanAttrPhase, "resolve"),
		attribute.String(instrumentation.SpanAttrMessageID, id))
	defer func() {
		instrumentation.SetSpanError(span, err)
		span.End()
	}()

	msg, err := l.deps.Inbox.Fetch(ctx, id)
	if err != nil {
		return fmt.Errorf("fetch failed: %w", err)
	}
	if msg.Sender == "" {
		return nil
	}

	pending, err := l.deps.Tracker.Get(ctx, msg.Sender)
	if err != nil {
		return fmt.Errorf("failed to load pending confirmation: %w", err)
	}
	if pending == nil {
		return nil
	}

	selected, err := l.deps.Resolver.Resolve(ctx, msg.Body, pending.Options)
	if err != nil {
		return fmt.Errorf("resolution failed: %w", err)
	}
	if selected == nil {
		// No match: the confirmation stays, the reply is consumed.
		l.logger.Info("reply matched no offered slot", logging.SenderHash(msg.Sender))
		l.metrics.RecordResolution(ctx, instrumentation.ResultUnmatched)
		l.deps.Activity.Record(ctx, ActivityReplyUnmatched,
			fmt.Sprintf("Reply from %s matched no offered slot", msg.Sender))
		return nil
	}

	link, err := l.deps.Scheduler.Book(ctx, selected.Draft(ConfirmedMeetingTitle), msg.Sender)
	if err != nil {
		return fmt.Errorf("failed to book confirmed slot: %w", err)
	}

	// Clear the confirmation only after the booking succeeded.
	if err := l.deps.Tracker.Remove(ctx, msg.Sender); err != nil {
		l.logger.Warn("failed to clear pending confirmation",
			logging.SenderHash(msg.Sender), logging.Err(err))
	}

	l.logger.Info("confirmed slot booked",
		slog.String("link", link),
		logging.SenderHash(msg.Sender))
	l.metrics.RecordResolution(ctx, instrumentation.ResultMatched)
	l.deps.Activity.Record(ctx, ActivityReplyResolved,
		fmt.Sprintf("Booked confirmed slot %s %s-%s for %s",
			selected.Date, selected.Start, selected.End, msg.Sender))
	return nil
}
