package agent

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/meetsched/meetsched/internal/logging"
)

// Activity event types.
const (
	ActivityEmailProcessed = "EmailProcessed"
	ActivityEventScheduled = "EventScheduled"
	ActivityAlternatesSent = "AlternatesSent"
	ActivityReplyResolved  = "ReplyResolved"
	ActivityReplyUnmatched = "ReplyUnmatched"
)

// ActivityEntry is one record in a user's append-only activity log.
type ActivityEntry struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	EventType string    `json:"event_type"`
	Details   string    `json:"details"`
}

// ActivityLog appends activity entries to the durable store. All writes are
// best-effort: failures are logged and swallowed, never surfaced to the
// caller.
type ActivityLog struct {
	store  Store
	user   string
	logger *slog.Logger
	now    func() time.Time
}

// NewActivityLog creates an ActivityLog for one user.
func NewActivityLog(st Store, user string, logger *slog.Logger) *ActivityLog {
	if logger == nil {
		logger = slog.Default()
	}
	return &ActivityLog{store: st, user: user, logger: logger, now: time.Now}
}

// Record appends an entry to the user's activity log. Safe to call on a nil
// log, which records nothing.
func (a *ActivityLog) Record(ctx context.Context, eventType, details string) {
	if a == nil {
		return
	}
	entry := ActivityEntry{
		ID:        uuid.NewString(),
		Timestamp: a.now().UTC(),
		EventType: eventType,
		Details:   details,
	}
	data, err := json.Marshal(entry)
	if err != nil {
		a.logger.Warn("failed to encode activity entry", logging.Err(err))
		return
	}
	if err := a.store.AppendActivity(ctx, a.user, data); err != nil {
		a.logger.Warn("failed to append activity entry",
			slog.String(logging.KeyUser, logging.AnonymizeEmail(a.user)),
			logging.Err(err))
	}
}
