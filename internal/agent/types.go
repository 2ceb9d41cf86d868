package agent

import (
	"context"
	"fmt"
	"time"
)

// EventDraft is what the extractor pulls out of an email body. Any missing
// field makes the draft incomplete, and incomplete drafts are discarded.
type EventDraft struct {
	Title string `json:"title"`
	Date  string `json:"date"`  // YYYY-MM-DD
	Start string `json:"start"` // HH:MM, 24-hour
	End   string `json:"end"`   // HH:MM, 24-hour
}

// Complete reports whether all four fields are present.
func (d EventDraft) Complete() bool {
	return d.Title != "" && d.Date != "" && d.Start != "" && d.End != ""
}

// SlotOption is a proposed meeting slot: an EventDraft minus the title.
type SlotOption struct {
	Date  string `json:"date"`
	Start string `json:"start"`
	End   string `json:"end"`
}

// Draft combines a slot with a title into a bookable draft.
func (o SlotOption) Draft(title string) EventDraft {
	return EventDraft{Title: title, Date: o.Date, Start: o.Start, End: o.End}
}

// PendingConfirmation records an open negotiation with a sender: the two
// slots that were offered and, optionally, the message that triggered the
// negotiation. One active confirmation per sender; a new negotiation for the
// same sender overwrites the prior one.
type PendingConfirmation struct {
	Options   []SlotOption `json:"options"`
	MessageID string       `json:"message_id,omitempty"`
	CreatedAt time.Time    `json:"created_at,omitzero"`
}

// Message is an inbox message reduced to what the agent needs.
type Message struct {
	ID      string
	Sender  string
	Subject string
	Body    string
}

// Inbox lists, fetches, marks, and sends mail for one user.
type Inbox interface {
	ListUnread(ctx context.Context, maxResults int64) ([]string, error)
	Fetch(ctx context.Context, id string) (Message, error)
	MarkRead(ctx context.Context, id string) error
	Send(ctx context.Context, to, subject, body string) (string, error)
}

// Calendar answers free/busy queries and creates events on one user's
// primary calendar. Insert returns the created event's shareable link.
type Calendar interface {
	IsFree(ctx context.Context, start, end time.Time) (bool, error)
	Insert(ctx context.Context, summary string, start, end time.Time, attendee string) (string, error)
}

// Completer produces a single-turn language model completion.
type Completer interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

// Store is the durable per-user state backend. Pending-confirmation records
// are opaque serialized blobs; GetPending returns ErrPendingNotFound when no
// record exists for the sender.
type Store interface {
	LoadSeenIDs(ctx context.Context, user string) ([]string, error)
	AddSeenIDs(ctx context.Context, user string, ids ...string) error
	GetPending(ctx context.Context, user, sender string) ([]byte, error)
	PutPending(ctx context.Context, user, sender string, data []byte) error
	DeletePending(ctx context.Context, user, sender string) error
	AppendActivity(ctx context.Context, user string, entry []byte) error
}

// slotInterval converts a draft's date and time-of-day strings into concrete
// instants in the given zone.
func slotInterval(date, start, end string, zone *time.Location) (time.Time, time.Time, error) {
	startAt, err := time.ParseInLocation("2006-01-02 15:04", date+" "+start, zone)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid start time %q %q: %w", date, start, err)
	}
	endAt, err := time.ParseInLocation("2006-01-02 15:04", date+" "+end, zone)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid end time %q %q: %w", date, end, err)
	}
	if !endAt.After(startAt) {
		return time.Time{}, time.Time{}, fmt.Errorf("end %s not after start %s", end, start)
	}
	return startAt, endAt, nil
}
