package agent

import (
	"context"
	"fmt"
	"time"
)

// ConfirmedMeetingTitle is the summary used when booking a slot the sender
// confirmed by reply.
const ConfirmedMeetingTitle = "Confirmed Meeting"

// ScheduleOutcome says what happened to a draft.
type ScheduleOutcome string

const (
	// OutcomeBooked means the event was created on the calendar.
	OutcomeBooked ScheduleOutcome = "booked"
	// OutcomeNegotiated means the slot was busy and alternates were
	// offered to the sender.
	OutcomeNegotiated ScheduleOutcome = "negotiated"
	// OutcomeDropped means the draft was discarded: busy with no one to
	// negotiate with, or no usable alternates came back.
	OutcomeDropped ScheduleOutcome = "dropped"
)

// Scheduler books drafts on the calendar, falling back to alternate-slot
// negotiation when the requested interval is busy.
type Scheduler struct {
	calendar   Calendar
	negotiator *Negotiator
	zone       *time.Location
}

// NewScheduler creates a Scheduler that books in the given zone. A nil
// negotiator disables negotiation: busy slots are dropped silently.
func NewScheduler(cal Calendar, negotiator *Negotiator, zone *time.Location) *Scheduler {
	if zone == nil {
		zone = time.UTC
	}
	return &Scheduler{calendar: cal, negotiator: negotiator, zone: zone}
}

// Schedule books the draft if its interval is free and returns the event
// link. When the interval is busy and a sender is known, it delegates to the
// negotiator; without a sender the busy draft is dropped silently. The
// sender, when present, is invited to the booked event.
func (s *Scheduler) Schedule(ctx context.Context, draft EventDraft, sender, messageID string) (ScheduleOutcome, string, error) {
	start, end, err := slotInterval(draft.Date, draft.Start, draft.End, s.zone)
	if err != nil {
		return OutcomeDropped, "", err
	}

	free, err := s.calendar.IsFree(ctx, start, end)
	if err != nil {
		return OutcomeDropped, "", fmt.Errorf("free/busy check failed: %w", err)
	}

	if !free {
		if sender == "" || s.negotiator == nil {
			return OutcomeDropped, "", nil
		}
		options, err := s.negotiator.Negotiate(ctx, sender, messageID, draft)
		if err != nil {
			return OutcomeDropped, "", err
		}
		if options == nil {
			return OutcomeDropped, "", nil
		}
		return OutcomeNegotiated, "", nil
	}

	link, err := s.book(ctx, draft, sender)
	if err != nil {
		return OutcomeDropped, "", err
	}
	return OutcomeBooked, link, nil
}

// Book inserts the draft without an availability check. Used for slots the
// agent itself offered: they were free when proposed, and the confirmation
// closes the negotiation either way.
func (s *Scheduler) Book(ctx context.Context, draft EventDraft, sender string) (string, error) {
	return s.book(ctx, draft, sender)
}

func (s *Scheduler) book(ctx context.Context, draft EventDraft, sender string) (string, error) {
	start, end, err := slotInterval(draft.Date, draft.Start, draft.End, s.zone)
	if err != nil {
		return "", err
	}

	link, err := s.calendar.Insert(ctx, draft.Title, start, end, sender)
	if err != nil {
		return "", fmt.Errorf("failed to insert event: %w", err)
	}
	return link, nil
}
