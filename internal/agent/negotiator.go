package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// AlternatesSubject is the subject line of alternate-slot emails.
const AlternatesSubject = "Alternate meeting time suggestions"

const negotiatorPromptTemplate = `Given the following event request:

Title: %s
Preferred Date: %s
Preferred Start Time: %s
Preferred End Time: %s

Suggest two alternate time slots that are on the same day or nearby days, avoiding late evenings or early mornings. Return strict JSON in this format:

{
  "options": [
    {
      "date": "2025-05-30",
      "start": "14:00",
      "end": "15:00"
    },
    {
      "date": "2025-05-31",
      "start": "11:00",
      "end": "12:00"
    }
  ]
}`

// Negotiator handles time conflicts: it asks the model for two alternate
// slots, registers a pending confirmation, and emails the options to the
// sender.
type Negotiator struct {
	llm     Completer
	inbox   Inbox
	tracker *Tracker
}

// NewNegotiator creates a Negotiator.
func NewNegotiator(llm Completer, inbox Inbox, tracker *Tracker) *Negotiator {
	return &Negotiator{llm: llm, inbox: inbox, tracker: tracker}
}

// ProposeAlternates asks the model for exactly two alternate slots for a
// rejected draft. A response that cannot be parsed, or that does not contain
// exactly two options, yields (nil, nil): the caller drops the negotiation.
// Only transport failures surface as errors.
func (n *Negotiator) ProposeAlternates(ctx context.Context, draft EventDraft) ([]SlotOption, error) {
	prompt := fmt.Sprintf(negotiatorPromptTemplate, draft.Title, draft.Date, draft.Start, draft.End)
	raw, err := n.llm.Complete(ctx, "", prompt)
	if err != nil {
		return nil, fmt.Errorf("alternate slot call failed: %w", err)
	}

	var parsed struct {
		Options []SlotOption `json:"options"`
	}
	if err := json.Unmarshal([]byte(strings.TrimSpace(raw)), &parsed); err != nil {
		return nil, nil
	}
	if len(parsed.Options) != 2 {
		return nil, nil
	}
	for _, opt := range parsed.Options {
		if opt.Date == "" || opt.Start == "" || opt.End == "" {
			return nil, nil
		}
	}
	return parsed.Options, nil
}

// Negotiate proposes alternates for a busy draft, registers the pending
// confirmation for the sender, and emails the two options. Returns the
// offered options, or (nil, nil) when the negotiation was dropped because no
// usable alternates came back.
func (n *Negotiator) Negotiate(ctx context.Context, sender, messageID string, draft EventDraft) ([]SlotOption, error) {
	options, err := n.ProposeAlternates(ctx, draft)
	if err != nil {
		return nil, err
	}
	if options == nil {
		return nil, nil
	}

	// Register before sending so an inbound reply can never race an
	// unrecorded negotiation.
	if err := n.tracker.Put(ctx, sender, PendingConfirmation{
		Options:   options,
		MessageID: messageID,
		CreatedAt: time.Now().UTC(),
	}); err != nil {
		return nil, fmt.Errorf("failed to register pending confirmation: %w", err)
	}

	if _, err := n.inbox.Send(ctx, sender, AlternatesSubject, alternatesBody(options)); err != nil {
		return nil, fmt.Errorf("failed to email alternate slots: %w", err)
	}
	return options, nil
}

func alternatesBody(options []SlotOption) string {
	var b strings.Builder
	b.WriteString("Hi, I'm unavailable at the requested time. Here are two alternate options:\n\n")
	for i, opt := range options {
		fmt.Fprintf(&b, "%d. %s from %s to %s\n", i+1, opt.Date, opt.Start, opt.End)
	}
	b.WriteString("\nPlease reply with your preferred option.")
	return b.String()
}
