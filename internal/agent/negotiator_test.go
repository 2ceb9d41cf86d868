package agent

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var negotiationDraft = EventDraft{
	Title: "Planning Sync",
	Date:  "2025-05-29",
	Start: "14:00",
	End:   "15:00",
}

const twoOptionsJSON = `{
  "options": [
    {"date": "2025-05-30", "start": "14:00", "end": "15:00"},
    {"date": "2025-05-31", "start": "11:00", "end": "12:00"}
  ]
}`

func TestProposeAlternates(t *testing.T) {
	llm := &fakeCompleter{responses: []string{twoOptionsJSON}}
	n := NewNegotiator(llm, newFakeInbox(), nil)

	options, err := n.ProposeAlternates(context.Background(), negotiationDraft)
	require.NoError(t, err)
	require.Len(t, options, 2)
	assert.Equal(t, SlotOption{Date: "2025-05-30", Start: "14:00", End: "15:00"}, options[0])
	assert.Equal(t, SlotOption{Date: "2025-05-31", Start: "11:00", End: "12:00"}, options[1])

	require.Len(t, llm.calls, 1)
	assert.Contains(t, llm.calls[0], "Planning Sync")
	assert.Contains(t, llm.calls[0], "2025-05-29")
}

func TestProposeAlternatesUnusableOutput(t *testing.T) {
	tests := []struct {
		name     string
		response string
	}{
		{"prose", "How about Friday afternoon instead?"},
		{"one option", `{"options": [{"date": "2025-05-30", "start": "14:00", "end": "15:00"}]}`},
		{"three options", `{"options": [
			{"date": "2025-05-30", "start": "14:00", "end": "15:00"},
			{"date": "2025-05-31", "start": "11:00", "end": "12:00"},
			{"date": "2025-06-01", "start": "10:00", "end": "11:00"}]}`},
		{"incomplete option", `{"options": [
			{"date": "2025-05-30", "start": "14:00", "end": "15:00"},
			{"date": "2025-05-31", "start": "11:00"}]}`},
		{"empty options", `{"options": []}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			llm := &fakeCompleter{responses: []string{tt.response}}
			n := NewNegotiator(llm, newFakeInbox(), nil)

			options, err := n.ProposeAlternates(context.Background(), negotiationDraft)
			require.NoError(t, err, "unusable model output is not an error")
			assert.Nil(t, options)
		})
	}
}

func TestNegotiateRegistersAndEmails(t *testing.T) {
	llm := &fakeCompleter{responses: []string{twoOptionsJSON}}
	inbox := newFakeInbox()
	st := newFakeStore()
	tracker := NewTracker(st, "alice")
	n := NewNegotiator(llm, inbox, tracker)

	options, err := n.Negotiate(context.Background(), "bob@example.com", "msg-1", negotiationDraft)
	require.NoError(t, err)
	require.Len(t, options, 2)

	pending, err := tracker.Get(context.Background(), "bob@example.com")
	require.NoError(t, err)
	require.NotNil(t, pending)
	assert.Equal(t, options, pending.Options)
	assert.Equal(t, "msg-1", pending.MessageID)

	require.Len(t, inbox.sent, 1)
	sent := inbox.sent[0]
	assert.Equal(t, "bob@example.com", sent.To)
	assert.Equal(t, AlternatesSubject, sent.Subject)
	assert.Contains(t, sent.Body, "1. 2025-05-30 from 14:00 to 15:00")
	assert.Contains(t, sent.Body, "2. 2025-05-31 from 11:00 to 12:00")
	assert.Contains(t, sent.Body, "Please reply with your preferred option.")
}

func TestNegotiateDropsSilentlyWithoutAlternates(t *testing.T) {
	llm := &fakeCompleter{responses: []string{"no JSON here"}}
	inbox := newFakeInbox()
	st := newFakeStore()
	n := NewNegotiator(llm, inbox, NewTracker(st, "alice"))

	options, err := n.Negotiate(context.Background(), "bob@example.com", "msg-1", negotiationDraft)
	require.NoError(t, err)
	assert.Nil(t, options)

	assert.Empty(t, inbox.sent, "no email without usable alternates")
	assert.Zero(t, st.pendingCount(), "no confirmation without usable alternates")
}

func TestNegotiateOverwritesPriorConfirmation(t *testing.T) {
	llm := &fakeCompleter{responses: []string{twoOptionsJSON}}
	inbox := newFakeInbox()
	tracker := NewTracker(newFakeStore(), "alice")
	n := NewNegotiator(llm, inbox, tracker)

	require.NoError(t, tracker.Put(context.Background(), "bob@example.com", PendingConfirmation{
		Options: []SlotOption{
			{Date: "2025-01-01", Start: "09:00", End: "10:00"},
			{Date: "2025-01-02", Start: "09:00", End: "10:00"},
		},
	}))

	_, err := n.Negotiate(context.Background(), "bob@example.com", "msg-2", negotiationDraft)
	require.NoError(t, err)

	pending, err := tracker.Get(context.Background(), "bob@example.com")
	require.NoError(t, err)
	require.NotNil(t, pending)
	assert.Equal(t, "2025-05-30", pending.Options[0].Date, "a new negotiation replaces the prior one")
}
