package agent

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrackerRoundTrip(t *testing.T) {
	tracker := NewTracker(newFakeStore(), "alice")
	ctx := context.Background()

	pc := PendingConfirmation{Options: offeredOptions, MessageID: "msg-1"}
	require.NoError(t, tracker.Put(ctx, "bob@example.com", pc))

	got, err := tracker.Get(ctx, "bob@example.com")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, pc, *got)
}

func TestTrackerGetMissing(t *testing.T) {
	tracker := NewTracker(newFakeStore(), "alice")

	got, err := tracker.Get(context.Background(), "nobody@example.com")
	require.NoError(t, err, "a missing record is not an error")
	assert.Nil(t, got)
}

func TestTrackerLastWriteWins(t *testing.T) {
	tracker := NewTracker(newFakeStore(), "alice")
	ctx := context.Background()

	require.NoError(t, tracker.Put(ctx, "bob@example.com", PendingConfirmation{
		Options: []SlotOption{
			{Date: "2025-01-01", Start: "09:00", End: "10:00"},
			{Date: "2025-01-02", Start: "09:00", End: "10:00"},
		},
	}))
	require.NoError(t, tracker.Put(ctx, "bob@example.com", PendingConfirmation{Options: offeredOptions}))

	got, err := tracker.Get(ctx, "bob@example.com")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, offeredOptions, got.Options)
}

func TestTrackerRemove(t *testing.T) {
	tracker := NewTracker(newFakeStore(), "alice")
	ctx := context.Background()

	require.NoError(t, tracker.Put(ctx, "bob@example.com", PendingConfirmation{Options: offeredOptions}))
	require.NoError(t, tracker.Remove(ctx, "bob@example.com"))

	got, err := tracker.Get(ctx, "bob@example.com")
	require.NoError(t, err)
	assert.Nil(t, got)

	assert.NoError(t, tracker.Remove(ctx, "bob@example.com"), "removing a missing record is not an error")
}

// Confirmations deliberately carry no expiry: an unanswered negotiation
// stays until it is overwritten or resolved.
func TestTrackerNoExpiry(t *testing.T) {
	st := newFakeStore()
	tracker := NewTracker(st, "alice")
	ctx := context.Background()

	require.NoError(t, tracker.Put(ctx, "bob@example.com", PendingConfirmation{Options: offeredOptions}))

	got, err := tracker.Get(ctx, "bob@example.com")
	require.NoError(t, err)
	require.NotNil(t, got, "record persists until explicitly removed")
	assert.Equal(t, 1, st.pendingCount())
}

func TestTrackerScopedPerUser(t *testing.T) {
	st := newFakeStore()
	ctx := context.Background()

	require.NoError(t, NewTracker(st, "alice").Put(ctx, "bob@example.com",
		PendingConfirmation{Options: offeredOptions}))

	got, err := NewTracker(st, "carol").Get(ctx, "bob@example.com")
	require.NoError(t, err)
	assert.Nil(t, got, "another user's confirmations are invisible")
}
