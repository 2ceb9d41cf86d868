package agent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/meetsched/meetsched/internal/store"
)

// Tracker manages a user's pending confirmations: one record per sender,
// last write wins, no expiry. A stale unanswered negotiation stays until
// it is overwritten or resolved.
type Tracker struct {
	store Store
	user  string
}

// NewTracker creates a Tracker for one user's confirmations.
func NewTracker(st Store, user string) *Tracker {
	return &Tracker{store: st, user: user}
}

// Get returns the sender's pending confirmation, or (nil, nil) when none is
// registered.
func (t *Tracker) Get(ctx context.Context, sender string) (*PendingConfirmation, error) {
	data, err := t.store.GetPending(ctx, t.user, sender)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var pc PendingConfirmation
	if err := json.Unmarshal(data, &pc); err != nil {
		return nil, fmt.Errorf("corrupt pending confirmation for %s: %w", sender, err)
	}
	return &pc, nil
}

// Put registers a pending confirmation for the sender, replacing any
// existing one.
func (t *Tracker) Put(ctx context.Context, sender string, pc PendingConfirmation) error {
	data, err := json.Marshal(pc)
	if err != nil {
		return fmt.Errorf("failed to encode pending confirmation: %w", err)
	}
	return t.store.PutPending(ctx, t.user, sender, data)
}

// Remove deletes the sender's pending confirmation. Removing a missing
// record is not an error.
func (t *Tracker) Remove(ctx context.Context, sender string) error {
	return t.store.DeletePending(ctx, t.user, sender)
}
