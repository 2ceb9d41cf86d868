package agent

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestActivityLogRecord(t *testing.T) {
	st := newFakeStore()
	a := NewActivityLog(st, "alice", nil)
	a.now = func() time.Time { return time.Date(2025, 5, 29, 12, 0, 0, 0, time.UTC) }

	a.Record(context.Background(), ActivityEmailProcessed, "Processed message from bob@example.com")

	require.Len(t, st.activity["alice"], 1)

	var entry ActivityEntry
	require.NoError(t, json.Unmarshal(st.activity["alice"][0], &entry))
	assert.NotEmpty(t, entry.ID)
	assert.Equal(t, ActivityEmailProcessed, entry.EventType)
	assert.Equal(t, "Processed message from bob@example.com", entry.Details)
	assert.Equal(t, time.Date(2025, 5, 29, 12, 0, 0, 0, time.UTC), entry.Timestamp)
}

func TestActivityLogNil(t *testing.T) {
	var a *ActivityLog
	assert.NotPanics(t, func() {
		a.Record(context.Background(), ActivityEmailProcessed, "noop")
	})
}
