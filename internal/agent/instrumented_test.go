package agent

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meetsched/meetsched/internal/instrumentation"
)

func TestInstrumentedInboxDelegates(t *testing.T) {
	inner := newFakeInbox(
		Message{ID: "m1", Sender: "ana@example.com", Body: "hi"},
	)
	inbox := NewInstrumentedInbox(inner, instrumentation.NewNoopMetrics(), nil)

	ids, err := inbox.ListUnread(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, []string{"m1"}, ids)

	msg, err := inbox.Fetch(context.Background(), "m1")
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", msg.Sender)

	require.NoError(t, inbox.MarkRead(context.Background(), "m1"))
	assert.True(t, inner.read["m1"])

	id, err := inbox.Send(context.Background(), "ana@example.com", "subject", "body")
	require.NoError(t, err)
	assert.NotEmpty(t, id)
	require.Len(t, inner.sent, 1)
}

func TestInstrumentedInboxPropagatesErrors(t *testing.T) {
	inner := newFakeInbox()
	inner.listErr = fmt.Errorf("gmail down")
	inbox := NewInstrumentedInbox(inner, nil, nil)

	_, err := inbox.ListUnread(context.Background(), 5)
	assert.ErrorContains(t, err, "gmail down")

	inner.sendErr = fmt.Errorf("send rejected")
	_, err = inbox.Send(context.Background(), "to", "subject", "body")
	assert.ErrorContains(t, err, "send rejected")
}

func TestInstrumentedCalendarDelegates(t *testing.T) {
	inner := &fakeCalendar{free: true}
	cal := NewInstrumentedCalendar(inner, instrumentation.NewNoopMetrics(), nil)

	start := time.Date(2025, 5, 30, 14, 0, 0, 0, time.UTC)
	end := start.Add(time.Hour)

	free, err := cal.IsFree(context.Background(), start, end)
	require.NoError(t, err)
	assert.True(t, free)
	assert.Equal(t, 1, inner.freeCalls)

	link, err := cal.Insert(context.Background(), "Sync", start, end, "ana@example.com")
	require.NoError(t, err)
	assert.NotEmpty(t, link)
	require.Len(t, inner.inserted, 1)
	assert.Equal(t, "Sync", inner.inserted[0].Summary)
}

func TestInstrumentedCalendarPropagatesErrors(t *testing.T) {
	inner := &fakeCalendar{insertErr: fmt.Errorf("quota exceeded")}
	cal := NewInstrumentedCalendar(inner, nil, nil)

	start := time.Date(2025, 5, 30, 14, 0, 0, 0, time.UTC)
	_, err := cal.Insert(context.Background(), "Sync", start, start.Add(time.Hour), "")
	assert.ErrorContains(t, err, "quota exceeded")
}

func TestInstrumentedCompleterDelegates(t *testing.T) {
	inner := &fakeCompleter{responses: []string{`{}`}}
	c := NewInstrumentedCompleter(inner, LLMOperationExtract, instrumentation.NewNoopMetrics(), nil)

	raw, err := c.Complete(context.Background(), "system", "user prompt")
	require.NoError(t, err)
	assert.Equal(t, `{}`, raw)
	require.Len(t, inner.calls, 1)
	assert.Equal(t, "user prompt", inner.calls[0])
}

func TestInstrumentedCompleterPropagatesErrors(t *testing.T) {
	inner := &fakeCompleter{err: fmt.Errorf("model unavailable")}
	c := NewInstrumentedCompleter(inner, LLMOperationResolve, nil, nil)

	_, err := c.Complete(context.Background(), "", "prompt")
	assert.ErrorContains(t, err, "model unavailable")
}
