package agent

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/meetsched/meetsched/internal/store"
)

// fakeCompleter returns scripted responses in order, cycling on the last
// one. A nil script means every call errors.
type fakeCompleter struct {
	responses []string
	calls     []string // user prompts, in order
	err       error
}

func (f *fakeCompleter) Complete(_ context.Context, _, user string) (string, error) {
	f.calls = append(f.calls, user)
	if f.err != nil {
		return "", f.err
	}
	if len(f.responses) == 0 {
		return "", fmt.Errorf("no scripted response")
	}
	resp := f.responses[0]
	if len(f.responses) > 1 {
		f.responses = f.responses[1:]
	}
	return resp, nil
}

type sentEmail struct {
	To      string
	Subject string
	Body    string
}

// fakeInbox serves a fixed message set.
type fakeInbox struct {
	messages []Message
	read     map[string]bool
	sent     []sentEmail

	listErr     error
	fetchErr    error
	fetchErrFor map[string]error
	sendErr     error
	markErr     error
}

func newFakeInbox(messages ...Message) *fakeInbox {
	return &fakeInbox{messages: messages, read: make(map[string]bool)}
}

func (f *fakeInbox) ListUnread(_ context.Context, maxResults int64) ([]string, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	var ids []string
	for _, m := range f.messages {
		if f.read[m.ID] {
			continue
		}
		ids = append(ids, m.ID)
		if int64(len(ids)) >= maxResults {
			break
		}
	}
	return ids, nil
}

func (f *fakeInbox) Fetch(_ context.Context, id string) (Message, error) {
	if f.fetchErr != nil {
		return Message{}, f.fetchErr
	}
	if err, ok := f.fetchErrFor[id]; ok {
		return Message{}, err
	}
	for _, m := range f.messages {
		if m.ID == id {
			return m, nil
		}
	}
	return Message{}, fmt.Errorf("message %s not found", id)
}

func (f *fakeInbox) MarkRead(_ context.Context, id string) error {
	if f.markErr != nil {
		return f.markErr
	}
	f.read[id] = true
	return nil
}

func (f *fakeInbox) Send(_ context.Context, to, subject, body string) (string, error) {
	if f.sendErr != nil {
		return "", f.sendErr
	}
	f.sent = append(f.sent, sentEmail{To: to, Subject: subject, Body: body})
	return fmt.Sprintf("sent-%d", len(f.sent)), nil
}

type insertedEvent struct {
	Summary  string
	Start    time.Time
	End      time.Time
	Attendee string
}

// fakeCalendar reports free or busy and records insertions.
type fakeCalendar struct {
	free      bool
	freeErr   error
	insertErr error
	inserted  []insertedEvent
	freeCalls int
}

func (f *fakeCalendar) IsFree(_ context.Context, start, end time.Time) (bool, error) {
	f.freeCalls++
	if f.freeErr != nil {
		return false, f.freeErr
	}
	return f.free, nil
}

func (f *fakeCalendar) Insert(_ context.Context, summary string, start, end time.Time, attendee string) (string, error) {
	if f.insertErr != nil {
		return "", f.insertErr
	}
	f.inserted = append(f.inserted, insertedEvent{
		Summary: summary, Start: start, End: end, Attendee: attendee,
	})
	return fmt.Sprintf("https://calendar.example.com/event/%d", len(f.inserted)), nil
}

// fakeStore is an in-memory Store.
type fakeStore struct {
	mu       sync.Mutex
	seen     map[string][]string
	pending  map[string][]byte // key: user + "/" + sender
	activity map[string][][]byte

	seenLoadErr error
	seenSaveErr error
	pendingErr  error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		seen:     make(map[string][]string),
		pending:  make(map[string][]byte),
		activity: make(map[string][][]byte),
	}
}

func (f *fakeStore) LoadSeenIDs(_ context.Context, user string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.seenLoadErr != nil {
		return nil, f.seenLoadErr
	}
	return append([]string(nil), f.seen[user]...), nil
}

func (f *fakeStore) AddSeenIDs(_ context.Context, user string, ids ...string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.seenSaveErr != nil {
		return f.seenSaveErr
	}
	f.seen[user] = append(f.seen[user], ids...)
	return nil
}

func (f *fakeStore) GetPending(_ context.Context, user, sender string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.pendingErr != nil {
		return nil, f.pendingErr
	}
	data, ok := f.pending[user+"/"+sender]
	if !ok {
		return nil, store.ErrNotFound
	}
	return data, nil
}

func (f *fakeStore) PutPending(_ context.Context, user, sender string, data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.pendingErr != nil {
		return f.pendingErr
	}
	f.pending[user+"/"+sender] = data
	return nil
}

func (f *fakeStore) DeletePending(_ context.Context, user, sender string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.pendingErr != nil {
		return f.pendingErr
	}
	delete(f.pending, user+"/"+sender)
	return nil
}

func (f *fakeStore) AppendActivity(_ context.Context, user string, entry []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.activity[user] = append(f.activity[user], entry)
	return nil
}

func (f *fakeStore) pendingCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.pending)
}
