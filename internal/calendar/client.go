package calendar

import (
	"context"
	"fmt"
	"time"

	calendar "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"github.com/meetsched/meetsched/internal/google"
)

// Client wraps the Google Calendar service
type Client struct {
	svc        *calendar.Service
	account    string // The account this client is associated with
	calendarID string
}

// Account returns the account name this client is associated with
func (c *Client) Account() string {
	return c.account
}

// NewClientForAccountWithProvider creates a new Calendar client with OAuth2
// authentication for a specific account, operating on the account's primary
// calendar. The token comes from the given provider.
func NewClientForAccountWithProvider(ctx context.Context, account string, provider google.TokenProvider) (*Client, error) {
	httpClient, err := google.GetHTTPClientWithProvider(ctx, account, provider)
	if err != nil {
		return nil, fmt.Errorf("no valid Google OAuth token found for account %s: %w", account, err)
	}

	svc, err := calendar.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("failed to create Calendar service: %w", err)
	}

	return &Client{
		svc:        svc,
		account:    account,
		calendarID: "primary",
	}, nil
}

// IsFree reports whether the primary calendar has no busy interval overlapping
// [start, end). An interval ending exactly at start, or starting exactly at
// end, does not count as a conflict.
func (c *Client) IsFree(ctx context.Context, start, end time.Time) (bool, error) {
	req := &calendar.FreeBusyRequest{
		TimeMin: start.Format(time.RFC3339),
		TimeMax: end.Format(time.RFC3339),
		Items:   []*calendar.FreeBusyRequestItem{{Id: c.calendarID}},
	}

	res, err := c.svc.Freebusy.Query(req).Context(ctx).Do()
	if err != nil {
		return false, fmt.Errorf("failed to query free/busy: %w", err)
	}

	cal, ok := res.Calendars[c.calendarID]
	if !ok {
		return false, fmt.Errorf("free/busy response missing calendar %s", c.calendarID)
	}

	return len(cal.Busy) == 0, nil
}

// InsertEvent creates an event on the primary calendar and returns the booked
// event's id and HTML link. When spec.Attendee is set the attendee is invited
// and notified; otherwise no invitations are sent.
func (c *Client) InsertEvent(ctx context.Context, spec EventSpec) (*BookedEvent, error) {
	event := newEvent(spec)

	call := c.svc.Events.Insert(c.calendarID, event).Context(ctx)
	if spec.Attendee != "" {
		call = call.SendUpdates("all")
	} else {
		call = call.SendUpdates("none")
	}

	created, err := call.Do()
	if err != nil {
		return nil, fmt.Errorf("failed to insert event: %w", err)
	}

	return &BookedEvent{
		ID:   created.Id,
		Link: created.HtmlLink,
	}, nil
}

// newEvent builds the Calendar API event payload for an EventSpec.
func newEvent(spec EventSpec) *calendar.Event {
	event := &calendar.Event{
		Summary: spec.Summary,
		Start: &calendar.EventDateTime{
			DateTime: spec.Start.Format(time.RFC3339),
			TimeZone: spec.TimeZone,
		},
		End: &calendar.EventDateTime{
			DateTime: spec.End.Format(time.RFC3339),
			TimeZone: spec.TimeZone,
		},
	}
	if spec.Attendee != "" {
		event.Attendees = []*calendar.EventAttendee{{Email: spec.Attendee}}
	}
	return event
}
