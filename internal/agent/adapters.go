package agent

import (
	"context"
	"time"

	"github.com/meetsched/meetsched/internal/calendar"
	"github.com/meetsched/meetsched/internal/gmail"
)

// GmailInbox adapts a Gmail client to the Inbox interface.
type GmailInbox struct {
	client *gmail.Client
}

// NewGmailInbox wraps a Gmail client.
func NewGmailInbox(client *gmail.Client) *GmailInbox {
	return &GmailInbox{client: client}
}

func (g *GmailInbox) ListUnread(ctx context.Context, maxResults int64) ([]string, error) {
	return g.client.ListUnread(ctx, maxResults)
}

func (g *GmailInbox) Fetch(ctx context.Context, id string) (Message, error) {
	msg, err := g.client.GetMessage(ctx, id)
	if err != nil {
		return Message{}, err
	}
	return Message{
		ID:      id,
		Sender:  gmail.SenderAddress(msg),
		Subject: gmail.Subject(msg),
		Body:    gmail.MessageBody(msg),
	}, nil
}

func (g *GmailInbox) MarkRead(ctx context.Context, id string) error {
	return g.client.MarkRead(ctx, id)
}

func (g *GmailInbox) Send(ctx context.Context, to, subject, body string) (string, error) {
	return g.client.SendEmail(ctx, to, subject, body)
}

// GoogleCalendar adapts a Calendar API client to the Calendar interface.
type GoogleCalendar struct {
	client   *calendar.Client
	timeZone string
}

// NewGoogleCalendar wraps a Calendar client. timeZone is the IANA zone name
// attached to created events.
func NewGoogleCalendar(client *calendar.Client, timeZone string) *GoogleCalendar {
	return &GoogleCalendar{client: client, timeZone: timeZone}
}

func (c *GoogleCalendar) IsFree(ctx context.Context, start, end time.Time) (bool, error) {
	return c.client.IsFree(ctx, start, end)
}

func (c *GoogleCalendar) Insert(ctx context.Context, summary string, start, end time.Time, attendee string) (string, error) {
	booked, err := c.client.InsertEvent(ctx, calendar.EventSpec{
		Summary:  summary,
		Start:    start,
		End:      end,
		TimeZone: c.timeZone,
		Attendee: attendee,
	})
	if err != nil {
		return "", err
	}
	return booked.Link, nil
}
