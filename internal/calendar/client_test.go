package calendar

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"github.com/meetsched/meetsched/internal/google"
)

type stubTokenProvider struct {
	token *oauth2.Token
	err   error
}

func (p *stubTokenProvider) GetTokenForAccount(_ context.Context, _ string) (*oauth2.Token, error) {
	return p.token, p.err
}

func (p *stubTokenProvider) HasTokenForAccount(_ string) bool {
	return p.token != nil
}

var _ google.TokenProvider = (*stubTokenProvider)(nil)

func TestNewClientForAccountWithProvider(t *testing.T) {
	provider := &stubTokenProvider{token: &oauth2.Token{
		AccessToken: "access",
		TokenType:   "Bearer",
		Expiry:      time.Now().Add(time.Hour),
	}}

	client, err := NewClientForAccountWithProvider(context.Background(), "work", provider)
	require.NoError(t, err)
	assert.Equal(t, "work", client.Account())
	assert.Equal(t, "primary", client.calendarID)
}

func TestNewClientForAccountWithProviderNil(t *testing.T) {
	_, err := NewClientForAccountWithProvider(context.Background(), "work", nil)
	assert.Error(t, err)
}

func TestNewEvent(t *testing.T) {
	zone, err := time.LoadLocation("Europe/Berlin")
	require.NoError(t, err)

	start := time.Date(2026, 9, 14, 10, 0, 0, 0, zone)
	end := start.Add(time.Hour)

	t.Run("with attendee", func(t *testing.T) {
		event := newEvent(EventSpec{
			Summary:  "Confirmed Meeting",
			Start:    start,
			End:      end,
			TimeZone: "Europe/Berlin",
			Attendee: "ada@example.com",
		})

		assert.Equal(t, "Confirmed Meeting", event.Summary)
		assert.Equal(t, start.Format(time.RFC3339), event.Start.DateTime)
		assert.Equal(t, end.Format(time.RFC3339), event.End.DateTime)
		assert.Equal(t, "Europe/Berlin", event.Start.TimeZone)
		assert.Equal(t, "Europe/Berlin", event.End.TimeZone)
		require.Len(t, event.Attendees, 1)
		assert.Equal(t, "ada@example.com", event.Attendees[0].Email)
	})

	t.Run("without attendee", func(t *testing.T) {
		event := newEvent(EventSpec{
			Summary:  "Focus block",
			Start:    start,
			End:      end,
			TimeZone: "Europe/Berlin",
		})

		assert.Empty(t, event.Attendees)
	})
}
