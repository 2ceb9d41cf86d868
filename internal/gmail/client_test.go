package gmail

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
}

func TestNewClientForAccountWithProviderNil(t *testing.T) {
	_, err := NewClientForAccountWithProvider(context.Background(), "work", nil)
	assert.Error(t, err)
}
