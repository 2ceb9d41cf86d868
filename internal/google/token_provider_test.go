package google

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"golang.org/x/oauth2"
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

func TestFileTokenProviderHasToken(t *testing.T) {
	provider := NewFileTokenProvider()

	if provider.HasTokenForAccount("invalid account") {
		t.Error("HasTokenForAccount() should return false for invalid account name")
	}
	if provider.HasTokenForAccount("") {
		t.Error("HasTokenForAccount() should return false for empty account name")
	}
}

func TestGetHTTPClientWithProvider(t *testing.T) {
	ctx := context.Background()

	provider := &stubTokenProvider{token: &oauth2.Token{
		AccessToken: "access",
		TokenType:   "Bearer",
		Expiry:      time.Now().Add(time.Hour),
	}}

	client, err := GetHTTPClientWithProvider(ctx, "work", provider)
	if err != nil {
		t.Fatalf("GetHTTPClientWithProvider() error = %v", err)
	}

	transport, ok := client.Transport.(*oauth2.Transport)
	if !ok {
		t.Fatalf("expected *oauth2.Transport, got %T", client.Transport)
	}
	base, ok := transport.Base.(*http.Transport)
	if !ok {
		t.Fatalf("expected *http.Transport base, got %T", transport.Base)
	}
	if base.ForceAttemptHTTP2 {
		t.Error("expected HTTP/2 to be disabled")
	}
}

func TestGetHTTPClientWithProviderNil(t *testing.T) {
	if _, err := GetHTTPClientWithProvider(context.Background(), "work", nil); err == nil {
		t.Error("expected error for nil provider")
	}
}

func TestGetHTTPClientWithProviderError(t *testing.T) {
	provider := &stubTokenProvider{err: errors.New("no token")}

	if _, err := GetHTTPClientWithProvider(context.Background(), "work", provider); err == nil {
		t.Error("expected provider error to propagate")
	}
}
