// Package auth implements the client-credentials token provider backing all
// outbound Microsoft Graph calls.
package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/custodia-labs/graph-actions/internal/core/domain"
)

// microsoftTokenURL is the v2.0 token endpoint for a tenant.
//
//nolint:gosec // G101: not credentials, an OAuth endpoint URL
const microsoftTokenURL = "https://login.microsoftonline.com/%s/oauth2/v2.0/token"

// maxDiagnosticBody bounds how much of an identity-provider error body is
// kept for logs.
const maxDiagnosticBody = 500

// Provider obtains and caches a bearer token via the client-credentials
// grant. The cached token is replaced only by a successful refresh; the
// mutex makes concurrent refreshes single-flight, which also satisfies the
// weaker at-least-once tolerance the token endpoint's idempotence allows.
type Provider struct {
	cfg clientcredentials.Config

	mu    sync.Mutex
	token *oauth2.Token
}

// NewProvider creates a token provider for the given credentials.
func NewProvider(creds domain.Credentials) *Provider {
	tokenURL := creds.TokenURL
	if tokenURL == "" {
		tokenURL = fmt.Sprintf(microsoftTokenURL, creds.TenantID)
	}
	return &Provider{
		cfg: clientcredentials.Config{
			ClientID:     creds.ClientID,
			ClientSecret: creds.ClientSecret,
			TokenURL:     tokenURL,
			Scopes:       []string{creds.Scope},
			// The Microsoft v2.0 endpoint takes client credentials in the
			// request body. Pinning the style also stops the library from
			// probing with duplicate requests.
			AuthStyle: oauth2.AuthStyleInParams,
		},
	}
}

// GetToken returns a valid access token, refreshing when none is cached or
// the cached one has expired. A failed refresh is reported as a
// domain.AuthenticationError, never retried within the request.
func (p *Provider) GetToken(ctx context.Context) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.token.Valid() {
		return p.token.AccessToken, nil
	}

	token, err := p.cfg.Token(ctx)
	if err != nil {
		var retrieveErr *oauth2.RetrieveError
		if errors.As(err, &retrieveErr) && retrieveErr.Response != nil {
			body := string(retrieveErr.Body)
			if len(body) > maxDiagnosticBody {
				body = body[:maxDiagnosticBody]
			}
			return "", &domain.AuthenticationError{
				Status: retrieveErr.Response.StatusCode,
				Body:   body,
				Err:    err,
			}
		}
		return "", &domain.AuthenticationError{Err: err}
	}
	if token.AccessToken == "" {
		return "", &domain.AuthenticationError{Err: errors.New("token response missing access_token")}
	}

	p.token = token
	return token.AccessToken, nil
}
