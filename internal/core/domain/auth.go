package domain

// AuthContext carries the bearer token attached to outbound Graph calls.
// It is an immutable value built fresh for each request; nothing shares or
// mutates a header map across invocations.
type AuthContext struct {
	token string
}

// NewAuthContext creates an auth context for one request.
func NewAuthContext(token string) AuthContext {
	return AuthContext{token: token}
}

// Authorization returns the Authorization header value, or "" when no token
// is held. Callers must refuse to send a request when this is empty.
func (a AuthContext) Authorization() string {
	if a.token == "" {
		return ""
	}
	return "Bearer " + a.token
}

// Credentials holds the client-credentials grant inputs, loaded once at
// startup. A missing required field is a fatal startup condition.
type Credentials struct {
	ClientID     string
	ClientSecret string
	TenantID     string
	Scope        string

	// TokenURL overrides the identity provider endpoint. Empty means the
	// Microsoft endpoint for TenantID; tests point it at a local server.
	TokenURL string
}
