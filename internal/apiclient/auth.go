package apiclient

import (
	"context"
	"time"

	"github.com/quotedesk/quotedesk/internal/domain"
)

// Auth talks to the /api/Auth resource.
type Auth struct {
	base *baseClient
}

// NewAuth creates the auth client.
func NewAuth(baseURL string, timeout time.Duration, tokens TokenSource) *Auth {
	return &Auth{base: newBaseClient(baseURL, "Auth", timeout, tokens)}
}

// Login exchanges credentials for a token. The result itself may report
// failure through its Success flag and field errors.
func (a *Auth) Login(ctx context.Context, creds domain.LoginCredentials) (domain.LoginResult, bool) {
	return postAs[domain.LoginResult](ctx, a.base, "Login", creds)
}

// Register creates a new user account.
func (a *Auth) Register(ctx context.Context, req domain.RegisterRequest) (domain.RegisterResult, bool) {
	return postAs[domain.RegisterResult](ctx, a.base, "Register", req)
}

// ValidateToken checks the stored bearer token against the API.
func (a *Auth) ValidateToken(ctx context.Context) (domain.TokenValidation, bool) {
	return getAs[domain.TokenValidation](ctx, a.base, "Token/Validate")
}
