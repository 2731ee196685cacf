package ports

import (
	"context"
	"time"

	"github.com/newsroom/news-management/internal/core/domain"
)

// LoginResult is returned by a successful login.
type LoginResult struct {
	Token     string
	RoleLabel string
	ExpiresAt time.Time
	Account   domain.Account
}

type AuthService interface {
	Login(ctx context.Context, email, password string) (*LoginResult, error)
}

// TokenIssuer signs claims for an authenticated account.
type TokenIssuer interface {
	Issue(account domain.Account, issuedAt time.Time) (string, domain.Claims, error)
}

// TokenVerifier checks a token and returns its claims. Failures are one of
// domain.ErrTokenMalformed, domain.ErrTokenExpired or domain.ErrTokenInvalidSignature.
type TokenVerifier interface {
	Verify(token string, now time.Time) (domain.Claims, error)
}
