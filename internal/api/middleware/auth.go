package middleware

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/newsroom/news-management/internal/api/metrics"
	"github.com/newsroom/news-management/internal/core/domain"
	"github.com/newsroom/news-management/internal/core/ports"
)

const claimsKey = "claims"

// Auth verifies the bearer token and injects its claims into the context.
func Auth(verifier ports.TokenVerifier) echo.MiddlewareFunc {
	return AuthWithClock(verifier, time.Now)
}

// AuthWithClock is Auth with an explicit time source.
func AuthWithClock(verifier ports.TokenVerifier, now func() time.Time) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
			if authHeader == "" {
				metrics.TokenRejectionsTotal.WithLabelValues("missing").Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || strings.TrimSpace(parts[1]) == "" {
				metrics.TokenRejectionsTotal.WithLabelValues("malformed").Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}

			claims, err := verifier.Verify(strings.TrimSpace(parts[1]), now())
			if err != nil {
				reason, msg := rejection(err)
				metrics.TokenRejectionsTotal.WithLabelValues(reason).Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, msg).SetInternal(err)
			}

			c.Set(claimsKey, claims)
			return next(c)
		}
	}
}

func rejection(err error) (reason, msg string) {
	switch {
	case errors.Is(err, domain.ErrTokenExpired):
		return "expired", "token expired"
	case errors.Is(err, domain.ErrTokenInvalidSignature):
		return "invalid_signature", "invalid token signature"
	default:
		return "malformed", "malformed token"
	}
}

// ClaimsFrom returns the claims stored by Auth.
func ClaimsFrom(c echo.Context) (domain.Claims, bool) {
	claims, ok := c.Get(claimsKey).(domain.Claims)
	return claims, ok
}

// WithClaims stores claims the way Auth does. Used by tests.
func WithClaims(c echo.Context, claims domain.Claims) {
	c.Set(claimsKey, claims)
}
