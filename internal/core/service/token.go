package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/newsroom/news-management/internal/core/domain"
)

const defaultTokenValidity = 60 * time.Minute

// TokenConfig configures a TokenManager.
type TokenConfig struct {
	Secret   string
	Issuer   string
	Audience string
	Validity time.Duration
	Labels   domain.RoleLabels
}

// TokenManager issues and verifies HS256 tokens. It holds no state beyond its
// configuration.
type TokenManager struct {
	secret   []byte
	issuer   string
	audience string
	validity time.Duration
	labels   domain.RoleLabels
}

type tokenClaims struct {
	Name      string `json:"name"`
	Role      string `json:"role"`
	AccountID int    `json:"account_id"`
	jwt.RegisteredClaims
}

func NewTokenManager(cfg TokenConfig) *TokenManager {
	if cfg.Validity <= 0 {
		cfg.Validity = defaultTokenValidity
	}
	if cfg.Labels.Admin == "" {
		cfg.Labels = domain.NewRoleLabels("")
	}
	return &TokenManager{
		secret:   []byte(cfg.Secret),
		issuer:   cfg.Issuer,
		audience: cfg.Audience,
		validity: cfg.Validity,
		labels:   cfg.Labels,
	}
}

// Labels returns the role label table used for the role claim.
func (m *TokenManager) Labels() domain.RoleLabels {
	return m.labels
}

// Issue signs a token for account that expires validity after issuedAt.
func (m *TokenManager) Issue(account domain.Account, issuedAt time.Time) (string, domain.Claims, error) {
	issuedAt = issuedAt.UTC().Truncate(time.Second)
	expiresAt := issuedAt.Add(m.validity)
	label := m.labels.Label(account.Role)

	claims := tokenClaims{
		Name:      account.Name,
		Role:      label,
		AccountID: account.ID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   account.Email,
			Issuer:    m.issuer,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	if m.audience != "" {
		claims.Audience = jwt.ClaimStrings{m.audience}
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", domain.Claims{}, fmt.Errorf("sign token: %w", err)
	}

	return signed, domain.Claims{
		AccountID: account.ID,
		Email:     account.Email,
		Name:      account.Name,
		Role:      account.Role,
		RoleLabel: label,
		IssuedAt:  issuedAt,
		ExpiresAt: expiresAt,
	}, nil
}

// Verify checks token at instant now. Expiry is evaluated before the
// signature, so a stale token is reported as expired even when it was
// tampered with.
func (m *TokenManager) Verify(token string, now time.Time) (domain.Claims, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return domain.Claims{}, domain.ErrTokenMalformed
	}

	unverified := &tokenClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, unverified); err != nil {
		return domain.Claims{}, domain.ErrTokenMalformed
	}
	if unverified.ExpiresAt == nil {
		return domain.Claims{}, domain.ErrTokenMalformed
	}
	if now.After(unverified.ExpiresAt.Time) {
		return domain.Claims{}, domain.ErrTokenExpired
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(func() time.Time { return now }),
		jwt.WithExpirationRequired(),
	}
	if m.issuer != "" {
		opts = append(opts, jwt.WithIssuer(m.issuer))
	}
	if m.audience != "" {
		opts = append(opts, jwt.WithAudience(m.audience))
	}

	claims := &tokenClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return m.secret, nil
	}, opts...)
	if err != nil {
		return domain.Claims{}, classifyTokenError(err)
	}

	role, ok := m.labels.Parse(claims.Role)
	if !ok || claims.AccountID <= 0 || claims.Subject == "" {
		return domain.Claims{}, domain.ErrTokenMalformed
	}

	out := domain.Claims{
		AccountID: claims.AccountID,
		Email:     claims.Subject,
		Name:      claims.Name,
		Role:      role,
		RoleLabel: claims.Role,
		ExpiresAt: claims.ExpiresAt.Time,
	}
	if claims.IssuedAt != nil {
		out.IssuedAt = claims.IssuedAt.Time
	}
	return out, nil
}

func classifyTokenError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return domain.ErrTokenExpired
	case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrTokenUnverifiable):
		return domain.ErrTokenInvalidSignature
	default:
		return domain.ErrTokenMalformed
	}
}
