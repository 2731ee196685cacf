package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/newsroom/news-management/internal/core/domain"
	"github.com/newsroom/news-management/internal/core/ports"
)

// AuthService implements login.
type AuthService struct {
	accounts ports.AccountRepository
	tokens   ports.TokenIssuer
	logger   zerolog.Logger
	now      func() time.Time
}

func NewAuthService(accounts ports.AccountRepository, tokens ports.TokenIssuer, logger zerolog.Logger) *AuthService {
	return &AuthService{accounts: accounts, tokens: tokens, logger: logger, now: time.Now}
}

var (
	dummyHashOnce sync.Once
	dummyHash     []byte
)

// equalizeTiming spends one bcrypt comparison when the account is unknown so
// that missing emails and wrong passwords take the same time.
func equalizeTiming(password string) {
	dummyHashOnce.Do(func() {
		dummyHash, _ = bcrypt.GenerateFromPassword([]byte("not-a-password"), bcrypt.DefaultCost)
	})
	_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*ports.LoginResult, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	account, err := s.accounts.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			equalizeTiming(password)
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)) != nil {
		s.logger.Info().Int("account_id", account.ID).Msg("login rejected")
		return nil, domain.ErrInvalidCredentials
	}

	token, claims, err := s.tokens.Issue(*account, s.now())
	if err != nil {
		return nil, err
	}

	s.logger.Info().Int("account_id", account.ID).Str("role", claims.RoleLabel).Msg("login succeeded")

	return &ports.LoginResult{
		Token:     token,
		RoleLabel: claims.RoleLabel,
		ExpiresAt: claims.ExpiresAt,
		Account:   *account,
	}, nil
}

// EnsureAdmin creates an Admin account for email when none exists.
func (s *AuthService) EnsureAdmin(ctx context.Context, name, email, password string) error {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil
	}
	name = strings.TrimSpace(name)
	if name == "" {
		name = "Administrator"
	}
	in := ports.AccountInput{Name: name, Email: email, RoleCode: int(domain.RoleAdmin)}
	errs := validateAccount(in)
	errs["accountPassword"] = notBlank(password)
	if err := fieldError(errs); err != nil {
		return err
	}

	if _, err := s.accounts.FindByEmail(ctx, email); err == nil {
		return nil
	} else if !errors.Is(err, domain.ErrAccountNotFound) {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	created, err := s.accounts.Create(ctx, &domain.Account{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Role:         domain.RoleAdmin,
	})
	if err != nil {
		return err
	}
	s.logger.Info().Int("account_id", created.ID).Msg("bootstrap admin created")
	return nil
}
