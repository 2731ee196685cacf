package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/newsroom/news-management/internal/core/domain"
)

func seedAccount(t *testing.T, s *memStore, name, email, password string, role domain.Role) domain.Account {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	acc := domain.Account{ID: s.id(), Name: name, Email: email, PasswordHash: string(hash), Role: role}
	s.accounts[acc.ID] = acc
	return acc
}

func TestAuthService_Login_Success(t *testing.T) {
	store := newMemStore()
	accounts, _, _, _, _, _ := store.repos()
	acc := seedAccount(t, store, "Carol", "carol@news.local", "s3cret", domain.RoleStaff)

	tokens := newTestTokenManager()
	svc := NewAuthService(accounts, tokens, zerolog.Nop())
	svc.now = func() time.Time { return testIssuedAt }

	res, err := svc.Login(context.Background(), "carol@news.local", "s3cret")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if res.Token == "" {
		t.Fatalf("expected token, got empty")
	}
	if res.RoleLabel != "Staff" {
		t.Fatalf("expected Staff label, got %q", res.RoleLabel)
	}
	if res.Account.ID != acc.ID {
		t.Fatalf("unexpected account %+v", res.Account)
	}

	claims, err := tokens.Verify(res.Token, testIssuedAt.Add(time.Minute))
	if err != nil {
		t.Fatalf("token invalid: %v", err)
	}
	if claims.Email != acc.Email || claims.AccountID != acc.ID || claims.Role != domain.RoleStaff {
		t.Fatalf("unexpected claims %+v", claims)
	}
}

func TestAuthService_Login_InvalidPassword(t *testing.T) {
	store := newMemStore()
	accounts, _, _, _, _, _ := store.repos()
	seedAccount(t, store, "Dave", "dave@news.local", "goodpass", domain.RoleStaff)

	svc := NewAuthService(accounts, newTestTokenManager(), zerolog.Nop())
	if _, err := svc.Login(context.Background(), "dave@news.local", "badpass"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_Login_UnknownEmail(t *testing.T) {
	store := newMemStore()
	accounts, _, _, _, _, _ := store.repos()

	svc := NewAuthService(accounts, newTestTokenManager(), zerolog.Nop())
	if _, err := svc.Login(context.Background(), "ghost@news.local", "pass"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_Login_EmptyInput(t *testing.T) {
	store := newMemStore()
	accounts, _, _, _, _, _ := store.repos()

	svc := NewAuthService(accounts, newTestTokenManager(), zerolog.Nop())
	if _, err := svc.Login(context.Background(), "  ", ""); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_EnsureAdmin(t *testing.T) {
	store := newMemStore()
	accounts, _, _, _, _, _ := store.repos()
	svc := NewAuthService(accounts, newTestTokenManager(), zerolog.Nop())

	if err := svc.EnsureAdmin(context.Background(), "", "root@news.local", "rootpass"); err != nil {
		t.Fatalf("ensure admin: %v", err)
	}
	if err := svc.EnsureAdmin(context.Background(), "", "root@news.local", "rootpass"); err != nil {
		t.Fatalf("second call must be a no-op: %v", err)
	}
	if len(store.accounts) != 1 {
		t.Fatalf("expected exactly one account, got %d", len(store.accounts))
	}

	res, err := svc.Login(context.Background(), "root@news.local", "rootpass")
	if err != nil {
		t.Fatalf("login as bootstrap admin: %v", err)
	}
	if res.Account.Role != domain.RoleAdmin || res.RoleLabel != "Admin" {
		t.Fatalf("unexpected role %v / %q", res.Account.Role, res.RoleLabel)
	}
}

func TestAuthService_EnsureAdmin_RejectsInvalidBootstrap(t *testing.T) {
	store := newMemStore()
	accounts, _, _, _, _, _ := store.repos()
	svc := NewAuthService(accounts, newTestTokenManager(), zerolog.Nop())

	err := svc.EnsureAdmin(context.Background(), "", "root@localhost", "rootpass")
	var ve *domain.ValidationError
	if !errors.As(err, &ve) || ve.Fields["accountEmail"] == "" {
		t.Fatalf("expected accountEmail validation failure, got %v", err)
	}

	err = svc.EnsureAdmin(context.Background(), strings.Repeat("n", domain.MaxAccountNameLen+1), "root@news.local", "rootpass")
	if !errors.As(err, &ve) || ve.Fields["accountName"] == "" {
		t.Fatalf("expected accountName validation failure, got %v", err)
	}
	if len(store.accounts) != 0 {
		t.Fatalf("invalid bootstrap must not create accounts, got %d", len(store.accounts))
	}
}
