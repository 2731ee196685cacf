package service

import (
	"context"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/newsroom/news-management/internal/core/domain"
	"github.com/newsroom/news-management/internal/core/ports"
)

type AccountService struct {
	repo   ports.AccountRepository
	guard  *IntegrityGuard
	logger zerolog.Logger
}

func NewAccountService(repo ports.AccountRepository, guard *IntegrityGuard, logger zerolog.Logger) *AccountService {
	return &AccountService{repo: repo, guard: guard, logger: logger}
}

func (s *AccountService) List(ctx context.Context, search string) ([]domain.Account, error) {
	return s.repo.List(ctx, strings.TrimSpace(search))
}

func (s *AccountService) Get(ctx context.Context, id int) (*domain.Account, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *AccountService) Create(ctx context.Context, in ports.AccountInput) (*domain.Account, error) {
	in = normalizeAccount(in)
	errs := validateAccount(in)
	errs["accountPassword"] = notBlank(in.Password)
	if err := fieldError(errs); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	created, err := s.repo.Create(ctx, &domain.Account{
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: string(hash),
		Role:         domain.RoleFromCode(in.RoleCode),
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().Int("account_id", created.ID).Int("role", created.Role.Code()).Msg("account created")
	return created, nil
}

func (s *AccountService) Update(ctx context.Context, id int, in ports.AccountInput) (*domain.Account, error) {
	current, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	in = normalizeAccount(in)
	if err := fieldError(validateAccount(in)); err != nil {
		return nil, err
	}

	current.Name = in.Name
	current.Email = in.Email
	current.Role = domain.RoleFromCode(in.RoleCode)
	if in.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		current.PasswordHash = string(hash)
	}

	if err := s.repo.Update(ctx, current); err != nil {
		return nil, err
	}

	s.logger.Info().Int("account_id", id).Msg("account updated")
	return current, nil
}

// Delete removes an account that has created no articles. A referenced
// account yields a *domain.BlockedError.
func (s *AccountService) Delete(ctx context.Context, id int) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return err
	}

	ok, err := s.guard.CanDeleteAccount(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		s.logger.Warn().Int("account_id", id).Msg("account delete blocked")
		return &domain.BlockedError{Resource: "account", ID: id, Reason: domain.ReasonAccountHasArticles}
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info().Int("account_id", id).Msg("account deleted")
	return nil
}

func (s *AccountService) CanDelete(ctx context.Context, id int) (bool, error) {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return false, err
	}
	return s.guard.CanDeleteAccount(ctx, id)
}

func normalizeAccount(in ports.AccountInput) ports.AccountInput {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	return in
}

func validateAccount(in ports.AccountInput) validation.Errors {
	return validation.Errors{
		"accountName":  notBlank(in.Name, maxRunes(domain.MaxAccountNameLen)),
		"accountEmail": notBlank(in.Email, validEmail),
		"accountRole": validation.Validate(in.RoleCode,
			validation.Required.Error("must be one of: 1, 2, 3"),
			validation.In(int(domain.RoleStaff), int(domain.RoleLecturer), int(domain.RoleAdmin)).Error("must be one of: 1, 2, 3"),
		),
	}
}
