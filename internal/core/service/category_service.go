package service

import (
	"context"
	"errors"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/rs/zerolog"

	"github.com/newsroom/news-management/internal/core/domain"
	"github.com/newsroom/news-management/internal/core/ports"
)

type CategoryService struct {
	repo   ports.CategoryRepository
	guard  *IntegrityGuard
	logger zerolog.Logger
}

func NewCategoryService(repo ports.CategoryRepository, guard *IntegrityGuard, logger zerolog.Logger) *CategoryService {
	return &CategoryService{repo: repo, guard: guard, logger: logger}
}

func (s *CategoryService) List(ctx context.Context, search string) ([]domain.Category, error) {
	return s.repo.List(ctx, strings.TrimSpace(search))
}

func (s *CategoryService) Get(ctx context.Context, id int) (*domain.Category, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *CategoryService) Create(ctx context.Context, in ports.CategoryInput) (*domain.Category, error) {
	in.Name = strings.TrimSpace(in.Name)
	if err := s.validate(ctx, in); err != nil {
		return nil, err
	}

	created, err := s.repo.Create(ctx, &domain.Category{
		Name:        in.Name,
		Description: in.Description,
		ParentID:    in.ParentID,
		IsActive:    in.IsActive,
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().Int("category_id", created.ID).Msg("category created")
	return created, nil
}

func (s *CategoryService) Update(ctx context.Context, id int, in ports.CategoryInput) (*domain.Category, error) {
	current, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	in.Name = strings.TrimSpace(in.Name)
	if err := s.validate(ctx, in); err != nil {
		return nil, err
	}

	current.Name = in.Name
	current.Description = in.Description
	current.ParentID = in.ParentID
	current.IsActive = in.IsActive

	if err := s.repo.Update(ctx, current); err != nil {
		return nil, err
	}

	s.logger.Info().Int("category_id", id).Msg("category updated")
	return current, nil
}

// Delete removes a category no article belongs to. A referenced category
// yields a *domain.BlockedError.
func (s *CategoryService) Delete(ctx context.Context, id int) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return err
	}

	ok, err := s.guard.CanDeleteCategory(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		s.logger.Warn().Int("category_id", id).Msg("category delete blocked")
		return &domain.BlockedError{Resource: "category", ID: id, Reason: domain.ReasonCategoryInUse}
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info().Int("category_id", id).Msg("category deleted")
	return nil
}

func (s *CategoryService) CanDelete(ctx context.Context, id int) (bool, error) {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return false, err
	}
	return s.guard.CanDeleteCategory(ctx, id)
}

// validate checks field limits and that a parent, when given, exists. Parent
// chains are not checked for cycles.
func (s *CategoryService) validate(ctx context.Context, in ports.CategoryInput) error {
	if err := fieldError(validation.Errors{
		"categoryName": notBlank(in.Name, maxRunes(domain.MaxCategoryNameLen)),
	}); err != nil {
		return err
	}

	if in.ParentID != nil {
		if _, err := s.repo.FindByID(ctx, *in.ParentID); err != nil {
			if errors.Is(err, domain.ErrCategoryNotFound) {
				return domain.NewValidationError("parentCategoryId", "references a missing category")
			}
			return err
		}
	}
	return nil
}
