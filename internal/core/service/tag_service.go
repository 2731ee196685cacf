package service

import (
	"context"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/rs/zerolog"

	"github.com/newsroom/news-management/internal/core/domain"
	"github.com/newsroom/news-management/internal/core/ports"
)

type TagService struct {
	repo     ports.TagRepository
	newsTags ports.NewsTagRepository
	tx       ports.TxManager
	logger   zerolog.Logger
}

func NewTagService(repo ports.TagRepository, newsTags ports.NewsTagRepository, tx ports.TxManager, logger zerolog.Logger) *TagService {
	return &TagService{repo: repo, newsTags: newsTags, tx: tx, logger: logger}
}

func (s *TagService) List(ctx context.Context, search string) ([]domain.Tag, error) {
	return s.repo.List(ctx, strings.TrimSpace(search))
}

func (s *TagService) Get(ctx context.Context, id int) (*domain.Tag, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *TagService) Create(ctx context.Context, in ports.TagInput) (*domain.Tag, error) {
	in.Name = strings.TrimSpace(in.Name)
	if err := validateTag(in); err != nil {
		return nil, err
	}

	created, err := s.repo.Create(ctx, &domain.Tag{Name: in.Name, Note: in.Note})
	if err != nil {
		return nil, err
	}

	s.logger.Info().Int("tag_id", created.ID).Msg("tag created")
	return created, nil
}

func (s *TagService) Update(ctx context.Context, id int, in ports.TagInput) (*domain.Tag, error) {
	current, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	in.Name = strings.TrimSpace(in.Name)
	if err := validateTag(in); err != nil {
		return nil, err
	}

	current.Name = in.Name
	current.Note = in.Note
	if err := s.repo.Update(ctx, current); err != nil {
		return nil, err
	}

	s.logger.Info().Int("tag_id", id).Msg("tag updated")
	return current, nil
}

// Delete removes the tag and every article link to it in one transaction.
func (s *TagService) Delete(ctx context.Context, id int) error {
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if _, err := s.repo.FindByID(ctx, id); err != nil {
			return err
		}
		if err := s.newsTags.DeleteByTag(ctx, id); err != nil {
			return err
		}
		return s.repo.Delete(ctx, id)
	})
	if err != nil {
		return err
	}

	s.logger.Info().Int("tag_id", id).Msg("tag deleted")
	return nil
}

func validateTag(in ports.TagInput) error {
	return fieldError(validation.Errors{
		"tagName": notBlank(in.Name, maxRunes(domain.MaxTagNameLen)),
	})
}
