package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/rs/zerolog"

	"github.com/newsroom/news-management/internal/core/domain"
	"github.com/newsroom/news-management/internal/core/ports"
)

// articleIdempotencyScope keeps keys of different authors apart.
func articleIdempotencyScope(actorID int) string {
	return fmt.Sprintf("news-article:%d", actorID)
}

// ArticleDeps groups the collaborators of ArticleService. Idempotency is
// optional.
type ArticleDeps struct {
	Articles    ports.ArticleRepository
	NewsTags    ports.NewsTagRepository
	Categories  ports.CategoryRepository
	Tags        ports.TagRepository
	Accounts    ports.AccountRepository
	Tx          ports.TxManager
	Idempotency ports.IdempotencyStore
}

type ArticleService struct {
	deps   ArticleDeps
	logger zerolog.Logger
	now    func() time.Time
}

func NewArticleService(deps ArticleDeps, logger zerolog.Logger) *ArticleService {
	return &ArticleService{deps: deps, logger: logger, now: time.Now}
}

// ListActive returns active articles only, newest first.
func (s *ArticleService) ListActive(ctx context.Context, search string) ([]domain.NewsArticle, error) {
	return s.deps.Articles.List(ctx, ports.ArticleFilter{Search: strings.TrimSpace(search), ActiveOnly: true})
}

func (s *ArticleService) ListAll(ctx context.Context, search string) ([]domain.NewsArticle, error) {
	return s.deps.Articles.List(ctx, ports.ArticleFilter{Search: strings.TrimSpace(search)})
}

func (s *ArticleService) ListByCreator(ctx context.Context, accountID int) ([]domain.NewsArticle, error) {
	return s.deps.Articles.List(ctx, ports.ArticleFilter{CreatedByID: accountID})
}

func (s *ArticleService) Get(ctx context.Context, id int) (*domain.NewsArticle, error) {
	return s.deps.Articles.FindByID(ctx, id)
}

// Create stores a new active article and its tag links atomically. A repeated
// idempotency key returns the article created by the first request.
func (s *ArticleService) Create(ctx context.Context, in ports.ArticleInput, actorID int, idempotencyKey string) (*ports.CreateArticleResult, error) {
	in = normalizeArticle(in)
	if err := validateArticle(in); err != nil {
		return nil, err
	}

	if err := s.checkActor(ctx, actorID); err != nil {
		return nil, err
	}

	scope := articleIdempotencyScope(actorID)
	if existing := s.replay(ctx, scope, idempotencyKey); existing != nil {
		return &ports.CreateArticleResult{Article: existing, AlreadyExisted: true}, nil
	}

	now := s.now().UTC()
	article := &domain.NewsArticle{
		Title:        in.Title,
		Headline:     in.Headline,
		Content:      in.Content,
		Source:       in.Source,
		Status:       domain.NewsActive,
		CategoryID:   in.CategoryID,
		CreatedByID:  actorID,
		UpdatedByID:  &actorID,
		CreatedDate:  now,
		ModifiedDate: now,
	}

	var createdID int
	err := s.deps.Tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.checkReferences(ctx, in); err != nil {
			return err
		}
		created, err := s.deps.Articles.Create(ctx, article)
		if err != nil {
			return err
		}
		createdID = created.ID
		return s.deps.NewsTags.Replace(ctx, created.ID, in.TagIDs)
	})
	if err != nil {
		return nil, err
	}

	s.remember(ctx, scope, idempotencyKey, createdID)
	s.logger.Info().Int("article_id", createdID).Int("created_by", actorID).Ints("tag_ids", in.TagIDs).Msg("article created")

	stored, err := s.deps.Articles.FindByID(ctx, createdID)
	if err != nil {
		return nil, err
	}
	return &ports.CreateArticleResult{Article: stored}, nil
}

// Update overwrites the article fields and replaces its whole tag set in one
// transaction.
func (s *ArticleService) Update(ctx context.Context, id int, in ports.ArticleInput, actorID int) (*domain.NewsArticle, error) {
	in = normalizeArticle(in)
	if err := validateArticle(in); err != nil {
		return nil, err
	}
	if in.Status != nil && !in.Status.Valid() {
		return nil, domain.NewValidationError("newsStatus", "must be 0 or 1")
	}
	if err := s.checkActor(ctx, actorID); err != nil {
		return nil, err
	}

	err := s.deps.Tx.WithinTx(ctx, func(ctx context.Context) error {
		current, err := s.deps.Articles.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if err := s.checkReferences(ctx, in); err != nil {
			return err
		}

		current.Title = in.Title
		current.Headline = in.Headline
		current.Content = in.Content
		current.Source = in.Source
		current.CategoryID = in.CategoryID
		if in.Status != nil {
			current.Status = *in.Status
		}
		current.ModifiedDate = s.now().UTC()
		current.UpdatedByID = &actorID

		if err := s.deps.Articles.Update(ctx, current); err != nil {
			return err
		}
		return s.deps.NewsTags.Replace(ctx, id, in.TagIDs)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().Int("article_id", id).Int("updated_by", actorID).Ints("tag_ids", in.TagIDs).Msg("article updated")
	return s.deps.Articles.FindByID(ctx, id)
}

// Delete removes the article's tag links and then the article.
func (s *ArticleService) Delete(ctx context.Context, id int) error {
	err := s.deps.Tx.WithinTx(ctx, func(ctx context.Context) error {
		if _, err := s.deps.Articles.FindByID(ctx, id); err != nil {
			return err
		}
		if err := s.deps.NewsTags.DeleteByArticle(ctx, id); err != nil {
			return err
		}
		return s.deps.Articles.Delete(ctx, id)
	})
	if err != nil {
		return err
	}

	s.logger.Info().Int("article_id", id).Msg("article deleted")
	return nil
}

// checkActor rejects tokens whose account has since been removed.
func (s *ArticleService) checkActor(ctx context.Context, actorID int) error {
	if actorID <= 0 {
		return domain.ErrUnauthenticated
	}
	if _, err := s.deps.Accounts.FindByID(ctx, actorID); err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return fmt.Errorf("%w: account %d no longer exists", domain.ErrUnauthenticated, actorID)
		}
		return err
	}
	return nil
}

func (s *ArticleService) checkReferences(ctx context.Context, in ports.ArticleInput) error {
	if _, err := s.deps.Categories.FindByID(ctx, in.CategoryID); err != nil {
		if errors.Is(err, domain.ErrCategoryNotFound) {
			return domain.NewValidationError("categoryId", "references a missing category")
		}
		return err
	}

	if len(in.TagIDs) == 0 {
		return nil
	}
	found, err := s.deps.Tags.FindByIDs(ctx, in.TagIDs)
	if err != nil {
		return err
	}
	if len(found) != len(in.TagIDs) {
		known := make(map[int]struct{}, len(found))
		for _, t := range found {
			known[t.ID] = struct{}{}
		}
		var missing []string
		for _, id := range in.TagIDs {
			if _, ok := known[id]; !ok {
				missing = append(missing, fmt.Sprint(id))
			}
		}
		return domain.NewValidationError("tagIds", "references missing tags: "+strings.Join(missing, ", "))
	}
	return nil
}

func (s *ArticleService) replay(ctx context.Context, scope, key string) *domain.NewsArticle {
	if key == "" || s.deps.Idempotency == nil {
		return nil
	}
	id, found, err := s.deps.Idempotency.Lookup(ctx, scope, key)
	if err != nil {
		s.logger.Warn().Err(err).Msg("idempotency lookup failed, creating anyway")
		return nil
	}
	if !found {
		return nil
	}
	existing, err := s.deps.Articles.FindByID(ctx, id)
	if errors.Is(err, domain.ErrArticleNotFound) {
		// The remembered article is gone; free the key for the next create.
		if err := s.deps.Idempotency.Forget(ctx, scope, key); err != nil {
			s.logger.Warn().Err(err).Int("article_id", id).Msg("failed to drop stale idempotency key")
		}
		return nil
	}
	if err != nil {
		s.logger.Warn().Err(err).Int("article_id", id).Msg("idempotency replay lookup failed")
		return nil
	}
	s.logger.Info().Str("idempotency_key", key).Int("article_id", id).Msg("idempotent replay")
	return existing
}

func (s *ArticleService) remember(ctx context.Context, scope, key string, id int) {
	if key == "" || s.deps.Idempotency == nil {
		return
	}
	if err := s.deps.Idempotency.Remember(ctx, scope, key, id); err != nil {
		s.logger.Warn().Err(err).Int("article_id", id).Msg("failed to store idempotency key")
	}
}

func normalizeArticle(in ports.ArticleInput) ports.ArticleInput {
	in.Title = strings.TrimSpace(in.Title)
	in.Headline = strings.TrimSpace(in.Headline)
	in.Source = strings.TrimSpace(in.Source)
	in.TagIDs = domain.UniqueIDs(in.TagIDs)
	return in
}

func validateArticle(in ports.ArticleInput) error {
	return fieldError(validation.Errors{
		"newsTitle":   notBlank(in.Title, maxRunes(domain.MaxTitleLen)),
		"headline":    notBlank(in.Headline),
		"newsContent": notBlank(in.Content),
		"newsSource":  notBlank(in.Source),
		"categoryId":  validation.Validate(in.CategoryID, required, validation.Min(1).Error("is required")),
		"tagIds":      validation.Validate(in.TagIDs, positiveIDs),
	})
}
