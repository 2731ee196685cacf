package ports

import (
	"context"
	"time"

	"github.com/newsroom/news-management/internal/core/domain"
)

// ArticleInput carries the mutable article fields and the full tag set.
// Status is only applied on update; creation always yields an active article.
type ArticleInput struct {
	Title      string
	Headline   string
	Content    string
	Source     string
	CategoryID int
	Status     *domain.NewsStatus
	TagIDs     []int
}

// CreateArticleResult reports whether the article was replayed from an
// earlier request with the same idempotency key.
type CreateArticleResult struct {
	Article        *domain.NewsArticle
	AlreadyExisted bool
}

type ArticleService interface {
	ListActive(ctx context.Context, search string) ([]domain.NewsArticle, error)
	ListAll(ctx context.Context, search string) ([]domain.NewsArticle, error)
	ListByCreator(ctx context.Context, accountID int) ([]domain.NewsArticle, error)
	Get(ctx context.Context, id int) (*domain.NewsArticle, error)
	Create(ctx context.Context, in ArticleInput, actorID int, idempotencyKey string) (*CreateArticleResult, error)
	Update(ctx context.Context, id int, in ArticleInput, actorID int) (*domain.NewsArticle, error)
	Delete(ctx context.Context, id int) error
}

type ReportService interface {
	Report(ctx context.Context, start, end time.Time) (*domain.Report, error)
}
