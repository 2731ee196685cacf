package ports

import (
	"context"
	"time"

	"github.com/newsroom/news-management/internal/core/domain"
)

// AccountRepository persists accounts. Lookups of a missing account return
// domain.ErrAccountNotFound.
type AccountRepository interface {
	List(ctx context.Context, search string) ([]domain.Account, error)
	FindByID(ctx context.Context, id int) (*domain.Account, error)
	FindByEmail(ctx context.Context, email string) (*domain.Account, error)
	// Create assigns the new id. A duplicate email returns domain.ErrEmailTaken.
	Create(ctx context.Context, account *domain.Account) (*domain.Account, error)
	Update(ctx context.Context, account *domain.Account) error
	Delete(ctx context.Context, id int) error
}

// CategoryRepository persists categories. Search matches name or description.
type CategoryRepository interface {
	List(ctx context.Context, search string) ([]domain.Category, error)
	FindByID(ctx context.Context, id int) (*domain.Category, error)
	Create(ctx context.Context, category *domain.Category) (*domain.Category, error)
	Update(ctx context.Context, category *domain.Category) error
	Delete(ctx context.Context, id int) error
}

// TagRepository persists tags. Search matches name or note.
type TagRepository interface {
	List(ctx context.Context, search string) ([]domain.Tag, error)
	FindByID(ctx context.Context, id int) (*domain.Tag, error)
	// FindByIDs returns the tags that exist among ids, ordered by id.
	FindByIDs(ctx context.Context, ids []int) ([]domain.Tag, error)
	Create(ctx context.Context, tag *domain.Tag) (*domain.Tag, error)
	Update(ctx context.Context, tag *domain.Tag) error
	Delete(ctx context.Context, id int) error
}

// ArticleFilter narrows an article listing. Zero values disable a filter.
type ArticleFilter struct {
	Search      string // substring of title or content
	ActiveOnly  bool
	CreatedByID int
	From        time.Time // created_date >= From
	To          time.Time // created_date <= To
}

// ArticleRepository persists article records. Every list is ordered by
// created date descending with id descending as tiebreak, and loads Category,
// CreatedBy and Tags.
type ArticleRepository interface {
	List(ctx context.Context, filter ArticleFilter) ([]domain.NewsArticle, error)
	FindByID(ctx context.Context, id int) (*domain.NewsArticle, error)
	Create(ctx context.Context, article *domain.NewsArticle) (*domain.NewsArticle, error)
	Update(ctx context.Context, article *domain.NewsArticle) error
	Delete(ctx context.Context, id int) error
	CountByCreator(ctx context.Context, accountID int) (int, error)
	CountByCategory(ctx context.Context, categoryID int) (int, error)
}

// NewsTagRepository owns the article/tag join records.
type NewsTagRepository interface {
	TagIDs(ctx context.Context, articleID int) ([]int, error)
	// Replace deletes every link of articleID and inserts tagIDs.
	Replace(ctx context.Context, articleID int, tagIDs []int) error
	DeleteByArticle(ctx context.Context, articleID int) error
	DeleteByTag(ctx context.Context, tagID int) error
}

// TxManager runs fn as one atomic unit. Repositories called with the ctx
// passed to fn join the transaction.
type TxManager interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// IdempotencyStore remembers which resource a client-supplied key created.
// Remember keeps the first id stored for a key; Forget drops the key.
type IdempotencyStore interface {
	Lookup(ctx context.Context, scope, key string) (id int, found bool, err error)
	Remember(ctx context.Context, scope, key string, id int) error
	Forget(ctx context.Context, scope, key string) error
}
