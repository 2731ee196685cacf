package ports

import (
	"context"

	"github.com/newsroom/news-management/internal/core/domain"
)

type CategoryInput struct {
	Name        string
	Description string
	ParentID    *int
	IsActive    bool
}

type CategoryService interface {
	List(ctx context.Context, search string) ([]domain.Category, error)
	Get(ctx context.Context, id int) (*domain.Category, error)
	Create(ctx context.Context, in CategoryInput) (*domain.Category, error)
	Update(ctx context.Context, id int, in CategoryInput) (*domain.Category, error)
	Delete(ctx context.Context, id int) error
	CanDelete(ctx context.Context, id int) (bool, error)
}
