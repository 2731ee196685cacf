package ports

import (
	"context"

	"github.com/newsroom/news-management/internal/core/domain"
)

type TagInput struct {
	Name string
	Note string
}

type TagService interface {
	List(ctx context.Context, search string) ([]domain.Tag, error)
	Get(ctx context.Context, id int) (*domain.Tag, error)
	Create(ctx context.Context, in TagInput) (*domain.Tag, error)
	Update(ctx context.Context, id int, in TagInput) (*domain.Tag, error)
	Delete(ctx context.Context, id int) error
}
