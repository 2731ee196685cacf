package ports

import (
	"context"

	"github.com/newsroom/news-management/internal/core/domain"
)

// AccountInput carries the writable account fields. An empty Password on
// update keeps the stored hash.
type AccountInput struct {
	Name     string
	Email    string
	Password string
	RoleCode int
}

type AccountService interface {
	List(ctx context.Context, search string) ([]domain.Account, error)
	Get(ctx context.Context, id int) (*domain.Account, error)
	Create(ctx context.Context, in AccountInput) (*domain.Account, error)
	Update(ctx context.Context, id int, in AccountInput) (*domain.Account, error)
	Delete(ctx context.Context, id int) error
	CanDelete(ctx context.Context, id int) (bool, error)
}
