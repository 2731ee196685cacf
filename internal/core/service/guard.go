package service

import (
	"context"

	"github.com/newsroom/news-management/internal/core/ports"
)

// IntegrityGuard decides whether an account or category can be deleted
// without orphaning news articles. The check and the following delete are
// not isolated from concurrent article creation.
type IntegrityGuard struct {
	articles ports.ArticleRepository
}

func NewIntegrityGuard(articles ports.ArticleRepository) *IntegrityGuard {
	return &IntegrityGuard{articles: articles}
}

// CanDeleteAccount is false while any article was created by the account.
func (g *IntegrityGuard) CanDeleteAccount(ctx context.Context, accountID int) (bool, error) {
	n, err := g.articles.CountByCreator(ctx, accountID)
	if err != nil {
		return false, err
	}
	return n == 0, nil
}

// CanDeleteCategory is false while any article belongs to the category.
func (g *IntegrityGuard) CanDeleteCategory(ctx context.Context, categoryID int) (bool, error) {
	n, err := g.articles.CountByCategory(ctx, categoryID)
	if err != nil {
		return false, err
	}
	return n == 0, nil
}
