package service

import "github.com/newsroom/news-management/internal/core/domain"

// Authorize allows claims holding any of required. An empty required set
// only asks for a verified token.
func Authorize(claims domain.Claims, required ...domain.Role) error {
	if len(required) == 0 || claims.HasRole(required...) {
		return nil
	}
	return domain.ErrForbidden
}
