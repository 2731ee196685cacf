package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/newsroom/news-management/internal/api/metrics"
	"github.com/newsroom/news-management/internal/core/domain"
	"github.com/newsroom/news-management/internal/core/service"
)

// RBAC enforces role-based access control. It must run after Auth; a request
// without claims is unauthenticated, a request with the wrong role is forbidden.
func RBAC(allowedRoles ...domain.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, ok := ClaimsFrom(c)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
			}
			if err := service.Authorize(claims, allowedRoles...); err != nil {
				metrics.AuthorizationDenialsTotal.WithLabelValues(claims.RoleLabel).Inc()
				return echo.NewHTTPError(http.StatusForbidden, "access forbidden").SetInternal(err)
			}
			return next(c)
		}
	}
}
