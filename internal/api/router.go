package api

import (
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/newsroom/news-management/internal/api/handler"
	"github.com/newsroom/news-management/internal/api/middleware"
	"github.com/newsroom/news-management/internal/core/domain"
	"github.com/newsroom/news-management/internal/core/ports"
)

// Deps is everything the HTTP layer needs from the composition root.
type Deps struct {
	Logger         zerolog.Logger
	RequestTimeout time.Duration
	Labels         domain.RoleLabels

	Verifier   ports.TokenVerifier
	Auth       ports.AuthService
	Accounts   ports.AccountService
	Categories ports.CategoryService
	Tags       ports.TagService
	Articles   ports.ArticleService
	Reports    ports.ReportService

	// Checks are run by the readiness probe, keyed by dependency name.
	Checks map[string]handler.Check

	// Registerer and Gatherer default to the global Prometheus registry.
	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Logger)

	reg, gatherer := d.Registerer, d.Gatherer
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestIDWithConfig(echomiddleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(middleware.RequestLogger(d.Logger))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:  "news",
		Subsystem:  "http",
		Registerer: reg,
	}))
	if d.RequestTimeout > 0 {
		e.Use(echomiddleware.ContextTimeout(d.RequestTimeout))
	}

	// --- Operational endpoints (no auth required) ---
	checks := d.Checks
	if checks == nil {
		checks = map[string]handler.Check{}
	}
	e.GET("/health", handler.NewHealthHandler().Liveness)
	e.GET("/health/ready", handler.NewReadinessHandler(checks, d.Logger).Readiness)
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	authn := middleware.Auth(d.Verifier)
	writers := middleware.RBAC(domain.RoleStaff, domain.RoleAdmin)
	staff := middleware.RBAC(domain.RoleStaff)
	admin := middleware.RBAC(domain.RoleAdmin)

	// --- Auth ---
	authHandler := handler.NewAuthHandler(d.Auth)
	e.POST("/auth/login", authHandler.Login)

	// --- News articles ---
	articles := handler.NewArticleHandler(d.Articles, d.Reports, d.Labels)
	e.GET("/news-articles", articles.ListActive)

	news := e.Group("/news-articles", authn)
	news.GET("/all", articles.ListAll)
	news.GET("/mine", articles.Mine, staff)
	news.GET("/report", articles.Report, admin)
	news.GET("/creator/:id", articles.ListByCreator)
	news.GET("/:id", articles.Get)
	news.POST("", articles.Create, writers)
	news.PUT("/:id", articles.Update, writers)
	news.DELETE("/:id", articles.Delete, writers)

	// --- Accounts ---
	accounts := handler.NewAccountHandler(d.Accounts, d.Labels)
	e.GET("/accounts/me", accounts.Me, authn)

	acc := e.Group("/accounts", authn, admin)
	acc.GET("", accounts.List)
	acc.GET("/search", accounts.List)
	acc.GET("/:id", accounts.Get)
	acc.GET("/:id/can-delete", accounts.CanDelete)
	acc.POST("", accounts.Create)
	acc.PUT("/:id", accounts.Update)
	acc.DELETE("/:id", accounts.Delete)

	// --- Categories ---
	categories := handler.NewCategoryHandler(d.Categories)
	cat := e.Group("/categories", authn)
	cat.GET("", categories.List)
	cat.GET("/search", categories.List)
	cat.GET("/:id", categories.Get)
	cat.GET("/:id/can-delete", categories.CanDelete, writers)
	cat.POST("", categories.Create, writers)
	cat.PUT("/:id", categories.Update, writers)
	cat.DELETE("/:id", categories.Delete, writers)

	// --- Tags ---
	tags := handler.NewTagHandler(d.Tags)
	tg := e.Group("/tags", authn)
	tg.GET("", tags.List)
	tg.GET("/search", tags.List)
	tg.GET("/:id", tags.Get)
	tg.POST("", tags.Create, writers)
	tg.PUT("/:id", tags.Update, writers)
	tg.DELETE("/:id", tags.Delete, writers)

	return e
}
