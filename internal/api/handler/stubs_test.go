package handler

import (
	"context"
	"io"
	"net/http/httptest"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/newsroom/news-management/internal/api/middleware"
	"github.com/newsroom/news-management/internal/core/domain"
	"github.com/newsroom/news-management/internal/core/ports"
)

var testLabels = domain.NewRoleLabels("Admin")

// newContext builds an echo context for a JSON request with the validator
// installed. Path parameters are given as name/value pairs.
func newContext(method, target, body string, params ...string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()

	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var names, values []string
	for i := 0; i+1 < len(params); i += 2 {
		names = append(names, params[i])
		values = append(values, params[i+1])
	}
	c.SetParamNames(names...)
	c.SetParamValues(values...)
	return c, rec
}

func withStaff(c echo.Context, id int) {
	middleware.WithClaims(c, domain.Claims{AccountID: id, Role: domain.RoleStaff, RoleLabel: domain.LabelStaff})
}

func httpCode(err error) int {
	if he, ok := err.(*echo.HTTPError); ok {
		return he.Code
	}
	return 0
}

// --- Service stubs ---

type stubAuthService struct {
	loginFn func(ctx context.Context, email, password string) (*ports.LoginResult, error)
}

func (s *stubAuthService) Login(ctx context.Context, email, password string) (*ports.LoginResult, error) {
	return s.loginFn(ctx, email, password)
}

type stubAccountService struct {
	listFn      func(ctx context.Context, search string) ([]domain.Account, error)
	getFn       func(ctx context.Context, id int) (*domain.Account, error)
	createFn    func(ctx context.Context, in ports.AccountInput) (*domain.Account, error)
	updateFn    func(ctx context.Context, id int, in ports.AccountInput) (*domain.Account, error)
	deleteFn    func(ctx context.Context, id int) error
	canDeleteFn func(ctx context.Context, id int) (bool, error)
}

func (s *stubAccountService) List(ctx context.Context, search string) ([]domain.Account, error) {
	return s.listFn(ctx, search)
}

func (s *stubAccountService) Get(ctx context.Context, id int) (*domain.Account, error) {
	return s.getFn(ctx, id)
}

func (s *stubAccountService) Create(ctx context.Context, in ports.AccountInput) (*domain.Account, error) {
	return s.createFn(ctx, in)
}

func (s *stubAccountService) Update(ctx context.Context, id int, in ports.AccountInput) (*domain.Account, error) {
	return s.updateFn(ctx, id, in)
}

func (s *stubAccountService) Delete(ctx context.Context, id int) error {
	return s.deleteFn(ctx, id)
}

func (s *stubAccountService) CanDelete(ctx context.Context, id int) (bool, error) {
	return s.canDeleteFn(ctx, id)
}

type stubCategoryService struct {
	listFn      func(ctx context.Context, search string) ([]domain.Category, error)
	getFn       func(ctx context.Context, id int) (*domain.Category, error)
	createFn    func(ctx context.Context, in ports.CategoryInput) (*domain.Category, error)
	updateFn    func(ctx context.Context, id int, in ports.CategoryInput) (*domain.Category, error)
	deleteFn    func(ctx context.Context, id int) error
	canDeleteFn func(ctx context.Context, id int) (bool, error)
}

func (s *stubCategoryService) List(ctx context.Context, search string) ([]domain.Category, error) {
	return s.listFn(ctx, search)
}

func (s *stubCategoryService) Get(ctx context.Context, id int) (*domain.Category, error) {
	return s.getFn(ctx, id)
}

func (s *stubCategoryService) Create(ctx context.Context, in ports.CategoryInput) (*domain.Category, error) {
	return s.createFn(ctx, in)
}

func (s *stubCategoryService) Update(ctx context.Context, id int, in ports.CategoryInput) (*domain.Category, error) {
	return s.updateFn(ctx, id, in)
}

func (s *stubCategoryService) Delete(ctx context.Context, id int) error {
	return s.deleteFn(ctx, id)
}

func (s *stubCategoryService) CanDelete(ctx context.Context, id int) (bool, error) {
	return s.canDeleteFn(ctx, id)
}

type stubTagService struct {
	listFn   func(ctx context.Context, search string) ([]domain.Tag, error)
	getFn    func(ctx context.Context, id int) (*domain.Tag, error)
	createFn func(ctx context.Context, in ports.TagInput) (*domain.Tag, error)
	updateFn func(ctx context.Context, id int, in ports.TagInput) (*domain.Tag, error)
	deleteFn func(ctx context.Context, id int) error
}

func (s *stubTagService) List(ctx context.Context, search string) ([]domain.Tag, error) {
	return s.listFn(ctx, search)
}

func (s *stubTagService) Get(ctx context.Context, id int) (*domain.Tag, error) {
	return s.getFn(ctx, id)
}

func (s *stubTagService) Create(ctx context.Context, in ports.TagInput) (*domain.Tag, error) {
	return s.createFn(ctx, in)
}

func (s *stubTagService) Update(ctx context.Context, id int, in ports.TagInput) (*domain.Tag, error) {
	return s.updateFn(ctx, id, in)
}

func (s *stubTagService) Delete(ctx context.Context, id int) error {
	return s.deleteFn(ctx, id)
}

type stubArticleService struct {
	listActiveFn    func(ctx context.Context, search string) ([]domain.NewsArticle, error)
	listAllFn       func(ctx context.Context, search string) ([]domain.NewsArticle, error)
	listByCreatorFn func(ctx context.Context, accountID int) ([]domain.NewsArticle, error)
	getFn           func(ctx context.Context, id int) (*domain.NewsArticle, error)
	createFn        func(ctx context.Context, in ports.ArticleInput, actorID int, key string) (*ports.CreateArticleResult, error)
	updateFn        func(ctx context.Context, id int, in ports.ArticleInput, actorID int) (*domain.NewsArticle, error)
	deleteFn        func(ctx context.Context, id int) error
}

func (s *stubArticleService) ListActive(ctx context.Context, search string) ([]domain.NewsArticle, error) {
	return s.listActiveFn(ctx, search)
}

func (s *stubArticleService) ListAll(ctx context.Context, search string) ([]domain.NewsArticle, error) {
	return s.listAllFn(ctx, search)
}

func (s *stubArticleService) ListByCreator(ctx context.Context, accountID int) ([]domain.NewsArticle, error) {
	return s.listByCreatorFn(ctx, accountID)
}

func (s *stubArticleService) Get(ctx context.Context, id int) (*domain.NewsArticle, error) {
	return s.getFn(ctx, id)
}

func (s *stubArticleService) Create(ctx context.Context, in ports.ArticleInput, actorID int, key string) (*ports.CreateArticleResult, error) {
	return s.createFn(ctx, in, actorID, key)
}

func (s *stubArticleService) Update(ctx context.Context, id int, in ports.ArticleInput, actorID int) (*domain.NewsArticle, error) {
	return s.updateFn(ctx, id, in, actorID)
}

func (s *stubArticleService) Delete(ctx context.Context, id int) error {
	return s.deleteFn(ctx, id)
}

type stubReportService struct {
	reportFn func(ctx context.Context, start, end time.Time) (*domain.Report, error)
}

func (s *stubReportService) Report(ctx context.Context, start, end time.Time) (*domain.Report, error) {
	return s.reportFn(ctx, start, end)
}

