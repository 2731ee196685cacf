package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/swaggo/swag"

	_ "github.com/newsroom/news-management/docs"
	"github.com/newsroom/news-management/internal/core/domain"
	"github.com/newsroom/news-management/internal/core/ports"
	"github.com/newsroom/news-management/internal/core/service"
)

// Fakes embed the port interfaces; methods that are not overridden panic.

type fakeArticles struct {
	ports.ArticleService
	active []domain.NewsArticle
}

func (f *fakeArticles) ListActive(ctx context.Context, search string) ([]domain.NewsArticle, error) {
	return f.active, nil
}

func (f *fakeArticles) ListAll(ctx context.Context, search string) ([]domain.NewsArticle, error) {
	return f.active, nil
}

type fakeReports struct{ ports.ReportService }

func (fakeReports) Report(ctx context.Context, start, end time.Time) (*domain.Report, error) {
	return &domain.Report{Start: start, End: end}, nil
}

type fakeAccounts struct{ ports.AccountService }

func (fakeAccounts) List(ctx context.Context, search string) ([]domain.Account, error) {
	return []domain.Account{}, nil
}

func (fakeAccounts) Get(ctx context.Context, id int) (*domain.Account, error) {
	return &domain.Account{ID: id, Name: "Caller", Role: domain.RoleStaff}, nil
}

func newTestRouter(t *testing.T) (*echo.Echo, *service.TokenManager) {
	t.Helper()
	tokens := service.NewTokenManager(service.TokenConfig{
		Secret:   "router-secret",
		Issuer:   "news-management",
		Audience: "news-management-client",
		Validity: time.Hour,
	})
	reg := prometheus.NewRegistry()
	e := NewRouter(Deps{
		Logger:     zerolog.Nop(),
		Labels:     tokens.Labels(),
		Verifier:   tokens,
		Accounts:   fakeAccounts{},
		Articles:   &fakeArticles{active: []domain.NewsArticle{{ID: 1, Title: "Public", Status: domain.NewsActive}}},
		Reports:    fakeReports{},
		Registerer: reg,
		Gatherer:   reg,
	})
	return e, tokens
}

func bearer(t *testing.T, tokens *service.TokenManager, role domain.Role) string {
	t.Helper()
	token, _, err := tokens.Issue(domain.Account{ID: 20, Name: "Caller", Email: "caller@news.local", Role: role}, time.Now())
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	return "Bearer " + token
}

func serve(e *echo.Echo, method, target, auth string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	if auth != "" {
		req.Header.Set(echo.HeaderAuthorization, auth)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestRouter_RouteGates(t *testing.T) {
	e, tokens := newTestRouter(t)
	staff := bearer(t, tokens, domain.RoleStaff)
	lecturer := bearer(t, tokens, domain.RoleLecturer)
	admin := bearer(t, tokens, domain.RoleAdmin)

	report := "/news-articles/report?startDate=2024-01-01&endDate=2024-01-31"

	tests := []struct {
		name   string
		method string
		target string
		auth   string
		want   int
	}{
		{"public active listing", http.MethodGet, "/news-articles", "", http.StatusOK},
		{"all listing needs a token", http.MethodGet, "/news-articles/all", "", http.StatusUnauthorized},
		{"all listing with token", http.MethodGet, "/news-articles/all", lecturer, http.StatusOK},
		{"garbage token", http.MethodGet, "/news-articles/all", "Bearer nope", http.StatusUnauthorized},
		{"report as staff", http.MethodGet, report, staff, http.StatusForbidden},
		{"report as lecturer", http.MethodGet, report, lecturer, http.StatusForbidden},
		{"report as admin", http.MethodGet, report, admin, http.StatusOK},
		{"accounts as staff", http.MethodGet, "/accounts", staff, http.StatusForbidden},
		{"accounts as admin", http.MethodGet, "/accounts", admin, http.StatusOK},
		{"own profile as staff", http.MethodGet, "/accounts/me", staff, http.StatusOK},
		{"lecturer cannot delete articles", http.MethodDelete, "/news-articles/1", lecturer, http.StatusForbidden},
		{"lecturer cannot create tags", http.MethodPost, "/tags", lecturer, http.StatusForbidden},
		{"mine is staff only", http.MethodGet, "/news-articles/mine", admin, http.StatusForbidden},
		{"liveness", http.MethodGet, "/health", "", http.StatusOK},
		{"readiness", http.MethodGet, "/health/ready", "", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(e, tt.method, tt.target, tt.auth)
			if rec.Code != tt.want {
				t.Fatalf("%s %s: expected %d, got %d (%s)", tt.method, tt.target, tt.want, rec.Code, rec.Body.String())
			}
		})
	}
}

func TestRouter_RequestIDAndMetrics(t *testing.T) {
	e, _ := newTestRouter(t)

	rec := serve(e, http.MethodGet, "/news-articles", "")
	if rec.Header().Get(echo.HeaderXRequestID) == "" {
		t.Fatalf("expected a request id header")
	}

	rec = serve(e, http.MethodGet, "/metrics", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 from /metrics, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "news_http_requests_total") {
		t.Fatalf("expected request counter in metrics output")
	}
}

func TestRouter_EveryRouteIsDocumented(t *testing.T) {
	e, _ := newTestRouter(t)

	raw, err := swag.ReadDoc()
	if err != nil {
		t.Fatalf("read swagger doc: %v", err)
	}
	var doc struct {
		Paths map[string]map[string]json.RawMessage `json:"paths"`
	}
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		t.Fatalf("swagger doc is not valid json: %v", err)
	}

	undocumented := map[string]bool{"/health": true, "/metrics": true, "/swagger/*": true}
	methods := map[string]bool{http.MethodGet: true, http.MethodPost: true, http.MethodPut: true, http.MethodDelete: true}
	for _, r := range e.Routes() {
		if !methods[r.Method] || undocumented[r.Path] {
			continue
		}
		path := strings.ReplaceAll(r.Path, ":id", "{id}")
		if _, ok := doc.Paths[path][strings.ToLower(r.Method)]; !ok {
			t.Errorf("%s %s is missing from the swagger document", r.Method, path)
		}
	}
}
