package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/newsroom/news-management/internal/api/metrics"
	"github.com/newsroom/news-management/internal/core/domain"
	"github.com/newsroom/news-management/internal/core/ports"
)

// IdempotencyHeader deduplicates article creation when set by the client.
const IdempotencyHeader = "Idempotency-Key"

const dateLayout = "2006-01-02"

type ArticleHandler struct {
	articles ports.ArticleService
	reports  ports.ReportService
	labels   domain.RoleLabels
}

func NewArticleHandler(articles ports.ArticleService, reports ports.ReportService, labels domain.RoleLabels) *ArticleHandler {
	return &ArticleHandler{articles: articles, reports: reports, labels: labels}
}

// ListActive handles the public GET /news-articles.
//
// @Summary      List active news articles
// @Tags         news-articles
// @Produce      json
// @Param        q    query     string  false  "Substring of title or content"
// @Success      200  {array}   articleResponse
// @Router       /news-articles [get]
func (h *ArticleHandler) ListActive(c echo.Context) error {
	articles, err := h.articles.ListActive(c.Request().Context(), searchQuery(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toArticleResponses(articles, h.labels))
}

// ListAll handles GET /news-articles/all, inactive articles included.
//
// @Summary      List all news articles
// @Tags         news-articles
// @Produce      json
// @Security     BearerAuth
// @Param        q    query     string  false  "Substring of title or content"
// @Success      200  {array}   articleResponse
// @Failure      401  {object}  errorResponse
// @Router       /news-articles/all [get]
func (h *ArticleHandler) ListAll(c echo.Context) error {
	articles, err := h.articles.ListAll(c.Request().Context(), searchQuery(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toArticleResponses(articles, h.labels))
}

// Get handles GET /news-articles/:id.
//
// @Summary      Get a news article
// @Tags         news-articles
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Article id"
// @Success      200  {object}  articleResponse
// @Failure      404  {object}  errorResponse
// @Router       /news-articles/{id} [get]
func (h *ArticleHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	article, err := h.articles.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toArticleResponse(*article, h.labels))
}

// ListByCreator handles GET /news-articles/creator/:id.
//
// @Summary      List articles created by an account
// @Tags         news-articles
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Account id"
// @Success      200  {array}   articleResponse
// @Router       /news-articles/creator/{id} [get]
func (h *ArticleHandler) ListByCreator(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	articles, err := h.articles.ListByCreator(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toArticleResponses(articles, h.labels))
}

// Mine handles GET /news-articles/mine.
//
// @Summary      List the caller's articles
// @Tags         news-articles
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   articleResponse
// @Router       /news-articles/mine [get]
func (h *ArticleHandler) Mine(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}
	articles, err := h.articles.ListByCreator(c.Request().Context(), claims.AccountID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toArticleResponses(articles, h.labels))
}

// Create handles POST /news-articles. A repeated Idempotency-Key returns the
// article created by the first request with status 200.
//
// @Summary      Create a news article
// @Tags         news-articles
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        Idempotency-Key  header    string          false  "Deduplication key"
// @Param        body             body      articleRequest  true   "Article"
// @Success      201              {object}  articleResponse
// @Success      200              {object}  articleResponse  "replayed"
// @Failure      400              {object}  errorResponse
// @Failure      404              {object}  errorResponse
// @Router       /news-articles [post]
func (h *ArticleHandler) Create(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}
	var req articleRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	key := strings.TrimSpace(c.Request().Header.Get(IdempotencyHeader))
	res, err := h.articles.Create(c.Request().Context(), toArticleInput(req), claims.AccountID, key)
	if err != nil {
		return err
	}

	if res.AlreadyExisted {
		metrics.ArticleWritesTotal.WithLabelValues("replay").Inc()
		return c.JSON(http.StatusOK, toArticleResponse(*res.Article, h.labels))
	}
	metrics.ArticleWritesTotal.WithLabelValues("create").Inc()
	return c.JSON(http.StatusCreated, toArticleResponse(*res.Article, h.labels))
}

// Update handles PUT /news-articles/:id. The tag set is replaced as a whole.
//
// @Summary      Update a news article
// @Tags         news-articles
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int             true  "Article id"
// @Param        body  body      articleRequest  true  "Article"
// @Success      200   {object}  articleResponse
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /news-articles/{id} [put]
func (h *ArticleHandler) Update(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req articleRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	article, err := h.articles.Update(c.Request().Context(), id, toArticleInput(req), claims.AccountID)
	if err != nil {
		return err
	}
	metrics.ArticleWritesTotal.WithLabelValues("update").Inc()
	return c.JSON(http.StatusOK, toArticleResponse(*article, h.labels))
}

// Delete handles DELETE /news-articles/:id.
//
// @Summary      Delete a news article
// @Tags         news-articles
// @Security     BearerAuth
// @Param        id   path  int  true  "Article id"
// @Success      204
// @Failure      404  {object}  errorResponse
// @Router       /news-articles/{id} [delete]
func (h *ArticleHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.articles.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	metrics.ArticleWritesTotal.WithLabelValues("delete").Inc()
	return c.NoContent(http.StatusNoContent)
}

// Report handles GET /news-articles/report.
//
// @Summary      Article statistics for a date range
// @Tags         news-articles
// @Produce      json
// @Security     BearerAuth
// @Param        startDate  query     string  true  "YYYY-MM-DD or RFC 3339"
// @Param        endDate    query     string  true  "YYYY-MM-DD or RFC 3339"
// @Success      200        {object}  reportResponse
// @Failure      400        {object}  errorResponse
// @Failure      403        {object}  errorResponse
// @Router       /news-articles/report [get]
func (h *ArticleHandler) Report(c echo.Context) error {
	start, err := parseReportDate(c.QueryParam("startDate"), false)
	if err != nil {
		return domain.NewValidationError("startDate", err.Error())
	}
	end, err := parseReportDate(c.QueryParam("endDate"), true)
	if err != nil {
		return domain.NewValidationError("endDate", err.Error())
	}

	timer := prometheus.NewTimer(metrics.ReportDuration)
	report, err := h.reports.Report(c.Request().Context(), start, end)
	timer.ObserveDuration()
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toReportResponse(report, h.labels))
}

type dateError string

func (e dateError) Error() string { return string(e) }

// parseReportDate accepts a calendar day or an RFC 3339 instant. A calendar
// day used as an end bound covers the whole day.
func parseReportDate(raw string, endOfDay bool) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, dateError("is required")
	}
	if d, err := time.ParseInLocation(dateLayout, raw, time.UTC); err == nil {
		if endOfDay {
			return d.Add(24*time.Hour - time.Nanosecond), nil
		}
		return d, nil
	}
	if t, err := time.Parse(time.RFC3339Nano, raw); err == nil {
		return t.UTC(), nil
	}
	return time.Time{}, dateError("must be YYYY-MM-DD or RFC 3339")
}
