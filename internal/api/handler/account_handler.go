package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/newsroom/news-management/internal/api/metrics"
	"github.com/newsroom/news-management/internal/core/domain"
	"github.com/newsroom/news-management/internal/core/ports"
)

// AccountHandler serves /accounts. Every route except Me is Admin-only.
type AccountHandler struct {
	service ports.AccountService
	labels  domain.RoleLabels
}

func NewAccountHandler(service ports.AccountService, labels domain.RoleLabels) *AccountHandler {
	return &AccountHandler{service: service, labels: labels}
}

// List handles GET /accounts and GET /accounts/search?q=.
//
// @Summary      List or search accounts
// @Tags         accounts
// @Produce      json
// @Security     BearerAuth
// @Param        q    query     string  false  "Substring of name or email"
// @Success      200  {array}   accountResponse
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Router       /accounts [get]
// @Router       /accounts/search [get]
func (h *AccountHandler) List(c echo.Context) error {
	accounts, err := h.service.List(c.Request().Context(), searchQuery(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toAccountResponses(accounts, h.labels))
}

// Get handles GET /accounts/:id.
//
// @Summary      Get an account
// @Tags         accounts
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Account id"
// @Success      200  {object}  accountResponse
// @Failure      404  {object}  errorResponse
// @Router       /accounts/{id} [get]
func (h *AccountHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	account, err := h.service.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toAccountResponse(*account, h.labels))
}

// Me handles GET /accounts/me: the caller's own profile.
//
// @Summary      Current account
// @Tags         accounts
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  accountResponse
// @Failure      401  {object}  errorResponse
// @Router       /accounts/me [get]
func (h *AccountHandler) Me(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}
	account, err := h.service.Get(c.Request().Context(), claims.AccountID)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return echo.NewHTTPError(http.StatusUnauthorized, "account no longer exists")
		}
		return err
	}
	return c.JSON(http.StatusOK, toAccountResponse(*account, h.labels))
}

// Create handles POST /accounts.
//
// @Summary      Create an account
// @Tags         accounts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      accountRequest  true  "Account"
// @Success      201   {object}  accountResponse
// @Failure      400   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /accounts [post]
func (h *AccountHandler) Create(c echo.Context) error {
	var req accountRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	account, err := h.service.Create(c.Request().Context(), toAccountInput(req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toAccountResponse(*account, h.labels))
}

// Update handles PUT /accounts/:id. An empty password keeps the current one.
//
// @Summary      Update an account
// @Tags         accounts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int             true  "Account id"
// @Param        body  body      accountRequest  true  "Account"
// @Success      200   {object}  accountResponse
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /accounts/{id} [put]
func (h *AccountHandler) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req accountRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	account, err := h.service.Update(c.Request().Context(), id, toAccountInput(req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toAccountResponse(*account, h.labels))
}

// Delete handles DELETE /accounts/:id.
//
// @Summary      Delete an account
// @Tags         accounts
// @Security     BearerAuth
// @Param        id   path  int  true  "Account id"
// @Success      204
// @Failure      404  {object}  errorResponse
// @Failure      409  {object}  errorResponse  "account has created news articles"
// @Router       /accounts/{id} [delete]
func (h *AccountHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.Request().Context(), id); err != nil {
		if errors.Is(err, domain.ErrBlocked) {
			metrics.DeletesBlockedTotal.WithLabelValues("account").Inc()
		}
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// CanDelete handles GET /accounts/:id/can-delete.
//
// @Summary      Check whether an account can be deleted
// @Tags         accounts
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Account id"
// @Success      200  {object}  canDeleteResponse
// @Failure      404  {object}  errorResponse
// @Router       /accounts/{id}/can-delete [get]
func (h *AccountHandler) CanDelete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	ok, err := h.service.CanDelete(c.Request().Context(), id)
	if err != nil {
		return err
	}
	resp := canDeleteResponse{CanDelete: ok}
	if !ok {
		resp.Reason = domain.ReasonAccountHasArticles
	}
	return c.JSON(http.StatusOK, resp)
}

// searchQuery reads ?q= falling back to ?search=.
func searchQuery(c echo.Context) string {
	if q := c.QueryParam("q"); q != "" {
		return q
	}
	return c.QueryParam("search")
}
