package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/newsroom/news-management/internal/api/metrics"
	"github.com/newsroom/news-management/internal/core/domain"
	"github.com/newsroom/news-management/internal/core/ports"
)

type CategoryHandler struct {
	service ports.CategoryService
}

func NewCategoryHandler(service ports.CategoryService) *CategoryHandler {
	return &CategoryHandler{service: service}
}

// List handles GET /categories and GET /categories/search?q=.
//
// @Summary      List or search categories
// @Tags         categories
// @Produce      json
// @Security     BearerAuth
// @Param        q    query     string  false  "Substring of name or description"
// @Success      200  {array}   categoryResponse
// @Router       /categories [get]
// @Router       /categories/search [get]
func (h *CategoryHandler) List(c echo.Context) error {
	categories, err := h.service.List(c.Request().Context(), searchQuery(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toCategoryResponses(categories))
}

// Get handles GET /categories/:id.
//
// @Summary      Get a category
// @Tags         categories
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Category id"
// @Success      200  {object}  categoryResponse
// @Failure      404  {object}  errorResponse
// @Router       /categories/{id} [get]
func (h *CategoryHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	category, err := h.service.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toCategoryResponse(*category))
}

// Create handles POST /categories.
//
// @Summary      Create a category
// @Tags         categories
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      categoryRequest  true  "Category"
// @Success      201   {object}  categoryResponse
// @Failure      400   {object}  errorResponse
// @Router       /categories [post]
func (h *CategoryHandler) Create(c echo.Context) error {
	var req categoryRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	category, err := h.service.Create(c.Request().Context(), toCategoryInput(req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toCategoryResponse(*category))
}

// Update handles PUT /categories/:id.
//
// @Summary      Update a category
// @Tags         categories
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int              true  "Category id"
// @Param        body  body      categoryRequest  true  "Category"
// @Success      200   {object}  categoryResponse
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /categories/{id} [put]
func (h *CategoryHandler) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req categoryRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	category, err := h.service.Update(c.Request().Context(), id, toCategoryInput(req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toCategoryResponse(*category))
}

// Delete handles DELETE /categories/:id.
//
// @Summary      Delete a category
// @Tags         categories
// @Security     BearerAuth
// @Param        id   path  int  true  "Category id"
// @Success      204
// @Failure      404  {object}  errorResponse
// @Failure      409  {object}  errorResponse  "category is used by news articles"
// @Router       /categories/{id} [delete]
func (h *CategoryHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.Request().Context(), id); err != nil {
		if errors.Is(err, domain.ErrBlocked) {
			metrics.DeletesBlockedTotal.WithLabelValues("category").Inc()
		}
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// CanDelete handles GET /categories/:id/can-delete.
//
// @Summary      Check whether a category can be deleted
// @Tags         categories
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Category id"
// @Success      200  {object}  canDeleteResponse
// @Failure      404  {object}  errorResponse
// @Router       /categories/{id}/can-delete [get]
func (h *CategoryHandler) CanDelete(c echo.Context) error {
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
		resp.Reason = domain.ReasonCategoryInUse
	}
	return c.JSON(http.StatusOK, resp)
}
