package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/newsroom/news-management/internal/core/ports"
)

type TagHandler struct {
	service ports.TagService
}

func NewTagHandler(service ports.TagService) *TagHandler {
	return &TagHandler{service: service}
}

// List handles GET /tags and GET /tags/search?q=.
//
// @Summary      List or search tags
// @Tags         tags
// @Produce      json
// @Security     BearerAuth
// @Param        q    query     string  false  "Substring of name or note"
// @Success      200  {array}   tagResponse
// @Router       /tags [get]
// @Router       /tags/search [get]
func (h *TagHandler) List(c echo.Context) error {
	tags, err := h.service.List(c.Request().Context(), searchQuery(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toTagResponses(tags))
}

// Get handles GET /tags/:id.
//
// @Summary      Get a tag
// @Tags         tags
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Tag id"
// @Success      200  {object}  tagResponse
// @Failure      404  {object}  errorResponse
// @Router       /tags/{id} [get]
func (h *TagHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	tag, err := h.service.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toTagResponse(*tag))
}

// Create handles POST /tags.
//
// @Summary      Create a tag
// @Tags         tags
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      tagRequest  true  "Tag"
// @Success      201   {object}  tagResponse
// @Failure      400   {object}  errorResponse
// @Router       /tags [post]
func (h *TagHandler) Create(c echo.Context) error {
	var req tagRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	tag, err := h.service.Create(c.Request().Context(), toTagInput(req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toTagResponse(*tag))
}

// Update handles PUT /tags/:id.
//
// @Summary      Update a tag
// @Tags         tags
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int         true  "Tag id"
// @Param        body  body      tagRequest  true  "Tag"
// @Success      200   {object}  tagResponse
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /tags/{id} [put]
func (h *TagHandler) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req tagRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	tag, err := h.service.Update(c.Request().Context(), id, toTagInput(req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toTagResponse(*tag))
}

// Delete handles DELETE /tags/:id. Article links are removed with the tag.
//
// @Summary      Delete a tag
// @Tags         tags
// @Security     BearerAuth
// @Param        id   path  int  true  "Tag id"
// @Success      204
// @Failure      404  {object}  errorResponse
// @Router       /tags/{id} [delete]
func (h *TagHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
