package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/finansys/finansys-api/internal/core/ports"
)

// CategoryHandler handles HTTP requests for category operations. Domain
// errors propagate to the central error handler.
type CategoryHandler struct {
	service ports.CategoryService
}

func NewCategoryHandler(service ports.CategoryService) *CategoryHandler {
	return &CategoryHandler{service: service}
}

// Create handles POST /categories.
//
// @Summary      Create a category
// @Tags         categories
// @Accept       json
// @Produce      json
// @Param        body  body      categoryRequest  true  "Category details"
// @Success      201   {object}  categoryResponse
// @Failure      400   {object}  messageResponse
// @Failure      409   {object}  messageResponse
// @Router       /categories [post]
func (h *CategoryHandler) Create(c echo.Context) error {
	var req categoryRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, message("invalid payload", false))
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, message(err.Error(), false))
	}

	detail, err := h.service.Create(c.Request().Context(), ports.CategoryInput{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toCategoryResponse(detail))
}

// Get handles GET /categories/:id.
//
// @Summary      Get a category by id
// @Tags         categories
// @Produce      json
// @Param        id   path      int  true  "Category id"
// @Success      200  {object}  categoryResponse
// @Failure      404  {object}  messageResponse
// @Router       /categories/{id} [get]
func (h *CategoryHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	detail, err := h.service.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toCategoryResponse(detail))
}

// GetAll handles GET /categories, sorted by name ascending.
//
// @Summary      List all categories
// @Tags         categories
// @Produce      json
// @Success      200  {array}  categoryResponse
// @Router       /categories [get]
func (h *CategoryHandler) GetAll(c echo.Context) error {
	details, err := h.service.GetAll(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toCategoryResponses(details))
}

// GetPaginated handles GET /categories/paginated.
//
// @Summary      List categories with pagination
// @Tags         categories
// @Produce      json
// @Param        page     query     int     false  "Page (1-based)"   default(1)
// @Param        size     query     int     false  "Page size"        default(10)
// @Param        sortBy   query     string  false  "Sort field"       default(name)
// @Param        sortDir  query     string  false  "asc or desc"      default(asc)
// @Success      200      {object}  categoryPageResponse
// @Router       /categories/paginated [get]
func (h *CategoryHandler) GetPaginated(c echo.Context) error {
	page := queryInt(c, "page", 1)
	size := queryInt(c, "size", 10)
	sortBy := queryString(c, "sortBy", "name")
	sortDir := queryString(c, "sortDir", "asc")

	result, err := h.service.GetPaginated(c.Request().Context(), page, size, sortBy, sortDir)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, categoryPageResponse{
		Items:      toCategoryResponses(result.Items),
		Total:      result.Total,
		Page:       result.Page,
		Limit:      result.Limit,
		TotalPages: result.TotalPages,
	})
}

// Search handles GET /categories/search?term=.
//
// @Summary      Search categories by name or description substring
// @Tags         categories
// @Produce      json
// @Param        term  query     string  true  "Search term"
// @Success      200   {array}   categoryResponse
// @Router       /categories/search [get]
func (h *CategoryHandler) Search(c echo.Context) error {
	details, err := h.service.Search(c.Request().Context(), c.QueryParam("term"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toCategoryResponses(details))
}

// Update handles PUT /categories/:id.
//
// @Summary      Update a category
// @Tags         categories
// @Accept       json
// @Produce      json
// @Param        id    path      int              true  "Category id"
// @Param        body  body      categoryRequest  true  "Category details"
// @Success      200   {object}  categoryResponse
// @Failure      404   {object}  messageResponse
// @Failure      409   {object}  messageResponse
// @Router       /categories/{id} [put]
func (h *CategoryHandler) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	var req categoryRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, message("invalid payload", false))
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, message(err.Error(), false))
	}

	detail, err := h.service.Update(c.Request().Context(), id, ports.CategoryInput{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toCategoryResponse(detail))
}

// Delete handles DELETE /categories/:id.
//
// @Summary      Delete a category
// @Tags         categories
// @Produce      json
// @Param        id   path  int  true  "Category id"
// @Success      204  "deleted"
// @Failure      404  {object}  messageResponse
// @Failure      409  {object}  messageResponse
// @Router       /categories/{id} [delete]
func (h *CategoryHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Count handles GET /categories/count.
//
// @Summary      Count categories
// @Tags         categories
// @Produce      json
// @Success      200  {object}  countResponse
// @Router       /categories/count [get]
func (h *CategoryHandler) Count(c echo.Context) error {
	n, err := h.service.Count(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, countResponse{Count: n})
}

func toCategoryResponse(d *ports.CategoryDetail) categoryResponse {
	return categoryResponse{
		ID:          d.ID,
		Name:        d.Name,
		Description: d.Description,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
		EntryCount:  d.EntryCount,
	}
}

func toCategoryResponses(details []ports.CategoryDetail) []categoryResponse {
	out := make([]categoryResponse, 0, len(details))
	for i := range details {
		out = append(out, toCategoryResponse(&details[i]))
	}
	return out
}

// pathID parses a numeric path parameter, failing with a 400 the central
// error handler renders.
func pathID(c echo.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid "+name)
	}
	return id, nil
}

func queryInt(c echo.Context, name string, fallback int) int {
	v := c.QueryParam(name)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func queryString(c echo.Context, name, fallback string) string {
	if v := c.QueryParam(name); v != "" {
		return v
	}
	return fallback
}
