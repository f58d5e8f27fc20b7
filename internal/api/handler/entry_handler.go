package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/finansys/finansys-api/internal/core/domain"
	"github.com/finansys/finansys-api/internal/core/ports"
)

// EntryHandler handles HTTP requests for financial entries.
type EntryHandler struct {
	service ports.EntryService
}

func NewEntryHandler(service ports.EntryService) *EntryHandler {
	return &EntryHandler{service: service}
}

// Create handles POST /entries.
//
// @Summary      Create an entry
// @Tags         entries
// @Accept       json
// @Produce      json
// @Param        body  body      entryRequest  true  "Entry details"
// @Success      201   {object}  entryResponse
// @Failure      400   {object}  messageResponse
// @Failure      404   {object}  messageResponse
// @Router       /entries [post]
func (h *EntryHandler) Create(c echo.Context) error {
	input, err := h.bindEntry(c)
	if err != nil {
		return err
	}

	detail, err := h.service.Create(c.Request().Context(), ctxActor(c), *input)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toEntryResponse(detail))
}

// Get handles GET /entries/:id.
//
// @Summary      Get an entry by id
// @Tags         entries
// @Produce      json
// @Param        id   path      int  true  "Entry id"
// @Success      200  {object}  entryResponse
// @Failure      404  {object}  messageResponse
// @Router       /entries/{id} [get]
func (h *EntryHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	detail, err := h.service.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toEntryResponse(detail))
}

// GetAll handles GET /entries, newest accounting date first.
//
// @Summary      List all entries
// @Tags         entries
// @Produce      json
// @Success      200  {array}  entryResponse
// @Router       /entries [get]
func (h *EntryHandler) GetAll(c echo.Context) error {
	details, err := h.service.GetAll(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toEntryResponses(details))
}

// GetPaginated handles GET /entries/paginated.
//
// @Summary      List entries with pagination
// @Tags         entries
// @Produce      json
// @Param        page     query     int     false  "Page (1-based)"  default(1)
// @Param        size     query     int     false  "Page size"       default(10)
// @Param        sortBy   query     string  false  "Sort field"      default(date)
// @Param        sortDir  query     string  false  "asc or desc"     default(desc)
// @Success      200      {object}  entryPageResponse
// @Router       /entries/paginated [get]
func (h *EntryHandler) GetPaginated(c echo.Context) error {
	page := queryInt(c, "page", 1)
	size := queryInt(c, "size", 10)
	sortBy := queryString(c, "sortBy", "date")
	sortDir := queryString(c, "sortDir", "desc")

	result, err := h.service.GetPaginated(c.Request().Context(), page, size, sortBy, sortDir)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, entryPageResponse{
		Items:      toEntryResponses(result.Items),
		Total:      result.Total,
		Page:       result.Page,
		Limit:      result.Limit,
		TotalPages: result.TotalPages,
	})
}

// GetByCategory handles GET /entries/category/:categoryId.
//
// @Summary      List entries in a category
// @Tags         entries
// @Produce      json
// @Param        categoryId  path      int  true  "Category id"
// @Success      200         {array}   entryResponse
// @Failure      404         {object}  messageResponse
// @Router       /entries/category/{categoryId} [get]
func (h *EntryHandler) GetByCategory(c echo.Context) error {
	categoryID, err := pathID(c, "categoryId")
	if err != nil {
		return err
	}

	details, err := h.service.GetByCategory(c.Request().Context(), categoryID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toEntryResponses(details))
}

// GetByType handles GET /entries/type/:type.
//
// @Summary      List entries of one type
// @Tags         entries
// @Produce      json
// @Param        type  path      string  true  "revenue or expense"
// @Success      200   {array}   entryResponse
// @Failure      400   {object}  messageResponse
// @Router       /entries/type/{type} [get]
func (h *EntryHandler) GetByType(c echo.Context) error {
	t := domain.EntryType(c.Param("type"))
	if !t.Valid() {
		return echo.NewHTTPError(http.StatusBadRequest, "type must be revenue or expense")
	}

	details, err := h.service.GetByType(c.Request().Context(), t)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toEntryResponses(details))
}

// GetByPaidStatus handles GET /entries/paid/:paid.
//
// @Summary      List entries by paid status
// @Tags         entries
// @Produce      json
// @Param        paid  path      bool  true  "Paid flag"
// @Success      200   {array}   entryResponse
// @Router       /entries/paid/{paid} [get]
func (h *EntryHandler) GetByPaidStatus(c echo.Context) error {
	paid, err := strconv.ParseBool(c.Param("paid"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid paid flag")
	}

	details, err := h.service.GetByPaidStatus(c.Request().Context(), paid)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toEntryResponses(details))
}

// GetByDateRange handles GET /entries/date-range?start=&end=.
//
// @Summary      List entries in a date range
// @Tags         entries
// @Produce      json
// @Param        start  query     string  true  "Start date (YYYY-MM-DD)"
// @Param        end    query     string  true  "End date (YYYY-MM-DD)"
// @Success      200    {array}   entryResponse
// @Failure      400    {object}  messageResponse
// @Router       /entries/date-range [get]
func (h *EntryHandler) GetByDateRange(c echo.Context) error {
	from, to, err := queryDateRange(c)
	if err != nil {
		return err
	}

	details, err := h.service.GetByDateRange(c.Request().Context(), from, to)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toEntryResponses(details))
}

// Update handles PUT /entries/:id.
//
// @Summary      Update an entry
// @Tags         entries
// @Accept       json
// @Produce      json
// @Param        id    path      int           true  "Entry id"
// @Param        body  body      entryRequest  true  "Entry details"
// @Success      200   {object}  entryResponse
// @Failure      404   {object}  messageResponse
// @Router       /entries/{id} [put]
func (h *EntryHandler) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	input, err := h.bindEntry(c)
	if err != nil {
		return err
	}

	detail, err := h.service.Update(c.Request().Context(), ctxActor(c), id, *input)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toEntryResponse(detail))
}

// UpdatePaidStatus handles PATCH /entries/:id/paid?paid=.
//
// @Summary      Set an entry's paid flag
// @Tags         entries
// @Produce      json
// @Param        id    path      int   true  "Entry id"
// @Param        paid  query     bool  true  "New paid flag"
// @Success      200   {object}  entryResponse
// @Failure      404   {object}  messageResponse
// @Router       /entries/{id}/paid [patch]
func (h *EntryHandler) UpdatePaidStatus(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	paid, err := strconv.ParseBool(c.QueryParam("paid"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid paid flag")
	}

	detail, err := h.service.UpdatePaidStatus(c.Request().Context(), ctxActor(c), id, paid)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toEntryResponse(detail))
}

// Delete handles DELETE /entries/:id.
//
// @Summary      Delete an entry
// @Tags         entries
// @Produce      json
// @Param        id   path  int  true  "Entry id"
// @Success      204  "deleted"
// @Failure      404  {object}  messageResponse
// @Router       /entries/{id} [delete]
func (h *EntryHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.Request().Context(), ctxActor(c), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// TotalByType handles GET /entries/total/type/:type (paid entries only).
//
// @Summary      Sum paid entries of one type
// @Tags         entries
// @Produce      json
// @Param        type  path      string  true  "revenue or expense"
// @Success      200   {object}  totalResponse
// @Router       /entries/total/type/{type} [get]
func (h *EntryHandler) TotalByType(c echo.Context) error {
	t := domain.EntryType(c.Param("type"))
	if !t.Valid() {
		return echo.NewHTTPError(http.StatusBadRequest, "type must be revenue or expense")
	}

	total, err := h.service.TotalByType(c.Request().Context(), t)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, totalResponse{Total: total})
}

// TotalByCategory handles GET /entries/total/category/:categoryId.
//
// @Summary      Sum paid entries in a category
// @Tags         entries
// @Produce      json
// @Param        categoryId  path      int  true  "Category id"
// @Success      200         {object}  totalResponse
// @Failure      404         {object}  messageResponse
// @Router       /entries/total/category/{categoryId} [get]
func (h *EntryHandler) TotalByCategory(c echo.Context) error {
	categoryID, err := pathID(c, "categoryId")
	if err != nil {
		return err
	}

	total, err := h.service.TotalByCategory(c.Request().Context(), categoryID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, totalResponse{Total: total})
}

// Summary handles GET /entries/summary?start=&end=.
//
// @Summary      Revenue/expense/balance over a period
// @Tags         entries
// @Produce      json
// @Param        start  query     string  true  "Start date (YYYY-MM-DD)"
// @Param        end    query     string  true  "End date (YYYY-MM-DD)"
// @Success      200    {object}  summaryResponse
// @Failure      400    {object}  messageResponse
// @Router       /entries/summary [get]
func (h *EntryHandler) Summary(c echo.Context) error {
	from, to, err := queryDateRange(c)
	if err != nil {
		return err
	}

	summary, err := h.service.Summary(c.Request().Context(), from, to)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, summaryResponse{
		From:    summary.From.Format(dateLayout),
		To:      summary.To.Format(dateLayout),
		Revenue: summary.Revenue,
		Expense: summary.Expense,
		Balance: summary.Balance,
	})
}

// Count handles GET /entries/count.
//
// @Summary      Count entries
// @Tags         entries
// @Produce      json
// @Success      200  {object}  countResponse
// @Router       /entries/count [get]
func (h *EntryHandler) Count(c echo.Context) error {
	n, err := h.service.Count(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, countResponse{Count: n})
}

func (h *EntryHandler) bindEntry(c echo.Context) (*ports.EntryInput, error) {
	var req entryRequest
	if err := c.Bind(&req); err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	date, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "date must be YYYY-MM-DD")
	}

	return &ports.EntryInput{
		Name:        req.Name,
		Description: req.Description,
		Type:        domain.EntryType(req.Type),
		Amount:      req.Amount,
		Date:        date,
		Paid:        req.Paid,
		CategoryID:  req.CategoryID,
	}, nil
}

func queryDateRange(c echo.Context) (time.Time, time.Time, error) {
	from, err := time.Parse(dateLayout, c.QueryParam("start"))
	if err != nil {
		return time.Time{}, time.Time{}, echo.NewHTTPError(http.StatusBadRequest, "start must be YYYY-MM-DD")
	}
	to, err := time.Parse(dateLayout, c.QueryParam("end"))
	if err != nil {
		return time.Time{}, time.Time{}, echo.NewHTTPError(http.StatusBadRequest, "end must be YYYY-MM-DD")
	}
	if to.Before(from) {
		return time.Time{}, time.Time{}, echo.NewHTTPError(http.StatusBadRequest, "end must not be before start")
	}
	return from, to, nil
}

func toEntryResponse(d *ports.EntryDetail) entryResponse {
	return entryResponse{
		ID:           d.ID,
		Name:         d.Name,
		Description:  d.Description,
		Type:         string(d.Type),
		Amount:       d.Amount,
		Date:         d.Date.Format(dateLayout),
		Paid:         d.Paid,
		CategoryID:   d.CategoryID,
		CategoryName: d.CategoryName,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
}

func toEntryResponses(details []ports.EntryDetail) []entryResponse {
	out := make([]entryResponse, 0, len(details))
	for i := range details {
		out = append(out, toEntryResponse(&details[i]))
	}
	return out
}
