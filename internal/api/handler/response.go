package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/learnhub/course-marketplace/internal/core/domain"
	"github.com/learnhub/course-marketplace/internal/core/ports"
)

const (
	statusSuccess = "success"
	statusError   = "error"
)

// envelope is the body of every API response.
type envelope struct {
	Status     string      `json:"status"`
	Message    string      `json:"message"`
	Data       any         `json:"data"`
	Pagination *pagination `json:"pagination,omitempty"`
}

type pagination struct {
	CurrentPage int   `json:"current_page"`
	TotalPages  int   `json:"total_pages"`
	TotalItems  int64 `json:"total_items"`
}

// ErrorBody builds the error envelope. The central error handler uses it so
// failures and successes share one shape.
func ErrorBody(message string) any {
	return envelope{Status: statusError, Message: message}
}

func respond(c echo.Context, code int, message string, data any) error {
	return c.JSON(code, envelope{Status: statusSuccess, Message: message, Data: data})
}

// respondPage renders a list response. items is the page already mapped to
// its response type.
func respondPage[T any](c echo.Context, message string, page *ports.PageResult[T], items any) error {
	return c.JSON(http.StatusOK, envelope{
		Status:  statusSuccess,
		Message: message,
		Data:    items,
		Pagination: &pagination{
			CurrentPage: page.Page,
			TotalPages:  page.TotalPages,
			TotalItems:  page.Total,
		},
	})
}

// pageRequest reads q, page and limit from the query string. Missing or
// out-of-range numbers get the defaults applied by PageRequest.Normalize;
// non-numeric ones are a validation error.
func pageRequest(c echo.Context) (ports.PageRequest, error) {
	var page, limit int
	if err := echo.QueryParamsBinder(c).
		Int("page", &page).
		Int("limit", &limit).
		BindError(); err != nil {
		return ports.PageRequest{}, domain.NewValidationError("page and limit must be integers")
	}
	return ports.PageRequest{
		Query: strings.TrimSpace(c.QueryParam("q")),
		Page:  page,
		Limit: limit,
	}.Normalize(), nil
}
