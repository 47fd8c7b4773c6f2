package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/learnhub/course-marketplace/internal/api/handler"
	"github.com/learnhub/course-marketplace/internal/core/domain"
)

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their HTTP status codes.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders the same envelope as successful responses, with status "error".
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := resolveError(err, log, c)
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, handler.ErrorBody(msg))
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		return http.StatusBadRequest, ve.Reason
	}

	// Known domain errors → deterministic HTTP codes.
	switch {
	case errors.Is(err, domain.ErrAlreadyPurchased):
		return http.StatusConflict, "Course already purchased"
	case errors.Is(err, domain.ErrPurchaseInProgress):
		return http.StatusConflict, "Purchase already in progress"
	case errors.Is(err, domain.ErrUsernameTaken):
		return http.StatusConflict, "Username already taken"
	case errors.Is(err, domain.ErrEmailTaken):
		return http.StatusConflict, "Email already registered"
	case errors.Is(err, domain.ErrUserExists):
		return http.StatusConflict, "User already exists"
	case errors.Is(err, domain.ErrInsufficientBalance):
		return http.StatusPaymentRequired, "Balance not enough"
	case errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound, "User not found"
	case errors.Is(err, domain.ErrCourseNotFound):
		return http.StatusNotFound, "Course not found"
	case errors.Is(err, domain.ErrModuleNotFound):
		return http.StatusNotFound, "Module not found"
	case errors.Is(err, domain.ErrCourseNotPurchased):
		return http.StatusForbidden, "Course not purchased"
	case errors.Is(err, domain.ErrCertificateUnavailable):
		return http.StatusForbidden, "Certificate not available"
	case errors.Is(err, domain.ErrAdminProtected):
		return http.StatusForbidden, "Administrator accounts cannot be modified"
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, "Access forbidden"
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, "Invalid username/email or password"
	case errors.Is(err, domain.ErrInactiveUser):
		return http.StatusUnauthorized, "Account is disabled"
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, "Internal server error"
}
