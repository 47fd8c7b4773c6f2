package handler

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/learnhub/course-marketplace/internal/api/middleware"
	"github.com/learnhub/course-marketplace/internal/core/domain"
	"github.com/learnhub/course-marketplace/internal/core/ports"
)

// currentUser returns the user loaded by middleware.LoadUser. A missing user
// means the route was registered without authentication.
func currentUser(c echo.Context) (*domain.User, error) {
	user := middleware.CurrentUser(c)
	if user == nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return user, nil
}

// uuidParam parses a path parameter. Malformed ids are reported as notFound,
// the same as ids that match no row.
func uuidParam(c echo.Context, name string, notFound error) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, notFound
	}
	return id, nil
}

// userIDParam parses the :id path parameter. Malformed and non-positive ids
// are reported as ErrUserNotFound.
func userIDParam(c echo.Context) (int64, error) {
	var id int64
	if err := echo.PathParamsBinder(c).Int64("id", &id).BindError(); err != nil || id <= 0 {
		return 0, domain.ErrUserNotFound
	}
	return id, nil
}

// ensureCourseAccess lets administrators and purchasers of the course through.
func ensureCourseAccess(ctx context.Context, purchases ports.PurchaseService, user *domain.User, courseID uuid.UUID) error {
	if user.IsAdministrator {
		return nil
	}
	owned, err := purchases.HasPurchased(ctx, user, courseID)
	if err != nil {
		return err
	}
	if !owned {
		return domain.ErrCourseNotPurchased
	}
	return nil
}
