package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/learnhub/course-marketplace/internal/core/domain"
)

// UserFinder loads the account behind a token.
type UserFinder interface {
	FindByID(ctx context.Context, id int64) (*domain.User, error)
}

// LoadUser resolves the user_id claim set by Auth into the current
// domain.User. Unknown and deactivated accounts are rejected with 401.
func LoadUser(users UserFinder) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id, ok := c.Get(ContextUserID).(int64)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
			}

			user, err := users.FindByID(c.Request().Context(), id)
			if err != nil {
				if errors.Is(err, domain.ErrUserNotFound) {
					return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
				}
				return err
			}
			if !user.IsActive {
				return domain.ErrInactiveUser
			}

			c.Set(ContextUser, user)
			c.Set(ContextRole, user.Role())
			return next(c)
		}
	}
}

// CurrentUser returns the user stored by LoadUser, or nil.
func CurrentUser(c echo.Context) *domain.User {
	user, _ := c.Get(ContextUser).(*domain.User)
	return user
}
