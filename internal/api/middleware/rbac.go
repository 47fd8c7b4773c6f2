package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/learnhub/course-marketplace/internal/core/domain"
)

// RBAC enforces role-based access control.
func RBAC(allowedRoles ...string) echo.MiddlewareFunc {
	return rbac("forbidden", allowedRoles...)
}

// AdminOnly restricts a route to administrators.
func AdminOnly() echo.MiddlewareFunc {
	return rbac("Admin only", domain.RoleAdmin)
}

func rbac(message string, allowedRoles ...string) echo.MiddlewareFunc {
	allowed := make(map[string]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if _, ok := allowed[roleOf(c)]; !ok {
				return c.JSON(http.StatusForbidden, map[string]any{
					"status":  "error",
					"message": message,
					"data":    nil,
				})
			}
			return next(c)
		}
	}
}

// roleOf prefers the role of the loaded user, so a demoted account loses
// access before its token expires.
func roleOf(c echo.Context) string {
	if user := CurrentUser(c); user != nil {
		return user.Role()
	}
	role, _ := c.Get(ContextRole).(string)
	return role
}
