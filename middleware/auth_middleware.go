// middleware/auth_middleware.go
package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/earnease/earnease_backend/models"
)

// RequireRole checks if the authenticated user carries one of the allowed
// role claims. Settlement and activation require "admin" or "superadmin";
// role management requires "superadmin".
func RequireRole(allowedRoles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, _ := c.Get("role").(string)

			if role == "" {
				return c.JSON(http.StatusUnauthorized, models.Response{
					Status:  http.StatusUnauthorized,
					Message: "Authentication failed: role not found",
				})
			}

			for _, allowed := range allowedRoles {
				if role == allowed {
					return next(c)
				}
			}

			c.Logger().Errorf("Access denied for role: %s, allowed roles: %v", role, allowedRoles)
			return c.JSON(http.StatusForbidden, models.Response{
				Status:  http.StatusForbidden,
				Message: "Access denied for your role",
			})
		}
	}
}

// RequireAdmin gates settlement and activation operations.
func RequireAdmin() echo.MiddlewareFunc {
	return RequireRole(models.RoleAdmin, models.RoleSuperadmin)
}

// RequireSuperadmin gates CEO-level operations.
func RequireSuperadmin() echo.MiddlewareFunc {
	return RequireRole(models.RoleSuperadmin)
}
