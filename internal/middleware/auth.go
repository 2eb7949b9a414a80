package middleware

import (
	"net/http"
	"strings"

	"github.com/GrabRush/grabrush-app/pkg/jwtutil"
	"github.com/GrabRush/grabrush-app/pkg/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// RequireVendor validates the bearer token and requires the vendor role.
// The vendor's ID is stored in the context for ownership scoping.
func RequireVendor(next echo.HandlerFunc) echo.HandlerFunc {
	return requireRole(jwtutil.RoleVendor, "vendor_id", next)
}

// RequireCustomer validates the bearer token and requires the customer role
func RequireCustomer(next echo.HandlerFunc) echo.HandlerFunc {
	return requireRole(jwtutil.RoleCustomer, "user_id", next)
}

func requireRole(role, ctxKey string, next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		log := logger.FromContext(c)

		// Get the Authorization header
		authHeader := c.Request().Header.Get("Authorization")
		if authHeader == "" {
			log.Warn("Missing Authorization header")
			return c.JSON(http.StatusUnauthorized, echo.Map{"success": false, "error": "missing authorization token"})
		}

		// Check if it's a Bearer token
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			log.Warn("Invalid Authorization header format")
			return c.JSON(http.StatusUnauthorized, echo.Map{"success": false, "error": "invalid authorization format, expected Bearer token"})
		}

		// Validate the token
		claims, err := jwtutil.ValidateToken(parts[1])
		if err != nil {
			log.Error("Invalid JWT token", zap.Error(err))
			return c.JSON(http.StatusUnauthorized, echo.Map{"success": false, "error": "invalid or expired token"})
		}

		if claims.Role != role {
			log.Warn("Role mismatch",
				zap.String("required", role),
				zap.String("actual", claims.Role))
			return c.JSON(http.StatusForbidden, echo.Map{"success": false, "error": role + " authentication required"})
		}

		// Store actor info in context for later use
		c.Set(ctxKey, claims.UserID)
		c.Set("email", claims.Email)
		c.Set("role", claims.Role)

		return next(c)
	}
}

// GetVendorIDFromContext retrieves the authenticated vendor ID from the context.
// Returns 0, false if no vendor is authenticated.
func GetVendorIDFromContext(c echo.Context) (uint, bool) {
	vendorID, ok := c.Get("vendor_id").(uint)
	return vendorID, ok
}

// GetUserIDFromContext retrieves the authenticated customer ID from the context
func GetUserIDFromContext(c echo.Context) (uint, bool) {
	userID, ok := c.Get("user_id").(uint)
	return userID, ok
}
