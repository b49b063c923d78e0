package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// RequireRole aborts the request with 403 unless the authenticated
// principal holds one of the allowed roles. It assumes JWTAuth ran
// earlier and stored the role in the context; the check fires before
// any resource lookup, so non-admins get 403 on /admin/* regardless of
// whether the resource exists.
func RequireRole(roles ...string) echo.MiddlewareFunc {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, ok := c.Get(CtxRole).(string)
			if !ok || !allowed[role] {
				return c.JSON(http.StatusForbidden, echo.Map{"success": false, "message": "Unauthorized. Admin access required."})
			}
			return next(c)
		}
	}
}
