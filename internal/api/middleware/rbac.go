package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sirpyerre/admin-console/internal/core/domain"
)

// RBAC lets the request through only when the session level is one of allowed.
// It must run after Session.
func RBAC(allowed ...domain.Level) echo.MiddlewareFunc {
	set := make(map[domain.Level]struct{}, len(allowed))
	for _, l := range allowed {
		set[l] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			level, _ := c.Get(LevelKey).(domain.Level)
			if _, ok := set[level]; !ok {
				return c.JSON(http.StatusForbidden, map[string]string{"error": "insufficient access level"})
			}
			return next(c)
		}
	}
}
