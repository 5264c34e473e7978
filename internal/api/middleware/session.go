package middleware

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sirpyerre/admin-console/internal/core/domain"
)

// Context keys set by Session.
const (
	UserKey  = "user"
	LevelKey = "level"
)

// SessionReader resolves the console session.
type SessionReader interface {
	CurrentUser(ctx context.Context) (*domain.User, error)
}

// Session rejects requests while no operator is logged in and injects the
// session user and its level into the context.
func Session(sessions SessionReader) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user, err := sessions.CurrentUser(c.Request().Context())
			if err != nil {
				return err
			}
			if user == nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "not authenticated")
			}

			c.Set(UserKey, user)
			c.Set(LevelKey, user.Level)

			return next(c)
		}
	}
}
