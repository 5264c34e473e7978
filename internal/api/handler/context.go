package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sirpyerre/admin-console/internal/api/middleware"
	"github.com/sirpyerre/admin-console/internal/core/domain"
)

// ctxUser returns the session user injected by the Session middleware. A
// missing user means the route was mounted without it.
func ctxUser(c echo.Context) (*domain.User, error) {
	u, _ := c.Get(middleware.UserKey).(*domain.User)
	if u == nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "not authenticated")
	}
	return u, nil
}

// bindValid binds the request body into req and runs the registered validator.
func bindValid(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if c.Echo().Validator == nil {
		return nil
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}

// parseLevel turns an optional level string into a domain.Level.
func parseLevel(s string) (domain.Level, error) {
	lvl, ok := domain.ParseLevel(s)
	if !ok {
		return "", echo.NewHTTPError(http.StatusBadRequest, "level must be one of: admin, gerente, user")
	}
	return lvl, nil
}
