package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/sirpyerre/admin-console/internal/core/domain"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Error string `json:"error"`
}

// statusFor lists the domain errors a client may see and their status codes.
// The sentinel message is returned verbatim.
var statusFor = []struct {
	err  error
	code int
}{
	{domain.ErrUserNotFound, http.StatusNotFound},
	{domain.ErrUsernameExists, http.StatusConflict},
	{domain.ErrEmailInUse, http.StatusConflict},
	{domain.ErrCannotDeleteSelf, http.StatusConflict},
	{domain.ErrInvalidUser, http.StatusBadRequest},
	{domain.ErrInvalidCredentials, http.StatusUnauthorized},
}

// NewHTTPErrorHandler renders every handler error as {"error": "<message>"}.
// Anything not listed in statusFor becomes a logged 500 with a generic message.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := classify(err)
		if code == http.StatusInternalServerError {
			ev := log.Error().Err(err).Str("method", c.Request().Method).Str("path", c.Path())
			if errors.Is(err, domain.ErrCorruptStorage) {
				ev = ev.Str("hint", "clear the affected slot to reset it")
			}
			ev.Msg("unhandled error")
		}

		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, errorResponse{Error: msg})
	}
}

func classify(err error) (int, string) {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprint(he.Message)
	}
	for _, m := range statusFor {
		if errors.Is(err, m.err) {
			return m.code, m.err.Error()
		}
	}
	return http.StatusInternalServerError, "internal server error"
}
