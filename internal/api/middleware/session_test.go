package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/sirpyerre/admin-console/internal/core/domain"
)

type stubSessions struct {
	user *domain.User
	err  error
}

func (s stubSessions) CurrentUser(context.Context) (*domain.User, error) {
	return s.user, s.err
}

func newContext() (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestSession_InjectsUser(t *testing.T) {
	c, rec := newContext()
	admin := &domain.User{ID: "1", Username: "admin", Level: domain.LevelAdmin}

	handler := Session(stubSessions{user: admin})(func(c echo.Context) error {
		if got, _ := c.Get(UserKey).(*domain.User); got != admin {
			t.Fatalf("expected session user in context, got %v", got)
		}
		if got, _ := c.Get(LevelKey).(domain.Level); got != domain.LevelAdmin {
			t.Fatalf("expected admin level, got %q", got)
		}
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestSession_NoSession(t *testing.T) {
	c, _ := newContext()

	handler := Session(stubSessions{})(func(c echo.Context) error {
		t.Fatalf("should not reach next handler")
		return nil
	})

	err := handler(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 HTTPError, got %v", err)
	}
}

func TestSession_StorageError(t *testing.T) {
	c, _ := newContext()
	boom := errors.New("redis down")

	handler := Session(stubSessions{err: boom})(func(c echo.Context) error {
		t.Fatalf("should not reach next handler")
		return nil
	})

	if err := handler(c); !errors.Is(err, boom) {
		t.Fatalf("expected storage error to propagate, got %v", err)
	}
}
