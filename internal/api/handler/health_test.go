package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
)

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

func TestReadiness(t *testing.T) {
	ok := pingFunc(func(context.Context) error { return nil })
	down := pingFunc(func(context.Context) error { return errors.New("connection refused") })

	cases := []struct {
		name     string
		deps     map[string]Pinger
		wantCode int
		wantBody string
	}{
		{"no deps", nil, http.StatusOK, `"status":"ok"`},
		{"all up", map[string]Pinger{"redis": ok}, http.StatusOK, `"redis":{"status":"ok"}`},
		{"one down", map[string]Pinger{"redis": ok, "mongodb": down}, http.StatusServiceUnavailable, `"error":"connection refused"`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, rec := newJSONContext(http.MethodGet, "/health/ready", "")
			if err := NewReadinessHandler(tc.deps).Readiness(c); err != nil {
				t.Fatalf("handler error: %v", err)
			}
			if rec.Code != tc.wantCode {
				t.Fatalf("expected %d, got %d", tc.wantCode, rec.Code)
			}
			if !strings.Contains(rec.Body.String(), tc.wantBody) {
				t.Fatalf("expected %s in %s", tc.wantBody, rec.Body.String())
			}
		})
	}
}
