package handler

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
)

const readinessTimeout = 3 * time.Second

// HealthHandler serves the liveness probe. It answers as long as the process runs.
type HealthHandler struct{}

func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

func (h *HealthHandler) Liveness(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// Pinger is a backend the readiness probe can reach.
type Pinger interface {
	Ping(ctx context.Context) error
}

// ReadinessHandler pings every registered backend concurrently and reports
// 503 when any of them fails.
type ReadinessHandler struct {
	deps map[string]Pinger
}

func NewReadinessHandler(deps map[string]Pinger) *ReadinessHandler {
	return &ReadinessHandler{deps: deps}
}

type dependencyStatus struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

type readinessResponse struct {
	Status       string                      `json:"status"`
	Dependencies map[string]dependencyStatus `json:"dependencies"`
}

func (h *ReadinessHandler) Readiness(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), readinessTimeout)
	defer cancel()

	var (
		mu   sync.Mutex
		wg   sync.WaitGroup
		resp = readinessResponse{Status: "ok", Dependencies: make(map[string]dependencyStatus, len(h.deps))}
	)
	for name, dep := range h.deps {
		wg.Add(1)
		go func() {
			defer wg.Done()
			st := dependencyStatus{Status: "ok"}
			if err := dep.Ping(ctx); err != nil {
				st = dependencyStatus{Status: "unhealthy", Error: err.Error()}
			}
			mu.Lock()
			defer mu.Unlock()
			resp.Dependencies[name] = st
			if st.Error != "" {
				resp.Status = "degraded"
			}
		}()
	}
	wg.Wait()

	code := http.StatusOK
	if resp.Status != "ok" {
		code = http.StatusServiceUnavailable
	}
	return c.JSON(code, resp)
}
