package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/sirpyerre/admin-console/internal/core/domain"
	"github.com/sirpyerre/admin-console/internal/core/ports"
)

const (
	defaultAuditLimit = 50
	maxAuditLimit     = 500
)

type AuditHandler struct {
	log ports.AuditLog
}

func NewAuditHandler(log ports.AuditLog) *AuditHandler {
	return &AuditHandler{log: log}
}

type auditResponse struct {
	Data []domain.AuditEvent `json:"data"`
}

// Recent returns the latest audit events, newest first.
//
// @Summary      Audit trail
// @Tags         audit
// @Produce      json
// @Param        limit  query     int  false  "Max events (default 50, max 500)"
// @Success      200    {object}  auditResponse
// @Failure      400    {object}  map[string]string
// @Router       /api/audit [get]
func (h *AuditHandler) Recent(c echo.Context) error {
	limit := defaultAuditLimit
	if raw := c.QueryParam("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return echo.NewHTTPError(http.StatusBadRequest, "limit must be a positive integer")
		}
		limit = min(n, maxAuditLimit)
	}

	events := h.log.Recent(c.Request().Context(), limit)
	if events == nil {
		events = []domain.AuditEvent{}
	}
	return c.JSON(http.StatusOK, auditResponse{Data: events})
}
