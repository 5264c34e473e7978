package ports

import (
	"context"

	"github.com/sirpyerre/admin-console/internal/core/domain"
)

// AuditSink accepts audit events. Implementations must not block the caller
// for long.
type AuditSink interface {
	Publish(event domain.AuditEvent)
}

// AuditLog returns the most recent audit events, newest first.
type AuditLog interface {
	Recent(ctx context.Context, limit int) []domain.AuditEvent
}
