package ports

import (
	"context"

	"github.com/sirpyerre/admin-console/internal/core/domain"
)

// SessionStore holds the session token and a snapshot of the logged-in user.
type SessionStore interface {
	// Load returns whatever is stored. A nil snapshot or empty token means the
	// slot is absent or unreadable.
	Load(ctx context.Context) (token string, snapshot *domain.User, err error)
	Save(ctx context.Context, token string, snapshot domain.User) error
	// SaveSnapshot replaces only the user snapshot.
	SaveSnapshot(ctx context.Context, snapshot domain.User) error
	Clear(ctx context.Context) error
}
