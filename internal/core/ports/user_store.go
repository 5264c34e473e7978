package ports

import (
	"context"

	"github.com/sirpyerre/admin-console/internal/core/domain"
)

// UserStore persists the ordered user collection. Every write is durable
// before it returns.
type UserStore interface {
	// Init seeds the collection when the slot has never been written.
	Init(ctx context.Context) error
	List(ctx context.Context) ([]domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	Insert(ctx context.Context, user domain.User) error
	Replace(ctx context.Context, id string, user domain.User) error
	Remove(ctx context.Context, id string) error
}
