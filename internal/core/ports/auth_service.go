package ports

import (
	"context"

	"github.com/sirpyerre/admin-console/internal/core/domain"
)

// AuthService is the single integration point between the console API and storage.
type AuthService interface {
	Login(ctx context.Context, username, password string, level domain.Level) (string, *domain.User, error)
	Logout(ctx context.Context) error
	CurrentUser(ctx context.Context) (*domain.User, error)
	IsAuthenticated(ctx context.Context) (bool, error)

	// UpdateUser is the profile self-edit path. It returns nil when id is unknown
	// and does not re-check uniqueness.
	UpdateUser(ctx context.Context, id string, patch domain.UserPatch) (*domain.User, error)

	ListUsers(ctx context.Context, filter domain.UserFilter) ([]domain.User, error)
	GetUser(ctx context.Context, id string) (*domain.User, error)
	CreateUser(ctx context.Context, data domain.NewUser, password string) (*domain.User, error)
	UpdateUserByID(ctx context.Context, id string, patch domain.UserPatch) (*domain.User, error)
	DeleteUser(ctx context.Context, id string) error
	UpdateUserPassword(ctx context.Context, username, password string) error
	SystemStats(ctx context.Context) (domain.SystemStats, error)
}
