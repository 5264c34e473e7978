package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirpyerre/admin-console/internal/core/domain"
	"github.com/sirpyerre/admin-console/internal/pkg/metrics"
)

// UpdateUser merges patch into the user with the given id. It is the profile
// self-edit path: no uniqueness checks are made. A nil user means id is unknown.
func (s *AuthService) UpdateUser(ctx context.Context, id string, patch domain.UserPatch) (user *domain.User, err error) {
	defer func() { s.observe("profile", err) }()

	if !patch.Valid() {
		return nil, domain.ErrInvalidUser
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.users.FindByID(ctx, id)
	if errors.Is(err, domain.ErrUserNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}

	updated := patch.Apply(*current)
	if err := s.users.Replace(ctx, id, updated); err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	if err := s.refreshSnapshot(ctx, updated); err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}

	s.publish(domain.AuditProfileUpdate, updated, s.actor(ctx))
	return &updated, nil
}

// ListUsers returns users in insertion order, narrowed by filter.
func (s *AuthService) ListUsers(ctx context.Context, filter domain.UserFilter) ([]domain.User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	search := strings.ToLower(strings.TrimSpace(filter.Search))
	out := make([]domain.User, 0, len(users))
	for _, u := range users {
		if filter.Level != "" && u.Level != filter.Level {
			continue
		}
		if search != "" && !matches(u, search) {
			continue
		}
		out = append(out, u)
	}
	return out, nil
}

func matches(u domain.User, search string) bool {
	return strings.Contains(strings.ToLower(u.Username), search) ||
		strings.Contains(strings.ToLower(u.Name), search) ||
		strings.Contains(strings.ToLower(u.Email), search)
}

func (s *AuthService) GetUser(ctx context.Context, id string) (*domain.User, error) {
	u, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

// CreateUser adds a user and registers its password.
func (s *AuthService) CreateUser(ctx context.Context, data domain.NewUser, password string) (user *domain.User, err error) {
	defer func() { s.observe("create", err) }()

	if data.Username == "" || !data.Level.Valid() {
		return nil, domain.ErrInvalidUser
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.users.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	for _, u := range users {
		if u.Username == data.Username {
			return nil, domain.ErrUsernameExists
		}
	}
	if data.Email != "" {
		for _, u := range users {
			if u.Email == data.Email {
				return nil, domain.ErrEmailInUse
			}
		}
	}

	created := domain.User{
		ID:        s.newID(),
		Username:  data.Username,
		Level:     data.Level,
		Name:      data.Name,
		Email:     data.Email,
		Phone:     data.Phone,
		CreatedAt: s.now().UTC(),
	}
	if err := s.users.Insert(ctx, created); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	if err := s.creds.Set(ctx, created.Username, password); err != nil {
		// A user nobody can log in as is not kept.
		if rmErr := s.users.Remove(ctx, created.ID); rmErr != nil {
			err = errors.Join(err, rmErr)
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.log.Info().Str("user_id", created.ID).Str("username", created.Username).Msg("user created")
	s.publish(domain.AuditUserCreate, created, s.actor(ctx))
	return &created, nil
}

// UpdateUserByID is the administrative edit path. Username and email
// uniqueness are re-checked for fields that change.
func (s *AuthService) UpdateUserByID(ctx context.Context, id string, patch domain.UserPatch) (user *domain.User, err error) {
	defer func() { s.observe("update", err) }()

	if !patch.Valid() {
		return nil, domain.ErrInvalidUser
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.users.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}

	idx := indexOf(users, id)
	if idx < 0 {
		return nil, domain.ErrUserNotFound
	}
	current := users[idx]

	if patch.Username != nil && *patch.Username != current.Username {
		for _, u := range users {
			if u.ID != id && u.Username == *patch.Username {
				return nil, domain.ErrUsernameExists
			}
		}
	}
	if patch.Email != nil && *patch.Email != "" && *patch.Email != current.Email {
		for _, u := range users {
			if u.ID != id && u.Email == *patch.Email {
				return nil, domain.ErrEmailInUse
			}
		}
	}

	updated := patch.Apply(current)
	if err := s.users.Replace(ctx, id, updated); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	if err := s.refreshSnapshot(ctx, updated); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}

	s.publish(domain.AuditUserUpdate, updated, s.actor(ctx))
	return &updated, nil
}

// DeleteUser removes a user and its credential. The logged-in user cannot
// delete itself.
func (s *AuthService) DeleteUser(ctx context.Context, id string) (err error) {
	defer func() { s.observe("delete", err) }()

	s.mu.Lock()
	defer s.mu.Unlock()

	target, err := s.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return err
		}
		return fmt.Errorf("delete user: %w", err)
	}

	current, err := s.currentUser(ctx)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if current != nil && current.ID == id {
		return domain.ErrCannotDeleteSelf
	}

	if err := s.creds.Remove(ctx, target.Username); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if err := s.users.Remove(ctx, id); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}

	s.log.Info().Str("user_id", id).Str("username", target.Username).Msg("user deleted")
	actor := ""
	if current != nil {
		actor = current.Username
	}
	s.publish(domain.AuditUserDelete, *target, actor)
	return nil
}

// UpdateUserPassword creates or replaces the credential of an existing user.
func (s *AuthService) UpdateUserPassword(ctx context.Context, username, password string) (err error) {
	defer func() { s.observe("password", err) }()

	s.mu.Lock()
	defer s.mu.Unlock()

	target, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return err
		}
		return fmt.Errorf("update password: %w", err)
	}
	if err := s.creds.Set(ctx, username, password); err != nil {
		return fmt.Errorf("update password: %w", err)
	}

	s.publish(domain.AuditUserPassword, *target, s.actor(ctx))
	return nil
}

func (s *AuthService) SystemStats(ctx context.Context) (domain.SystemStats, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return domain.SystemStats{}, fmt.Errorf("system stats: %w", err)
	}

	stats := domain.SystemStats{TotalUsers: len(users)}
	for _, u := range users {
		switch u.Level {
		case domain.LevelAdmin:
			stats.AdminUsers++
		case domain.LevelManager:
			stats.ManagerUsers++
		case domain.LevelRegular:
			stats.RegularUsers++
		}
	}
	return stats, nil
}

// refreshSnapshot rewrites the session snapshot when it belongs to u.
func (s *AuthService) refreshSnapshot(ctx context.Context, u domain.User) error {
	_, snapshot, err := s.sessions.Load(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrCorruptStorage) {
			return nil
		}
		return err
	}
	if snapshot == nil || snapshot.ID != u.ID {
		return nil
	}
	return s.sessions.SaveSnapshot(ctx, u)
}

func (s *AuthService) observe(operation string, err error) {
	metrics.UserMutationsTotal.WithLabelValues(operation, outcome(err)).Inc()
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrUserNotFound),
		errors.Is(err, domain.ErrUsernameExists),
		errors.Is(err, domain.ErrEmailInUse),
		errors.Is(err, domain.ErrCannotDeleteSelf),
		errors.Is(err, domain.ErrInvalidUser):
		return "rejected"
	default:
		return "error"
	}
}

func indexOf(users []domain.User, id string) int {
	for i := range users {
		if users[i].ID == id {
			return i
		}
	}
	return -1
}
