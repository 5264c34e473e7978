package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirpyerre/admin-console/internal/core/domain"
	"github.com/sirpyerre/admin-console/internal/core/ports"
)

// SessionStore keeps the token in SlotToken and the user snapshot in SlotSession.
type SessionStore struct {
	slots ports.SlotStore
}

func NewSessionStore(slots ports.SlotStore) *SessionStore {
	return &SessionStore{slots: slots}
}

// Load returns the stored token and snapshot. A snapshot that does not match
// the stored user shape yields an error wrapping domain.ErrCorruptStorage,
// alongside whatever token was found.
func (s *SessionStore) Load(ctx context.Context) (string, *domain.User, error) {
	token, _, err := s.slots.Get(ctx, SlotToken)
	if err != nil {
		return "", nil, err
	}

	raw, found, err := s.slots.Get(ctx, SlotSession)
	if err != nil {
		return "", nil, err
	}
	if !found {
		return token, nil, nil
	}

	snapshot, err := decodeUser(SlotSession, raw)
	if err != nil {
		return token, nil, err
	}
	return token, snapshot, nil
}

func (s *SessionStore) Save(ctx context.Context, token string, snapshot domain.User) error {
	if err := s.slots.Set(ctx, SlotToken, token); err != nil {
		return err
	}
	return s.SaveSnapshot(ctx, snapshot)
}

func (s *SessionStore) SaveSnapshot(ctx context.Context, snapshot domain.User) error {
	raw, err := encodeUser(snapshot)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	return s.slots.Set(ctx, SlotSession, raw)
}

// Clear deletes both slots, attempting the second even if the first fails.
func (s *SessionStore) Clear(ctx context.Context) error {
	return errors.Join(
		s.slots.Delete(ctx, SlotToken),
		s.slots.Delete(ctx, SlotSession),
	)
}
