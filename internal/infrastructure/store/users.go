package store

import (
	"context"
	"fmt"
	"time"

	"github.com/sirpyerre/admin-console/internal/core/domain"
	"github.com/sirpyerre/admin-console/internal/core/ports"
)

// UserStore keeps the whole user collection as one JSON array in SlotUsers.
// Every mutation reads the collection, changes it and writes it back.
type UserStore struct {
	slots ports.SlotStore
	now   func() time.Time
}

// NewUserStore returns a UserStore. now stamps the seed accounts; nil means time.Now.
func NewUserStore(slots ports.SlotStore, now func() time.Time) *UserStore {
	if now == nil {
		now = time.Now
	}
	return &UserStore{slots: slots, now: now}
}

// Init writes the seed accounts if the slot has never been written.
// Existing data is left untouched.
func (s *UserStore) Init(ctx context.Context) error {
	_, found, err := s.slots.Get(ctx, SlotUsers)
	if err != nil {
		return err
	}
	if found {
		return nil
	}
	return s.save(ctx, SeedUsers(s.now()))
}

// List returns the collection in insertion order. An absent slot is an empty collection.
func (s *UserStore) List(ctx context.Context) ([]domain.User, error) {
	raw, found, err := s.slots.Get(ctx, SlotUsers)
	if err != nil {
		return nil, err
	}
	if !found {
		return []domain.User{}, nil
	}
	return decodeUsers(SlotUsers, raw)
}

func (s *UserStore) FindByID(ctx context.Context, id string) (*domain.User, error) {
	return s.find(ctx, func(u domain.User) bool { return u.ID == id })
}

// FindByUsername returns the first user with exactly this username.
func (s *UserStore) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	return s.find(ctx, func(u domain.User) bool { return u.Username == username })
}

func (s *UserStore) Insert(ctx context.Context, user domain.User) error {
	users, err := s.List(ctx)
	if err != nil {
		return err
	}
	return s.save(ctx, append(users, user))
}

func (s *UserStore) Replace(ctx context.Context, id string, user domain.User) error {
	users, err := s.List(ctx)
	if err != nil {
		return err
	}
	for i := range users {
		if users[i].ID == id {
			users[i] = user
			return s.save(ctx, users)
		}
	}
	return domain.ErrUserNotFound
}

func (s *UserStore) Remove(ctx context.Context, id string) error {
	users, err := s.List(ctx)
	if err != nil {
		return err
	}
	for i := range users {
		if users[i].ID == id {
			return s.save(ctx, append(users[:i], users[i+1:]...))
		}
	}
	return domain.ErrUserNotFound
}

func (s *UserStore) find(ctx context.Context, match func(domain.User) bool) (*domain.User, error) {
	users, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range users {
		if match(users[i]) {
			return &users[i], nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (s *UserStore) save(ctx context.Context, users []domain.User) error {
	raw, err := encodeUsers(users)
	if err != nil {
		return fmt.Errorf("encode users: %w", err)
	}
	return s.slots.Set(ctx, SlotUsers, raw)
}
