package store

import (
	"context"
	"encoding/json"
	"fmt"
	"maps"
	"sync"

	"github.com/sirpyerre/admin-console/internal/core/ports"
)

// MemoryCredentials keeps passwords in process memory only. It starts from
// SeedPasswords, so passwords of users created at runtime are lost on restart.
type MemoryCredentials struct {
	mu        sync.RWMutex
	passwords map[string]string
}

func NewMemoryCredentials() *MemoryCredentials {
	return &MemoryCredentials{passwords: maps.Clone(SeedPasswords)}
}

func (c *MemoryCredentials) Check(_ context.Context, username, password string) (bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	stored, ok := c.passwords[username]
	return ok && stored == password, nil
}

func (c *MemoryCredentials) Has(_ context.Context, username string) (bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.passwords[username]
	return ok, nil
}

func (c *MemoryCredentials) Set(_ context.Context, username, password string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.passwords[username] = password
	return nil
}

func (c *MemoryCredentials) Remove(_ context.Context, username string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.passwords, username)
	return nil
}

// SlotCredentials keeps the password map as a JSON object in SlotCreds,
// seeded with SeedPasswords on first use. Passwords are stored in plaintext.
type SlotCredentials struct {
	slots ports.SlotStore
}

func NewSlotCredentials(slots ports.SlotStore) *SlotCredentials {
	return &SlotCredentials{slots: slots}
}

func (c *SlotCredentials) Check(ctx context.Context, username, password string) (bool, error) {
	m, err := c.load(ctx)
	if err != nil {
		return false, err
	}
	stored, ok := m[username]
	return ok && stored == password, nil
}

func (c *SlotCredentials) Has(ctx context.Context, username string) (bool, error) {
	m, err := c.load(ctx)
	if err != nil {
		return false, err
	}
	_, ok := m[username]
	return ok, nil
}

func (c *SlotCredentials) Set(ctx context.Context, username, password string) error {
	m, err := c.load(ctx)
	if err != nil {
		return err
	}
	m[username] = password
	return c.save(ctx, m)
}

func (c *SlotCredentials) Remove(ctx context.Context, username string) error {
	m, err := c.load(ctx)
	if err != nil {
		return err
	}
	delete(m, username)
	return c.save(ctx, m)
}

func (c *SlotCredentials) load(ctx context.Context) (map[string]string, error) {
	raw, found, err := c.slots.Get(ctx, SlotCreds)
	if err != nil {
		return nil, err
	}
	if !found {
		return maps.Clone(SeedPasswords), nil
	}

	var m map[string]string
	if err := decodeStrict(raw, &m); err != nil {
		return nil, corrupt(SlotCreds, err)
	}
	if m == nil {
		return nil, corrupt(SlotCreds, fmt.Errorf("null credentials"))
	}
	return m, nil
}

func (c *SlotCredentials) save(ctx context.Context, m map[string]string) error {
	b, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("encode credentials: %w", err)
	}
	return c.slots.Set(ctx, SlotCreds, string(b))
}

var (
	_ ports.CredentialStore = (*MemoryCredentials)(nil)
	_ ports.CredentialStore = (*SlotCredentials)(nil)
	_ ports.UserStore       = (*UserStore)(nil)
	_ ports.SessionStore    = (*SessionStore)(nil)
)
