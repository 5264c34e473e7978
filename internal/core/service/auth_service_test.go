package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/sirpyerre/admin-console/internal/core/domain"
	"github.com/sirpyerre/admin-console/internal/infrastructure/db/memory"
	"github.com/sirpyerre/admin-console/internal/infrastructure/store"
	"github.com/sirpyerre/admin-console/internal/infrastructure/token"
)

// ---------------------------------------------------------------------------
// Fixture
// ---------------------------------------------------------------------------

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type stubAudit struct {
	events []domain.AuditEvent
}

func (a *stubAudit) Publish(e domain.AuditEvent) { a.events = append(a.events, e) }

func (a *stubAudit) actions() []domain.AuditAction {
	out := make([]domain.AuditAction, len(a.events))
	for i, e := range a.events {
		out[i] = e.Action
	}
	return out
}

type fixture struct {
	svc   *AuthService
	slots *memory.SlotStore
	creds *store.MemoryCredentials
	clock *fakeClock
	audit *stubAudit
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	clock := &fakeClock{now: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)}
	slots := memory.NewSlotStore()
	creds := store.NewMemoryCredentials()
	audit := &stubAudit{}

	svc := NewAuthService(
		store.NewUserStore(slots, clock.Now),
		store.NewSessionStore(slots),
		creds,
		token.NewMockCodec(domain.SessionTTL),
		zerolog.Nop(),
		Options{Now: clock.Now, Audit: audit},
	)
	if err := svc.Init(context.Background()); err != nil {
		t.Fatalf("init: %v", err)
	}
	return &fixture{svc: svc, slots: slots, creds: creds, clock: clock, audit: audit}
}

func (f *fixture) login(t *testing.T, username, password string, level domain.Level) *domain.User {
	t.Helper()
	_, u, err := f.svc.Login(context.Background(), username, password, level)
	if err != nil {
		t.Fatalf("login %s: %v", username, err)
	}
	return u
}

func (f *fixture) slot(key string) (string, bool) {
	v, found, _ := f.slots.Get(context.Background(), key)
	return v, found
}

func strPtr(s string) *string { return &s }

// ---------------------------------------------------------------------------
// Login / session
// ---------------------------------------------------------------------------

func TestAuthService_Login_SeedAccounts(t *testing.T) {
	cases := []struct {
		username, password string
		level              domain.Level
	}{
		{"admin", "admin123", domain.LevelAdmin},
		{"user", "user123", domain.LevelRegular},
		{"gerente", "gerente123", domain.LevelManager},
	}

	for _, tc := range cases {
		t.Run(tc.username, func(t *testing.T) {
			f := newFixture(t)
			tok, u, err := f.svc.Login(context.Background(), tc.username, tc.password, tc.level)
			if err != nil {
				t.Fatalf("login failed: %v", err)
			}
			if tok == "" {
				t.Fatalf("expected token")
			}
			if u == nil || u.Username != tc.username {
				t.Fatalf("unexpected user: %+v", u)
			}

			stored, found := f.slot(store.SlotToken)
			if !found || stored != tok {
				t.Fatalf("expected token slot to hold the minted token")
			}
			if _, found := f.slot(store.SlotSession); !found {
				t.Fatalf("expected session snapshot slot")
			}
		})
	}
}

func TestAuthService_Login_Failures(t *testing.T) {
	cases := []struct {
		name, username, password string
		level                    domain.Level
	}{
		{"level mismatch", "admin", "admin123", domain.LevelRegular},
		{"wrong password", "admin", "wrong", domain.LevelAdmin},
		{"unknown user", "ghost", "admin123", domain.LevelAdmin},
		{"case sensitive username", "Admin", "admin123", domain.LevelAdmin},
		{"empty password", "admin", "", domain.LevelAdmin},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t)
			usersBefore, _ := f.slot(store.SlotUsers)

			tok, u, err := f.svc.Login(context.Background(), tc.username, tc.password, tc.level)
			if !errors.Is(err, domain.ErrInvalidCredentials) {
				t.Fatalf("expected ErrInvalidCredentials, got %v", err)
			}
			if tok != "" || u != nil {
				t.Fatalf("expected no token or user on failure")
			}

			if usersAfter, _ := f.slot(store.SlotUsers); usersAfter != usersBefore {
				t.Fatalf("failed login must not touch the user store")
			}
			if _, found := f.slot(store.SlotToken); found {
				t.Fatalf("failed login must not create a session")
			}
		})
	}
}

func TestAuthService_Login_FailureKeepsExistingSession(t *testing.T) {
	f := newFixture(t)
	f.login(t, "admin", "admin123", domain.LevelAdmin)
	before, _ := f.slot(store.SlotToken)

	if _, _, err := f.svc.Login(context.Background(), "user", "bad", domain.LevelRegular); err == nil {
		t.Fatalf("expected failure")
	}

	after, _ := f.slot(store.SlotToken)
	if before != after {
		t.Fatalf("failed login must leave the current session untouched")
	}
}

func TestAuthService_Login_RepeatedOverwritesSession(t *testing.T) {
	f := newFixture(t)
	f.login(t, "admin", "admin123", domain.LevelAdmin)
	f.login(t, "admin", "admin123", domain.LevelAdmin)
	f.login(t, "user", "user123", domain.LevelRegular)

	u, err := f.svc.CurrentUser(context.Background())
	if err != nil || u == nil || u.Username != "user" {
		t.Fatalf("expected latest login to own the session, got %+v err=%v", u, err)
	}
}

func TestAuthService_Login_DelayHonoursContext(t *testing.T) {
	f := newFixture(t)
	f.svc.loginDelay = time.Hour

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := f.svc.Login(ctx, "admin", "admin123", domain.LevelAdmin)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if _, found := f.slot(store.SlotToken); found {
		t.Fatalf("cancelled login must not create a session")
	}
}

func TestAuthService_Login_DelayApplied(t *testing.T) {
	f := newFixture(t)
	f.svc.loginDelay = 20 * time.Millisecond

	start := time.Now()
	f.login(t, "admin", "admin123", domain.LevelAdmin)
	if elapsed := time.Since(start); elapsed < 20*time.Millisecond {
		t.Fatalf("expected login to wait, took %v", elapsed)
	}
}

func TestAuthService_LogoutThenCurrentUser(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// Logout with no session is fine.
	if err := f.svc.Logout(ctx); err != nil {
		t.Fatalf("logout: %v", err)
	}

	f.login(t, "admin", "admin123", domain.LevelAdmin)
	if ok, _ := f.svc.IsAuthenticated(ctx); !ok {
		t.Fatalf("expected authenticated after login")
	}

	if err := f.svc.Logout(ctx); err != nil {
		t.Fatalf("logout: %v", err)
	}
	u, err := f.svc.CurrentUser(ctx)
	if err != nil || u != nil {
		t.Fatalf("expected no current user after logout, got %+v err=%v", u, err)
	}
	if ok, _ := f.svc.IsAuthenticated(ctx); ok {
		t.Fatalf("expected unauthenticated after logout")
	}
	if _, found := f.slot(store.SlotSession); found {
		t.Fatalf("logout must clear the snapshot slot")
	}
}

func TestAuthService_ExpiredSessionSelfHeals(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.login(t, "admin", "admin123", domain.LevelAdmin)

	f.clock.Advance(domain.SessionTTL - time.Second)
	if u, _ := f.svc.CurrentUser(ctx); u == nil {
		t.Fatalf("expected session still valid just before expiry")
	}

	f.clock.Advance(time.Second)
	u, err := f.svc.CurrentUser(ctx)
	if err != nil || u != nil {
		t.Fatalf("expected expired session to read as absent, got %+v err=%v", u, err)
	}
	if _, found := f.slot(store.SlotToken); found {
		t.Fatalf("expired session must be cleared")
	}
	if _, found := f.slot(store.SlotSession); found {
		t.Fatalf("expired session snapshot must be cleared")
	}
}

func TestAuthService_UnusableSessionsSelfHeal(t *testing.T) {
	cases := map[string]func(f *fixture){
		"malformed token": func(f *fixture) {
			_ = f.slots.Set(context.Background(), store.SlotToken, "not-a-token")
		},
		"missing snapshot": func(f *fixture) {
			_ = f.slots.Delete(context.Background(), store.SlotSession)
		},
		"missing token": func(f *fixture) {
			_ = f.slots.Delete(context.Background(), store.SlotToken)
		},
		"corrupt snapshot": func(f *fixture) {
			_ = f.slots.Set(context.Background(), store.SlotSession, "{not json")
		},
		"snapshot of another user": func(f *fixture) {
			_ = f.slots.Set(context.Background(), store.SlotSession,
				`{"id":"2","username":"user","level":"user","createdAt":"2024-03-01T12:00:00Z"}`)
		},
	}

	for name, tamper := range cases {
		t.Run(name, func(t *testing.T) {
			f := newFixture(t)
			f.login(t, "admin", "admin123", domain.LevelAdmin)
			tamper(f)

			ok, err := f.svc.IsAuthenticated(context.Background())
			if err != nil || ok {
				t.Fatalf("expected unauthenticated, got ok=%v err=%v", ok, err)
			}
			if _, found := f.slot(store.SlotToken); found {
				t.Fatalf("token slot should be cleared")
			}
			if _, found := f.slot(store.SlotSession); found {
				t.Fatalf("snapshot slot should be cleared")
			}
		})
	}
}

func TestAuthService_InitRestoresValidSession(t *testing.T) {
	f := newFixture(t)
	f.login(t, "admin", "admin123", domain.LevelAdmin)

	// A second service over the same slots plays the part of a restarted process.
	restarted := NewAuthService(
		store.NewUserStore(f.slots, f.clock.Now),
		store.NewSessionStore(f.slots),
		store.NewMemoryCredentials(),
		token.NewMockCodec(0),
		zerolog.Nop(),
		Options{Now: f.clock.Now},
	)
	if err := restarted.Init(context.Background()); err != nil {
		t.Fatalf("init: %v", err)
	}
	if u, _ := restarted.CurrentUser(context.Background()); u == nil || u.Username != "admin" {
		t.Fatalf("expected session to survive restart, got %+v", u)
	}

	f.clock.Advance(domain.SessionTTL)
	if err := restarted.Init(context.Background()); err != nil {
		t.Fatalf("init: %v", err)
	}
	if _, found := f.slot(store.SlotToken); found {
		t.Fatalf("expired session must be cleared at start-up")
	}
}

func TestAuthService_CorruptUsersSlot(t *testing.T) {
	f := newFixture(t)
	_ = f.slots.Set(context.Background(), store.SlotUsers, `[{"bogus":true}]`)

	if _, err := f.svc.ListUsers(context.Background(), domain.UserFilter{}); !errors.Is(err, domain.ErrCorruptStorage) {
		t.Fatalf("expected ErrCorruptStorage, got %v", err)
	}
	if _, _, err := f.svc.Login(context.Background(), "admin", "admin123", domain.LevelAdmin); !errors.Is(err, domain.ErrCorruptStorage) {
		t.Fatalf("expected ErrCorruptStorage from login, got %v", err)
	}
}

func TestAuthService_AuditTrail(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.login(t, "admin", "admin123", domain.LevelAdmin)
	created, err := f.svc.CreateUser(ctx, domain.NewUser{Username: "alice", Level: domain.LevelRegular}, "pw123456")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	_ = f.svc.Logout(ctx)

	want := []domain.AuditAction{domain.AuditLogin, domain.AuditUserCreate, domain.AuditLogout}
	got := f.audit.actions()
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}

	ev := f.audit.events[1]
	if ev.UserID != created.ID || ev.Username != "alice" || ev.Actor != "admin" {
		t.Fatalf("unexpected create event: %+v", ev)
	}
}
