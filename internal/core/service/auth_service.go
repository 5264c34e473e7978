package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"

	"github.com/sirpyerre/admin-console/internal/core/domain"
	"github.com/sirpyerre/admin-console/internal/core/ports"
	"github.com/sirpyerre/admin-console/internal/pkg/metrics"
)

// DefaultLoginDelay is the simulated round-trip applied to every login attempt.
const DefaultLoginDelay = time.Second

// Options tunes an AuthService. The zero value is usable.
type Options struct {
	// LoginDelay is waited before each login attempt. Zero disables the wait.
	LoginDelay time.Duration
	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time
	// Audit receives audit events. Defaults to discarding them.
	Audit ports.AuditSink
}

// AuthService owns the session and the user collection. It is the only
// writer of persisted state.
type AuthService struct {
	users    ports.UserStore
	sessions ports.SessionStore
	creds    ports.CredentialStore
	codec    ports.TokenCodec
	audit    ports.AuditSink
	log      zerolog.Logger

	now        func() time.Time
	loginDelay time.Duration

	// mu serialises read-modify-write sections over the stores.
	mu sync.Mutex
}

func NewAuthService(
	users ports.UserStore,
	sessions ports.SessionStore,
	creds ports.CredentialStore,
	codec ports.TokenCodec,
	log zerolog.Logger,
	opts Options,
) *AuthService {
	s := &AuthService{
		users:      users,
		sessions:   sessions,
		creds:      creds,
		codec:      codec,
		audit:      opts.Audit,
		log:        log.With().Str("component", "auth").Logger(),
		now:        opts.Now,
		loginDelay: opts.LoginDelay,
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.audit == nil {
		s.audit = discardAudit{}
	}
	return s
}

// Init seeds the user store, re-validates any session left over from a previous
// run and warns about users that cannot log in because they have no credential.
func (s *AuthService) Init(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.users.Init(ctx); err != nil {
		return fmt.Errorf("init users: %w", err)
	}

	users, err := s.users.List(ctx)
	if err != nil {
		return fmt.Errorf("init users: %w", err)
	}
	for _, u := range users {
		ok, err := s.creds.Has(ctx, u.Username)
		if err != nil {
			return fmt.Errorf("init credentials: %w", err)
		}
		if !ok {
			s.log.Warn().Str("username", u.Username).Msg("user has no credential, password must be reset before it can log in")
		}
	}

	current, err := s.currentUser(ctx)
	if err != nil {
		return fmt.Errorf("init session: %w", err)
	}
	if current != nil {
		s.log.Info().Str("username", current.Username).Msg("restored session")
	} else {
		s.log.Info().Int("users", len(users)).Msg("no active session")
	}
	return nil
}

func (s *AuthService) Login(ctx context.Context, username, password string, level domain.Level) (string, *domain.User, error) {
	if err := s.wait(ctx); err != nil {
		return "", nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.users.List(ctx)
	if err != nil {
		return "", nil, fmt.Errorf("login: %w", err)
	}

	var user *domain.User
	for i := range users {
		if users[i].Username == username && users[i].Level == level {
			user = &users[i]
			break
		}
	}
	if user == nil {
		return "", nil, s.loginFailed(username)
	}

	ok, err := s.creds.Check(ctx, username, password)
	if err != nil {
		return "", nil, fmt.Errorf("login: %w", err)
	}
	if !ok {
		return "", nil, s.loginFailed(username)
	}

	token, err := s.codec.Encode(*user, s.now())
	if err != nil {
		return "", nil, fmt.Errorf("login: encode token: %w", err)
	}
	if err := s.sessions.Save(ctx, token, *user); err != nil {
		return "", nil, fmt.Errorf("login: %w", err)
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	s.log.Info().Str("username", user.Username).Str("level", string(user.Level)).Msg("login succeeded")
	s.publish(domain.AuditLogin, *user, user.Username)

	return token, user, nil
}

func (s *AuthService) Logout(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	actor := s.actor(ctx)
	if err := s.sessions.Clear(ctx); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	if actor != "" {
		s.publish(domain.AuditLogout, domain.User{Username: actor}, actor)
	}
	return nil
}

// CurrentUser returns the session snapshot, or nil when there is no usable
// session. An unusable session is cleared as a side effect.
func (s *AuthService) CurrentUser(ctx context.Context) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentUser(ctx)
}

func (s *AuthService) IsAuthenticated(ctx context.Context) (bool, error) {
	u, err := s.CurrentUser(ctx)
	if err != nil {
		return false, err
	}
	return u != nil, nil
}

func (s *AuthService) currentUser(ctx context.Context) (*domain.User, error) {
	token, snapshot, err := s.sessions.Load(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrCorruptStorage) {
			s.log.Warn().Err(err).Msg("session slot unreadable")
			return nil, s.heal(ctx, "corrupt")
		}
		return nil, fmt.Errorf("load session: %w", err)
	}

	switch {
	case token == "" && snapshot == nil:
		return nil, nil
	case token == "" || snapshot == nil:
		return nil, s.heal(ctx, "incomplete")
	}

	claims, ok := s.codec.Decode(token, s.now())
	if !ok {
		return nil, s.heal(ctx, "invalid_token")
	}
	if claims.UserID != snapshot.ID {
		return nil, s.heal(ctx, "mismatch")
	}
	return snapshot, nil
}

// heal clears a session that a read found unusable.
func (s *AuthService) heal(ctx context.Context, reason string) error {
	metrics.SessionHealsTotal.WithLabelValues(reason).Inc()
	s.log.Debug().Str("reason", reason).Msg("clearing unusable session")
	if err := s.sessions.Clear(ctx); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

func (s *AuthService) loginFailed(username string) error {
	metrics.LoginsTotal.WithLabelValues("failure").Inc()
	s.log.Debug().Str("username", username).Msg("login rejected")
	return domain.ErrInvalidCredentials
}

// wait applies the login delay unless ctx ends first.
func (s *AuthService) wait(ctx context.Context) error {
	if s.loginDelay <= 0 {
		return nil
	}
	t := time.NewTimer(s.loginDelay)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// actor returns the username of the stored session snapshot, if any. It does
// not validate the token.
func (s *AuthService) actor(ctx context.Context) string {
	_, snapshot, err := s.sessions.Load(ctx)
	if err != nil || snapshot == nil {
		return ""
	}
	return snapshot.Username
}

func (s *AuthService) publish(action domain.AuditAction, target domain.User, actor string) {
	s.audit.Publish(domain.AuditEvent{
		Action:   action,
		UserID:   target.ID,
		Username: target.Username,
		Actor:    actor,
		At:       s.now().UTC(),
	})
}

func (s *AuthService) newID() string {
	return ulid.MustNew(ulid.Timestamp(s.now()), ulid.DefaultEntropy()).String()
}

type discardAudit struct{}

func (discardAudit) Publish(domain.AuditEvent) {}
