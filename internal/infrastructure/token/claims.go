// Package token mints and reads session tokens.
package token

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/sirpyerre/admin-console/internal/core/domain"
)

// Claims is the session payload: {userId, username, level, iat, exp} with
// iat and exp in epoch seconds.
type Claims struct {
	UserID    string           `json:"userId"`
	Username  string           `json:"username"`
	Level     string           `json:"level"`
	IssuedAt  *jwt.NumericDate `json:"iat"`
	ExpiresAt *jwt.NumericDate `json:"exp"`
}

func newClaims(user domain.User, now time.Time, ttl time.Duration) Claims {
	return Claims{
		UserID:    user.ID,
		Username:  user.Username,
		Level:     string(user.Level),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
}

func (c Claims) GetExpirationTime() (*jwt.NumericDate, error) { return c.ExpiresAt, nil }
func (c Claims) GetIssuedAt() (*jwt.NumericDate, error)       { return c.IssuedAt, nil }
func (c Claims) GetNotBefore() (*jwt.NumericDate, error)      { return nil, nil }
func (c Claims) GetIssuer() (string, error)                   { return "", nil }
func (c Claims) GetSubject() (string, error)                  { return c.UserID, nil }
func (c Claims) GetAudience() (jwt.ClaimStrings, error)       { return nil, nil }

func (c Claims) toDomain() domain.SessionClaims {
	out := domain.SessionClaims{
		UserID:   c.UserID,
		Username: c.Username,
		Level:    domain.Level(c.Level),
	}
	if c.IssuedAt != nil {
		out.IssuedAt = c.IssuedAt.Time
	}
	if c.ExpiresAt != nil {
		out.ExpiresAt = c.ExpiresAt.Time
	}
	return out
}

// clockAt pins the validator clock to now. A token is valid while now is
// strictly before exp.
func clockAt(now time.Time) jwt.ParserOption {
	return jwt.WithTimeFunc(func() time.Time { return now })
}

func ttlOrDefault(ttl time.Duration) time.Duration {
	if ttl <= 0 {
		return domain.SessionTTL
	}
	return ttl
}
