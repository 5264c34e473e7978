package domain

import "time"

// SessionTTL is the lifetime of a freshly minted session token.
const SessionTTL = 24 * time.Hour

// SessionClaims is the decoded payload of a session token.
type SessionClaims struct {
	UserID    string
	Username  string
	Level     Level
	IssuedAt  time.Time
	ExpiresAt time.Time
}
