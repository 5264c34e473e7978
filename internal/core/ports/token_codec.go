package ports

import (
	"time"

	"github.com/sirpyerre/admin-console/internal/core/domain"
)

// TokenCodec mints and reads session tokens.
type TokenCodec interface {
	Encode(user domain.User, now time.Time) (string, error)
	// Decode never fails loudly: malformed, forged-shape or expired tokens
	// all yield ok == false.
	Decode(token string, now time.Time) (claims domain.SessionClaims, ok bool)
}
