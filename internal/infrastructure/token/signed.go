package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/sirpyerre/admin-console/internal/core/domain"
)

// SignedCodec carries the same payload as MockCodec inside an HS256 JWT and
// verifies the signature on decode.
type SignedCodec struct {
	secret []byte
	ttl    time.Duration
}

func NewSignedCodec(secret string, ttl time.Duration) (*SignedCodec, error) {
	if secret == "" {
		return nil, errors.New("token: signing secret is empty")
	}
	return &SignedCodec{secret: []byte(secret), ttl: ttlOrDefault(ttl)}, nil
}

func (c *SignedCodec) Encode(user domain.User, now time.Time) (string, error) {
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, newClaims(user, now, c.ttl))
	return t.SignedString(c.secret)
}

func (c *SignedCodec) Decode(token string, now time.Time) (domain.SessionClaims, bool) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		clockAt(now),
	)

	var claims Claims
	tkn, err := parser.ParseWithClaims(token, &claims, func(*jwt.Token) (interface{}, error) {
		return c.secret, nil
	})
	if err != nil || !tkn.Valid {
		return domain.SessionClaims{}, false
	}
	return claims.toDomain(), true
}
