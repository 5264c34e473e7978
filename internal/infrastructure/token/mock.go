package token

import (
	"encoding/base64"
	"encoding/json"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/sirpyerre/admin-console/internal/core/domain"
)

const (
	mockHeader    = "mock"
	mockSignature = "signature"
)

// MockCodec produces "mock.<base64(json)>.signature" tokens.
//
// It is NOT secure. The outer segments are constants and nothing is signed,
// so anyone can forge a token that decodes as valid. Use it only for a
// local console with no security requirement; configure SignedCodec otherwise.
type MockCodec struct {
	ttl time.Duration
}

// NewMockCodec returns a MockCodec. A non-positive ttl falls back to domain.SessionTTL.
func NewMockCodec(ttl time.Duration) *MockCodec {
	return &MockCodec{ttl: ttlOrDefault(ttl)}
}

func (c *MockCodec) Encode(user domain.User, now time.Time) (string, error) {
	payload, err := json.Marshal(newClaims(user, now, c.ttl))
	if err != nil {
		return "", err
	}
	return mockHeader + "." + base64.StdEncoding.EncodeToString(payload) + "." + mockSignature, nil
}

// Decode accepts any three-part token whose middle segment decodes to an
// unexpired payload. The outer segments are not checked.
func (c *MockCodec) Decode(token string, now time.Time) (domain.SessionClaims, bool) {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return domain.SessionClaims{}, false
	}

	payload, err := base64.StdEncoding.DecodeString(parts[1])
	if err != nil {
		return domain.SessionClaims{}, false
	}

	var claims Claims
	if err := json.Unmarshal(payload, &claims); err != nil {
		return domain.SessionClaims{}, false
	}

	v := jwt.NewValidator(clockAt(now), jwt.WithExpirationRequired())
	if err := v.Validate(claims); err != nil {
		return domain.SessionClaims{}, false
	}
	return claims.toDomain(), true
}
