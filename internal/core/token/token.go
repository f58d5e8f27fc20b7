// Package token implements the signed session-token codec. Tokens are
// compact HS256 JWTs carrying the subject (the account email), issue and
// expiry times, and a small custom claim set. Validity is fully determined
// by the signature and the embedded expiry; no server-side state exists.
package token

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Verification failure kinds. Callers other than diagnostics must treat all
// of them as "unauthenticated"; the distinction exists for logging only.
var (
	ErrMalformed        = errors.New("token malformed")
	ErrSignatureInvalid = errors.New("token signature invalid")
	ErrExpired          = errors.New("token expired")
	ErrUnsupported      = errors.New("token signing method unsupported")
)

// Codec issues and verifies session tokens. The secret and TTL are fixed at
// construction and read concurrently without locking; rotating the secret
// invalidates every outstanding token.
type Codec struct {
	secret []byte
	ttl    time.Duration
}

// NewCodec returns a Codec signing with secret and issuing tokens valid for ttl.
func NewCodec(secret string, ttl time.Duration) *Codec {
	return &Codec{secret: []byte(secret), ttl: ttl}
}

// TTL returns the configured token lifetime.
func (c *Codec) TTL() time.Duration { return c.ttl }

// Issue produces a signed token for subject with the given extra claims.
// Registered claims (sub, iat, exp) override any colliding keys in claims.
func (c *Codec) Issue(subject string, claims map[string]any) (string, error) {
	if subject == "" {
		return "", fmt.Errorf("issue token: empty subject")
	}

	now := time.Now()
	mc := jwt.MapClaims{}
	for k, v := range claims {
		mc[k] = v
	}
	mc["sub"] = subject
	mc["iat"] = now.Unix()
	mc["exp"] = now.Add(c.ttl).Unix()

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, mc)
	return t.SignedString(c.secret)
}

// Verify checks structure, signature and expiry, returning the claim set on
// success. Failures are classified as ErrMalformed, ErrSignatureInvalid,
// ErrExpired or ErrUnsupported.
func (c *Codec) Verify(tokenString string) (jwt.MapClaims, error) {
	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, ErrUnsupported
		}
		return c.secret, nil
	})
	if err != nil {
		return nil, classify(err)
	}
	if !parsed.Valid {
		return nil, ErrSignatureInvalid
	}
	return claims, nil
}

// Subject returns the verified token's subject (the account email).
func (c *Codec) Subject(tokenString string) (string, error) {
	claims, err := c.Verify(tokenString)
	if err != nil {
		return "", err
	}
	sub, _ := claims["sub"].(string)
	return sub, nil
}

// Claim returns a single named claim from a verified token. The second
// return value is false when the claim is absent.
func (c *Codec) Claim(tokenString, key string) (any, bool, error) {
	claims, err := c.Verify(tokenString)
	if err != nil {
		return nil, false, err
	}
	v, ok := claims[key]
	return v, ok, nil
}

// UserID extracts the numeric user id claim from a verified token. JSON
// decoding turns numbers into float64 and some issuers send strings, so both
// forms are accepted. A missing claim is reported as (0, false, nil), not an
// error.
func (c *Codec) UserID(tokenString string) (int64, bool, error) {
	v, ok, err := c.Claim(tokenString, "userId")
	if err != nil || !ok {
		return 0, false, err
	}

	switch id := v.(type) {
	case float64:
		return int64(id), true, nil
	case string:
		n, err := strconv.ParseInt(id, 10, 64)
		if err != nil {
			return 0, false, fmt.Errorf("parse userId claim: %w", err)
		}
		return n, true, nil
	default:
		return 0, false, fmt.Errorf("userId claim has unexpected type %T", v)
	}
}

// classify maps jwt/v5 parse errors onto the codec's failure kinds.
func classify(err error) error {
	switch {
	case errors.Is(err, ErrUnsupported):
		return ErrUnsupported
	case errors.Is(err, jwt.ErrTokenExpired):
		return ErrExpired
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return ErrSignatureInvalid
	case errors.Is(err, jwt.ErrTokenMalformed):
		return ErrMalformed
	case errors.Is(err, jwt.ErrTokenUnverifiable):
		return ErrUnsupported
	default:
		return ErrMalformed
	}
}
