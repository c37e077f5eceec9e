package auth

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const issuer = "epicevents"

// TokenTTL is the fixed lifetime of a session token. It is not configurable
// per call; rotating the signing secret invalidates every outstanding token
// and there is no migration path.
const TokenTTL = 24 * time.Hour

// Identity carries the user fields embedded into a session token.
type Identity struct {
	UserID     int64
	EmployeeID string
	Name       string
	Email      string
	Department string
}

// Claims is the decoded content of a session token.
type Claims struct {
	UserID     int64  `json:"user_id"`
	EmployeeID string `json:"employee_id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Department string `json:"department"`
	jwt.RegisteredClaims
}

// TokenCodec signs session tokens with a process-wide symmetric secret and
// validates them on the way back. It is constructed once at process start
// and injected where needed.
type TokenCodec struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// CodecOption configures TokenCodec behavior.
type CodecOption func(*TokenCodec)

// WithClock overrides the time source (useful for tests).
func WithClock(fn func() time.Time) CodecOption {
	return func(c *TokenCodec) {
		if fn != nil {
			c.now = fn
		}
	}
}

// NewTokenCodec constructs a codec signing with the given secret.
func NewTokenCodec(secret string, opts ...CodecOption) (*TokenCodec, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, errors.New("auth: signing secret is required")
	}
	c := &TokenCodec{
		secret: []byte(secret),
		ttl:    TokenTTL,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Issue signs a token carrying the identity claims, expiring TokenTTL from
// now.
func (c *TokenCodec) Issue(id Identity) (string, error) {
	if id.UserID <= 0 {
		return "", errors.New("auth: user id is required")
	}
	if !ValidDepartment(id.Department) {
		return "", fmt.Errorf("auth: unknown department %q", id.Department)
	}

	now := c.now().UTC()
	claims := Claims{
		UserID:     id.UserID,
		EmployeeID: id.EmployeeID,
		Name:       id.Name,
		Email:      id.Email,
		Department: id.Department,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   strconv.FormatInt(id.UserID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
			ID:        uuid.NewString(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Decode verifies the token signature and expiry and returns the claims.
// Malformed input, a bad signature and an expired token all collapse into
// ErrInvalidToken: callers treat every failure as "unauthenticated".
func (c *TokenCodec) Decode(token string) (*Claims, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrInvalidToken
	}
	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(t *jwt.Token) (any, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, ErrInvalidToken
		}
		return c.secret, nil
	}, jwt.WithTimeFunc(c.now), jwt.WithIssuer(issuer))
	if err != nil {
		return nil, ErrInvalidToken
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	if claims.UserID <= 0 || !ValidDepartment(claims.Department) {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
