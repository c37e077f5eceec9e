package auth

import (
	"errors"
	"fmt"
)

// Gate resolves the current caller from the persisted session and enforces
// capability checks before protected operations run. Authentication failure
// always takes precedence over authorization failure, so a caller with no
// session never learns which capabilities exist.
type Gate struct {
	sessions *SessionStore
	codec    *TokenCodec
}

// NewGate wires a gate over the session store and token codec.
func NewGate(sessions *SessionStore, codec *TokenCodec) (*Gate, error) {
	if sessions == nil || codec == nil {
		return nil, errors.New("auth: session store and token codec are required")
	}
	return &Gate{sessions: sessions, codec: codec}, nil
}

// CurrentCaller resolves claims from the stored session. An absent session
// and an invalid or expired token both read as "no caller".
func (g *Gate) CurrentCaller() (*Claims, bool) {
	token, ok := g.sessions.Load()
	if !ok {
		return nil, false
	}
	claims, err := g.codec.Decode(token)
	if err != nil {
		return nil, false
	}
	return claims, true
}

// RequireAuthenticated returns the caller claims or ErrAuthentication.
func (g *Gate) RequireAuthenticated() (*Claims, error) {
	claims, ok := g.CurrentCaller()
	if !ok {
		return nil, ErrAuthentication
	}
	return claims, nil
}

// RequireCapability returns the caller claims when the caller's department
// holds the capability. The authentication check runs first.
func (g *Gate) RequireCapability(capability string) (*Claims, error) {
	claims, err := g.RequireAuthenticated()
	if err != nil {
		return nil, err
	}
	if !HasPermission(claims.Department, capability) {
		return nil, fmt.Errorf("%w: capability %q required", ErrAuthorization, capability)
	}
	return claims, nil
}
