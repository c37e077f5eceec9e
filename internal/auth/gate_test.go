package auth

import (
	"errors"
	"testing"
	"time"
)

func testGate(t *testing.T, now func() time.Time) (*Gate, *SessionStore, *TokenCodec) {
	t.Helper()
	codec, err := NewTokenCodec("gate-secret", WithClock(now))
	if err != nil {
		t.Fatalf("NewTokenCodec: %v", err)
	}
	sessions := tempSessionStore(t)
	gate, err := NewGate(sessions, codec)
	if err != nil {
		t.Fatalf("NewGate: %v", err)
	}
	return gate, sessions, codec
}

func TestGateNoSession(t *testing.T) {
	gate, _, _ := testGate(t, time.Now)

	if _, ok := gate.CurrentCaller(); ok {
		t.Fatal("expected no caller")
	}
	if _, err := gate.RequireAuthenticated(); !errors.Is(err, ErrAuthentication) {
		t.Fatalf("expected ErrAuthentication, got %v", err)
	}

	// Authentication failure takes precedence over authorization failure,
	// even for a capability no department holds.
	_, err := gate.RequireCapability("no_such_capability")
	if !errors.Is(err, ErrAuthentication) {
		t.Fatalf("expected ErrAuthentication, got %v", err)
	}
	if errors.Is(err, ErrAuthorization) {
		t.Fatal("unauthenticated caller must not see an authorization error")
	}
}

func TestGateCapabilityCheck(t *testing.T) {
	gate, sessions, codec := testGate(t, time.Now)

	token, err := codec.Issue(Identity{
		UserID: 7, EmployeeID: "SUP001", Name: "Kate Hastroff",
		Email: "kate.hastroff@epic.com", Department: DeptSupport,
	})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if err := sessions.Store(token); err != nil {
		t.Fatalf("Store: %v", err)
	}

	claims, err := gate.RequireCapability(CapUpdateOwnEvent)
	if err != nil {
		t.Fatalf("RequireCapability: %v", err)
	}
	if claims.UserID != 7 || claims.Department != DeptSupport {
		t.Fatalf("unexpected claims: %+v", claims)
	}

	if _, err := gate.RequireCapability(CapCreateUser); !errors.Is(err, ErrAuthorization) {
		t.Fatalf("expected ErrAuthorization, got %v", err)
	}
}

func TestGateExpiredSessionReadsAsUnauthenticated(t *testing.T) {
	t0 := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	current := t0
	gate, sessions, codec := testGate(t, func() time.Time { return current })

	token, err := codec.Issue(Identity{
		UserID: 1, EmployeeID: "MAN001", Name: "Alice Manager",
		Email: "alice.manager@epic.com", Department: DeptManagement,
	})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if err := sessions.Store(token); err != nil {
		t.Fatalf("Store: %v", err)
	}

	if _, err := gate.RequireCapability(CapCreateUser); err != nil {
		t.Fatalf("fresh token should pass: %v", err)
	}

	current = t0.Add(TokenTTL + time.Minute)
	if _, err := gate.RequireCapability(CapCreateUser); !errors.Is(err, ErrAuthentication) {
		t.Fatalf("expected ErrAuthentication for expired session, got %v", err)
	}
}
