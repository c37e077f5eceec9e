package auth

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func testIdentity() Identity {
	return Identity{
		UserID:     1,
		EmployeeID: "COM001",
		Name:       "Bill Boquet",
		Email:      "bill.boquet@epic.com",
		Department: DeptCommercial,
	}
}

func codecAt(t *testing.T, now time.Time) *TokenCodec {
	t.Helper()
	codec, err := NewTokenCodec("test-secret", WithClock(func() time.Time { return now }))
	if err != nil {
		t.Fatalf("NewTokenCodec: %v", err)
	}
	return codec
}

func TestIssueAndDecodeRoundTrip(t *testing.T) {
	t0 := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	issued := codecAt(t, t0)

	token, err := issued.Issue(testIdentity())
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	// Any offset strictly below the TTL must decode to the original claims.
	for _, delta := range []time.Duration{0, time.Hour, TokenTTL - time.Minute} {
		decoder := codecAt(t, t0.Add(delta))
		claims, err := decoder.Decode(token)
		if err != nil {
			t.Fatalf("Decode at +%v: %v", delta, err)
		}
		if claims.UserID != 1 || claims.EmployeeID != "COM001" {
			t.Fatalf("claims not preserved: %+v", claims)
		}
		if claims.Name != "Bill Boquet" || claims.Email != "bill.boquet@epic.com" {
			t.Fatalf("claims not preserved: %+v", claims)
		}
		if claims.Department != DeptCommercial {
			t.Fatalf("unexpected department: %s", claims.Department)
		}
	}

	// At or beyond the TTL the token reads as invalid.
	for _, delta := range []time.Duration{TokenTTL, TokenTTL + time.Second, 48 * time.Hour} {
		decoder := codecAt(t, t0.Add(delta))
		if _, err := decoder.Decode(token); !errors.Is(err, ErrInvalidToken) {
			t.Fatalf("Decode at +%v: expected ErrInvalidToken, got %v", delta, err)
		}
	}
}

func TestDecodeTamperedSignature(t *testing.T) {
	t0 := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	codec := codecAt(t, t0)

	token, err := codec.Issue(testIdentity())
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		t.Fatalf("expected compact three-part token, got %d parts", len(parts))
	}

	// Flip every byte of the signature segment in turn; each mutation must
	// invalidate the token.
	sig := parts[2]
	for i := 0; i < len(sig); i++ {
		flipped := byte('A')
		if sig[i] == 'A' {
			flipped = 'B'
		}
		mutated := parts[0] + "." + parts[1] + "." + sig[:i] + string(flipped) + sig[i+1:]
		if mutated == token {
			continue
		}
		if _, err := codec.Decode(mutated); !errors.Is(err, ErrInvalidToken) {
			t.Fatalf("byte %d: expected ErrInvalidToken, got %v", i, err)
		}
	}
}

func TestDecodeRejectsForeignSecret(t *testing.T) {
	t0 := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	codec := codecAt(t, t0)
	token, err := codec.Issue(testIdentity())
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	other, err := NewTokenCodec("another-secret", WithClock(func() time.Time { return t0 }))
	if err != nil {
		t.Fatalf("NewTokenCodec: %v", err)
	}
	if _, err := other.Decode(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestDecodeMalformedInput(t *testing.T) {
	codec := codecAt(t, time.Now())
	for _, token := range []string{"", "   ", "garbage", "a.b", "a.b.c.d", "!!.!!.!!"} {
		if _, err := codec.Decode(token); !errors.Is(err, ErrInvalidToken) {
			t.Fatalf("Decode(%q): expected ErrInvalidToken, got %v", token, err)
		}
	}
}

func TestIssueRejectsUnknownDepartment(t *testing.T) {
	codec := codecAt(t, time.Now())
	id := testIdentity()
	id.Department = "Engineering"
	if _, err := codec.Issue(id); err == nil {
		t.Fatal("expected error for unknown department")
	}
}

func TestNewTokenCodecRequiresSecret(t *testing.T) {
	if _, err := NewTokenCodec("  "); err == nil {
		t.Fatal("expected error for blank secret")
	}
}
