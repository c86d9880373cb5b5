package security

import (
	"errors"
	"strings"
	"testing"
	"time"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestSessionTokenRoundTrip(t *testing.T) {
	mgr := NewJWTManager("healthpredict-backend", testSecret, 24*time.Hour)

	token, err := mgr.MintSessionToken("a@x.com")
	if err != nil {
		t.Fatalf("mint: %v", err)
	}
	subject, err := mgr.ParseSessionToken(token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if subject != "a@x.com" {
		t.Fatalf("expected subject a@x.com, got %q", subject)
	}
}

func TestSessionTokenTamperedSignature(t *testing.T) {
	mgr := NewJWTManager("healthpredict-backend", testSecret, 24*time.Hour)
	token, err := mgr.MintSessionToken("a@x.com")
	if err != nil {
		t.Fatalf("mint: %v", err)
	}

	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		t.Fatalf("unexpected token shape: %s", token)
	}
	sig := []byte(parts[2])
	if sig[0] == 'A' {
		sig[0] = 'B'
	} else {
		sig[0] = 'A'
	}
	tampered := parts[0] + "." + parts[1] + "." + string(sig)

	if _, err := mgr.ParseSessionToken(tampered); !errors.Is(err, ErrInvalidSessionToken) {
		t.Fatalf("expected ErrInvalidSessionToken, got %v", err)
	}
}

func TestSessionTokenWrongSecret(t *testing.T) {
	mgr := NewJWTManager("healthpredict-backend", testSecret, 24*time.Hour)
	other := NewJWTManager("healthpredict-backend", "ffffffffffffffffffffffffffffffff", 24*time.Hour)

	token, err := mgr.MintSessionToken("a@x.com")
	if err != nil {
		t.Fatalf("mint: %v", err)
	}
	if _, err := other.ParseSessionToken(token); !errors.Is(err, ErrInvalidSessionToken) {
		t.Fatalf("expected ErrInvalidSessionToken, got %v", err)
	}
}

func TestSessionTokenExpiry(t *testing.T) {
	issued := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	mgr := NewJWTManager("healthpredict-backend", testSecret, 24*time.Hour).
		WithTimeFunc(func() time.Time { return issued })

	token, err := mgr.MintSessionToken("a@x.com")
	if err != nil {
		t.Fatalf("mint: %v", err)
	}

	// Just inside the window.
	almost := mgr.WithTimeFunc(func() time.Time { return issued.Add(24*time.Hour - time.Second) })
	if _, err := almost.ParseSessionToken(token); err != nil {
		t.Fatalf("token should still be valid: %v", err)
	}

	// Past the window.
	late := mgr.WithTimeFunc(func() time.Time { return issued.Add(24*time.Hour + time.Second) })
	if _, err := late.ParseSessionToken(token); !errors.Is(err, ErrInvalidSessionToken) {
		t.Fatalf("expected ErrInvalidSessionToken, got %v", err)
	}
}

func TestSessionTokenGarbage(t *testing.T) {
	mgr := NewJWTManager("healthpredict-backend", testSecret, 24*time.Hour)
	for _, raw := range []string{"", "not-a-jwt", "a.b.c"} {
		if _, err := mgr.ParseSessionToken(raw); !errors.Is(err, ErrInvalidSessionToken) {
			t.Fatalf("expected ErrInvalidSessionToken for %q, got %v", raw, err)
		}
	}
}
