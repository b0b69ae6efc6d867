package auth

import (
	"errors"
	"testing"
	"time"
)

// ============================================================================
// Password hashing
// ============================================================================

func TestPassword_HashAndCheck(t *testing.T) {
	hash, err := HashPassword("s3cret")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if hash == "s3cret" {
		t.Fatal("hash equals plaintext")
	}
	if err := CheckPassword(hash, "s3cret"); err != nil {
		t.Errorf("check correct password: %v", err)
	}
	if err := CheckPassword(hash, "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("check wrong password err = %v, want ErrInvalidCredentials", err)
	}
}

func TestPassword_EmptyRejected(t *testing.T) {
	if _, err := HashPassword(""); err == nil {
		t.Error("expected error for empty password")
	}
}

// ============================================================================
// Sessions
// ============================================================================

func TestSession_CreateAndLookup(t *testing.T) {
	m := NewManager(time.Hour)

	s := m.Create("operator", "operator")
	if s.Token == "" {
		t.Fatal("empty token")
	}

	got, ok := m.Lookup(s.Token)
	if !ok {
		t.Fatal("session not found")
	}
	if got.Username != "operator" || got.Role != "operator" {
		t.Errorf("session = %+v", got)
	}

	if _, ok := m.Lookup("no-such-token"); ok {
		t.Error("unknown token resolved")
	}
}

func TestSession_Expiry(t *testing.T) {
	m := NewManager(time.Minute)
	base := time.Date(2025, 8, 17, 12, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return base }

	s := m.Create("admin", "admin")

	m.now = func() time.Time { return base.Add(2 * time.Minute) }
	if _, ok := m.Lookup(s.Token); ok {
		t.Error("expired session resolved")
	}
}

func TestSession_Destroy(t *testing.T) {
	m := NewManager(time.Hour)
	s := m.Create("admin", "admin")
	m.Destroy(s.Token)
	if _, ok := m.Lookup(s.Token); ok {
		t.Error("destroyed session resolved")
	}
}

func TestSession_DestroyUser(t *testing.T) {
	m := NewManager(time.Hour)
	a := m.Create("operator", "operator")
	b := m.Create("operator", "operator")
	keep := m.Create("admin", "admin")

	m.DestroyUser("operator")

	if _, ok := m.Lookup(a.Token); ok {
		t.Error("first operator session survived")
	}
	if _, ok := m.Lookup(b.Token); ok {
		t.Error("second operator session survived")
	}
	if _, ok := m.Lookup(keep.Token); !ok {
		t.Error("admin session destroyed")
	}
}
