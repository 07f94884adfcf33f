package auth

import (
	"errors"
	"strings"
	"testing"
	"time"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func TestTokenRoundTrip(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, time.March, 1, 9, 0, 0, 0, time.UTC)}
	mgr, err := NewTokenManager("secret", "HS384", 30*time.Minute, clock.Now)
	if err != nil {
		t.Fatalf("NewTokenManager: %v", err)
	}

	token, expiresAt, err := mgr.Issue("user-1", "alice")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if !expiresAt.Equal(clock.now.Add(30 * time.Minute)) {
		t.Fatalf("unexpected expiry %s", expiresAt)
	}

	claims, err := mgr.Verify(token)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if claims.Subject != "user-1" || claims.Username != "alice" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestTokenExpiresAfterLifetime(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, time.March, 1, 9, 0, 0, 0, time.UTC)}
	mgr, err := NewTokenManager("secret", "HS256", time.Second, clock.Now)
	if err != nil {
		t.Fatalf("NewTokenManager: %v", err)
	}
	token, _, err := mgr.Issue("user-1", "alice")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	clock.now = clock.now.Add(2 * time.Second)
	if _, err := mgr.Verify(token); !errors.Is(err, ErrExpiredToken) {
		t.Fatalf("expected ErrExpiredToken, got %v", err)
	}
}

func TestTokenRejectsOtherSecretAndAlgorithm(t *testing.T) {
	issuer, _ := NewTokenManager("secret-a", "HS256", time.Minute, nil)
	token, _, err := issuer.Issue("user-1", "")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	otherSecret, _ := NewTokenManager("secret-b", "HS256", time.Minute, nil)
	if _, err := otherSecret.Verify(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for wrong secret, got %v", err)
	}

	otherAlg, _ := NewTokenManager("secret-a", "HS512", time.Minute, nil)
	if _, err := otherAlg.Verify(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for wrong algorithm, got %v", err)
	}

	if _, err := issuer.Verify("not-a-token"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for garbage, got %v", err)
	}
}

func TestNewTokenManagerRejectsUnsupportedAlgorithm(t *testing.T) {
	if _, err := NewTokenManager("secret", "RS256", time.Minute, nil); err == nil {
		t.Fatalf("expected error for non-HMAC algorithm")
	}
	if _, err := NewTokenManager("", "HS256", time.Minute, nil); err == nil {
		t.Fatalf("expected error for empty secret")
	}
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("correct horse")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if hash == "correct horse" {
		t.Fatalf("expected hash to differ from password")
	}
	if err := CheckPassword(hash, "correct horse"); err != nil {
		t.Fatalf("CheckPassword: %v", err)
	}
	if err := CheckPassword(hash, "wrong"); !errors.Is(err, ErrPasswordMismatch) {
		t.Fatalf("expected ErrPasswordMismatch, got %v", err)
	}
}

func TestHashPasswordTooLong(t *testing.T) {
	if _, err := HashPassword(strings.Repeat("x", MaxPasswordBytes+1)); !errors.Is(err, ErrPasswordTooLong) {
		t.Fatalf("expected ErrPasswordTooLong, got %v", err)
	}
	if _, err := HashPassword(strings.Repeat("x", MaxPasswordBytes)); err != nil {
		t.Fatalf("HashPassword at limit: %v", err)
	}
}
