package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestSignAndVerifyRoundTrip(t *testing.T) {
	Configure("test-secret", false)
	t.Cleanup(func() { Configure("", false) })

	token, err := SignJWT(Claims{
		UserID:           "42",
		Email:            "user@example.com",
		RegisteredClaims: jwt.RegisteredClaims{Subject: "session-1"},
	})
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	claims, err := VerifyJWT(token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if claims.Subject != "session-1" || claims.UserID != "42" || claims.Email != "user@example.com" {
		t.Fatalf("unexpected claims %+v", claims)
	}
	if claims.ExpiresAt == nil {
		t.Fatalf("expected default expiry")
	}
}

func TestVerifyRejectsTamperedAndExpired(t *testing.T) {
	Configure("test-secret", false)
	t.Cleanup(func() { Configure("", false) })

	expired, err := SignJWT(Claims{RegisteredClaims: jwt.RegisteredClaims{
		Subject:   "session-1",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
	}})
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := VerifyJWT(expired); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for expired token, got %v", err)
	}

	valid, err := SignJWT(Claims{RegisteredClaims: jwt.RegisteredClaims{Subject: "session-1"}})
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	Configure("other-secret", false)
	if _, err := VerifyJWT(valid); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for wrong secret, got %v", err)
	}
	if _, err := VerifyJWT("not-a-token"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for garbage, got %v", err)
	}
}

func TestSignRequiresSubject(t *testing.T) {
	Configure("test-secret", false)
	t.Cleanup(func() { Configure("", false) })

	if _, err := SignJWT(Claims{}); err == nil {
		t.Fatalf("expected error for empty subject")
	}
}

func TestProductionRequiresSecret(t *testing.T) {
	t.Setenv("NEXTAUTH_SECRET", "")
	Configure("", true)
	t.Cleanup(func() { Configure("", false) })

	_, err := SignJWT(Claims{RegisteredClaims: jwt.RegisteredClaims{Subject: "s"}})
	if !errors.Is(err, errMissingSecret) {
		t.Fatalf("expected errMissingSecret, got %v", err)
	}
}
