package auth

import (
	"testing"
	"time"
)

func TestSignVerifyRoundTrip(t *testing.T) {
	secret := []byte("test-secret")

	token, err := Sign(secret, "user-1", "a@example.com", time.Hour)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}

	claims, err := Verify(secret, token)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if claims.Subject != "user-1" {
		t.Fatalf("expected sub user-1, got %s", claims.Subject)
	}
	if claims.Email != "a@example.com" {
		t.Fatalf("expected email, got %s", claims.Email)
	}
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	token, err := Sign([]byte("secret-a"), "user-1", "", time.Hour)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	if _, err := Verify([]byte("secret-b"), token); err == nil {
		t.Fatalf("expected verification failure")
	}
}

func TestVerifyRejectsExpired(t *testing.T) {
	token, err := Sign([]byte("secret"), "user-1", "", -time.Minute)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	if _, err := Verify([]byte("secret"), token); err == nil {
		t.Fatalf("expected expired token to fail")
	}
}

func TestSignRequiresUserID(t *testing.T) {
	if _, err := Sign([]byte("secret"), "", "", time.Hour); err == nil {
		t.Fatalf("expected error for empty user id")
	}
}
