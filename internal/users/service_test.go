package users

import (
	"context"
	"errors"
	"testing"
	"time"
)

func newTestService() *Service {
	return &Service{
		Repo:      NewMemoryRepo(),
		JWTSecret: []byte("test-secret"),
		TokenTTL:  time.Hour,
	}
}

func TestRegisterAndLogin(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	user, token, err := svc.Register(ctx, "A@Example.com", "hunter22", "Alice")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if token == "" {
		t.Fatalf("expected token")
	}
	if user.Email != "a@example.com" {
		t.Fatalf("expected normalized email, got %s", user.Email)
	}
	if user.PasswordHash == "hunter22" {
		t.Fatalf("password stored in plain text")
	}

	logged, token2, err := svc.Login(ctx, "a@example.com", "hunter22")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if token2 == "" || logged.ID != user.ID {
		t.Fatalf("login returned wrong user")
	}
}

func TestLoginWrongPassword(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	if _, _, err := svc.Register(ctx, "a@example.com", "hunter22", ""); err != nil {
		t.Fatalf("Register: %v", err)
	}

	if _, _, err := svc.Login(ctx, "a@example.com", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, _, err := svc.Login(ctx, "nobody@example.com", "hunter22"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown email, got %v", err)
	}
}

func TestRegisterValidation(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	if _, _, err := svc.Register(ctx, "not-an-email", "hunter22", ""); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for bad email, got %v", err)
	}
	if _, _, err := svc.Register(ctx, "a@example.com", "short", ""); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for short password, got %v", err)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	if _, _, err := svc.Register(ctx, "a@example.com", "hunter22", ""); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if _, _, err := svc.Register(ctx, "A@EXAMPLE.COM", "hunter22", ""); !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}
