package service

import (
	"context"
	"errors"
	"testing"

	"github.com/RazvanGorea/show-and-tell-api/internal/auth"
	"github.com/RazvanGorea/show-and-tell-api/internal/db"
)

type fakeGoogle struct {
	user *auth.GoogleUser
	err  error
}

func (g *fakeGoogle) UserInfo(context.Context, string) (*auth.GoogleUser, error) {
	return g.user, g.err
}

func newTestTokenService(t *testing.T) *auth.TokenService {
	t.Helper()
	tokens, err := auth.NewTokenService("test-secret-test-secret")
	if err != nil {
		t.Fatalf("new token service: %v", err)
	}
	return tokens
}

func TestAuthService_SignupIssuesToken(t *testing.T) {
	gdb := setupServiceTestDB(t)
	tokens := newTestTokenService(t)
	svc := NewAuthService(gdb, tokens, &fakeGoogle{})

	token, err := svc.Signup("New User", "new@example.com", "password123")
	if err != nil {
		t.Fatalf("signup: %v", err)
	}

	identity, err := tokens.Validate(token)
	if err != nil {
		t.Fatalf("validate issued token: %v", err)
	}
	if identity.Email != "new@example.com" {
		t.Fatalf("expected token email %q, got %q", "new@example.com", identity.Email)
	}

	var user db.User
	if err := gdb.Where("email = ?", "new@example.com").First(&user).Error; err != nil {
		t.Fatalf("load created user: %v", err)
	}
	if user.ResetCode != db.NoResetCode {
		t.Fatalf("expected no pending code, got %q", user.ResetCode)
	}
	if user.Password == "password123" {
		t.Fatal("password must not be stored in plain text")
	}
}

func TestAuthService_SignupRejectsDuplicateEmail(t *testing.T) {
	gdb := setupServiceTestDB(t)
	svc := NewAuthService(gdb, newTestTokenService(t), &fakeGoogle{})

	if _, err := svc.Signup("First", "dup@example.com", "password1"); err != nil {
		t.Fatalf("first signup: %v", err)
	}
	if _, err := svc.Signup("Second", "dup@example.com", "password2"); !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestAuthService_SignupRequiresFields(t *testing.T) {
	gdb := setupServiceTestDB(t)
	svc := NewAuthService(gdb, newTestTokenService(t), &fakeGoogle{})

	if _, err := svc.Signup("", "a@example.com", "pw"); !errors.Is(err, ErrInvalidSignupInput) {
		t.Fatalf("expected ErrInvalidSignupInput, got %v", err)
	}
}

func TestAuthService_Login(t *testing.T) {
	gdb := setupServiceTestDB(t)
	tokens := newTestTokenService(t)
	svc := NewAuthService(gdb, tokens, &fakeGoogle{})

	if _, err := svc.Signup("Login User", "login@example.com", "right-password"); err != nil {
		t.Fatalf("signup: %v", err)
	}

	token, err := svc.Login("login@example.com", "right-password")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if _, err := tokens.Validate(token); err != nil {
		t.Fatalf("validate login token: %v", err)
	}

	if _, err := svc.Login("login@example.com", "wrong-password"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for wrong password, got %v", err)
	}
	if _, err := svc.Login("ghost@example.com", "whatever"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown email, got %v", err)
	}
}

func TestAuthService_GoogleSignInCreatesAccountOnce(t *testing.T) {
	gdb := setupServiceTestDB(t)
	tokens := newTestTokenService(t)
	google := &fakeGoogle{user: &auth.GoogleUser{
		Sub:     "google-sub-1",
		Email:   "g@example.com",
		Name:    "G User",
		Picture: "https://lh3.example.com/photo.jpg",
	}}
	svc := NewAuthService(gdb, tokens, google)

	token, err := svc.GoogleSignIn(context.Background(), "client-access-token")
	if err != nil {
		t.Fatalf("first google sign-in: %v", err)
	}
	if _, err := tokens.Validate(token); err != nil {
		t.Fatalf("validate google token: %v", err)
	}

	if _, err := svc.GoogleSignIn(context.Background(), "client-access-token"); err != nil {
		t.Fatalf("second google sign-in: %v", err)
	}

	var count int64
	if err := gdb.Model(&db.User{}).Where("email = ?", "g@example.com").Count(&count).Error; err != nil {
		t.Fatalf("count users: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected exactly 1 account, got %d", count)
	}

	var user db.User
	if err := gdb.Where("email = ?", "g@example.com").First(&user).Error; err != nil {
		t.Fatalf("load user: %v", err)
	}
	if user.Avatar != google.user.Picture || user.Name != google.user.Name {
		t.Fatalf("expected profile from Google, got %q %q", user.Name, user.Avatar)
	}
}

func TestAuthService_GoogleSignInPropagatesVerifierError(t *testing.T) {
	gdb := setupServiceTestDB(t)
	svc := NewAuthService(gdb, newTestTokenService(t), &fakeGoogle{err: errors.New("token rejected")})

	if _, err := svc.GoogleSignIn(context.Background(), "bad-token"); err == nil {
		t.Fatal("expected error from rejected token")
	}
}
