package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/RazvanGorea/show-and-tell-api/internal/auth"
	"github.com/RazvanGorea/show-and-tell-api/internal/db"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	// ErrEmailTaken is returned when signing up with an email that already
	// has an account.
	ErrEmailTaken = errors.New("email already registered")
	// ErrInvalidCredentials is returned on a failed login. Deliberately the
	// same for unknown email and wrong password.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrInvalidSignupInput is returned when required signup fields are
	// missing.
	ErrInvalidSignupInput = errors.New("invalid signup input")
)

// GoogleVerifier resolves a client-supplied access token into a Google
// profile. Implemented by auth.GoogleProvider.
type GoogleVerifier interface {
	UserInfo(ctx context.Context, accessToken string) (*auth.GoogleUser, error)
}

// AuthService covers signup, login and Google sign-in, all producing signed
// session tokens.
type AuthService struct {
	db     *gorm.DB
	tokens *auth.TokenService
	google GoogleVerifier
}

// NewAuthService constructs an AuthService.
func NewAuthService(gdb *gorm.DB, tokens *auth.TokenService, google GoogleVerifier) *AuthService {
	return &AuthService{db: gdb, tokens: tokens, google: google}
}

// Signup registers a new account and returns a session token for it.
func (s *AuthService) Signup(name, email, password string) (string, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	if name == "" || email == "" || password == "" {
		return "", fmt.Errorf("%w: name, email and password are required", ErrInvalidSignupInput)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}

	user := db.User{
		Name:      name,
		Email:     email,
		Password:  string(hashed),
		ResetCode: db.NoResetCode,
	}
	if err := s.db.Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return "", ErrEmailTaken
		}
		return "", fmt.Errorf("create user: %w", err)
	}

	return s.tokens.Generate(user.ID, user.Email)
}

// Login verifies the credentials and returns a session token.
func (s *AuthService) Login(email, password string) (string, error) {
	var user db.User
	if err := s.db.Where("email = ?", strings.TrimSpace(email)).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", fmt.Errorf("find user by email: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}

	return s.tokens.Generate(user.ID, user.Email)
}

// GoogleSignIn resolves a Google access token into an account, creating one
// on first sign-in, and returns a session token.
func (s *AuthService) GoogleSignIn(ctx context.Context, accessToken string) (string, error) {
	profile, err := s.google.UserInfo(ctx, accessToken)
	if err != nil {
		return "", fmt.Errorf("verify google token: %w", err)
	}

	var user db.User
	err = s.db.Where("email = ?", profile.Email).First(&user).Error
	switch {
	case err == nil:
		// Existing account, regardless of how it was created.
	case errors.Is(err, gorm.ErrRecordNotFound):
		// First Google sign-in. The account gets an unguessable local
		// password so it can only be entered through Google until the user
		// sets one via password reset.
		placeholder, err := randomPassword()
		if err != nil {
			return "", err
		}
		user = db.User{
			Name:      profile.Name,
			Email:     profile.Email,
			Avatar:    profile.Picture,
			Password:  placeholder,
			ResetCode: db.NoResetCode,
		}
		if err := s.db.Create(&user).Error; err != nil {
			return "", fmt.Errorf("create google user: %w", err)
		}
	default:
		return "", fmt.Errorf("find user by email: %w", err)
	}

	return s.tokens.Generate(user.ID, user.Email)
}

func randomPassword() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate placeholder password: %w", err)
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(hex.EncodeToString(buf)), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash placeholder password: %w", err)
	}
	return string(hashed), nil
}
