package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/RazvanGorea/show-and-tell-api/internal/db"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	// ErrUserNotFound is returned when a referenced user does not exist.
	ErrUserNotFound = errors.New("user not found")
	// ErrInvalidResetCode is returned when a submitted verification code
	// does not match the user's pending code. The no-pending-code sentinel
	// never matches.
	ErrInvalidResetCode = errors.New("invalid reset code")
	// ErrInvalidProfileInput is returned when required profile fields are
	// missing.
	ErrInvalidProfileInput = errors.New("invalid profile input")
)

// Subjects for verification-code emails.
const (
	SubjectProfileUpdate = "Profile update"
	SubjectPasswordReset = "Password reset"
)

// CodeMailer delivers one-time verification codes. Sends are awaited: a
// delivery failure fails the whole operation.
type CodeMailer interface {
	SendCode(code, recipient, subject string) error
}

// AvatarUploader optimizes avatar images and persists them to the external
// object store, returning a public URL.
type AvatarUploader interface {
	Optimize(data []byte, width, height int) ([]byte, error)
	Upload(ctx context.Context, data []byte, filename string) (string, error)
}

// Avatars are resized to a fixed square before upload.
const avatarSize = 100

// UserService covers profile reads and the verification-code guarded
// mutations: profile updates and password resets.
type UserService struct {
	db      *gorm.DB
	mailer  CodeMailer
	uploads AvatarUploader
}

// NewUserService constructs a UserService.
func NewUserService(gdb *gorm.DB, mailer CodeMailer, uploads AvatarUploader) *UserService {
	return &UserService{db: gdb, mailer: mailer, uploads: uploads}
}

// ProfileView is the authenticated user's own profile.
type ProfileView struct {
	ID     uint   `json:"_id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Avatar string `json:"avatar"`
}

// PublicProfileView is another user's profile together with their posts.
type PublicProfileView struct {
	ID     uint      `json:"_id"`
	Name   string    `json:"name"`
	Email  string    `json:"email"`
	Avatar string    `json:"avatar"`
	Posts  []db.Post `json:"posts"`
}

// Profile returns the user's own profile fields.
func (s *UserService) Profile(userID uint) (*ProfileView, error) {
	user, err := s.findByID(userID)
	if err != nil {
		return nil, err
	}
	return &ProfileView{ID: user.ID, Name: user.Name, Email: user.Email, Avatar: user.Avatar}, nil
}

// PublicProfile returns a user's public fields and their posts.
func (s *UserService) PublicProfile(userID uint) (*PublicProfileView, error) {
	user, err := s.findByID(userID)
	if err != nil {
		return nil, err
	}

	posts, err := listPostsByAuthor(s.db, userID)
	if err != nil {
		return nil, err
	}

	return &PublicProfileView{
		ID:     user.ID,
		Name:   user.Name,
		Email:  user.Email,
		Avatar: user.Avatar,
		Posts:  posts,
	}, nil
}

// IssueProfileCode mints a fresh verification code for the user, stores it
// as the single pending code and emails it. A previously issued code is
// overwritten.
func (s *UserService) IssueProfileCode(userID uint) error {
	user, err := s.findByID(userID)
	if err != nil {
		return err
	}

	code, err := newResetCode()
	if err != nil {
		return err
	}

	if err := s.db.Model(&db.User{}).Where("id = ?", userID).
		Update("reset_code", code).Error; err != nil {
		return fmt.Errorf("store reset code: %w", err)
	}

	if err := s.mailer.SendCode(code, user.Email, SubjectProfileUpdate); err != nil {
		return fmt.Errorf("send profile code: %w", err)
	}
	return nil
}

// IssuePasswordResetCode mints a code for the account with the given email
// and mails it. Unknown emails are not reported back to the caller, which
// keeps the endpoint from leaking which addresses have accounts.
func (s *UserService) IssuePasswordResetCode(email string) error {
	code, err := newResetCode()
	if err != nil {
		return err
	}

	res := s.db.Model(&db.User{}).Where("email = ?", email).
		Update("reset_code", code)
	if res.Error != nil {
		return fmt.Errorf("store reset code: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil
	}

	if err := s.mailer.SendCode(code, email, SubjectPasswordReset); err != nil {
		return fmt.Errorf("send reset code: %w", err)
	}
	return nil
}

// CheckResetCode verifies a pending password-reset code by exact string
// match. The sentinel value meaning "no pending code" never validates.
func (s *UserService) CheckResetCode(email, code string) error {
	if code == "" || code == db.NoResetCode {
		return ErrInvalidResetCode
	}

	var count int64
	if err := s.db.Model(&db.User{}).
		Where("email = ? AND reset_code = ?", email, code).
		Count(&count).Error; err != nil {
		return fmt.Errorf("check reset code: %w", err)
	}
	if count == 0 {
		return ErrInvalidResetCode
	}
	return nil
}

// ResetPassword sets a new password after verifying the pending code, then
// consumes the code. The password and code land in one write so a failure
// cannot leave the code consumed without the password changed.
func (s *UserService) ResetPassword(email, code, password string) error {
	if strings.TrimSpace(password) == "" {
		return fmt.Errorf("%w: password is required", ErrInvalidProfileInput)
	}

	var user db.User
	if err := s.db.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("find user by email: %w", err)
	}

	if user.ResetCode != code || user.ResetCode == db.NoResetCode {
		return ErrInvalidResetCode
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	if err := s.db.Model(&user).Updates(map[string]any{
		"password":   string(hashed),
		"reset_code": db.NoResetCode,
	}).Error; err != nil {
		return fmt.Errorf("reset password: %w", err)
	}
	return nil
}

// ProfileUpdate describes the fields accepted by UpdateProfile. Name and
// Code are required; empty Email, Password and Avatar leave the current
// values untouched.
type ProfileUpdate struct {
	Code       string
	Name       string
	Email      string
	Password   string
	Avatar     []byte
	AvatarName string
}

// UpdateProfile applies a verification-code guarded profile update. When an
// avatar is supplied it is resized and uploaded before anything is written,
// so an upload failure leaves the profile unchanged. The pending code is
// consumed by the same write that applies the update.
func (s *UserService) UpdateProfile(ctx context.Context, userID uint, update ProfileUpdate) error {
	if strings.TrimSpace(update.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidProfileInput)
	}

	user, err := s.findByID(userID)
	if err != nil {
		return err
	}

	if user.ResetCode != update.Code || user.ResetCode == db.NoResetCode {
		return ErrInvalidResetCode
	}

	changes := map[string]any{
		"reset_code": db.NoResetCode,
		"name":       strings.TrimSpace(update.Name),
	}
	if update.Email != "" {
		changes["email"] = update.Email
	}
	if update.Password != "" {
		hashed, err := bcrypt.GenerateFromPassword([]byte(update.Password), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("hash password: %w", err)
		}
		changes["password"] = string(hashed)
	}
	if len(update.Avatar) > 0 {
		img, err := s.uploads.Optimize(update.Avatar, avatarSize, avatarSize)
		if err != nil {
			return fmt.Errorf("optimize avatar: %w", err)
		}
		url, err := s.uploads.Upload(ctx, img, update.AvatarName)
		if err != nil {
			return fmt.Errorf("upload avatar: %w", err)
		}
		changes["avatar"] = url
	}

	if err := s.db.Model(&user).Updates(changes).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// The new email already belongs to another account.
			return ErrEmailTaken
		}
		return fmt.Errorf("update profile: %w", err)
	}
	return nil
}

func (s *UserService) findByID(userID uint) (*db.User, error) {
	var user db.User
	if err := s.db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return &user, nil
}

// newResetCode mints an opaque verification code. Six hex characters is
// short enough to type from an email and can never collide with the
// no-pending-code sentinel.
func newResetCode() (string, error) {
	buf := make([]byte, 3)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate reset code: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
