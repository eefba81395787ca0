package handler

import (
	"github.com/RazvanGorea/show-and-tell-api/internal/auth"
	"github.com/RazvanGorea/show-and-tell-api/internal/service"
	"gorm.io/gorm"
)

// API bundles shared dependencies for HTTP handlers.
type API struct {
	db      *gorm.DB
	history *service.HistoryService
	saves   *service.SavesService
	users   *service.UserService
	posts   *service.PostService
	auth    *service.AuthService
}

// NewAPI constructs a handler set with shared services.
func NewAPI(gdb *gorm.DB, tokens *auth.TokenService, google service.GoogleVerifier, mailer service.CodeMailer, uploads service.AvatarUploader) *API {
	return &API{
		db:      gdb,
		history: service.NewHistoryService(gdb),
		saves:   service.NewSavesService(gdb),
		users:   service.NewUserService(gdb, mailer, uploads),
		posts:   service.NewPostService(gdb),
		auth:    service.NewAuthService(gdb, tokens, google),
	}
}
