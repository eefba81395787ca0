package main

import (
	"context"
	"log"

	"github.com/RazvanGorea/show-and-tell-api/internal/auth"
	"github.com/RazvanGorea/show-and-tell-api/internal/config"
	"github.com/RazvanGorea/show-and-tell-api/internal/db"
	"github.com/RazvanGorea/show-and-tell-api/internal/handler"
	"github.com/RazvanGorea/show-and-tell-api/internal/mail"
	"github.com/RazvanGorea/show-and-tell-api/internal/router"
	"github.com/RazvanGorea/show-and-tell-api/internal/upload"
	"github.com/gin-gonic/gin"
)

func main() {
	cfg := config.Load()
	gin.SetMode(cfg.GinMode)

	if err := db.Init(cfg.DatabasePath); err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}

	tokens, err := auth.NewTokenService(cfg.JWTSecret)
	if err != nil {
		log.Fatalf("failed to initialize token service: %v", err)
	}

	google := auth.NewGoogleProvider(cfg.GoogleClientID, cfg.GoogleClientSecret)

	mailer := mail.NewSMTPMailer(mail.Config{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUsername,
		Password: cfg.SMTPPassword,
		From:     cfg.MailFrom,
	})

	uploads, err := upload.New(context.Background(), upload.Config{
		Region:        cfg.S3Region,
		Bucket:        cfg.S3Bucket,
		AccessKey:     cfg.S3AccessKey,
		SecretKey:     cfg.S3SecretKey,
		Endpoint:      cfg.S3Endpoint,
		PublicBaseURL: cfg.S3PublicBaseURL,
	})
	if err != nil {
		log.Fatalf("failed to initialize upload service: %v", err)
	}

	api := handler.NewAPI(db.DB, tokens, google, mailer, uploads)

	r := router.Setup(api, tokens)
	if err := r.Run(cfg.ListenAddr); err != nil {
		log.Fatalf("failed to run server: %v", err)
	}
}
