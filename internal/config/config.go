package config

import (
	"fmt"
	"os"
	"strings"
)

// AppConfig collects everything needed to run the service.
type AppConfig struct {
	ListenAddr   string
	Port         string
	DatabasePath string
	GinMode      string

	JWTSecret string

	GoogleClientID     string
	GoogleClientSecret string

	SMTPHost     string
	SMTPPort     string
	SMTPUsername string
	SMTPPassword string
	MailFrom     string

	S3Region        string
	S3Bucket        string
	S3AccessKey     string
	S3SecretKey     string
	S3Endpoint      string
	S3PublicBaseURL string
}

// Load reads the application configuration from environment variables,
// providing safe defaults for missing values. Secrets default to dev-only
// placeholders; production deployments must set them.
func Load() AppConfig {
	port := strings.TrimSpace(os.Getenv("PORT"))
	if port == "" {
		port = "8080"
	}

	listenAddr := strings.TrimSpace(os.Getenv("LISTEN_ADDR"))
	if listenAddr == "" {
		listenAddr = fmt.Sprintf(":%s", port)
	}

	databasePath := strings.TrimSpace(os.Getenv("DATABASE_PATH"))
	if databasePath == "" {
		databasePath = "showandtell.db"
	}

	ginMode := strings.TrimSpace(os.Getenv("GIN_MODE"))
	if ginMode == "" {
		ginMode = "release"
	}

	jwtSecret := strings.TrimSpace(os.Getenv("JWT_SECRET"))
	if jwtSecret == "" {
		jwtSecret = "show-and-tell-dev-secret"
	}

	smtpPort := strings.TrimSpace(os.Getenv("SMTP_PORT"))
	if smtpPort == "" {
		smtpPort = "587"
	}

	mailFrom := strings.TrimSpace(os.Getenv("MAIL_FROM"))
	if mailFrom == "" {
		mailFrom = "no-reply@show-and-tell.dev"
	}

	s3Region := strings.TrimSpace(os.Getenv("S3_REGION"))
	if s3Region == "" {
		s3Region = "eu-central-1"
	}

	return AppConfig{
		ListenAddr:   listenAddr,
		Port:         port,
		DatabasePath: databasePath,
		GinMode:      ginMode,

		JWTSecret: jwtSecret,

		GoogleClientID:     strings.TrimSpace(os.Getenv("GOOGLE_CLIENT_ID")),
		GoogleClientSecret: strings.TrimSpace(os.Getenv("GOOGLE_CLIENT_SECRET")),

		SMTPHost:     strings.TrimSpace(os.Getenv("SMTP_HOST")),
		SMTPPort:     smtpPort,
		SMTPUsername: strings.TrimSpace(os.Getenv("SMTP_USERNAME")),
		SMTPPassword: strings.TrimSpace(os.Getenv("SMTP_PASSWORD")),
		MailFrom:     mailFrom,

		S3Region:        s3Region,
		S3Bucket:        strings.TrimSpace(os.Getenv("S3_BUCKET")),
		S3AccessKey:     strings.TrimSpace(os.Getenv("S3_ACCESS_KEY")),
		S3SecretKey:     strings.TrimSpace(os.Getenv("S3_SECRET_KEY")),
		S3Endpoint:      strings.TrimSpace(os.Getenv("S3_ENDPOINT")),
		S3PublicBaseURL: strings.TrimSpace(os.Getenv("S3_PUBLIC_BASE_URL")),
	}
}
