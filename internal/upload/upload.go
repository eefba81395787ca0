// Package upload resizes avatar images and stores them in an S3-compatible
// bucket.
package upload

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// Config holds the object-store settings. Endpoint is optional and points
// the client at an S3-compatible service such as MinIO.
type Config struct {
	Region        string
	Bucket        string
	AccessKey     string
	SecretKey     string
	Endpoint      string
	PublicBaseURL string
}

// Service optimizes and uploads avatar images. It implements the
// service.AvatarUploader interface.
type Service struct {
	client *s3.Client
	cfg    Config
}

// New builds the S3 client and returns an upload Service.
func New(ctx context.Context, cfg Config) (*Service, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKey,
			cfg.SecretKey,
			"",
		)))
	if err != nil {
		return nil, fmt.Errorf("upload: loading aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return &Service{client: client, cfg: cfg}, nil
}

// Upload stores the image bytes under a fresh key derived from the original
// filename and returns the public URL.
func (s *Service) Upload(ctx context.Context, data []byte, filename string) (string, error) {
	key := fmt.Sprintf("avatars/%s%s", uuid.NewString(), safeExt(filename))

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.cfg.Bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(http.DetectContentType(data)),
	})
	if err != nil {
		return "", fmt.Errorf("upload: putting object %s: %w", key, err)
	}

	return strings.TrimRight(s.cfg.PublicBaseURL, "/") + "/" + key, nil
}

func safeExt(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".jpg", ".jpeg", ".png", ".gif", ".webp":
		return ext
	default:
		return ".jpg"
	}
}
