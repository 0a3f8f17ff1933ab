package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/cocktailgram/backend/config"
)

var ErrInvalidImage = errors.New("invalid image encoding")

// ImageStorage stores decoded image bytes and returns a retrievable URL.
// Tests substitute an in-memory implementation.
type ImageStorage interface {
	UploadImage(ctx context.Context, data []byte, contentType string) (string, error)
}

// DecodeDataURI decodes a base64 data-URI string ("data:image/png;base64,...")
// into raw bytes and its content type.
func DecodeDataURI(s string) ([]byte, string, error) {
	if !strings.HasPrefix(s, "data:") {
		return nil, "", ErrInvalidImage
	}
	meta, payload, found := strings.Cut(s[len("data:"):], ",")
	if !found || !strings.HasSuffix(meta, ";base64") {
		return nil, "", ErrInvalidImage
	}
	contentType := strings.TrimSuffix(meta, ";base64")
	if !strings.HasPrefix(contentType, "image/") {
		return nil, "", ErrInvalidImage
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil || len(data) == 0 {
		return nil, "", ErrInvalidImage
	}
	return data, contentType, nil
}

// S3ImageStorage stores recipe images in S3 behind a public-read bucket.
type S3ImageStorage struct {
	s3Config *config.S3Config
}

func NewS3ImageStorage(s3Config *config.S3Config) *S3ImageStorage {
	return &S3ImageStorage{s3Config: s3Config}
}

// UploadImage uploads image data to S3 and returns the public URL
func (s *S3ImageStorage) UploadImage(ctx context.Context, data []byte, contentType string) (string, error) {
	fileName := fmt.Sprintf("recipe-images/%s%s", uuid.New().String(), extensionFor(contentType))

	_, err := s.s3Config.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.s3Config.BucketName),
		Key:         aws.String(fileName),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to S3: %w", err)
	}

	publicURL := fmt.Sprintf("https://%s.s3.amazonaws.com/%s", s.s3Config.BucketName, fileName)
	log.Printf("[ImageStorage] Uploaded image to S3: %s", publicURL)

	return publicURL, nil
}

// LocalImageStorage writes images to a directory on disk and returns
// URLs under urlPrefix. Used in development when no S3 bucket is set.
type LocalImageStorage struct {
	dir       string
	urlPrefix string
}

func NewLocalImageStorage(dir, urlPrefix string) (*LocalImageStorage, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create image directory: %w", err)
	}
	return &LocalImageStorage{dir: dir, urlPrefix: strings.TrimSuffix(urlPrefix, "/")}, nil
}

func (s *LocalImageStorage) UploadImage(ctx context.Context, data []byte, contentType string) (string, error) {
	fileName := uuid.New().String() + extensionFor(contentType)
	if err := os.WriteFile(filepath.Join(s.dir, fileName), data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write image: %w", err)
	}
	return s.urlPrefix + "/" + fileName, nil
}

func extensionFor(contentType string) string {
	switch contentType {
	case "image/jpeg":
		return ".jpg"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	default:
		return ".png"
	}
}
