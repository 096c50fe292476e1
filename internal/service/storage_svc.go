package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// ==================== Interface ====================

// PhotoRef is the stable reference the pipeline stores for an uploaded photo.
// The binary itself is owned by the storage collaborator.
type PhotoRef struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// StorageProvider stores photo binaries and hands back stable references.
type StorageProvider interface {
	Upload(ctx context.Context, data []byte, filename string, contentType string) (PhotoRef, error)
	Delete(ctx context.Context, id string) error
}

// ==================== Config ====================

// StorageConfig provider selection and credentials.
type StorageConfig struct {
	Provider  string // "s3" | "local"
	Bucket    string
	Region    string
	AccessKey string
	SecretKey string
	CDNDomain string
	BasePath  string
	LocalDir  string // local provider root
	LocalURL  string // public prefix for locally stored files
}

// NewStorageProvider selects the configured provider.
func NewStorageProvider(cfg *StorageConfig) (StorageProvider, error) {
	switch cfg.Provider {
	case "s3":
		return NewS3Storage(cfg)
	case "local":
		return NewLocalStorage(cfg)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownStorageProvider, cfg.Provider)
	}
}

// photoKey builds a collision-free object key, keeping the file extension.
// The key doubles as the photo id stored on the artisan.
func photoKey(basePath, filename string) string {
	key := uuid.NewString() + strings.ToLower(filepath.Ext(filename))
	if basePath != "" {
		key = strings.TrimSuffix(basePath, "/") + "/" + key
	}
	return key
}

// ==================== S3 provider ====================

// S3Storage stores photos in an S3 bucket, optionally served through a CDN.
type S3Storage struct {
	client    *s3.Client
	bucket    string
	region    string
	cdnDomain string
	basePath  string
}

// NewS3Storage creates the S3 provider.
func NewS3Storage(cfg *StorageConfig) (*S3Storage, error) {
	awsCfg, err := config.LoadDefaultConfig(context.Background(),
		config.WithRegion(cfg.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKey,
			cfg.SecretKey,
			"",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	return &S3Storage{
		client:    s3.NewFromConfig(awsCfg),
		bucket:    cfg.Bucket,
		region:    cfg.Region,
		cdnDomain: cfg.CDNDomain,
		basePath:  cfg.BasePath,
	}, nil
}

func (s *S3Storage) Upload(ctx context.Context, data []byte, filename string, contentType string) (PhotoRef, error) {
	key := photoKey(s.basePath, filename)

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return PhotoRef{}, fmt.Errorf("s3 put object: %w", err)
	}

	return PhotoRef{ID: key, URL: s.publicURL(key)}, nil
}

func (s *S3Storage) publicURL(key string) string {
	if s.cdnDomain != "" {
		return fmt.Sprintf("https://%s/%s", s.cdnDomain, key)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, key)
}

func (s *S3Storage) Delete(ctx context.Context, id string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(id),
	})
	return err
}

// ==================== Local provider ====================

// LocalStorage stores photos on disk, for development setups.
type LocalStorage struct {
	dir       string
	publicURL string
	basePath  string
}

// NewLocalStorage creates the local-disk provider.
func NewLocalStorage(cfg *StorageConfig) (*LocalStorage, error) {
	dir := cfg.LocalDir
	if dir == "" {
		dir = "uploads"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &LocalStorage{
		dir:       dir,
		publicURL: strings.TrimSuffix(cfg.LocalURL, "/"),
		basePath:  cfg.BasePath,
	}, nil
}

func (l *LocalStorage) Upload(_ context.Context, data []byte, filename string, _ string) (PhotoRef, error) {
	key := photoKey(l.basePath, filename)

	path := filepath.Join(l.dir, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return PhotoRef{}, err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return PhotoRef{}, err
	}

	return PhotoRef{ID: key, URL: l.publicURL + "/" + key}, nil
}

func (l *LocalStorage) Delete(_ context.Context, id string) error {
	return os.Remove(filepath.Join(l.dir, filepath.FromSlash(id)))
}

// ==================== Errors ====================

var ErrUnknownStorageProvider = errors.New("unknown storage provider")
