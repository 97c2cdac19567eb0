package storage

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"menu-catalog/internal/config"
)

// Compile-time check that the S3 store satisfies AssetStore.
var _ AssetStore = (*S3AssetStore)(nil)

// S3AssetStore implements AssetStore against any S3-compatible backend
// (AWS S3, MinIO, RustFS). Objects are stored under keys without an
// extension so the public id survives a round trip through the URL.
type S3AssetStore struct {
	client    *s3.Client
	bucket    string
	keyPrefix string
	publicURL string
	logger    *zap.Logger
}

// NewS3AssetStore builds an asset store from configuration.
func NewS3AssetStore(cfg config.StorageConfig, logger *zap.Logger) (*S3AssetStore, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("storage bucket is required")
	}
	if cfg.AccessKey == "" || cfg.SecretKey == "" {
		return nil, errors.New("storage credentials are required")
	}

	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = "http://localhost:9000"
	}
	if !strings.HasPrefix(endpoint, "http://") && !strings.HasPrefix(endpoint, "https://") {
		endpoint = "http://" + endpoint
	}

	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithRegion(region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKey,
			cfg.SecretKey,
			"",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.UsePathStyle
		o.BaseEndpoint = aws.String(endpoint)
	})

	publicURL := strings.TrimSuffix(cfg.PublicBaseURL, "/")
	if publicURL == "" {
		publicURL = endpoint + "/" + cfg.Bucket
	}

	if logger == nil {
		logger = zap.NewNop()
	}

	return &S3AssetStore{
		client:    client,
		bucket:    cfg.Bucket,
		keyPrefix: strings.Trim(cfg.KeyPrefix, "/"),
		publicURL: publicURL,
		logger:    logger,
	}, nil
}

// Upload pushes a local file to the bucket and returns its remote
// reference. The caller owns the local file and its cleanup.
func (s *S3AssetStore) Upload(ctx context.Context, localPath string) (Asset, error) {
	file, err := os.Open(localPath)
	if err != nil {
		return Asset{}, fmt.Errorf("failed to open upload file: %w", err)
	}
	defer file.Close()

	contentType := mime.TypeByExtension(filepath.Ext(localPath))
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	publicID := uuid.NewString()
	key := s.objectKey(publicID)

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        file,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return Asset{}, fmt.Errorf("failed to upload object: %w", err)
	}

	s.logger.Debug("Uploaded asset",
		zap.String("key", key),
		zap.String("content_type", contentType),
	)

	return Asset{
		URL:      s.publicURL + "/" + key,
		PublicID: publicID,
	}, nil
}

// Delete removes an object by public id. Callers treat failures as
// non-fatal; the error is returned so they can log it.
func (s *S3AssetStore) Delete(ctx context.Context, publicID string) error {
	if publicID == "" {
		return errors.New("public id is required")
	}

	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.objectKey(publicID)),
	})
	if err != nil {
		return fmt.Errorf("failed to delete object: %w", err)
	}

	return nil
}

func (s *S3AssetStore) objectKey(publicID string) string {
	if s.keyPrefix == "" {
		return publicID
	}
	return path.Join(s.keyPrefix, publicID)
}
