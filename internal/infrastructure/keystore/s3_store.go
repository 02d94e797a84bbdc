package keystore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"go.uber.org/zap"

	"github.com/nextpos/printing/internal/domain/credential"
	infraconfig "github.com/nextpos/printing/internal/infrastructure/config"
)

// S3API is the subset of the S3 client used by S3KeyStore
type S3API interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	HeadBucket(ctx context.Context, params *s3.HeadBucketInput, optFns ...func(*s3.Options)) (*s3.HeadBucketOutput, error)
	CreateBucket(ctx context.Context, params *s3.CreateBucketInput, optFns ...func(*s3.Options)) (*s3.CreateBucketOutput, error)
}

// S3KeyStore keeps the key pair as two objects in an S3-compatible bucket
// (AWS S3, MinIO, RustFS, ...)
type S3KeyStore struct {
	client S3API
	bucket string
	prefix string
	logger *zap.Logger
}

var _ credential.KeyStore = (*S3KeyStore)(nil)

// S3KeyStoreOption is a functional option for configuring S3KeyStore
type S3KeyStoreOption func(*S3KeyStore)

// WithS3Logger sets a custom logger for S3KeyStore
func WithS3Logger(logger *zap.Logger) S3KeyStoreOption {
	return func(s *S3KeyStore) {
		s.logger = logger
	}
}

// WithS3Client replaces the S3 client, mainly for tests
func WithS3Client(client S3API) S3KeyStoreOption {
	return func(s *S3KeyStore) {
		s.client = client
	}
}

// NewS3KeyStore creates an S3KeyStore from storage configuration
func NewS3KeyStore(cfg *infraconfig.StorageConfig, prefix string, opts ...S3KeyStoreOption) (*S3KeyStore, error) {
	if cfg == nil {
		return nil, errors.New("storage configuration is required")
	}
	if cfg.Bucket == "" {
		return nil, errors.New("storage bucket is required")
	}

	store := &S3KeyStore{
		bucket: cfg.Bucket,
		prefix: prefix,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(store)
	}
	if store.client != nil {
		return store, nil
	}

	client, err := newS3Client(cfg)
	if err != nil {
		return nil, err
	}
	store.client = client
	return store, nil
}

func newS3Client(cfg *infraconfig.StorageConfig) (*s3.Client, error) {
	if cfg.AccessKey == "" {
		return nil, errors.New("storage access key is required")
	}
	if cfg.SecretKey == "" {
		return nil, errors.New("storage secret key is required")
	}

	endpoint := cfg.Endpoint
	if endpoint != "" && !strings.HasPrefix(endpoint, "http://") && !strings.HasPrefix(endpoint, "https://") {
		if cfg.UseSSL {
			endpoint = "https://" + endpoint
		} else {
			endpoint = "http://" + endpoint
		}
	}
	if endpoint != "" {
		if _, err := url.Parse(endpoint); err != nil {
			return nil, fmt.Errorf("invalid storage endpoint: %w", err)
		}
	}

	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}

	awsCfg, err := config.LoadDefaultConfig(context.Background(),
		config.WithRegion(region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKey,
			cfg.SecretKey,
			"",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS config: %w", err)
	}

	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.UsePathStyle
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
	}), nil
}

// Name implements credential.KeyStore
func (s *S3KeyStore) Name() string { return "s3" }

// EnsureBucket creates the bucket if it doesn't exist
func (s *S3KeyStore) EnsureBucket(ctx context.Context) error {
	_, err := s.client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(s.bucket)})
	if err == nil {
		return nil
	}

	var notFound *types.NotFound
	var noSuchBucket *types.NoSuchBucket
	if !errors.As(err, &notFound) && !errors.As(err, &noSuchBucket) {
		return fmt.Errorf("failed to check bucket existence: %w", err)
	}

	s.logger.Info("Creating key bucket", zap.String("bucket", s.bucket))
	_, err = s.client.CreateBucket(ctx, &s3.CreateBucketInput{Bucket: aws.String(s.bucket)})
	if err != nil {
		var alreadyOwned *types.BucketAlreadyOwnedByYou
		if errors.As(err, &alreadyOwned) {
			return nil
		}
		return fmt.Errorf("failed to create bucket: %w", err)
	}
	return nil
}

// Load fetches both objects; a missing object leaves its field empty
func (s *S3KeyStore) Load(ctx context.Context) (*credential.KeyMaterial, error) {
	key, err := s.get(ctx, s.prefix+PrivateKeyFile)
	if err != nil {
		return nil, err
	}
	cert, err := s.get(ctx, s.prefix+CertificateFile)
	if err != nil {
		return nil, err
	}
	return &credential.KeyMaterial{PrivateKeyPEM: key, CertificatePEM: cert}, nil
}

// Save uploads both objects
func (s *S3KeyStore) Save(ctx context.Context, material *credential.KeyMaterial) error {
	if material == nil {
		return errors.New("key material is required")
	}
	if err := s.put(ctx, s.prefix+PrivateKeyFile, material.PrivateKeyPEM); err != nil {
		return err
	}
	if err := s.put(ctx, s.prefix+CertificateFile, material.CertificatePEM); err != nil {
		return err
	}
	s.logger.Info("Print bridge key pair uploaded",
		zap.String("bucket", s.bucket),
		zap.String("prefix", s.prefix))
	return nil
}

func (s *S3KeyStore) get(ctx context.Context, key string) (string, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var noSuchKey *types.NoSuchKey
		var notFound *types.NotFound
		if errors.As(err, &noSuchKey) || errors.As(err, &notFound) {
			return "", nil
		}
		return "", fmt.Errorf("failed to get object %s: %w", key, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read object %s: %w", key, err)
	}
	return string(data), nil
}

func (s *S3KeyStore) put(ctx context.Context, key, content string) error {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader([]byte(content)),
		ContentType: aws.String("application/x-pem-file"),
	})
	if err != nil {
		return fmt.Errorf("failed to put object %s: %w", key, err)
	}
	return nil
}
