package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"

	appconfig "secureinvestor/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// ObjectStore uploads document bodies to a key-addressed blob store
type ObjectStore interface {
	Put(ctx context.Context, key string, body []byte, contentType string) error
	Exists(ctx context.Context, key string) (bool, error)
}

// Store is the global object store instance
var Store ObjectStore

// S3Store implements ObjectStore on Amazon S3 with server-side encryption
type S3Store struct {
	client *s3.Client
	bucket string
}

// Connect initializes the global S3-backed object store
func Connect() {
	store, err := NewS3Store(context.Background())
	if err != nil {
		log.Fatalf("Failed to initialize S3 object store: %v", err)
	}
	Store = store
}

// NewS3Store builds an S3 client from the default AWS credential chain
func NewS3Store(ctx context.Context) (*S3Store, error) {
	cfg := appconfig.AppConfig
	if cfg.AWSBucket == "" {
		return nil, errors.New("s3 bucket is required")
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWSRegion))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	return &S3Store{
		client: s3.NewFromConfig(awsCfg),
		bucket: cfg.AWSBucket,
	}, nil
}

// Put uploads body under key with AES256 server-side encryption
func (s *S3Store) Put(ctx context.Context, key string, body []byte, contentType string) error {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:               aws.String(s.bucket),
		Key:                  aws.String(key),
		Body:                 bytes.NewReader(body),
		ServerSideEncryption: s3types.ServerSideEncryptionAes256,
		ContentType:          aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("s3 put object bucket=%s key=%s: %w", s.bucket, key, err)
	}
	return nil
}

// Exists checks that the uploaded object is really there
func (s *S3Store) Exists(ctx context.Context, key string) (bool, error) {
	_, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var notFound *s3types.NotFound
		if errors.As(err, &notFound) {
			return false, nil
		}
		return false, fmt.Errorf("s3 head object bucket=%s key=%s: %w", s.bucket, key, err)
	}
	return true, nil
}

var _ ObjectStore = (*S3Store)(nil)
