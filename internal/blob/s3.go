package blob

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/streamsforlab/mediastore/internal/common"
)

// S3Config carries the settings for an S3-compatible backend (MinIO in
// development, AWS S3 in production).
type S3Config struct {
	RootUser     string
	RootPassword string
	Bucket       string
	Region       string
	BaseEndpoint string
}

// S3Store keeps payloads as objects in a single bucket. Locations are used
// as object keys with the leading slash stripped.
type S3Store struct {
	client *s3.Client
	bucket string
}

func NewS3Store(ctx context.Context, cfg S3Config) (*S3Store, error) {
	awsCfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(cfg.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.RootUser,
			cfg.RootPassword,
			"",
		)))
	if err != nil {
		return nil, fmt.Errorf("aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(cfg.BaseEndpoint)
		o.UsePathStyle = true
	})

	return &S3Store{client: client, bucket: cfg.Bucket}, nil
}

func objectKey(location string) string {
	return strings.TrimPrefix(location, "/")
}

func (s *S3Store) WriteBytes(ctx context.Context, location string, data []byte) error {
	key := objectKey(location)
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: &s.bucket,
		Key:    &key,
		Body:   bytes.NewReader(data),
	})
	if err != nil {
		return fmt.Errorf("%w: put %s: %v", common.ErrIO, location, err)
	}
	return nil
}

func (s *S3Store) ReadBytes(ctx context.Context, location string) ([]byte, error) {
	key := objectKey(location)
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: &s.bucket,
		Key:    &key,
	})
	if err != nil {
		var noKey *types.NoSuchKey
		if errors.As(err, &noKey) {
			return nil, fmt.Errorf("%w: %s", common.ErrNotFound, location)
		}
		return nil, fmt.Errorf("%w: get %s: %v", common.ErrIO, location, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", common.ErrIO, location, err)
	}
	return data, nil
}

func (s *S3Store) DeleteAt(ctx context.Context, location string) error {
	key := objectKey(location)

	// DeleteObject is silent for absent keys, so check existence first to
	// keep the not-found contract of the Store interface.
	_, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: &s.bucket,
		Key:    &key,
	})
	if err != nil {
		var notFound *types.NotFound
		if errors.As(err, &notFound) {
			return fmt.Errorf("%w: %s", common.ErrNotFound, location)
		}
		return fmt.Errorf("%w: head %s: %v", common.ErrIO, location, err)
	}

	if _, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: &s.bucket,
		Key:    &key,
	}); err != nil {
		return fmt.Errorf("%w: delete %s: %v", common.ErrIO, location, err)
	}
	return nil
}

// EnsureDir is a no-op: object storage has no directories.
func (s *S3Store) EnsureDir(ctx context.Context, location string) error {
	return nil
}
