// Package s3mirror copies finished archives to S3-compatible storage.
package s3mirror

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/jmcdonald/dfircase/internal/config"
	"github.com/jmcdonald/dfircase/internal/ports"
)

// Mirror implements ports.Mirror for S3-compatible backends.
type Mirror struct {
	client *s3.Client
	bucket string
	prefix string
}

// New creates a mirror from the offsite settings.
func New(cfg config.OffsiteConfig) (*Mirror, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("s3mirror: bucket is required")
	}
	opts := s3.Options{
		Region:      cfg.Region,
		Credentials: credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
	}

	if cfg.Endpoint != "" {
		opts.BaseEndpoint = aws.String(cfg.Endpoint)
		opts.UsePathStyle = true // MinIO and most self-hosted stores
	}

	return &Mirror{
		client: s3.New(opts),
		bucket: cfg.Bucket,
		prefix: strings.Trim(cfg.Prefix, "/"),
	}, nil
}

func (m *Mirror) key(name string) string {
	if m.prefix == "" {
		return name
	}
	return m.prefix + "/" + name
}

// Upload streams the file at localPath to the bucket and returns its s3:// URI.
func (m *Mirror) Upload(ctx context.Context, localPath, name string) (string, error) {
	f, err := os.Open(localPath)
	if err != nil {
		return "", err
	}
	defer f.Close()

	key := m.key(name)
	_, err = m.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(m.bucket),
		Key:         aws.String(key),
		Body:        f,
		ContentType: aws.String("application/zip"),
	})
	if err != nil {
		return "", fmt.Errorf("uploading %s: %w", key, err)
	}
	return "s3://" + m.bucket + "/" + key, nil
}

// Compile-time check that Mirror implements ports.Mirror.
var _ ports.Mirror = (*Mirror)(nil)
