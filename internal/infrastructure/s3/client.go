package s3infra

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/intake-dal/internal/config"
	"github.com/intake-dal/internal/domain"
	"github.com/intake-dal/internal/infrastructure/metrics"
)

const defaultSignedURLTTL = time.Hour

// Store wraps S3 operations for the application.
type Store struct {
	client    *s3.Client
	presigner *s3.PresignClient
	bucket    string
	baseURL   string
}

// NewClient creates an S3 client. A non-nil endpoint (LocalStack) also switches
// to path-style addressing.
func NewClient(awsCfg aws.Config, endpoint *string) *s3.Client {
	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if endpoint != nil {
			o.BaseEndpoint = endpoint
			o.UsePathStyle = true
		}
	})
}

// NewStore creates a Store with the given S3 client and bucket name. baseURL is
// the scheme and host used for stored path-style references.
func NewStore(client *s3.Client, bucket, baseURL string) *Store {
	return &Store{
		client:    client,
		presigner: s3.NewPresignClient(client),
		bucket:    bucket,
		baseURL:   strings.TrimSuffix(baseURL, "/"),
	}
}

// BaseURL returns the path-style host for a region, or the custom endpoint when set.
func BaseURL(cfg *config.Config) string {
	if cfg.AWSEndpointURL != "" {
		return cfg.AWSEndpointURL
	}
	return fmt.Sprintf("https://s3.%s.amazonaws.com", cfg.AWSRegion)
}

// Upload streams a file to S3 under key and returns its path-style reference.
func (s *Store) Upload(ctx context.Context, key, contentType string, r io.Reader) (domain.BlobRef, error) {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        r,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return domain.BlobRef{}, fmt.Errorf("s3 put object: %v: %w", err, domain.ErrStorage)
	}
	return domain.BlobRef{Bucket: s.bucket, Object: key, URL: fmt.Sprintf("%s/%s/%s", s.baseURL, s.bucket, key)}, nil
}

// SignReadURL presigns a GET for a stored reference. Failures degrade to the unsigned reference.
func (s *Store) SignReadURL(ctx context.Context, rawURL string, ttl time.Duration) domain.SignedURL {
	if ttl <= 0 {
		ttl = defaultSignedURLTTL
	}
	bucket, key, err := domain.ParseBlobURL(rawURL)
	if err != nil {
		return fallback(rawURL, err)
	}
	req, err := s.presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(ttl))
	if err != nil {
		return fallback(rawURL, fmt.Errorf("presign get object: %v: %w", err, domain.ErrStorage))
	}
	return domain.SignedURL{URL: req.URL, Signed: true}
}

func fallback(rawURL string, err error) domain.SignedURL {
	slog.Warn("signed url unavailable, serving stored url", "url", rawURL, "err", err)
	metrics.RecordSignFallback("s3")
	return domain.SignedURL{URL: rawURL, Err: err}
}
