package gcs

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"cloud.google.com/go/storage"
	"github.com/intake-dal/internal/domain"
	"github.com/intake-dal/internal/infrastructure/gcpauth"
	"github.com/intake-dal/internal/infrastructure/metrics"
	"google.golang.org/api/option"
)

const (
	publicHost = "https://storage.googleapis.com"

	// DefaultSignedURLTTL applies when callers pass a non-positive ttl.
	DefaultSignedURLTTL = time.Hour
)

// Signer is the service-account identity used for V4 URL signing.
type Signer struct {
	GoogleAccessID string
	PrivateKey     []byte
}

// Store uploads objects to a Cloud Storage bucket and signs read URLs for them.
type Store struct {
	client *storage.Client
	bucket string
	signer Signer
}

// NewClient creates a Cloud Storage client from the service-account credential.
func NewClient(ctx context.Context, cred *gcpauth.Credential) (*storage.Client, error) {
	c, err := storage.NewClient(ctx, option.WithCredentials(cred.Google))
	if err != nil {
		return nil, fmt.Errorf("create storage client: %v: %w", err, domain.ErrConfiguration)
	}
	return c, nil
}

func NewStore(client *storage.Client, bucket string, signer Signer) *Store {
	return &Store{client: client, bucket: bucket, signer: signer}
}

// SignerFromCredential extracts the signing identity from a service-account credential.
func SignerFromCredential(cred *gcpauth.Credential) Signer {
	return Signer{GoogleAccessID: cred.ClientEmail, PrivateKey: cred.PrivateKey}
}

// PublicURL is the public-style URL persisted on records.
func PublicURL(bucket, objectPath string) string {
	return fmt.Sprintf("%s/%s/%s", publicHost, bucket, objectPath)
}

// Upload streams r to objectPath. A failed copy cancels the write so no partial object is committed.
func (s *Store) Upload(ctx context.Context, objectPath, contentType string, r io.Reader) (domain.BlobRef, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	w := s.client.Bucket(s.bucket).Object(objectPath).NewWriter(ctx)
	w.ContentType = contentType
	if _, err := io.Copy(w, r); err != nil {
		cancel()
		_ = w.Close()
		return domain.BlobRef{}, fmt.Errorf("gcs write %s: %v: %w", objectPath, err, domain.ErrStorage)
	}
	if err := w.Close(); err != nil {
		return domain.BlobRef{}, fmt.Errorf("gcs close %s: %v: %w", objectPath, err, domain.ErrStorage)
	}
	return domain.BlobRef{Bucket: s.bucket, Object: objectPath, URL: PublicURL(s.bucket, objectPath)}, nil
}

// SignReadURL returns a GET URL for a stored reference valid for ttl.
// Failures degrade to the unsigned reference instead of failing the read.
func (s *Store) SignReadURL(_ context.Context, rawURL string, ttl time.Duration) domain.SignedURL {
	if ttl <= 0 {
		ttl = DefaultSignedURLTTL
	}
	bucket, object, err := domain.ParseBlobURL(rawURL)
	if err != nil {
		return fallback(rawURL, err)
	}
	signed, err := storage.SignedURL(bucket, object, &storage.SignedURLOptions{
		GoogleAccessID: s.signer.GoogleAccessID,
		PrivateKey:     s.signer.PrivateKey,
		Method:         http.MethodGet,
		Expires:        expiresAt(time.Now(), ttl),
		Scheme:         storage.SigningSchemeV4,
	})
	if err != nil {
		return fallback(rawURL, fmt.Errorf("sign %s: %v: %w", object, err, domain.ErrStorage))
	}
	return domain.SignedURL{URL: signed, Signed: true}
}

// expiresAt pads the deadline by just under a second. The library derives
// X-Goog-Expires from its own later clock reading and truncates to whole
// seconds, so an unpadded deadline comes out as ttl-1.
func expiresAt(now time.Time, ttl time.Duration) time.Time {
	return now.Add(ttl + time.Second - time.Nanosecond)
}

func fallback(rawURL string, err error) domain.SignedURL {
	slog.Warn("signed url unavailable, serving stored url", "url", rawURL, "err", err)
	metrics.RecordSignFallback("gcs")
	return domain.SignedURL{URL: rawURL, Err: err}
}
