package http

import (
	"context"
	"io"
	"time"

	"github.com/intake-dal/internal/domain"
)

// DocumentStore is the document gateway the router requires. Implemented by
// firestoredb.Store and dynamo.Store.
type DocumentStore interface {
	Create(ctx context.Context, collection string, fields map[string]any) (string, error)
	Get(ctx context.Context, collection, id string) (*domain.Document, error)
	Update(ctx context.Context, collection, id string, delta map[string]any) error
	Query(ctx context.Context, collection string, filters map[string]any, limit int) ([]domain.Document, error)
}

// BlobStore is the object storage gateway the router requires. Implemented by
// gcs.Store and s3infra.Store.
type BlobStore interface {
	Upload(ctx context.Context, objectPath, contentType string, r io.Reader) (domain.BlobRef, error)
	SignReadURL(ctx context.Context, rawURL string, ttl time.Duration) domain.SignedURL
}
