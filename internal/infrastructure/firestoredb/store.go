package firestoredb

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"cloud.google.com/go/firestore"
	"github.com/intake-dal/internal/domain"
	"github.com/intake-dal/internal/infrastructure/gcpauth"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// NewClient opens a Firestore client for projectID using the service-account credential.
// An empty projectID falls back to the credential's project.
func NewClient(ctx context.Context, cred *gcpauth.Credential, projectID string) (*firestore.Client, error) {
	if projectID == "" {
		projectID = cred.ProjectID
	}
	client, err := firestore.NewClient(ctx, projectID, option.WithCredentials(cred.Google))
	if err != nil {
		return nil, fmt.Errorf("firestore client: %v: %w", err, domain.ErrConfiguration)
	}
	return client, nil
}

// Store addresses Firestore collections by name.
type Store struct {
	client *firestore.Client
}

func NewStore(client *firestore.Client) *Store {
	return &Store{client: client}
}

func (s *Store) Create(ctx context.Context, collection string, fields map[string]any) (string, error) {
	ref := s.client.Collection(collection).NewDoc()
	if _, err := ref.Create(ctx, resolveFields(fields)); err != nil {
		return "", fmt.Errorf("create %s document: %v: %w", collection, err, domain.ErrDocumentStore)
	}
	return ref.ID, nil
}

// Get returns nil without error when the document does not exist.
func (s *Store) Get(ctx context.Context, collection, id string) (*domain.Document, error) {
	snap, err := s.client.Collection(collection).Doc(id).Get(ctx)
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get %s/%s: %v: %w", collection, id, err, domain.ErrDocumentStore)
	}
	doc := toDocument(snap)
	return &doc, nil
}

var errEmptyDelta = errors.New("no fields to update")

// Update merges delta into an existing document.
func (s *Store) Update(ctx context.Context, collection, id string, delta map[string]any) error {
	if len(delta) == 0 {
		return fmt.Errorf("update %s/%s: %w: %w", collection, id, errEmptyDelta, domain.ErrDocumentStore)
	}
	_, err := s.client.Collection(collection).Doc(id).Update(ctx, updates(delta))
	if err != nil {
		if isNotFound(err) {
			return fmt.Errorf("update %s/%s: %w", collection, id, domain.ErrNotFound)
		}
		return fmt.Errorf("update %s/%s: %v: %w", collection, id, err, domain.ErrDocumentStore)
	}
	return nil
}

// Query returns documents equal on every filter. limit <= 0 returns all matches.
func (s *Store) Query(ctx context.Context, collection string, filters map[string]any, limit int) ([]domain.Document, error) {
	q := s.client.Collection(collection).Query
	for _, k := range sortedKeys(filters) {
		q = q.Where(k, "==", filters[k])
	}
	if limit > 0 {
		q = q.Limit(limit)
	}

	it := q.Documents(ctx)
	defer it.Stop()

	var docs []domain.Document
	for {
		snap, err := it.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("query %s: %v: %w", collection, err, domain.ErrDocumentStore)
		}
		docs = append(docs, toDocument(snap))
	}
	return docs, nil
}

func toDocument(snap *firestore.DocumentSnapshot) domain.Document {
	return domain.Document{ID: snap.Ref.ID, Fields: snap.Data()}
}

// resolveFields copies fields, swapping the domain server timestamp marker for Firestore's.
func resolveFields(fields map[string]any) map[string]any {
	out := make(map[string]any, len(fields))
	for k, v := range fields {
		if _, ok := v.(domain.ServerTimestampValue); ok {
			out[k] = firestore.ServerTimestamp
			continue
		}
		out[k] = v
	}
	return out
}

// updates turns a merge delta into field updates. FieldPath keeps names with
// special characters literal.
func updates(delta map[string]any) []firestore.Update {
	resolved := resolveFields(delta)
	ups := make([]firestore.Update, 0, len(resolved))
	for _, k := range sortedKeys(resolved) {
		ups = append(ups, firestore.Update{FieldPath: firestore.FieldPath{k}, Value: resolved[k]})
	}
	return ups
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func isNotFound(err error) bool {
	return status.Code(err) == codes.NotFound
}
