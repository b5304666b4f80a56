package event

import (
	"context"
	"fmt"

	"github.com/intake-dal/internal/domain"
)

// Service resolves who is registered for an event.
type Service interface {
	RegisteredUsers(ctx context.Context, eventID string) ([]string, error)
}

type documentStore interface {
	Query(ctx context.Context, collection string, filters map[string]any, limit int) ([]domain.Document, error)
}

type service struct {
	docs documentStore
}

func NewService(docs documentStore) Service {
	return &service{docs: docs}
}

// RegisteredUsers returns the distinct registrant emails for eventID, in store order.
func (s *service) RegisteredUsers(ctx context.Context, eventID string) ([]string, error) {
	docs, err := s.docs.Query(ctx, domain.CollectionEventRegistrations, map[string]any{domain.FieldEventID: eventID}, 0)
	if err != nil {
		return nil, fmt.Errorf("registrations for %s: %w", eventID, err)
	}
	seen := make(map[string]struct{}, len(docs))
	emails := make([]string, 0, len(docs))
	for _, d := range docs {
		email := d.String(domain.FieldEmail, "")
		if email == "" {
			continue
		}
		if _, dup := seen[email]; dup {
			continue
		}
		seen[email] = struct{}{}
		emails = append(emails, email)
	}
	return emails, nil
}
