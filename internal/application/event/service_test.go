package event

import (
	"context"
	"testing"

	"github.com/intake-dal/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockDocumentStore struct{ mock.Mock }

func (m *mockDocumentStore) Query(ctx context.Context, collection string, filters map[string]any, limit int) ([]domain.Document, error) {
	args := m.Called(ctx, collection, filters, limit)
	docs, _ := args.Get(0).([]domain.Document)
	return docs, args.Error(1)
}

func reg(email any) domain.Document {
	return domain.Document{ID: "r", Fields: map[string]any{domain.FieldEventID: "e1", domain.FieldEmail: email}}
}

func TestRegisteredUsers_DistinctNonEmpty(t *testing.T) {
	ds := &mockDocumentStore{}
	ds.On("Query", mock.Anything, domain.CollectionEventRegistrations, map[string]any{domain.FieldEventID: "e1"}, 0).
		Return([]domain.Document{reg("a@x.com"), reg("b@x.com"), reg("a@x.com"), reg(""), reg(42)}, nil)

	users, err := NewService(ds).RegisteredUsers(context.Background(), "e1")

	require.NoError(t, err)
	assert.Equal(t, []string{"a@x.com", "b@x.com"}, users)
}

func TestRegisteredUsers_None(t *testing.T) {
	ds := &mockDocumentStore{}
	ds.On("Query", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return([]domain.Document{}, nil)

	users, err := NewService(ds).RegisteredUsers(context.Background(), "e2")

	require.NoError(t, err)
	assert.Empty(t, users)
}

func TestRegisteredUsers_StoreError(t *testing.T) {
	ds := &mockDocumentStore{}
	ds.On("Query", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil, domain.ErrDocumentStore)

	_, err := NewService(ds).RegisteredUsers(context.Background(), "e3")

	assert.ErrorIs(t, err, domain.ErrDocumentStore)
}
