package dynamo

import (
	"context"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/intake-dal/internal/config"
	"github.com/intake-dal/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testTables = config.DynamoTables{
	Applications:          "apps",
	VolunteerApplications: "volunteers",
	Notifications:         "notes",
	EventRegistrations:    "registrations",
}

func TestTableInput_KeyedOnID(t *testing.T) {
	in := tableInput("notifications")

	assert.Equal(t, "notifications", *in.TableName)
	assert.Equal(t, types.BillingModePayPerRequest, in.BillingMode)
	require.Len(t, in.KeySchema, 1)
	assert.Equal(t, "id", *in.KeySchema[0].AttributeName)
	assert.Equal(t, types.KeyTypeHash, in.KeySchema[0].KeyType)
}

func TestBootstrap_CreatesTables(t *testing.T) {
	f := &fakeDynamo{}
	client := newFakeClient(t, f)

	require.NoError(t, Bootstrap(context.Background(), client, testTables))
	// The fake keeps the last request per operation.
	assert.Equal(t, "registrations", f.requests["CreateTable"]["TableName"])
}

func TestBootstrap_ExistingTablesAreFine(t *testing.T) {
	f := &fakeDynamo{failures: map[string]string{"CreateTable": "ResourceInUseException"}}

	assert.NoError(t, Bootstrap(context.Background(), newFakeClient(t, f), testTables))
}

func TestBootstrap_ReportsFailures(t *testing.T) {
	f := &fakeDynamo{failures: map[string]string{"CreateTable": "LimitExceededException"}}

	err := Bootstrap(context.Background(), newFakeClient(t, f), testTables)

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrDocumentStore)
	for _, name := range testTables.All() {
		assert.Contains(t, err.Error(), "create table "+name)
	}
}
