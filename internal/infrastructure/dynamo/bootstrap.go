package dynamo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/intake-dal/internal/config"
	"github.com/intake-dal/internal/domain"
)

// Bootstrap creates the table behind each collection unless it already exists.
// It tries every table and reports all failures together.
func Bootstrap(ctx context.Context, client *dynamodb.Client, tables config.DynamoTables) error {
	var errs []error
	for _, name := range tables.All() {
		if err := createTable(ctx, client, tableInput(name)); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// tableInput describes a collection table: a string hash key "id", on-demand billing.
func tableInput(name string) *dynamodb.CreateTableInput {
	return &dynamodb.CreateTableInput{
		TableName:   aws.String(name),
		BillingMode: types.BillingModePayPerRequest,
		AttributeDefinitions: []types.AttributeDefinition{
			{AttributeName: aws.String(keyAttr), AttributeType: types.ScalarAttributeTypeS},
		},
		KeySchema: []types.KeySchemaElement{
			{AttributeName: aws.String(keyAttr), KeyType: types.KeyTypeHash},
		},
	}
}

func createTable(ctx context.Context, client *dynamodb.Client, input *dynamodb.CreateTableInput) error {
	name := aws.ToString(input.TableName)
	_, err := client.CreateTable(ctx, input)
	var inUse *types.ResourceInUseException
	switch {
	case err == nil:
		slog.Info("created table", "table", name)
	case errors.As(err, &inUse):
		slog.Debug("table exists", "table", name)
	default:
		return fmt.Errorf("create table %s: %v: %w", name, err, domain.ErrDocumentStore)
	}
	return nil
}
