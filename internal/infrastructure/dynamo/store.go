package dynamo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/intake-dal/internal/config"
	"github.com/intake-dal/internal/domain"
	"github.com/intake-dal/internal/pkg/id"
)

// Store is a document store over one DynamoDB table per collection. Every table
// is keyed on a string "id" attribute.
type Store struct {
	client *dynamodb.Client
	tables config.DynamoTables
	now    func() time.Time
}

func NewStore(client *dynamodb.Client, tables config.DynamoTables) *Store {
	return &Store{client: client, tables: tables, now: time.Now}
}

func (s *Store) Create(ctx context.Context, collection string, fields map[string]any) (string, error) {
	docID := id.New()
	item, err := attributevalue.MarshalMap(resolveFields(fields, s.now()))
	if err != nil {
		return "", fmt.Errorf("marshal %s document: %v: %w", collection, err, domain.ErrDocumentStore)
	}
	item[keyAttr] = &types.AttributeValueMemberS{Value: docID}

	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.tables.Table(collection)),
		Item:      item,
	})
	if err != nil {
		return "", fmt.Errorf("put %s document: %v: %w", collection, err, domain.ErrDocumentStore)
	}
	return docID, nil
}

// Get returns nil without error when the document does not exist.
func (s *Store) Get(ctx context.Context, collection, docID string) (*domain.Document, error) {
	out, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.tables.Table(collection)),
		Key:       strKey(keyAttr, docID),
	})
	if err != nil {
		return nil, fmt.Errorf("get %s/%s: %v: %w", collection, docID, err, domain.ErrDocumentStore)
	}
	if out.Item == nil {
		return nil, nil
	}
	doc := toDocument(out.Item)
	return &doc, nil
}

// Update merges delta into an existing document.
func (s *Store) Update(ctx context.Context, collection, docID string, delta map[string]any) error {
	ue, err := buildUpdateExpr(resolveFields(delta, s.now()))
	if err != nil {
		return fmt.Errorf("update %s/%s: %v: %w", collection, docID, err, domain.ErrDocumentStore)
	}
	ue.Names["#pk"] = keyAttr

	_, err = s.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(s.tables.Table(collection)),
		Key:                       strKey(keyAttr, docID),
		UpdateExpression:          aws.String(ue.Expr),
		ConditionExpression:       aws.String("attribute_exists(#pk)"),
		ExpressionAttributeNames:  ue.Names,
		ExpressionAttributeValues: ue.Values,
	})
	if err != nil {
		var ccf *types.ConditionalCheckFailedException
		if errors.As(err, &ccf) {
			return fmt.Errorf("update %s/%s: %w", collection, docID, domain.ErrNotFound)
		}
		return fmt.Errorf("update %s/%s: %v: %w", collection, docID, err, domain.ErrDocumentStore)
	}
	return nil
}

// Query scans the collection for documents equal on every filter. Scan limits
// apply before filtering, so limit is enforced here. limit <= 0 returns all matches.
func (s *Store) Query(ctx context.Context, collection string, filters map[string]any, limit int) ([]domain.Document, error) {
	fe, err := buildFilterExpr(filters)
	if err != nil {
		return nil, fmt.Errorf("query %s: %v: %w", collection, err, domain.ErrDocumentStore)
	}
	input := &dynamodb.ScanInput{TableName: aws.String(s.tables.Table(collection))}
	if fe.Expr != "" {
		input.FilterExpression = aws.String(fe.Expr)
		input.ExpressionAttributeNames = fe.Names
		input.ExpressionAttributeValues = fe.Values
	}

	var docs []domain.Document
	p := dynamodb.NewScanPaginator(s.client, input)
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("query %s: %v: %w", collection, err, domain.ErrDocumentStore)
		}
		for _, item := range page.Items {
			docs = append(docs, toDocument(item))
			if limit > 0 && len(docs) == limit {
				return docs, nil
			}
		}
	}
	return docs, nil
}
