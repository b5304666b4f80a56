package dynamo

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/intake-dal/internal/domain"
)

// keyAttr is the partition key of every collection table.
const keyAttr = "id"

var errNoFields = errors.New("no fields to update")

// strKey builds a DynamoDB primary key map with a single string attribute.
func strKey(name, value string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		name: &types.AttributeValueMemberS{Value: value},
	}
}

// expr is a rendered expression with its placeholder maps.
type expr struct {
	Expr   string
	Names  map[string]string
	Values map[string]types.AttributeValue
}

// buildUpdateExpr converts a map of field->value into a DynamoDB SET expression.
// Keys are sorted so the output is deterministic.
func buildUpdateExpr(updates map[string]any) (expr, error) {
	if len(updates) == 0 {
		return expr{}, errNoFields
	}
	parts, e, err := assignments(updates)
	if err != nil {
		return expr{}, err
	}
	e.Expr = "SET " + strings.Join(parts, ", ")
	return e, nil
}

// buildFilterExpr renders equality filters joined with AND. Empty filters yield an empty Expr.
func buildFilterExpr(filters map[string]any) (expr, error) {
	if len(filters) == 0 {
		return expr{}, nil
	}
	parts, e, err := assignments(filters)
	if err != nil {
		return expr{}, err
	}
	e.Expr = strings.Join(parts, " AND ")
	return e, nil
}

func assignments(fields map[string]any) ([]string, expr, error) {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	e := expr{
		Names:  make(map[string]string, len(keys)),
		Values: make(map[string]types.AttributeValue, len(keys)),
	}
	parts := make([]string, 0, len(keys))
	for i, k := range keys {
		nameKey := fmt.Sprintf("#f%d", i)
		valueKey := fmt.Sprintf(":v%d", i)
		av, err := attributevalue.Marshal(fields[k])
		if err != nil {
			return nil, expr{}, fmt.Errorf("marshal field %s: %w", k, err)
		}
		e.Names[nameKey] = k
		e.Values[valueKey] = av
		parts = append(parts, nameKey+" = "+valueKey)
	}
	return parts, e, nil
}

// resolveFields copies fields, replacing the server timestamp marker with now.
func resolveFields(fields map[string]any, now time.Time) map[string]any {
	out := make(map[string]any, len(fields))
	for k, v := range fields {
		if _, ok := v.(domain.ServerTimestampValue); ok {
			out[k] = now.UTC().Format(time.RFC3339Nano)
			continue
		}
		out[k] = v
	}
	return out
}

// toDocument splits the key attribute off an item. Items that cannot be decoded
// come back with nil Fields so listings can skip them.
func toDocument(item map[string]types.AttributeValue) domain.Document {
	var fields map[string]any
	if err := attributevalue.UnmarshalMap(item, &fields); err != nil {
		var id string
		if s, ok := item[keyAttr].(*types.AttributeValueMemberS); ok {
			id = s.Value
		}
		return domain.Document{ID: id}
	}
	id, _ := fields[keyAttr].(string)
	delete(fields, keyAttr)
	return domain.Document{ID: id, Fields: fields}
}
