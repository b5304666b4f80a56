package dynamo

import (
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/intake-dal/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildUpdateExpr_SingleField(t *testing.T) {
	ue, err := buildUpdateExpr(map[string]any{"Status": "Approved"})
	require.NoError(t, err)
	assert.Equal(t, "SET #f0 = :v0", ue.Expr)
	assert.Equal(t, map[string]string{"#f0": "Status"}, ue.Names)
	_, ok := ue.Values[":v0"]
	assert.True(t, ok)
}

func TestBuildUpdateExpr_MultipleFields_Deterministic(t *testing.T) {
	updates := map[string]any{
		"Status": "Rejected",
		"IsRead": true,
		"Notes":  "late",
	}
	ue1, err := buildUpdateExpr(updates)
	require.NoError(t, err)
	ue2, err := buildUpdateExpr(updates)
	require.NoError(t, err)

	assert.Equal(t, ue1.Expr, ue2.Expr)
	assert.Equal(t, "IsRead", ue1.Names["#f0"])
	assert.Equal(t, "Notes", ue1.Names["#f1"])
	assert.Equal(t, "Status", ue1.Names["#f2"])
	assert.Equal(t, "SET #f0 = :v0, #f1 = :v1, #f2 = :v2", ue1.Expr)
}

func TestBuildUpdateExpr_ValuesMarshalledCorrectly(t *testing.T) {
	ue, err := buildUpdateExpr(map[string]any{"IsRead": true})
	require.NoError(t, err)
	av, ok := ue.Values[":v0"]
	require.True(t, ok)
	boolVal, isBool := av.(*types.AttributeValueMemberBOOL)
	require.True(t, isBool)
	assert.True(t, boolVal.Value)
}

func TestBuildUpdateExpr_EmptyMap_ReturnsError(t *testing.T) {
	_, err := buildUpdateExpr(map[string]any{})
	assert.ErrorIs(t, err, errNoFields)
}

func TestBuildFilterExpr(t *testing.T) {
	fe, err := buildFilterExpr(map[string]any{"UserId": "u1", "IsRead": false})
	require.NoError(t, err)
	assert.Equal(t, "#f0 = :v0 AND #f1 = :v1", fe.Expr)
	assert.Equal(t, "IsRead", fe.Names["#f0"])
	assert.Equal(t, "UserId", fe.Names["#f1"])

	empty, err := buildFilterExpr(nil)
	require.NoError(t, err)
	assert.Empty(t, empty.Expr)
	assert.Nil(t, empty.Names)
}

func TestResolveFields_ReplacesServerTimestamp(t *testing.T) {
	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	in := map[string]any{"Title": "t", "CreatedAt": domain.ServerTimestamp}

	out := resolveFields(in, now)

	assert.Equal(t, "2024-03-01T10:00:00Z", out["CreatedAt"])
	assert.Equal(t, "t", out["Title"])
	assert.Equal(t, domain.ServerTimestamp, in["CreatedAt"], "input must not be mutated")
}

func TestToDocument(t *testing.T) {
	doc := toDocument(map[string]types.AttributeValue{
		"id":     &types.AttributeValueMemberS{Value: "01HX"},
		"Status": &types.AttributeValueMemberS{Value: "Pending"},
		"IsRead": &types.AttributeValueMemberBOOL{Value: false},
	})

	assert.Equal(t, "01HX", doc.ID)
	assert.False(t, doc.Has("id"))
	assert.Equal(t, "Pending", doc.String("Status", ""))
	assert.False(t, doc.Bool("IsRead", true))
}
