package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/usestring/vra-mcp/pkg/client"
)

func TestEngine_Query_Simple(t *testing.T) {
	engine := NewEngine()

	data := []byte(`{"name": "Development", "id": "bg-1"}`)

	result, err := engine.Query(data, ".name", Options{})
	require.NoError(t, err)
	assert.Equal(t, []any{"Development"}, result.Values)
	assert.Equal(t, 1, result.RawCount)
}

func TestEngine_Query_Select(t *testing.T) {
	engine := NewEngine()

	data := []byte(`[{"state": "SUCCESSFUL", "id": "a"}, {"state": "FAILED", "id": "b"}, {"state": "SUCCESSFUL", "id": "c"}]`)

	result, err := engine.Query(data, `.[] | select(.state == "SUCCESSFUL") | .id`, Options{})
	require.NoError(t, err)
	assert.Equal(t, []any{"a", "c"}, result.Values)
}

func TestEngine_Query_Deduplicate(t *testing.T) {
	engine := NewEngine()

	data := []byte(`[{"status": "ACTIVE"}, {"status": "ACTIVE"}, {"status": "DELETED"}]`)

	result, err := engine.Query(data, ".[].status", Options{Deduplicate: true})
	require.NoError(t, err)
	assert.Equal(t, []any{"ACTIVE", "DELETED"}, result.Values)
	assert.Equal(t, 3, result.RawCount)
}

func TestEngine_Query_MaxResults(t *testing.T) {
	engine := NewEngine()

	result, err := engine.Query([]byte(`[1, 2, 3, 4, 5]`), ".[]", Options{MaxResults: 3})
	require.NoError(t, err)
	assert.Equal(t, []any{float64(1), float64(2), float64(3)}, result.Values)
}

func TestEngine_Query_NullsSkippedByDefault(t *testing.T) {
	engine := NewEngine()

	data := []byte(`[{"description": "a"}, {"name": "b"}, {"description": "c"}]`)

	result, err := engine.Query(data, ".[].description", Options{})
	require.NoError(t, err)
	assert.Equal(t, []any{"a", "c"}, result.Values)

	result, err = engine.Query(data, ".[].description", Options{KeepNulls: true})
	require.NoError(t, err)
	assert.Equal(t, []any{"a", nil, "c"}, result.Values)
}

func TestEngine_Query_InvalidExpression(t *testing.T) {
	engine := NewEngine()

	_, err := engine.Query([]byte(`{}`), ".name[", Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid jq expression")
}

func TestEngine_Query_InvalidJSON(t *testing.T) {
	engine := NewEngine()

	_, err := engine.Query([]byte(`{invalid json}`), ".name", Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid JSON")
}

func TestEngine_Query_RuntimeErrorHint(t *testing.T) {
	engine := NewEngine()

	result, err := engine.Query([]byte(`{"operations": null}`), ".operations[]", Options{})
	require.NoError(t, err)
	assert.Empty(t, result.Values)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "not set on this record")
}

func TestEngine_QueryValue_Records(t *testing.T) {
	engine := NewEngine()

	groups := []client.BusinessGroup{
		{ID: "bg-1", Name: "Development"},
		{ID: "bg-2", Name: "Operations"},
	}

	result, err := engine.QueryValue(groups, `map(select(.name | test("^Dev"))) | .[].id`, Options{})
	require.NoError(t, err)
	assert.Equal(t, []any{"bg-1"}, result.Values)
}

func TestEngine_QueryValue_ObjectExtraction(t *testing.T) {
	engine := NewEngine()

	items := []client.EntitledCatalogItem{
		{CatalogItem: client.CatalogItem{ID: "ci-1", Name: "CentOS 7", Version: 2}},
	}

	result, err := engine.QueryValue(items, `.[].catalogItem | {id, version}`, Options{})
	require.NoError(t, err)
	require.Len(t, result.Values, 1)

	first := result.Values[0].(map[string]any)
	assert.Equal(t, "ci-1", first["id"])
	assert.Equal(t, float64(2), first["version"])
}

func TestEngine_ValidateExpression(t *testing.T) {
	engine := NewEngine()

	assert.NoError(t, engine.ValidateExpression(".name"))
	assert.NoError(t, engine.ValidateExpression(`.[] | select(.state == "FAILED")`))

	assert.Error(t, engine.ValidateExpression(".name["))
	assert.Error(t, engine.ValidateExpression("invalid("))
}

func TestNormalize(t *testing.T) {
	v, err := Normalize(client.Ref{ID: "svc-1", Label: "Linux"})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"id": "svc-1", "label": "Linux"}, v)
}
