package schema_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i2y/openapidocs/internal/domain"
	"github.com/i2y/openapidocs/internal/schema"
)

func mustParse(t *testing.T, doc string) *domain.Schema {
	t.Helper()
	s, err := schema.Parse([]byte(doc))
	require.NoError(t, err)
	return s
}

func TestMergeAllOf_RequiredIsConcatenated(t *testing.T) {
	assert := assert.New(t)

	a := &domain.Schema{Required: []string{"id", "name"}}
	b := &domain.Schema{Required: []string{"name", "tag"}}

	merged, required := schema.MergeAllOf([]*domain.Schema{a, b})

	assert.Equal([]string{"id", "name", "name", "tag"}, required)
	assert.Equal([]string{"id", "name", "tag"}, merged.Required)
}

func TestMergeAllOf_NestedRequired(t *testing.T) {
	assert := assert.New(t)

	s := mustParse(t, `
allOf:
  - required: [name]
    allOf:
      - required: [id]
      - allOf:
          - required: [id]
`)

	merged, required := schema.MergeAllOf(s.AllOf)

	assert.Equal([]string{"id", "id", "name"}, required)
	assert.Equal([]string{"id", "name"}, merged.Required)
}

func TestMergeAllOf_ResolversPreferTrue(t *testing.T) {
	set := &domain.Schema{ReadOnly: true, Example: "rex"}
	unset := &domain.Schema{Type: "string"}

	tests := []struct {
		name      string
		fragments []*domain.Schema
	}{
		{name: "set first", fragments: []*domain.Schema{set, unset}},
		{name: "set last", fragments: []*domain.Schema{unset, set}},
		{name: "set in the middle", fragments: []*domain.Schema{unset, set, unset}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			merged, _ := schema.MergeAllOf(tt.fragments)
			assert.True(t, merged.ReadOnly)
			assert.Equal(t, true, merged.Example)
		})
	}
}

func TestMergeAllOf_ScalarsLastWins(t *testing.T) {
	assert := assert.New(t)

	merged, _ := schema.MergeAllOf([]*domain.Schema{
		{Type: "object", Description: "first", Format: "a"},
		{Description: "second"},
		{Format: "b"},
	})

	assert.Equal("object", merged.Type)
	assert.Equal("second", merged.Description)
	assert.Equal("b", merged.Format)
}

func TestMergeAllOf_Properties(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	s := mustParse(t, `
allOf:
  - properties:
      id: {type: integer}
      name: {type: string}
    required: [id]
  - properties:
      name: {description: the name}
      tag: {type: string}
  - allOf:
      - properties:
          owner: {type: string}
        required: [owner]
`)

	merged, required := schema.MergeAllOf(s.AllOf)

	assert.Equal([]string{"id", "name", "tag", "owner"}, merged.Properties.Keys())
	name, ok := merged.Properties.Get("name")
	require.True(ok)
	assert.Equal("string", name.Type)
	assert.Equal("the name", name.Description)
	// Nested allOf members contribute to the returned list as well.
	assert.Equal([]string{"id", "owner"}, required)
	assert.Equal([]string{"id", "owner"}, merged.Required)
}

func TestMergeAllOf_DoesNotModifyInput(t *testing.T) {
	props := domain.NewSchemaMap()
	props.Set("id", &domain.Schema{Type: "integer"})
	a := &domain.Schema{Properties: props, Required: []string{"id"}}
	b := &domain.Schema{ReadOnly: true, Required: []string{"id"}}

	merged, _ := schema.MergeAllOf([]*domain.Schema{a, b})
	merged.Properties.Set("extra", &domain.Schema{})

	assert.Equal(t, []string{"id"}, a.Properties.Keys())
	assert.False(t, a.ReadOnly)
	assert.Equal(t, []string{"id"}, a.Required)
}

func TestMergeAllOf_Empty(t *testing.T) {
	merged, required := schema.MergeAllOf(nil)
	require.NotNil(t, merged)
	assert.Nil(t, required)
	assert.Equal(t, schema.ShapeUnknown, schema.Classify(merged).Shape)
}
