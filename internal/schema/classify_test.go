package schema_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/i2y/openapidocs/internal/domain"
	"github.com/i2y/openapidocs/internal/schema"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name      string
		doc       string
		want      schema.Shape
		fromMerge bool
	}{
		{
			name: "oneOf wins over properties",
			doc:  "{oneOf: [{type: string}], properties: {a: {type: string}}}",
			want: schema.ShapeComposition,
		},
		{
			name: "anyOf",
			doc:  "{anyOf: [{type: string}, {type: integer}]}",
			want: schema.ShapeComposition,
		},
		{
			name:      "allOf with properties",
			doc:       "{allOf: [{properties: {a: {type: string}}}]}",
			want:      schema.ShapeObjectProperties,
			fromMerge: true,
		},
		{
			name:      "allOf hiding a composition",
			doc:       "{allOf: [{oneOf: [{type: string}]}]}",
			want:      schema.ShapeComposition,
			fromMerge: true,
		},
		{
			name:      "allOf with additionalProperties",
			doc:       "{allOf: [{additionalProperties: {type: string}}]}",
			want:      schema.ShapeAdditionalProperties,
			fromMerge: true,
		},
		{
			name: "allOf of primitives falls back to own keys",
			doc:  "{type: string, allOf: [{format: uuid}]}",
			want: schema.ShapePrimitive,
		},
		{
			name: "properties wins over additionalProperties",
			doc:  "{properties: {a: {type: string}}, additionalProperties: {type: string}}",
			want: schema.ShapeObjectProperties,
		},
		{
			name: "additionalProperties",
			doc:  "{type: object, additionalProperties: true}",
			want: schema.ShapeAdditionalProperties,
		},
		{
			name: "array of objects",
			doc:  "{type: array, items: {properties: {a: {type: string}}}}",
			want: schema.ShapeArrayOfObjects,
		},
		{
			name: "array of primitives",
			doc:  "{type: array, items: {type: integer, format: int64}}",
			want: schema.ShapeArrayOfPrimitives,
		},
		{
			name: "array of composed strings",
			doc:  "{type: array, items: {type: string, oneOf: [{enum: [a]}]}}",
			want: schema.ShapeArrayOfObjects,
		},
		{
			name: "primitive",
			doc:  "{type: boolean}",
			want: schema.ShapePrimitive,
		},
		{
			name: "unknown",
			doc:  "{description: nothing to see}",
			want: schema.ShapeUnknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := schema.Classify(mustParse(t, tt.doc))
			assert.Equal(t, tt.want, c.Shape, "got %s", c.Shape)
			assert.Equal(t, tt.fromMerge, c.FromMerge())
		})
	}
}

func TestClassify_Nil(t *testing.T) {
	assert.Equal(t, schema.ShapeUnknown, schema.Classify(nil).Shape)
}

func TestClassify_MergedMatchesHandWritten(t *testing.T) {
	composed := mustParse(t, `
allOf:
  - properties: {id: {type: integer}}
    required: [id]
  - properties: {name: {type: string}}
`)
	handWritten := mustParse(t, `
properties:
  id: {type: integer}
  name: {type: string}
required: [id]
`)

	merged, _ := schema.MergeAllOf(composed.AllOf)

	assert.Equal(t, schema.Classify(handWritten).Shape, schema.Classify(merged).Shape)
	assert.Equal(t, schema.Classify(handWritten).Shape, schema.Classify(composed).Shape)
}

func TestIsBarePrimitive(t *testing.T) {
	assert := assert.New(t)

	assert.True(schema.IsBarePrimitive(&domain.Schema{Type: "number"}))
	assert.False(schema.IsBarePrimitive(&domain.Schema{Type: "object"}))
	assert.False(schema.IsBarePrimitive(&domain.Schema{Type: "string", AnyOf: []*domain.Schema{{}}}))
	assert.False(schema.IsBarePrimitive(nil))
}
