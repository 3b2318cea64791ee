package schema_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i2y/openapidocs/internal/schema"
)

func TestParse_KeepsOrder(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	s, err := schema.Parse([]byte(`
type: object
properties:
  zeta: {type: string}
  alpha: {type: integer}
  mid:
    type: array
    items: {$ref: '#/components/schemas/Tag'}
required: [zeta]
x-vendor:
  type: string
`))
	require.NoError(err)

	assert.Equal([]string{"type", "properties", "required", "x-vendor"}, s.KeyOrder)
	assert.Equal([]string{"zeta", "alpha", "mid"}, s.Properties.Keys())
	mid, ok := s.Properties.Get("mid")
	require.True(ok)
	assert.Equal("#/components/schemas/Tag", mid.Items.Ref)
	vendor, ok := s.Extra.Get("x-vendor")
	require.True(ok)
	assert.Equal("string", vendor.Type)
}

func TestParse_JSON(t *testing.T) {
	s, err := schema.Parse([]byte(`{"type": ["string", "null"], "readOnly": true, "example": "rex"}`))
	require.NoError(t, err)
	assert.Equal(t, "string", s.Type)
	assert.True(t, s.Nullable)
	assert.True(t, s.ReadOnly)
	assert.Equal(t, "rex", s.Example)
}

func TestParse_AdditionalProperties(t *testing.T) {
	s, err := schema.Parse([]byte(`{additionalProperties: false}`))
	require.NoError(t, err)
	require.NotNil(t, s.AdditionalProperties)
	require.NotNil(t, s.AdditionalProperties.Allowed)
	assert.False(t, *s.AdditionalProperties.Allowed)
	assert.Nil(t, s.AdditionalProperties.Schema)
}

func TestParse_Errors(t *testing.T) {
	_, err := schema.Parse([]byte(`- a list`))
	assert.ErrorIs(t, err, schema.ErrNotAMapping)

	_, err = schema.Parse([]byte(`{unclosed`))
	assert.Error(t, err)
}

func TestKeywords(t *testing.T) {
	s, err := schema.Parse([]byte(`
name: {type: string}
type: object
items: {type: integer}
`))
	require.NoError(t, err)

	kws := schema.Keywords(s)
	require.Len(t, kws, 3)
	assert.Equal(t, "name", kws[0].Name)
	assert.Equal(t, "string", kws[0].Schema.Type)
	assert.Equal(t, "type", kws[1].Name)
	assert.Equal(t, "", kws[1].Schema.Type)
	assert.Equal(t, "integer", kws[2].Schema.Type)
}
