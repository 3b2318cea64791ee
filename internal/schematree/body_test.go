package schematree_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i2y/openapidocs/internal/domain"
	"github.com/i2y/openapidocs/internal/schematree"
)

func TestCreateSchemaDetails(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	body := schematree.Body{
		Description: "Pet to add",
		Required:    true,
		Content: []schematree.MediaType{
			{Name: "application/json", Schema: mustParse(t, "{type: object, properties: {name: {type: string}}, required: [name]}")},
			{Name: "application/xml", Schema: mustParse(t, "{type: string}")},
		},
	}

	node := schematree.CreateSchemaDetails("Request Body", body)
	require.NotNil(node)
	assert.Equal(domain.NodeDetails, node.Kind)
	assert.Equal("Request Body", node.Name)
	assert.True(node.Required)
	assert.Equal("Pet to add", node.Description)
	assert.Equal("", node.TypeLabel)
	require.Len(node.Children, 1)
	assert.True(node.Children[0].Required)
}

func TestCreateSchemaDetails_Array(t *testing.T) {
	node := schematree.CreateSchemaDetails("Schema", schematree.Body{
		Content: []schematree.MediaType{{Name: "application/json", Schema: mustParse(t, "{type: array, items: {properties: {id: {type: integer}}}}")}},
	})
	require.NotNil(t, node)
	assert.Equal(t, "array", node.TypeLabel)
	assert.Equal(t, []string{"id"}, names(node.Children))
}

func TestCreateSchemaDetails_Empty(t *testing.T) {
	tests := []struct {
		name string
		body schematree.Body
	}{
		{name: "no content", body: schematree.Body{Description: "nothing"}},
		{name: "no schema", body: schematree.Body{Content: []schematree.MediaType{{Name: "text/plain"}}}},
		{name: "object without properties", body: schematree.Body{Content: []schematree.MediaType{{Name: "application/json", Schema: mustParse(t, "{type: object, properties: {}}")}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Nil(t, schematree.CreateSchemaDetails("Schema", tt.body))
		})
	}
}
