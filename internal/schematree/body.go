package schematree

import (
	"github.com/i2y/openapidocs/internal/domain"
)

// MediaType is one content entry of a request body or response.
type MediaType struct {
	Name   string
	Schema *domain.Schema
}

// Body is a request body or response as seen by the documentation layer.
// Content is ordered; callers put the preferred media type first.
type Body struct {
	Description string
	Required    bool
	Content     []MediaType
}

// SchemaDetails builds the root-level collapsible node for a body.
// It returns nil when there is nothing to show: no content, no schema,
// or an object schema with zero properties.
func (b *Builder) SchemaDetails(title string, body Body) (*domain.DocNode, []Diagnostic) {
	if len(body.Content) == 0 {
		return nil, nil
	}
	root := body.Content[0].Schema
	if root == nil {
		return nil, nil
	}
	if root.Properties != nil && root.Properties.Len() == 0 {
		return nil, nil
	}

	tree := b.Nodes(root)
	node := &domain.DocNode{
		Kind:        domain.NodeDetails,
		Name:        title,
		Required:    body.Required,
		Description: body.Description,
		Children:    tree.Nodes,
	}
	if root.Type == "array" {
		node.TypeLabel = "array"
	}
	return node, tree.Diagnostics
}

// CreateSchemaDetails builds the root-level node for a body with the default builder.
func CreateSchemaDetails(title string, body Body) *domain.DocNode {
	node, _ := defaultBuilder.SchemaDetails(title, body)
	return node
}
