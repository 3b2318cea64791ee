package domain

// NodeKind identifies the variant of a documentation node.
type NodeKind string

const (
	// NodeDetails is a collapsible node with children (objects, arrays of objects, compositions).
	NodeDetails NodeKind = "details"
	// NodeLeaf is a terminal row describing one property or primitive.
	NodeLeaf NodeKind = "leaf"
	// NodeComposition groups the alternatives of a oneOf/anyOf into tabs.
	NodeComposition NodeKind = "composition"
	// NodeTab is one alternative of a composition.
	NodeTab NodeKind = "tab"
)

// DocNode is one element of a schema documentation tree.
// The rendering layer maps details nodes to disclosure widgets and leaves to property rows.
type DocNode struct {
	Kind        NodeKind   `json:"kind"`
	Name        string     `json:"name,omitempty"`
	TypeLabel   string     `json:"type,omitempty"`
	Format      string     `json:"format,omitempty"`
	Required    bool       `json:"required,omitempty"`
	Qualifier   string     `json:"qualifier,omitempty"`
	Description string     `json:"description,omitempty"`
	Children    []*DocNode `json:"children,omitempty"`
}

// IsLeaf reports whether the node has no children by construction.
func (n *DocNode) IsLeaf() bool {
	return n != nil && n.Kind == NodeLeaf
}
