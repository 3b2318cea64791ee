package schematree

import (
	"fmt"
	"log/slog"

	"github.com/i2y/openapidocs/internal/domain"
	"github.com/i2y/openapidocs/internal/schema"
)

const (
	// DefaultMaxDepth bounds recursion through nested or circular fragments.
	DefaultMaxDepth = 64
	// PropertyNamePlaceholder names the synthetic leaf of a free-form dictionary.
	PropertyNamePlaceholder = "property name*"
)

var markerTypes = map[string]bool{
	"string":  true,
	"object":  true,
	"boolean": true,
}

// Diagnostic reports a part of a fragment that could not be documented.
type Diagnostic struct {
	Path    string
	Message string
}

// Tree is the output of one build call.
type Tree struct {
	Nodes       []*domain.DocNode
	Diagnostics []Diagnostic
}

// Option configures a Builder.
type Option func(*Builder)

// WithMaxDepth sets the recursion limit. Values below 1 keep the default.
func WithMaxDepth(n int) Option {
	return func(b *Builder) {
		if n > 0 {
			b.maxDepth = n
		}
	}
}

// WithLogger sets the logger used to report truncated fragments.
func WithLogger(logger *slog.Logger) Option {
	return func(b *Builder) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// Builder turns schema fragments into documentation trees.
// It holds no state between calls and is safe for concurrent use.
type Builder struct {
	maxDepth int
	logger   *slog.Logger
}

// NewBuilder creates a Builder.
func NewBuilder(opts ...Option) *Builder {
	b := &Builder{
		maxDepth: DefaultMaxDepth,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(b)
	}
	b.logger = b.logger.With("component", "schema_tree_builder")
	return b
}

// Nodes builds one level of documentation for s. Unknown shapes yield no nodes.
func (b *Builder) Nodes(s *domain.Schema) Tree {
	w := newWalker(b)
	nodes := w.nodes(s, "$", 0)
	return Tree{Nodes: nodes, Diagnostics: w.diags}
}

// Edge builds the node documenting one named property.
func (b *Builder) Edge(name string, s *domain.Schema, required bool) (*domain.DocNode, []Diagnostic) {
	w := newWalker(b)
	node := w.edge(name, s, required, "$."+name, 0)
	return node, w.diags
}

var defaultBuilder = NewBuilder()

// CreateNodes builds one level of documentation for s with the default builder.
func CreateNodes(s *domain.Schema) []*domain.DocNode {
	return defaultBuilder.Nodes(s).Nodes
}

// CreateEdges builds the node documenting property name with the default builder.
func CreateEdges(name string, s *domain.Schema, required bool) *domain.DocNode {
	node, _ := defaultBuilder.Edge(name, s, required)
	return node
}

// walker carries the state of one build call. The active sets hold the fragments
// currently being expanded so that a fragment reached again through itself is cut.
type walker struct {
	b           *Builder
	diags       []Diagnostic
	activeNodes map[*domain.Schema]bool
	activeEdges map[*domain.Schema]bool
}

func newWalker(b *Builder) *walker {
	return &walker{
		b:           b,
		activeNodes: make(map[*domain.Schema]bool),
		activeEdges: make(map[*domain.Schema]bool),
	}
}

func (w *walker) circular(active map[*domain.Schema]bool, s *domain.Schema, path string) bool {
	if s == nil || !active[s] {
		return false
	}
	w.b.logger.Warn("Cutting circular schema reference.", slog.String("path", path))
	w.diags = append(w.diags, Diagnostic{Path: path, Message: "circular schema reference"})
	return true
}

func (w *walker) exceeded(path string, depth int) bool {
	if depth <= w.b.maxDepth {
		return false
	}
	msg := fmt.Sprintf("schema nesting exceeds max depth %d", w.b.maxDepth)
	w.b.logger.Warn("Truncating schema tree.", slog.String("path", path), slog.Int("max_depth", w.b.maxDepth))
	w.diags = append(w.diags, Diagnostic{Path: path, Message: msg})
	return true
}

func (w *walker) nodes(s *domain.Schema, path string, depth int) []*domain.DocNode {
	if w.exceeded(path, depth) || w.circular(w.activeNodes, s, path) {
		return nil
	}
	if s != nil {
		w.activeNodes[s] = true
		defer delete(w.activeNodes, s)
	}
	c := schema.Classify(s)
	switch c.Shape {
	case schema.ShapeComposition:
		return []*domain.DocNode{w.composition(c.Schema, path, depth)}
	case schema.ShapeObjectProperties:
		return w.properties(c.Schema, path, depth)
	case schema.ShapeAdditionalProperties:
		return w.additional(c.Schema, path, depth)
	case schema.ShapeArrayOfObjects, schema.ShapeArrayOfPrimitives:
		return w.items(c.Schema, path, depth)
	case schema.ShapePrimitive:
		return []*domain.DocNode{primitive(c.Schema)}
	default:
		return nil
	}
}

func (w *walker) edge(name string, s *domain.Schema, required bool, path string, depth int) *domain.DocNode {
	if w.exceeded(path, depth) || w.circular(w.activeEdges, s, path) {
		return nil
	}
	if s == nil {
		s = &domain.Schema{}
	}
	w.activeEdges[s] = true
	defer delete(w.activeEdges, s)
	c := schema.Classify(s)

	if c.Merged != nil {
		mergedRequired := contains(c.MergedRequired, name)
		if c.FromMerge() {
			return w.details(name, schema.TypeLabel(c.Merged), c.Merged, mergedRequired, path, depth)
		}
		return &domain.DocNode{
			Kind:        domain.NodeLeaf,
			Name:        name,
			TypeLabel:   schema.TypeLabel(s),
			Required:    mergedRequired,
			Qualifier:   schema.QualifierMessage(s),
			Description: c.Merged.Description,
		}
	}

	switch {
	case c.Shape == schema.ShapeComposition, c.Shape == schema.ShapeObjectProperties,
		c.Shape == schema.ShapeAdditionalProperties,
		c.Shape == schema.ShapeArrayOfObjects && expandable(s.Items):
		return w.details(name, schema.TypeLabel(s), s, required, path, depth)
	default:
		return &domain.DocNode{
			Kind:        domain.NodeLeaf,
			Name:        name,
			TypeLabel:   schema.TypeLabel(s),
			Required:    required,
			Qualifier:   schema.QualifierMessage(s),
			Description: s.Description,
		}
	}
}

func (w *walker) details(name, label string, s *domain.Schema, required bool, path string, depth int) *domain.DocNode {
	return &domain.DocNode{
		Kind:        domain.NodeDetails,
		Name:        name,
		TypeLabel:   label,
		Required:    required,
		Qualifier:   schema.QualifierMessage(s),
		Description: s.Description,
		Children:    w.nodes(s, path, depth+1),
	}
}

func (w *walker) properties(s *domain.Schema, path string, depth int) []*domain.DocNode {
	var out []*domain.DocNode
	for _, name := range s.Properties.Keys() {
		prop, _ := s.Properties.Get(name)
		if node := w.edge(name, prop, s.IsRequired(name), path+"."+name, depth+1); node != nil {
			out = append(out, node)
		}
	}
	return out
}

func (w *walker) additional(s *domain.Schema, path string, depth int) []*domain.DocNode {
	value := s.AdditionalProperties.Schema
	if value != nil && markerTypes[value.Type] {
		leaf := &domain.DocNode{
			Kind:      domain.NodeLeaf,
			Name:      PropertyNamePlaceholder,
			TypeLabel: value.Type,
			Format:    value.Format,
			Qualifier: schema.QualifierMessage(value),
		}
		if nested := value.AdditionalProperties; nested != nil {
			leaf.TypeLabel, leaf.Format = "", ""
			if nested.Schema != nil {
				leaf.TypeLabel, leaf.Format = nested.Schema.Type, nested.Schema.Format
			}
		}
		return []*domain.DocNode{leaf}
	}

	// Legacy shape: the value is itself a dictionary of named fragments.
	var out []*domain.DocNode
	for _, kw := range schema.Keywords(value) {
		if node := w.edge(kw.Name, kw.Schema, s.IsRequired(kw.Name), path+"."+kw.Name, depth+1); node != nil {
			out = append(out, node)
		}
	}
	return out
}

func (w *walker) items(s *domain.Schema, path string, depth int) []*domain.DocNode {
	items := s.Items
	itemsPath := path + "[]"

	switch {
	case items.Properties != nil:
		return w.properties(items, itemsPath, depth)
	case items.AdditionalProperties != nil:
		return w.additional(items, itemsPath, depth)
	case items.HasComposition():
		return []*domain.DocNode{w.composition(items, itemsPath, depth)}
	}

	if items.AllOf != nil {
		merged, _ := schema.MergeAllOf(items.AllOf)
		switch {
		case merged.HasComposition():
			out := []*domain.DocNode{w.composition(merged, itemsPath, depth)}
			if merged.Properties != nil {
				out = append(out, w.properties(merged, itemsPath, depth)...)
			}
			return out
		case merged.Properties != nil:
			return w.properties(merged, itemsPath, depth)
		case merged.AdditionalProperties != nil:
			return w.additional(merged, itemsPath, depth)
		}
	}

	if schema.IsBarePrimitive(items) {
		return w.nodes(items, itemsPath, depth+1)
	}

	// Fallback for shapes the builder does not understand: every key of items
	// becomes an edge, required taken from the array fragment itself.
	var out []*domain.DocNode
	for _, kw := range schema.Keywords(items) {
		if node := w.edge(kw.Name, kw.Schema, s.IsRequired(kw.Name), itemsPath+"."+kw.Name, depth+1); node != nil {
			out = append(out, node)
		}
	}
	return out
}

// expandable reports whether array items render as child nodes. Other items
// document the array as a single leaf such as "object[]".
func expandable(items *domain.Schema) bool {
	if items == nil {
		return false
	}
	if items.Properties != nil || items.AdditionalProperties != nil || items.HasComposition() {
		return true
	}
	if items.AllOf == nil {
		return false
	}
	merged, _ := schema.MergeAllOf(items.AllOf)
	return merged.HasComposition() || merged.Properties != nil || merged.AdditionalProperties != nil
}

func (w *walker) composition(s *domain.Schema, path string, depth int) *domain.DocNode {
	keyword, alternatives := s.Alternatives()
	node := &domain.DocNode{
		Kind: domain.NodeComposition,
		Name: keyword,
	}
	for i, alt := range alternatives {
		if alt == nil {
			continue
		}
		altPath := fmt.Sprintf("%s.%s[%d]", path, keyword, i)
		var children []*domain.DocNode
		if alt.Properties != nil {
			children = append(children, w.properties(alt, altPath, depth+1)...)
		}
		if alt.AllOf != nil {
			children = append(children, w.nodes(alt, altPath, depth+1)...)
		}
		if alt.Items != nil {
			children = append(children, w.items(alt, altPath, depth+1)...)
		}
		if alt.Type == "string" {
			children = append(children, w.nodes(alt, altPath, depth+1)...)
		}
		if len(children) == 0 {
			continue
		}
		label := alt.Title
		if label == "" {
			label = fmt.Sprintf("MOD%d", i+1)
		}
		node.Children = append(node.Children, &domain.DocNode{
			Kind:     domain.NodeTab,
			Name:     label,
			Children: children,
		})
	}
	return node
}

func primitive(s *domain.Schema) *domain.DocNode {
	return &domain.DocNode{
		Kind:        domain.NodeLeaf,
		TypeLabel:   s.Type,
		Format:      s.Format,
		Qualifier:   schema.QualifierMessage(s),
		Description: s.Description,
	}
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
