package schema

import (
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// maxRefHops bounds chains of $ref pointing at other $refs.
const maxRefHops = 32

// Document is the raw node tree of an OpenAPI document. kin-openapi decodes
// properties into Go maps, so their document order is read back from here.
// A nil *Document is valid and finds nothing.
type Document struct {
	root *yaml.Node
}

// ParseDocument parses a YAML or JSON OpenAPI document into its node tree.
func ParseDocument(data []byte) (*Document, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("failed to parse openapi document: %w", err)
	}
	if root.Kind != yaml.DocumentNode || len(root.Content) == 0 {
		return nil, ErrNotAMapping
	}
	doc := &Document{root: deref(root.Content[0])}
	if doc.root.Kind != yaml.MappingNode {
		return nil, ErrNotAMapping
	}
	return doc, nil
}

// Node walks mapping keys and sequence indexes from the document root,
// following local $ref pointers on the way. It returns nil when the path does not exist.
func (d *Document) Node(path ...string) *yaml.Node {
	if d == nil {
		return nil
	}
	return d.walk(d.root, path...)
}

// Lookup walks path below n the way Node walks it below the root.
func (d *Document) Lookup(n *yaml.Node, path ...string) *yaml.Node {
	if d == nil || n == nil {
		return nil
	}
	return d.walk(n, path...)
}

func (d *Document) walk(n *yaml.Node, path ...string) *yaml.Node {
	n = d.resolve(n)
	for _, key := range path {
		n = d.resolve(child(n, key))
		if n == nil {
			return nil
		}
	}
	return n
}

// resolve follows local "$ref" pointers. External references are returned unresolved.
func (d *Document) resolve(n *yaml.Node) *yaml.Node {
	for hops := 0; hops < maxRefHops; hops++ {
		n = deref(n)
		if d == nil || n == nil || n.Kind != yaml.MappingNode {
			return n
		}
		ref := child(n, "$ref")
		if ref == nil || !strings.HasPrefix(ref.Value, "#/") {
			return n
		}
		target := d.root
		for _, token := range strings.Split(strings.TrimPrefix(ref.Value, "#/"), "/") {
			token = strings.ReplaceAll(strings.ReplaceAll(token, "~1", "/"), "~0", "~")
			if target = child(deref(target), token); target == nil {
				return nil
			}
		}
		n = target
	}
	return nil
}

// child returns the value of a mapping key or the element of a sequence index.
func child(n *yaml.Node, key string) *yaml.Node {
	n = deref(n)
	if n == nil {
		return nil
	}
	switch n.Kind {
	case yaml.MappingNode:
		for i := 0; i+1 < len(n.Content); i += 2 {
			if n.Content[i].Value == key {
				return n.Content[i+1]
			}
		}
	case yaml.SequenceNode:
		i, err := strconv.Atoi(key)
		if err == nil && i >= 0 && i < len(n.Content) {
			return n.Content[i]
		}
	}
	return nil
}

// keys lists the keys of a mapping node in document order.
func keys(n *yaml.Node) []string {
	n = deref(n)
	if n == nil || n.Kind != yaml.MappingNode {
		return nil
	}
	out := make([]string, 0, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		out = append(out, n.Content[i].Value)
	}
	return out
}
