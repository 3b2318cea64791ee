package schema

import (
	"sort"
	"strconv"

	"github.com/getkin/kin-openapi/openapi3"
	"gopkg.in/yaml.v3"

	"github.com/i2y/openapidocs/internal/domain"
)

// FromOpenAPI converts a kin-openapi schema reference into a fragment.
// Property names are sorted since no document order is known.
func FromOpenAPI(ref *openapi3.SchemaRef) *domain.Schema {
	return (*Document)(nil).Schema(ref, nil)
}

// Schema converts a kin-openapi schema reference into a fragment, taking property
// order from node, the raw schema in d. Properties node does not list are appended
// in sorted order. A reference back to one of its own ancestors is cut into a
// fragment marked Circular.
func (d *Document) Schema(ref *openapi3.SchemaRef, node *yaml.Node) *domain.Schema {
	c := converter{doc: d, visiting: make(map[*openapi3.Schema]bool)}
	return c.convert(ref, node)
}

type converter struct {
	doc      *Document
	visiting map[*openapi3.Schema]bool
}

func (c *converter) convert(ref *openapi3.SchemaRef, node *yaml.Node) *domain.Schema {
	if ref == nil {
		return nil
	}
	v := ref.Value
	if v == nil {
		if ref.Ref != "" {
			return &domain.Schema{Ref: ref.Ref}
		}
		return nil
	}
	if c.visiting[v] {
		return &domain.Schema{
			Ref:         ref.Ref,
			Type:        firstType(v.Type),
			Description: v.Description,
			Circular:    true,
		}
	}
	c.visiting[v] = true
	defer delete(c.visiting, v)
	node = c.doc.resolve(node)

	s := &domain.Schema{
		Ref:              ref.Ref,
		Type:             firstType(v.Type),
		Title:            v.Title,
		Description:      v.Description,
		Format:           v.Format,
		Required:         v.Required,
		Enum:             v.Enum,
		Default:          v.Default,
		Example:          v.Example,
		ReadOnly:         v.ReadOnly,
		WriteOnly:        v.WriteOnly,
		Deprecated:       v.Deprecated,
		Nullable:         v.Nullable,
		MaxLength:        v.MaxLength,
		Minimum:          v.Min,
		Maximum:          v.Max,
		ExclusiveMinimum: v.ExclusiveMin,
		ExclusiveMaximum: v.ExclusiveMax,
		Pattern:          v.Pattern,
	}
	if v.MinLength > 0 {
		minLength := v.MinLength
		s.MinLength = &minLength
	}
	if v.XML != nil {
		s.XMLName = v.XML.Name
	}

	if v.Properties != nil {
		s.Properties = domain.NewSchemaMap()
		propsNode := c.doc.resolve(child(node, "properties"))
		for _, name := range propertyOrder(v.Properties, propsNode) {
			s.Properties.Set(name, c.convert(v.Properties[name], child(propsNode, name)))
		}
	}

	if v.AdditionalProperties.Has != nil || v.AdditionalProperties.Schema != nil {
		s.AdditionalProperties = &domain.AdditionalProperties{
			Allowed: v.AdditionalProperties.Has,
			Schema:  c.convert(v.AdditionalProperties.Schema, child(node, "additionalProperties")),
		}
	}

	s.Items = c.convert(v.Items, child(node, "items"))
	s.OneOf = c.convertAll(v.OneOf, child(node, "oneOf"))
	s.AnyOf = c.convertAll(v.AnyOf, child(node, "anyOf"))
	s.AllOf = c.convertAll(v.AllOf, child(node, "allOf"))
	return s
}

func (c *converter) convertAll(refs openapi3.SchemaRefs, node *yaml.Node) []*domain.Schema {
	if refs == nil {
		return nil
	}
	node = c.doc.resolve(node)
	out := make([]*domain.Schema, 0, len(refs))
	for i, r := range refs {
		if s := c.convert(r, child(node, strconv.Itoa(i))); s != nil {
			out = append(out, s)
		}
	}
	return out
}

// propertyOrder lists the names of props in the order node declares them,
// followed by any names node lacks in sorted order.
func propertyOrder(props openapi3.Schemas, node *yaml.Node) []string {
	names := make([]string, 0, len(props))
	listed := make(map[string]bool, len(props))
	for _, name := range keys(node) {
		if _, ok := props[name]; ok && !listed[name] {
			listed[name] = true
			names = append(names, name)
		}
	}
	var rest []string
	for name := range props {
		if !listed[name] {
			rest = append(rest, name)
		}
	}
	sort.Strings(rest)
	return append(names, rest...)
}

// firstType takes the first non-null entry of a type list.
func firstType(t *openapi3.Types) string {
	if t == nil {
		return ""
	}
	for _, name := range *t {
		if name != "null" {
			return name
		}
	}
	return ""
}
