package schema

import (
	"errors"
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/i2y/openapidocs/internal/domain"
)

// ErrNotAMapping is returned when a document root is not a mapping.
var ErrNotAMapping = errors.New("schema document root is not a mapping")

// Parse decodes a YAML or JSON schema fragment, keeping property and key order.
func Parse(data []byte) (*domain.Schema, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("failed to parse schema document: %w", err)
	}
	return FromNode(&root)
}

// FromNode decodes a fragment from a parsed YAML node.
// Keywords with unexpected value kinds are skipped rather than reported.
func FromNode(n *yaml.Node) (*domain.Schema, error) {
	if n.Kind == yaml.DocumentNode {
		if len(n.Content) == 0 {
			return nil, ErrNotAMapping
		}
		n = n.Content[0]
	}
	n = deref(n)
	if n.Kind != yaml.MappingNode {
		return nil, ErrNotAMapping
	}
	return decodeMapping(n), nil
}

func deref(n *yaml.Node) *yaml.Node {
	for n != nil && n.Kind == yaml.AliasNode {
		n = n.Alias
	}
	return n
}

// decodeFragment never fails: a non-mapping value becomes an empty fragment.
func decodeFragment(n *yaml.Node) *domain.Schema {
	n = deref(n)
	if n == nil || n.Kind != yaml.MappingNode {
		return &domain.Schema{}
	}
	return decodeMapping(n)
}

func decodeMapping(n *yaml.Node) *domain.Schema {
	s := &domain.Schema{}
	for i := 0; i+1 < len(n.Content); i += 2 {
		key := n.Content[i].Value
		val := deref(n.Content[i+1])
		s.KeyOrder = append(s.KeyOrder, key)

		switch key {
		case "$ref":
			s.Ref = scalar(val)
		case "type":
			decodeType(s, val)
		case "title":
			s.Title = scalar(val)
		case "description":
			s.Description = scalar(val)
		case "format":
			s.Format = scalar(val)
		case "pattern":
			s.Pattern = scalar(val)
		case "properties":
			s.Properties = decodeSchemaMap(val)
		case "additionalProperties":
			s.AdditionalProperties = decodeAdditional(val)
		case "items":
			if val.Kind == yaml.SequenceNode && len(val.Content) > 0 {
				s.Items = decodeFragment(val.Content[0])
			} else {
				s.Items = decodeFragment(val)
			}
		case "oneOf":
			s.OneOf = decodeList(val)
		case "anyOf":
			s.AnyOf = decodeList(val)
		case "allOf":
			s.AllOf = decodeList(val)
		case "required":
			if val.Kind == yaml.SequenceNode {
				for _, r := range val.Content {
					s.Required = append(s.Required, r.Value)
				}
			}
		case "enum":
			_ = val.Decode(&s.Enum)
		case "default":
			_ = val.Decode(&s.Default)
		case "example":
			_ = val.Decode(&s.Example)
		case "readOnly":
			s.ReadOnly = boolean(val)
		case "writeOnly":
			s.WriteOnly = boolean(val)
		case "deprecated":
			s.Deprecated = boolean(val)
		case "nullable":
			s.Nullable = boolean(val)
		case "minLength":
			s.MinLength = unsigned(val)
		case "maxLength":
			s.MaxLength = unsigned(val)
		case "minimum":
			s.Minimum = number(val)
		case "maximum":
			s.Maximum = number(val)
		case "exclusiveMinimum":
			// OpenAPI 3.0 uses a flag, 3.1 a bound.
			if f := number(val); f != nil {
				s.Minimum, s.ExclusiveMinimum = f, true
			} else {
				s.ExclusiveMinimum = boolean(val)
			}
		case "exclusiveMaximum":
			if f := number(val); f != nil {
				s.Maximum, s.ExclusiveMaximum = f, true
			} else {
				s.ExclusiveMaximum = boolean(val)
			}
		case "xml":
			if val.Kind == yaml.MappingNode {
				for j := 0; j+1 < len(val.Content); j += 2 {
					if val.Content[j].Value == "name" {
						s.XMLName = val.Content[j+1].Value
					}
				}
			}
		default:
			if val.Kind == yaml.MappingNode {
				if s.Extra == nil {
					s.Extra = domain.NewSchemaMap()
				}
				s.Extra.Set(key, decodeMapping(val))
			}
		}
	}
	return s
}

func decodeType(s *domain.Schema, n *yaml.Node) {
	switch n.Kind {
	case yaml.ScalarNode:
		s.Type = n.Value
	case yaml.SequenceNode:
		for _, t := range n.Content {
			if t.Value == "null" {
				s.Nullable = true
				continue
			}
			if s.Type == "" {
				s.Type = t.Value
			}
		}
	}
}

func decodeSchemaMap(n *yaml.Node) *domain.SchemaMap {
	m := domain.NewSchemaMap()
	if n.Kind != yaml.MappingNode {
		return m
	}
	for i := 0; i+1 < len(n.Content); i += 2 {
		m.Set(n.Content[i].Value, decodeFragment(n.Content[i+1]))
	}
	return m
}

func decodeAdditional(n *yaml.Node) *domain.AdditionalProperties {
	if n.Kind == yaml.ScalarNode {
		b := boolean(n)
		return &domain.AdditionalProperties{Allowed: &b}
	}
	return &domain.AdditionalProperties{Schema: decodeFragment(n)}
}

func decodeList(n *yaml.Node) []*domain.Schema {
	out := []*domain.Schema{}
	if n.Kind != yaml.SequenceNode {
		return out
	}
	for _, item := range n.Content {
		out = append(out, decodeFragment(item))
	}
	return out
}

func scalar(n *yaml.Node) string {
	if n.Kind != yaml.ScalarNode {
		return ""
	}
	return n.Value
}

func boolean(n *yaml.Node) bool {
	if n.Kind != yaml.ScalarNode {
		return false
	}
	b, err := strconv.ParseBool(n.Value)
	return err == nil && b
}

func unsigned(n *yaml.Node) *uint64 {
	if n.Kind != yaml.ScalarNode {
		return nil
	}
	v, err := strconv.ParseUint(n.Value, 10, 64)
	if err != nil {
		return nil
	}
	return &v
}

func number(n *yaml.Node) *float64 {
	if n.Kind != yaml.ScalarNode || n.Tag == "!!bool" {
		return nil
	}
	v, err := strconv.ParseFloat(n.Value, 64)
	if err != nil {
		return nil
	}
	return &v
}
