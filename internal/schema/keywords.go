package schema

import (
	"github.com/i2y/openapidocs/internal/domain"
)

// Keyword is one key of a fragment together with the fragment found under it.
// Keys holding plain values map to an empty fragment.
type Keyword struct {
	Name   string
	Schema *domain.Schema
}

var canonicalKeys = []string{
	"$ref", "type", "title", "description", "format",
	"properties", "additionalProperties", "items",
	"oneOf", "anyOf", "allOf",
	"required", "enum", "default", "example",
	"readOnly", "writeOnly", "deprecated", "nullable",
	"minLength", "maxLength", "minimum", "maximum",
	"exclusiveMinimum", "exclusiveMaximum", "pattern", "xml",
}

// Keywords lists the keys present on s: in source order for decoded fragments,
// in a fixed order otherwise, followed by unknown mapping keys.
func Keywords(s *domain.Schema) []Keyword {
	if s == nil {
		return nil
	}
	var out []Keyword
	if len(s.KeyOrder) > 0 {
		for _, key := range s.KeyOrder {
			out = append(out, Keyword{Name: key, Schema: keywordValue(s, key)})
		}
		return out
	}
	for _, key := range canonicalKeys {
		if present(s, key) {
			out = append(out, Keyword{Name: key, Schema: keywordValue(s, key)})
		}
	}
	for _, key := range s.Extra.Keys() {
		out = append(out, Keyword{Name: key, Schema: keywordValue(s, key)})
	}
	return out
}

func keywordValue(s *domain.Schema, key string) *domain.Schema {
	switch key {
	case "items":
		if s.Items != nil {
			return s.Items
		}
	case "additionalProperties":
		if s.AdditionalProperties != nil && s.AdditionalProperties.Schema != nil {
			return s.AdditionalProperties.Schema
		}
	default:
		if v, ok := s.Extra.Get(key); ok && v != nil {
			return v
		}
	}
	return &domain.Schema{}
}

func present(s *domain.Schema, key string) bool {
	switch key {
	case "$ref":
		return s.Ref != ""
	case "type":
		return s.Type != ""
	case "title":
		return s.Title != ""
	case "description":
		return s.Description != ""
	case "format":
		return s.Format != ""
	case "properties":
		return s.Properties != nil
	case "additionalProperties":
		return s.AdditionalProperties != nil
	case "items":
		return s.Items != nil
	case "oneOf":
		return s.OneOf != nil
	case "anyOf":
		return s.AnyOf != nil
	case "allOf":
		return s.AllOf != nil
	case "required":
		return s.Required != nil
	case "enum":
		return s.Enum != nil
	case "default":
		return s.Default != nil
	case "example":
		return s.Example != nil
	case "readOnly":
		return s.ReadOnly
	case "writeOnly":
		return s.WriteOnly
	case "deprecated":
		return s.Deprecated
	case "nullable":
		return s.Nullable
	case "minLength":
		return s.MinLength != nil
	case "maxLength":
		return s.MaxLength != nil
	case "minimum":
		return s.Minimum != nil
	case "maximum":
		return s.Maximum != nil
	case "exclusiveMinimum":
		return s.ExclusiveMinimum
	case "exclusiveMaximum":
		return s.ExclusiveMaximum
	case "pattern":
		return s.Pattern != ""
	case "xml":
		return s.XMLName != ""
	}
	return false
}
