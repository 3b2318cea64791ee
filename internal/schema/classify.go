package schema

import (
	"github.com/i2y/openapidocs/internal/domain"
)

// Shape is the closed set of fragment shapes the tree builder knows how to render.
type Shape int

const (
	// ShapeUnknown has no keyword the builder can render.
	ShapeUnknown Shape = iota
	// ShapeComposition has oneOf or anyOf alternatives.
	ShapeComposition
	// ShapeObjectProperties enumerates named properties.
	ShapeObjectProperties
	// ShapeAdditionalProperties describes a dictionary.
	ShapeAdditionalProperties
	// ShapeArrayOfObjects is an array whose items are not a bare primitive.
	ShapeArrayOfObjects
	// ShapeArrayOfPrimitives is an array of a bare primitive type.
	ShapeArrayOfPrimitives
	// ShapePrimitive has only a scalar type.
	ShapePrimitive
)

func (s Shape) String() string {
	switch s {
	case ShapeComposition:
		return "composition"
	case ShapeObjectProperties:
		return "object_properties"
	case ShapeAdditionalProperties:
		return "additional_properties"
	case ShapeArrayOfObjects:
		return "array_of_objects"
	case ShapeArrayOfPrimitives:
		return "array_of_primitives"
	case ShapePrimitive:
		return "primitive"
	default:
		return "unknown"
	}
}

// Classification is the result of classifying one fragment.
type Classification struct {
	Shape Shape
	// Schema is the fragment the shape applies to: the merged fragment when an allOf
	// re-classified as composition, properties or additionalProperties, else the input.
	Schema *domain.Schema
	// Merged is the allOf merge result; nil when the input has no allOf.
	Merged *domain.Schema
	// MergedRequired is the concatenated required list of the allOf members.
	MergedRequired []string
}

// FromMerge reports whether the shape was determined on the merged allOf fragment.
func (c Classification) FromMerge() bool {
	return c.Merged != nil && c.Schema == c.Merged
}

var primitiveTypes = map[string]bool{
	"string":  true,
	"number":  true,
	"integer": true,
	"boolean": true,
}

// Classify applies the shape precedence once:
// oneOf/anyOf, allOf (merged then re-classified), properties, additionalProperties,
// items, bare type, unknown.
func Classify(s *domain.Schema) Classification {
	if s == nil {
		return Classification{Shape: ShapeUnknown}
	}
	if s.HasComposition() {
		return Classification{Shape: ShapeComposition, Schema: s}
	}

	c := Classification{Schema: s}
	if s.AllOf != nil {
		merged, required := MergeAllOf(s.AllOf)
		c.Merged, c.MergedRequired = merged, required
		switch {
		case merged.HasComposition():
			c.Shape, c.Schema = ShapeComposition, merged
			return c
		case merged.Properties != nil:
			c.Shape, c.Schema = ShapeObjectProperties, merged
			return c
		case merged.AdditionalProperties != nil:
			c.Shape, c.Schema = ShapeAdditionalProperties, merged
			return c
		}
	}

	c.Shape = classifyOwn(s)
	return c
}

func classifyOwn(s *domain.Schema) Shape {
	switch {
	case s.Properties != nil:
		return ShapeObjectProperties
	case s.AdditionalProperties != nil:
		return ShapeAdditionalProperties
	case s.Items != nil:
		if IsBarePrimitive(s.Items) {
			return ShapeArrayOfPrimitives
		}
		return ShapeArrayOfObjects
	case s.Type != "":
		return ShapePrimitive
	default:
		return ShapeUnknown
	}
}

// IsBarePrimitive reports whether s is a primitive type with no structural keywords.
func IsBarePrimitive(s *domain.Schema) bool {
	if s == nil || !primitiveTypes[s.Type] {
		return false
	}
	return s.Properties == nil && s.AdditionalProperties == nil && s.Items == nil &&
		s.OneOf == nil && s.AnyOf == nil && s.AllOf == nil
}
