package schema

import (
	"github.com/i2y/openapidocs/internal/domain"
)

// MergeAllOf combines the members of an allOf into one effective fragment.
//
// Keywords are merged last-wins, booleans are OR-ed, and readOnly/example resolve to
// true once any member sets them. Properties are united in first-appearance order and
// merged recursively when several members declare the same name.
//
// The returned required list is the plain concatenation of every member's required
// array, nested allOf members included; duplicates are kept. The merged fragment's own Required is deduplicated.
// The inputs are never modified.
func MergeAllOf(fragments []*domain.Schema) (*domain.Schema, []string) {
	merged := &domain.Schema{}
	var required []string
	for _, f := range fragments {
		if f == nil {
			continue
		}
		flat, flatRequired := flatten(f)
		required = append(required, flatRequired...)
		mergeInto(merged, flat)
	}
	merged.Required = dedupe(merged.Required)
	return merged, required
}

// flatten resolves a member's own nested allOf so its keywords can be merged directly.
// It also returns the required lists of its nested members followed by its own.
func flatten(f *domain.Schema) (*domain.Schema, []string) {
	if len(f.AllOf) == 0 {
		return f, f.Required
	}
	nested, nestedRequired := MergeAllOf(f.AllOf)
	own := *f
	own.AllOf = nil
	out := &domain.Schema{}
	mergeInto(out, nested)
	mergeInto(out, &own)
	required := append(nestedRequired, f.Required...)
	return out, required
}

func mergeInto(dst, src *domain.Schema) {
	if src.Type != "" {
		dst.Type = src.Type
	}
	if src.Title != "" {
		dst.Title = src.Title
	}
	if src.Description != "" {
		dst.Description = src.Description
	}
	if src.Format != "" {
		dst.Format = src.Format
	}
	if src.Pattern != "" {
		dst.Pattern = src.Pattern
	}
	if src.XMLName != "" {
		dst.XMLName = src.XMLName
	}
	if src.Default != nil {
		dst.Default = src.Default
	}
	if src.Enum != nil {
		dst.Enum = src.Enum
	}
	if src.MinLength != nil {
		dst.MinLength = src.MinLength
	}
	if src.MaxLength != nil {
		dst.MaxLength = src.MaxLength
	}
	if src.Minimum != nil {
		dst.Minimum = src.Minimum
	}
	if src.Maximum != nil {
		dst.Maximum = src.Maximum
	}
	if src.OneOf != nil {
		dst.OneOf = src.OneOf
	}
	if src.AnyOf != nil {
		dst.AnyOf = src.AnyOf
	}
	if src.AdditionalProperties != nil {
		dst.AdditionalProperties = src.AdditionalProperties
	}

	dst.Deprecated = dst.Deprecated || src.Deprecated
	dst.Nullable = dst.Nullable || src.Nullable
	dst.WriteOnly = dst.WriteOnly || src.WriteOnly
	dst.ExclusiveMinimum = dst.ExclusiveMinimum || src.ExclusiveMinimum
	dst.ExclusiveMaximum = dst.ExclusiveMaximum || src.ExclusiveMaximum
	dst.Circular = dst.Circular || src.Circular

	// Resolver contract: once set anywhere, these are true.
	if src.ReadOnly {
		dst.ReadOnly = true
	}
	if src.Example != nil {
		dst.Example = true
	}

	if src.Items != nil {
		if dst.Items == nil {
			dst.Items = src.Items
		} else {
			dst.Items, _ = MergeAllOf([]*domain.Schema{dst.Items, src.Items})
		}
	}

	if src.Properties != nil {
		props := domain.NewSchemaMap()
		for _, name := range dst.Properties.Keys() {
			v, _ := dst.Properties.Get(name)
			props.Set(name, v)
		}
		for _, name := range src.Properties.Keys() {
			v, _ := src.Properties.Get(name)
			if existing, ok := props.Get(name); ok && existing != nil && v != nil {
				v, _ = MergeAllOf([]*domain.Schema{existing, v})
			}
			props.Set(name, v)
		}
		dst.Properties = props
	}

	if src.Extra != nil {
		extra := domain.NewSchemaMap()
		for _, m := range []*domain.SchemaMap{dst.Extra, src.Extra} {
			for _, name := range m.Keys() {
				v, _ := m.Get(name)
				extra.Set(name, v)
			}
		}
		dst.Extra = extra
	}

	dst.Required = append(dst.Required, src.Required...)
}

func dedupe(in []string) []string {
	if in == nil {
		return nil
	}
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, v := range in {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
