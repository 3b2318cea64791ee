package domain

// Schema is one fragment of an OpenAPI / JSON-Schema document.
//
// Fragments are treated as immutable input: normalization and tree building
// always derive new fragments instead of writing into the source.
type Schema struct {
	Ref         string
	Type        string
	Title       string
	Description string
	Format      string

	Properties           *SchemaMap
	AdditionalProperties *AdditionalProperties
	Items                *Schema

	OneOf []*Schema
	AnyOf []*Schema
	AllOf []*Schema

	Required []string
	Enum     []any
	Default  any
	Example  any

	ReadOnly   bool
	WriteOnly  bool
	Deprecated bool
	Nullable   bool

	MinLength        *uint64
	MaxLength        *uint64
	Minimum          *float64
	Maximum          *float64
	ExclusiveMinimum bool
	ExclusiveMaximum bool
	Pattern          string

	// XMLName is xml.name, used as the display name of object types.
	XMLName string
	// Circular marks a fragment that was cut because it references one of its ancestors.
	Circular bool
	// Extra holds unknown keys whose values are mappings, in source order.
	Extra *SchemaMap
	// KeyOrder lists the keys of the fragment in source order when it was decoded
	// from a document. Hand-built fragments leave it empty.
	KeyOrder []string
}

// AdditionalProperties is either a boolean or a nested fragment.
type AdditionalProperties struct {
	Allowed *bool
	Schema  *Schema
}

// SchemaMap is an insertion-ordered mapping of names to fragments.
type SchemaMap struct {
	keys   []string
	values map[string]*Schema
}

// NewSchemaMap returns an empty SchemaMap.
func NewSchemaMap() *SchemaMap {
	return &SchemaMap{values: make(map[string]*Schema)}
}

// Set adds or replaces a value, keeping the position of an existing key.
func (m *SchemaMap) Set(name string, s *Schema) {
	if m.values == nil {
		m.values = make(map[string]*Schema)
	}
	if _, ok := m.values[name]; !ok {
		m.keys = append(m.keys, name)
	}
	m.values[name] = s
}

// Get returns the fragment stored under name.
func (m *SchemaMap) Get(name string) (*Schema, bool) {
	if m == nil {
		return nil, false
	}
	s, ok := m.values[name]
	return s, ok
}

// Keys returns the names in insertion order.
func (m *SchemaMap) Keys() []string {
	if m == nil {
		return nil
	}
	out := make([]string, len(m.keys))
	copy(out, m.keys)
	return out
}

// Len reports the number of entries.
func (m *SchemaMap) Len() int {
	if m == nil {
		return 0
	}
	return len(m.keys)
}

// HasComposition reports whether oneOf or anyOf is present.
func (s *Schema) HasComposition() bool {
	return s != nil && (s.OneOf != nil || s.AnyOf != nil)
}

// Alternatives returns the oneOf list, or anyOf when oneOf is absent, together with its keyword.
func (s *Schema) Alternatives() (string, []*Schema) {
	if s == nil {
		return "", nil
	}
	if s.OneOf != nil {
		return "oneOf", s.OneOf
	}
	if s.AnyOf != nil {
		return "anyOf", s.AnyOf
	}
	return "", nil
}

// IsRequired reports whether name is listed in the fragment's own required set.
func (s *Schema) IsRequired(name string) bool {
	if s == nil {
		return false
	}
	for _, r := range s.Required {
		if r == name {
			return true
		}
	}
	return false
}
