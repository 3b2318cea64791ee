package schema

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/i2y/openapidocs/internal/domain"
)

const componentsPrefix = "#/components/schemas/"

// TypeLabel returns the display type of a fragment, e.g. "Pet", "int64", "string[]".
func TypeLabel(s *domain.Schema) string {
	if s == nil {
		return ""
	}
	if s.Items != nil {
		return prettyName(s.Items) + "[]"
	}
	return prettyName(s)
}

func prettyName(s *domain.Schema) string {
	if s == nil {
		return ""
	}
	if s.Ref != "" {
		name := RefName(s.Ref)
		if s.Circular {
			name += " (circular)"
		}
		return name
	}
	if s.Format != "" {
		return s.Format
	}
	if s.AllOf != nil {
		return "object"
	}
	if s.Type == "object" {
		if s.XMLName != "" {
			return s.XMLName
		}
		return s.Type
	}
	if s.Title != "" {
		return s.Title
	}
	return s.Type
}

// RefName strips the components prefix (or any pointer path) from a $ref.
func RefName(ref string) string {
	if strings.HasPrefix(ref, componentsPrefix) {
		return strings.TrimPrefix(ref, componentsPrefix)
	}
	if i := strings.LastIndex(ref, "/"); i >= 0 {
		return ref[i+1:]
	}
	return ref
}

// QualifierMessage summarizes the constraints of a fragment, or returns "" when none apply.
// Arrays describe the constraints of their items.
func QualifierMessage(s *domain.Schema) string {
	if s == nil {
		return ""
	}
	if s.Items != nil {
		return QualifierMessage(s.Items)
	}

	var groups []string

	hasMinLength := s.MinLength != nil && *s.MinLength > 0
	if hasMinLength || s.MaxLength != nil {
		var b strings.Builder
		if hasMinLength {
			fmt.Fprintf(&b, "%d ≤ ", *s.MinLength)
		}
		b.WriteString("length")
		if s.MaxLength != nil {
			fmt.Fprintf(&b, " ≤ %d", *s.MaxLength)
		}
		groups = append(groups, b.String())
	}

	if s.Minimum != nil || s.Maximum != nil {
		var b strings.Builder
		if s.Minimum != nil {
			op := "≤"
			if s.ExclusiveMinimum {
				op = "<"
			}
			fmt.Fprintf(&b, "%s %s ", formatNumber(*s.Minimum), op)
		}
		b.WriteString("value")
		if s.Maximum != nil {
			op := "≤"
			if s.ExclusiveMaximum {
				op = "<"
			}
			fmt.Fprintf(&b, " %s %s", op, formatNumber(*s.Maximum))
		}
		groups = append(groups, b.String())
	}

	if s.Pattern != "" {
		groups = append(groups, fmt.Sprintf("Value must match regular expression `%s`", s.Pattern))
	}

	if len(s.Enum) > 0 {
		values := make([]string, 0, len(s.Enum))
		for _, e := range s.Enum {
			values = append(values, fmt.Sprintf("`%v`", e))
		}
		groups = append(groups, "["+strings.Join(values, ", ")+"]")
	}

	if s.Default != nil {
		groups = append(groups, fmt.Sprintf("Default value: `%v`", s.Default))
	}

	if len(groups) == 0 {
		return ""
	}
	return "**Possible values:** " + strings.Join(groups, ", ")
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
