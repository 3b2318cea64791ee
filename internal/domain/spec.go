package domain

import "strings"

// SpecType defines how a spec source is reached.
type SpecType string

const (
	SpecTypeFile   SpecType = "file"
	SpecTypeURL    SpecType = "url"
	SpecTypeGitHub SpecType = "github" // github://owner/repo/path[@ref]
)

// APISpec represents a fetched OpenAPI document before page generation.
type APISpec struct {
	// Source is the location the spec was loaded from (file path, URL, github:// URL).
	Source string
	// Type records which fetcher produced the spec.
	Type SpecType
	// RawData holds the unprocessed document bytes.
	RawData []byte
	// ParsedData holds the parsed document. For OpenAPI this is *openapi3.T;
	// it is kept as interface{} so the domain stays free of loader types.
	ParsedData interface{}
}

// DetectSpecType infers how a configured source is reached.
func DetectSpecType(source string) SpecType {
	switch {
	case strings.HasPrefix(source, "github://"):
		return SpecTypeGitHub
	case strings.HasPrefix(source, "http://"), strings.HasPrefix(source, "https://"):
		return SpecTypeURL
	default:
		return SpecTypeFile
	}
}
