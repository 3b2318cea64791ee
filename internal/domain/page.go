package domain

// PageType identifies the variant of a page-metadata record.
type PageType string

const (
	PageTypeAPI  PageType = "api"
	PageTypeInfo PageType = "info"
	PageTypeDoc  PageType = "doc"
)

// PageMetadata is one generated documentation page. Records are created once by the
// page pipeline and consumed read-only afterwards.
type PageMetadata struct {
	Type          PageType       `json:"type"`
	ID            string         `json:"id"`
	Title         string         `json:"title"`
	Description   string         `json:"description,omitempty"`
	Permalink     string         `json:"permalink"`
	Source        string         `json:"source"`
	SourceDirName string         `json:"sourceDirName"`
	FrontMatter   map[string]any `json:"frontMatter,omitempty"`
	API           *APIMetadata   `json:"api,omitempty"`
	Info          *InfoMetadata  `json:"info,omitempty"`
}

// APIMetadata describes one operation.
type APIMetadata struct {
	Method      string        `json:"method"`
	Path        string        `json:"path"`
	OperationID string        `json:"operationId,omitempty"`
	Summary     string        `json:"summary,omitempty"`
	Description string        `json:"description,omitempty"`
	Tags        []string      `json:"tags,omitempty"`
	Deprecated  bool          `json:"deprecated,omitempty"`
	InfoTitle   string        `json:"infoTitle,omitempty"`
	Parameters  []Parameter   `json:"parameters,omitempty"`
	RequestBody *DocNode      `json:"requestBody,omitempty"`
	Responses   []APIResponse `json:"responses,omitempty"`
}

// Parameter is a documented operation parameter.
type Parameter struct {
	Name        string   `json:"name"`
	In          string   `json:"in"`
	Required    bool     `json:"required,omitempty"`
	Deprecated  bool     `json:"deprecated,omitempty"`
	Description string   `json:"description,omitempty"`
	Schema      *DocNode `json:"schema,omitempty"`
}

// APIResponse is the documentation of one response status.
type APIResponse struct {
	Status      string   `json:"status"`
	Description string   `json:"description,omitempty"`
	Body        *DocNode `json:"body,omitempty"`
}

// InfoMetadata describes the info object of a spec.
type InfoMetadata struct {
	Title       string   `json:"title"`
	Version     string   `json:"version,omitempty"`
	Description string   `json:"description,omitempty"`
	Tags        []string `json:"tags,omitempty"`
}

// SidebarLabel returns front matter sidebar_label when set.
func (p PageMetadata) SidebarLabel() string {
	if p.FrontMatter == nil {
		return ""
	}
	if label, ok := p.FrontMatter["sidebar_label"].(string); ok {
		return label
	}
	return ""
}

// Tags returns the operation tags of an api record, nil for other records.
func (p PageMetadata) Tags() []string {
	if p.Type != PageTypeAPI || p.API == nil {
		return nil
	}
	return p.API.Tags
}

// Tag is an entry of the spec's tag taxonomy.
type Tag struct {
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	DisplayName string `json:"x-displayName,omitempty" yaml:"x-displayName,omitempty"`
}

// TagGroup is an entry of the x-tagGroups extension.
type TagGroup struct {
	Name string   `json:"name" yaml:"name"`
	Tags []string `json:"tags" yaml:"tags"`
}

// DocSet is everything generated from one spec source.
type DocSet struct {
	Source    string         `json:"source"`
	Pages     []PageMetadata `json:"pages"`
	Tags      []Tag          `json:"tags,omitempty"`
	TagGroups []TagGroup     `json:"tagGroups,omitempty"`
}

// MergeTaxonomy unites the tags and tag groups of sets; the first definition of a name wins.
func MergeTaxonomy(sets []DocSet) ([]Tag, []TagGroup) {
	var tags []Tag
	var groups []TagGroup
	seenTags := make(map[string]bool)
	seenGroups := make(map[string]bool)
	for _, set := range sets {
		for _, t := range set.Tags {
			if !seenTags[t.Name] {
				seenTags[t.Name] = true
				tags = append(tags, t)
			}
		}
		for _, g := range set.TagGroups {
			if !seenGroups[g.Name] {
				seenGroups[g.Name] = true
				groups = append(groups, g)
			}
		}
	}
	return tags, groups
}
