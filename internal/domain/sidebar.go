package domain

// SidebarItemType identifies the variant of a sidebar entry.
type SidebarItemType string

const (
	SidebarCategory SidebarItemType = "category"
	SidebarLink     SidebarItemType = "link"
	SidebarDoc      SidebarItemType = "doc"
)

// CategoryLinkType identifies what a category title links to.
type CategoryLinkType string

const (
	CategoryLinkDoc            CategoryLinkType = "doc"
	CategoryLinkGeneratedIndex CategoryLinkType = "generated-index"
)

// SidebarItem is one node of the generated sidebar. Categories nest further items.
type SidebarItem struct {
	Type        SidebarItemType `json:"type"`
	ID          string          `json:"id,omitempty"`
	Label       string          `json:"label,omitempty"`
	Href        string          `json:"href,omitempty"`
	DocID       string          `json:"docId,omitempty"`
	ClassName   string          `json:"className,omitempty"`
	CustomProps map[string]any  `json:"customProps,omitempty"`
	Link        *CategoryLink   `json:"link,omitempty"`
	Collapsible *bool           `json:"collapsible,omitempty"`
	Collapsed   *bool           `json:"collapsed,omitempty"`
	Items       []*SidebarItem  `json:"items,omitempty"`
}

// CategoryLink is the page a category title points to.
type CategoryLink struct {
	Type        CategoryLinkType `json:"type"`
	ID          string           `json:"id,omitempty"`
	Title       string           `json:"title,omitempty"`
	Description string           `json:"description,omitempty"`
	Slug        string           `json:"slug,omitempty"`
}

// CategoryMetadata is the content of a category-description file.
type CategoryMetadata struct {
	Label       string         `json:"label,omitempty"`
	Position    *float64       `json:"position,omitempty"`
	Collapsible *bool          `json:"collapsible,omitempty"`
	Collapsed   *bool          `json:"collapsed,omitempty"`
	ClassName   string         `json:"className,omitempty"`
	CustomProps map[string]any `json:"customProps,omitempty"`
	Link        *CategoryLink  `json:"link,omitempty"`
}
