// Package sidebar groups flat page-metadata records into a navigation tree.
package sidebar

import (
	"github.com/i2y/openapidocs/internal/domain"
)

// Generate builds the sidebar for items using the algorithm selected by opts.
// Items are read in order and never modified.
func Generate(items []domain.PageMetadata, tags []domain.Tag, opts Options) ([]*domain.SidebarItem, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	switch opts.GroupPathsBy {
	case GroupByPath:
		return groupByPath(items, opts)
	case GroupByTagGroup:
		return groupByTagGroups(items, tags, opts), nil
	default:
		return groupByTags(items, tags, opts), nil
	}
}
