package sidebar

import (
	"errors"
	"fmt"

	"github.com/i2y/openapidocs/internal/domain"
)

// GroupPathsBy selects the grouping algorithm.
type GroupPathsBy string

const (
	GroupByTag      GroupPathsBy = "tag"
	GroupByTags     GroupPathsBy = "tags" // alias of GroupByTag
	GroupByTagGroup GroupPathsBy = "tagGroup"
	GroupByPath     GroupPathsBy = "path"
)

// CategoryLinkSource selects what a category title links to.
type CategoryLinkSource string

const (
	// LinkSourceDefault links to a generated index with title and slug only.
	LinkSourceDefault CategoryLinkSource = ""
	// LinkSourceTag links to a generated index seeded with the description of
	// the matching tag object. Tags without one get no link.
	LinkSourceTag CategoryLinkSource = "tag"
	// LinkSourceInfo links to the info page that lists the tag.
	LinkSourceInfo CategoryLinkSource = "info"
	// LinkSourceAuto leaves categories without a link.
	LinkSourceAuto CategoryLinkSource = "auto"
)

var (
	ErrUnknownGrouping   = errors.New("unknown groupPathsBy value")
	ErrUnknownLinkSource = errors.New("unknown categoryLinkSource value")
)

// CategoryReader loads the category-description file of a directory.
// It returns nil metadata and no error when the directory has none.
type CategoryReader interface {
	ReadCategory(dirPath string) (*domain.CategoryMetadata, error)
}

// Options configures sidebar generation.
type Options struct {
	GroupPathsBy       GroupPathsBy
	CategoryLinkSource CategoryLinkSource
	Collapsible        bool
	Collapsed          bool
	CustomProps        map[string]any

	// OutputDir is the directory pages are written to; its path below the
	// docs root prefixes every doc id.
	OutputDir string

	// ContentPath and CategoryReader are used by the path algorithm to label
	// directory categories.
	ContentPath    string
	CategoryReader CategoryReader

	// TagGroups is the x-tagGroups taxonomy used by the tagGroup algorithm.
	TagGroups []domain.TagGroup
}

// Validate rejects unknown grouping and link-source values.
func (o Options) Validate() error {
	switch o.GroupPathsBy {
	case "", GroupByTag, GroupByTags, GroupByTagGroup, GroupByPath:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownGrouping, o.GroupPathsBy)
	}
	switch o.CategoryLinkSource {
	case LinkSourceDefault, LinkSourceTag, LinkSourceInfo, LinkSourceAuto:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownLinkSource, o.CategoryLinkSource)
	}
	return nil
}
