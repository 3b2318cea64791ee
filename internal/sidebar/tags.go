package sidebar

import (
	"strings"

	"github.com/i2y/openapidocs/internal/domain"
	"github.com/i2y/openapidocs/pkg/shared/textcase"
)

// UntaggedLabel is the category holding api pages without tags.
const UntaggedLabel = "API"

// tagGrouper holds what the tag-based algorithms derive once from the input.
type tagGrouper struct {
	opts     Options
	basePath string
	tags     []domain.Tag
	apiItems []domain.PageMetadata
	infos    []domain.PageMetadata
}

func newTagGrouper(items []domain.PageMetadata, tags []domain.Tag, opts Options) *tagGrouper {
	g := &tagGrouper{
		opts:     opts,
		basePath: docBasePath(opts.OutputDir),
		tags:     tags,
	}
	for _, item := range items {
		switch item.Type {
		case domain.PageTypeAPI:
			g.apiItems = append(g.apiItems, item)
		case domain.PageTypeInfo:
			g.infos = append(g.infos, item)
		}
	}
	return g
}

// groupByTags builds one category per tag in first-appearance order. An item with
// several tags appears in each of their categories. Categories that end up empty are
// pruned, untagged items go to a trailing "API" category, and a single info page is
// placed first unless categories already link to it.
func groupByTags(items []domain.PageMetadata, tags []domain.Tag, opts Options) []*domain.SidebarItem {
	g := newTagGrouper(items, tags, opts)
	var out []*domain.SidebarItem
	for _, tag := range uniqueTags(g.apiItems) {
		out = append(out, g.category(tag))
	}
	out = pruneEmpty(out)
	if untagged := g.untagged(); untagged != nil {
		out = append(out, untagged)
	}
	return g.withRootIntro(out)
}

// groupByTagGroups nests the tag categories under their x-tagGroups entry.
// Tags outside every group follow the groups as plain tag categories.
func groupByTagGroups(items []domain.PageMetadata, tags []domain.Tag, opts Options) []*domain.SidebarItem {
	g := newTagGrouper(items, tags, opts)
	grouped := make(map[string]bool)
	var out []*domain.SidebarItem
	for _, group := range opts.TagGroups {
		outer := g.newCategory(group.Name)
		for _, tag := range group.Tags {
			grouped[tag] = true
			outer.Items = append(outer.Items, g.category(tag))
		}
		outer.Items = pruneEmpty(outer.Items)
		out = append(out, outer)
	}
	out = pruneEmpty(out)

	var rest []*domain.SidebarItem
	for _, tag := range uniqueTags(g.apiItems) {
		if !grouped[tag] {
			rest = append(rest, g.category(tag))
		}
	}
	out = append(out, pruneEmpty(rest)...)
	if untagged := g.untagged(); untagged != nil {
		out = append(out, untagged)
	}
	return g.withRootIntro(out)
}

func (g *tagGrouper) category(tag string) *domain.SidebarItem {
	c := g.newCategory(tag)
	c.Link = g.link(tag)
	for _, item := range g.apiItems {
		if hasTag(item, tag) {
			c.Items = append(c.Items, g.docItem(item))
		}
	}
	return c
}

func (g *tagGrouper) untagged() *domain.SidebarItem {
	c := g.newCategory(UntaggedLabel)
	for _, item := range g.apiItems {
		if len(item.Tags()) == 0 {
			c.Items = append(c.Items, g.docItem(item))
		}
	}
	if len(c.Items) == 0 {
		return nil
	}
	return c
}

func (g *tagGrouper) withRootIntro(out []*domain.SidebarItem) []*domain.SidebarItem {
	if len(g.infos) != 1 || g.opts.CategoryLinkSource == LinkSourceInfo {
		return out
	}
	intro := &domain.SidebarItem{
		Type: domain.SidebarDoc,
		ID:   g.docID(g.infos[0].ID),
	}
	return append([]*domain.SidebarItem{intro}, out...)
}

func (g *tagGrouper) newCategory(label string) *domain.SidebarItem {
	return newCategory(label, g.opts)
}

func (g *tagGrouper) docItem(item domain.PageMetadata) *domain.SidebarItem {
	label := item.SidebarLabel()
	if label == "" {
		label = item.Title
	}
	if label == "" {
		label = item.ID
	}
	return &domain.SidebarItem{
		Type:        domain.SidebarDoc,
		ID:          g.docID(item.ID),
		Label:       label,
		CustomProps: g.opts.CustomProps,
		ClassName:   className(item),
	}
}

func (g *tagGrouper) docID(id string) string {
	if g.basePath == "" {
		return id
	}
	return g.basePath + "/" + id
}

// link resolves the category link according to the configured source.
func (g *tagGrouper) link(tag string) *domain.CategoryLink {
	switch g.opts.CategoryLinkSource {
	case LinkSourceInfo:
		for _, info := range g.infos {
			if info.Info != nil && contains(info.Info.Tags, tag) {
				return &domain.CategoryLink{Type: domain.CategoryLinkDoc, ID: g.docID(info.ID)}
			}
		}
		return nil
	case LinkSourceTag:
		for _, t := range g.tags {
			if t.Name == tag || (t.DisplayName != "" && t.DisplayName == tag) {
				return &domain.CategoryLink{
					Type:        domain.CategoryLinkGeneratedIndex,
					Title:       tag,
					Description: t.Description,
					Slug:        categorySlug(tag),
				}
			}
		}
		return nil
	case LinkSourceDefault:
		return &domain.CategoryLink{
			Type:  domain.CategoryLinkGeneratedIndex,
			Title: tag,
			Slug:  categorySlug(tag),
		}
	default:
		return nil
	}
}

func categorySlug(tag string) string {
	return "/category/" + textcase.Kebab(tag)
}

// docBasePath drops the first segment of the output directory ("docs/petstore" -> "petstore").
func docBasePath(outputDir string) string {
	if len(outputDir) < 2 {
		return ""
	}
	i := strings.Index(outputDir[1:], "/")
	if i < 0 {
		return ""
	}
	return strings.TrimLeft(outputDir[i+1:], "/")
}

// className marks deprecated operations and carries the http method for styling.
func className(item domain.PageMetadata) string {
	if item.API == nil {
		return ""
	}
	var classes []string
	if item.API.Deprecated {
		classes = append(classes, "menu__list-item--deprecated")
	}
	if item.API.Method != "" {
		classes = append(classes, "api-method", item.API.Method)
	}
	return strings.Join(classes, " ")
}

func newCategory(label string, opts Options) *domain.SidebarItem {
	collapsible, collapsed := opts.Collapsible, opts.Collapsed
	return &domain.SidebarItem{
		Type:        domain.SidebarCategory,
		Label:       label,
		Collapsible: &collapsible,
		Collapsed:   &collapsed,
	}
}

func uniqueTags(apiItems []domain.PageMetadata) []string {
	seen := make(map[string]bool)
	var out []string
	for _, item := range apiItems {
		for _, tag := range item.Tags() {
			if tag == "" || seen[tag] {
				continue
			}
			seen[tag] = true
			out = append(out, tag)
		}
	}
	return out
}

func pruneEmpty(categories []*domain.SidebarItem) []*domain.SidebarItem {
	out := categories[:0]
	for _, c := range categories {
		if len(c.Items) > 0 {
			out = append(out, c)
		}
	}
	return out
}

func hasTag(item domain.PageMetadata, tag string) bool {
	return contains(item.Tags(), tag)
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
