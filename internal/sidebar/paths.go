package sidebar

import (
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"github.com/i2y/openapidocs/internal/domain"
)

// terminator marks the end of a breadcrumb list. No file or folder is named ".".
const terminator = "."

func breadcrumbs(dir string) []string {
	if dir == "" || dir == terminator {
		return []string{terminator}
	}
	var crumbs []string
	for _, part := range strings.Split(dir, "/") {
		if part != "" {
			crumbs = append(crumbs, part)
		}
	}
	return append(crumbs, terminator)
}

// groupByPath mirrors the directory layout of the spec sources. Leading doc pages
// become flat links. Every source file after them becomes a category labelled with
// its api title, nested under one category per directory. Directory labels come from
// their category-description file when present.
func groupByPath(items []domain.PageMetadata, opts Options) ([]*domain.SidebarItem, error) {
	var out []*domain.SidebarItem
	for len(items) > 0 && items[0].Type == domain.PageTypeDoc {
		out = append(out, docLink(items[0]))
		items = items[1:]
	}

	var root []*domain.SidebarItem
	for _, group := range groupBySource(items) {
		first := group[0]
		visiting := &root
		var current []string
		for _, crumb := range breadcrumbs(first.SourceDirName) {
			if crumb == terminator {
				c := newCategory(sourceLabel(group), opts)
				c.Items = sourceItems(group, opts)
				*visiting = append(*visiting, c)
				break
			}

			current = append(current, crumb)
			label := crumb
			if opts.CategoryReader != nil {
				dir := filepath.Join(append([]string{opts.ContentPath}, current...)...)
				meta, err := opts.CategoryReader.ReadCategory(dir)
				if err != nil {
					return nil, fmt.Errorf("failed to read category of %s: %w", dir, err)
				}
				if meta != nil && meta.Label != "" {
					label = meta.Label
				}
			}

			if existing := findCategory(*visiting, label); existing != nil {
				visiting = &existing.Items
				continue
			}
			c := newCategory(label, opts)
			*visiting = append(*visiting, c)
			visiting = &c.Items
		}
	}

	if len(root) == 1 && root[0].Type == domain.SidebarCategory {
		root = root[0].Items
	}
	return append(out, root...), nil
}

// groupBySource splits items by source file, keeping first-appearance order.
func groupBySource(items []domain.PageMetadata) [][]domain.PageMetadata {
	index := make(map[string]int)
	var groups [][]domain.PageMetadata
	for _, item := range items {
		i, ok := index[item.Source]
		if !ok {
			i = len(groups)
			index[item.Source] = i
			groups = append(groups, nil)
		}
		groups[i] = append(groups[i], item)
	}
	return groups
}

func sourceLabel(group []domain.PageMetadata) string {
	for _, item := range group {
		if item.Type == domain.PageTypeAPI && item.API != nil {
			if item.API.InfoTitle != "" {
				return item.API.InfoTitle
			}
			break
		}
	}
	source := group[0].Source
	base := path.Base(filepath.ToSlash(source))
	return strings.TrimSuffix(base, path.Ext(base))
}

// sourceItems lays out one source file: docs, then intros, then tag categories,
// then the untagged "API" category.
func sourceItems(group []domain.PageMetadata, opts Options) []*domain.SidebarItem {
	var docs, intros []*domain.SidebarItem
	var apiItems []domain.PageMetadata
	for _, item := range group {
		switch item.Type {
		case domain.PageTypeDoc:
			docs = append(docs, docLink(item))
		case domain.PageTypeInfo:
			intros = append(intros, &domain.SidebarItem{
				Type:  domain.SidebarLink,
				Label: item.Title,
				Href:  item.Permalink,
				DocID: item.ID,
			})
		case domain.PageTypeAPI:
			apiItems = append(apiItems, item)
		}
	}

	out := append(docs, intros...)
	var tagged []*domain.SidebarItem
	for _, tag := range uniqueTags(apiItems) {
		c := newCategory(tag, opts)
		for _, item := range apiItems {
			if hasTag(item, tag) {
				c.Items = append(c.Items, apiLink(item))
			}
		}
		tagged = append(tagged, c)
	}
	out = append(out, pruneEmpty(tagged)...)

	untagged := newCategory(UntaggedLabel, opts)
	for _, item := range apiItems {
		if len(item.Tags()) == 0 {
			untagged.Items = append(untagged.Items, apiLink(item))
		}
	}
	if len(untagged.Items) > 0 {
		out = append(out, untagged)
	}
	return out
}

func docLink(item domain.PageMetadata) *domain.SidebarItem {
	label := item.SidebarLabel()
	if label == "" {
		label = item.ID
	}
	if label == "" {
		label = item.Title
	}
	return &domain.SidebarItem{
		Type:  domain.SidebarLink,
		Label: label,
		Href:  item.Permalink,
		DocID: item.ID,
	}
}

func apiLink(item domain.PageMetadata) *domain.SidebarItem {
	return &domain.SidebarItem{
		Type:      domain.SidebarLink,
		Label:     item.Title,
		Href:      item.Permalink,
		DocID:     item.ID,
		ClassName: className(item),
	}
}

func findCategory(items []*domain.SidebarItem, label string) *domain.SidebarItem {
	for _, item := range items {
		if item.Type == domain.SidebarCategory && item.Label == label {
			return item
		}
	}
	return nil
}
