package markdown

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/i2y/openapidocs/internal/domain"
)

// DocsSource is the doc-set source under which loaded pages are stored.
const DocsSource = "docs"

var (
	frontMatterRe = regexp.MustCompile(`(?s)\A---\r?\n(.*?)\r?\n---[ \t]*(?:\r?\n|\z)`)
	headingRe     = regexp.MustCompile(`(?m)^#[ \t]+(.+?)[ \t#]*$`)
)

// stringKeys are front matter keys that must hold strings when present.
var stringKeys = []string{"id", "title", "description", "sidebar_label", "slug"}

// Loader reads markdown pages that are listed before the api pages.
type Loader struct {
	baseURL     string
	contentPath string
	logger      *slog.Logger
}

// NewLoader creates a Loader. Permalinks are prefixed with baseURL; source
// directories are reported relative to contentPath.
func NewLoader(baseURL, contentPath string, logger *slog.Logger) *Loader {
	return &Loader{
		baseURL:     strings.TrimRight(baseURL, "/"),
		contentPath: contentPath,
		logger:      logger.With("component", "markdown_loader"),
	}
}

// Load reads every file in order. Any unreadable file or invalid front matter fails the load.
func (l *Loader) Load(ctx context.Context, paths []string) (domain.DocSet, error) {
	set := domain.DocSet{Source: DocsSource}
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return domain.DocSet{}, err
		}
		content, err := os.ReadFile(path)
		if err != nil {
			return domain.DocSet{}, fmt.Errorf("failed to read doc %s: %w", path, err)
		}
		page, err := l.page(path, string(content))
		if err != nil {
			return domain.DocSet{}, err
		}
		set.Pages = append(set.Pages, page)
	}
	l.logger.Info("Loaded doc pages", slog.Int("page_count", len(set.Pages)))
	return set, nil
}

func (l *Loader) page(path, content string) (domain.PageMetadata, error) {
	frontMatter, body, err := parseFrontMatter(content)
	if err != nil {
		return domain.PageMetadata{}, fmt.Errorf("invalid front matter in %s: %w", path, err)
	}

	id := stringValue(frontMatter, "id")
	if id == "" {
		id = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	title := stringValue(frontMatter, "title")
	if title == "" {
		title = contentTitle(body)
	}
	if title == "" {
		title = id
	}
	description := stringValue(frontMatter, "description")
	if description == "" {
		description = excerpt(body)
	}

	return domain.PageMetadata{
		Type:          domain.PageTypeDoc,
		ID:            id,
		Title:         title,
		Description:   description,
		Permalink:     l.baseURL + "/" + id,
		Source:        filepath.ToSlash(path),
		SourceDirName: l.sourceDirName(path),
		FrontMatter:   frontMatter,
	}, nil
}

func (l *Loader) sourceDirName(path string) string {
	dir := filepath.Dir(path)
	if l.contentPath != "" {
		if rel, err := filepath.Rel(l.contentPath, dir); err == nil && !strings.HasPrefix(rel, "..") {
			dir = rel
		}
	}
	return filepath.ToSlash(dir)
}

func parseFrontMatter(content string) (map[string]any, string, error) {
	m := frontMatterRe.FindStringSubmatchIndex(content)
	if m == nil {
		return nil, content, nil
	}
	frontMatter := map[string]any{}
	if err := yaml.Unmarshal([]byte(content[m[2]:m[3]]), &frontMatter); err != nil {
		return nil, "", err
	}
	for _, key := range stringKeys {
		if v, ok := frontMatter[key]; ok {
			if _, isString := v.(string); !isString {
				return nil, "", fmt.Errorf("%q must be a string, got %T", key, v)
			}
		}
	}
	return frontMatter, content[m[1]:], nil
}

func stringValue(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return s
}

func contentTitle(body string) string {
	if m := headingRe.FindStringSubmatch(body); m != nil {
		return strings.TrimSpace(m[1])
	}
	return ""
}

// excerpt returns the first line of prose, skipping headings, imports, markup and code blocks.
func excerpt(body string) string {
	inFence := false
	for _, line := range strings.Split(body, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "```") {
			inFence = !inFence
			continue
		}
		if inFence || line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "import ") || strings.HasPrefix(line, "<") {
			continue
		}
		return line
	}
	return ""
}
