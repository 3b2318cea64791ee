package openapi

import (
	"fmt"
	"log/slog"
	"net/http"
	"path"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/i2y/openapidocs/internal/domain"
	"github.com/i2y/openapidocs/internal/schema"
	"github.com/i2y/openapidocs/internal/schematree"
	"github.com/i2y/openapidocs/pkg/shared/textcase"
)

const (
	introductionID   = "introduction"
	missingSummary   = "Missing summary"
	requestBodyTitle = "Request Body"
	responseTitle    = "Schema"
)

// Operation order within a path item.
var methodOrder = []string{
	http.MethodGet,
	http.MethodPut,
	http.MethodPost,
	http.MethodDelete,
	http.MethodOptions,
	http.MethodHead,
	http.MethodPatch,
	http.MethodTrace,
}

// GeneratorOptions configures page generation.
type GeneratorOptions struct {
	// BaseURL prefixes every permalink, e.g. "/docs/petstore".
	BaseURL string
	// ContentPath is the docs root; the directory of a file source relative to it
	// becomes the page's SourceDirName.
	ContentPath string
	// Builder renders schema trees. Nil uses a builder with default settings.
	Builder *schematree.Builder
}

// PageGenerator turns a parsed OpenAPI document into page-metadata records.
type PageGenerator struct {
	opts    GeneratorOptions
	builder *schematree.Builder
	logger  *slog.Logger
}

// NewPageGenerator creates a PageGenerator.
func NewPageGenerator(opts GeneratorOptions, logger *slog.Logger) *PageGenerator {
	builder := opts.Builder
	if builder == nil {
		builder = schematree.NewBuilder(schematree.WithLogger(logger))
	}
	return &PageGenerator{
		opts:    opts,
		builder: builder,
		logger:  logger.With("component", "page_generator"),
	}
}

// Generate emits one info record followed by one api record per operation, paths in
// sorted order and operations in method order.
func (g *PageGenerator) Generate(spec domain.APISpec) (domain.DocSet, error) {
	log := g.logger.With(slog.String("source", spec.Source))
	log.Info("Generating pages from OpenAPI spec.")

	doc, ok := spec.ParsedData.(*openapi3.T)
	if !ok || doc == nil {
		log.Error("Invalid or missing parsed OpenAPI document in APISpec.")
		return domain.DocSet{}, fmt.Errorf("invalid or missing parsed OpenAPI document in APISpec")
	}

	set := domain.DocSet{
		Source:    spec.Source,
		Tags:      tagsOf(doc),
		TagGroups: g.tagGroupsOf(doc, log),
	}
	ids := newIDAllocator()
	dirName := g.sourceDirName(spec)
	raw := rawDocument(spec, log)

	info := g.infoPage(doc, set.Tags, ids)
	info.Source, info.SourceDirName = spec.Source, dirName
	set.Pages = append(set.Pages, info)

	diagnostics := 0
	for _, p := range sortedPaths(doc) {
		item := doc.Paths.Value(p)
		if item == nil {
			continue
		}
		for _, method := range methodOrder {
			op := item.GetOperation(method)
			if op == nil {
				continue
			}
			page, diags := g.apiPage(doc, raw, p, method, item, op, ids)
			page.Source, page.SourceDirName = spec.Source, dirName
			for _, d := range diags {
				log.Warn("Schema documentation truncated.",
					slog.String("page_id", page.ID),
					slog.String("path", d.Path),
					slog.String("reason", d.Message))
			}
			diagnostics += len(diags)
			set.Pages = append(set.Pages, page)
		}
	}

	log.Info("Finished generating pages from OpenAPI spec.",
		slog.Int("page_count", len(set.Pages)),
		slog.Int("diagnostic_count", diagnostics))
	return set, nil
}

func (g *PageGenerator) infoPage(doc *openapi3.T, tags []domain.Tag, ids *idAllocator) domain.PageMetadata {
	id := introductionID
	var title, version, description string
	if doc.Info != nil {
		if custom, ok := doc.Info.Extensions["x-id"].(string); ok && custom != "" {
			id = custom
		}
		title, version, description = doc.Info.Title, doc.Info.Version, doc.Info.Description
	}
	id = ids.allocate(id)

	tagNames := make([]string, 0, len(tags))
	for _, t := range tags {
		tagNames = append(tagNames, t.Name)
	}
	return domain.PageMetadata{
		Type:        domain.PageTypeInfo,
		ID:          id,
		Title:       title,
		Description: description,
		Permalink:   g.permalink(id),
		Info: &domain.InfoMetadata{
			Title:       title,
			Version:     version,
			Description: description,
			Tags:        tagNames,
		},
	}
}

func (g *PageGenerator) apiPage(doc *openapi3.T, raw *schema.Document, p, method string, item *openapi3.PathItem, op *openapi3.Operation, ids *idAllocator) (domain.PageMetadata, []schematree.Diagnostic) {
	base := op.OperationID
	if base == "" {
		base = op.Summary
	}
	if base == "" {
		base = method + "-" + p
	}
	id := ids.allocate(textcase.Kebab(base))

	title := op.Summary
	if title == "" {
		title = op.OperationID
	}
	if title == "" {
		title = missingSummary
	}

	api := &domain.APIMetadata{
		Method:      strings.ToLower(method),
		Path:        p,
		OperationID: op.OperationID,
		Summary:     op.Summary,
		Description: op.Description,
		Tags:        op.Tags,
		Deprecated:  op.Deprecated,
	}
	if doc.Info != nil {
		api.InfoTitle = doc.Info.Title
	}

	opPath := []string{"paths", p, strings.ToLower(method)}
	var diags []schematree.Diagnostic
	for _, param := range mergeParameters(item.Parameters, op.Parameters) {
		documented, d := g.parameter(param, raw, parameterNode(raw, p, method, param))
		api.Parameters = append(api.Parameters, documented)
		diags = append(diags, d...)
	}

	if op.RequestBody != nil && op.RequestBody.Value != nil {
		rb := op.RequestBody.Value
		node, d := g.builder.SchemaDetails(requestBodyTitle, schematree.Body{
			Description: rb.Description,
			Required:    rb.Required,
			Content:     mediaTypes(rb.Content, raw, raw.Node(append(opPath, "requestBody", "content")...)),
		})
		api.RequestBody = node
		diags = append(diags, d...)
	}

	if op.Responses != nil {
		statuses := make([]string, 0, op.Responses.Len())
		for status := range op.Responses.Map() {
			statuses = append(statuses, status)
		}
		sort.Strings(statuses)
		for _, status := range statuses {
			ref := op.Responses.Value(status)
			if ref == nil || ref.Value == nil {
				continue
			}
			resp := domain.APIResponse{Status: status}
			if ref.Value.Description != nil {
				resp.Description = *ref.Value.Description
			}
			content := raw.Node(append(opPath, "responses", status, "content")...)
			node, d := g.builder.SchemaDetails(responseTitle, schematree.Body{Content: mediaTypes(ref.Value.Content, raw, content)})
			resp.Body = node
			diags = append(diags, d...)
			api.Responses = append(api.Responses, resp)
		}
	}

	return domain.PageMetadata{
		Type:        domain.PageTypeAPI,
		ID:          id,
		Title:       title,
		Description: op.Description,
		Permalink:   g.permalink(id),
		API:         api,
	}, diags
}

func (g *PageGenerator) parameter(p *openapi3.Parameter, raw *schema.Document, node *yaml.Node) (domain.Parameter, []schematree.Diagnostic) {
	out := domain.Parameter{
		Name:        p.Name,
		In:          p.In,
		Required:    p.Required,
		Deprecated:  p.Deprecated,
		Description: p.Description,
	}
	ref := p.Schema
	if ref == nil {
		// Parameters may carry their schema inside content instead.
		for _, mt := range mediaTypes(p.Content, raw, raw.Lookup(node, "content")) {
			if mt.Schema != nil {
				node, diags := g.builder.Edge(p.Name, mt.Schema, p.Required)
				out.Schema = node
				return out, diags
			}
		}
		return out, nil
	}
	edge, diags := g.builder.Edge(p.Name, raw.Schema(ref, raw.Lookup(node, "schema")), p.Required)
	out.Schema = edge
	return out, diags
}

// parameterNode finds the raw declaration of p, operation level first.
func parameterNode(raw *schema.Document, path, method string, p *openapi3.Parameter) *yaml.Node {
	for _, params := range [][]string{
		{"paths", path, strings.ToLower(method), "parameters"},
		{"paths", path, "parameters"},
	} {
		list := raw.Node(params...)
		if list == nil || list.Kind != yaml.SequenceNode {
			continue
		}
		for i := range list.Content {
			decl := raw.Lookup(list, strconv.Itoa(i))
			name, in := raw.Lookup(decl, "name"), raw.Lookup(decl, "in")
			if name != nil && in != nil && name.Value == p.Name && in.Value == p.In {
				return decl
			}
		}
	}
	return nil
}

// rawDocument parses the document bytes kept for property order. Without them,
// properties fall back to sorted order.
func rawDocument(spec domain.APISpec, log *slog.Logger) *schema.Document {
	if len(spec.RawData) == 0 {
		return nil
	}
	raw, err := schema.ParseDocument(spec.RawData)
	if err != nil {
		log.Warn("Failed to parse raw document, properties will be sorted by name.", slog.Any("error", err))
		return nil
	}
	return raw
}

// mergeParameters lets operation parameters override path-level ones with the same name and location.
func mergeParameters(pathLevel, opLevel openapi3.Parameters) []*openapi3.Parameter {
	type key struct{ name, in string }
	var out []*openapi3.Parameter
	index := make(map[key]int)
	for _, params := range []openapi3.Parameters{pathLevel, opLevel} {
		for _, ref := range params {
			if ref == nil || ref.Value == nil {
				continue
			}
			k := key{ref.Value.Name, ref.Value.In}
			if i, ok := index[k]; ok {
				out[i] = ref.Value
				continue
			}
			index[k] = len(out)
			out = append(out, ref.Value)
		}
	}
	return out
}

// mediaTypes orders content with application/json first, the rest sorted.
// Schemas keep the property order of node, the raw content object in raw.
func mediaTypes(content openapi3.Content, raw *schema.Document, node *yaml.Node) []schematree.MediaType {
	if len(content) == 0 {
		return nil
	}
	names := make([]string, 0, len(content))
	for name := range content {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		ji, jj := strings.HasPrefix(names[i], "application/json"), strings.HasPrefix(names[j], "application/json")
		if ji != jj {
			return ji
		}
		return names[i] < names[j]
	})

	out := make([]schematree.MediaType, 0, len(names))
	for _, name := range names {
		mt := schematree.MediaType{Name: name}
		if c := content[name]; c != nil {
			mt.Schema = raw.Schema(c.Schema, raw.Lookup(node, name, "schema"))
		}
		out = append(out, mt)
	}
	return out
}

func tagsOf(doc *openapi3.T) []domain.Tag {
	out := make([]domain.Tag, 0, len(doc.Tags))
	for _, t := range doc.Tags {
		if t == nil {
			continue
		}
		tag := domain.Tag{Name: t.Name, Description: t.Description}
		if display, ok := t.Extensions["x-displayName"].(string); ok {
			tag.DisplayName = display
		}
		out = append(out, tag)
	}
	return out
}

func (g *PageGenerator) tagGroupsOf(doc *openapi3.T, log *slog.Logger) []domain.TagGroup {
	raw, ok := doc.Extensions["x-tagGroups"]
	if !ok || raw == nil {
		return nil
	}
	data, err := json.Marshal(raw)
	if err != nil {
		log.Warn("Ignoring unreadable x-tagGroups.", slog.Any("error", err))
		return nil
	}
	var groups []domain.TagGroup
	if err := json.Unmarshal(data, &groups); err != nil {
		log.Warn("Ignoring malformed x-tagGroups.", slog.Any("error", err))
		return nil
	}
	return groups
}

func sortedPaths(doc *openapi3.T) []string {
	if doc.Paths == nil {
		return nil
	}
	paths := make([]string, 0, doc.Paths.Len())
	for p := range doc.Paths.Map() {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

func (g *PageGenerator) permalink(id string) string {
	return strings.TrimRight(g.opts.BaseURL, "/") + "/" + id
}

// sourceDirName is the directory of a file source relative to the content path,
// "." for sources outside of it and for remote sources.
func (g *PageGenerator) sourceDirName(spec domain.APISpec) string {
	if spec.Type != domain.SpecTypeFile || g.opts.ContentPath == "" {
		return "."
	}
	rel, err := filepath.Rel(g.opts.ContentPath, filepath.Dir(spec.Source))
	if err != nil || strings.HasPrefix(rel, "..") {
		return "."
	}
	return path.Clean(filepath.ToSlash(rel))
}

// idAllocator hands out unique page ids; repeats get "-1", "-2", ... suffixes.
type idAllocator struct {
	seen map[string]int
}

func newIDAllocator() *idAllocator {
	return &idAllocator{seen: make(map[string]int)}
}

func (a *idAllocator) allocate(id string) string {
	n, ok := a.seen[id]
	if !ok {
		a.seen[id] = 0
		return id
	}
	for {
		n++
		candidate := fmt.Sprintf("%s-%d", id, n)
		if _, taken := a.seen[candidate]; !taken {
			a.seen[id] = n
			a.seen[candidate] = 0
			return candidate
		}
	}
}
