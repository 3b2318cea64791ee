package usecase

import (
	"context"
	"errors"

	"github.com/i2y/openapidocs/internal/domain"
)

// Standard errors returned by use cases and adapters.
var (
	ErrPageNotFound        = errors.New("page not found")
	ErrSidebarNotGenerated = errors.New("sidebar not generated")
	ErrInvalidCategoryFile = errors.New("invalid category file")
	ErrNoFetcher           = errors.New("no spec fetcher for source")
)

// --- Spec Source Related ---

// SpecSourceConfig represents a spec source with optional request headers.
type SpecSourceConfig struct {
	URL     string
	Headers map[string]string
}

// SpecFetcher loads an OpenAPI document from a source.
type SpecFetcher interface {
	Fetch(ctx context.Context, source SpecSourceConfig) (domain.APISpec, error)
}

// PageGenerator turns a fetched spec into page-metadata records.
type PageGenerator interface {
	Generate(spec domain.APISpec) (domain.DocSet, error)
}

// PageRepository stores generated doc sets in the order they were saved.
type PageRepository interface {
	// Save stores a doc set, replacing an earlier one from the same source in place.
	Save(ctx context.Context, set domain.DocSet) error

	// List returns every page of every stored set, in save order.
	List(ctx context.Context) ([]domain.PageMetadata, error)

	// FindByID returns the page with the given id.
	FindByID(ctx context.Context, id string) (*domain.PageMetadata, error)

	// Taxonomy returns the union of stored tags and tag groups, first occurrence wins.
	Taxonomy(ctx context.Context) ([]domain.Tag, []domain.TagGroup, error)

	// SaveSidebar and Sidebar hold the last generated sidebar.
	SaveSidebar(ctx context.Context, items []*domain.SidebarItem) error
	Sidebar(ctx context.Context) ([]*domain.SidebarItem, error)

	// Reset drops everything stored.
	Reset(ctx context.Context) error
}

// ArtifactWriter persists generated pages and the sidebar.
type ArtifactWriter interface {
	WritePages(ctx context.Context, pages []domain.PageMetadata) error
	WriteSidebar(ctx context.Context, items []*domain.SidebarItem) error
}

// DocLoader reads the markdown pages listed before the api pages.
type DocLoader interface {
	Load(ctx context.Context, paths []string) (domain.DocSet, error)
}
