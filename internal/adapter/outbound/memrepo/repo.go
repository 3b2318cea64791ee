package memrepo

import (
	"context"
	"log/slog"
	"sync"

	"github.com/i2y/openapidocs/internal/domain"
	"github.com/i2y/openapidocs/internal/usecase"
)

// InMemoryPageRepository keeps generated doc sets in save order.
// NOTE: This implementation is not persistent and data will be lost on restart.
type InMemoryPageRepository struct {
	mu      sync.RWMutex
	sets    []domain.DocSet
	index   map[string]int // source -> position in sets
	sidebar []*domain.SidebarItem
	built   bool
	logger  *slog.Logger
}

// NewInMemoryPageRepository creates an empty repository.
func NewInMemoryPageRepository(logger *slog.Logger) *InMemoryPageRepository {
	return &InMemoryPageRepository{
		index:  make(map[string]int),
		logger: logger.With("component", "mem_repo"),
	}
}

// Save stores set. A set from a source already stored replaces it in place.
func (r *InMemoryPageRepository) Save(ctx context.Context, set domain.DocSet) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if i, ok := r.index[set.Source]; ok {
		r.sets[i] = set
		r.logger.Info("Replaced doc set", slog.String("source", set.Source), slog.Int("page_count", len(set.Pages)))
		return nil
	}
	r.index[set.Source] = len(r.sets)
	r.sets = append(r.sets, set)
	r.logger.Info("Saved doc set", slog.String("source", set.Source), slog.Int("page_count", len(set.Pages)), slog.Int("total_sets", len(r.sets)))
	return nil
}

// List returns every stored page in save order.
func (r *InMemoryPageRepository) List(ctx context.Context) ([]domain.PageMetadata, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var pages []domain.PageMetadata
	for _, set := range r.sets {
		pages = append(pages, set.Pages...)
	}
	r.logger.Debug("Listed pages from repository", slog.Int("count", len(pages)))
	return pages, nil
}

// FindByID returns the first stored page with the given id.
func (r *InMemoryPageRepository) FindByID(ctx context.Context, id string) (*domain.PageMetadata, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, set := range r.sets {
		for i := range set.Pages {
			if set.Pages[i].ID == id {
				page := set.Pages[i]
				return &page, nil
			}
		}
	}
	r.logger.Warn("Page not found", slog.String("page_id", id))
	return nil, usecase.ErrPageNotFound
}

// Taxonomy unites the tags and tag groups of all sets.
func (r *InMemoryPageRepository) Taxonomy(ctx context.Context) ([]domain.Tag, []domain.TagGroup, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tags, groups := domain.MergeTaxonomy(r.sets)
	return tags, groups, nil
}

// SaveSidebar stores the last generated sidebar.
func (r *InMemoryPageRepository) SaveSidebar(ctx context.Context, items []*domain.SidebarItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sidebar = items
	r.built = true
	return nil
}

// Sidebar returns the last generated sidebar.
func (r *InMemoryPageRepository) Sidebar(ctx context.Context) ([]*domain.SidebarItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if !r.built {
		return nil, usecase.ErrSidebarNotGenerated
	}
	return r.sidebar, nil
}

// Reset drops all stored sets and the sidebar.
func (r *InMemoryPageRepository) Reset(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sets = nil
	r.index = make(map[string]int)
	r.sidebar = nil
	r.built = false
	r.logger.Debug("Repository reset")
	return nil
}
