package usecase_test

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/i2y/openapidocs/internal/domain"
	"github.com/i2y/openapidocs/internal/usecase"
)

// MockSpecFetcher is a mock implementation of the SpecFetcher interface.
type MockSpecFetcher struct {
	mock.Mock
}

func (m *MockSpecFetcher) Fetch(ctx context.Context, source usecase.SpecSourceConfig) (domain.APISpec, error) {
	args := m.Called(ctx, source)
	return args.Get(0).(domain.APISpec), args.Error(1)
}

// MockPageGenerator is a mock implementation of the PageGenerator interface.
type MockPageGenerator struct {
	mock.Mock
}

func (m *MockPageGenerator) Generate(spec domain.APISpec) (domain.DocSet, error) {
	args := m.Called(spec)
	return args.Get(0).(domain.DocSet), args.Error(1)
}

// MockPageRepository is a mock implementation of the PageRepository interface.
type MockPageRepository struct {
	mock.Mock
}

func (m *MockPageRepository) Save(ctx context.Context, set domain.DocSet) error {
	return m.Called(ctx, set).Error(0)
}

func (m *MockPageRepository) List(ctx context.Context) ([]domain.PageMetadata, error) {
	args := m.Called(ctx)
	result := args.Get(0)
	if result == nil {
		return nil, args.Error(1)
	}
	return result.([]domain.PageMetadata), args.Error(1)
}

func (m *MockPageRepository) FindByID(ctx context.Context, id string) (*domain.PageMetadata, error) {
	args := m.Called(ctx, id)
	result := args.Get(0)
	if result == nil {
		return nil, args.Error(1)
	}
	return result.(*domain.PageMetadata), args.Error(1)
}

func (m *MockPageRepository) Taxonomy(ctx context.Context) ([]domain.Tag, []domain.TagGroup, error) {
	args := m.Called(ctx)
	var tags []domain.Tag
	var groups []domain.TagGroup
	if v := args.Get(0); v != nil {
		tags = v.([]domain.Tag)
	}
	if v := args.Get(1); v != nil {
		groups = v.([]domain.TagGroup)
	}
	return tags, groups, args.Error(2)
}

func (m *MockPageRepository) SaveSidebar(ctx context.Context, items []*domain.SidebarItem) error {
	return m.Called(ctx, items).Error(0)
}

func (m *MockPageRepository) Sidebar(ctx context.Context) ([]*domain.SidebarItem, error) {
	args := m.Called(ctx)
	result := args.Get(0)
	if result == nil {
		return nil, args.Error(1)
	}
	return result.([]*domain.SidebarItem), args.Error(1)
}

func (m *MockPageRepository) Reset(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

// MockArtifactWriter is a mock implementation of the ArtifactWriter interface.
type MockArtifactWriter struct {
	mock.Mock
}

func (m *MockArtifactWriter) WritePages(ctx context.Context, pages []domain.PageMetadata) error {
	return m.Called(ctx, pages).Error(0)
}

func (m *MockArtifactWriter) WriteSidebar(ctx context.Context, items []*domain.SidebarItem) error {
	return m.Called(ctx, items).Error(0)
}

// MockDocLoader is a mock implementation of the DocLoader interface.
type MockDocLoader struct {
	mock.Mock
}

func (m *MockDocLoader) Load(ctx context.Context, paths []string) (domain.DocSet, error) {
	args := m.Called(ctx, paths)
	return args.Get(0).(domain.DocSet), args.Error(1)
}
