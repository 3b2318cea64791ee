package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/i2y/openapidocs/internal/domain"
)

// ServeDocsUseCase provides read access to the generated documentation.
type ServeDocsUseCase struct {
	repository PageRepository
	logger     *slog.Logger
}

// NewServeDocsUseCase creates a new ServeDocsUseCase.
func NewServeDocsUseCase(repository PageRepository, logger *slog.Logger) *ServeDocsUseCase {
	return &ServeDocsUseCase{
		repository: repository,
		logger:     logger.With("usecase", "ServeDocs"),
	}
}

// ListPages retrieves every page currently stored in the repository.
func (uc *ServeDocsUseCase) ListPages(ctx context.Context) ([]domain.PageMetadata, error) {
	pages, err := uc.repository.List(ctx)
	if err != nil {
		uc.logger.Error("Failed to list pages from repository", slog.Any("error", err))
		return nil, fmt.Errorf("failed to list pages from repository: %w", err)
	}
	uc.logger.Debug("Listed pages", slog.Int("count", len(pages)))
	return pages, nil
}

// GetPage returns one page by id. ErrPageNotFound is kept in the error chain.
func (uc *ServeDocsUseCase) GetPage(ctx context.Context, id string) (*domain.PageMetadata, error) {
	page, err := uc.repository.FindByID(ctx, id)
	if err != nil {
		uc.logger.Warn("Failed to find page", slog.String("id", id), slog.Any("error", err))
		return nil, fmt.Errorf("failed to find page %q: %w", id, err)
	}
	return page, nil
}

// Sidebar returns the sidebar of the last generation run.
func (uc *ServeDocsUseCase) Sidebar(ctx context.Context) ([]*domain.SidebarItem, error) {
	items, err := uc.repository.Sidebar(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read sidebar: %w", err)
	}
	return items, nil
}
