// Package filewriter persists generated pages and sidebars as JSON files.
package filewriter

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/goccy/go-json"

	"github.com/i2y/openapidocs/internal/domain"
)

// SidebarFile is the name of the sidebar artifact inside the output directory.
const SidebarFile = "sidebar.json"

// Writer writes one <id>.json file per page and a sidebar.json into a directory.
type Writer struct {
	outputDir string
	overwrite bool
	logger    *slog.Logger
}

// NewWriter creates a Writer. Without overwrite, existing page files are left untouched.
func NewWriter(outputDir string, overwrite bool, logger *slog.Logger) *Writer {
	return &Writer{
		outputDir: outputDir,
		overwrite: overwrite,
		logger:    logger.With("component", "file_writer"),
	}
}

// WritePages writes every page, stopping at the first failure.
func (w *Writer) WritePages(ctx context.Context, pages []domain.PageMetadata) error {
	if err := os.MkdirAll(w.outputDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory %s: %w", w.outputDir, err)
	}
	written, skipped := 0, 0
	for _, page := range pages {
		if err := ctx.Err(); err != nil {
			return err
		}
		path := filepath.Join(w.outputDir, page.ID+".json")
		if !w.overwrite {
			if _, err := os.Stat(path); err == nil {
				skipped++
				continue
			} else if !errors.Is(err, fs.ErrNotExist) {
				return fmt.Errorf("failed to stat %s: %w", path, err)
			}
		}
		if err := writeJSON(path, page); err != nil {
			w.logger.Error("Failed to write page", slog.String("path", path), slog.Any("error", err))
			return err
		}
		w.logger.Debug("Wrote page", slog.String("path", path))
		written++
	}
	w.logger.Info("Wrote pages", slog.Int("written", written), slog.Int("skipped", skipped), slog.String("output_dir", w.outputDir))
	return nil
}

// WriteSidebar writes the sidebar, always replacing an earlier one.
func (w *Writer) WriteSidebar(ctx context.Context, items []*domain.SidebarItem) error {
	if err := os.MkdirAll(w.outputDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory %s: %w", w.outputDir, err)
	}
	if items == nil {
		items = []*domain.SidebarItem{}
	}
	path := filepath.Join(w.outputDir, SidebarFile)
	if err := writeJSON(path, items); err != nil {
		w.logger.Error("Failed to write sidebar", slog.String("path", path), slog.Any("error", err))
		return err
	}
	w.logger.Info("Wrote sidebar", slog.String("path", path), slog.Int("top_level_items", len(items)))
	return nil
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
