// Package category reads the _category_ files that label sidebar directories.
package category

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/goccy/go-json"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"

	"github.com/i2y/openapidocs/internal/domain"
	"github.com/i2y/openapidocs/internal/usecase"
)

const (
	fileBase  = "_category_"
	schemaURL = "https://openapidocs.local/category.schema.json"
)

// Extensions tried in order; the first existing file wins.
var extensions = []string{".json", ".yml", ".yaml"}

//go:embed category.schema.json
var schemaSource []byte

// Reader loads and validates category-description files.
type Reader struct {
	schema *jsonschema.Schema
	logger *slog.Logger
}

// NewReader compiles the category schema.
func NewReader(logger *slog.Logger) (*Reader, error) {
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft7
	if err := compiler.AddResource(schemaURL, bytes.NewReader(schemaSource)); err != nil {
		return nil, fmt.Errorf("failed to add category schema resource: %w", err)
	}
	schema, err := compiler.Compile(schemaURL)
	if err != nil {
		return nil, fmt.Errorf("failed to compile category schema: %w", err)
	}
	return &Reader{
		schema: schema,
		logger: logger.With("component", "category_reader"),
	}, nil
}

// ReadCategory returns the metadata of dirPath, or nil when the directory has no
// category file. A file that cannot be parsed or fails validation is an error
// wrapping usecase.ErrInvalidCategoryFile.
func (r *Reader) ReadCategory(dirPath string) (*domain.CategoryMetadata, error) {
	for _, ext := range extensions {
		path := filepath.ToSlash(filepath.Join(dirPath, fileBase+ext))
		data, err := os.ReadFile(path)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read category file %s: %w", path, err)
		}
		meta, err := r.decode(data)
		if err != nil {
			r.logger.Error("The sidebar category metadata file looks invalid.", slog.String("path", path), slog.Any("error", err))
			return nil, fmt.Errorf("%w: path=%s: %v", usecase.ErrInvalidCategoryFile, path, err)
		}
		r.logger.Debug("Read category file.", slog.String("path", path), slog.String("label", meta.Label))
		return meta, nil
	}
	return nil, nil
}

// decode parses YAML (a superset of JSON), normalizes it through JSON so the
// validator sees plain JSON values, and validates it.
func (r *Reader) decode(data []byte) (*domain.CategoryMetadata, error) {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	if raw == nil {
		raw = map[string]any{}
	}
	normalized, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("normalize: %w", err)
	}
	var doc any
	if err := json.Unmarshal(normalized, &doc); err != nil {
		return nil, fmt.Errorf("normalize: %w", err)
	}
	if err := r.schema.Validate(doc); err != nil {
		return nil, err
	}
	var meta domain.CategoryMetadata
	if err := json.Unmarshal(normalized, &meta); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return &meta, nil
}
