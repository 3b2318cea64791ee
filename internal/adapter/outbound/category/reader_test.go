package category_test

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i2y/openapidocs/internal/adapter/outbound/category"
	"github.com/i2y/openapidocs/internal/domain"
	"github.com/i2y/openapidocs/internal/usecase"
)

func newReader(t *testing.T) *category.Reader {
	t.Helper()
	r, err := category.NewReader(slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	return r
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600))
}

func TestReader_ReadCategory(t *testing.T) {
	tests := []struct {
		name  string
		files map[string]string
		want  *domain.CategoryMetadata
	}{
		{
			name: "no file",
		},
		{
			name:  "json",
			files: map[string]string{"_category_.json": `{"label": "Pet APIs", "position": 2}`},
			want:  &domain.CategoryMetadata{Label: "Pet APIs", Position: floatPtr(2)},
		},
		{
			name:  "yml",
			files: map[string]string{"_category_.yml": "label: Store\ncollapsed: true\n"},
			want:  &domain.CategoryMetadata{Label: "Store", Collapsed: boolPtr(true)},
		},
		{
			name: "json wins over yaml",
			files: map[string]string{
				"_category_.json": `{"label": "From JSON"}`,
				"_category_.yaml": "label: From YAML\n",
			},
			want: &domain.CategoryMetadata{Label: "From JSON"},
		},
		{
			name:  "generated index link",
			files: map[string]string{"_category_.yaml": "label: Users\nlink:\n  type: generated-index\n  slug: /category/users\n"},
			want: &domain.CategoryMetadata{
				Label: "Users",
				Link:  &domain.CategoryLink{Type: domain.CategoryLinkGeneratedIndex, Slug: "/category/users"},
			},
		},
		{
			name:  "empty file",
			files: map[string]string{"_category_.yml": ""},
			want:  &domain.CategoryMetadata{},
		},
	}

	r := newReader(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			for name, content := range tt.files {
				writeFile(t, dir, name, content)
			}
			got, err := r.ReadCategory(dir)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestReader_InvalidFiles(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{name: "wrong type", file: "_category_.json", content: `{"label": 42}`},
		{name: "unknown key", file: "_category_.yml", content: "label: x\nicon: star\n"},
		{name: "doc link without id", file: "_category_.yml", content: "link:\n  type: doc\n"},
		{name: "not yaml", file: "_category_.yaml", content: "label: [unclosed\n"},
		{name: "not an object", file: "_category_.json", content: `["label"]`},
	}

	r := newReader(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeFile(t, dir, tt.file, tt.content)

			_, err := r.ReadCategory(dir)
			require.Error(t, err)
			assert.ErrorIs(t, err, usecase.ErrInvalidCategoryFile)
			assert.Contains(t, err.Error(), filepath.ToSlash(filepath.Join(dir, tt.file)))
		})
	}
}

func floatPtr(v float64) *float64 { return &v }

func boolPtr(v bool) *bool { return &v }
