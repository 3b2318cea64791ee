package configs_test

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i2y/openapidocs/configs"
)

const sampleConfig = `
specs:
  - specs/petstore.yaml
  - url: https://api.example.com/openapi.json
    headers:
      Authorization: Bearer token
  - url: ""
  - 42
output_dir: docs/petstore
content_path: specs
base_url: /docs/petstore
overwrite: true
before_api_docs:
  - docs/intro.md
  - docs/auth.md
mongo_uri: mongodb://localhost:27017
sidebar:
  group_paths_by: tagGroup
  category_link_source: info
  collapsed: false
  custom_props:
    badge: api
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "openapidocs.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_FromFile(t *testing.T) {
	assert := assert.New(t)
	t.Setenv("OPENAPIDOCS_CONFIG_FILE", writeConfig(t, sampleConfig))

	cfg, err := configs.Load(context.Background())
	require.NoError(t, err)

	assert.Equal([]configs.SpecSource{
		{URL: "specs/petstore.yaml"},
		{URL: "https://api.example.com/openapi.json", Headers: map[string]string{"Authorization": "Bearer token"}},
	}, cfg.SpecSources)
	assert.Equal("docs/petstore", cfg.OutputDir)
	assert.Equal("specs", cfg.ContentPath)
	assert.Equal("/docs/petstore", cfg.BaseURL)
	assert.True(cfg.Overwrite)
	assert.Equal(configs.DefaultMaxDepth, cfg.MaxDepth)
	assert.Equal("tagGroup", cfg.Sidebar.GroupPathsBy)
	assert.Equal("info", cfg.Sidebar.CategoryLinkSource)
	assert.True(cfg.Collapsible())
	assert.False(cfg.Collapsed())
	assert.Equal(map[string]any{"badge": "api"}, cfg.Sidebar.CustomProps)
	assert.Equal([]string{"docs/intro.md", "docs/auth.md"}, cfg.BeforeAPIDocs)
	assert.Equal("mongodb://localhost:27017", cfg.MongoURI)
	assert.Equal(configs.DefaultMongoDatabase, cfg.MongoDatabase)

	assert.Equal(":8080", cfg.ListenAddr)
	assert.Equal(30*time.Second, cfg.HTTPClientTimeout)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	assert := assert.New(t)
	t.Setenv("OPENAPIDOCS_CONFIG_FILE", writeConfig(t, sampleConfig))
	t.Setenv("OPENAPIDOCS_OUTPUT_DIR", "build/api")
	t.Setenv("OPENAPIDOCS_SIDEBAR_GROUP_PATHS_BY", "path")
	t.Setenv("OPENAPIDOCS_MAX_DEPTH", "8")
	t.Setenv("OPENAPIDOCS_LOG_LEVEL", "debug")
	t.Setenv("OPENAPIDOCS_BEFORE_API_DOCS", "a.md,b.md")

	cfg, err := configs.Load(context.Background())
	require.NoError(t, err)

	assert.Equal("build/api", cfg.OutputDir)
	assert.Equal("path", cfg.Sidebar.GroupPathsBy)
	assert.Equal("info", cfg.Sidebar.CategoryLinkSource)
	assert.Equal(8, cfg.MaxDepth)
	assert.Equal(slog.LevelDebug, cfg.ParsedLogLevel())
	assert.Len(cfg.SpecSources, 2)
	assert.Equal([]string{"a.md", "b.md"}, cfg.BeforeAPIDocs)
}

func TestLoad_Defaults(t *testing.T) {
	assert := assert.New(t)
	t.Setenv("OPENAPIDOCS_CONFIG_FILE", writeConfig(t, "specs: []\n"))

	cfg, err := configs.Load(context.Background())
	require.NoError(t, err)

	assert.Empty(cfg.SpecSources)
	assert.Equal(configs.DefaultOutputDir, cfg.OutputDir)
	assert.Equal(configs.DefaultContentPath, cfg.ContentPath)
	assert.True(cfg.Collapsible())
	assert.True(cfg.Collapsed())
	assert.False(cfg.Overwrite)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		path func(t *testing.T) string
	}{
		{
			name: "missing explicit file",
			path: func(t *testing.T) string { return filepath.Join(t.TempDir(), "nope.yaml") },
		},
		{
			name: "malformed yaml",
			path: func(t *testing.T) string { return writeConfig(t, "specs: [unclosed\n") },
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("OPENAPIDOCS_CONFIG_FILE", tt.path(t))
			_, err := configs.Load(context.Background())
			assert.Error(t, err)
		})
	}
}

func TestParsedLogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"WARN", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"info", slog.LevelInfo},
		{"bogus", slog.LevelInfo},
	}
	for _, tt := range tests {
		cfg := configs.Config{LogLevel: tt.in}
		assert.Equal(t, tt.want, cfg.ParsedLogLevel(), tt.in)
	}
}
