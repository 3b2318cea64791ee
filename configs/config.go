package configs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	"github.com/i2y/openapidocs/internal/adapter/outbound/github"
)

const (
	envPrefix             = "openapidocs"
	DefaultConfigFilePath = "configs/openapidocs.yaml"
	DefaultOutputDir      = "docs/api"
	DefaultContentPath    = "."
	DefaultMaxDepth       = 64
	DefaultMongoDatabase  = "openapidocs"
)

// SpecSource is one OpenAPI spec to document, with optional request headers.
type SpecSource struct {
	URL     string            `yaml:"url"`
	Headers map[string]string `yaml:"headers,omitempty"`
}

// SidebarConfig holds the sidebar grouping options.
type SidebarConfig struct {
	GroupPathsBy       string         `yaml:"group_paths_by" envconfig:"GROUP_PATHS_BY"`
	CategoryLinkSource string         `yaml:"category_link_source" envconfig:"CATEGORY_LINK_SOURCE"`
	Collapsible        *bool          `yaml:"collapsible" ignored:"true"`
	Collapsed          *bool          `yaml:"collapsed" ignored:"true"`
	CustomProps        map[string]any `yaml:"custom_props" ignored:"true"`
}

// FileConfig defines the structure loaded from the YAML configuration file.
type FileConfig struct {
	Specs       []interface{} `yaml:"specs"`
	OutputDir   string        `yaml:"output_dir"`
	ContentPath string        `yaml:"content_path"`
	BaseURL     string        `yaml:"base_url"`
	Overwrite   bool          `yaml:"overwrite"`
	MaxDepth    int           `yaml:"max_depth"`
	Sidebar     SidebarConfig `yaml:"sidebar"`

	// BeforeAPIDocs lists markdown pages placed ahead of the generated api pages.
	BeforeAPIDocs []string `yaml:"before_api_docs"`

	MongoURI      string `yaml:"mongo_uri"`
	MongoDatabase string `yaml:"mongo_database"`
}

// Config holds the final application configuration, merged from file and environment variables.
// Fields are loaded from environment variables with the prefix "OPENAPIDOCS_", overriding file settings.
type Config struct {
	ConfigFilePath string `envconfig:"CONFIG_FILE" default:"configs/openapidocs.yaml"`

	// File-loaded fields, overridable from the environment where tagged.
	SpecSources []SpecSource  `ignored:"true"`
	OutputDir   string        `envconfig:"OUTPUT_DIR"`
	ContentPath string        `envconfig:"CONTENT_PATH"`
	BaseURL     string        `envconfig:"BASE_URL"`
	Overwrite   bool          `envconfig:"OVERWRITE"`
	MaxDepth    int           `envconfig:"MAX_DEPTH"`
	Sidebar     SidebarConfig `envconfig:"SIDEBAR"`

	BeforeAPIDocs []string `envconfig:"BEFORE_API_DOCS"`

	// MongoURI selects the MongoDB page repository; empty keeps pages in memory.
	MongoURI      string `envconfig:"MONGO_URI"`
	MongoDatabase string `envconfig:"MONGO_DATABASE"`

	ListenAddr               string        `envconfig:"LISTEN_ADDR" default:":8080"`
	HTTPClientTimeout        time.Duration `envconfig:"HTTP_CLIENT_TIMEOUT" default:"30s"`
	ShutdownTimeout          time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"5s"`
	ServerReadTimeout        time.Duration `envconfig:"SERVER_READ_TIMEOUT" default:"5s"`
	ServerWriteTimeout       time.Duration `envconfig:"SERVER_WRITE_TIMEOUT" default:"60s"`
	ServerIdleTimeout        time.Duration `envconfig:"SERVER_IDLE_TIMEOUT" default:"120s"`
	OtelExporterOtlpEndpoint string        `envconfig:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	OtelExporterOtlpInsecure bool          `envconfig:"OTEL_EXPORTER_OTLP_INSECURE" default:"true"`
	LogLevel                 string        `envconfig:"LOG_LEVEL" default:"info"`
}

// ParsedLogLevel returns the slog.Level based on the configured LogLevel string.
func (c *Config) ParsedLogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	case "info":
		fallthrough
	default:
		return slog.LevelInfo
	}
}

// Collapsible reports whether sidebar categories can be collapsed. Defaults to true.
func (c *Config) Collapsible() bool {
	return c.Sidebar.Collapsible == nil || *c.Sidebar.Collapsible
}

// Collapsed reports whether sidebar categories start collapsed. Defaults to true.
func (c *Config) Collapsed() bool {
	return c.Sidebar.Collapsed == nil || *c.Sidebar.Collapsed
}

// Load loads configuration first from environment variables (to get the file path),
// then from the YAML file (local path or github:// URL), and finally applies
// environment overrides and defaults. A missing file at the default path is not an error.
func Load(ctx context.Context) (*Config, error) {
	var initialCfg Config
	if err := envconfig.Process(envPrefix, &initialCfg); err != nil {
		return nil, fmt.Errorf("failed to process initial environment variables: %w", err)
	}

	finalCfg := initialCfg
	if initialCfg.ConfigFilePath != "" {
		fileCfg, err := readFile(ctx, initialCfg.ConfigFilePath)
		switch {
		case err == nil:
			slog.Info("Loaded configuration file.", "path", initialCfg.ConfigFilePath)
			finalCfg.applyFile(fileCfg)
		case errors.Is(err, fs.ErrNotExist) && initialCfg.ConfigFilePath == DefaultConfigFilePath:
			slog.Info("Default config file not found, using defaults/env vars only.", "path", initialCfg.ConfigFilePath)
		default:
			return nil, err
		}
	} else {
		slog.Info("No config file path specified (OPENAPIDOCS_CONFIG_FILE), using defaults/env vars only.")
	}

	// Process environment variables again to allow overrides over file settings.
	if err := envconfig.Process(envPrefix, &finalCfg); err != nil {
		return nil, fmt.Errorf("failed to process overriding environment variables: %w", err)
	}
	finalCfg.applyDefaults()
	return &finalCfg, nil
}

func readFile(ctx context.Context, path string) (FileConfig, error) {
	var fileCfg FileConfig
	r, err := github.OpenConfig(ctx, path)
	if err != nil {
		return fileCfg, fmt.Errorf("failed to load config '%s': %w", path, err)
	}
	defer r.Close()

	data, err := io.ReadAll(r)
	if err != nil {
		return fileCfg, fmt.Errorf("failed to read config '%s': %w", path, err)
	}
	if err := yaml.Unmarshal(data, &fileCfg); err != nil {
		return fileCfg, fmt.Errorf("failed to unmarshal config file '%s': %w", path, err)
	}
	return fileCfg, nil
}

func (c *Config) applyFile(f FileConfig) {
	c.SpecSources = ParseSpecSources(f.Specs)
	c.OutputDir = f.OutputDir
	c.ContentPath = f.ContentPath
	c.BaseURL = f.BaseURL
	c.Overwrite = f.Overwrite
	c.MaxDepth = f.MaxDepth
	c.Sidebar = f.Sidebar
	c.BeforeAPIDocs = f.BeforeAPIDocs
	c.MongoURI = f.MongoURI
	c.MongoDatabase = f.MongoDatabase
}

func (c *Config) applyDefaults() {
	if c.OutputDir == "" {
		c.OutputDir = DefaultOutputDir
	}
	if c.ContentPath == "" {
		c.ContentPath = DefaultContentPath
	}
	if c.MaxDepth <= 0 {
		c.MaxDepth = DefaultMaxDepth
	}
	if c.MongoDatabase == "" {
		c.MongoDatabase = DefaultMongoDatabase
	}
}

// ParseSpecSources accepts both the plain string and the {url, headers} object forms.
// Entries without a url are dropped with a warning.
func ParseSpecSources(raw []interface{}) []SpecSource {
	sources := make([]SpecSource, 0, len(raw))
	for _, source := range raw {
		switch v := source.(type) {
		case string:
			sources = append(sources, SpecSource{URL: v})
		case map[string]interface{}:
			ss := SpecSource{}
			if url, ok := v["url"].(string); ok {
				ss.URL = url
			}
			if headers, ok := v["headers"].(map[string]interface{}); ok {
				ss.Headers = make(map[string]string)
				for k, val := range headers {
					if strVal, ok := val.(string); ok {
						ss.Headers[k] = strVal
					}
				}
			}
			if ss.URL == "" {
				slog.Warn("Ignoring spec source without url", "source", source)
				continue
			}
			sources = append(sources, ss)
		default:
			slog.Warn("Ignoring invalid spec source format", "source", source)
		}
	}
	return sources
}
