package openapi

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Spec paths served by common frameworks.
var commonSpecPaths = []string{
	"/openapi.json",            // FastAPI default
	"/openapi.yaml",            // static sites
	"/docs/openapi.json",       // Alternative FastAPI path
	"/swagger.json",            // Swagger/OpenAPI 2.0
	"/v3/api-docs",             // SpringDoc OpenAPI 3.0
	"/api-docs",                // SpringFox
	"/api/openapi.json",        // Custom API prefix
	"/api/v1/openapi.json",     // Versioned API
	"/swagger/v1/swagger.json", // .NET default
	"/_spec",                   // Some Node.js frameworks
}

var specContentTypes = []string{
	"application/json",
	"application/vnd.oai.openapi",
	"application/yaml",
	"application/x-yaml",
	"text/yaml",
}

const probeTimeout = 5 * time.Second

// AutoDiscoverer finds the spec document served below a base URL.
type AutoDiscoverer struct {
	client *http.Client
	logger *slog.Logger
}

// NewAutoDiscoverer creates an AutoDiscoverer.
func NewAutoDiscoverer(client *http.Client, logger *slog.Logger) *AutoDiscoverer {
	return &AutoDiscoverer{
		client: client,
		logger: logger.With("component", "openapi_autodiscoverer"),
	}
}

// LooksLikeSpecURL reports whether a URL already names a spec document.
func LooksLikeSpecURL(source string) bool {
	lower := strings.ToLower(source)
	for _, ext := range []string{".json", ".yaml", ".yml"} {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return strings.Contains(lower, "openapi") ||
		strings.Contains(lower, "swagger") ||
		strings.Contains(lower, "api-docs")
}

// Resolve returns source unchanged when it already names a spec document, otherwise
// the first common spec path answering below it. When discovery finds nothing the
// original source is returned so that the fetch reports the real error.
func (d *AutoDiscoverer) Resolve(ctx context.Context, source string, headers map[string]string) string {
	log := d.logger.With(slog.String("source", source))
	if LooksLikeSpecURL(source) {
		log.Debug("Source appears to be a direct spec URL")
		return source
	}

	log.Info("Source appears to be a base URL, attempting auto-discovery")
	found, err := d.Discover(ctx, source, headers)
	if err != nil {
		log.Warn("Auto-discovery failed, using original source", slog.Any("error", err))
		return source
	}
	return found
}

// Discover probes the common spec paths below baseURL.
func (d *AutoDiscoverer) Discover(ctx context.Context, baseURL string, headers map[string]string) (string, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("invalid base URL: %w", err)
	}
	if parsed.Scheme == "" {
		return "", fmt.Errorf("base URL must include scheme (http:// or https://)")
	}

	base := strings.TrimRight(baseURL, "/")
	for _, p := range commonSpecPaths {
		candidate := base + p
		ok, err := d.probe(ctx, candidate, headers)
		if err != nil {
			d.logger.Debug("Error checking path", slog.String("url", candidate), slog.Any("error", err))
			continue
		}
		if ok {
			d.logger.Info("Found OpenAPI spec", slog.String("url", candidate))
			return candidate, nil
		}
	}
	return "", fmt.Errorf("no OpenAPI spec found at base URL: %s", baseURL)
}

func (d *AutoDiscoverer) probe(ctx context.Context, candidate string, headers map[string]string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, candidate, nil)
	if err != nil {
		return false, err
	}
	req.Header.Set("Accept", "application/json, application/vnd.oai.openapi+json, application/yaml")
	req.Header.Set("User-Agent", userAgent)
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false, nil
	}
	contentType := resp.Header.Get("Content-Type")
	for _, ct := range specContentTypes {
		if strings.Contains(contentType, ct) {
			return true, nil
		}
	}
	return false, nil
}
