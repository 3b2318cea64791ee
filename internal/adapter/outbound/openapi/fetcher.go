package openapi

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path/filepath"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/i2y/openapidocs/internal/domain"
	"github.com/i2y/openapidocs/internal/usecase"
)

const userAgent = "openapidocs/1.0"

// SpecFetcher loads OpenAPI documents from local files and http(s) URLs.
type SpecFetcher struct {
	httpClient     *http.Client
	logger         *slog.Logger
	autoDiscoverer *AutoDiscoverer
}

// NewSpecFetcher creates a SpecFetcher. A nil client uses http.DefaultClient.
func NewSpecFetcher(client *http.Client, logger *slog.Logger) *SpecFetcher {
	if client == nil {
		client = http.DefaultClient
	}
	return &SpecFetcher{
		httpClient:     client,
		logger:         logger.With("component", "openapi_fetcher"),
		autoDiscoverer: NewAutoDiscoverer(client, logger),
	}
}

// Fetch loads and parses the document named by source. URL sources that do not look
// like a spec document are resolved by auto-discovery first; headers are sent with
// every http request and ignored for files.
func (f *SpecFetcher) Fetch(ctx context.Context, source usecase.SpecSourceConfig) (domain.APISpec, error) {
	log := f.logger.With(slog.String("source", source.URL))
	log.Info("Fetching OpenAPI spec")

	loader := &openapi3.Loader{Context: ctx, IsExternalRefsAllowed: true}

	var (
		spec domain.APISpec
		doc  *openapi3.T
		err  error
	)
	switch domain.DetectSpecType(source.URL) {
	case domain.SpecTypeURL:
		resolved := f.autoDiscoverer.Resolve(ctx, source.URL, source.Headers)
		if resolved != source.URL {
			log.Info("Auto-discovered OpenAPI spec", slog.String("resolved_url", resolved))
		}
		spec.RawData, err = f.download(ctx, resolved, source.Headers)
		if err != nil {
			log.Error("Failed to fetch spec from URL", slog.Any("error", err))
			return domain.APISpec{}, err
		}
		spec.Type = domain.SpecTypeURL
		u, _ := url.Parse(resolved)
		doc, err = loader.LoadFromDataWithPath(spec.RawData, u)
	case domain.SpecTypeFile:
		spec.RawData, err = os.ReadFile(source.URL)
		if err != nil {
			log.Error("Failed to read spec file", slog.Any("error", err))
			return domain.APISpec{}, fmt.Errorf("failed to read spec from file %s: %w", source.URL, err)
		}
		spec.Type = domain.SpecTypeFile
		abs, absErr := filepath.Abs(source.URL)
		if absErr != nil {
			abs = source.URL
		}
		doc, err = loader.LoadFromDataWithPath(spec.RawData, &url.URL{Path: filepath.ToSlash(abs)})
	default:
		return domain.APISpec{}, fmt.Errorf("%w: %s", usecase.ErrNoFetcher, source.URL)
	}
	if err != nil {
		log.Error("Failed to parse OpenAPI spec", slog.Any("error", err))
		return domain.APISpec{}, fmt.Errorf("failed to parse OpenAPI spec from %s: %w", source.URL, err)
	}

	if err := doc.Validate(ctx); err != nil {
		log.Warn("OpenAPI spec validation failed", slog.Any("validation_error", err))
	}

	log.Info("Fetched and parsed OpenAPI spec", slog.Int("bytes", len(spec.RawData)))
	spec.Source = source.URL
	spec.ParsedData = doc
	return spec, nil
}

func (f *SpecFetcher) download(ctx context.Context, rawURL string, headers map[string]string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request for %s: %w", rawURL, err)
	}
	req.Header.Set("User-Agent", userAgent)
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch spec from URL %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch spec from URL %s: status %s", rawURL, resp.Status)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body from %s: %w", rawURL, err)
	}
	return body, nil
}
