package openapi_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i2y/openapidocs/internal/adapter/outbound/openapi"
	"github.com/i2y/openapidocs/internal/domain"
	"github.com/i2y/openapidocs/internal/usecase"
)

const minimalSpec = `{"openapi":"3.0.3","info":{"title":"Minimal","version":"1"},"paths":{}}`

func newFetcher() *openapi.SpecFetcher {
	return openapi.NewSpecFetcher(nil, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestSpecFetcher_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "petstore.yaml")
	require.NoError(t, os.WriteFile(path, []byte(petstore), 0o600))

	spec, err := newFetcher().Fetch(context.Background(), usecase.SpecSourceConfig{URL: path})
	require.NoError(t, err)

	assert.Equal(t, domain.SpecTypeFile, spec.Type)
	assert.Equal(t, path, spec.Source)
	doc, ok := spec.ParsedData.(*openapi3.T)
	require.True(t, ok)
	assert.Equal(t, "Swagger Petstore", doc.Info.Title)
}

func TestSpecFetcher_MissingFile(t *testing.T) {
	_, err := newFetcher().Fetch(context.Background(), usecase.SpecSourceConfig{URL: filepath.Join(t.TempDir(), "nope.yaml")})
	assert.ErrorContains(t, err, "failed to read spec from file")
}

func TestSpecFetcher_URLWithHeaders(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer token" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(minimalSpec))
	}))
	defer server.Close()

	f := newFetcher()
	src := usecase.SpecSourceConfig{URL: server.URL + "/openapi.json", Headers: map[string]string{"Authorization": "Bearer token"}}
	spec, err := f.Fetch(context.Background(), src)
	require.NoError(t, err)
	assert.Equal(t, domain.SpecTypeURL, spec.Type)

	_, err = f.Fetch(context.Background(), usecase.SpecSourceConfig{URL: server.URL + "/openapi.json"})
	assert.ErrorContains(t, err, "401")
}

func TestSpecFetcher_AutoDiscovery(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/v3/api-docs", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(minimalSpec))
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	spec, err := newFetcher().Fetch(context.Background(), usecase.SpecSourceConfig{URL: server.URL})
	require.NoError(t, err)
	assert.Equal(t, server.URL, spec.Source)
	doc, ok := spec.ParsedData.(*openapi3.T)
	require.True(t, ok)
	assert.Equal(t, "Minimal", doc.Info.Title)
}

func TestLooksLikeSpecURL(t *testing.T) {
	tests := []struct {
		url  string
		want bool
	}{
		{"https://example.com/openapi.json", true},
		{"https://example.com/spec.yaml", true},
		{"https://example.com/v3/api-docs", true},
		{"https://example.com/swagger/v1", true},
		{"https://example.com", false},
		{"https://example.com/api/v1", false},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			assert.Equal(t, tt.want, openapi.LooksLikeSpecURL(tt.url))
		})
	}
}
