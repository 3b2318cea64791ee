package docshttp_test

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i2y/openapidocs/internal/adapter/inbound/docshttp"
	"github.com/i2y/openapidocs/internal/adapter/outbound/memrepo"
	"github.com/i2y/openapidocs/internal/domain"
	"github.com/i2y/openapidocs/internal/sidebar"
	"github.com/i2y/openapidocs/internal/usecase"
)

type stubFetcher struct{}

func (stubFetcher) Fetch(_ context.Context, src usecase.SpecSourceConfig) (domain.APISpec, error) {
	if strings.Contains(src.URL, "broken") {
		return domain.APISpec{}, errors.New("unreachable")
	}
	return domain.APISpec{Source: src.URL, Type: domain.SpecTypeFile}, nil
}

type stubGenerator struct{}

func (stubGenerator) Generate(spec domain.APISpec) (domain.DocSet, error) {
	return domain.DocSet{
		Source: spec.Source,
		Pages: []domain.PageMetadata{
			{Type: domain.PageTypeInfo, ID: "introduction", Title: "Petstore", Source: spec.Source},
			{Type: domain.PageTypeAPI, ID: "list-pets", Title: "List pets", Source: spec.Source,
				API: &domain.APIMetadata{Method: "get", Path: "/pets", Tags: []string{"pets"}}},
		},
		Tags: []domain.Tag{{Name: "pets", Description: "Everything about pets"}},
	}, nil
}

func newServer(t *testing.T, sources []usecase.SpecSourceConfig) *httptest.Server {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	repo := memrepo.NewInMemoryPageRepository(logger)
	fetchers := map[domain.SpecType]usecase.SpecFetcher{domain.SpecTypeFile: stubFetcher{}}

	generateUC := usecase.NewGenerateDocsUseCase(fetchers, stubGenerator{}, repo, nil, sidebar.Options{}, logger)
	serveUC := usecase.NewServeDocsUseCase(repo, logger)
	h := docshttp.NewHandlers(serveUC, generateUC, sources, logger)

	mux := http.NewServeMux()
	h.RegisterRoutes(mux)
	h.RegisterAdminRoutes(mux)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestHandlers_BeforeGeneration(t *testing.T) {
	assert := assert.New(t)
	srv := newServer(t, nil)

	resp, err := http.Get(srv.URL + "/sidebar")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(http.StatusServiceUnavailable, resp.StatusCode)

	resp, err = http.Get(srv.URL + "/pages/list-pets")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(http.StatusNotFound, resp.StatusCode)

	// No configured sources and an empty body.
	resp, err = http.Post(srv.URL+"/admin/regenerate", "application/json", nil)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(http.StatusBadRequest, resp.StatusCode)
}

func TestHandlers_RegenerateAndRead(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)
	srv := newServer(t, []usecase.SpecSourceConfig{{URL: "specs/petstore.yaml"}})

	resp, err := http.Post(srv.URL+"/admin/regenerate", "application/json", nil)
	require.NoError(err)
	var result usecase.GenerateResult
	require.NoError(json.NewDecoder(resp.Body).Decode(&result))
	resp.Body.Close()
	assert.Equal(http.StatusOK, resp.StatusCode)
	assert.NotEmpty(result.RunID)
	assert.Equal(2, result.Pages)

	resp, err = http.Get(srv.URL + "/pages")
	require.NoError(err)
	var pages []domain.PageMetadata
	require.NoError(json.NewDecoder(resp.Body).Decode(&pages))
	resp.Body.Close()
	assert.Equal("application/json", resp.Header.Get("Content-Type"))
	require.Len(pages, 2)
	assert.Equal("introduction", pages[0].ID)

	resp, err = http.Get(srv.URL + "/pages/list-pets")
	require.NoError(err)
	var page domain.PageMetadata
	require.NoError(json.NewDecoder(resp.Body).Decode(&page))
	resp.Body.Close()
	assert.Equal(http.StatusOK, resp.StatusCode)
	assert.Equal("/pets", page.API.Path)

	resp, err = http.Get(srv.URL + "/sidebar")
	require.NoError(err)
	var items []*domain.SidebarItem
	require.NoError(json.NewDecoder(resp.Body).Decode(&items))
	resp.Body.Close()
	require.Len(items, 2)
	assert.Equal("introduction", items[0].ID)
	assert.Equal("pets", items[1].Label)
}

func TestHandlers_RegenerateRequestBody(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantStatus int
	}{
		{name: "explicit source", body: `{"sources":[{"url":"specs/other.yaml"}]}`, wantStatus: http.StatusOK},
		{name: "malformed json", body: `{"sources":`, wantStatus: http.StatusBadRequest},
		{name: "source without url", body: `{"sources":[{"headers":{"X-Key":"1"}}]}`, wantStatus: http.StatusBadRequest},
		{name: "every source fails", body: `{"sources":[{"url":"specs/broken.yaml"}]}`, wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newServer(t, nil)
			resp, err := http.Post(srv.URL+"/admin/regenerate", "application/json", strings.NewReader(tt.body))
			require.NoError(t, err)
			resp.Body.Close()
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
		})
	}
}

func TestHandlers_MethodNotAllowed(t *testing.T) {
	srv := newServer(t, nil)
	resp, err := http.Get(srv.URL + "/admin/regenerate")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}
