package docshttp

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/goccy/go-json"

	"github.com/i2y/openapidocs/internal/usecase"
)

// Handlers holds dependencies for the HTTP handlers.
type Handlers struct {
	serveUseCase    *usecase.ServeDocsUseCase
	generateUseCase *usecase.GenerateDocsUseCase
	sources         []usecase.SpecSourceConfig
	logger          *slog.Logger
}

// NewHandlers creates a new Handlers struct. sources are regenerated when a
// regenerate request names none.
func NewHandlers(
	serveUC *usecase.ServeDocsUseCase,
	generateUC *usecase.GenerateDocsUseCase,
	sources []usecase.SpecSourceConfig,
	logger *slog.Logger,
) *Handlers {
	return &Handlers{
		serveUseCase:    serveUC,
		generateUseCase: generateUC,
		sources:         sources,
		logger:          logger.With("component", "docshttp_handler"),
	}
}

// RegisterRoutes sets up the read-only documentation routes.
func (h *Handlers) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /sidebar", h.handleSidebar)
	mux.HandleFunc("GET /pages", h.handleListPages)
	mux.HandleFunc("GET /pages/{id}", h.handleGetPage)
}

// RegisterAdminRoutes sets up the HTTP routes for admin endpoints.
func (h *Handlers) RegisterAdminRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /admin/regenerate", h.handleRegenerate)
}

// RegenerateRequest is the optional JSON body of POST /admin/regenerate.
type RegenerateRequest struct {
	Sources []SourceRequest `json:"sources"`
}

// SourceRequest names one spec source to regenerate.
type SourceRequest struct {
	URL     string            `json:"url"`
	Headers map[string]string `json:"headers,omitempty"`
}

func (h *Handlers) handleSidebar(w http.ResponseWriter, r *http.Request) {
	items, err := h.serveUseCase.Sidebar(r.Context())
	if err != nil {
		if errors.Is(err, usecase.ErrSidebarNotGenerated) {
			http.Error(w, "Sidebar not generated yet", http.StatusServiceUnavailable)
			return
		}
		h.logger.Error("Failed to read sidebar", slog.Any("error", err))
		http.Error(w, fmt.Sprintf("Failed to read sidebar: %v", err), http.StatusInternalServerError)
		return
	}
	h.writeJSON(w, http.StatusOK, items)
}

func (h *Handlers) handleListPages(w http.ResponseWriter, r *http.Request) {
	pages, err := h.serveUseCase.ListPages(r.Context())
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to list pages: %v", err), http.StatusInternalServerError)
		return
	}
	h.writeJSON(w, http.StatusOK, pages)
}

func (h *Handlers) handleGetPage(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	page, err := h.serveUseCase.GetPage(r.Context(), id)
	if err != nil {
		if errors.Is(err, usecase.ErrPageNotFound) {
			http.Error(w, fmt.Sprintf("Page not found: %s", id), http.StatusNotFound)
			return
		}
		http.Error(w, fmt.Sprintf("Failed to get page: %v", err), http.StatusInternalServerError)
		return
	}
	h.writeJSON(w, http.StatusOK, page)
}

// handleRegenerate implements POST /admin/regenerate. An empty body regenerates
// the configured sources.
func (h *Handlers) handleRegenerate(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	sources := h.sources
	if r.ContentLength != 0 {
		var req RegenerateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.logger.Warn("Failed to decode regenerate request body", slog.Any("error", err))
			http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
			return
		}
		if len(req.Sources) > 0 {
			sources = make([]usecase.SpecSourceConfig, 0, len(req.Sources))
			for _, s := range req.Sources {
				if s.URL == "" {
					http.Error(w, "Missing 'url' field in source", http.StatusBadRequest)
					return
				}
				sources = append(sources, usecase.SpecSourceConfig{URL: s.URL, Headers: s.Headers})
			}
		}
	}
	if len(sources) == 0 {
		http.Error(w, "No spec sources configured", http.StatusBadRequest)
		return
	}

	h.logger.Info("Received regenerate request", slog.Int("source_count", len(sources)))
	result, err := h.generateUseCase.Execute(r.Context(), sources)
	if err != nil {
		h.logger.Error("Failed to regenerate docs", slog.String("run_id", result.RunID), slog.Any("error", err))
		http.Error(w, fmt.Sprintf("Failed to regenerate docs: %v", err), http.StatusInternalServerError)
		return
	}
	h.writeJSON(w, http.StatusOK, result)
}

func (h *Handlers) writeJSON(w http.ResponseWriter, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		h.logger.Error("Failed to encode response", slog.Any("error", err))
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}
