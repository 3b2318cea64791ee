package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"

	"github.com/i2y/openapidocs/internal/domain"
	"github.com/i2y/openapidocs/internal/sidebar"
)

const instrumentationName = "github.com/i2y/openapidocs/internal/usecase"

// ErrNoSpecLoaded is returned when every configured source failed.
var ErrNoSpecLoaded = errors.New("no spec source could be loaded")

// GenerateResult summarizes one generation run.
type GenerateResult struct {
	RunID   string                `json:"runId"`
	Pages   int                   `json:"pages"`
	Sources int                   `json:"sources"`
	Failed  []string              `json:"failed,omitempty"`
	Sidebar []*domain.SidebarItem `json:"-"`
}

// GenerateDocsUseCase fetches every configured spec, generates its pages, groups them
// into a sidebar and writes the artifacts.
type GenerateDocsUseCase struct {
	fetchers    map[domain.SpecType]SpecFetcher
	generator   PageGenerator
	repository  PageRepository
	writer      ArtifactWriter
	sidebarOpts sidebar.Options
	tracer      trace.Tracer
	pageCounter metric.Int64Counter
	logger      *slog.Logger

	docLoader DocLoader
	docPaths  []string

	mu sync.Mutex
}

// GenerateOption configures a GenerateDocsUseCase.
type GenerateOption func(*GenerateDocsUseCase)

// WithDocs loads the markdown pages at paths ahead of every spec source.
func WithDocs(loader DocLoader, paths []string) GenerateOption {
	return func(uc *GenerateDocsUseCase) {
		uc.docLoader = loader
		uc.docPaths = paths
	}
}

// NewGenerateDocsUseCase creates a new GenerateDocsUseCase.
// The writer may be nil, in which case results only land in the repository.
func NewGenerateDocsUseCase(
	fetchers map[domain.SpecType]SpecFetcher,
	generator PageGenerator,
	repository PageRepository,
	writer ArtifactWriter,
	sidebarOpts sidebar.Options,
	logger *slog.Logger,
	opts ...GenerateOption,
) *GenerateDocsUseCase {
	logger = logger.With("usecase", "GenerateDocs")
	counter, err := otel.Meter(instrumentationName).Int64Counter(
		"openapidocs.pages.generated",
		metric.WithDescription("Number of documentation pages generated"),
	)
	if err != nil {
		logger.Warn("Failed to create page counter", slog.Any("error", err))
		counter = noop.Int64Counter{}
	}
	uc := &GenerateDocsUseCase{
		fetchers:    fetchers,
		generator:   generator,
		repository:  repository,
		writer:      writer,
		sidebarOpts: sidebarOpts,
		tracer:      otel.Tracer(instrumentationName),
		pageCounter: counter,
		logger:      logger,
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// Execute runs one generation over the given sources. Runs are serialized.
// Doc pages, when configured, are stored ahead of the spec pages and a doc that
// cannot be loaded aborts the run. A source that cannot be fetched or generated is
// logged and skipped; a sidebar failure (for example an invalid category file)
// aborts the run.
func (uc *GenerateDocsUseCase) Execute(ctx context.Context, sources []SpecSourceConfig) (GenerateResult, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	result := GenerateResult{RunID: uuid.NewString(), Sources: len(sources)}
	log := uc.logger.With(slog.String("run_id", result.RunID))

	ctx, span := uc.tracer.Start(ctx, "GenerateDocs", trace.WithAttributes(
		attribute.String("run_id", result.RunID),
		attribute.Int("source_count", len(sources)),
	))
	defer span.End()

	log.Info("Starting documentation generation", slog.Int("source_count", len(sources)))

	if err := uc.repository.Reset(ctx); err != nil {
		return result, uc.fail(span, log, "failed to reset page repository", err)
	}

	if uc.docLoader != nil && len(uc.docPaths) > 0 {
		docs, err := uc.docLoader.Load(ctx, uc.docPaths)
		if err != nil {
			return result, uc.fail(span, log, "failed to load doc pages", err)
		}
		if err := uc.repository.Save(ctx, docs); err != nil {
			return result, uc.fail(span, log, "failed to save doc pages", err)
		}
		uc.pageCounter.Add(ctx, int64(len(docs.Pages)), metric.WithAttributes(attribute.String("spec_type", "doc")))
	}

	for _, src := range sources {
		if err := uc.generateSource(ctx, log, src); err != nil {
			log.Error("Skipping spec source", slog.String("source", src.URL), slog.Any("error", err))
			result.Failed = append(result.Failed, src.URL)
		}
	}
	if len(sources) > 0 && len(result.Failed) == len(sources) {
		err := fmt.Errorf("%w: %d of %d sources failed", ErrNoSpecLoaded, len(result.Failed), len(sources))
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return result, err
	}

	pages, err := uc.repository.List(ctx)
	if err != nil {
		return result, uc.fail(span, log, "failed to list pages", err)
	}
	result.Pages = len(pages)

	tags, tagGroups, err := uc.repository.Taxonomy(ctx)
	if err != nil {
		return result, uc.fail(span, log, "failed to read tag taxonomy", err)
	}
	opts := uc.sidebarOpts
	if opts.TagGroups == nil {
		opts.TagGroups = tagGroups
	}
	items, err := sidebar.Generate(pages, tags, opts)
	if err != nil {
		return result, uc.fail(span, log, "failed to generate sidebar", err)
	}
	result.Sidebar = items

	if err := uc.repository.SaveSidebar(ctx, items); err != nil {
		return result, uc.fail(span, log, "failed to save sidebar", err)
	}

	if uc.writer != nil {
		if err := uc.writer.WritePages(ctx, pages); err != nil {
			return result, uc.fail(span, log, "failed to write pages", err)
		}
		if err := uc.writer.WriteSidebar(ctx, items); err != nil {
			return result, uc.fail(span, log, "failed to write sidebar", err)
		}
	}

	span.SetAttributes(attribute.Int("page_count", result.Pages))
	log.Info("Documentation generated",
		slog.Int("page_count", result.Pages),
		slog.Int("sidebar_items", len(items)),
		slog.Int("failed_sources", len(result.Failed)))
	return result, nil
}

func (uc *GenerateDocsUseCase) generateSource(ctx context.Context, log *slog.Logger, src SpecSourceConfig) error {
	ctx, span := uc.tracer.Start(ctx, "GenerateDocs.source", trace.WithAttributes(
		attribute.String("source", src.URL),
	))
	defer span.End()

	log = log.With(slog.String("source", src.URL))
	specType := domain.DetectSpecType(src.URL)
	fetcher, ok := uc.fetchers[specType]
	if !ok {
		err := fmt.Errorf("%w: %s (type %s)", ErrNoFetcher, src.URL, specType)
		span.RecordError(err)
		return err
	}

	log.Info("Fetching spec", slog.String("spec_type", string(specType)))
	spec, err := fetcher.Fetch(ctx, src)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to fetch spec from %s: %w", src.URL, err)
	}

	set, err := uc.generator.Generate(spec)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to generate pages for %s: %w", src.URL, err)
	}

	if err := uc.repository.Save(ctx, set); err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to save pages for %s: %w", src.URL, err)
	}

	uc.pageCounter.Add(ctx, int64(len(set.Pages)), metric.WithAttributes(attribute.String("spec_type", string(specType))))
	span.SetAttributes(attribute.Int("page_count", len(set.Pages)))
	log.Info("Generated pages", slog.Int("page_count", len(set.Pages)))
	return nil
}

func (uc *GenerateDocsUseCase) fail(span trace.Span, log *slog.Logger, msg string, err error) error {
	log.Error(msg, slog.Any("error", err))
	span.RecordError(err)
	span.SetStatus(codes.Error, msg)
	return fmt.Errorf("%s: %w", msg, err)
}
