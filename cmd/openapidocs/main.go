package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/i2y/openapidocs/configs"
	"github.com/i2y/openapidocs/internal/adapter/inbound/docshttp"
	"github.com/i2y/openapidocs/internal/adapter/outbound/category"
	"github.com/i2y/openapidocs/internal/adapter/outbound/filewriter"
	"github.com/i2y/openapidocs/internal/adapter/outbound/github"
	"github.com/i2y/openapidocs/internal/adapter/outbound/markdown"
	"github.com/i2y/openapidocs/internal/adapter/outbound/memrepo"
	"github.com/i2y/openapidocs/internal/adapter/outbound/mongorepo"
	"github.com/i2y/openapidocs/internal/adapter/outbound/openapi"
	"github.com/i2y/openapidocs/internal/domain"
	"github.com/i2y/openapidocs/internal/schematree"
	"github.com/i2y/openapidocs/internal/sidebar"
	"github.com/i2y/openapidocs/internal/usecase"
)

const serviceName = "openapidocs"

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	// === Command Line Flags ===
	var mode string
	flag.StringVar(&mode, "mode", "generate", "Run mode: generate or serve")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [-mode generate|serve] [spec ...]\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// === Configuration ===
	cfg, err := configs.Load(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// === Logging ===
	logLevel := cfg.ParsedLogLevel()
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(logger)
	logger.Info("Logger initialized.", slog.String("level", logLevel.String()), slog.String("mode", mode), slog.String("version", version))

	// === OpenTelemetry Initialization ===
	shutdownOtel, err := initOtelProvider(ctx, cfg)
	if err != nil {
		logger.Error("Failed to initialize OpenTelemetry.", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := shutdownOtel(context.Background()); err != nil {
			logger.Error("Failed to shutdown OpenTelemetry TracerProvider.", slog.Any("error", err))
		}
	}()

	// Positional arguments replace the configured spec sources.
	sources := make([]usecase.SpecSourceConfig, 0, len(cfg.SpecSources))
	for _, source := range cfg.SpecSources {
		sources = append(sources, usecase.SpecSourceConfig{URL: source.URL, Headers: source.Headers})
	}
	if flag.NArg() > 0 {
		sources = sources[:0]
		for _, arg := range flag.Args() {
			sources = append(sources, usecase.SpecSourceConfig{URL: arg})
		}
	}

	// === Dependency Injection ===
	httpClient := &http.Client{Timeout: cfg.HTTPClientTimeout}
	specFetcher := openapi.NewSpecFetcher(httpClient, logger)
	fetchers := map[domain.SpecType]usecase.SpecFetcher{
		domain.SpecTypeFile:   specFetcher,
		domain.SpecTypeURL:    specFetcher,
		domain.SpecTypeGitHub: github.NewFetcher(nil, logger),
	}

	generator := openapi.NewPageGenerator(openapi.GeneratorOptions{
		BaseURL:     cfg.BaseURL,
		ContentPath: cfg.ContentPath,
		Builder: schematree.NewBuilder(
			schematree.WithMaxDepth(cfg.MaxDepth),
			schematree.WithLogger(logger),
		),
	}, logger)

	categoryReader, err := category.NewReader(logger)
	if err != nil {
		logger.Error("Failed to initialize category reader.", slog.Any("error", err))
		os.Exit(1)
	}
	sidebarOpts := sidebar.Options{
		GroupPathsBy:       sidebar.GroupPathsBy(cfg.Sidebar.GroupPathsBy),
		CategoryLinkSource: sidebar.CategoryLinkSource(cfg.Sidebar.CategoryLinkSource),
		Collapsible:        cfg.Collapsible(),
		Collapsed:          cfg.Collapsed(),
		CustomProps:        cfg.Sidebar.CustomProps,
		OutputDir:          cfg.OutputDir,
		ContentPath:        cfg.ContentPath,
		CategoryReader:     categoryReader,
	}
	if err := sidebarOpts.Validate(); err != nil {
		logger.Error("Invalid sidebar configuration.", slog.Any("error", err))
		os.Exit(1)
	}

	var repo usecase.PageRepository
	if cfg.MongoURI != "" {
		mongoRepo, err := mongorepo.NewMongoPageRepository(ctx, cfg.MongoURI, cfg.MongoDatabase, logger)
		if err != nil {
			logger.Error("Failed to connect page repository.", slog.Any("error", err))
			os.Exit(1)
		}
		defer func() {
			if err := mongoRepo.Close(context.Background()); err != nil {
				logger.Error("Failed to disconnect page repository.", slog.Any("error", err))
			}
		}()
		repo = mongoRepo
		logger.Info("Using MongoDB page repository.", slog.String("database", cfg.MongoDatabase))
	} else {
		repo = memrepo.NewInMemoryPageRepository(logger)
	}

	writer := filewriter.NewWriter(cfg.OutputDir, cfg.Overwrite, logger)
	generateUC := usecase.NewGenerateDocsUseCase(fetchers, generator, repo, writer, sidebarOpts, logger,
		usecase.WithDocs(markdown.NewLoader(cfg.BaseURL, cfg.ContentPath, logger), cfg.BeforeAPIDocs))

	// === Initial Generation ===
	logger.Info("Generating documentation...", slog.Int("source_count", len(sources)))
	result, genErr := generateUC.Execute(ctx, sources)
	if genErr != nil {
		logger.Error("Documentation generation failed.", slog.String("run_id", result.RunID), slog.Any("error", genErr))
	}

	switch mode {
	case "generate":
		if genErr != nil {
			os.Exit(1)
		}
		logger.Info("Documentation written.",
			slog.String("output_dir", cfg.OutputDir),
			slog.Int("page_count", result.Pages),
			slog.Int("failed_sources", len(result.Failed)))

	case "serve":
		// Serving continues after a failed initial run; POST /admin/regenerate retries.
		mux := http.NewServeMux()
		handlers := docshttp.NewHandlers(usecase.NewServeDocsUseCase(repo, logger), generateUC, sources, logger)
		handlers.RegisterRoutes(mux)
		handlers.RegisterAdminRoutes(mux)
		server := &http.Server{
			Addr:         cfg.ListenAddr,
			Handler:      mux,
			ReadTimeout:  cfg.ServerReadTimeout,
			WriteTimeout: cfg.ServerWriteTimeout,
			IdleTimeout:  cfg.ServerIdleTimeout,
		}
		go func() {
			logger.Info("Docs HTTP server starting.", slog.String("address", server.Addr))
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("Docs HTTP server failed to start.", slog.Any("error", err))
				stop()
			}
		}()

		// Wait for interrupt signal.
		<-ctx.Done()

		logger.Info("Shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("Docs HTTP server graceful shutdown failed.", slog.Any("error", err))
		}
		logger.Info("Server shut down gracefully.")

	default:
		logger.Error("Invalid run mode", slog.String("mode", mode))
		os.Exit(1)
	}
}

// initOtelProvider initializes the OpenTelemetry SDK and sets up the OTLP trace exporter.
// It returns a shutdown function to be called on application exit.
func initOtelProvider(ctx context.Context, cfg *configs.Config) (func(context.Context) error, error) {
	if cfg.OtelExporterOtlpEndpoint == "" {
		slog.Info("OTEL_EXPORTER_OTLP_ENDPOINT not set, OpenTelemetry tracing disabled.")
		return func(context.Context) error { return nil }, nil
	}

	slog.Info("Initializing OTLP exporter.", slog.String("endpoint", cfg.OtelExporterOtlpEndpoint))

	grpcOpts := []grpc.DialOption{}
	if cfg.OtelExporterOtlpInsecure {
		grpcOpts = append(grpcOpts, grpc.WithTransportCredentials(insecure.NewCredentials()))
		slog.Warn("Using insecure connection for OTLP exporter.")
	}

	conn, err := grpc.NewClient(cfg.OtelExporterOtlpEndpoint, grpcOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create gRPC connection to OTLP endpoint: %w", err)
	}

	traceExporter, err := otlptracegrpc.New(ctx, otlptracegrpc.WithGRPCConn(conn))
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to create OTLP trace exporter: %w", err)
	}

	r, err := resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceNameKey.String(serviceName),
			semconv.ServiceVersionKey.String(version),
		),
	)
	if err != nil {
		_ = traceExporter.Shutdown(ctx)
		_ = conn.Close()
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(traceExporter),
		sdktrace.WithResource(r),
	)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}, propagation.Baggage{}))

	slog.Info("OpenTelemetry TracerProvider configured.")

	return func(ctx context.Context) error {
		providerErr := tp.Shutdown(ctx)
		connErr := conn.Close()
		return errors.Join(providerErr, connErr)
	}, nil
}
