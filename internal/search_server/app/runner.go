package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/Avi18971911/endpoint-search/internal/catalog"
	"github.com/Avi18971911/endpoint-search/internal/config"
	"github.com/Avi18971911/endpoint-search/internal/db/elasticsearch/bootstrapper"
	"github.com/Avi18971911/endpoint-search/internal/db/elasticsearch/client"
	"github.com/Avi18971911/endpoint-search/internal/search_server/cache"
	"github.com/Avi18971911/endpoint-search/internal/search_server/router"
	"github.com/Avi18971911/endpoint-search/internal/search_server/service/reindex"
	"github.com/Avi18971911/endpoint-search/internal/search_server/service/search"
	"github.com/Avi18971911/endpoint-search/internal/telemetry"
	"go.uber.org/zap"
)

const (
	autocompleteCacheEntries = 10_000
	shutdownTimeout          = 10 * time.Second
)

// Components holds the wired services of one process.
type Components struct {
	Client         client.SearchClient
	Bootstrapper   *bootstrapper.Bootstrapper
	SearchService  *search.SearchService
	ReindexService *reindex.ReindexServiceImpl
	Handler        http.Handler
	close          []func()
}

// NewComponents connects to Elasticsearch lazily and wires the services.
func NewComponents(settings *config.Settings, logger *zap.Logger) (*Components, error) {
	es, err := client.NewElasticsearch(
		settings.Elasticsearch.URL,
		settings.Elasticsearch.Username,
		settings.Elasticsearch.Password,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create elasticsearch client: %w", err)
	}
	ac := client.NewSearchClientImpl(es, client.Wait)
	c := &Components{Client: ac}

	// a nil interface disables caching, never a nil *AutocompleteCacheImpl
	var autocompleteCache cache.AutocompleteCache
	if settings.Cache.Enabled {
		rc, err := cache.NewRistretto(autocompleteCacheEntries)
		if err != nil {
			return nil, err
		}
		autocompleteCache = cache.NewAutocompleteCacheImpl(rc, settings.Cache.TTL)
		c.close = append(c.close, rc.Close)
	}

	c.Bootstrapper = bootstrapper.NewBootstrapper(ac, settings.Index.Name, settings.Index.DocumentType, logger)
	c.SearchService = search.NewSearchService(ac, autocompleteCache, search.Config{
		IndexName:        settings.Index.Name,
		Timeout:          settings.Search.Timeout,
		AutocompleteSize: settings.Search.AutocompleteSize,
	}, logger)
	c.ReindexService = reindex.NewReindexService(
		ac,
		catalog.NewFileSource(settings.Documents.Path),
		autocompleteCache,
		reindex.Config{
			IndexName:    settings.Index.Name,
			DocumentType: settings.Index.DocumentType,
			Strategy:     reindex.Strategy(settings.Index.Strategy),
			Timeout:      settings.Reindex.Timeout,
		},
		logger,
	)
	c.Handler = router.CreateRouter(c.SearchService, c.ReindexService, ac, logger)
	return c, nil
}

func (c *Components) Close() {
	for _, f := range c.close {
		f()
	}
}

// Setup loads and validates settings, then builds the logger and tracer.
func Setup(ctx context.Context, settings *config.Settings) (*zap.Logger, func(), error) {
	if err := config.ValidateSettings(settings); err != nil {
		return nil, nil, fmt.Errorf("invalid configuration: %w", err)
	}
	logger, err := config.NewLogger(settings.Log)
	if err != nil {
		return nil, nil, err
	}
	config.Log(settings, logger)

	shutdownTracer, err := telemetry.InitTracer(ctx, settings.Tracing.Endpoint, logger)
	if err != nil {
		_ = logger.Sync()
		return nil, nil, err
	}
	cleanup := func() {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := shutdownTracer(ctx); err != nil {
			logger.Error("Failed to shut down tracer", zap.Error(err))
		}
		_ = logger.Sync()
	}
	return logger, cleanup, nil
}

// Serve makes sure the index exists, optionally reindexes, and serves HTTP until ctx ends.
func Serve(ctx context.Context, settings *config.Settings, bootstrap bool) error {
	logger, cleanup, err := Setup(ctx, settings)
	if err != nil {
		return err
	}
	defer cleanup()

	c, err := NewComponents(settings, logger)
	if err != nil {
		logger.Error("Failed to wire components", zap.Error(err))
		return err
	}
	defer c.Close()

	if err := c.Bootstrapper.BootstrapElasticsearch(ctx, bootstrapper.Retries, bootstrapper.WaitTime); err != nil {
		logger.Error("Failed to bootstrap elasticsearch", zap.Error(err))
	} else if bootstrap {
		if _, err := c.ReindexService.Reprocess(ctx); err != nil {
			logger.Error("Failed to reindex endpoints at start-up", zap.Error(err))
		}
	}

	return listen(ctx, settings.Server, c.Handler, logger)
}

// Reprocess runs one reindex once Elasticsearch answers.
func Reprocess(ctx context.Context, settings *config.Settings) (reindex.Result, error) {
	logger, cleanup, err := Setup(ctx, settings)
	if err != nil {
		return reindex.Result{}, err
	}
	defer cleanup()

	c, err := NewComponents(settings, logger)
	if err != nil {
		return reindex.Result{}, err
	}
	defer c.Close()

	if err := c.Bootstrapper.WaitForElasticsearch(ctx, bootstrapper.Retries, bootstrapper.WaitTime); err != nil {
		logger.Error("Failed to connect to elasticsearch", zap.Error(err))
		return reindex.Result{}, err
	}
	return c.ReindexService.Reprocess(ctx)
}

func listen(ctx context.Context, s config.ServerSettings, handler http.Handler, logger *zap.Logger) error {
	srv := &http.Server{
		Addr:              net.JoinHostPort(s.Host, strconv.Itoa(s.Port)),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Starting search server", zap.String("address", srv.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		logger.Error("Search server stopped", zap.Error(err))
		return err
	case <-ctx.Done():
		logger.Info("Shutting down search server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
