package reindex

import (
	"context"
	"fmt"
	"time"

	"github.com/Avi18971911/endpoint-search/internal/catalog"
	"github.com/Avi18971911/endpoint-search/internal/catalog/model"
	"github.com/Avi18971911/endpoint-search/internal/db/elasticsearch/bootstrapper"
	"github.com/Avi18971911/endpoint-search/internal/db/elasticsearch/client"
	"github.com/Avi18971911/endpoint-search/internal/search_server/cache"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const DefaultTimeout = 60 * time.Second

type Strategy string

const (
	// Recreate deletes the index, creates it again and bulk loads it. Searches
	// running in between see a missing or partially filled index.
	Recreate Strategy = "recreate"
	// Alias loads a new generation index and atomically points the index name,
	// used as an alias, at it before dropping older generations.
	Alias Strategy = "alias"
)

var tracer = otel.Tracer("github.com/Avi18971911/endpoint-search/internal/search_server/service/reindex")

type Result struct {
	// Index is the name searches use.
	Index string
	// Generation is the concrete index that received the documents.
	Generation string
	Documents  int
}

type ReindexService interface {
	// Reprocess replaces the whole endpoint index with the contents of the document source.
	Reprocess(ctx context.Context) (Result, error)
}

type Config struct {
	IndexName    string
	DocumentType string
	Strategy     Strategy
	Timeout      time.Duration
}

type ReindexServiceImpl struct {
	ac     client.SearchClient
	source catalog.Source
	cache  cache.AutocompleteCache
	config Config
	logger *zap.Logger
	now    func() time.Time
}

// NewReindexService creates the service. autocompleteCache may be nil.
func NewReindexService(
	ac client.SearchClient,
	source catalog.Source,
	autocompleteCache cache.AutocompleteCache,
	config Config,
	logger *zap.Logger,
) *ReindexServiceImpl {
	if config.Timeout <= 0 {
		config.Timeout = DefaultTimeout
	}
	if config.Strategy == "" {
		config.Strategy = Recreate
	}
	return &ReindexServiceImpl{
		ac:     ac,
		source: source,
		cache:  autocompleteCache,
		config: config,
		logger: logger,
		now:    time.Now,
	}
}

func (rs *ReindexServiceImpl) Reprocess(ctx context.Context) (Result, error) {
	ctx, span := tracer.Start(ctx, "reindex.Reprocess", trace.WithAttributes(
		attribute.String("reindex.index", rs.config.IndexName),
		attribute.String("reindex.strategy", string(rs.config.Strategy)),
	))
	defer span.End()

	// the index is dropped before it is rebuilt, so only the timeout may stop the run
	reindexCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), rs.config.Timeout)
	defer cancel()

	endpoints, err := rs.source.Load(reindexCtx)
	if err != nil {
		rs.logger.Error("Error when loading endpoint documents", zap.Error(err))
		return Result{}, recordError(span, err)
	}

	// the index contents change from here on, even when a later step fails
	if rs.cache != nil {
		defer rs.cache.Clear()
	}

	var result Result
	switch rs.config.Strategy {
	case Alias:
		result, err = rs.reprocessWithAlias(reindexCtx, endpoints)
	case Recreate:
		result, err = rs.reprocessInPlace(reindexCtx, endpoints)
	default:
		err = fmt.Errorf("unknown reindex strategy %q", rs.config.Strategy)
	}
	if err != nil {
		rs.logger.Error("Error when reprocessing endpoints", zap.String("index_name", rs.config.IndexName), zap.Error(err))
		return Result{}, recordError(span, err)
	}

	span.SetAttributes(attribute.Int("reindex.documents", result.Documents))
	rs.logger.Info(
		"Reindexed endpoints",
		zap.String("index_name", result.Index),
		zap.String("generation", result.Generation),
		zap.Int("documents", result.Documents),
	)
	return result, nil
}

func (rs *ReindexServiceImpl) reprocessInPlace(ctx context.Context, endpoints []model.Endpoint) (Result, error) {
	name := rs.config.IndexName

	// a previous alias run leaves the name as an alias, which cannot be deleted directly
	generations, err := rs.ac.GetAliasIndices(ctx, name)
	if err != nil {
		return Result{}, fmt.Errorf("error resolving index %s: %w", name, err)
	}
	if len(generations) > 0 {
		if err := rs.ac.DeleteIndex(ctx, generations...); err != nil {
			return Result{}, fmt.Errorf("error deleting generations of %s: %w", name, err)
		}
	}

	if err := rs.ac.DeleteIndex(ctx, name); err != nil {
		return Result{}, fmt.Errorf("error deleting index %s: %w", name, err)
	}
	if err := rs.ac.CreateIndex(ctx, name, bootstrapper.EndpointIndex(rs.config.DocumentType)); err != nil {
		return Result{}, fmt.Errorf("error creating index %s: %w", name, err)
	}
	if err := rs.bulkLoad(ctx, endpoints, name); err != nil {
		return Result{}, err
	}
	return Result{Index: name, Generation: name, Documents: len(endpoints)}, nil
}

func (rs *ReindexServiceImpl) reprocessWithAlias(ctx context.Context, endpoints []model.Endpoint) (Result, error) {
	name := rs.config.IndexName
	generation := fmt.Sprintf("%s-%d", name, rs.now().UnixNano())

	if err := rs.ac.CreateIndex(ctx, generation, bootstrapper.EndpointIndex(rs.config.DocumentType)); err != nil {
		return Result{}, fmt.Errorf("error creating index %s: %w", generation, err)
	}
	if err := rs.bulkLoad(ctx, endpoints, generation); err != nil {
		rs.dropGeneration(ctx, generation)
		return Result{}, err
	}

	previous, err := rs.ac.GetAliasIndices(ctx, name)
	if err != nil {
		rs.dropGeneration(ctx, generation)
		return Result{}, fmt.Errorf("error resolving alias %s: %w", name, err)
	}

	actions := make([]map[string]interface{}, 0, len(previous)+2)
	if len(previous) == 0 {
		concrete, err := rs.ac.IndexExists(ctx, name)
		if err != nil {
			rs.dropGeneration(ctx, generation)
			return Result{}, fmt.Errorf("error checking index %s: %w", name, err)
		}
		if concrete {
			actions = append(actions, map[string]interface{}{
				"remove_index": map[string]interface{}{"index": name},
			})
		}
	}
	for _, index := range previous {
		actions = append(actions, map[string]interface{}{
			"remove": map[string]interface{}{"index": index, "alias": name},
		})
	}
	actions = append(actions, map[string]interface{}{
		"add": map[string]interface{}{"index": generation, "alias": name},
	})

	if err := rs.ac.UpdateAliases(ctx, actions); err != nil {
		rs.dropGeneration(ctx, generation)
		return Result{}, fmt.Errorf("error moving alias %s to %s: %w", name, generation, err)
	}

	if len(previous) > 0 {
		if err := rs.ac.DeleteIndex(ctx, previous...); err != nil {
			rs.logger.Warn("Error when deleting previous generations", zap.Strings("indices", previous), zap.Error(err))
		}
	}
	return Result{Index: name, Generation: generation, Documents: len(endpoints)}, nil
}

func (rs *ReindexServiceImpl) bulkLoad(ctx context.Context, endpoints []model.Endpoint, index string) error {
	metaMap, dataMap, err := client.ToMetaAndDataMap(endpoints, index)
	if err != nil {
		return fmt.Errorf("error preparing bulk request: %w", err)
	}
	if err := rs.ac.BulkIndex(ctx, metaMap, dataMap, index); err != nil {
		return fmt.Errorf("error bulk loading %d endpoints into %s: %w", len(endpoints), index, err)
	}
	return nil
}

func (rs *ReindexServiceImpl) dropGeneration(ctx context.Context, generation string) {
	if err := rs.ac.DeleteIndex(ctx, generation); err != nil {
		rs.logger.Warn("Error when deleting abandoned generation", zap.String("index_name", generation), zap.Error(err))
	}
}

func recordError(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}
