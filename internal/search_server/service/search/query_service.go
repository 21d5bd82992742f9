package search

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/Avi18971911/endpoint-search/internal/db/elasticsearch/client"
	esModel "github.com/Avi18971911/endpoint-search/internal/db/elasticsearch/model"
	"github.com/Avi18971911/endpoint-search/internal/search_server/cache"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const DefaultTimeout = 10 * time.Second
const DefaultAutocompleteSize = 10

var tracer = otel.Tracer("github.com/Avi18971911/endpoint-search/internal/search_server/service/search")

type SearchQueryService interface {
	// Search runs the weighted fuzzy query with facet counts and a phrase suggestion.
	Search(ctx context.Context, params SearchParams) (*esModel.SearchResponse, error)
	// Autocomplete returns the names of endpoints whose name starts with term, best match first.
	Autocomplete(ctx context.Context, term string) ([]string, error)
}

type Config struct {
	IndexName        string
	Timeout          time.Duration
	AutocompleteSize int
}

type SearchService struct {
	ac     client.SearchClient
	cache  cache.AutocompleteCache
	config Config
	logger *zap.Logger
}

// NewSearchService creates the service. autocompleteCache may be nil to disable caching.
func NewSearchService(
	ac client.SearchClient,
	autocompleteCache cache.AutocompleteCache,
	config Config,
	logger *zap.Logger,
) *SearchService {
	if config.Timeout <= 0 {
		config.Timeout = DefaultTimeout
	}
	if config.AutocompleteSize <= 0 {
		config.AutocompleteSize = DefaultAutocompleteSize
	}
	return &SearchService{
		ac:     ac,
		cache:  autocompleteCache,
		config: config,
		logger: logger,
	}
}

func (ss *SearchService) Search(
	ctx context.Context,
	params SearchParams,
) (*esModel.SearchResponse, error) {
	ctx, span := tracer.Start(ctx, "search.Search", trace.WithAttributes(
		attribute.String("search.query", params.Query),
		attribute.Bool("search.filtered", params.Filter != nil),
	))
	defer span.End()

	query := getSearchQuery(params)
	queryJson, err := json.Marshal(query)
	if err != nil {
		ss.logger.Error("Error when marshalling query to JSON", zap.Error(err))
		return nil, recordError(span, err)
	}
	queryCtx, cancel := context.WithTimeout(ctx, ss.config.Timeout)
	defer cancel()
	res, err := ss.ac.Search(
		queryCtx,
		string(queryJson),
		[]string{ss.config.IndexName},
		nil,
	)
	if err != nil {
		ss.logger.Error("Error when searching for endpoints", zap.String("query", params.Query), zap.Error(err))
		return nil, recordError(span, err)
	}
	span.SetAttributes(attribute.Int("search.hits", res.Hits.Total.Value))
	return res, nil
}

func (ss *SearchService) Autocomplete(ctx context.Context, term string) ([]string, error) {
	ctx, span := tracer.Start(ctx, "search.Autocomplete", trace.WithAttributes(
		attribute.String("search.term", term),
	))
	defer span.End()

	if strings.TrimSpace(term) == "" {
		return []string{}, nil
	}

	var generation uint64
	if ss.cache != nil {
		generation = ss.cache.Generation()
		names, err := ss.cache.Get(term)
		if err == nil {
			span.SetAttributes(attribute.Bool("search.cache_hit", true))
			return names, nil
		}
		if !errors.Is(err, cache.ErrKeyNotFound) {
			ss.logger.Warn("Error when reading autocomplete cache", zap.Error(err))
		}
	}

	query := getAutocompleteQuery(term)
	queryJson, err := json.Marshal(query)
	if err != nil {
		ss.logger.Error("Error when marshalling autocomplete query to JSON", zap.Error(err))
		return nil, recordError(span, err)
	}
	size := ss.config.AutocompleteSize
	queryCtx, cancel := context.WithTimeout(ctx, ss.config.Timeout)
	defer cancel()
	res, err := ss.ac.Search(
		queryCtx,
		string(queryJson),
		[]string{ss.config.IndexName},
		&size,
	)
	if err != nil {
		ss.logger.Error("Error when autocompleting endpoint names", zap.String("term", term), zap.Error(err))
		return nil, recordError(span, err)
	}

	names, err := projectNames(res)
	if err != nil {
		ss.logger.Error("Error when projecting autocomplete hits", zap.Error(err))
		return nil, recordError(span, err)
	}

	if ss.cache != nil {
		if err := ss.cache.Put(term, names, generation); err != nil {
			ss.logger.Debug("Autocomplete result not cached", zap.String("term", term), zap.Error(err))
		}
	}
	return names, nil
}

func recordError(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}
