package client

import (
	"context"
	"errors"
	"fmt"

	"github.com/Avi18971911/endpoint-search/internal/db/elasticsearch/model"
	"github.com/elastic/go-elasticsearch/v8"
)

const SearchResultSize = 10

type RefreshRate string

const (
	// Wait for the changes made by the request to be made visible by a refresh before replying.
	Wait RefreshRate = "wait_for"
	// Immediate Refresh the relevant primary and replica shards (not the whole index) immediately after the operation occurs.
	Immediate RefreshRate = "true"
	// Async Take no refresh related actions. The changes made by this request will be made visible at some point after the request returns.
	Async RefreshRate = "false"
)

var ErrBulkItemsFailed = errors.New("one or more bulk items failed")

type SearchClient interface {
	// CreateIndex creates an index from a settings and mappings body
	// https://www.elastic.co/guide/en/elasticsearch/reference/current/indices-create-index.html
	CreateIndex(ctx context.Context, index string, body map[string]interface{}) error
	// DeleteIndex deletes the given indices. Indices that do not exist are ignored.
	// https://www.elastic.co/guide/en/elasticsearch/reference/current/indices-delete-index.html
	DeleteIndex(ctx context.Context, indices ...string) error
	// IndexExists reports whether a concrete index or alias with the given name exists
	IndexExists(ctx context.Context, index string) (bool, error)
	// BulkIndex indexes (inserts) multiple documents in a single request
	// https://www.elastic.co/guide/en/elasticsearch/reference/current/docs-bulk.html
	BulkIndex(ctx context.Context, metaInfo []MetaMap, documentInfo []DocumentMap, index string) error
	// Search runs a query DSL body against the indices and decodes hits, aggregations and suggestions
	// https://www.elastic.co/guide/en/elasticsearch/reference/current/search-search.html
	// queryResultSize is the number of hits to return, nil for SearchResultSize
	Search(ctx context.Context, query string, indices []string, queryResultSize *int) (*model.SearchResponse, error)
	// GetAliasIndices returns the concrete indices an alias points to, empty if the alias does not exist
	// https://www.elastic.co/guide/en/elasticsearch/reference/current/indices-get-alias.html
	GetAliasIndices(ctx context.Context, alias string) ([]string, error)
	// UpdateAliases applies alias add/remove actions atomically
	// https://www.elastic.co/guide/en/elasticsearch/reference/current/indices-aliases.html
	UpdateAliases(ctx context.Context, actions []map[string]interface{}) error
	// Ping checks that the cluster answers
	Ping(ctx context.Context) error
}

type SearchClientImpl struct {
	es          *elasticsearch.Client
	refreshRate string
}

func NewSearchClientImpl(es *elasticsearch.Client, refreshRate RefreshRate) *SearchClientImpl {
	return &SearchClientImpl{es: es, refreshRate: string(refreshRate)}
}

// NewElasticsearch creates the low level client for a single node address.
func NewElasticsearch(address, username, password string) (*elasticsearch.Client, error) {
	es, err := elasticsearch.NewClient(
		elasticsearch.Config{
			Addresses: []string{address},
			Username:  username,
			Password:  password,
		},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create elasticsearch client: %w", err)
	}
	return es, nil
}
