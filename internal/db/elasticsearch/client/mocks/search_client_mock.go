package mocks

import (
	"context"

	"github.com/Avi18971911/endpoint-search/internal/db/elasticsearch/client"
	"github.com/Avi18971911/endpoint-search/internal/db/elasticsearch/model"
	"github.com/stretchr/testify/mock"
)

// SearchClient is a testify mock of client.SearchClient.
type SearchClient struct {
	mock.Mock
}

var _ client.SearchClient = (*SearchClient)(nil)

func (m *SearchClient) CreateIndex(ctx context.Context, index string, body map[string]interface{}) error {
	args := m.Called(ctx, index, body)
	return args.Error(0)
}

func (m *SearchClient) DeleteIndex(ctx context.Context, indices ...string) error {
	args := m.Called(ctx, indices)
	return args.Error(0)
}

func (m *SearchClient) IndexExists(ctx context.Context, index string) (bool, error) {
	args := m.Called(ctx, index)
	return args.Bool(0), args.Error(1)
}

func (m *SearchClient) BulkIndex(
	ctx context.Context,
	metaInfo []client.MetaMap,
	documentInfo []client.DocumentMap,
	index string,
) error {
	args := m.Called(ctx, metaInfo, documentInfo, index)
	return args.Error(0)
}

func (m *SearchClient) Search(
	ctx context.Context,
	query string,
	indices []string,
	queryResultSize *int,
) (*model.SearchResponse, error) {
	args := m.Called(ctx, query, indices, queryResultSize)
	res, _ := args.Get(0).(*model.SearchResponse)
	return res, args.Error(1)
}

func (m *SearchClient) GetAliasIndices(ctx context.Context, alias string) ([]string, error) {
	args := m.Called(ctx, alias)
	indices, _ := args.Get(0).([]string)
	return indices, args.Error(1)
}

func (m *SearchClient) UpdateAliases(ctx context.Context, actions []map[string]interface{}) error {
	args := m.Called(ctx, actions)
	return args.Error(0)
}

func (m *SearchClient) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
