package reindex

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Avi18971911/endpoint-search/internal/catalog"
	"github.com/Avi18971911/endpoint-search/internal/catalog/model"
	"github.com/Avi18971911/endpoint-search/internal/db/elasticsearch/bootstrapper"
	"github.com/Avi18971911/endpoint-search/internal/db/elasticsearch/client"
	"github.com/Avi18971911/endpoint-search/internal/db/elasticsearch/client/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type staticSource struct {
	endpoints []model.Endpoint
	err       error
}

func (s staticSource) Load(ctx context.Context) ([]model.Endpoint, error) {
	return s.endpoints, s.err
}

type countingCache struct {
	cleared int
}

func (c *countingCache) Get(term string) ([]string, error) { return nil, errors.New("unused") }
func (c *countingCache) Generation() uint64                { return uint64(c.cleared) }
func (c *countingCache) Put(term string, names []string, generation uint64) error {
	return nil
}
func (c *countingCache) Clear() { c.cleared++ }

var payments = model.Endpoint{
	Name:     "payments-api",
	Platform: "aws",
	Category: "backend",
	Prod:     "payments.prod.example.com",
}

func recordCalls(ac *mocks.SearchClient, calls *[]string) {
	for _, call := range ac.ExpectedCalls {
		method := call.Method
		call.Run(func(args mock.Arguments) {
			*calls = append(*calls, method)
		})
	}
}

func TestReprocess_Recreate(t *testing.T) {
	logger := zap.NewNop()
	ctx := context.Background()
	config := Config{IndexName: "deployments", DocumentType: "endpoint", Strategy: Recreate}

	t.Run("deletes, creates and bulk loads in order", func(t *testing.T) {
		ac := &mocks.SearchClient{}
		var calls []string
		expectedMeta, expectedDocs, err := client.ToMetaAndDataMap([]model.Endpoint{payments}, "deployments")
		require.NoError(t, err)
		ac.On("GetAliasIndices", mock.Anything, "deployments").Return([]string{}, nil)
		ac.On("DeleteIndex", mock.Anything, []string{"deployments"}).Return(nil)
		ac.On("CreateIndex", mock.Anything, "deployments", bootstrapper.EndpointIndex("endpoint")).Return(nil)
		ac.On("BulkIndex", mock.Anything, expectedMeta, expectedDocs, "deployments").Return(nil)
		recordCalls(ac, &calls)

		c := &countingCache{}
		rs := NewReindexService(ac, staticSource{endpoints: []model.Endpoint{payments}}, c, config, logger)
		result, err := rs.Reprocess(ctx)
		require.NoError(t, err)
		assert.Equal(t, Result{Index: "deployments", Generation: "deployments", Documents: 1}, result)
		assert.Equal(t, []string{"GetAliasIndices", "DeleteIndex", "CreateIndex", "BulkIndex"}, calls)
		assert.Equal(t, 1, c.cleared)
		ac.AssertExpectations(t)
	})

	t.Run("pairs every document with an action on the index", func(t *testing.T) {
		meta, docs, err := client.ToMetaAndDataMap([]model.Endpoint{payments}, "deployments")
		require.NoError(t, err)
		assert.Equal(t, []client.MetaMap{{"index": map[string]interface{}{"_index": "deployments"}}}, meta)
		assert.Equal(t, client.DocumentMap{
			"name":     "payments-api",
			"platform": "aws",
			"category": "backend",
			"prod":     "payments.prod.example.com",
		}, docs[0])
	})

	t.Run("creates an empty index for an empty collection", func(t *testing.T) {
		ac := &mocks.SearchClient{}
		ac.On("GetAliasIndices", mock.Anything, "deployments").Return([]string{}, nil)
		ac.On("DeleteIndex", mock.Anything, []string{"deployments"}).Return(nil)
		ac.On("CreateIndex", mock.Anything, "deployments", mock.Anything).Return(nil)
		ac.On("BulkIndex", mock.Anything, []client.MetaMap{}, []client.DocumentMap{}, "deployments").Return(nil)

		rs := NewReindexService(ac, staticSource{endpoints: []model.Endpoint{}}, nil, config, logger)
		result, err := rs.Reprocess(ctx)
		require.NoError(t, err)
		assert.Equal(t, 0, result.Documents)
		ac.AssertCalled(t, "CreateIndex", mock.Anything, "deployments", mock.Anything)
	})

	t.Run("does not bulk load into a rejected index", func(t *testing.T) {
		ac := &mocks.SearchClient{}
		ac.On("GetAliasIndices", mock.Anything, "deployments").Return([]string{}, nil)
		ac.On("DeleteIndex", mock.Anything, []string{"deployments"}).Return(nil)
		ac.On("CreateIndex", mock.Anything, "deployments", mock.Anything).
			Return(errors.New("create index deployments error: [400 Bad Request] mapper_parsing_exception"))

		rs := NewReindexService(ac, staticSource{endpoints: []model.Endpoint{payments}}, nil, config, logger)
		_, err := rs.Reprocess(ctx)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "mapper_parsing_exception")
		ac.AssertNotCalled(t, "BulkIndex", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("leaves the index untouched when the source cannot be read", func(t *testing.T) {
		ac := &mocks.SearchClient{}
		c := &countingCache{}
		sourceErr := catalog.ErrDocumentSource
		rs := NewReindexService(ac, staticSource{err: sourceErr}, c, config, logger)
		_, err := rs.Reprocess(ctx)
		assert.ErrorIs(t, err, catalog.ErrDocumentSource)
		assert.Empty(t, ac.Calls)
		assert.Equal(t, 0, c.cleared)
	})

	t.Run("rebuilds the index after the caller goes away", func(t *testing.T) {
		ac := &mocks.SearchClient{}
		callerCtx, cancelCaller := context.WithCancel(context.Background())
		defer cancelCaller()
		var liveCtxErrs []error
		recordCtx := func(args mock.Arguments) {
			liveCtxErrs = append(liveCtxErrs, args.Get(0).(context.Context).Err())
		}
		ac.On("GetAliasIndices", mock.Anything, "deployments").Return([]string{}, nil)
		ac.On("DeleteIndex", mock.Anything, []string{"deployments"}).
			Run(func(args mock.Arguments) { cancelCaller() }).
			Return(nil)
		ac.On("CreateIndex", mock.Anything, "deployments", mock.Anything).Run(recordCtx).Return(nil)
		ac.On("BulkIndex", mock.Anything, mock.Anything, mock.Anything, "deployments").Run(recordCtx).Return(nil)

		rs := NewReindexService(ac, staticSource{endpoints: []model.Endpoint{payments}}, nil, config, logger)
		result, err := rs.Reprocess(callerCtx)
		require.NoError(t, err)
		assert.Equal(t, 1, result.Documents)
		assert.ErrorIs(t, callerCtx.Err(), context.Canceled)
		assert.Equal(t, []error{nil, nil}, liveCtxErrs)
		ac.AssertExpectations(t)
	})

	t.Run("reports a failed bulk write and still clears the cache", func(t *testing.T) {
		ac := &mocks.SearchClient{}
		ac.On("GetAliasIndices", mock.Anything, "deployments").Return([]string{}, nil)
		ac.On("DeleteIndex", mock.Anything, []string{"deployments"}).Return(nil)
		ac.On("CreateIndex", mock.Anything, "deployments", mock.Anything).Return(nil)
		ac.On("BulkIndex", mock.Anything, mock.Anything, mock.Anything, "deployments").
			Return(client.ErrBulkItemsFailed)

		c := &countingCache{}
		rs := NewReindexService(ac, staticSource{endpoints: []model.Endpoint{payments}}, c, config, logger)
		_, err := rs.Reprocess(ctx)
		assert.ErrorIs(t, err, client.ErrBulkItemsFailed)
		assert.Equal(t, 1, c.cleared)
	})

	t.Run("removes alias generations left behind by the alias strategy", func(t *testing.T) {
		ac := &mocks.SearchClient{}
		var calls []string
		ac.On("GetAliasIndices", mock.Anything, "deployments").Return([]string{"deployments-1"}, nil)
		ac.On("DeleteIndex", mock.Anything, []string{"deployments-1"}).Return(nil)
		ac.On("DeleteIndex", mock.Anything, []string{"deployments"}).Return(nil)
		ac.On("CreateIndex", mock.Anything, "deployments", mock.Anything).Return(nil)
		ac.On("BulkIndex", mock.Anything, mock.Anything, mock.Anything, "deployments").Return(nil)
		recordCalls(ac, &calls)

		rs := NewReindexService(ac, staticSource{endpoints: []model.Endpoint{payments}}, nil, config, logger)
		_, err := rs.Reprocess(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"GetAliasIndices", "DeleteIndex", "DeleteIndex", "CreateIndex", "BulkIndex"}, calls)
		ac.AssertExpectations(t)
	})
}

func TestReprocess_Alias(t *testing.T) {
	logger := zap.NewNop()
	ctx := context.Background()
	config := Config{IndexName: "deployments", DocumentType: "endpoint", Strategy: Alias}
	fixedNow := func() time.Time { return time.Unix(0, 42) }

	newService := func(ac *mocks.SearchClient) *ReindexServiceImpl {
		rs := NewReindexService(ac, staticSource{endpoints: []model.Endpoint{payments}}, nil, config, logger)
		rs.now = fixedNow
		return rs
	}

	t.Run("swaps the alias to the new generation and drops the old one", func(t *testing.T) {
		ac := &mocks.SearchClient{}
		var calls []string
		ac.On("CreateIndex", mock.Anything, "deployments-42", bootstrapper.EndpointIndex("endpoint")).Return(nil)
		ac.On("BulkIndex", mock.Anything, mock.Anything, mock.Anything, "deployments-42").Return(nil)
		ac.On("GetAliasIndices", mock.Anything, "deployments").Return([]string{"deployments-7"}, nil)
		ac.On("UpdateAliases", mock.Anything, []map[string]interface{}{
			{"remove": map[string]interface{}{"index": "deployments-7", "alias": "deployments"}},
			{"add": map[string]interface{}{"index": "deployments-42", "alias": "deployments"}},
		}).Return(nil)
		ac.On("DeleteIndex", mock.Anything, []string{"deployments-7"}).Return(nil)
		recordCalls(ac, &calls)

		result, err := newService(ac).Reprocess(ctx)
		require.NoError(t, err)
		assert.Equal(t, Result{Index: "deployments", Generation: "deployments-42", Documents: 1}, result)
		assert.Equal(t, []string{"CreateIndex", "BulkIndex", "GetAliasIndices", "UpdateAliases", "DeleteIndex"}, calls)
		ac.AssertExpectations(t)
	})

	t.Run("replaces a concrete index holding the name in the same alias update", func(t *testing.T) {
		ac := &mocks.SearchClient{}
		ac.On("CreateIndex", mock.Anything, "deployments-42", mock.Anything).Return(nil)
		ac.On("BulkIndex", mock.Anything, mock.Anything, mock.Anything, "deployments-42").Return(nil)
		ac.On("GetAliasIndices", mock.Anything, "deployments").Return([]string{}, nil)
		ac.On("IndexExists", mock.Anything, "deployments").Return(true, nil)
		ac.On("UpdateAliases", mock.Anything, []map[string]interface{}{
			{"remove_index": map[string]interface{}{"index": "deployments"}},
			{"add": map[string]interface{}{"index": "deployments-42", "alias": "deployments"}},
		}).Return(nil)

		_, err := newService(ac).Reprocess(ctx)
		require.NoError(t, err)
		ac.AssertExpectations(t)
		ac.AssertNotCalled(t, "DeleteIndex", mock.Anything, mock.Anything)
	})

	t.Run("drops the new generation when the bulk write fails", func(t *testing.T) {
		ac := &mocks.SearchClient{}
		ac.On("CreateIndex", mock.Anything, "deployments-42", mock.Anything).Return(nil)
		ac.On("BulkIndex", mock.Anything, mock.Anything, mock.Anything, "deployments-42").
			Return(client.ErrBulkItemsFailed)
		ac.On("DeleteIndex", mock.Anything, []string{"deployments-42"}).Return(nil)

		_, err := newService(ac).Reprocess(ctx)
		assert.ErrorIs(t, err, client.ErrBulkItemsFailed)
		ac.AssertExpectations(t)
		ac.AssertNotCalled(t, "UpdateAliases", mock.Anything, mock.Anything)
	})

	t.Run("keeps serving the old generation when the alias update fails", func(t *testing.T) {
		ac := &mocks.SearchClient{}
		ac.On("CreateIndex", mock.Anything, "deployments-42", mock.Anything).Return(nil)
		ac.On("BulkIndex", mock.Anything, mock.Anything, mock.Anything, "deployments-42").Return(nil)
		ac.On("GetAliasIndices", mock.Anything, "deployments").Return([]string{"deployments-7"}, nil)
		ac.On("UpdateAliases", mock.Anything, mock.Anything).Return(errors.New("update aliases error"))
		ac.On("DeleteIndex", mock.Anything, []string{"deployments-42"}).Return(nil)

		_, err := newService(ac).Reprocess(ctx)
		require.Error(t, err)
		ac.AssertExpectations(t)
		ac.AssertNotCalled(t, "DeleteIndex", mock.Anything, []string{"deployments-7"})
	})
}

func TestReprocess_UnknownStrategy(t *testing.T) {
	ac := &mocks.SearchClient{}
	config := Config{IndexName: "deployments", Strategy: Strategy("blue-green")}
	rs := NewReindexService(ac, staticSource{endpoints: []model.Endpoint{}}, nil, config, zap.NewNop())
	_, err := rs.Reprocess(context.Background())
	require.Error(t, err)
	assert.Empty(t, ac.Calls)
}
