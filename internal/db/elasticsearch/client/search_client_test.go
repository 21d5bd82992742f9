package client

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedRequest struct {
	method string
	path   string
	body   string
}

type fakeElasticsearch struct {
	mu       sync.Mutex
	requests []recordedRequest
	status   int
	response string
}

func (f *fakeElasticsearch) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	f.mu.Lock()
	f.requests = append(f.requests, recordedRequest{method: r.Method, path: r.URL.Path, body: string(body)})
	f.mu.Unlock()

	w.Header().Set("X-Elastic-Product", "Elasticsearch")
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(f.status)
	_, _ = w.Write([]byte(f.response))
}

func (f *fakeElasticsearch) recorded() []recordedRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]recordedRequest(nil), f.requests...)
}

func newTestClient(t *testing.T, status int, response string) (*SearchClientImpl, *fakeElasticsearch) {
	fake := &fakeElasticsearch{status: status, response: response}
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)
	es, err := NewElasticsearch(srv.URL, "", "")
	require.NoError(t, err)
	return NewSearchClientImpl(es, Immediate), fake
}

func TestBulkIndex(t *testing.T) {
	t.Run("writes one action line before every document", func(t *testing.T) {
		ac, fake := newTestClient(t, http.StatusOK, `{"took":1,"errors":false,"items":[]}`)
		docs := []map[string]string{
			{"name": "payments-api", "prod": "payments.prod.example.com"},
			{"name": "orders-api"},
		}
		meta, data, err := ToMetaAndDataMap(docs, "deployments")
		require.NoError(t, err)

		err = ac.BulkIndex(context.Background(), meta, data, "deployments")
		require.NoError(t, err)

		require.Len(t, fake.recorded(), 1)
		assert.Equal(t, "/deployments/_bulk", fake.recorded()[0].path)
		lines := strings.Split(strings.TrimSuffix(fake.recorded()[0].body, "\n"), "\n")
		require.Len(t, lines, 4)
		assert.JSONEq(t, `{"index":{"_index":"deployments"}}`, lines[0])
		assert.JSONEq(t, `{"name":"payments-api","prod":"payments.prod.example.com"}`, lines[1])
		assert.JSONEq(t, `{"index":{"_index":"deployments"}}`, lines[2])
		assert.JSONEq(t, `{"name":"orders-api"}`, lines[3])
	})

	t.Run("skips the request when there are no documents", func(t *testing.T) {
		ac, fake := newTestClient(t, http.StatusOK, `{}`)
		err := ac.BulkIndex(context.Background(), nil, nil, "deployments")
		assert.NoError(t, err)
		assert.Empty(t, fake.recorded())
	})

	t.Run("surfaces item level failures", func(t *testing.T) {
		ac, _ := newTestClient(t, http.StatusOK, `{
			"took": 3,
			"errors": true,
			"items": [
				{"index": {"_index": "deployments", "status": 201}},
				{"index": {"_index": "deployments", "status": 400,
					"error": {"type": "mapper_parsing_exception", "reason": "failed to parse field [prod]"}}}
			]
		}`)
		meta, data, err := ToMetaAndDataMap([]map[string]string{{"name": "a"}, {"name": "b"}}, "deployments")
		require.NoError(t, err)

		err = ac.BulkIndex(context.Background(), meta, data, "deployments")
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrBulkItemsFailed)
		assert.Contains(t, err.Error(), "1 of 2 items")
		assert.Contains(t, err.Error(), "failed to parse field [prod]")
	})
}

func TestToMetaAndDataMap(t *testing.T) {
	meta, data, err := ToMetaAndDataMap([]map[string]string{{"_id": "7", "name": "a"}}, "deployments")
	require.NoError(t, err)
	assert.Equal(t, []MetaMap{{"index": map[string]interface{}{"_index": "deployments"}}}, meta)
	assert.Equal(t, []DocumentMap{{"_id": "7", "name": "a"}}, data)
}

func TestDeleteIndex(t *testing.T) {
	t.Run("treats a missing index as deleted", func(t *testing.T) {
		ac, fake := newTestClient(t, http.StatusNotFound, `{"error":{"type":"index_not_found_exception"},"status":404}`)
		err := ac.DeleteIndex(context.Background(), "deployments")
		assert.NoError(t, err)
		require.Len(t, fake.recorded(), 1)
		assert.Equal(t, http.MethodDelete, fake.recorded()[0].method)
		assert.Equal(t, "/deployments", fake.recorded()[0].path)
	})

	t.Run("returns other failures", func(t *testing.T) {
		ac, _ := newTestClient(t, http.StatusForbidden, `{"error":{"type":"security_exception"},"status":403}`)
		err := ac.DeleteIndex(context.Background(), "deployments")
		assert.Error(t, err)
	})
}

func TestCreateIndex(t *testing.T) {
	t.Run("sends the index body", func(t *testing.T) {
		ac, fake := newTestClient(t, http.StatusOK, `{"acknowledged":true}`)
		err := ac.CreateIndex(context.Background(), "deployments", map[string]interface{}{
			"mappings": map[string]interface{}{"properties": map[string]interface{}{}},
		})
		require.NoError(t, err)
		require.Len(t, fake.recorded(), 1)
		assert.Equal(t, http.MethodPut, fake.recorded()[0].method)
		assert.JSONEq(t, `{"mappings":{"properties":{}}}`, fake.recorded()[0].body)
	})

	t.Run("surfaces a rejected mapping", func(t *testing.T) {
		ac, _ := newTestClient(t, http.StatusBadRequest, `{"error":{"type":"mapper_parsing_exception","reason":"unknown type [string]"},"status":400}`)
		err := ac.CreateIndex(context.Background(), "deployments", map[string]interface{}{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown type [string]")
	})
}

func TestSearch(t *testing.T) {
	t.Run("decodes hits aggregations and suggestions", func(t *testing.T) {
		ac, fake := newTestClient(t, http.StatusOK, `{
			"took": 2,
			"timed_out": false,
			"hits": {"total": {"value": 1, "relation": "eq"}, "max_score": 1.5,
				"hits": [{"_index": "deployments", "_id": "1", "_score": 1.5, "_source": {"name": "payments-api"}}]},
			"aggregations": {"category": {"buckets": [{"key": "backend", "doc_count": 1}]}},
			"suggest": {"simple_phrase": [{"text": "paymnts", "offset": 0, "length": 7,
				"options": [{"text": "payments", "highlighted": "<b><em>payments</em></b>", "score": 0.4}]}]}
		}`)

		res, err := ac.Search(context.Background(), `{"query":{"match_all":{}}}`, []string{"deployments"}, nil)
		require.NoError(t, err)
		require.Len(t, res.Hits.Hits, 1)
		assert.Equal(t, 1, res.Hits.Total.Value)
		assert.JSONEq(t, `{"name":"payments-api"}`, string(res.Hits.Hits[0].Source))
		assert.Equal(t, "backend", res.Aggregations["category"].Buckets[0].Key)
		assert.Equal(t, "<b><em>payments</em></b>", res.Suggest["simple_phrase"][0].Options[0].Highlighted)

		require.Len(t, fake.recorded(), 1)
		assert.Equal(t, "/deployments/_search", fake.recorded()[0].path)
	})

	t.Run("returns the server message on failure", func(t *testing.T) {
		ac, _ := newTestClient(t, http.StatusBadRequest, `{"error":{"type":"parsing_exception","reason":"unknown query [filtered]"},"status":400}`)
		_, err := ac.Search(context.Background(), `{}`, []string{"deployments"}, nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown query [filtered]")
	})
}

func TestGetAliasIndices(t *testing.T) {
	t.Run("returns no indices for a missing alias", func(t *testing.T) {
		ac, _ := newTestClient(t, http.StatusNotFound, `{"error":"alias [deployments] missing","status":404}`)
		indices, err := ac.GetAliasIndices(context.Background(), "deployments")
		require.NoError(t, err)
		assert.Empty(t, indices)
	})

	t.Run("returns the indices behind the alias in order", func(t *testing.T) {
		ac, _ := newTestClient(t, http.StatusOK, `{
			"deployments-2": {"aliases": {"deployments": {}}},
			"deployments-1": {"aliases": {"deployments": {}}}
		}`)
		indices, err := ac.GetAliasIndices(context.Background(), "deployments")
		require.NoError(t, err)
		assert.Equal(t, []string{"deployments-1", "deployments-2"}, indices)
	})
}

func TestUpdateAliases(t *testing.T) {
	ac, fake := newTestClient(t, http.StatusOK, `{"acknowledged":true}`)
	err := ac.UpdateAliases(context.Background(), []map[string]interface{}{
		{"add": map[string]interface{}{"index": "deployments-2", "alias": "deployments"}},
	})
	require.NoError(t, err)
	require.Len(t, fake.recorded(), 1)
	assert.Equal(t, "/_aliases", fake.recorded()[0].path)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(fake.recorded()[0].body), &body))
	assert.Len(t, body["actions"], 1)
}
