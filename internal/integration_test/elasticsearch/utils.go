//go:build integration

package elasticsearch

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Avi18971911/endpoint-search/internal/catalog/model"
	"github.com/Avi18971911/endpoint-search/internal/config"
	"github.com/Avi18971911/endpoint-search/internal/search_server/app"
	"github.com/stretchr/testify/require"
)

var catalogFixture = []model.Endpoint{
	{Name: "payments-api", Platform: "aws", Category: "backend", Dev: "payments.dev.example.com", QA: "payments.qa.example.com", Prod: "payments.prod.example.com"},
	{Name: "payments-ui", Platform: "aws", Category: "frontend", Prod: "pay.example.com"},
	{Name: "payroll-worker", Platform: "gcp", Category: "backend", Int: "payroll.int.example.com"},
	{Name: "orders-api", Platform: "aws", Category: "backend", Prod: "orders.prod.example.com"},
}

func writeCatalog(t *testing.T, endpoints []model.Endpoint) string {
	data, err := json.Marshal(endpoints)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "endpoints.json")
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

func newComponents(t *testing.T, indexName, strategy, documentsPath string) *app.Components {
	settings := &config.Settings{
		Server:        config.ServerSettings{Host: "127.0.0.1", Port: 12345},
		Elasticsearch: config.ElasticsearchSettings{URL: esURI},
		Index:         config.IndexSettings{Name: indexName, DocumentType: "endpoint", Strategy: strategy},
		Documents:     config.DocumentsSettings{Path: documentsPath},
		Search:        config.SearchSettings{Timeout: 10 * time.Second, AutocompleteSize: 10},
		Reindex:       config.ReindexSettings{Timeout: time.Minute},
		Cache:         config.CacheSettings{Enabled: true, TTL: time.Minute},
		Log:           config.LogSettings{Level: "info"},
	}
	require.NoError(t, config.ValidateSettings(settings))
	c, err := app.NewComponents(settings, logger)
	require.NoError(t, err)
	t.Cleanup(c.Close)
	return c
}

func getJSON(t *testing.T, h http.Handler, target string, out interface{}) int {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	req.Header.Set("Accept", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if out != nil && rec.Code == http.StatusOK {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out))
	}
	return rec.Code
}
