package catalog

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/Avi18971911/endpoint-search/internal/catalog/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, content string) string {
	path := filepath.Join(t.TempDir(), "endpoints.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestFileSource_Load(t *testing.T) {
	ctx := context.Background()

	t.Run("decodes every endpoint field", func(t *testing.T) {
		path := writeFile(t, `[
			{"name": "payments-api", "platform": "aws", "category": "backend",
			 "dev": "payments.dev.example.com", "int": "payments.int.example.com",
			 "qa": "payments.qa.example.com", "prod": "payments.prod.example.com"}
		]`)

		endpoints, err := NewFileSource(path).Load(ctx)
		require.NoError(t, err)
		assert.Equal(t, []model.Endpoint{
			{
				Name:     "payments-api",
				Platform: "aws",
				Category: "backend",
				Dev:      "payments.dev.example.com",
				Int:      "payments.int.example.com",
				QA:       "payments.qa.example.com",
				Prod:     "payments.prod.example.com",
			},
		}, endpoints)
	})

	t.Run("returns an empty collection for an empty array", func(t *testing.T) {
		endpoints, err := NewFileSource(writeFile(t, `[]`)).Load(ctx)
		require.NoError(t, err)
		assert.NotNil(t, endpoints)
		assert.Empty(t, endpoints)
	})

	t.Run("reads the file again on every call", func(t *testing.T) {
		path := writeFile(t, `[{"name": "a"}]`)
		source := NewFileSource(path)
		first, err := source.Load(ctx)
		require.NoError(t, err)
		require.NoError(t, os.WriteFile(path, []byte(`[{"name": "a"}, {"name": "b"}]`), 0o600))
		second, err := source.Load(ctx)
		require.NoError(t, err)
		assert.Len(t, first, 1)
		assert.Len(t, second, 2)
	})

	t.Run("reports a missing file", func(t *testing.T) {
		_, err := NewFileSource(filepath.Join(t.TempDir(), "missing.json")).Load(ctx)
		assert.ErrorIs(t, err, ErrDocumentSource)
	})

	t.Run("reports malformed JSON", func(t *testing.T) {
		_, err := NewFileSource(writeFile(t, `{"name": "not an array"}`)).Load(ctx)
		assert.ErrorIs(t, err, ErrDocumentSource)
	})
}
