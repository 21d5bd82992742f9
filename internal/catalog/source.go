package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/Avi18971911/endpoint-search/internal/catalog/model"
)

var ErrDocumentSource = errors.New("endpoint document source unavailable")

// Source supplies the full endpoint collection for a reindex.
type Source interface {
	Load(ctx context.Context) ([]model.Endpoint, error)
}

// FileSource reads a JSON array of endpoints from disk on every Load.
type FileSource struct {
	path string
}

func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

func (fs *FileSource) Load(ctx context.Context) ([]model.Endpoint, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(fs.path)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read %s: %v", ErrDocumentSource, fs.path, err)
	}

	var endpoints []model.Endpoint
	if err := json.Unmarshal(data, &endpoints); err != nil {
		return nil, fmt.Errorf("%w: failed to decode %s: %v", ErrDocumentSource, fs.path, err)
	}
	if endpoints == nil {
		endpoints = []model.Endpoint{}
	}
	return endpoints, nil
}
