package search

import (
	"encoding/json"
	"fmt"

	"github.com/Avi18971911/endpoint-search/internal/catalog/model"
	esModel "github.com/Avi18971911/endpoint-search/internal/db/elasticsearch/model"
)

// projectNames keeps the name of every hit in relevance order. Hits without a
// name are skipped.
func projectNames(res *esModel.SearchResponse) ([]string, error) {
	names := make([]string, 0, len(res.Hits.Hits))
	for _, hit := range res.Hits.Hits {
		if len(hit.Source) == 0 {
			continue
		}
		var endpoint model.Endpoint
		if err := json.Unmarshal(hit.Source, &endpoint); err != nil {
			return nil, fmt.Errorf("failed to decode hit %s: %w", hit.ID, err)
		}
		if endpoint.Name == "" {
			continue
		}
		names = append(names, endpoint.Name)
	}
	return names, nil
}

// ProjectEndpoints decodes the source of every hit in relevance order. Hits
// without a source are skipped.
func ProjectEndpoints(res *esModel.SearchResponse) ([]model.Endpoint, error) {
	endpoints := make([]model.Endpoint, 0, len(res.Hits.Hits))
	for _, hit := range res.Hits.Hits {
		if len(hit.Source) == 0 {
			continue
		}
		var endpoint model.Endpoint
		if err := json.Unmarshal(hit.Source, &endpoint); err != nil {
			return nil, fmt.Errorf("failed to decode hit %s: %w", hit.ID, err)
		}
		endpoints = append(endpoints, endpoint)
	}
	return endpoints, nil
}
