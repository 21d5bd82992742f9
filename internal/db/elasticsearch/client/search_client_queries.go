package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/Avi18971911/endpoint-search/internal/db/elasticsearch/model"
)

func (a *SearchClientImpl) Search(
	ctx context.Context,
	query string,
	indices []string,
	queryResultSize *int,
) (*model.SearchResponse, error) {
	res, err := a.es.Search(
		a.es.Search.WithContext(ctx),
		a.es.Search.WithIndex(indices...),
		a.es.Search.WithBody(strings.NewReader(query)),
		a.es.Search.WithSize(getQuerySize(queryResultSize)),
	)

	if err != nil {
		return nil, fmt.Errorf("failed to execute query: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("failed to execute query: %s", res.String())
	}

	var esResponse model.SearchResponse
	if err := json.NewDecoder(res.Body).Decode(&esResponse); err != nil {
		return nil, fmt.Errorf("failed to decode response body: %w", err)
	}
	return &esResponse, nil
}

func (a *SearchClientImpl) IndexExists(ctx context.Context, index string) (bool, error) {
	res, err := a.es.Indices.Exists(
		[]string{index},
		a.es.Indices.Exists.WithContext(ctx),
	)
	if err != nil {
		return false, fmt.Errorf("failed to check index %s: %w", index, err)
	}
	defer res.Body.Close()

	switch res.StatusCode {
	case http.StatusOK:
		return true, nil
	case http.StatusNotFound:
		return false, nil
	default:
		return false, fmt.Errorf("index exists %s error: %s", index, res.String())
	}
}

func (a *SearchClientImpl) GetAliasIndices(ctx context.Context, alias string) ([]string, error) {
	res, err := a.es.Indices.GetAlias(
		a.es.Indices.GetAlias.WithName(alias),
		a.es.Indices.GetAlias.WithContext(ctx),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get alias %s: %w", alias, err)
	}
	defer res.Body.Close()
	if res.StatusCode == http.StatusNotFound {
		return []string{}, nil
	}
	if res.IsError() {
		return nil, fmt.Errorf("get alias %s error: %s", alias, res.String())
	}

	var aliasResponse map[string]interface{}
	if err := json.NewDecoder(res.Body).Decode(&aliasResponse); err != nil {
		return nil, fmt.Errorf("failed to decode alias response: %w", err)
	}
	indices := make([]string, 0, len(aliasResponse))
	for index := range aliasResponse {
		indices = append(indices, index)
	}
	sort.Strings(indices)
	return indices, nil
}

func (a *SearchClientImpl) Ping(ctx context.Context) error {
	res, err := a.es.Ping(a.es.Ping.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("failed to ping elasticsearch: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("ping error: %s", res.String())
	}
	return nil
}

func getQuerySize(querySize *int) int {
	if querySize == nil {
		return SearchResultSize
	} else {
		return *querySize
	}
}
