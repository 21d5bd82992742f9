package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/Avi18971911/endpoint-search/internal/db/elasticsearch/model"
	"github.com/elastic/go-elasticsearch/v8/esapi"
)

func (a *SearchClientImpl) CreateIndex(
	ctx context.Context,
	index string,
	body map[string]interface{},
) error {
	bodyJSON, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("error marshaling index body: %w", err)
	}

	res, err := a.es.Indices.Create(
		index,
		a.es.Indices.Create.WithBody(bytes.NewReader(bodyJSON)),
		a.es.Indices.Create.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("failed to create index %s: %w", index, err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("create index %s error: %s", index, res.String())
	}
	return nil
}

func (a *SearchClientImpl) DeleteIndex(ctx context.Context, indices ...string) error {
	if len(indices) == 0 {
		return nil
	}
	res, err := a.es.Indices.Delete(
		indices,
		a.es.Indices.Delete.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("failed to delete index %s: %w", strings.Join(indices, ","), err)
	}
	defer res.Body.Close()
	if res.StatusCode == http.StatusNotFound {
		return nil
	}
	if res.IsError() {
		return fmt.Errorf("delete index %s error: %s", strings.Join(indices, ","), res.String())
	}
	return nil
}

func (a *SearchClientImpl) BulkIndex(
	ctx context.Context,
	metaInfo []MetaMap,
	documentInfo []DocumentMap,
	index string,
) error {
	if len(documentInfo) == 0 {
		return nil
	}
	var buf bytes.Buffer
	for i, d := range documentInfo {
		var meta MetaMap
		if metaInfo != nil && i < len(metaInfo) {
			meta = metaInfo[i]
		} else {
			// empty meta for bulk index
			meta = MetaMap{"index": map[string]interface{}{}}
		}
		metaJSON, err := json.Marshal(meta)
		if err != nil {
			return fmt.Errorf("error marshaling meta to bulk index: %w", err)
		}
		buf.Write(metaJSON)
		buf.WriteByte('\n')

		dataJSON, err := json.Marshal(d)
		if err != nil {
			return fmt.Errorf("error marshaling data to bulk index: %w", err)
		}
		buf.Write(dataJSON)
		buf.WriteByte('\n')
	}
	var res *esapi.Response
	var err error
	if len(index) > 0 {
		res, err = a.es.Bulk(
			bytes.NewReader(buf.Bytes()),
			a.es.Bulk.WithIndex(index),
			a.es.Bulk.WithContext(ctx),
			a.es.Bulk.WithRefresh(a.refreshRate),
		)
	} else {
		res, err = a.es.Bulk(
			bytes.NewReader(buf.Bytes()),
			a.es.Bulk.WithContext(ctx),
			a.es.Bulk.WithRefresh(a.refreshRate),
		)
	}
	if err != nil {
		return fmt.Errorf("error bulk indexing: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("bulk index error: %s", res.String())
	}

	var bulkResponse model.BulkResponse
	if err := json.NewDecoder(res.Body).Decode(&bulkResponse); err != nil {
		return fmt.Errorf("failed to decode bulk response: %w", err)
	}
	return checkBulkItems(bulkResponse)
}

func (a *SearchClientImpl) UpdateAliases(ctx context.Context, actions []map[string]interface{}) error {
	body, err := json.Marshal(map[string]interface{}{"actions": actions})
	if err != nil {
		return fmt.Errorf("error marshaling alias actions: %w", err)
	}

	res, err := a.es.Indices.UpdateAliases(
		bytes.NewReader(body),
		a.es.Indices.UpdateAliases.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("failed to update aliases: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("update aliases error: %s", res.String())
	}
	return nil
}
