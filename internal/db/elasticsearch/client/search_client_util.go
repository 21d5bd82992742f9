package client

import (
	"encoding/json"
	"fmt"

	"github.com/Avi18971911/endpoint-search/internal/db/elasticsearch/model"
)

type MetaMap map[string]interface{}
type DocumentMap map[string]interface{}

// ToMetaAndDataMap pairs every value with an index action descriptor targeting index.
// Document IDs are left to Elasticsearch.
func ToMetaAndDataMap[T any](values []T, index string) ([]MetaMap, []DocumentMap, error) {
	dataMap := make([]DocumentMap, len(values))
	metaMap := make([]MetaMap, len(values))
	for i, v := range values {
		data, err := json.Marshal(v)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to marshal value to JSON: %w", err)
		}
		var mapStruct map[string]interface{}
		if err := json.Unmarshal(data, &mapStruct); err != nil {
			return nil, nil, fmt.Errorf("failed to unmarshal JSON to map: %w", err)
		}

		metaMap[i] = MetaMap{"index": map[string]interface{}{"_index": index}}
		dataMap[i] = mapStruct
	}
	return metaMap, dataMap, nil
}

func checkBulkItems(res model.BulkResponse) error {
	if !res.Errors {
		return nil
	}
	failed := 0
	var first *model.ErrorCause
	for _, item := range res.Items {
		for _, result := range item {
			if result.Error == nil {
				continue
			}
			failed++
			if first == nil {
				first = result.Error
			}
		}
	}
	if first == nil {
		return fmt.Errorf("%w: no item details returned", ErrBulkItemsFailed)
	}
	return fmt.Errorf("%w: %d of %d items, first: %s: %s", ErrBulkItemsFailed, failed, len(res.Items), first.Type, first.Reason)
}
