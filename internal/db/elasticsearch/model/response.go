package model

import "encoding/json"

// SearchResponse is the subset of the _search response body the search server renders.
type SearchResponse struct {
	Took         int                         `json:"took"`
	TimedOut     bool                        `json:"timed_out"`
	Shards       Shards                      `json:"_shards"`
	Hits         Hits                        `json:"hits"`
	Aggregations map[string]TermsAggregation `json:"aggregations,omitempty"`
	Suggest      map[string][]SuggestEntry   `json:"suggest,omitempty"`
}

type Hits struct {
	Total    Total    `json:"total"`
	MaxScore *float64 `json:"max_score"`
	Hits     []Hit    `json:"hits"`
}

type Total struct {
	Value    int    `json:"value"`
	Relation string `json:"relation"`
}

type Hit struct {
	Index  string          `json:"_index"`
	ID     string          `json:"_id"`
	Score  *float64        `json:"_score"`
	Source json.RawMessage `json:"_source"`
}
