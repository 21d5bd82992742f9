package model

// BulkResponse is returned by _bulk. Errors is true when at least one item failed.
type BulkResponse struct {
	Took   int                           `json:"took"`
	Errors bool                          `json:"errors"`
	Items  []map[string]BulkItemResponse `json:"items"`
}

type BulkItemResponse struct {
	Index  string      `json:"_index"`
	ID     string      `json:"_id"`
	Status int         `json:"status"`
	Error  *ErrorCause `json:"error,omitempty"`
}

type ErrorCause struct {
	Type   string `json:"type"` // e.g. mapper_parsing_exception
	Reason string `json:"reason"`
}
