package handler

import "html/template"

// SearchViewDTO is the data behind the results view
type SearchViewDTO struct {
	Query string
	// Error holds the failure message instead of results
	Error      string
	Total      int
	Hits       []EndpointDTO
	Facets     []FacetDTO
	Filter     *FilterDTO
	Suggestion *SuggestionDTO
}

// EndpointDTO represents a matched deployment endpoint
// @swagger:model EndpointDTO
type EndpointDTO struct {
	Name     string `json:"name"`
	Platform string `json:"platform,omitempty"`
	Category string `json:"category,omitempty"`
	Dev      string `json:"dev,omitempty"`
	Int      string `json:"int,omitempty"`
	QA       string `json:"qa,omitempty"`
	Prod     string `json:"prod,omitempty"`
}

type FacetDTO struct {
	Name    string
	Buckets []BucketDTO
}

type BucketDTO struct {
	Key   string
	Count int
	// URL refines the current query by this bucket
	URL string
}

type FilterDTO struct {
	Name     string
	Value    string
	ClearURL string
}

type SuggestionDTO struct {
	Text        string
	Highlighted template.HTML
	URL         string
}

// ReprocessResponseDTO represents the outcome of a reindex
// @swagger:model ReprocessResponseDTO
type ReprocessResponseDTO struct {
	Response string `json:"response"`
	// The number of endpoints loaded
	Documents int `json:"documents"`
	// The index name searches use
	Index string `json:"index"`
}

// ResponseMessage carries a failure message on the autocomplete route
// @swagger:model ResponseMessage
type ResponseMessage struct {
	Response string `json:"response"`
}

// HealthDTO represents the reachability of Elasticsearch
// @swagger:model HealthDTO
type HealthDTO struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}
