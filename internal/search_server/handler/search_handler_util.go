package handler

import (
	"html/template"
	"net/url"
	"strings"

	"github.com/Avi18971911/endpoint-search/internal/catalog/model"
	esModel "github.com/Avi18971911/endpoint-search/internal/db/elasticsearch/model"
	"github.com/Avi18971911/endpoint-search/internal/search_server/service/search"
)

func searchResponseToView(params search.SearchParams, res *esModel.SearchResponse) (SearchViewDTO, error) {
	endpoints, err := search.ProjectEndpoints(res)
	if err != nil {
		return SearchViewDTO{}, err
	}
	view := SearchViewDTO{
		Query:      params.Query,
		Total:      res.Hits.Total.Value,
		Hits:       endpointsToDTO(endpoints),
		Facets:     aggregationsToFacetDTO(params.Query, res.Aggregations),
		Suggestion: suggestionToDTO(res.Suggest),
	}
	if params.Filter != nil {
		view.Filter = &FilterDTO{
			Name:     params.Filter.Facet.Name,
			Value:    params.Filter.Value,
			ClearURL: searchURL(params.Query, "", ""),
		}
	}
	return view, nil
}

func endpointsToDTO(input []model.Endpoint) []EndpointDTO {
	endpoints := make([]EndpointDTO, len(input))
	for i, endpoint := range input {
		endpoints[i] = EndpointDTO{
			Name:     endpoint.Name,
			Platform: endpoint.Platform,
			Category: endpoint.Category,
			Dev:      endpoint.Dev,
			Int:      endpoint.Int,
			QA:       endpoint.QA,
			Prod:     endpoint.Prod,
		}
	}
	return endpoints
}

func aggregationsToFacetDTO(query string, aggregations map[string]esModel.TermsAggregation) []FacetDTO {
	facets := make([]FacetDTO, 0, len(search.Facets))
	for _, facet := range search.Facets {
		aggregation, ok := aggregations[facet.Name]
		if !ok {
			continue
		}
		buckets := make([]BucketDTO, len(aggregation.Buckets))
		for i, bucket := range aggregation.Buckets {
			buckets[i] = BucketDTO{
				Key:   bucket.Key,
				Count: bucket.DocCount,
				URL:   searchURL(query, facet.Name, bucket.Key),
			}
		}
		facets = append(facets, FacetDTO{Name: facet.Name, Buckets: buckets})
	}
	return facets
}

func suggestionToDTO(suggest map[string][]esModel.SuggestEntry) *SuggestionDTO {
	for _, entry := range suggest[search.PhraseSuggestionName] {
		if len(entry.Options) == 0 {
			continue
		}
		option := entry.Options[0]
		highlighted := option.Highlighted
		if highlighted == "" {
			highlighted = option.Text
		}
		return &SuggestionDTO{
			Text:        option.Text,
			Highlighted: highlight(highlighted),
			URL:         searchURL(option.Text, "", ""),
		}
	}
	return nil
}

// highlight escapes the suggestion and then restores only the highlight tags.
func highlight(s string) template.HTML {
	escaped := template.HTMLEscapeString(s)
	escaped = strings.ReplaceAll(escaped, template.HTMLEscapeString(search.HighlightPreTag), search.HighlightPreTag)
	escaped = strings.ReplaceAll(escaped, template.HTMLEscapeString(search.HighlightPostTag), search.HighlightPostTag)
	return template.HTML(escaped)
}

func searchURL(query, aggField, aggValue string) string {
	values := url.Values{}
	if query != "" {
		values.Set("q", query)
	}
	if aggField != "" {
		values.Set("agg_field", aggField)
		values.Set("agg_value", aggValue)
	}
	if len(values) == 0 {
		return "/"
	}
	return "/?" + values.Encode()
}
