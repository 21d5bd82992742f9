package search

import (
	"errors"
	"fmt"

	"github.com/Avi18971911/endpoint-search/internal/db/elasticsearch/bootstrapper"
)

var ErrUnknownFacet = errors.New("unknown facet")

// Facet is a field offered for "refine by" counts and exact filtering.
type Facet struct {
	Name       string
	ExactField string
}

// Facets lists the aggregated fields in display order.
var Facets = []Facet{
	{Name: "category", ExactField: "category." + bootstrapper.RawSubField},
	{Name: "dev", ExactField: "dev." + bootstrapper.RawSubField},
	{Name: "int", ExactField: "int." + bootstrapper.RawSubField},
	{Name: "qa", ExactField: "qa." + bootstrapper.RawSubField},
	{Name: "prod", ExactField: "prod"},
}

func LookupFacet(name string) (Facet, bool) {
	for _, facet := range Facets {
		if facet.Name == name {
			return facet, true
		}
	}
	return Facet{}, false
}

// FacetFilter restricts results to documents whose exact facet field equals Value.
type FacetFilter struct {
	Facet Facet
	Value string
}

type SearchParams struct {
	Query string
	// Filter is nil when no facet filter applies.
	Filter *FacetFilter
}

// NewSearchParams builds search parameters from raw request values. The filter
// is only set when both facet name and value are given.
func NewSearchParams(query, aggField, aggValue string) (SearchParams, error) {
	params := SearchParams{Query: query}
	if aggField == "" || aggValue == "" {
		return params, nil
	}
	facet, ok := LookupFacet(aggField)
	if !ok {
		return SearchParams{}, fmt.Errorf("%w: %q", ErrUnknownFacet, aggField)
	}
	params.Filter = &FacetFilter{Facet: facet, Value: aggValue}
	return params, nil
}
