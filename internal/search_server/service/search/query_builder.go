package search

import "github.com/Avi18971911/endpoint-search/internal/db/elasticsearch/bootstrapper"

const PhraseSuggestionName = "simple_phrase"

const (
	HighlightPreTag  = "<b><em>"
	HighlightPostTag = "</em></b>"
)

// weightedFields are the boosted fields of the main search, name highest.
var weightedFields = []string{"name^100", "platform^20", "category^5", "dev^3", "int^10", "qa^50"}

var autocompleteFields = []string{"name." + bootstrapper.AutocompleteSubField}

func getSearchQuery(params SearchParams) map[string]interface{} {
	var mustClause map[string]interface{}
	if params.Query == "" {
		mustClause = map[string]interface{}{
			"match_all": map[string]interface{}{},
		}
	} else {
		mustClause = map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":     params.Query,
				"fields":    weightedFields,
				"fuzziness": 1,
			},
		}
	}

	boolQuery := map[string]interface{}{
		"must": []map[string]interface{}{mustClause},
	}
	if params.Filter != nil {
		boolQuery["filter"] = []map[string]interface{}{
			{
				"term": map[string]interface{}{
					params.Filter.Facet.ExactField: params.Filter.Value,
				},
			},
		}
	}

	aggs := make(map[string]interface{}, len(Facets))
	for _, facet := range Facets {
		aggs[facet.Name] = map[string]interface{}{
			"terms": map[string]interface{}{
				"field": facet.ExactField,
			},
		}
	}

	query := map[string]interface{}{
		"query": map[string]interface{}{
			"bool": boolQuery,
		},
		"aggs": aggs,
	}
	if params.Query != "" {
		query["suggest"] = getPhraseSuggestion(params.Query)
	}
	return query
}

func getPhraseSuggestion(text string) map[string]interface{} {
	return map[string]interface{}{
		"text": text,
		PhraseSuggestionName: map[string]interface{}{
			"phrase": map[string]interface{}{
				"field":                      "name",
				"size":                       1,
				"real_word_error_likelihood": 0.95,
				"max_errors":                 0.5,
				"gram_size":                  2,
				"direct_generator": []map[string]interface{}{
					{
						"field":           "name",
						"suggest_mode":    "always",
						"min_word_length": 1,
					},
				},
				"highlight": map[string]interface{}{
					"pre_tag":  HighlightPreTag,
					"post_tag": HighlightPostTag,
				},
			},
		},
	}
}

func getAutocompleteQuery(term string) map[string]interface{} {
	return map[string]interface{}{
		"query": map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":  term,
				"fields": autocompleteFields,
			},
		},
		"_source": []string{"name"},
	}
}
