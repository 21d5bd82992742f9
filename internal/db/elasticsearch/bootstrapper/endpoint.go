package bootstrapper

const (
	AutocompleteAnalyzer = "autocomplete"
	autocompleteFilter   = "autocomplete_filter"

	// RawSubField is the keyword multi-field used for facets and exact filters.
	RawSubField = "raw"
	// AutocompleteSubField is the edge n-gram multi-field of name.
	AutocompleteSubField = "autocomplete"

	MinGram = 1
	MaxGram = 10
)

// EndpointIndex returns the create-index body for the endpoint catalog.
// The document type is kept in the mapping metadata since indices are typeless.
func EndpointIndex(documentType string) map[string]interface{} {
	return map[string]interface{}{
		"settings": map[string]interface{}{
			"number_of_shards": 1,
			"analysis": map[string]interface{}{
				"filter": map[string]interface{}{
					autocompleteFilter: map[string]interface{}{
						"type":     "edge_ngram",
						"min_gram": MinGram,
						"max_gram": MaxGram,
					},
				},
				"analyzer": map[string]interface{}{
					AutocompleteAnalyzer: map[string]interface{}{
						"type":      "custom",
						"tokenizer": "standard",
						"filter":    []string{"lowercase", autocompleteFilter},
					},
				},
			},
		},
		"mappings": map[string]interface{}{
			"_meta": map[string]interface{}{
				"document_type": documentType,
			},
			"properties": map[string]interface{}{
				"name": map[string]interface{}{
					"type": "text",
					"fields": map[string]interface{}{
						AutocompleteSubField: map[string]interface{}{
							"type":            "text",
							"analyzer":        AutocompleteAnalyzer,
							"search_analyzer": "standard",
						},
					},
				},
				"platform": map[string]interface{}{
					"type": "text",
				},
				"category": textWithRaw(),
				"dev":      textWithRaw(),
				"int":      textWithRaw(),
				"qa":       textWithRaw(),
				"prod": map[string]interface{}{
					"type": "keyword",
				},
			},
		},
	}
}

func textWithRaw() map[string]interface{} {
	return map[string]interface{}{
		"type": "text",
		"fields": map[string]interface{}{
			RawSubField: map[string]interface{}{
				"type": "keyword",
			},
		},
	}
}
