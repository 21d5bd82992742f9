package handler

import (
	"net/http"

	"github.com/Avi18971911/endpoint-search/internal/search_server/service/search"
	"go.uber.org/zap"
)

// SearchHandler creates a handler for searching endpoints.
// @Summary Search endpoints with facet counts and a spelling suggestion.
// @Tags search
// @Produce html,json
// @Param q query string false "The free text query"
// @Param agg_field query string false "The facet to filter by"
// @Param agg_value query string false "The exact facet value"
// @Success 200 {object} model.SearchResponse "The raw search response when JSON is requested"
// @Failure 400 {object} ErrorMessage "Unknown facet"
// @Failure 502 {object} ErrorMessage "Elasticsearch failure"
// @Router / [get]
func SearchHandler(
	ss search.SearchQueryService,
	logger *zap.Logger,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()
		asJSON := wantsJSON(r)

		params, err := search.NewSearchParams(query.Get("q"), query.Get("agg_field"), query.Get("agg_value"))
		if err != nil {
			logger.Warn("Rejected search request", zap.Error(err))
			if asJSON {
				HttpError(w, err.Error(), http.StatusBadRequest, logger)
				return
			}
			render(w, searchView, SearchViewDTO{Query: query.Get("q"), Error: err.Error()}, http.StatusBadRequest, logger)
			return
		}

		res, err := ss.Search(r.Context(), params)
		if err != nil {
			logger.Error("Error encountered when searching endpoints", zap.Error(err))
			if asJSON {
				HttpError(w, err.Error(), http.StatusBadGateway, logger)
				return
			}
			render(w, searchView, SearchViewDTO{Query: params.Query, Error: err.Error()}, http.StatusBadGateway, logger)
			return
		}

		if asJSON {
			writeJSON(w, res, http.StatusOK, logger)
			return
		}
		view, err := searchResponseToView(params, res)
		if err != nil {
			logger.Error("Error encountered when projecting search hits", zap.Error(err))
			HttpError(w, "Internal server error", http.StatusInternalServerError, logger)
			return
		}
		render(w, searchView, view, http.StatusOK, logger)
	}
}
