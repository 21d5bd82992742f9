package handler

import (
	"net/http"

	"github.com/Avi18971911/endpoint-search/internal/search_server/service/search"
	"go.uber.org/zap"
)

// AutocompleteHandler creates a handler for completing endpoint names.
// @Summary Complete endpoint names from a prefix.
// @Tags search
// @Produce json
// @Param term query string true "The prefix typed so far"
// @Success 200 {array} string "Matching names, best match first"
// @Failure 502 {object} ResponseMessage "Elasticsearch failure"
// @Router /autocomplete [get]
func AutocompleteHandler(
	ss search.SearchQueryService,
	logger *zap.Logger,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		term := r.URL.Query().Get("term")
		names, err := ss.Autocomplete(r.Context(), term)
		if err != nil {
			logger.Error("Error encountered when autocompleting endpoint names", zap.String("term", term), zap.Error(err))
			writeJSON(w, ResponseMessage{Response: err.Error()}, http.StatusBadGateway, logger)
			return
		}
		writeJSON(w, names, http.StatusOK, logger)
	}
}
