package handler

import (
	"net/http"

	"github.com/Avi18971911/endpoint-search/internal/search_server/service/reindex"
	"go.uber.org/zap"
)

const IndexingCompleted = "Indexing Completed!"

// ReprocessHandler creates a handler that rebuilds the endpoint index from the document source.
// @Summary Reindex all endpoints.
// @Tags index
// @Produce html,json
// @Success 200 {object} ReprocessResponseDTO "Indexing completed"
// @Failure 500 {object} ErrorMessage "Reindex failure"
// @Router /reprocess [get]
func ReprocessHandler(
	rs reindex.ReindexService,
	logger *zap.Logger,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		asJSON := wantsJSON(r)
		result, err := rs.Reprocess(r.Context())
		if err != nil {
			logger.Error("Error encountered when reprocessing endpoints", zap.Error(err))
			if asJSON {
				HttpError(w, err.Error(), http.StatusInternalServerError, logger)
				return
			}
			render(w, indexView, indexViewDTO{Result: err.Error()}, http.StatusInternalServerError, logger)
			return
		}

		if asJSON {
			writeJSON(w, ReprocessResponseDTO{
				Response:  IndexingCompleted,
				Documents: result.Documents,
				Index:     result.Index,
			}, http.StatusOK, logger)
			return
		}
		render(w, indexView, indexViewDTO{Result: IndexingCompleted}, http.StatusOK, logger)
	}
}

type indexViewDTO struct {
	Result string
}
