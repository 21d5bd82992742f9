package router

import (
	"net/http"

	"github.com/Avi18971911/endpoint-search/internal/search_server/handler"
	"github.com/Avi18971911/endpoint-search/internal/search_server/service/reindex"
	"github.com/Avi18971911/endpoint-search/internal/search_server/service/search"
	"github.com/go-chi/cors"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

func CreateRouter(
	searchQueryService search.SearchQueryService,
	reindexService reindex.ReindexService,
	pinger handler.Pinger,
	logger *zap.Logger,
) http.Handler {
	r := mux.NewRouter()

	r.Handle(
		"/reprocess", handler.ReprocessHandler(
			reindexService,
			logger,
		),
	).Methods("GET", "POST")

	r.Handle(
		"/autocomplete", handler.AutocompleteHandler(
			searchQueryService,
			logger,
		),
	).Methods("GET")

	r.Handle("/health", handler.HealthHandler(pinger, logger)).Methods("GET")

	r.Handle(
		"/", handler.SearchHandler(
			searchQueryService,
			logger,
		),
	).Methods("GET")

	// outside the mux so preflight and unmatched requests are covered too
	return requestLogger(logger)(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	})(r))
}
