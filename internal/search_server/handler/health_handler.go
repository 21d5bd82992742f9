package handler

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"
)

const healthTimeout = 3 * time.Second

type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler creates a handler reporting whether Elasticsearch answers.
// @Summary Health check.
// @Tags health
// @Produce json
// @Success 200 {object} HealthDTO "Elasticsearch reachable"
// @Failure 503 {object} HealthDTO "Elasticsearch unreachable"
// @Router /health [get]
func HealthHandler(
	p Pinger,
	logger *zap.Logger,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
		defer cancel()
		if err := p.Ping(ctx); err != nil {
			logger.Warn("Elasticsearch is unreachable", zap.Error(err))
			writeJSON(w, HealthDTO{Status: "unhealthy", Message: err.Error()}, http.StatusServiceUnavailable, logger)
			return
		}
		writeJSON(w, HealthDTO{Status: "healthy"}, http.StatusOK, logger)
	}
}
