package bootstrapper

import (
	"context"
	"fmt"
	"time"

	"github.com/Avi18971911/endpoint-search/internal/db/elasticsearch/client"
	"go.uber.org/zap"
)

const Retries = 30
const WaitTime = 5 * time.Second

type Bootstrapper struct {
	ac           client.SearchClient
	indexName    string
	documentType string
	logger       *zap.Logger
}

func NewBootstrapper(
	ac client.SearchClient,
	indexName string,
	documentType string,
	logger *zap.Logger,
) *Bootstrapper {
	return &Bootstrapper{
		ac:           ac,
		indexName:    indexName,
		documentType: documentType,
		logger:       logger,
	}
}

// BootstrapElasticsearch waits for the cluster and creates an empty endpoint
// index when neither an index nor an alias holds the configured name.
func (bs *Bootstrapper) BootstrapElasticsearch(ctx context.Context, maxRetries int, delay time.Duration) error {
	if err := bs.WaitForElasticsearch(ctx, maxRetries, delay); err != nil {
		return fmt.Errorf("failed to connect to Elasticsearch: %w", err)
	}

	exists, err := bs.ac.IndexExists(ctx, bs.indexName)
	if err != nil {
		return fmt.Errorf("error checking endpoint index: %w", err)
	}
	if exists {
		bs.logger.Info("Endpoint index already present", zap.String("index_name", bs.indexName))
		return nil
	}

	if err := bs.ac.CreateIndex(ctx, bs.indexName, EndpointIndex(bs.documentType)); err != nil {
		return fmt.Errorf("error creating endpoint index: %w", err)
	}
	bs.logger.Info("Successfully created index", zap.String("index_name", bs.indexName))
	return nil
}

func (bs *Bootstrapper) WaitForElasticsearch(ctx context.Context, maxRetries int, delay time.Duration) error {
	for i := 0; i < maxRetries; i++ {
		err := bs.ac.Ping(ctx)
		if err == nil {
			bs.logger.Info("Elasticsearch is available")
			return nil
		}
		bs.logger.Warn(
			fmt.Sprintf("Elasticsearch not available (attempt %d/%d), retrying...", i+1, maxRetries),
			zap.Error(err),
		)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}

	return fmt.Errorf("Elasticsearch is not available after %d attempts", maxRetries)
}
