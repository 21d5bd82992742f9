//go:build integration

package elasticsearch

import (
	"context"
	"fmt"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
)

const (
	elasticsearchImage = "docker.elastic.co/elasticsearch/elasticsearch:8.15.0"
	elasticsearchPort  = "9200/tcp"
)

func startElasticsearchContainer(
	ctx context.Context,
	logger *zap.Logger,
) (
	elasticsearchURI string,
	stopContainer func(),
	err error,
) {
	childCtx, cancel := context.WithTimeout(ctx, 5*time.Minute)
	defer cancel()

	req := testcontainers.ContainerRequest{
		Image:        elasticsearchImage,
		ExposedPorts: []string{elasticsearchPort},
		Env: map[string]string{
			"discovery.type":         "single-node",
			"xpack.security.enabled": "false",
			"ES_JAVA_OPTS":           "-Xms512m -Xmx512m",
		},
		WaitingFor: wait.ForHTTP("/_cluster/health?wait_for_status=yellow").
			WithPort(elasticsearchPort).
			WithStartupTimeout(3 * time.Minute),
	}

	container, err := testcontainers.GenericContainer(childCtx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		return "", nil, fmt.Errorf("failed to start container: %w", err)
	}

	stopContainer = func() {
		if err := container.Terminate(context.Background()); err != nil {
			logger.Error("Failed to terminate container", zap.Error(err))
		}
	}

	host, err := container.Host(childCtx)
	if err != nil {
		stopContainer()
		return "", nil, fmt.Errorf("failed to get container host: %w", err)
	}
	p, err := container.MappedPort(childCtx, elasticsearchPort)
	if err != nil {
		stopContainer()
		return "", nil, fmt.Errorf("failed to get container port: %w", err)
	}

	elasticsearchURI = fmt.Sprintf("http://%s:%s", host, p.Port())
	logger.Info("Elasticsearch URI", zap.String("elasticsearchURI", elasticsearchURI))
	return elasticsearchURI, stopContainer, nil
}
