package config

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger builds a JSON production logger, or a console logger in development.
func NewLogger(s LogSettings) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(s.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", s.Level, err)
	}
	cfg := zap.NewProductionConfig()
	if s.Development {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.Level = zap.NewAtomicLevelAt(level)
	return cfg.Build()
}

// Log logs the resolved settings with secrets masked
func Log(s *Settings, logger *zap.Logger) {
	logger.Info("Config: server", zap.String("host", s.Server.Host), zap.Int("port", s.Server.Port))
	logger.Info("Config: elasticsearch", zap.String("url", s.Elasticsearch.URL))
	if s.Elasticsearch.Username != "" {
		logger.Info(
			"Config: elasticsearch credentials",
			zap.String("username", s.Elasticsearch.Username),
			zap.String("password", "****"),
		)
	}
	logger.Info(
		"Config: index",
		zap.String("name", s.Index.Name),
		zap.String("document_type", s.Index.DocumentType),
		zap.String("strategy", s.Index.Strategy),
		zap.String("documents", s.Documents.Path),
	)
	logger.Info(
		"Config: timeouts",
		zap.Duration("search", s.Search.Timeout),
		zap.Duration("reindex", s.Reindex.Timeout),
	)
	if s.Cache.Enabled {
		logger.Info("Config: autocomplete cache", zap.Duration("ttl", s.Cache.TTL))
	}
	if s.Tracing.Endpoint != "" {
		logger.Info("Config: tracing", zap.String("endpoint", s.Tracing.Endpoint))
	}
}
