package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Reindex strategies, mirrored by the reindex service
const (
	StrategyRecreate = "recreate"
	StrategyAlias    = "alias"
)

// ServerSettings configuration for the HTTP listener
type ServerSettings struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

// ElasticsearchSettings configuration for the Elasticsearch connection
type ElasticsearchSettings struct {
	URL      string `mapstructure:"url"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
}

// IndexSettings configuration for the endpoint index
type IndexSettings struct {
	Name         string `mapstructure:"name"`
	DocumentType string `mapstructure:"document_type"`
	Strategy     string `mapstructure:"strategy"`
}

type DocumentsSettings struct {
	Path string `mapstructure:"path"`
}

type SearchSettings struct {
	Timeout          time.Duration `mapstructure:"timeout"`
	AutocompleteSize int           `mapstructure:"autocomplete_size"`
}

type ReindexSettings struct {
	Timeout time.Duration `mapstructure:"timeout"`
}

// CacheSettings configuration for the autocomplete cache
type CacheSettings struct {
	Enabled bool          `mapstructure:"enabled"`
	TTL     time.Duration `mapstructure:"ttl"`
}

type TracingSettings struct {
	// Endpoint of the OTLP/HTTP collector, tracing is off when empty
	Endpoint string `mapstructure:"endpoint"`
}

type LogSettings struct {
	Level       string `mapstructure:"level"`
	Development bool   `mapstructure:"development"`
}

// Settings application settings
type Settings struct {
	Server        ServerSettings        `mapstructure:"server"`
	Elasticsearch ElasticsearchSettings `mapstructure:"elasticsearch"`
	Index         IndexSettings         `mapstructure:"index"`
	Documents     DocumentsSettings     `mapstructure:"documents"`
	Search        SearchSettings        `mapstructure:"search"`
	Reindex       ReindexSettings       `mapstructure:"reindex"`
	Cache         CacheSettings         `mapstructure:"cache"`
	Tracing       TracingSettings       `mapstructure:"tracing"`
	Log           LogSettings           `mapstructure:"log"`
}

type binding struct {
	key  string
	env  string
	flag string
}

var bindings = []binding{
	{"server.host", "HOST", "host"},
	{"server.port", "PORT", "port"},
	{"elasticsearch.url", "ELASTICSEARCH_URL", "elasticsearch-url"},
	{"elasticsearch.username", "ELASTICSEARCH_USERNAME", "elasticsearch-username"},
	{"elasticsearch.password", "ELASTICSEARCH_PASSWORD", "elasticsearch-password"},
	{"index.name", "INDEX_NAME", "index-name"},
	{"index.document_type", "DOCUMENT_TYPE", "document-type"},
	{"index.strategy", "REINDEX_STRATEGY", "reindex-strategy"},
	{"documents.path", "DOCUMENTS_PATH", "documents"},
	{"search.timeout", "SEARCH_TIMEOUT", "search-timeout"},
	{"search.autocomplete_size", "AUTOCOMPLETE_SIZE", "autocomplete-size"},
	{"reindex.timeout", "REINDEX_TIMEOUT", "reindex-timeout"},
	{"cache.enabled", "CACHE_ENABLED", "cache"},
	{"cache.ttl", "CACHE_TTL", "cache-ttl"},
	{"tracing.endpoint", "OTEL_EXPORTER_OTLP_ENDPOINT", "tracing-endpoint"},
	{"log.level", "LOG_LEVEL", "log-level"},
	{"log.development", "LOG_DEVELOPMENT", "log-development"},
}

// RegisterFlags declares the command line overrides. Zero values fall through
// to the environment and defaults.
func RegisterFlags(flags *pflag.FlagSet) {
	flags.StringP("host", "H", "", "Host to listen on")
	flags.IntP("port", "p", 0, "Port to listen on")
	flags.String("elasticsearch-url", "", "Elasticsearch address")
	flags.String("elasticsearch-username", "", "Elasticsearch basic auth username")
	flags.String("elasticsearch-password", "", "Elasticsearch basic auth password")
	flags.StringP("index-name", "i", "", "Index (or alias) searched and rebuilt")
	flags.String("document-type", "", "Document type recorded in the index mapping")
	flags.String("reindex-strategy", "", "Reindex strategy: recreate or alias")
	flags.StringP("documents", "d", "", "Path of the endpoint JSON file")
	flags.Duration("search-timeout", 0, "Timeout of a search or autocomplete call")
	flags.Int("autocomplete-size", 0, "Maximum number of autocomplete suggestions")
	flags.Duration("reindex-timeout", 0, "Timeout of a full reindex")
	flags.Bool("cache", true, "Cache autocomplete results")
	flags.Duration("cache-ttl", 0, "Lifetime of a cached autocomplete result")
	flags.String("tracing-endpoint", "", "OTLP/HTTP collector endpoint, tracing is off when empty")
	flags.String("log-level", "", "Log level: debug, info, warn or error")
	flags.Bool("log-development", false, "Human readable console logs")
}

// LoadSettings loads settings from environment variables and optional .env file
func LoadSettings() (*Settings, error) {
	return LoadSettingsWithFlags(nil)
}

// LoadSettingsWithFlags loads settings with optional CLI flag overrides.
// Priority: CLI flags > environment variables > .env file > defaults.
func LoadSettingsWithFlags(flags *pflag.FlagSet) (*Settings, error) {
	v := viper.New()

	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 12345)
	v.SetDefault("elasticsearch.url", "http://localhost:9200")
	v.SetDefault("elasticsearch.username", "")
	v.SetDefault("elasticsearch.password", "")
	v.SetDefault("index.name", "deployments")
	v.SetDefault("index.document_type", "endpoint")
	v.SetDefault("index.strategy", StrategyRecreate)
	v.SetDefault("documents.path", "endpoints.json")
	v.SetDefault("search.timeout", 10*time.Second)
	v.SetDefault("search.autocomplete_size", 10)
	v.SetDefault("reindex.timeout", 60*time.Second)
	v.SetDefault("cache.enabled", true)
	v.SetDefault("cache.ttl", 5*time.Minute)
	v.SetDefault("tracing.endpoint", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.development", false)

	// .env values sit between the environment and the defaults
	dotenv := viper.New()
	dotenv.SetConfigName(".env")
	dotenv.SetConfigType("env")
	dotenv.AddConfigPath(".")
	_ = dotenv.ReadInConfig() // Ignore error if .env doesn't exist

	for _, b := range bindings {
		_ = v.BindEnv(b.key, b.env)
		if _, set := os.LookupEnv(b.env); !set && dotenv.IsSet(b.env) {
			v.SetDefault(b.key, dotenv.Get(b.env))
		}
		if flags != nil {
			if flag := flags.Lookup(b.flag); flag != nil {
				_ = v.BindPFlag(b.key, flag)
			}
		}
	}

	var settings Settings
	if err := v.Unmarshal(&settings); err != nil {
		return nil, fmt.Errorf("failed to decode settings: %w", err)
	}
	return &settings, nil
}

// ValidateSettings rejects settings the server cannot start with.
func ValidateSettings(s *Settings) error {
	if s.Server.Port <= 0 || s.Server.Port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535, got: %d", s.Server.Port)
	}
	if s.Elasticsearch.URL == "" {
		return errors.New("elasticsearch-url cannot be empty")
	}
	if s.Index.Name == "" {
		return errors.New("index-name cannot be empty")
	}

	switch s.Index.Strategy {
	case StrategyRecreate, StrategyAlias:
		// valid
	default:
		return errors.New("reindex-strategy must be 'recreate' or 'alias', got: " + s.Index.Strategy)
	}

	if s.Documents.Path == "" {
		return errors.New("documents path cannot be empty")
	}
	if s.Search.Timeout <= 0 {
		return errors.New("search-timeout must be positive")
	}
	if s.Search.AutocompleteSize <= 0 {
		return errors.New("autocomplete-size must be positive")
	}
	if s.Reindex.Timeout <= 0 {
		return errors.New("reindex-timeout must be positive")
	}
	if s.Cache.Enabled && s.Cache.TTL <= 0 {
		return errors.New("cache-ttl must be positive when the cache is enabled")
	}
	return nil
}
