// Package config loads and validates application configuration from YAML
// files with environment-variable overrides. It provides typed structs for
// every subsystem (Server, Postgres, Redis, Kafka, Scoring, Search, etc.).
package config

import (
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the top-level application configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Postgres PostgresConfig `yaml:"postgres"`
	Redis    RedisConfig    `yaml:"redis"`
	Kafka    KafkaConfig    `yaml:"kafka"`
	Scoring  ScoringConfig  `yaml:"scoring"`
	Search   SearchConfig   `yaml:"search"`
	Logging  LoggingConfig  `yaml:"logging"`
	Metrics  MetricsConfig  `yaml:"metrics"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port            int           `yaml:"port"`
	ReadTimeout     time.Duration `yaml:"readTimeout"`
	WriteTimeout    time.Duration `yaml:"writeTimeout"`
	ShutdownTimeout time.Duration `yaml:"shutdownTimeout"`
}

// PostgresConfig holds PostgreSQL connection parameters.
type PostgresConfig struct {
	Host            string        `yaml:"host"`
	Port            int           `yaml:"port"`
	Database        string        `yaml:"database"`
	User            string        `yaml:"user"`
	Password        string        `yaml:"password"`
	SSLMode         string        `yaml:"sslMode"`
	MaxOpenConns    int           `yaml:"maxOpenConns"`
	MaxIdleConns    int           `yaml:"maxIdleConns"`
	ConnMaxLifetime time.Duration `yaml:"connMaxLifetime"`
}

// DSN returns a lib/pq-compatible data source name.
func (p PostgresConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode,
	)
}

// RedisConfig holds Redis connection and result-cache parameters.
type RedisConfig struct {
	Addr     string        `yaml:"addr"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	PoolSize int           `yaml:"poolSize"`
	CacheTTL time.Duration `yaml:"cacheTTL"`
}

// KafkaConfig holds Kafka broker and topic settings.
type KafkaConfig struct {
	Brokers       []string    `yaml:"brokers"`
	ConsumerGroup string      `yaml:"consumerGroup"`
	Topics        KafkaTopics `yaml:"topics"`
}

// KafkaTopics maps logical topic names to their Kafka topic strings.
type KafkaTopics struct {
	SearchEvents string `yaml:"searchEvents"`
	CorpusReload string `yaml:"corpusReload"`
}

// WeightsConfig is the composite blend of the four relevance signals. The
// four values must sum to 1.0.
type WeightsConfig struct {
	TFIDF     float64 `yaml:"tfidf"`
	Semantic  float64 `yaml:"semantic"`
	Keyword   float64 `yaml:"keyword"`
	Freshness float64 `yaml:"freshness"`
}

// PointsConfig holds the keyword scorer's per-rule point values.
type PointsConfig struct {
	TitlePhrase       float64 `yaml:"titlePhrase"`
	TitleWord         float64 `yaml:"titleWord"`
	KeywordEntry      float64 `yaml:"keywordEntry"`
	KeywordWord       float64 `yaml:"keywordWord"`
	DescriptionPhrase float64 `yaml:"descriptionPhrase"`
	DescriptionWord   float64 `yaml:"descriptionWord"`
	AgencyBonus       float64 `yaml:"agencyBonus"`
}

// ScoringConfig exposes every relevance constant as configuration rather
// than code.
type ScoringConfig struct {
	Weights WeightsConfig `yaml:"weights"`
	// MinScore is the composite relevance cutoff.
	MinScore float64 `yaml:"minScore"`
	// RequireTextMatch keeps freshness/agency bonuses from pushing a
	// document with no lexical or semantic overlap above MinScore.
	RequireTextMatch bool    `yaml:"requireTextMatch"`
	ClusterBoost     float64 `yaml:"clusterBoost"`
	// ClustersFile optionally replaces the built-in semantic cluster table
	// with a YAML vocabulary for a different deployment domain.
	ClustersFile string       `yaml:"clustersFile"`
	AgencyCodes  []string     `yaml:"agencyCodes"`
	Points       PointsConfig `yaml:"points"`
	// BrowseWeights is the blend used for category browse queries, where
	// there is no user text for TF-IDF to act on.
	BrowseWeights WeightsConfig `yaml:"browseWeights"`
}

// SearchConfig controls query limits.
type SearchConfig struct {
	DefaultLimit int `yaml:"defaultLimit"`
	MaxResults   int `yaml:"maxResults"`
}

// LoggingConfig controls structured logging level and output format.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// MetricsConfig controls the Prometheus metrics server.
type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
	Port    int  `yaml:"port"`
}

// Load reads a YAML config file (if provided), applies environment-variable
// overrides, and validates the result.
func Load(path string) (*Config, error) {
	cfg := defaultConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parsing config file %s: %w", path, err)
		}
	}
	applyEnvOverrides(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks constraints that would otherwise surface as silent ranking
// bugs.
func (c *Config) Validate() error {
	if err := validateWeights("scoring.weights", c.Scoring.Weights); err != nil {
		return err
	}
	if err := validateWeights("scoring.browseWeights", c.Scoring.BrowseWeights); err != nil {
		return err
	}
	if c.Scoring.MinScore < 0 {
		return fmt.Errorf("scoring.minScore must be non-negative, got %v", c.Scoring.MinScore)
	}
	if c.Search.DefaultLimit < 1 || c.Search.MaxResults < c.Search.DefaultLimit {
		return fmt.Errorf("search limits invalid: defaultLimit=%d maxResults=%d",
			c.Search.DefaultLimit, c.Search.MaxResults)
	}
	return nil
}

func validateWeights(name string, w WeightsConfig) error {
	sum := w.TFIDF + w.Semantic + w.Keyword + w.Freshness
	if math.Abs(sum-1.0) > 1e-9 {
		return fmt.Errorf("%s must sum to 1.0, got %v", name, sum)
	}
	return nil
}

// defaultConfig returns a Config with the reference scoring constants and
// local-development infrastructure defaults.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     30 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 15 * time.Second,
		},
		Postgres: PostgresConfig{
			Host:            "localhost",
			Port:            5432,
			Database:        "grantsearch",
			User:            "grantsearch",
			Password:        "localdev",
			SSLMode:         "disable",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 5 * time.Minute,
		},
		Redis: RedisConfig{
			Addr:     "localhost:6379",
			Password: "",
			DB:       0,
			PoolSize: 10,
			CacheTTL: 60 * time.Second,
		},
		Kafka: KafkaConfig{
			Brokers:       []string{"localhost:9092"},
			ConsumerGroup: "grantsearch-group",
			Topics: KafkaTopics{
				SearchEvents: "search-events",
				CorpusReload: "corpus-reload",
			},
		},
		Scoring: ScoringConfig{
			Weights: WeightsConfig{
				TFIDF:     0.25,
				Semantic:  0.35,
				Keyword:   0.30,
				Freshness: 0.10,
			},
			MinScore:         0.5,
			RequireTextMatch: true,
			ClusterBoost:     3.0,
			AgencyCodes:      []string{"NIH", "NSF", "HHS", "DOE", "CDC"},
			Points: PointsConfig{
				TitlePhrase:       15,
				TitleWord:         8,
				KeywordEntry:      6,
				KeywordWord:       3,
				DescriptionPhrase: 4,
				DescriptionWord:   1.5,
				AgencyBonus:       2,
			},
			BrowseWeights: WeightsConfig{
				TFIDF:     0,
				Semantic:  0.60,
				Keyword:   0.30,
				Freshness: 0.10,
			},
		},
		Search: SearchConfig{
			DefaultLimit: 20,
			MaxResults:   50,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Port:    9090,
		},
	}
}

// applyEnvOverrides reads GS_* environment variables and overrides the
// corresponding config fields.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("GS_SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("GS_POSTGRES_HOST"); v != "" {
		cfg.Postgres.Host = v
	}
	if v := os.Getenv("GS_POSTGRES_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Postgres.Port = port
		}
	}
	if v := os.Getenv("GS_POSTGRES_DATABASE"); v != "" {
		cfg.Postgres.Database = v
	}
	if v := os.Getenv("GS_POSTGRES_USER"); v != "" {
		cfg.Postgres.User = v
	}
	if v := os.Getenv("GS_POSTGRES_PASSWORD"); v != "" {
		cfg.Postgres.Password = v
	}
	if v := os.Getenv("GS_POSTGRES_SSLMODE"); v != "" {
		cfg.Postgres.SSLMode = v
	}
	if v := os.Getenv("GS_REDIS_ADDR"); v != "" {
		cfg.Redis.Addr = v
	}
	if v := os.Getenv("GS_REDIS_PASSWORD"); v != "" {
		cfg.Redis.Password = v
	}
	if v := os.Getenv("GS_KAFKA_BROKERS"); v != "" {
		cfg.Kafka.Brokers = strings.Split(v, ",")
	}
	if v := os.Getenv("GS_LOGGING_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("GS_LOGGING_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}
	if v := os.Getenv("GS_SCORING_MIN_SCORE"); v != "" {
		if score, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Scoring.MinScore = score
		}
	}
	if v := os.Getenv("GS_SCORING_REQUIRE_TEXT_MATCH"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Scoring.RequireTextMatch = b
		}
	}
	if v := os.Getenv("GS_SCORING_CLUSTERS_FILE"); v != "" {
		cfg.Scoring.ClustersFile = v
	}
}
