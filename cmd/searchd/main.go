package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/grantwell/grantsearch/internal/analytics"
	"github.com/grantwell/grantsearch/internal/engine"
	"github.com/grantwell/grantsearch/internal/relevance/ranker"
	"github.com/grantwell/grantsearch/internal/relevance/score"
	"github.com/grantwell/grantsearch/internal/search/cache"
	"github.com/grantwell/grantsearch/internal/search/handler"
	"github.com/grantwell/grantsearch/internal/store"
	"github.com/grantwell/grantsearch/pkg/config"
	"github.com/grantwell/grantsearch/pkg/health"
	"github.com/grantwell/grantsearch/pkg/kafka"
	"github.com/grantwell/grantsearch/pkg/logger"
	"github.com/grantwell/grantsearch/pkg/metrics"
	"github.com/grantwell/grantsearch/pkg/middleware"
	"github.com/grantwell/grantsearch/pkg/postgres"
	pkgredis "github.com/grantwell/grantsearch/pkg/redis"
	"github.com/grantwell/grantsearch/pkg/resilience"
)

func main() {
	configPath := flag.String("config", "configs/development.yaml", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger.Setup(cfg.Logging.Level, cfg.Logging.Format)
	slog.Info("starting grant search service", "port", cfg.Server.Port)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var m *metrics.Metrics
	var metricsShutdown func(context.Context) error
	if cfg.Metrics.Enabled {
		m = metrics.New()
		metricsShutdown = metrics.StartServer(cfg.Metrics.Port)
	}

	var pgClient *postgres.Client
	err = resilience.Retry(ctx, "postgres-connect", resilience.RetryConfig{MaxAttempts: 5}, func() error {
		var connErr error
		pgClient, connErr = postgres.New(cfg.Postgres)
		return connErr
	})
	if err != nil {
		slog.Error("failed to connect to postgres", "error", err)
		os.Exit(1)
	}
	defer pgClient.Close()
	grantStore := store.NewPostgres(pgClient)

	rankerCfg, err := buildRankerConfig(cfg.Scoring)
	if err != nil {
		slog.Error("invalid scoring configuration", "error", err)
		os.Exit(1)
	}
	browseWeights := ranker.Weights{
		TFIDF:     cfg.Scoring.BrowseWeights.TFIDF,
		Semantic:  cfg.Scoring.BrowseWeights.Semantic,
		Keyword:   cfg.Scoring.BrowseWeights.Keyword,
		Freshness: cfg.Scoring.BrowseWeights.Freshness,
	}

	engineOpts := []engine.Option{}
	if m != nil {
		engineOpts = append(engineOpts, engine.WithMetrics(m))
	}
	eng := engine.New(grantStore, rankerCfg, browseWeights, engineOpts...)
	if err := eng.RebuildIndex(ctx); err != nil {
		slog.Warn("initial index build failed, serving degraded", "error", err)
	}

	var resultCache *cache.ResultCache
	redisClient, err := pkgredis.NewClient(cfg.Redis)
	if err != nil {
		slog.Warn("redis unavailable, result caching disabled", "error", err)
	} else {
		defer redisClient.Close()
		resultCache = cache.New(redisClient, cfg.Redis)
		slog.Info("result cache enabled", "addr", cfg.Redis.Addr, "ttl", cfg.Redis.CacheTTL)
	}

	searchProducer := kafka.NewProducer(cfg.Kafka, cfg.Kafka.Topics.SearchEvents)
	defer searchProducer.Close()
	collector := analytics.NewCollector(searchProducer, 10000)
	collector.Start(ctx)
	defer collector.Close()

	reloadConsumer := kafka.NewConsumer(cfg.Kafka, cfg.Kafka.Topics.CorpusReload,
		analytics.ReloadHandler(eng, resultCache))
	go func() {
		if err := reloadConsumer.Start(ctx); err != nil {
			slog.Error("reload consumer error", "error", err)
		}
	}()

	checker := health.NewChecker()
	checker.Register("postgres", func(ctx context.Context) health.ComponentHealth {
		if err := pgClient.Ping(ctx); err != nil {
			return health.ComponentHealth{Status: health.StatusDown, Message: err.Error()}
		}
		return health.ComponentHealth{Status: health.StatusUp}
	})
	checker.Register("redis", func(ctx context.Context) health.ComponentHealth {
		if redisClient == nil {
			return health.ComponentHealth{Status: health.StatusDegraded, Message: "not configured"}
		}
		if err := redisClient.Ping(ctx); err != nil {
			return health.ComponentHealth{Status: health.StatusDegraded, Message: err.Error()}
		}
		return health.ComponentHealth{Status: health.StatusUp}
	})
	checker.Register("idf_index", func(ctx context.Context) health.ComponentHealth {
		if eng.VocabularySize() == 0 {
			return health.ComponentHealth{Status: health.StatusDegraded, Message: "empty index"}
		}
		return health.ComponentHealth{Status: health.StatusUp,
			Message: fmt.Sprintf("%d terms", eng.VocabularySize())}
	})

	h := handler.New(eng, resultCache, collector, m, cfg.Search.DefaultLimit, cfg.Search.MaxResults)

	mux := http.NewServeMux()
	h.Register(mux)
	mux.HandleFunc("GET /health/live", checker.LiveHandler())
	mux.HandleFunc("GET /health/ready", checker.ReadyHandler())

	var chain http.Handler = mux
	if m != nil {
		chain = middleware.Metrics(m)(chain)
	}
	chain = middleware.Timeout(cfg.Server.WriteTimeout)(chain)
	chain = middleware.RequestID(chain)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      chain,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		slog.Info("http server listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("http server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("http server shutdown failed", "error", err)
	}
	if metricsShutdown != nil {
		if err := metricsShutdown(shutdownCtx); err != nil {
			slog.Error("metrics server shutdown failed", "error", err)
		}
	}
	slog.Info("shutdown complete")
}

// buildRankerConfig maps the YAML scoring section onto the ranker's typed
// configuration, loading a replacement cluster table when configured.
func buildRankerConfig(sc config.ScoringConfig) (ranker.Config, error) {
	clusters := score.DefaultClusters()
	if sc.ClustersFile != "" {
		loaded, err := score.LoadClusters(sc.ClustersFile)
		if err != nil {
			return ranker.Config{}, err
		}
		clusters = loaded
		slog.Info("loaded cluster table", "file", sc.ClustersFile, "clusters", len(loaded))
	}
	cfg := ranker.Config{
		Weights: ranker.Weights{
			TFIDF:     sc.Weights.TFIDF,
			Semantic:  sc.Weights.Semantic,
			Keyword:   sc.Weights.Keyword,
			Freshness: sc.Weights.Freshness,
		},
		MinScore:         sc.MinScore,
		RequireTextMatch: sc.RequireTextMatch,
		ClusterBoost:     sc.ClusterBoost,
		Points: score.KeywordPoints{
			TitlePhrase:       sc.Points.TitlePhrase,
			TitleWord:         sc.Points.TitleWord,
			KeywordEntry:      sc.Points.KeywordEntry,
			KeywordWord:       sc.Points.KeywordWord,
			DescriptionPhrase: sc.Points.DescriptionPhrase,
			DescriptionWord:   sc.Points.DescriptionWord,
			AgencyBonus:       sc.Points.AgencyBonus,
		},
		AgencyCodes: sc.AgencyCodes,
		Clusters:    clusters,
	}
	return cfg, cfg.Validate()
}
