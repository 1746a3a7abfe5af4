package di

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	domrepo "StockPulse/internal/domain/repository"
	domsvc "StockPulse/internal/domain/service"
	internalrepo "StockPulse/internal/repository"
	"StockPulse/internal/service/marketdata"
	"StockPulse/internal/service/newsapi"
	"StockPulse/internal/service/openai"
	"StockPulse/internal/services/explain"
	"StockPulse/internal/usecase"
	pkgch "StockPulse/pkg/clickhouse"
	"StockPulse/pkg/config"
	pkgkafka "StockPulse/pkg/kafka"
	applogger "StockPulse/pkg/logger"
	"StockPulse/pkg/metrics"
	"StockPulse/pkg/server"
)

// ProvideLogger creates the application logger.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	l, err := applogger.New(&applogger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	return l, nil
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() domrepo.Metrics {
	return metrics.New()
}

// ProvideClickHouseClient creates a ClickHouse client when the clickhouse
// market data provider is selected, nil otherwise.
func ProvideClickHouseClient(cfg *config.Config) (*pkgch.Client, error) {
	if cfg.MarketData.Provider != "clickhouse" {
		return nil, nil
	}

	client, err := pkgch.NewClient(
		pkgch.WithHost(cfg.ClickHouse.Host),
		pkgch.WithPort(cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithMaxConnections(10, 5),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout, cfg.ClickHouse.WriteTimeout),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	store := internalrepo.NewClickHouseBarsStore(client, cfg.ClickHouse.BarsTable)
	stmts := append([]string{
		fmt.Sprintf("CREATE DATABASE IF NOT EXISTS %s", cfg.ClickHouse.Database),
	}, store.Schema()...)
	if err := client.InitSchema(ctx, stmts); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("clickhouse schema: %w", err)
	}

	return client, nil
}

// ProvidePriceHistoryProvider selects the configured market data source.
func ProvidePriceHistoryProvider(cfg *config.Config, chClient *pkgch.Client, l *applogger.Logger) domrepo.PriceHistoryProvider {
	if cfg.MarketData.Provider == "clickhouse" {
		return internalrepo.NewClickHouseBarsStore(chClient, cfg.ClickHouse.BarsTable)
	}

	client := marketdata.NewClient(marketdata.Options{
		BaseURL:         cfg.MarketData.BaseURL,
		APIKey:          cfg.MarketData.APIKey,
		Timeout:         cfg.MarketData.Timeout,
		RequestsPerSec:  cfg.MarketData.RequestsPer,
		RetryMaxElapsed: cfg.MarketData.MaxElapsed,
	})
	client.SetLogger(l)
	return client
}

// ProvideNewsProvider creates the news sentiment client, nil when no feed
// is configured.
func ProvideNewsProvider(cfg *config.Config, l *applogger.Logger) domrepo.NewsSentimentProvider {
	if cfg.News.BaseURL == "" {
		return nil
	}
	client := newsapi.NewClient(newsapi.Options{
		BaseURL: cfg.News.BaseURL,
		APIKey:  cfg.News.APIKey,
		Timeout: cfg.News.Timeout,
	})
	client.SetLogger(l)
	return client
}

// ProvideRedisClient creates a Redis client, nil when Redis is disabled.
func ProvideRedisClient(cfg *config.Config) *redis.Client {
	if !cfg.Redis.Enabled {
		return nil
	}
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
}

// ProvidePredictionStore selects Redis when enabled, in-memory otherwise.
func ProvidePredictionStore(rdb *redis.Client, l *applogger.Logger) domrepo.PredictionStore {
	if rdb == nil {
		return internalrepo.NewMemoryPredictionStore()
	}
	store := internalrepo.NewRedisPredictionStore(rdb)
	store.SetLogger(l)
	return store
}

// ProvidePublisher creates the Kafka prediction publisher, nil when Kafka
// is disabled.
func ProvidePublisher(cfg *config.Config) (domrepo.PredictionPublisher, error) {
	if !cfg.Kafka.Enabled {
		return nil, nil
	}

	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithMaxAttempts(cfg.Kafka.MaxAttempts),
		pkgkafka.WithTimeouts(cfg.Kafka.WriteTimeout, cfg.Kafka.ReadTimeout),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return internalrepo.NewKafkaPredictionPublisher(producer, cfg.Kafka.Topic), nil
}

// ProvideExplanationDelegate creates the OpenAI delegate.
func ProvideExplanationDelegate(cfg *config.Config, l *applogger.Logger) domsvc.ExplanationDelegate {
	client := openai.NewClient(openai.Options{
		BaseURL:     cfg.OpenAI.BaseURL,
		APIKey:      cfg.OpenAI.APIKey,
		Model:       cfg.OpenAI.Model,
		Temperature: cfg.OpenAI.Temperature,
		MaxTokens:   cfg.OpenAI.MaxTokens,
		Timeout:     cfg.OpenAI.Timeout,
	})
	client.SetLogger(l)
	return client
}

// ProvideExplainAdapter wraps the delegate with timeout and fallback.
func ProvideExplainAdapter(delegate domsvc.ExplanationDelegate, l *applogger.Logger, m domrepo.Metrics) *explain.Adapter {
	adapter := explain.NewAdapter(delegate)
	adapter.SetLogger(l)
	adapter.SetMetrics(m)
	return adapter
}

// ProvidePredictor wires the prediction pipeline.
func ProvidePredictor(
	cfg *config.Config,
	prices domrepo.PriceHistoryProvider,
	news domrepo.NewsSentimentProvider,
	store domrepo.PredictionStore,
	adapter *explain.Adapter,
	publisher domrepo.PredictionPublisher,
	m domrepo.Metrics,
	l *applogger.Logger,
) *usecase.Predictor {
	p := usecase.NewPredictor(prices, store, adapter)
	if news != nil {
		p.SetNewsProvider(news)
	}
	if publisher != nil {
		p.SetPublisher(publisher)
	}
	p.SetMetrics(m)
	p.SetLogger(l)
	p.SetTTL(cfg.Prediction.TTL)
	p.SetLookbackDays(cfg.MarketData.LookbackDays)
	p.SetNewsWindow(cfg.News.Window)
	return p
}

// ProvideApp assembles the application with its health checks.
func ProvideApp(
	cfg *config.Config,
	l *applogger.Logger,
	predictor *usecase.Predictor,
	chClient *pkgch.Client,
	rdb *redis.Client,
	publisher domrepo.PredictionPublisher,
) *server.App {
	app := server.New(cfg, l, predictor)

	if chClient != nil {
		app.SetClickHouseClient(chClient)
		app.AddHealthCheck("clickhouse", chClient.Health)
	}
	if rdb != nil {
		app.AddHealthCheck("redis", func(ctx context.Context) error {
			return rdb.Ping(ctx).Err()
		})
	}
	if publisher != nil {
		app.SetPublisher(publisher)
	}

	return app
}
