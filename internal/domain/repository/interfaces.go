package repository

import (
	"context"

	"StockPulse/internal/domain/models"
)

// PriceHistoryProvider supplies price series and quotes for a symbol.
// GetLatestPrice returns models.ErrStockNotFound for unknown symbols.
type PriceHistoryProvider interface {
	GetHistory(ctx context.Context, symbol string, lookbackDays int) ([]models.PriceBar, error)
	GetLatestPrice(ctx context.Context, symbol string) (float64, error)
}

// NewsSentimentProvider returns up to limit most recent scored news items
// for a symbol, newest first.
type NewsSentimentProvider interface {
	GetRecentSentiments(ctx context.Context, symbol string, limit int) ([]models.SentimentRecord, error)
}

// PredictionStore persists generated predictions. GetLatest returns the most
// recently generated prediction regardless of freshness, or (nil, nil) when
// none exists; the orchestrator alone decides staleness.
type PredictionStore interface {
	GetLatest(ctx context.Context, symbol string) (*models.Prediction, error)
	Save(ctx context.Context, p *models.Prediction) error
}

// PredictionPublisher emits newly generated predictions to downstream
// consumers. Publishing is best-effort and never fails a request.
type PredictionPublisher interface {
	Publish(ctx context.Context, p *models.Prediction) error
	Close() error
}

// Metrics records pipeline observations.
type Metrics interface {
	RecordCacheHit(symbol string)
	RecordCacheMiss(symbol string)
	RecordGenerationLatency(symbol string, seconds float64)
	RecordDelegateFallback()
	RecordError(kind string)
	RecordPredictedPrice(symbol, horizon string, price float64)
}
