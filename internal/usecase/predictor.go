package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/singleflight"

	"StockPulse/internal/domain/models"
	domrepo "StockPulse/internal/domain/repository"
	domsvc "StockPulse/internal/domain/service"
	"StockPulse/internal/services/explain"
	"StockPulse/internal/services/forecast"
	"StockPulse/internal/services/indicators"
	"StockPulse/internal/services/sentiment"
	applogger "StockPulse/pkg/logger"
	"StockPulse/pkg/util"
)

const (
	defaultTTL          = 6 * time.Hour
	defaultLookbackDays = 90
	defaultNewsWindow   = 20

	modelType     = "ensemble"
	modelVersion  = "1.0.0"
	modelAccuracy = 0.72
)

// Predictor orchestrates the prediction pipeline: serve the stored
// prediction while fresh, otherwise recompute, persist and return the new
// one. Concurrent requests for the same symbol collapse into one
// computation.
type Predictor struct {
	prices    domrepo.PriceHistoryProvider
	news      domrepo.NewsSentimentProvider
	store     domrepo.PredictionStore
	explainer *explain.Adapter
	publisher domrepo.PredictionPublisher
	metrics   domrepo.Metrics
	l         *applogger.Logger

	now          func() time.Time
	ttl          time.Duration
	lookbackDays int
	newsWindow   int
	group        singleflight.Group
}

// NewPredictor wires the pipeline. The news provider, publisher, metrics and
// logger are optional.
func NewPredictor(
	prices domrepo.PriceHistoryProvider,
	store domrepo.PredictionStore,
	explainer *explain.Adapter,
) *Predictor {
	return &Predictor{
		prices:       prices,
		store:        store,
		explainer:    explainer,
		now:          time.Now,
		ttl:          defaultTTL,
		lookbackDays: defaultLookbackDays,
		newsWindow:   defaultNewsWindow,
	}
}

// SetNewsProvider enables sentiment enrichment.
func (p *Predictor) SetNewsProvider(news domrepo.NewsSentimentProvider) { p.news = news }

// SetPublisher enables best-effort downstream publishing.
func (p *Predictor) SetPublisher(pub domrepo.PredictionPublisher) { p.publisher = pub }

// SetMetrics injects a metrics recorder.
func (p *Predictor) SetMetrics(m domrepo.Metrics) { p.metrics = m }

// SetLogger injects a structured logger.
func (p *Predictor) SetLogger(l *applogger.Logger) { p.l = l }

// SetTTL overrides how long a generated prediction stays fresh.
func (p *Predictor) SetTTL(ttl time.Duration) {
	if ttl > 0 {
		p.ttl = ttl
	}
}

// SetLookbackDays overrides the history window.
func (p *Predictor) SetLookbackDays(days int) {
	if days > 0 {
		p.lookbackDays = days
	}
}

// SetNewsWindow overrides how many news items feed the sentiment score.
func (p *Predictor) SetNewsWindow(n int) {
	if n > 0 {
		p.newsWindow = n
	}
}

// SetClock overrides the time source. Used by tests.
func (p *Predictor) SetClock(now func() time.Time) {
	if now != nil {
		p.now = now
	}
}

// GetOrGenerate returns the current prediction for a symbol, computing a new
// one only when none exists or the stored one has expired.
func (p *Predictor) GetOrGenerate(ctx context.Context, symbol string, level models.AccessLevel) (*models.Prediction, error) {
	symbol = util.NormalizeSymbol(symbol)
	if !level.Valid() {
		level = models.AccessFree
	}

	if cached, err := p.lookup(ctx, symbol); err == nil && cached != nil {
		if p.metrics != nil {
			p.metrics.RecordCacheHit(symbol)
		}
		return cached, nil
	}
	if p.metrics != nil {
		p.metrics.RecordCacheMiss(symbol)
	}

	v, err, _ := p.group.Do(symbol, func() (interface{}, error) {
		// Another caller may have finished a recompute while this one
		// waited for the flight slot.
		if cached, err := p.lookup(ctx, symbol); err == nil && cached != nil {
			return cached, nil
		}
		return p.generate(ctx, symbol, level)
	})
	if err != nil {
		if p.metrics != nil {
			p.metrics.RecordError(errorKind(err))
		}
		return nil, err
	}
	return v.(*models.Prediction), nil
}

// lookup returns the stored prediction only when it is still fresh.
func (p *Predictor) lookup(ctx context.Context, symbol string) (*models.Prediction, error) {
	stored, err := p.store.GetLatest(ctx, symbol)
	if err != nil {
		if p.l != nil {
			p.l.Warn("prediction store lookup failed",
				applogger.String("symbol", symbol),
				applogger.Error(err))
		}
		return nil, err
	}
	if stored == nil || !stored.Fresh(p.now()) {
		return nil, nil
	}
	return stored, nil
}

func (p *Predictor) generate(ctx context.Context, symbol string, level models.AccessLevel) (*models.Prediction, error) {
	started := p.now()

	currentPrice, err := p.prices.GetLatestPrice(ctx, symbol)
	if err != nil {
		return nil, err
	}

	history, err := p.prices.GetHistory(ctx, symbol, p.lookbackDays)
	if err != nil {
		return nil, fmt.Errorf("load history %s: %w", symbol, err)
	}

	features, err := indicators.Calculate(symbol, history)
	if err != nil {
		return nil, err
	}
	features.SentimentScore = p.sentimentScore(ctx, symbol)

	forecasts := forecast.Project(currentPrice, features)

	pc := domsvc.PromptContext{
		Symbol:       symbol,
		Name:         symbol,
		CurrentPrice: currentPrice,
		Forecasts:    forecasts,
		Indicators:   features,
	}
	explanation := p.explainer.Generate(ctx, pc)

	generatedAt := p.now()
	pred := &models.Prediction{
		Symbol:       symbol,
		CurrentPrice: currentPrice,
		Forecasts:    forecasts,
		Features:     features,
		Model: models.ModelMeta{
			Type:         modelType,
			Version:      modelVersion,
			Accuracy:     modelAccuracy,
			TrainingDate: generatedAt,
		},
		Explanation:      explanation,
		GeneratedAt:      generatedAt,
		ExpiresAt:        generatedAt.Add(p.ttl),
		ProcessingTimeMs: generatedAt.Sub(started).Milliseconds(),
		DataPointCount:   len(history),
		AccessLevel:      level,
	}

	if err := p.store.Save(ctx, pred); err != nil {
		return nil, fmt.Errorf("persist prediction %s: %w", symbol, err)
	}

	p.publish(ctx, pred)
	p.observe(pred)

	if p.l != nil {
		p.l.Info("prediction generated",
			applogger.String("symbol", symbol),
			applogger.Int("dataPoints", pred.DataPointCount),
			applogger.Int64("processingMs", pred.ProcessingTimeMs),
			applogger.Bool("llmExplanation", pred.Explanation.LLMGenerated))
	}
	return pred, nil
}

func (p *Predictor) sentimentScore(ctx context.Context, symbol string) float64 {
	if p.news == nil {
		return 0
	}
	records, err := p.news.GetRecentSentiments(ctx, symbol, p.newsWindow)
	if err != nil {
		if p.l != nil {
			p.l.Warn("news sentiment unavailable",
				applogger.String("symbol", symbol),
				applogger.Error(err))
		}
		return 0
	}
	return sentiment.Aggregate(records)
}

func (p *Predictor) publish(ctx context.Context, pred *models.Prediction) {
	if p.publisher == nil {
		return
	}
	if err := p.publisher.Publish(ctx, pred); err != nil {
		if p.l != nil {
			p.l.Warn("prediction publish failed",
				applogger.String("symbol", pred.Symbol),
				applogger.Error(err))
		}
		if p.metrics != nil {
			p.metrics.RecordError("publish")
		}
	}
}

func (p *Predictor) observe(pred *models.Prediction) {
	if p.metrics == nil {
		return
	}
	p.metrics.RecordGenerationLatency(pred.Symbol, float64(pred.ProcessingTimeMs)/1000)
	p.metrics.RecordPredictedPrice(pred.Symbol, "nextDay", pred.Forecasts.NextDay.Price)
	p.metrics.RecordPredictedPrice(pred.Symbol, "nextWeek", pred.Forecasts.NextWeek.Price)
	p.metrics.RecordPredictedPrice(pred.Symbol, "nextMonth", pred.Forecasts.NextMonth.Price)
}

func errorKind(err error) string {
	switch {
	case models.IsInsufficientData(err):
		return "insufficient_data"
	case errors.Is(err, models.ErrStockNotFound):
		return "not_found"
	default:
		return "internal"
	}
}
