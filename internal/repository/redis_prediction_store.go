package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"StockPulse/internal/domain/models"
	domrepo "StockPulse/internal/domain/repository"
	applogger "StockPulse/pkg/logger"
	"StockPulse/pkg/util"
)

const predictionKeyPrefix = "prediction:latest:"

// RedisPredictionStore persists the latest prediction per symbol as JSON in
// Redis. Keys expire slightly after the prediction itself so a just-expired
// prediction is still readable for recompute decisions.
type RedisPredictionStore struct {
	client *redis.Client
	grace  time.Duration
	l      *applogger.Logger
}

// NewRedisPredictionStore creates a Redis-backed prediction store.
func NewRedisPredictionStore(client *redis.Client) *RedisPredictionStore {
	return &RedisPredictionStore{
		client: client,
		grace:  time.Hour,
	}
}

// SetLogger injects a structured logger.
func (s *RedisPredictionStore) SetLogger(l *applogger.Logger) { s.l = l }

// GetLatest returns the stored prediction for a symbol, or (nil, nil).
func (s *RedisPredictionStore) GetLatest(ctx context.Context, symbol string) (*models.Prediction, error) {
	key := predictionKeyPrefix + util.NormalizeSymbol(symbol)

	raw, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get %s: %w", key, err)
	}

	var p models.Prediction
	if err := json.Unmarshal(raw, &p); err != nil {
		if s.l != nil {
			s.l.Warn("dropping corrupt prediction entry",
				applogger.String("key", key),
				applogger.Error(err))
		}
		return nil, nil
	}
	return &p, nil
}

// Save stores a prediction with a TTL covering its validity plus grace.
func (s *RedisPredictionStore) Save(ctx context.Context, p *models.Prediction) error {
	raw, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal prediction: %w", err)
	}

	ttl := time.Until(p.ExpiresAt) + s.grace
	if ttl <= 0 {
		ttl = s.grace
	}

	key := predictionKeyPrefix + util.NormalizeSymbol(p.Symbol)
	if err := s.client.Set(ctx, key, raw, ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

// Health pings the Redis server.
func (s *RedisPredictionStore) Health(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

var _ domrepo.PredictionStore = (*RedisPredictionStore)(nil)
