package repository

import (
	"context"
	"sync"

	"StockPulse/internal/domain/models"
	domrepo "StockPulse/internal/domain/repository"
	"StockPulse/pkg/util"
)

// MemoryPredictionStore keeps the latest prediction per symbol in memory.
// Entries are never evicted; the orchestrator decides staleness.
type MemoryPredictionStore struct {
	mu   sync.RWMutex
	data map[string]*models.Prediction
}

// NewMemoryPredictionStore creates an empty in-memory store.
func NewMemoryPredictionStore() *MemoryPredictionStore {
	return &MemoryPredictionStore{data: make(map[string]*models.Prediction)}
}

// GetLatest returns the stored prediction for a symbol, or (nil, nil).
func (s *MemoryPredictionStore) GetLatest(_ context.Context, symbol string) (*models.Prediction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.data[util.NormalizeSymbol(symbol)]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

// Save stores a prediction, replacing any previous one for the symbol.
func (s *MemoryPredictionStore) Save(_ context.Context, p *models.Prediction) error {
	cp := *p

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[util.NormalizeSymbol(p.Symbol)] = &cp
	return nil
}

var _ domrepo.PredictionStore = (*MemoryPredictionStore)(nil)
