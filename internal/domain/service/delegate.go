package service

import (
	"context"

	"StockPulse/internal/domain/models"
)

// PromptContext carries everything the explanation delegate sees: the symbol,
// its display name, the current price, the three forecasts and the computed
// indicators.
type PromptContext struct {
	Symbol       string
	Name         string
	CurrentPrice float64
	Forecasts    models.Forecasts
	Indicators   models.IndicatorSet
}

// ExplanationPayload is the structured response expected from the delegate.
type ExplanationPayload struct {
	Summary       string   `json:"summary"`
	KeyFactors    []string `json:"keyFactors"`
	Risks         []string `json:"risks"`
	Opportunities []string `json:"opportunities"`
}

// ExplanationDelegate generates a narrative for a prediction. Any error is
// absorbed by the caller's deterministic fallback and never surfaces.
type ExplanationDelegate interface {
	Generate(ctx context.Context, pc PromptContext) (ExplanationPayload, error)
}
