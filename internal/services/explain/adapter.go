package explain

import (
	"context"
	"time"

	"StockPulse/internal/domain/models"
	domrepo "StockPulse/internal/domain/repository"
	domsvc "StockPulse/internal/domain/service"
	applogger "StockPulse/pkg/logger"
)

const defaultTimeout = 15 * time.Second

// Adapter turns delegate output into an Explanation. The delegate call is
// time-bounded; any failure or unusable payload falls back to the
// deterministic template, so Generate always returns a usable explanation.
type Adapter struct {
	delegate domsvc.ExplanationDelegate
	timeout  time.Duration
	l        *applogger.Logger
	metrics  domrepo.Metrics
}

// NewAdapter creates an adapter around the given delegate. A nil delegate is
// allowed and always falls back.
func NewAdapter(delegate domsvc.ExplanationDelegate) *Adapter {
	return &Adapter{delegate: delegate, timeout: defaultTimeout}
}

// SetLogger injects a structured logger.
func (a *Adapter) SetLogger(l *applogger.Logger) { a.l = l }

// SetMetrics injects a metrics recorder.
func (a *Adapter) SetMetrics(m domrepo.Metrics) { a.metrics = m }

// SetTimeout bounds the delegate call.
func (a *Adapter) SetTimeout(d time.Duration) {
	if d > 0 {
		a.timeout = d
	}
}

// Generate produces the explanation for a prediction. Never fails.
func (a *Adapter) Generate(ctx context.Context, pc domsvc.PromptContext) models.Explanation {
	if a.delegate == nil {
		return Fallback(pc)
	}

	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	payload, err := a.delegate.Generate(ctx, pc)
	if err != nil {
		a.fellBack(pc.Symbol, err)
		return Fallback(pc)
	}
	if !usable(payload) {
		a.fellBack(pc.Symbol, nil)
		return Fallback(pc)
	}

	return models.Explanation{
		Summary:       payload.Summary,
		KeyFactors:    payload.KeyFactors,
		Risks:         payload.Risks,
		Opportunities: payload.Opportunities,
		LLMGenerated:  true,
	}
}

// usable enforces the four required fields of the delegate contract.
func usable(p domsvc.ExplanationPayload) bool {
	return p.Summary != "" && len(p.KeyFactors) > 0 && len(p.Risks) > 0 && len(p.Opportunities) > 0
}

func (a *Adapter) fellBack(symbol string, err error) {
	if a.metrics != nil {
		a.metrics.RecordDelegateFallback()
	}
	if a.l == nil {
		return
	}
	if err != nil {
		a.l.Warn("explanation delegate failed, using fallback",
			applogger.String("symbol", symbol), applogger.Error(err))
		return
	}
	a.l.Warn("explanation delegate returned unusable payload, using fallback",
		applogger.String("symbol", symbol))
}
