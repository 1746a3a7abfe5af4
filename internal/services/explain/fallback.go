package explain

import (
	"fmt"

	"StockPulse/internal/domain/models"
	domsvc "StockPulse/internal/domain/service"
)

// Fallback builds a deterministic explanation from the computed indicators
// and the next-week forecast. This is the terminal error boundary of the
// explanation step: it cannot fail.
func Fallback(pc domsvc.PromptContext) models.Explanation {
	week := pc.Forecasts.NextWeek

	macdSignal := "Bearish"
	if pc.Indicators.MACD != nil && pc.Indicators.MACD.Histogram > 0 {
		macdSignal = "Bullish"
	}

	var volPct float64
	if pc.Indicators.HistoricalVolatility != nil {
		volPct = *pc.Indicators.HistoricalVolatility * 100
	}

	opportunity := "Potential buying opportunity"
	if week.Direction == models.DirectionUp {
		opportunity = "Potential upward trend"
	}

	return models.Explanation{
		Summary: fmt.Sprintf("Based on technical analysis, %s shows %s momentum with %.0f%% confidence.",
			pc.Symbol, week.Direction, week.Confidence*100),
		KeyFactors: []string{
			fmt.Sprintf("Current RSI: %s", fmtFloat(pc.Indicators.RSI)),
			fmt.Sprintf("MACD signal: %s", macdSignal),
			fmt.Sprintf("Volatility: %.2f%%", volPct),
		},
		Risks: []string{
			"Market volatility may affect accuracy",
			"External events not factored in model",
		},
		Opportunities: []string{opportunity},
		LLMGenerated:  false,
	}
}
