package forecast

import "StockPulse/internal/domain/models"

const (
	// fallbackVolatility substitutes for an unavailable historical volatility.
	fallbackVolatility = 0.2

	// directionEpsilon separates up/down from neutral on the change fraction.
	directionEpsilon = 0.001

	dayScale   = 0.02
	weekScale  = 0.05
	monthScale = 0.10

	dayBaseConfidence   = 0.75
	weekBaseConfidence  = 0.65
	monthBaseConfidence = 0.55
)

// Project combines the indicator signals into a bounded directional score
// and projects next-day/week/month prices. Deterministic and side-effect
// free. Confidence is deliberately not clamped to [0,1]; extreme volatility
// can drive it negative. Missing ma7/ma30 or MACD score as bearish, matching
// the upstream signal model this heuristic replicates.
func Project(currentPrice float64, ind models.IndicatorSet) models.Forecasts {
	combined := (trendScore(ind) + rsiScore(ind) + macdScore(ind)) / 3

	vol := fallbackVolatility
	if ind.HistoricalVolatility != nil && *ind.HistoricalVolatility != 0 {
		vol = *ind.HistoricalVolatility
	}

	return models.Forecasts{
		NextDay:   project(currentPrice, combined*vol*dayScale, dayBaseConfidence-vol*0.5),
		NextWeek:  project(currentPrice, combined*vol*weekScale, weekBaseConfidence-vol*0.5),
		NextMonth: project(currentPrice, combined*vol*monthScale, monthBaseConfidence-vol*0.5),
	}
}

func project(currentPrice, changeFraction, confidence float64) models.ForecastPoint {
	return models.ForecastPoint{
		Price:         currentPrice * (1 + changeFraction),
		Change:        currentPrice * changeFraction,
		ChangePercent: changeFraction * 100,
		Confidence:    confidence,
		Direction:     direction(changeFraction),
	}
}

// trendScore is +1 when ma7 > ma30, else -1. A nil average makes the
// comparison false and therefore scores -1.
func trendScore(ind models.IndicatorSet) float64 {
	ma := ind.PriceMovingAverage
	if ma.MA7 != nil && ma.MA30 != nil && *ma.MA7 > *ma.MA30 {
		return 1
	}
	return -1
}

// rsiScore is +1 below 30 (oversold), -1 above 70 (overbought), 0 between.
// A nil RSI scores 0.
func rsiScore(ind models.IndicatorSet) float64 {
	if ind.RSI == nil {
		return 0
	}
	switch {
	case *ind.RSI < 30:
		return 1
	case *ind.RSI > 70:
		return -1
	}
	return 0
}

// macdScore is +1 on a positive histogram, -1 otherwise including nil MACD.
func macdScore(ind models.IndicatorSet) float64 {
	if ind.MACD != nil && ind.MACD.Histogram > 0 {
		return 1
	}
	return -1
}

func direction(changeFraction float64) models.Direction {
	switch {
	case changeFraction > directionEpsilon:
		return models.DirectionUp
	case changeFraction < -directionEpsilon:
		return models.DirectionDown
	}
	return models.DirectionNeutral
}
