package indicators

import (
	"math"

	"StockPulse/internal/domain/models"
)

const (
	// MinBars is the hard precondition for computing any indicator set.
	MinBars = 30

	rsiPeriod        = 14
	volatilityPeriod = 30
	macdFastPeriod   = 12
	macdSlowPeriod   = 26
	macdSignalPeriod = 9

	// tradingDaysPerYear annualizes daily volatility.
	tradingDaysPerYear = 252
)

// Calculate computes the full indicator set from an ascending daily price
// series. It fails only when fewer than MinBars bars are available; every
// other shortfall degrades to a nil field. SentimentScore is left zero and
// filled in by the caller.
func Calculate(symbol string, bars []models.PriceBar) (models.IndicatorSet, error) {
	if len(bars) < MinBars {
		return models.IndicatorSet{}, &models.InsufficientDataError{Symbol: symbol, Have: len(bars), Need: MinBars}
	}

	closes := make([]float64, len(bars))
	var volumeSum float64
	for i, b := range bars {
		closes[i] = b.Close
		volumeSum += float64(b.Volume)
	}

	return models.IndicatorSet{
		PriceMovingAverage: models.MovingAverages{
			MA7:  SMA(closes, 7),
			MA30: SMA(closes, 30),
			MA90: SMA(closes, 90),
		},
		RSI:                  RSI(closes, rsiPeriod),
		MACD:                 MACD(closes),
		HistoricalVolatility: HistoricalVolatility(closes, volatilityPeriod),
		AverageVolume:        volumeSum / float64(len(bars)),
	}, nil
}

// SMA returns the simple moving average of the last period values, or nil
// when the series is shorter than period.
func SMA(values []float64, period int) *float64 {
	if len(values) < period {
		return nil
	}
	var sum float64
	for _, v := range values[len(values)-period:] {
		sum += v
	}
	out := sum / float64(period)
	return &out
}

// EMA returns the exponential moving average seeded with the SMA of the
// first period values, or nil when the series is shorter than period.
func EMA(values []float64, period int) *float64 {
	if len(values) < period {
		return nil
	}
	var sum float64
	for _, v := range values[:period] {
		sum += v
	}
	ema := sum / float64(period)

	multiplier := 2 / float64(period+1)
	for _, v := range values[period:] {
		ema = (v-ema)*multiplier + ema
	}
	return &ema
}

// RSI computes the Relative Strength Index over the last period deltas.
// A window with zero losses is defined as RSI 100, not a division fault.
func RSI(closes []float64, period int) *float64 {
	if len(closes) < period+1 {
		return nil
	}

	var gains, losses float64
	for i := len(closes) - period; i < len(closes); i++ {
		change := closes[i] - closes[i-1]
		if change > 0 {
			gains += change
		} else {
			losses += math.Abs(change)
		}
	}

	avgGain := gains / float64(period)
	avgLoss := losses / float64(period)

	out := 100.0
	if avgLoss != 0 {
		rs := avgGain / avgLoss
		out = 100 - 100/(1+rs)
	}
	return &out
}

// MACD computes the 12/26 MACD line, the 9-period signal line and the
// histogram. The signal line is the EMA of the trailing MACD series obtained
// by re-deriving EMA12/EMA26 over every growing prefix from index 26 onward.
// Returns nil when fewer than 26 closes are available.
func MACD(closes []float64) *models.MACD {
	if len(closes) < macdSlowPeriod {
		return nil
	}

	ema12 := EMA(closes, macdFastPeriod)
	ema26 := EMA(closes, macdSlowPeriod)
	line := *ema12 - *ema26

	var history []float64
	for i := macdSlowPeriod; i < len(closes); i++ {
		prefix := closes[:i+1]
		e12 := EMA(prefix, macdFastPeriod)
		e26 := EMA(prefix, macdSlowPeriod)
		history = append(history, *e12-*e26)
	}

	var signal float64
	if s := EMA(history, macdSignalPeriod); s != nil {
		signal = *s
	}

	return &models.MACD{
		Value:     line,
		Signal:    signal,
		Histogram: line - signal,
	}
}

// HistoricalVolatility computes annualized volatility from the last period
// log returns, or nil when the series is shorter than period.
func HistoricalVolatility(closes []float64, period int) *float64 {
	if len(closes) < period {
		return nil
	}

	returns := make([]float64, 0, len(closes)-1)
	for i := 1; i < len(closes); i++ {
		returns = append(returns, math.Log(closes[i]/closes[i-1]))
	}

	recent := returns
	if len(recent) > period {
		recent = recent[len(recent)-period:]
	}

	var sum float64
	for _, r := range recent {
		sum += r
	}
	mean := sum / float64(period)

	var variance float64
	for _, r := range recent {
		variance += (r - mean) * (r - mean)
	}
	variance /= float64(period)

	out := math.Sqrt(variance) * math.Sqrt(tradingDaysPerYear)
	return &out
}
