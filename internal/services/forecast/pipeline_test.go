package forecast

import (
	"math"
	"testing"
	"time"

	"StockPulse/internal/domain/models"
	"StockPulse/internal/services/indicators"
)

// Feeds a strictly ascending 30-bar series through the indicator engine and
// the projection, checking the combined signal end to end.
func TestAscendingSeriesProjection(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	bars := make([]models.PriceBar, 30)
	for i := range bars {
		bars[i] = models.PriceBar{
			Date:   start.AddDate(0, 0, i),
			Close:  100 + float64(i),
			Volume: 1_000_000,
		}
	}

	ind, err := indicators.Calculate("AAPL", bars)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Monotone rise: ma7 > ma30, RSI exactly 100, positive macd histogram.
	if *ind.PriceMovingAverage.MA7 <= *ind.PriceMovingAverage.MA30 {
		t.Fatalf("ascending series must have ma7 > ma30")
	}
	if *ind.RSI != 100 {
		t.Fatalf("expected rsi 100, got %v", *ind.RSI)
	}
	if ind.MACD.Histogram <= 0 {
		t.Fatalf("expected positive histogram, got %v", ind.MACD.Histogram)
	}

	got := Project(129, ind)

	// trend +1, rsi -1 (overbought), macd +1 combine to 1/3.
	vol := *ind.HistoricalVolatility
	wantDay := (1.0 / 3.0) * vol * dayScale
	if math.Abs(got.NextDay.ChangePercent-wantDay*100) > 1e-9 {
		t.Fatalf("unexpected day change percent %v, want %v", got.NextDay.ChangePercent, wantDay*100)
	}
	for _, fp := range []models.ForecastPoint{got.NextDay, got.NextWeek, got.NextMonth} {
		if fp.Change < 0 {
			t.Fatalf("positive combined score must not project downward, got %v", fp.Change)
		}
	}
}
