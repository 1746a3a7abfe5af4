package models

// MACD holds the MACD line, its 9-period signal line, and the histogram
// (line minus signal).
type MACD struct {
	Value     float64 `json:"value"`
	Signal    float64 `json:"signal"`
	Histogram float64 `json:"histogram"`
}

// MovingAverages groups the simple moving averages over 7, 30 and 90 closes.
// A nil field means the series was too short for that window.
type MovingAverages struct {
	MA7  *float64 `json:"ma7"`
	MA30 *float64 `json:"ma30"`
	MA90 *float64 `json:"ma90"`
}

// IndicatorSet is the full feature vector computed from a price history.
// Nullable fields degrade independently: a short series yields nil MACD or
// volatility without failing the whole computation. An IndicatorSet is never
// stored on its own, only embedded in a Prediction.
type IndicatorSet struct {
	PriceMovingAverage   MovingAverages `json:"priceMovingAverage"`
	RSI                  *float64       `json:"rsi"`
	MACD                 *MACD          `json:"macd"`
	HistoricalVolatility *float64       `json:"historicalVolatility"`
	AverageVolume        float64        `json:"averageVolume"`
	SentimentScore       float64        `json:"sentimentScore"`
}
