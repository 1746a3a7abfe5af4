package models

import "time"

// Direction is the predicted price direction for a horizon.
type Direction string

const (
	DirectionUp      Direction = "up"
	DirectionDown    Direction = "down"
	DirectionNeutral Direction = "neutral"
)

// AccessLevel is the subscription tier a prediction is gated behind.
type AccessLevel string

const (
	AccessFree  AccessLevel = "free"
	AccessBasic AccessLevel = "basic"
	AccessPro   AccessLevel = "pro"
	AccessElite AccessLevel = "elite"
)

var accessRank = map[AccessLevel]int{
	AccessFree:  0,
	AccessBasic: 1,
	AccessPro:   2,
	AccessElite: 3,
}

// Rank returns the ordinal position of the tier; unknown tiers rank below free.
func (a AccessLevel) Rank() int {
	if r, ok := accessRank[a]; ok {
		return r
	}
	return -1
}

// Valid reports whether the tier is one of the four known levels.
func (a AccessLevel) Valid() bool {
	_, ok := accessRank[a]
	return ok
}

// AtLeast reports whether tier a grants access to content gated at tier b.
func (a AccessLevel) AtLeast(b AccessLevel) bool {
	return a.Rank() >= b.Rank()
}

// ForecastPoint is a projected price for one horizon.
type ForecastPoint struct {
	Price         float64   `json:"price"`
	Change        float64   `json:"change"`
	ChangePercent float64   `json:"changePercent"`
	Confidence    float64   `json:"confidence"`
	Direction     Direction `json:"direction"`
}

// Forecasts holds the three projection horizons.
type Forecasts struct {
	NextDay   ForecastPoint `json:"nextDay"`
	NextWeek  ForecastPoint `json:"nextWeek"`
	NextMonth ForecastPoint `json:"nextMonth"`
}

// Explanation is the narrative attached to a prediction. LLMGenerated is
// false when the deterministic fallback produced it.
type Explanation struct {
	Summary       string   `json:"summary"`
	KeyFactors    []string `json:"keyFactors"`
	Risks         []string `json:"risks"`
	Opportunities []string `json:"opportunities"`
	LLMGenerated  bool     `json:"llmGenerated"`
}

// ModelMeta describes the model that produced a prediction.
type ModelMeta struct {
	Type         string    `json:"type"`
	Version      string    `json:"version"`
	Accuracy     float64   `json:"accuracy"`
	TrainingDate time.Time `json:"trainingDate"`
}

// Prediction is the complete generated artifact for a symbol. It is immutable
// after creation and usable only while now <= ExpiresAt.
type Prediction struct {
	Symbol           string       `json:"symbol"`
	CurrentPrice     float64      `json:"currentPrice"`
	Forecasts        Forecasts    `json:"predictions"`
	Features         IndicatorSet `json:"features"`
	Model            ModelMeta    `json:"model"`
	Explanation      Explanation  `json:"explanation"`
	GeneratedAt      time.Time    `json:"generatedAt"`
	ExpiresAt        time.Time    `json:"expiresAt"`
	ProcessingTimeMs int64        `json:"processingTimeMs"`
	DataPointCount   int          `json:"dataPointCount"`
	AccessLevel      AccessLevel  `json:"accessLevel"`
}

// Fresh reports whether the prediction is still usable at the given instant.
func (p *Prediction) Fresh(now time.Time) bool {
	return !now.After(p.ExpiresAt)
}

// OverallConfidence averages the per-horizon confidences.
func (p *Prediction) OverallConfidence() float64 {
	sum := p.Forecasts.NextDay.Confidence +
		p.Forecasts.NextWeek.Confidence +
		p.Forecasts.NextMonth.Confidence
	return sum / 3
}
