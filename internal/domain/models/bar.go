package models

import "time"

// PriceBar is a single daily OHLCV record for a symbol, ordered ascending by
// date with no duplicate dates. Bars are immutable once recorded.
type PriceBar struct {
	Date   time.Time `json:"date"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume int64     `json:"volume"`
}

// SentimentRecord is one scored news item for a symbol. Score is in [-1, 1]
// and may be absent when the upstream feed carries no sentiment.
type SentimentRecord struct {
	Score       *float64  `json:"score,omitempty"`
	Label       string    `json:"label,omitempty"`
	PublishedAt time.Time `json:"publishedAt,omitempty"`
}
