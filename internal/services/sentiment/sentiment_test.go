package sentiment

import (
	"math"
	"testing"
	"time"

	"StockPulse/internal/domain/models"
)

func score(v float64) *float64 { return &v }

func TestAggregateAveragesPresentScores(t *testing.T) {
	records := []models.SentimentRecord{
		{Score: score(0.5), PublishedAt: time.Now()},
		{Score: score(-0.1)},
		{Score: nil},
		{Score: score(0.2)},
	}

	got := Aggregate(records)
	want := (0.5 - 0.1 + 0.2) / 3
	if math.Abs(got-want) > 1e-12 {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestAggregateEmpty(t *testing.T) {
	if got := Aggregate(nil); got != 0 {
		t.Fatalf("expected 0 for no records, got %v", got)
	}
	if got := Aggregate([]models.SentimentRecord{{}, {}}); got != 0 {
		t.Fatalf("expected 0 for unscored records, got %v", got)
	}
}

func TestAnalyzePositive(t *testing.T) {
	got := Analyze("Shares surge on strong earnings beat")
	if got.Score <= 0 {
		t.Fatalf("expected positive score, got %v", got.Score)
	}
	if got.Label != "positive" {
		t.Fatalf("expected positive label, got %q", got.Label)
	}
}

func TestAnalyzeNegative(t *testing.T) {
	got := Analyze("Stock in decline after weak guidance, downgrade follows")
	if got.Score >= 0 {
		t.Fatalf("expected negative score, got %v", got.Score)
	}
	if got.Label != "negative" {
		t.Fatalf("expected negative label, got %q", got.Label)
	}
}

func TestAnalyzeMixed(t *testing.T) {
	got := Analyze("gain loss")
	if got.Score != 0 {
		t.Fatalf("expected zero score, got %v", got.Score)
	}
	if got.Label != "neutral" {
		t.Fatalf("expected neutral label, got %q", got.Label)
	}
}

func TestAnalyzeNoMatches(t *testing.T) {
	got := Analyze("the quarterly report was published")
	if got.Score != 0 || got.Label != "neutral" || got.Confidence != 0.5 {
		t.Fatalf("unexpected analysis %+v", got)
	}
}

func TestAnalyzeCaseInsensitive(t *testing.T) {
	lower := Analyze("bullish rally")
	upper := Analyze("BULLISH RALLY")
	if lower.Score != upper.Score {
		t.Fatalf("case must not matter: %v vs %v", lower.Score, upper.Score)
	}
}
