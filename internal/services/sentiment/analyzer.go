package sentiment

import "strings"

var positiveWords = []string{
	"gain", "profit", "growth", "surge", "rally", "bullish", "upgrade",
	"beat", "strong", "positive", "rise", "increase", "up",
}

var negativeWords = []string{
	"loss", "decline", "fall", "drop", "bearish", "downgrade", "miss",
	"weak", "negative", "down", "decrease", "crash",
}

// Analysis is the outcome of keyword sentiment scoring.
type Analysis struct {
	Score      float64
	Label      string
	Confidence float64
}

// Analyze scores a headline or article body by keyword matching. Used when
// the news feed carries no precomputed sentiment. Score is
// (positive − negative) / total matches; no matches yields a neutral zero.
func Analyze(text string) Analysis {
	words := tokenize(strings.ToLower(text))

	var pos, neg int
	for _, w := range words {
		for _, p := range positiveWords {
			if w == p {
				pos++
			}
		}
		for _, n := range negativeWords {
			if w == n {
				neg++
			}
		}
	}

	total := pos + neg
	if total == 0 {
		return Analysis{Score: 0, Label: "neutral", Confidence: 0.5}
	}

	score := float64(pos-neg) / float64(total)
	label := "neutral"
	switch {
	case score > 0.2:
		label = "positive"
	case score < -0.2:
		label = "negative"
	}
	return Analysis{Score: score, Label: label, Confidence: abs(score)}
}

func tokenize(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9')
	})
}

func abs(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}
