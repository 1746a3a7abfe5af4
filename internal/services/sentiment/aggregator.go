package sentiment

import "StockPulse/internal/domain/models"

// Aggregate averages the sentiment scores present in the given records.
// Records without a score are skipped; no records (or no scored records)
// is a defined zero result, never an error.
func Aggregate(records []models.SentimentRecord) float64 {
	var sum float64
	var n int
	for _, r := range records {
		if r.Score == nil {
			continue
		}
		sum += *r.Score
		n++
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}
