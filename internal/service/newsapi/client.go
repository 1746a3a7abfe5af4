package newsapi

import (
	"context"
	"fmt"
	"time"

	"StockPulse/internal/domain/models"
	domrepo "StockPulse/internal/domain/repository"
	"StockPulse/internal/services/sentiment"
	xhttp "StockPulse/pkg/http"
	applogger "StockPulse/pkg/logger"
	"StockPulse/pkg/util"
)

// Client pulls recent news articles for a symbol and turns them into
// sentiment records. Articles that already carry a sentiment score keep it;
// the rest are scored from headline plus description text.
type Client struct {
	baseURL string
	apiKey  string
	http    *xhttp.Client
	l       *applogger.Logger
}

// Options configures the news client.
type Options struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// NewClient creates a news sentiment client.
func NewClient(opts Options) *Client {
	return &Client{
		baseURL: opts.BaseURL,
		apiKey:  opts.APIKey,
		http:    xhttp.NewClient(xhttp.WithTimeout(opts.Timeout)),
	}
}

// SetLogger injects a structured logger.
func (c *Client) SetLogger(l *applogger.Logger) { c.l = l }

type article struct {
	Title          string   `json:"title"`
	Description    string   `json:"description"`
	PublishedAt    string   `json:"publishedAt"`
	SentimentScore *float64 `json:"sentimentScore"`
}

type newsResponse struct {
	Articles []article `json:"articles"`
}

// GetRecentSentiments returns up to limit sentiment records for a symbol,
// newest first as served by the feed.
func (c *Client) GetRecentSentiments(ctx context.Context, symbol string, limit int) ([]models.SentimentRecord, error) {
	symbol = util.NormalizeSymbol(symbol)
	if limit <= 0 {
		limit = 20
	}

	var nr newsResponse
	err := c.http.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodGet,
		URL:    c.baseURL,
		QueryParams: map[string]string{
			"q":        symbol,
			"pageSize": fmt.Sprintf("%d", limit),
			"sortBy":   "publishedAt",
			"apiKey":   c.apiKey,
		},
	}, &nr)
	if err != nil {
		return nil, fmt.Errorf("fetch news %s: %w", symbol, err)
	}

	records := make([]models.SentimentRecord, 0, len(nr.Articles))
	for _, a := range nr.Articles {
		if len(records) == limit {
			break
		}
		records = append(records, c.toRecord(a))
	}
	return records, nil
}

func (c *Client) toRecord(a article) models.SentimentRecord {
	rec := models.SentimentRecord{Score: a.SentimentScore}
	if ts, ok := util.ParseTime(a.PublishedAt); ok {
		rec.PublishedAt = ts
	}

	if rec.Score == nil {
		analysis := sentiment.Analyze(a.Title + " " + a.Description)
		score := analysis.Score
		rec.Score = &score
		rec.Label = analysis.Label
		return rec
	}

	rec.Label = labelFor(*rec.Score)
	return rec
}

func labelFor(score float64) string {
	switch {
	case score > 0.2:
		return "positive"
	case score < -0.2:
		return "negative"
	default:
		return "neutral"
	}
}

var _ domrepo.NewsSentimentProvider = (*Client)(nil)
