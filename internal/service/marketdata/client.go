package marketdata

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"time"

	"StockPulse/internal/domain/models"
	domrepo "StockPulse/internal/domain/repository"
	xhttp "StockPulse/pkg/http"
	applogger "StockPulse/pkg/logger"
	"StockPulse/pkg/util"

	"github.com/cenkalti/backoff/v4"
	"golang.org/x/time/rate"
)

// Client fetches quotes and daily history from an Alpha Vantage style HTTP
// API. Upstream rate limits are strict, so requests pass through a limiter
// and transient failures retry with exponential backoff.
type Client struct {
	baseURL    string
	apiKey     string
	http       *xhttp.Client
	limiter    *rate.Limiter
	maxElapsed time.Duration
	l          *applogger.Logger
}

// Options configures the market data client.
type Options struct {
	BaseURL         string
	APIKey          string
	Timeout         time.Duration
	RequestsPerSec  int
	RetryMaxElapsed time.Duration
}

// NewClient creates a market data client.
func NewClient(opts Options) *Client {
	if opts.RequestsPerSec <= 0 {
		opts.RequestsPerSec = 5
	}
	if opts.RetryMaxElapsed <= 0 {
		opts.RetryMaxElapsed = 30 * time.Second
	}
	return &Client{
		baseURL:    opts.BaseURL,
		apiKey:     opts.APIKey,
		http:       xhttp.NewClient(xhttp.WithTimeout(opts.Timeout)),
		limiter:    rate.NewLimiter(rate.Limit(opts.RequestsPerSec), opts.RequestsPerSec),
		maxElapsed: opts.RetryMaxElapsed,
	}
}

// SetLogger injects a structured logger.
func (c *Client) SetLogger(l *applogger.Logger) { c.l = l }

type quoteResponse struct {
	GlobalQuote map[string]string `json:"Global Quote"`
}

// GetLatestPrice returns the latest quote price for a symbol. An empty quote
// object means the provider does not know the symbol.
func (c *Client) GetLatestPrice(ctx context.Context, symbol string) (float64, error) {
	symbol = util.NormalizeSymbol(symbol)

	var qr quoteResponse
	err := c.getJSON(ctx, map[string]string{
		"function": "GLOBAL_QUOTE",
		"symbol":   symbol,
		"apikey":   c.apiKey,
	}, &qr)
	if err != nil {
		return 0, fmt.Errorf("fetch quote %s: %w", symbol, err)
	}

	if len(qr.GlobalQuote) == 0 {
		return 0, fmt.Errorf("%s: %w", symbol, models.ErrStockNotFound)
	}

	price, err := strconv.ParseFloat(qr.GlobalQuote["05. price"], 64)
	if err != nil {
		return 0, fmt.Errorf("parse quote price for %s: %w", symbol, err)
	}
	return price, nil
}

type dailyResponse struct {
	TimeSeries map[string]map[string]string `json:"Time Series (Daily)"`
}

// GetHistory returns up to lookbackDays most recent daily bars for a symbol,
// ordered ascending by date.
func (c *Client) GetHistory(ctx context.Context, symbol string, lookbackDays int) ([]models.PriceBar, error) {
	symbol = util.NormalizeSymbol(symbol)

	var dr dailyResponse
	err := c.getJSON(ctx, map[string]string{
		"function":   "TIME_SERIES_DAILY",
		"symbol":     symbol,
		"outputsize": "compact",
		"apikey":     c.apiKey,
	}, &dr)
	if err != nil {
		return nil, fmt.Errorf("fetch history %s: %w", symbol, err)
	}

	if len(dr.TimeSeries) == 0 {
		return nil, fmt.Errorf("%s: %w", symbol, models.ErrStockNotFound)
	}

	bars := make([]models.PriceBar, 0, len(dr.TimeSeries))
	for day, values := range dr.TimeSeries {
		date, ok := util.ParseDay(day)
		if !ok {
			continue
		}
		bar, err := parseBar(date, values)
		if err != nil {
			if c.l != nil {
				c.l.Warn("skipping malformed bar",
					applogger.String("symbol", symbol),
					applogger.String("date", day),
					applogger.Error(err))
			}
			continue
		}
		bars = append(bars, bar)
	}

	sort.Slice(bars, func(i, j int) bool { return bars[i].Date.Before(bars[j].Date) })
	if lookbackDays > 0 && len(bars) > lookbackDays {
		bars = bars[len(bars)-lookbackDays:]
	}
	return bars, nil
}

func parseBar(date time.Time, values map[string]string) (models.PriceBar, error) {
	open, err := strconv.ParseFloat(values["1. open"], 64)
	if err != nil {
		return models.PriceBar{}, fmt.Errorf("open: %w", err)
	}
	high, err := strconv.ParseFloat(values["2. high"], 64)
	if err != nil {
		return models.PriceBar{}, fmt.Errorf("high: %w", err)
	}
	low, err := strconv.ParseFloat(values["3. low"], 64)
	if err != nil {
		return models.PriceBar{}, fmt.Errorf("low: %w", err)
	}
	cls, err := strconv.ParseFloat(values["4. close"], 64)
	if err != nil {
		return models.PriceBar{}, fmt.Errorf("close: %w", err)
	}
	volume, err := strconv.ParseInt(values["5. volume"], 10, 64)
	if err != nil {
		return models.PriceBar{}, fmt.Errorf("volume: %w", err)
	}
	return models.PriceBar{Date: date, Open: open, High: high, Low: low, Close: cls, Volume: volume}, nil
}

func (c *Client) getJSON(ctx context.Context, params map[string]string, dest interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	operation := func() error {
		return c.http.SendAndParse(ctx, &xhttp.RequestOptions{
			Method:      xhttp.MethodGet,
			URL:         c.baseURL,
			QueryParams: params,
		}, dest)
	}

	strategy := backoff.NewExponentialBackOff()
	strategy.MaxElapsedTime = c.maxElapsed

	return backoff.Retry(operation, backoff.WithContext(strategy, ctx))
}

var _ domrepo.PriceHistoryProvider = (*Client)(nil)
