package usecase

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"StockPulse/internal/domain/models"
	"StockPulse/internal/services/explain"
)

type fakePrices struct {
	price     float64
	bars      []models.PriceBar
	priceErr  error
	histErr   error
	histCalls int32
}

func (f *fakePrices) GetLatestPrice(_ context.Context, _ string) (float64, error) {
	return f.price, f.priceErr
}

func (f *fakePrices) GetHistory(_ context.Context, _ string, _ int) ([]models.PriceBar, error) {
	atomic.AddInt32(&f.histCalls, 1)
	return f.bars, f.histErr
}

type fakeStore struct {
	mu   sync.Mutex
	data map[string]*models.Prediction
}

func newFakeStore() *fakeStore {
	return &fakeStore{data: make(map[string]*models.Prediction)}
}

func (s *fakeStore) GetLatest(_ context.Context, symbol string) (*models.Prediction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data[symbol], nil
}

func (s *fakeStore) Save(_ context.Context, p *models.Prediction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[p.Symbol] = p
	return nil
}

func bars(n int) []models.PriceBar {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	out := make([]models.PriceBar, n)
	for i := range out {
		out[i] = models.PriceBar{
			Date:   start.AddDate(0, 0, i),
			Close:  100 + float64(i),
			Volume: 1000,
		}
	}
	return out
}

type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newTestPredictor(prices *fakePrices, store *fakeStore, c *clock) *Predictor {
	p := NewPredictor(prices, store, explain.NewAdapter(nil))
	p.SetClock(c.Now)
	return p
}

func TestGetOrGenerateCachesWithinTTL(t *testing.T) {
	prices := &fakePrices{price: 150, bars: bars(60)}
	store := newFakeStore()
	c := &clock{now: time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)}
	p := newTestPredictor(prices, store, c)

	first, err := p.GetOrGenerate(context.Background(), "aapl", models.AccessBasic)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first.Symbol != "AAPL" {
		t.Fatalf("expected normalized symbol, got %q", first.Symbol)
	}
	if first.DataPointCount != 60 {
		t.Fatalf("unexpected data point count %d", first.DataPointCount)
	}
	if !first.ExpiresAt.Equal(first.GeneratedAt.Add(6 * time.Hour)) {
		t.Fatalf("expected 6h ttl, got %v", first.ExpiresAt.Sub(first.GeneratedAt))
	}

	c.Advance(5*time.Hour + 59*time.Minute)
	second, err := p.GetOrGenerate(context.Background(), "AAPL", models.AccessBasic)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !second.GeneratedAt.Equal(first.GeneratedAt) {
		t.Fatalf("expected cached prediction inside ttl")
	}
	if got := atomic.LoadInt32(&prices.histCalls); got != 1 {
		t.Fatalf("expected single history fetch, got %d", got)
	}
}

func TestGetOrGenerateRecomputesAfterExpiry(t *testing.T) {
	prices := &fakePrices{price: 150, bars: bars(60)}
	store := newFakeStore()
	c := &clock{now: time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)}
	p := newTestPredictor(prices, store, c)

	first, err := p.GetOrGenerate(context.Background(), "AAPL", models.AccessBasic)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	c.Advance(6*time.Hour + time.Second)
	second, err := p.GetOrGenerate(context.Background(), "AAPL", models.AccessBasic)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !second.GeneratedAt.After(first.GeneratedAt) {
		t.Fatalf("expected recompute after expiry")
	}
	if got := atomic.LoadInt32(&prices.histCalls); got != 2 {
		t.Fatalf("expected second history fetch, got %d", got)
	}
}

func TestGetOrGenerateExactExpiryBoundaryIsFresh(t *testing.T) {
	prices := &fakePrices{price: 150, bars: bars(60)}
	store := newFakeStore()
	c := &clock{now: time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)}
	p := newTestPredictor(prices, store, c)

	first, _ := p.GetOrGenerate(context.Background(), "AAPL", models.AccessBasic)

	c.Advance(6 * time.Hour)
	second, err := p.GetOrGenerate(context.Background(), "AAPL", models.AccessBasic)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !second.GeneratedAt.Equal(first.GeneratedAt) {
		t.Fatalf("now == expiresAt must still serve the stored prediction")
	}
}

func TestGetOrGenerateInsufficientData(t *testing.T) {
	prices := &fakePrices{price: 150, bars: bars(20)}
	store := newFakeStore()
	c := &clock{now: time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)}
	p := newTestPredictor(prices, store, c)

	_, err := p.GetOrGenerate(context.Background(), "AAPL", models.AccessBasic)
	if !models.IsInsufficientData(err) {
		t.Fatalf("expected insufficient data error, got %v", err)
	}

	stored, _ := store.GetLatest(context.Background(), "AAPL")
	if stored != nil {
		t.Fatalf("nothing must be persisted on failure")
	}
}

func TestGetOrGenerateUnknownSymbol(t *testing.T) {
	prices := &fakePrices{priceErr: models.ErrStockNotFound}
	store := newFakeStore()
	c := &clock{now: time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)}
	p := newTestPredictor(prices, store, c)

	_, err := p.GetOrGenerate(context.Background(), "ZZZZ", models.AccessBasic)
	if !errors.Is(err, models.ErrStockNotFound) {
		t.Fatalf("expected ErrStockNotFound, got %v", err)
	}
}

func TestGetOrGenerateSentimentEnrichment(t *testing.T) {
	prices := &fakePrices{price: 150, bars: bars(60)}
	store := newFakeStore()
	c := &clock{now: time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)}
	p := newTestPredictor(prices, store, c)

	score := 0.4
	p.SetNewsProvider(newsStub{records: []models.SentimentRecord{{Score: &score}}})

	got, err := p.GetOrGenerate(context.Background(), "AAPL", models.AccessBasic)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Features.SentimentScore != 0.4 {
		t.Fatalf("unexpected sentiment %v", got.Features.SentimentScore)
	}
}

func TestGetOrGenerateNewsFailureIsNonFatal(t *testing.T) {
	prices := &fakePrices{price: 150, bars: bars(60)}
	store := newFakeStore()
	c := &clock{now: time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)}
	p := newTestPredictor(prices, store, c)
	p.SetNewsProvider(newsStub{err: errors.New("feed down")})

	got, err := p.GetOrGenerate(context.Background(), "AAPL", models.AccessBasic)
	if err != nil {
		t.Fatalf("news failure must not fail the prediction: %v", err)
	}
	if got.Features.SentimentScore != 0 {
		t.Fatalf("expected zero sentiment on feed failure")
	}
}

func TestGetOrGenerateCollapsesConcurrentRequests(t *testing.T) {
	prices := &fakePrices{price: 150, bars: bars(60)}
	store := newFakeStore()
	c := &clock{now: time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)}
	p := newTestPredictor(prices, store, c)

	var wg sync.WaitGroup
	results := make([]*models.Prediction, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			pred, err := p.GetOrGenerate(context.Background(), "AAPL", models.AccessBasic)
			if err != nil {
				t.Errorf("unexpected error: %v", err)
				return
			}
			results[i] = pred
		}(i)
	}
	wg.Wait()

	for _, r := range results {
		if r == nil || !r.GeneratedAt.Equal(results[0].GeneratedAt) {
			t.Fatalf("concurrent callers must share one computation")
		}
	}
	if got := atomic.LoadInt32(&prices.histCalls); got > 2 {
		t.Fatalf("expected collapsed recomputes, got %d history fetches", got)
	}
}

func TestGetOrGenerateInvalidAccessLevelDefaultsToFree(t *testing.T) {
	prices := &fakePrices{price: 150, bars: bars(60)}
	store := newFakeStore()
	c := &clock{now: time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)}
	p := newTestPredictor(prices, store, c)

	got, err := p.GetOrGenerate(context.Background(), "AAPL", models.AccessLevel("vip"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.AccessLevel != models.AccessFree {
		t.Fatalf("expected free fallback, got %s", got.AccessLevel)
	}
}

type newsStub struct {
	records []models.SentimentRecord
	err     error
}

func (n newsStub) GetRecentSentiments(_ context.Context, _ string, _ int) ([]models.SentimentRecord, error) {
	return n.records, n.err
}
