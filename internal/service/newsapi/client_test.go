package newsapi

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

func feedServer(body string) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, body)
	}))
}

func TestGetRecentSentimentsScoredFeed(t *testing.T) {
	srv := feedServer(`{"articles":[
		{"title":"AAPL posts record quarter","publishedAt":"2024-05-01T10:00:00Z","sentimentScore":0.8},
		{"title":"AAPL faces lawsuit","publishedAt":"2024-05-01T09:00:00Z","sentimentScore":-0.4}
	]}`)
	defer srv.Close()

	client := NewClient(Options{BaseURL: srv.URL, APIKey: "k"})
	got, err := client.GetRecentSentiments(context.Background(), "AAPL", 20)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 records, got %d", len(got))
	}
	if got[0].Score == nil || *got[0].Score != 0.8 {
		t.Fatalf("unexpected score %v", got[0].Score)
	}
	if got[0].Label != "positive" || got[1].Label != "negative" {
		t.Fatalf("unexpected labels %q %q", got[0].Label, got[1].Label)
	}
	if got[0].PublishedAt.IsZero() {
		t.Fatalf("expected parsed publish time")
	}
}

func TestGetRecentSentimentsFallsBackToKeywords(t *testing.T) {
	srv := feedServer(`{"articles":[
		{"title":"Shares surge on strong rally","description":"bullish outlook"}
	]}`)
	defer srv.Close()

	client := NewClient(Options{BaseURL: srv.URL, APIKey: "k"})
	got, err := client.GetRecentSentiments(context.Background(), "AAPL", 20)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 record, got %d", len(got))
	}
	if got[0].Score == nil || *got[0].Score <= 0 {
		t.Fatalf("expected positive keyword score, got %v", got[0].Score)
	}
}

func TestGetRecentSentimentsLimit(t *testing.T) {
	srv := feedServer(`{"articles":[
		{"title":"a","sentimentScore":0.1},
		{"title":"b","sentimentScore":0.2},
		{"title":"c","sentimentScore":0.3}
	]}`)
	defer srv.Close()

	client := NewClient(Options{BaseURL: srv.URL, APIKey: "k"})
	got, err := client.GetRecentSentiments(context.Background(), "AAPL", 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected limit of 2, got %d", len(got))
	}
}

func TestGetRecentSentimentsUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	client := NewClient(Options{BaseURL: srv.URL, APIKey: "k"})
	if _, err := client.GetRecentSentiments(context.Background(), "AAPL", 20); err == nil {
		t.Fatalf("expected error on upstream failure")
	}
}
