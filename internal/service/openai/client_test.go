package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"StockPulse/internal/domain/models"
	domsvc "StockPulse/internal/domain/service"
)

func promptContext() domsvc.PromptContext {
	return domsvc.PromptContext{
		Symbol:       "MSFT",
		Name:         "MSFT",
		CurrentPrice: 420,
		Forecasts: models.Forecasts{
			NextWeek: models.ForecastPoint{Direction: models.DirectionUp, Confidence: 0.6},
		},
	}
}

func completionServer(t *testing.T, content string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("unexpected auth header %q", got)
		}

		var req chatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if len(req.Messages) != 2 {
			t.Errorf("expected system and user message, got %d", len(req.Messages))
		}

		_ = json.NewEncoder(w).Encode(chatResponse{
			Choices: []struct {
				Message chatMessage `json:"message"`
			}{{Message: chatMessage{Role: "assistant", Content: content}}},
		})
	}))
}

func TestGenerateParsesCompletion(t *testing.T) {
	content := `{"summary":"Solid uptrend.","keyFactors":["momentum"],"risks":["rates"],"opportunities":["entry"]}`
	srv := completionServer(t, content)
	defer srv.Close()

	client := NewClient(Options{BaseURL: srv.URL, APIKey: "test-key"})
	got, err := client.Generate(context.Background(), promptContext())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Summary != "Solid uptrend." {
		t.Fatalf("unexpected summary %q", got.Summary)
	}
	if len(got.KeyFactors) != 1 || got.KeyFactors[0] != "momentum" {
		t.Fatalf("unexpected key factors %v", got.KeyFactors)
	}
}

func TestGenerateExtractsFencedJSON(t *testing.T) {
	content := "Here is the analysis:\n```json\n{\"summary\":\"ok\",\"keyFactors\":[\"a\"],\"risks\":[\"b\"],\"opportunities\":[\"c\"]}\n```"
	srv := completionServer(t, content)
	defer srv.Close()

	client := NewClient(Options{BaseURL: srv.URL, APIKey: "test-key"})
	got, err := client.Generate(context.Background(), promptContext())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Summary != "ok" {
		t.Fatalf("unexpected summary %q", got.Summary)
	}
}

func TestGenerateNoJSONInCompletion(t *testing.T) {
	srv := completionServer(t, "I cannot produce JSON today.")
	defer srv.Close()

	client := NewClient(Options{BaseURL: srv.URL, APIKey: "test-key"})
	if _, err := client.Generate(context.Background(), promptContext()); err == nil {
		t.Fatalf("expected error for prose completion")
	}
}

func TestGenerateMissingAPIKey(t *testing.T) {
	client := NewClient(Options{BaseURL: "http://localhost:0"})
	if _, err := client.Generate(context.Background(), promptContext()); err == nil {
		t.Fatalf("expected error without api key")
	}
}

func TestParsePayload(t *testing.T) {
	got, err := parsePayload(`noise {"summary":"s","keyFactors":["k"],"risks":["r"],"opportunities":["o"]} trailing`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Summary != "s" || len(got.Opportunities) != 1 {
		t.Fatalf("unexpected payload %+v", got)
	}

	if _, err := parsePayload("{broken"); err == nil {
		t.Fatalf("expected error for malformed json")
	}
}
