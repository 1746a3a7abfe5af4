package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	domsvc "StockPulse/internal/domain/service"
	"StockPulse/internal/services/explain"
	xhttp "StockPulse/pkg/http"
	applogger "StockPulse/pkg/logger"
)

// Client implements the explanation delegate against an OpenAI compatible
// chat completions endpoint.
type Client struct {
	baseURL     string
	apiKey      string
	model       string
	temperature float64
	maxTokens   int
	http        *xhttp.Client
	l           *applogger.Logger
}

// Options configures the OpenAI client.
type Options struct {
	BaseURL     string
	APIKey      string
	Model       string
	Temperature float64
	MaxTokens   int
	Timeout     time.Duration
}

// NewClient creates an OpenAI explanation delegate.
func NewClient(opts Options) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = "https://api.openai.com/v1"
	}
	if opts.Model == "" {
		opts.Model = "gpt-4"
	}
	return &Client{
		baseURL:     strings.TrimRight(opts.BaseURL, "/"),
		apiKey:      opts.APIKey,
		model:       opts.Model,
		temperature: opts.Temperature,
		maxTokens:   opts.MaxTokens,
		http:        xhttp.NewClient(xhttp.WithTimeout(opts.Timeout)),
	}
}

// SetLogger injects a structured logger.
func (c *Client) SetLogger(l *applogger.Logger) { c.l = l }

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Generate asks the model for a structured explanation of a prediction.
func (c *Client) Generate(ctx context.Context, pc domsvc.PromptContext) (domsvc.ExplanationPayload, error) {
	if c.apiKey == "" {
		return domsvc.ExplanationPayload{}, errors.New("openai: api key not configured")
	}

	req := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: "You are a financial analyst. Respond only with valid JSON."},
			{Role: "user", Content: explain.BuildPrompt(pc)},
		},
		Temperature: c.temperature,
		MaxTokens:   c.maxTokens,
	}

	var resp chatResponse
	err := c.http.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodPost,
		URL:    c.baseURL + "/chat/completions",
		Headers: map[string]string{
			"Authorization": "Bearer " + c.apiKey,
		},
		Body: req,
	}, &resp)
	if err != nil {
		return domsvc.ExplanationPayload{}, fmt.Errorf("chat completion: %w", err)
	}

	if resp.Error != nil {
		return domsvc.ExplanationPayload{}, fmt.Errorf("chat completion: %s", resp.Error.Message)
	}
	if len(resp.Choices) == 0 {
		return domsvc.ExplanationPayload{}, errors.New("chat completion: no choices returned")
	}

	return parsePayload(resp.Choices[0].Message.Content)
}

// parsePayload extracts the first JSON object from the model output. Models
// sometimes wrap JSON in markdown fences or prose.
func parsePayload(content string) (domsvc.ExplanationPayload, error) {
	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start < 0 || end <= start {
		return domsvc.ExplanationPayload{}, errors.New("no json object in completion")
	}

	var payload domsvc.ExplanationPayload
	if err := json.Unmarshal([]byte(content[start:end+1]), &payload); err != nil {
		return domsvc.ExplanationPayload{}, fmt.Errorf("parse completion json: %w", err)
	}
	return payload, nil
}

var _ domsvc.ExplanationDelegate = (*Client)(nil)
