package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	path := writeConfig(t, "environment: test\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.Port != 8080 {
		t.Fatalf("unexpected default port %d", cfg.Server.Port)
	}
	if cfg.Prediction.TTL != 6*time.Hour {
		t.Fatalf("unexpected default ttl %v", cfg.Prediction.TTL)
	}
	if cfg.MarketData.Provider != "alphavantage" {
		t.Fatalf("unexpected default provider %q", cfg.MarketData.Provider)
	}
	if cfg.MarketData.LookbackDays != 90 {
		t.Fatalf("unexpected default lookback %d", cfg.MarketData.LookbackDays)
	}
}

func TestLoadRejectsShortLookback(t *testing.T) {
	path := writeConfig(t, "market_data:\n  lookback_days: 10\n")
	if _, err := Load(path); err == nil {
		t.Fatalf("expected validation error for lookback below 30")
	}
}

func TestLoadRejectsUnknownProvider(t *testing.T) {
	path := writeConfig(t, "market_data:\n  provider: csvfile\n")
	if _, err := Load(path); err == nil {
		t.Fatalf("expected validation error for unknown provider")
	}
}

func TestLoadClickHouseProviderNeedsHost(t *testing.T) {
	path := writeConfig(t, "market_data:\n  provider: clickhouse\n")
	if _, err := Load(path); err == nil {
		t.Fatalf("expected error when clickhouse host is missing")
	}
}

func TestLoadWithEnvOverrides(t *testing.T) {
	path := writeConfig(t, "environment: test\n")

	t.Setenv("STOCK_API_KEY", "secret")
	t.Setenv("SYMBOLS", "AAPL,MSFT")
	t.Setenv("REDIS_ADDR", "redis:6379")

	cfg, err := LoadWithEnv(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.MarketData.APIKey != "secret" {
		t.Fatalf("expected env api key override")
	}
	if len(cfg.Prediction.Symbols) != 2 || cfg.Prediction.Symbols[1] != "MSFT" {
		t.Fatalf("unexpected symbols %v", cfg.Prediction.Symbols)
	}
	if !cfg.Redis.Enabled || cfg.Redis.Addr != "redis:6379" {
		t.Fatalf("expected redis enabled via env")
	}
}
