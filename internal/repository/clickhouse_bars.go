package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"StockPulse/internal/domain/models"
	domrepo "StockPulse/internal/domain/repository"
	"StockPulse/pkg/clickhouse"
	"StockPulse/pkg/util"
)

// ClickHouseBarsStore serves price history out of a ClickHouse daily bars
// table for deployments that ingest market data in bulk instead of calling
// a vendor API per request.
type ClickHouseBarsStore struct {
	client *clickhouse.Client
	table  string
}

// NewClickHouseBarsStore creates a bars store over the given table.
func NewClickHouseBarsStore(client *clickhouse.Client, table string) *ClickHouseBarsStore {
	if table == "" {
		table = "stockpulse.daily_bars"
	}
	return &ClickHouseBarsStore{client: client, table: table}
}

// Schema returns the DDL for the daily bars table.
func (s *ClickHouseBarsStore) Schema() []string {
	return []string{
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			symbol LowCardinality(String),
			date   Date,
			open   Float64,
			high   Float64,
			low    Float64,
			close  Float64,
			volume Int64
		) ENGINE = ReplacingMergeTree
		ORDER BY (symbol, date)`, s.table),
	}
}

// GetHistory returns up to lookbackDays most recent daily bars, ascending.
func (s *ClickHouseBarsStore) GetHistory(ctx context.Context, symbol string, lookbackDays int) ([]models.PriceBar, error) {
	symbol = util.NormalizeSymbol(symbol)

	query := fmt.Sprintf(`SELECT date, open, high, low, close, volume
		FROM %s FINAL
		WHERE symbol = ?
		ORDER BY date DESC
		LIMIT ?`, s.table)

	rows, err := s.client.DB().QueryContext(ctx, query, symbol, lookbackDays)
	if err != nil {
		return nil, fmt.Errorf("query bars %s: %w", symbol, err)
	}
	defer rows.Close()

	var bars []models.PriceBar
	for rows.Next() {
		var (
			b    models.PriceBar
			date time.Time
		)
		if err := rows.Scan(&date, &b.Open, &b.High, &b.Low, &b.Close, &b.Volume); err != nil {
			return nil, fmt.Errorf("scan bar: %w", err)
		}
		b.Date = date.UTC()
		bars = append(bars, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate bars %s: %w", symbol, err)
	}

	// Rows come newest first; callers expect ascending order.
	for i, j := 0, len(bars)-1; i < j; i, j = i+1, j-1 {
		bars[i], bars[j] = bars[j], bars[i]
	}
	return bars, nil
}

// GetLatestPrice returns the most recent close for a symbol.
func (s *ClickHouseBarsStore) GetLatestPrice(ctx context.Context, symbol string) (float64, error) {
	symbol = util.NormalizeSymbol(symbol)

	query := fmt.Sprintf(`SELECT close FROM %s FINAL
		WHERE symbol = ?
		ORDER BY date DESC
		LIMIT 1`, s.table)

	var price float64
	err := s.client.DB().QueryRowContext(ctx, query, symbol).Scan(&price)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("%s: %w", symbol, models.ErrStockNotFound)
	}
	if err != nil {
		return 0, fmt.Errorf("query latest close %s: %w", symbol, err)
	}
	return price, nil
}

// InsertBars writes daily bars, replacing duplicates per (symbol, date).
func (s *ClickHouseBarsStore) InsertBars(ctx context.Context, symbol string, bars []models.PriceBar) error {
	if len(bars) == 0 {
		return nil
	}
	symbol = util.NormalizeSymbol(symbol)

	tx, err := s.client.DB().BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin insert: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, fmt.Sprintf(
		"INSERT INTO %s (symbol, date, open, high, low, close, volume)", s.table))
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("prepare insert: %w", err)
	}

	for _, b := range bars {
		if _, err := stmt.ExecContext(ctx, symbol, b.Date, b.Open, b.High, b.Low, b.Close, b.Volume); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("insert bar %s %s: %w", symbol, b.Date.Format("2006-01-02"), err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit insert: %w", err)
	}
	return nil
}

var _ domrepo.PriceHistoryProvider = (*ClickHouseBarsStore)(nil)
