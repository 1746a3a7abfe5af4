package models

import (
	"errors"
	"fmt"
)

// ErrStockNotFound means the symbol is unknown to the market data provider.
var ErrStockNotFound = errors.New("stock not found")

// InsufficientDataError means the price history is too short to compute
// indicators. It aborts the whole request; nothing is persisted.
type InsufficientDataError struct {
	Symbol string
	Have   int
	Need   int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("insufficient historical data for %s: have %d bars, need %d", e.Symbol, e.Have, e.Need)
}

// IsInsufficientData reports whether err is an InsufficientDataError.
func IsInsufficientData(err error) bool {
	var ide *InsufficientDataError
	return errors.As(err, &ide)
}
