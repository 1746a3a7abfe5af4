package util

import "strings"

// NormalizeSymbol canonicalizes a ticker: trimmed and uppercase.
func NormalizeSymbol(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}
