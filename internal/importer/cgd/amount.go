package cgd

import (
	"strings"

	"github.com/shopspring/decimal"
)

// parseEuropeanAmount reads "1.234,56" style amounts: dots group thousands,
// the comma is the decimal separator.
func parseEuropeanAmount(s string) (decimal.Decimal, error) {
	clean := strings.ReplaceAll(strings.TrimSpace(s), ".", "")
	clean = strings.Replace(clean, ",", ".", 1)

	return decimal.NewFromString(clean)
}
