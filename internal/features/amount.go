package features

import (
	"errors"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// Amount parse errors. Both are recovered by the aggregator as 0.0.
var (
	// ErrMissingAmount is returned when the amount field is absent or empty.
	ErrMissingAmount = errors.New("missing amount")

	// ErrMalformedAmount is returned when the amount is not a finite decimal number.
	ErrMalformedAmount = errors.New("malformed amount")
)

// ParseAmount parses a raw decimal amount into a float64.
// Amounts are token base units and routinely exceed 64-bit integers, so the
// text is parsed with arbitrary precision before conversion.
// Returns 0 with ErrMissingAmount or ErrMalformedAmount when the text cannot be used.
func ParseAmount(raw string) (float64, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, ErrMissingAmount
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, ErrMalformedAmount
	}

	f, _ := d.Float64()
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, ErrMalformedAmount
	}
	return f, nil
}
