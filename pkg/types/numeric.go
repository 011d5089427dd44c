package types

import (
	"fmt"
	"math/big"
)

const (
	// BpsScale is the basis-point denominator: prices are integers on
	// [0, BpsScale] representing a probability.
	BpsScale = 10000

	// FixedScale is the fixed-point share/currency denominator: divide by
	// FixedScale for the human quantity.
	FixedScale = 1_000_000
)

// ParseFixed parses a decimal-string-encoded integer from the ledger view
// boundary. The ledger emits arbitrary-width decimal strings, so the value
// is parsed through big.Int and rejected if it does not fit an int64 or is
// negative.
func ParseFixed(s string) (int64, error) {
	if s == "" {
		return 0, fmt.Errorf("empty numeric string")
	}

	n, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return 0, fmt.Errorf("malformed numeric string %q", s)
	}

	if n.Sign() < 0 {
		return 0, fmt.Errorf("negative value %q", s)
	}

	if !n.IsInt64() {
		return 0, fmt.Errorf("value %q exceeds int64 range", s)
	}

	return n.Int64(), nil
}

// ParseBps parses a decimal-string basis-point price and validates the
// [0, BpsScale] range.
func ParseBps(s string) (int64, error) {
	v, err := ParseFixed(s)
	if err != nil {
		return 0, err
	}

	if v > BpsScale {
		return 0, fmt.Errorf("price %d exceeds %d bps", v, BpsScale)
	}

	return v, nil
}

// FixedToFloat converts a 6-decimal fixed-point integer to its human value.
// Conversion to float happens only at the display boundary; all ledger
// arithmetic stays in integers.
func FixedToFloat(v int64) float64 {
	return float64(v) / FixedScale
}

// FloatToFixed converts a human currency amount to the 6-decimal
// fixed-point scale, truncating sub-micro precision.
func FloatToFixed(v float64) int64 {
	return int64(v * FixedScale)
}

// BpsToFraction converts a basis-point price to a fraction on [0, 1].
func BpsToFraction(bps int64) float64 {
	return float64(bps) / BpsScale
}
