package model

import "github.com/shopspring/decimal"

// FixedPointScale is the number of decimal places carried by a FixedPoint.
// The historical wire format encodes prices and volumes as int64 scaled by
// 10^8; live decimal values are shifted to the same scale on ingest.
const FixedPointScale = 8

// FixedPoint is a price or volume as an integer number of 10^-8 units.
//
// Using a scaled integer keeps price-level comparison and map keying exact:
// two equal prices are always the same key, with no float rounding creating
// near-duplicate levels.
type FixedPoint int64

// FixedPointFromDecimal converts an already-scaled decimal value (as received
// on the live feed) to a FixedPoint. Fractions beyond 10^-8 are rounded
// half-up, matching the venue's own tick resolution.
func FixedPointFromDecimal(d decimal.Decimal) FixedPoint {
	return FixedPoint(d.Shift(FixedPointScale).Round(0).IntPart())
}

// Decimal returns the value as an exact decimal.
func (f FixedPoint) Decimal() decimal.Decimal {
	return decimal.New(int64(f), -FixedPointScale)
}

// String renders the value in plain decimal notation (e.g., "100.5").
func (f FixedPoint) String() string {
	return f.Decimal().String()
}
