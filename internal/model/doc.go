// Package model defines the canonical message types shared by both feed paths.
//
// Both the historical capture decoder and the live feed normalizer produce the
// same Message union, so the book and tape layers never see wire formats.
//
// Conventions:
//   - Prices and volumes: FixedPoint, int64 scaled by 10^8
//   - Timestamps: int64 in the venue's time unit, passed through unchanged
//   - Symbols: venue strings (e.g., "BTC-USD@COINBASE")
package model
