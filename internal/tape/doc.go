// Package tape keeps the per-symbol trade history.
//
// The ledger is append-only: trades are stored in arrival order with no
// deduplication or reordering, mirroring the venue tape exactly.
package tape
