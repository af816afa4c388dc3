// Package session owns the reconstructed state for one feed session.
//
// The driver holds the per-symbol books and trade ledgers, routes canonical
// messages to them, and exposes the queries callers use instead of reaching
// into the state directly. Books and ledgers are created lazily on the first
// message for a symbol and live until the driver is discarded.
//
// The driver does no locking: both feed paths deliver messages from a single
// goroutine, so every symbol has exactly one writer.
package session
