// Package book maintains per-symbol order-book state from depth updates.
//
// Each side is a map of price level to resting volume, keyed by exact
// fixed-point prices. A level exists only while its volume is positive;
// snapshot updates clear both sides before applying their own level.
package book
