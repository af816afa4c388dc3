// Package feed implements the live WebSocket path: a single-connection client
// for the venue feed, the subscription command vocabulary, and the normalizer
// that turns inbound JSON envelopes into canonical messages.
//
// The feed is unauthenticated. One connection carries every subscribed symbol;
// the client exposes raw messages on a buffered channel and leaves parsing to
// the normalizer and reconnect policy to the caller.
package feed
