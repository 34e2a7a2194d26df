package app

import "time"

// PlaceholderBet is the opening amount sent with a start transaction for
// bet-driven tables. The engine requires a positive bet to open a session;
// the real wagers follow as bet moves once the session is confirmed.
// Keep this centralized so tests and the continuation chain agree on it.
const PlaceholderBet uint64 = 1

// DefaultBalanceCooldown is how long a pushed balance outranks polled
// snapshots. Poll responses inside the window may predate the push.
const DefaultBalanceCooldown = 3 * time.Second
