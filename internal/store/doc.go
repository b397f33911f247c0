// Package store provides SQLite-backed storage for recorded scenario runs.
//
// Each run row summarizes one harness execution; its events rows hold the
// scheduling trace in recorder order.
//
// # Ordering
//
//   - runs are numbered by seq, assigned on write (MAX(seq)+1)
//   - events keep the recorder's seq, unique per run
//   - all queries ORDER BY seq ASC, never by timestamps
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
package store
