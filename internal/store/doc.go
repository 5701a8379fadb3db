// Package store provides SQLite-backed storage for compiled command sequences.
//
// The compiler is pure; the store is where its output is handed off to the
// executor. It keeps:
//   - Sequences: one row per compiled action, keyed by ir.SequenceID
//   - Commands: the ordered commands of a sequence, as canonical JSON
//   - Trackers: every tracker subscription and the position of its wait
//
// Writes are idempotent on the sequence id. Reads order by the seq logical
// clock, then id (COLLATE BINARY), so results are identical across runs.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
package store
