// Package trace records what an animator did, frame by frame.
//
// A Recorder is an animator.Observer. Every callback becomes an Event with a
// monotonically increasing Seq, so the trace order is the exact order in
// which the scheduler made its decisions. Traces feed scenario assertions,
// golden files and the SQLite trace store.
//
// Component names are NFC-normalized when recorded so that traces compare
// byte-for-byte regardless of how a name was composed.
package trace
