// Package store persists chase traces to SQLite for offline inspection.
//
// The engine itself never depends on persistence: a trace is an append-only
// side record of a run (run metadata, per-round instance hashes and sizes,
// and every trigger firing), written through the chase.Recorder interface
// and read back by the CLI trace command. Deleting the database loses
// nothing but the trace.
//
// Content addressing ties the trace to what actually ran: instances, seeds,
// and trigger environments are stored as canonical hashes, never as full
// values, so traces are small and comparable across runs.
package store
