package store

import (
	"context"

	"github.com/categorist/chasekit/internal/chase"
	"github.com/categorist/chasekit/internal/ir"
)

// RunRecorder adapts a Store to the engine's Recorder interface, scoped to
// one run. The context is captured at construction because the engine's
// recording hook carries none; cancel it to abort a recording run.
type RunRecorder struct {
	ctx   context.Context
	store *Store
	runID string
}

// NewRecorder returns a recorder writing rounds under the given run.
func (s *Store) NewRecorder(ctx context.Context, runID string) *RunRecorder {
	return &RunRecorder{ctx: ctx, store: s, runID: runID}
}

// RecordRound implements chase.Recorder.
func (r *RunRecorder) RecordRound(round int, inst ir.Instance, firings []chase.Firing) error {
	return r.store.WriteRound(r.ctx, r.runID, round, inst, firings)
}
