package store

import (
	"context"
	"fmt"

	"github.com/categorist/chasekit/internal/chase"
	"github.com/categorist/chasekit/internal/ir"
	"github.com/categorist/chasekit/internal/theory"
)

// Run is the metadata row identifying one chase execution.
type Run struct {
	ID         string `json:"id"`
	TheoryHash string `json:"theory_hash"`
	SeedHash   string `json:"seed_hash"`
	Strategy   string `json:"strategy"`
	Axioms     int    `json:"axioms"`
}

// BeginRun inserts a run row for a theory and seed and returns its id.
// The theory is identified by hashing the string rendering of its axioms,
// which is stable under re-compilation of the same presentation.
func (s *Store) BeginRun(ctx context.Context, th theory.RegularTheory, seed ir.Instance, strategy string) (Run, error) {
	seedHash, err := seed.Hash()
	if err != nil {
		return Run{}, fmt.Errorf("begin run: hash seed: %w", err)
	}

	run := Run{
		ID:         s.ids.NewID(),
		TheoryHash: TheoryHash(th),
		SeedHash:   seedHash,
		Strategy:   strategy,
		Axioms:     len(th.Axioms),
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO runs (id, theory_hash, seed_hash, strategy, axioms)
		VALUES (?, ?, ?, ?, ?)
	`, run.ID, run.TheoryHash, run.SeedHash, run.Strategy, run.Axioms)
	if err != nil {
		return Run{}, fmt.Errorf("begin run: %w", err)
	}
	return run, nil
}

// WriteRound inserts one round row and its firings atomically.
// Uses ON CONFLICT DO NOTHING for idempotency - re-recording an identical
// round is silently ignored.
func (s *Store) WriteRound(ctx context.Context, runID string, round int, inst ir.Instance, firings []chase.Firing) error {
	hash, err := inst.Hash()
	if err != nil {
		return fmt.Errorf("write round: hash instance: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("write round: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	_, err = tx.ExecContext(ctx, `
		INSERT INTO rounds (run_id, round, instance_hash, elements, tuples)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(run_id, round) DO NOTHING
	`, runID, round, hash, inst.ElementCount(), inst.TupleCount())
	if err != nil {
		return fmt.Errorf("write round: insert round: %w", err)
	}

	for _, f := range firings {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO firings (run_id, round, axiom, kind, env_hash)
			VALUES (?, ?, ?, ?, ?)
			ON CONFLICT(run_id, round, axiom, env_hash) DO NOTHING
		`, runID, round, f.Axiom, f.Kind, f.EnvHash)
		if err != nil {
			return fmt.Errorf("write round: insert firing: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("write round: commit: %w", err)
	}
	return nil
}

// TheoryHash content-addresses a theory by the canonical rendering of its
// signature and axioms.
func TheoryHash(th theory.RegularTheory) string {
	var buf []byte
	for _, sort := range th.Sig.Sorts {
		buf = append(buf, sort...)
		buf = append(buf, 0x00)
	}
	for _, rel := range th.Sig.Relations {
		buf = append(buf, rel.Name...)
		for _, sort := range rel.Arity {
			buf = append(buf, 0x01)
			buf = append(buf, sort...)
		}
		buf = append(buf, 0x00)
	}
	for _, ed := range th.Axioms {
		buf = append(buf, ed.String()...)
		buf = append(buf, 0x00)
	}
	return ir.HashBytes(ir.DomainTheory, buf)
}
