package store

import (
	"context"
	"fmt"

	"github.com/categorist/chasekit/internal/chase"
)

// RoundRecord is one persisted round: the post-round instance hash and its
// sizes.
type RoundRecord struct {
	Round        int    `json:"round"`
	InstanceHash string `json:"instance_hash"`
	Elements     int    `json:"elements"`
	Tuples       int    `json:"tuples"`
}

// ListRuns returns all runs in insertion order.
// Returns an empty slice (not nil) when the database holds no runs.
func (s *Store) ListRuns(ctx context.Context) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, theory_hash, seed_hash, strategy, axioms
		FROM runs
		ORDER BY rowid ASC, id COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	runs := []Run{}
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.ID, &r.TheoryHash, &r.SeedHash, &r.Strategy, &r.Axioms); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

// ReadRun returns one run's metadata.
func (s *Store) ReadRun(ctx context.Context, runID string) (Run, error) {
	var r Run
	err := s.db.QueryRowContext(ctx, `
		SELECT id, theory_hash, seed_hash, strategy, axioms
		FROM runs
		WHERE id = ?
	`, runID).Scan(&r.ID, &r.TheoryHash, &r.SeedHash, &r.Strategy, &r.Axioms)
	if err != nil {
		return Run{}, fmt.Errorf("read run %s: %w", runID, err)
	}
	return r, nil
}

// ReadRounds returns a run's rounds in round order.
func (s *Store) ReadRounds(ctx context.Context, runID string) ([]RoundRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT round, instance_hash, elements, tuples
		FROM rounds
		WHERE run_id = ?
		ORDER BY round ASC
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("query rounds: %w", err)
	}
	defer rows.Close()

	records := []RoundRecord{}
	for rows.Next() {
		var rec RoundRecord
		if err := rows.Scan(&rec.Round, &rec.InstanceHash, &rec.Elements, &rec.Tuples); err != nil {
			return nil, fmt.Errorf("scan round: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rounds: %w", err)
	}
	return records, nil
}

// ReadFirings returns a run's firings ordered by round, then axiom name,
// then env hash.
func (s *Store) ReadFirings(ctx context.Context, runID string) ([]chase.Firing, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT round, axiom, kind, env_hash
		FROM firings
		WHERE run_id = ?
		ORDER BY round ASC, axiom COLLATE BINARY ASC, env_hash COLLATE BINARY ASC
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("query firings: %w", err)
	}
	defer rows.Close()

	firings := []chase.Firing{}
	for rows.Next() {
		var f chase.Firing
		if err := rows.Scan(&f.Round, &f.Axiom, &f.Kind, &f.EnvHash); err != nil {
			return nil, fmt.Errorf("scan firing: %w", err)
		}
		firings = append(firings, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate firings: %w", err)
	}
	return firings, nil
}
