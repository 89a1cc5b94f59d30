// Package chase implements the categorical chase: the trigger-detection /
// rewrite-step loop that computes free and weakly-free models of regular and
// cartesian theories over typed relational instances.
//
// ARCHITECTURE:
//
// Single-threaded step loop:
// Every strategy is a synchronous loop over immutable instances. A round
// detects triggers (homomorphisms from an axiom's frozen antecedent into the
// working instance), applies rewrite steps, and compares canonical instance
// hashes to decide whether anything changed. "Parallel" refers to logical
// simultaneity - applying one round's whole trigger set against a shared
// pre-round snapshot - never to goroutines.
//
// Determinism:
// Axioms are evaluated in declaration order. Carriers and tuple sets iterate
// in canonical key order. Witness elements come from a monotonic allocator
// namespaced by existential variable and sort, so runs are reproducible
// end to end. Callers must still not depend on witness identity across
// differently scheduled strategies - only on structural shape.
//
// Strategies:
//   - Engine.ChaseRegular: one trigger per round (standard) or the full
//     trigger set per round (parallel), bounded by MaxSteps.
//   - Engine.ChaseToColimit: a bounded chain of parallel rounds whose
//     final link approximates the filtered colimit of a fair chase.
//   - Engine.FastParallel: parallel rounds with an early-exit oracle.
//   - Engine.SemiNaive: the incremental schedule that skips triggers whose
//     witnessing elements predate the last applied edit.
//   - Engine.CoreChase: parallel rounds interleaved with duplicate folding.
//
// Termination is bounded by round/step caps, never guaranteed: a theory
// whose free model is infinite returns whatever instance exists when the
// cap is hit, without error.
package chase
