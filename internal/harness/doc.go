// Package harness runs declarative chase scenarios for conformance tests.
//
// A scenario is a YAML file naming a CUE category presentation, a seed
// instance of symbolic generators, a chase strategy, and assertions on the
// resulting model. The harness compiles the presentation, runs the selected
// strategy, and evaluates the assertions; golden tests additionally compare
// the canonical JSON of the final model against a checked-in snapshot.
//
// Scenarios exist so chase behavior can be pinned down without writing Go:
// adding a theory to the regression suite is a YAML file, a CUE file, and a
// golden file.
package harness
