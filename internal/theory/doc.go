// Package theory provides embedded dependencies, regular/cartesian theories,
// and the theory constructors consumed by the chase engine.
//
// A RegularTheory is a signature plus an ordered list of embedded
// dependencies (EDs). Axiom order is declaration order and is preserved
// everywhere: the chase evaluates axioms in the exact order the theory lists
// them, which keeps runs deterministic.
//
// Theories are permissive by construction: constructors do not validate
// sort or relation references. Malformed theories surface as triggers that
// never match or chases that never stabilize. Validate provides an opt-in
// structural check for callers that want errors up front.
package theory
