// Package ir provides the foundational data model for chasekit: element
// values, relational signatures, and sigma-structure instances.
//
// This package contains type definitions and canonical encoding only. All
// other internal packages import ir; ir imports nothing internal. This keeps
// ir the foundational layer with no circular dependencies.
//
// Key design constraints:
//   - NO float types anywhere - element values are string/int64/bool/symbol/witness
//   - Instances are immutable values: every operation returns a new Instance
//   - All identity and change detection goes through canonical JSON + SHA-256,
//     never through map iteration order or ad-hoc string formatting
package ir
