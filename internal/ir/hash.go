package ir

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Domain prefixes for content-addressed identity. The version suffix enables
// future algorithm migration without silently colliding with old hashes.
const (
	DomainInstance = "chasekit/instance/v1"
	DomainEnv      = "chasekit/env/v1"
	DomainProfile  = "chasekit/profile/v1"
	DomainTheory   = "chasekit/theory/v1"
)

// HashBytes computes the domain-separated hash of raw bytes. Callers supply
// one of the Domain constants.
func HashBytes(domain string, data []byte) string {
	return hashWithDomain(domain, data)
}

// hashWithDomain computes SHA-256 with domain separation.
// Format: SHA256(domain + 0x00 + data). The null separator prevents
// domain/data boundary ambiguity.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// ValueKey returns the canonical key identifying an element value. Used as
// the carrier map key, so two values are the same element iff their keys are
// equal.
func ValueKey(v Value) (string, error) {
	b, err := CanonicalValue(v)
	if err != nil {
		return "", fmt.Errorf("ValueKey: %w", err)
	}
	return string(b), nil
}

// TupleKey returns the canonical key identifying a relation tuple.
func TupleKey(t Tuple) (string, error) {
	b, err := CanonicalTuple(t)
	if err != nil {
		return "", fmt.Errorf("TupleKey: %w", err)
	}
	return string(b), nil
}

// EnvHash computes a content-addressed hash for a trigger's variable
// assignment. Used by the trace store to identify firings.
func EnvHash(env map[string]Value) (string, error) {
	fields := make(map[string][]byte, len(env))
	for name, v := range env {
		b, err := CanonicalValue(v)
		if err != nil {
			return "", fmt.Errorf("EnvHash: variable %q: %w", name, err)
		}
		fields[name] = b
	}
	canonical, err := canonicalObject(fields)
	if err != nil {
		return "", fmt.Errorf("EnvHash: %w", err)
	}
	return hashWithDomain(DomainEnv, canonical), nil
}

// ProfileHash hashes an element's relational participation profile, the
// grouping key of the duplicate-folding pass.
func ProfileHash(profile []byte) string {
	return hashWithDomain(DomainProfile, profile)
}

// MustValueKey is like ValueKey but panics on error.
// Use only in tests or when inputs are known to be valid.
func MustValueKey(v Value) string {
	k, err := ValueKey(v)
	if err != nil {
		panic(err)
	}
	return k
}

// MustTupleKey is like TupleKey but panics on error.
// Use only in tests or when inputs are known to be valid.
func MustTupleKey(t Tuple) string {
	k, err := TupleKey(t)
	if err != nil {
		panic(err)
	}
	return k
}
