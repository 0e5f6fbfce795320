// Package capabilities defines the small adapter interfaces the rest of
// the PTS core consumes: hashers, a strong RNG, a Diffie-Hellman handle,
// an AIK certificate/public-key source, and a directory enumerator.
// Adapters are side-effect free with respect to session state.
package capabilities

import "errors"

// ErrNoRNG is returned when no strong random source is available.
var ErrNoRNG = errors.New("capabilities: no strong random number source available")

// ErrKeyAgreementFailed is returned when a DH handle cannot complete
// the key-agreement (missing peer public value, group mismatch, etc).
var ErrKeyAgreementFailed = errors.New("capabilities: key agreement failed")

// ErrHasherUnavailable is returned when the requested hash algorithm
// has no registered implementation.
var ErrHasherUnavailable = errors.New("capabilities: hasher unavailable")
