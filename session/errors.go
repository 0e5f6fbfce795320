// Package session owns the per-attestation-round state described in
// spec.md §3 and the operation contracts of spec.md §4.4: capability
// negotiation, DH key agreement, assessment-secret derivation, and
// orchestration of the measurement/PCR/quote components.
package session

import "errors"

// Precondition-violation and adapter-unavailability errors, per
// spec.md §7.
var (
	ErrMissingNonce       = errors.New("session: missing nonce")
	ErrMissingSecret      = errors.New("session: secret not yet derived")
	ErrMissingAik         = errors.New("session: AIK not set")
	ErrMissingVersionInfo = errors.New("session: TPM version info not set")
	ErrNoDH               = errors.New("session: no DH handle created")
	ErrNoPCRSelected      = errors.New("session: no PCR registered for this quote")
)
