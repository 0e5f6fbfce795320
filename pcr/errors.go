// Package pcr maintains the Platform Configuration Register selection
// bitmap and current post-extension values for up to 24 registers, and
// builds the PCR Composite byte structure, per spec.md §4.3 and §6.
package pcr

import "errors"

// MaxIndex is the number of PCRs (TPM 1.2 has 24 registers, 0..23);
// legal indices are below it.
const MaxIndex = 24

// ErrIndexOutOfRange is returned for any pcrIndex >= MaxIndex.
var ErrIndexOutOfRange = errors.New("pcr: index out of range")

// ErrLengthMismatch is returned by Add when pcr_after's length
// differs from the width fixed by the first Add call.
var ErrLengthMismatch = errors.New("pcr: register length mismatch")
