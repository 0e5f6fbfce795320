// Package tss wraps the TCG Software Stack (TSS) session contract
// named in spec.md §4.5: opening a context, loading the SRK and AIK,
// building a PCR composite object, and invoking TPM_Quote/TPM_Quote2.
// It is the only package that imports github.com/google/go-tspi; every
// other package talks to it through the Session interface.
package tss

import "fmt"

// Error wraps a TSS failure, per spec.md §7's TpmUnavailable(code).
// Code holds a numeric TSS result code; the go-tspi session in this
// package does not extract one from the library's errors and always
// sets it to 0.
type Error struct {
	Op   string
	Code uint32
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("tss: %s failed (code=0x%x): %v", e.Op, e.Code, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

func tpmUnavailable(op string, code uint32, err error) error {
	return &Error{Op: op, Code: code, Err: err}
}
