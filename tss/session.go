package tss

import "github.com/ptscore/pts/pcr"

// QuoteKind selects the Quote variant, per spec.md §4.5: a variant on
// one operation rather than parallel code paths.
type QuoteKind int

const (
	// QuoteV1 uses PCRS_STRUCT_DEFAULT (TPM_Quote).
	QuoteV1 QuoteKind = iota
	// QuoteV2 uses PCRS_STRUCT_INFO_SHORT (TPM_Quote2).
	QuoteV2
)

// QuoteResult is the outcome of a successful TPM_Quote/TPM_Quote2
// call: the 20-byte PCR composite hash extracted per spec.md §4.5
// step 8, and the verbatim signature.
type QuoteResult struct {
	CompositeHash []byte
	Signature     []byte
}

// Session is the TSS interaction contract from spec.md §4.5. A Session
// is opened, used for exactly one Quote, and closed; no TSS state
// crosses calls (spec.md §5).
type Session interface {
	// LoadSRK loads the Storage Root Key from the system persistent
	// store using WellKnownSecret.
	LoadSRK() error
	// LoadAIK loads the AIK from aikBlob under the already-loaded SRK.
	LoadAIK(aikBlob []byte) error
	// Quote drives TPM_Quote or TPM_Quote2 (selected by kind) over the
	// PCR indices selected in set, binding externalData (the session's
	// 20-byte secret) into the signed structure.
	Quote(kind QuoteKind, set *pcr.Set, externalData []byte) (*QuoteResult, error)
	// ReadPCR returns the current value of PCR index i.
	ReadPCR(index int) ([]byte, error)
	// ExtendPCR extends PCR index i by a 20-byte input and returns the
	// resulting value.
	ExtendPCR(index int, input []byte) ([]byte, error)
	// Close releases every TSS resource the session acquired. It must
	// be safe to call exactly once and is always deferred by callers
	// immediately after Open succeeds.
	Close() error
}

// Opener opens a fresh TSS context. Each Quote-plane call opens one,
// uses it, and closes it before returning (spec.md §5: "A TSS context
// is opened per TPM call, used, and closed before return").
type Opener interface {
	Open() (Session, error)
}
