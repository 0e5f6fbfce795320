// Package quote builds and parses the TPM_QUOTE_INFO / TPM_QUOTE_INFO2
// byte structures a TPM 1.2 Quote signs over, and verifies Quote
// signatures with the AIK public key, per spec.md §4.5 and §6.
package quote

import (
	"crypto/sha1" //nolint:gosec // TPM 1.2 Composite hashing is fixed to SHA-1
	"errors"
	"fmt"

	"github.com/ptscore/pts/pcr"
	"github.com/ptscore/pts/wire"
)

// ErrUnsupportedCompositeHash is returned when a get_quote_info caller
// asks for a composite-hash algorithm other than SHA-1: TPM 1.2 never
// supports anything else (SPEC_FULL §6).
var ErrUnsupportedCompositeHash = errors.New("quote: unsupported composite hash algorithm")

// quoteInfoVersion is the fixed TPM_STRUCT_VER this core emits.
var quoteInfoVersion = [4]byte{0x01, 0x01, 0x00, 0x00}

const quoteInfoMagic = "QUOT"
const quoteInfo2Magic = "QUT2"

// tagQuoteInfo2 is TPM_TAG_QUOTE_INFO2.
const tagQuoteInfo2 = 0x0036

// localityZero is TPM_LOC_ZERO.
const localityZero = 0x00

// BuildQuoteInfo builds the 48-byte TPM_QUOTE_INFO structure:
//
//	byte[4] version = 01 01 00 00
//	byte[4] "QUOT"
//	byte[20] SHA-1(PCR Composite)
//	byte[20] nonce (= secret)
func BuildQuoteInfo(composite, secret []byte) ([]byte, error) {
	if len(secret) != 20 {
		return nil, fmt.Errorf("quote: secret must be 20 bytes, got %d", len(secret))
	}
	compositeHash := sha1.Sum(composite)

	w := wire.NewWriter()
	w.Raw(quoteInfoVersion[:])
	w.Raw([]byte(quoteInfoMagic))
	w.Raw(compositeHash[:])
	w.Raw(secret)
	out := w.Out()
	if len(out) != 48 {
		panic(fmt.Sprintf("quote: TPM_QUOTE_INFO length invariant broken: %d", len(out)))
	}
	return out, nil
}

// BuildQuoteInfo2 builds the variable-length TPM_QUOTE_INFO2
// structure. versionInfo is appended verbatim when non-nil (the
// use_version_info case); it is the opaque TPM_CAP_VERSION_INFO blob
// the session already holds.
func BuildQuoteInfo2(set *pcr.Set, secret []byte, versionInfo []byte) ([]byte, error) {
	if len(secret) != 20 {
		return nil, fmt.Errorf("quote: secret must be 20 bytes, got %d", len(secret))
	}
	compositeHash := sha1.Sum(set.Compose())
	selectBytes := set.SelectBytes()

	w := wire.NewWriter()
	w.U16(tagQuoteInfo2)
	w.Raw([]byte(quoteInfo2Magic))
	w.Raw(secret)
	w.U16(uint16(len(selectBytes)))
	w.Raw(selectBytes)
	w.U8(localityZero)
	w.Raw(compositeHash[:])
	if versionInfo != nil {
		w.Raw(versionInfo)
	}
	return w.Out(), nil
}

// CompositeHashAlgorithm validates a requested composite-hash
// algorithm name against the only one TPM 1.2 supports.
func CompositeHashAlgorithm(name string) error {
	if name != "" && name != "sha1" && name != "SHA1" && name != "SHA-1" {
		return ErrUnsupportedCompositeHash
	}
	return nil
}
