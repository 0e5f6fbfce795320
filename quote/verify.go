package quote

import "github.com/ptscore/pts/capabilities"

// VerifySignature runs RSA-PKCS1v15/SHA-1 verification of sig over
// data using the AIK. Any adapter failure (missing key, parse error)
// is treated as a verification failure, not an error: spec.md §4.5
// says this operation "returns true iff verification succeeds; any
// adapter failure returns false."
func VerifySignature(aik capabilities.AIKSource, data, sig []byte) bool {
	if aik == nil {
		return false
	}
	ok, err := aik.Verify(data, sig)
	if err != nil {
		return false
	}
	return ok
}
