package session

import (
	"fmt"

	"github.com/ptscore/pts/quote"
	"github.com/ptscore/pts/tss"
)

// QuoteTPM drives TPM_Quote or TPM_Quote2 (per useQuote2) over the
// currently-registered PCR set, binding the derived secret as
// externalData. It requires at least one PCR addition and a derived
// secret and AIK blob, and always clears the PCR set on return
// (success or failure), per spec.md §4.4/§4.5.
func (s *Session) QuoteTPM(opener tss.Opener, useQuote2 bool) (compositeHash, signature []byte, err error) {
	defer s.pcrSet.Clear()
	if s.pcrSet.Count() == 0 {
		return nil, nil, ErrNoPCRSelected
	}
	if len(s.secret) == 0 {
		return nil, nil, ErrMissingSecret
	}
	if len(s.aikBlob) == 0 {
		return nil, nil, ErrMissingAik
	}

	sess, err := opener.Open()
	if err != nil {
		return nil, nil, err
	}
	defer func() {
		if cerr := sess.Close(); cerr != nil {
			Logf("session: TSS teardown error after quote: %v", cerr)
		}
	}()

	if err := sess.LoadSRK(); err != nil {
		return nil, nil, err
	}
	if err := sess.LoadAIK(s.aikBlob); err != nil {
		return nil, nil, err
	}

	kind := tss.QuoteV1
	if useQuote2 {
		kind = tss.QuoteV2
	}
	result, err := sess.Quote(kind, &s.pcrSet, s.secret)
	if err != nil {
		return nil, nil, err
	}
	return result.CompositeHash, result.Signature, nil
}

// GetQuoteInfo builds the TPM_QUOTE_INFO or TPM_QUOTE_INFO2 byte
// structure the measurer's TPM would sign, without touching a TPM, so
// both sides of the exchange can agree on inputs independently of the
// Quote plane. It requires at least one PCR addition and a derived
// secret, and (when useQuote2 && useVersionInfo) the session's
// tpm_version_info. It always clears the PCR set on return.
func (s *Session) GetQuoteInfo(useQuote2, useVersionInfo bool, compHashAlgo string) (outPCRComposite, quoteInfo []byte, err error) {
	defer s.pcrSet.Clear()
	if s.pcrSet.Count() == 0 {
		return nil, nil, ErrNoPCRSelected
	}
	if len(s.secret) == 0 {
		return nil, nil, ErrMissingSecret
	}
	if err := quote.CompositeHashAlgorithm(compHashAlgo); err != nil {
		return nil, nil, err
	}

	composite := s.pcrSet.Compose()

	if !useQuote2 {
		info, err := quote.BuildQuoteInfo(composite, s.secret)
		return composite, info, err
	}

	var versionInfo []byte
	if useVersionInfo {
		if len(s.tpmVersionInfo) == 0 {
			return nil, nil, ErrMissingVersionInfo
		}
		versionInfo = s.tpmVersionInfo
	}
	info, err := quote.BuildQuoteInfo2(&s.pcrSet, s.secret, versionInfo)
	if err != nil {
		return nil, nil, err
	}
	return composite, info, nil
}

// VerifyQuoteSignature checks data/sig against the session's AIK
// public key using RSA-PKCS1v15/SHA-1. Any adapter failure is treated
// as "does not verify" rather than surfaced as an error, per
// spec.md §4.4.
func (s *Session) VerifyQuoteSignature(data, sig []byte) (bool, error) {
	if s.aik == nil {
		return false, ErrMissingAik
	}
	return quote.VerifySignature(s.aik, data, sig), nil
}

// ReadPCR reads the current value of PCR index i through an open TSS
// session, requiring a usable TPM.
func (s *Session) ReadPCR(opener tss.Opener, index int) ([]byte, error) {
	if !s.hasTPM {
		return nil, fmt.Errorf("session: no TPM present")
	}
	sess, err := opener.Open()
	if err != nil {
		return nil, err
	}
	defer sess.Close()
	return sess.ReadPCR(index)
}

// ExtendPCR extends PCR index i by a 20-byte input through an open TSS
// session and returns the resulting value.
func (s *Session) ExtendPCR(opener tss.Opener, index int, input []byte) ([]byte, error) {
	if !s.hasTPM {
		return nil, fmt.Errorf("session: no TPM present")
	}
	if len(input) != 20 {
		return nil, fmt.Errorf("session: ExtendPCR input must be 20 bytes, got %d", len(input))
	}
	sess, err := opener.Open()
	if err != nil {
		return nil, err
	}
	defer sess.Close()
	return sess.ExtendPCR(index, input)
}
