package tss

import (
	"fmt"

	"github.com/google/go-tspi/tspi"
	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"github.com/ptscore/pts/pcr"
)

// tspiOpener opens contexts against the real TSS daemon through
// go-tspi, the concrete TCG Software Stack binding for TPM 1.2 that
// the teacher's lineage (jasonkolodziej-go-tpm-tools,
// namrata-ibm-go-tpm-tools) both carry as a dependency of go-attestation.
type tspiOpener struct{}

// NewOpener returns an Opener backed by go-tspi.
func NewOpener() Opener { return tspiOpener{} }

func (tspiOpener) Open() (Session, error) {
	ctx, err := tspi.NewContext()
	if err != nil {
		return nil, tpmUnavailable("NewContext", 0, err)
	}
	if err := ctx.Connect(); err != nil {
		ctx.Close()
		return nil, tpmUnavailable("Connect", 0, err)
	}
	tpmObj, err := ctx.GetTPM()
	if err != nil {
		ctx.Close()
		return nil, tpmUnavailable("GetTPM", 0, err)
	}
	return &tspiSession{ctx: ctx, tpm: tpmObj}, nil
}

type tspiSession struct {
	ctx *tspi.Context
	tpm *tspi.TPM
	srk *tspi.Key
	aik *tspi.Key
}

func (s *tspiSession) LoadSRK() error {
	srk, err := s.ctx.LoadKeyByUUID(tspi.TSS_PS_TYPE_SYSTEM, tspi.TSS_UUID_SRK)
	if err != nil {
		return tpmUnavailable("LoadKeyByUUID(SRK)", 0, err)
	}
	policy, err := srk.GetPolicy(tspi.TSS_POLICY_USAGE)
	if err != nil {
		return tpmUnavailable("SRK.GetPolicy", 0, err)
	}
	if err := policy.SetSecret(tspi.TSS_SECRET_MODE_SHA1, WellKnownSecret); err != nil {
		return tpmUnavailable("SRK policy.SetSecret", 0, err)
	}
	s.srk = srk
	return nil
}

func (s *tspiSession) LoadAIK(aikBlob []byte) error {
	if s.srk == nil {
		return fmt.Errorf("tss: LoadAIK called before LoadSRK")
	}
	aik, err := s.ctx.LoadKeyByBlob(s.srk, aikBlob)
	if err != nil {
		return tpmUnavailable("LoadKeyByBlob(AIK)", 0, err)
	}
	s.aik = aik
	return nil
}

func (s *tspiSession) ReadPCR(index int) ([]byte, error) {
	v, err := s.tpm.ReadPCR(index)
	if err != nil {
		return nil, tpmUnavailable("ReadPCR", 0, err)
	}
	return v, nil
}

func (s *tspiSession) ExtendPCR(index int, input []byte) ([]byte, error) {
	if len(input) != 20 {
		return nil, fmt.Errorf("tss: ExtendPCR input must be 20 bytes, got %d", len(input))
	}
	v, err := s.tpm.ExtendPCR(index, input)
	if err != nil {
		return nil, tpmUnavailable("ExtendPCR", 0, err)
	}
	return v, nil
}

// Quote drives TPM_Quote or TPM_Quote2 over the PCRs selected in set,
// per spec.md §4.5 steps 4-9. It always clears set before returning,
// on every path, success or failure.
func (s *tspiSession) Quote(kind QuoteKind, set *pcr.Set, externalData []byte) (result *QuoteResult, err error) {
	defer set.Clear()

	if s.aik == nil {
		return nil, fmt.Errorf("tss: Quote called before LoadAIK")
	}
	if len(externalData) != 20 {
		return nil, fmt.Errorf("tss: externalData (secret) must be 20 bytes, got %d", len(externalData))
	}

	long := kind == QuoteV2
	pcrComposite, err := s.ctx.CreatePCRs(long)
	if err != nil {
		return nil, tpmUnavailable("CreatePCRs", 0, err)
	}
	for i := 0; i < pcr.MaxIndex; i++ {
		if !set.Selected(i) {
			continue
		}
		if long {
			// Quote2 registers against the release-direction selector.
			if err := pcrComposite.SetPCRsRelease(i); err != nil {
				return nil, tpmUnavailable("PCRs.SetPCRsRelease", 0, err)
			}
		} else if err := pcrComposite.SetPCRs(i); err != nil {
			return nil, tpmUnavailable("PCRs.SetPCRs", 0, err)
		}
	}

	if kind == QuoteV1 {
		rgbData, rgbValidation, err := s.tpm.Quote(s.aik, pcrComposite, externalData)
		if err != nil {
			return nil, tpmUnavailable("TPM_Quote", 0, err)
		}
		if len(rgbData) < 28 {
			return nil, fmt.Errorf("tss: TPM_Quote rgbData too short: %d bytes", len(rgbData))
		}
		// version(4) + "QUOT"(4) precede the 20-byte composite hash.
		hash := make([]byte, 20)
		copy(hash, rgbData[8:28])
		return &QuoteResult{CompositeHash: hash, Signature: rgbValidation}, nil
	}

	rgbData, rgbValidation, err := s.tpm.Quote2(s.aik, pcrComposite, false, externalData)
	if err != nil {
		return nil, tpmUnavailable("TPM_Quote2", 0, err)
	}
	if len(rgbData) < 20 {
		return nil, fmt.Errorf("tss: TPM_Quote2 rgbData too short: %d bytes", len(rgbData))
	}
	// Quote2 extracts the composite hash from the final 20 bytes of
	// rgbData regardless of use_ver_info (spec.md §9 Open Question):
	// preserved as-is rather than branching on whether version info was
	// requested, pending validation against the TSS layout in use.
	hash := make([]byte, 20)
	copy(hash, rgbData[len(rgbData)-20:])
	return &QuoteResult{CompositeHash: hash, Signature: rgbValidation}, nil
}

// Close releases every TSS resource the session acquired, aggregating
// any release-time failures with multierr rather than masking them
// behind the primary error (spec.md §5: "Shared resources").
func (s *tspiSession) Close() error {
	var errs error
	if s.aik != nil {
		if err := s.ctx.CloseObject(s.aik); err != nil {
			errs = multierr.Append(errs, errors.Wrap(err, "tss: close AIK object"))
		}
	}
	if s.srk != nil {
		if err := s.ctx.CloseObject(s.srk); err != nil {
			errs = multierr.Append(errs, errors.Wrap(err, "tss: close SRK object"))
		}
	}
	s.ctx.Close()
	return errs
}
