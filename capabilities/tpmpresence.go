package capabilities

import (
	"fmt"

	"github.com/google/go-attestation/attest"
)

// TPMVersionInfo probes the local platform for a usable TPM 1.2 and,
// if present, returns has_tpm=true along with a version blob the
// session stores verbatim (see encodeVersionInfo; it is not the TPM's
// raw TPM_CAP_VERSION_INFO structure). It is used
// only to populate session state; the Quote plane (package tss) talks
// to the TPM independently through go-tspi.
func TPMVersionInfo() (hasTPM bool, versionInfo []byte, err error) {
	t, err := attest.OpenTPM(&attest.OpenConfig{})
	if err != nil {
		// No usable TPM is not an error condition for the session: it
		// simply runs without {T, D} capability flags.
		return false, nil, nil
	}
	defer t.Close()

	info, err := t.Info()
	if err != nil {
		return false, nil, fmt.Errorf("capabilities: read TPM info: %w", err)
	}
	if info.Version != attest.TPMVersion12 {
		return false, nil, nil
	}
	return true, encodeVersionInfo(info), nil
}

// encodeVersionInfo builds a variable-length blob from the fields
// go-attestation exposes: the manufacturer name and the vendor info
// string, each followed by a NUL byte. It does not produce the
// TPM_CAP_VERSION_INFO layout. This core treats the blob as opaque and
// never unpacks it itself, only stores and forwards it (see
// get_quote_info with use_version_info).
func encodeVersionInfo(info *attest.TPMInfo) []byte {
	manufacturer := info.Manufacturer.String()
	vendor := info.VendorInfo
	blob := make([]byte, 0, len(manufacturer)+len(vendor)+2)
	blob = append(blob, []byte(manufacturer)...)
	blob = append(blob, 0)
	blob = append(blob, []byte(vendor)...)
	blob = append(blob, 0)
	return blob
}
