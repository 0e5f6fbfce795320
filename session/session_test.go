package session_test

import (
	"bytes"
	"testing"

	"github.com/ptscore/pts/capabilities"
	"github.com/ptscore/pts/session"
)

func TestNewSessionDefaults(t *testing.T) {
	s := session.New(session.RoleVerifier)
	if s.Role() != session.RoleVerifier {
		t.Fatalf("Role() = %v, want RoleVerifier", s.Role())
	}
	if s.ProtoCaps() != session.CapV {
		t.Fatalf("ProtoCaps() = %v, want CapV", s.ProtoCaps())
	}
	if s.MeasAlgorithm() != capabilities.HashSHA256 {
		t.Fatalf("MeasAlgorithm() = %v, want SHA-256", s.MeasAlgorithm())
	}
	if s.DHHashAlgorithm() != capabilities.HashSHA256 {
		t.Fatalf("DHHashAlgorithm() = %v, want SHA-256", s.DHHashAlgorithm())
	}
	if s.HasTPM() {
		t.Fatalf("HasTPM() = true on a fresh session")
	}
	if s.PCRSet().Count() != 0 {
		t.Fatalf("fresh session must start with an empty PCR set")
	}
}

func TestRoleString(t *testing.T) {
	if got := session.RoleMeasurer.String(); got != "measurer" {
		t.Fatalf("RoleMeasurer.String() = %q", got)
	}
	if got := session.RoleVerifier.String(); got != "verifier" {
		t.Fatalf("RoleVerifier.String() = %q", got)
	}
}

func TestSetMeasAlgorithmIgnoresUnknown(t *testing.T) {
	s := session.New(session.RoleMeasurer)
	s.SetMeasAlgorithm(capabilities.HashAlgorithm("md5"))
	if s.MeasAlgorithm() != capabilities.HashSHA256 {
		t.Fatalf("unknown algorithm must be ignored, got %v", s.MeasAlgorithm())
	}
	s.SetMeasAlgorithm(capabilities.HashSHA1)
	if s.MeasAlgorithm() != capabilities.HashSHA1 {
		t.Fatalf("known algorithm must be applied, got %v", s.MeasAlgorithm())
	}
}

func TestSetDHHashAlgorithmIgnoresUnknown(t *testing.T) {
	s := session.New(session.RoleMeasurer)
	s.SetDHHashAlgorithm(capabilities.HashAlgorithm("bogus"))
	if s.DHHashAlgorithm() != capabilities.HashSHA256 {
		t.Fatalf("unknown algorithm must be ignored, got %v", s.DHHashAlgorithm())
	}
}

func TestWithTPMPresenceSetsCaps(t *testing.T) {
	s := session.New(session.RoleMeasurer, session.WithTPMPresence(true, []byte{0x01}))
	if !s.HasTPM() {
		t.Fatalf("HasTPM() = false, want true")
	}
	if !bytes.Equal(s.TPMVersionInfo(), []byte{0x01}) {
		t.Fatalf("TPMVersionInfo() = %x", s.TPMVersionInfo())
	}
	if s.ProtoCaps()&session.CapT == 0 || s.ProtoCaps()&session.CapD == 0 {
		t.Fatalf("ProtoCaps() = %v, want CapT|CapD set", s.ProtoCaps())
	}

	absent := session.New(session.RoleMeasurer, session.WithTPMPresence(false, nil))
	if absent.HasTPM() {
		t.Fatalf("HasTPM() = true, want false")
	}
	if absent.ProtoCaps()&session.CapT != 0 {
		t.Fatalf("ProtoCaps() must not set CapT when no TPM present")
	}
}

func TestWithPlatformInfo(t *testing.T) {
	s := session.New(session.RoleMeasurer, session.WithPlatformInfo("Ubuntu 22.04 x86_64"))
	if got := s.PlatformInfo(); got != "Ubuntu 22.04 x86_64" {
		t.Fatalf("PlatformInfo() = %q", got)
	}
}

func TestGetAIKKeyIDRequiresAIK(t *testing.T) {
	s := session.New(session.RoleMeasurer)
	if _, err := s.GetAIKKeyID(); err != session.ErrMissingAik {
		t.Fatalf("err = %v, want ErrMissingAik", err)
	}
}

func TestGetAIKKeyIDDelegatesToAIK(t *testing.T) {
	s := session.New(session.RoleMeasurer)
	want := bytes.Repeat([]byte{0x09}, 20)
	s.SetAIK(&fingerprintAIK{fp: want})
	got, err := s.GetAIKKeyID()
	if err != nil {
		t.Fatalf("GetAIKKeyID: %v", err)
	}
	if !bytes.Equal(got, want) {
		t.Fatalf("GetAIKKeyID() = %x, want %x", got, want)
	}
}

// fingerprintAIK is a minimal capabilities.AIKSource test double.
type fingerprintAIK struct{ fp []byte }

func (f *fingerprintAIK) PublicKey() (capabilities.PubKey, error) { return capabilities.PubKey{}, nil }
func (f *fingerprintAIK) Fingerprint() ([]byte, error)            { return f.fp, nil }
func (f *fingerprintAIK) Verify(data, signature []byte) (bool, error) {
	return false, nil
}

func TestDestroyZeroisesState(t *testing.T) {
	s := session.New(session.RoleMeasurer, session.WithRNG(fixedRNG{buf: bytes.Repeat([]byte{0xff}, 20)}))
	peer := session.New(session.RoleVerifier, session.WithRNG(fixedRNG{buf: bytes.Repeat([]byte{0x00}, 20)}))
	group := capabilities.Modp1024
	if err := s.CreateDHNonce(group, 20); err != nil {
		t.Fatalf("CreateDHNonce: %v", err)
	}
	if err := peer.CreateDHNonce(group, 20); err != nil {
		t.Fatalf("peer.CreateDHNonce: %v", err)
	}
	sPub, sNonce, _ := s.MyPublicValue()
	pPub, pNonce, _ := peer.MyPublicValue()
	if err := s.SetPeerPublicValue(pPub, pNonce); err != nil {
		t.Fatalf("SetPeerPublicValue: %v", err)
	}
	if err := peer.SetPeerPublicValue(sPub, sNonce); err != nil {
		t.Fatalf("peer.SetPeerPublicValue: %v", err)
	}
	if err := s.CalculateSecret(); err != nil {
		t.Fatalf("CalculateSecret: %v", err)
	}
	s.SetAIKBlob([]byte{0xde, 0xad})
	if err := s.PCRSet().Add(0, bytes.Repeat([]byte{0x00}, 20), bytes.Repeat([]byte{0x00}, 20)); err != nil {
		t.Fatalf("PCRSet().Add: %v", err)
	}

	if len(s.Secret()) == 0 {
		t.Fatalf("precondition: secret must be set before Destroy")
	}

	s.Destroy()

	if len(s.Secret()) != 0 {
		t.Fatalf("Destroy must clear the derived secret")
	}
	if len(s.AIKBlob()) != 0 {
		t.Fatalf("Destroy must clear the AIK blob")
	}
	if s.PCRSet().Count() != 0 {
		t.Fatalf("Destroy must clear the PCR set")
	}
	if err := s.CalculateSecret(); err != session.ErrNoDH {
		t.Fatalf("Destroy must discard DH state, CalculateSecret = %v, want ErrNoDH", err)
	}
}

func TestSetSecretValidatesLength(t *testing.T) {
	s := session.New(session.RoleMeasurer)
	if err := s.SetSecret([]byte{0x01, 0x02}); err == nil {
		t.Fatalf("SetSecret with wrong length must fail")
	}
	want := bytes.Repeat([]byte{0x07}, 20)
	if err := s.SetSecret(want); err != nil {
		t.Fatalf("SetSecret: %v", err)
	}
	if !bytes.Equal(s.Secret(), want) {
		t.Fatalf("Secret() = %x, want %x", s.Secret(), want)
	}
}

func TestDestroyIsSafeOnFreshSession(t *testing.T) {
	s := session.New(session.RoleVerifier)
	s.Destroy() // must not panic
	if s.PCRSet().Count() != 0 {
		t.Fatalf("fresh session's PCR set must remain empty after Destroy")
	}
}
