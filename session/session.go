package session

import (
	"fmt"

	"github.com/ptscore/pts/capabilities"
	"github.com/ptscore/pts/pcr"
)

// Role is fixed at session creation and never changes.
type Role int

const (
	RoleMeasurer Role = iota
	RoleVerifier
)

func (r Role) String() string {
	if r == RoleMeasurer {
		return "measurer"
	}
	return "verifier"
}

// ProtoCap is a bit in the protocol capability set {C, V, D, T, X}.
type ProtoCap uint8

const (
	CapC ProtoCap = 1 << iota // Challenge-response
	CapV                      // Versioning
	CapD                      // DH key agreement
	CapT                      // TPM Quote
	CapX                      // reserved / extension
)

// defaultCaps is {V}, per spec.md §3.
const defaultCaps = CapV

// Logf receives session-level diagnostic/warning messages. It
// defaults to a no-op; cmd/ptsctl rewires it to the ambient
// google/logger sink, the same pattern used by package pcr.
var Logf = func(format string, args ...interface{}) {}

// Session is one attestation round's state, per spec.md §3. Its
// methods are not safe under concurrent mutation (spec.md §5); the
// caller is responsible for one goroutine per session.
type Session struct {
	role Role

	protoCaps  ProtoCap
	measAlgo   capabilities.HashAlgorithm
	dhHashAlgo capabilities.HashAlgorithm

	rng capabilities.RNG
	dh  capabilities.DHHandle

	initiatorNonce []byte
	responderNonce []byte
	secret         []byte

	platformInfo string
	hasTPM       bool
	tpmVersionInfo []byte

	aik     capabilities.AIKSource
	aikBlob []byte

	pcrSet pcr.Set
}

// Option configures a Session at construction time.
type Option func(*Session)

// WithRNG overrides the strong random source (defaults to
// capabilities.SystemRNG{}).
func WithRNG(rng capabilities.RNG) Option {
	return func(s *Session) { s.rng = rng }
}

// WithPlatformInfo seeds platform_info directly, bypassing platform
// detection (useful for tests and for callers that already know it).
func WithPlatformInfo(info string) Option {
	return func(s *Session) { s.platformInfo = info }
}

// WithTPMPresence seeds has_tpm and tpm_version_info directly.
func WithTPMPresence(hasTPM bool, versionInfo []byte) Option {
	return func(s *Session) {
		s.hasTPM = hasTPM
		s.tpmVersionInfo = versionInfo
		if hasTPM {
			s.protoCaps |= CapT | CapD
		}
	}
}

// New creates an empty session for role, per spec.md §3's lifecycle:
// "a session is created empty, parametrised by role."
func New(role Role, opts ...Option) *Session {
	s := &Session{
		role:       role,
		protoCaps:  defaultCaps,
		measAlgo:   capabilities.HashSHA256,
		dhHashAlgo: capabilities.HashSHA256,
		rng:        capabilities.SystemRNG{},
		pcrSet:     pcr.NewSet(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Role returns the session's fixed role.
func (s *Session) Role() Role { return s.role }

// ProtoCaps returns the currently advertised capability bits.
func (s *Session) ProtoCaps() ProtoCap { return s.protoCaps }

// SetProtoCaps stores caps verbatim.
func (s *Session) SetProtoCaps(caps ProtoCap) { s.protoCaps = caps }

// MeasAlgorithm returns the hash used for file measurements.
func (s *Session) MeasAlgorithm() capabilities.HashAlgorithm { return s.measAlgo }

// SetMeasAlgorithm stores algo if it maps to a known hash family;
// otherwise the call is ignored (spec.md §4.4).
func (s *Session) SetMeasAlgorithm(algo capabilities.HashAlgorithm) {
	if capabilities.Supported(algo) {
		s.measAlgo = algo
	}
}

// DHHashAlgorithm returns the hash used to derive the assessment secret.
func (s *Session) DHHashAlgorithm() capabilities.HashAlgorithm { return s.dhHashAlgo }

// SetDHHashAlgorithm stores algo if it maps to a known hash family;
// otherwise the call is ignored.
func (s *Session) SetDHHashAlgorithm(algo capabilities.HashAlgorithm) {
	if capabilities.Supported(algo) {
		s.dhHashAlgo = algo
	}
}

// PlatformInfo returns the derived "OS/distribution + machine" string,
// or "" if derivation failed (PlatformInfoUnavailable is non-fatal).
func (s *Session) PlatformInfo() string { return s.platformInfo }

// HasTPM reports whether a usable TPM was detected for this session.
func (s *Session) HasTPM() bool { return s.hasTPM }

// TPMVersionInfo returns the opaque TPM_CAP_VERSION_INFO blob, if any.
func (s *Session) TPMVersionInfo() []byte { return s.tpmVersionInfo }

// SetAIK stores the AIK source (certificate or bare public key). Each
// call replaces the previous source; choosing a certificate over a bare
// key when both are configured is done by the caller (cmd/ptsctl's
// loadAIK).
func (s *Session) SetAIK(aik capabilities.AIKSource) { s.aik = aik }

// AIK returns the currently configured AIK source, if any.
func (s *Session) AIK() capabilities.AIKSource { return s.aik }

// SetAIKBlob stores the raw TSS key-blob bytes needed to load the AIK.
func (s *Session) SetAIKBlob(blob []byte) { s.aikBlob = blob }

// AIKBlob returns the stored AIK key-blob bytes.
func (s *Session) AIKBlob() []byte { return s.aikBlob }

// PCRSet exposes the embedded PCR set model for measurement/extension
// callers. It is a plain value type, not a separately allocated
// object (spec.md §9), so callers mutate it through this pointer.
func (s *Session) PCRSet() *pcr.Set { return &s.pcrSet }

// Secret returns the derived 20-byte assessment secret, if any.
func (s *Session) Secret() []byte { return s.secret }

// SetSecret installs a pre-derived secret directly, bypassing
// CalculateSecret. Used when the secret arrived out-of-band (for
// example, carried over from a completed handshake on another
// process). secret must be exactly secretLen bytes.
func (s *Session) SetSecret(secret []byte) error {
	if len(secret) != secretLen {
		return fmt.Errorf("session: secret must be %d bytes, got %d", secretLen, len(secret))
	}
	s.secret = append([]byte(nil), secret...)
	return nil
}

// GetAIKKeyID returns SHA-1 of the AIK's SubjectPublicKeyInfo.
func (s *Session) GetAIKKeyID() ([]byte, error) {
	if s.aik == nil {
		return nil, ErrMissingAik
	}
	return s.aik.Fingerprint()
}

// Destroy zeroises nonces, the derived secret, DH state, and the AIK
// blob before the session is released. It is safe to call from any
// state, including a freshly created session (spec.md §4.4).
func (s *Session) Destroy() {
	zero(s.initiatorNonce)
	zero(s.responderNonce)
	zero(s.secret)
	zero(s.aikBlob)
	s.initiatorNonce = nil
	s.responderNonce = nil
	s.secret = nil
	s.aikBlob = nil
	s.dh = nil
	s.pcrSet.Clear()
}

func zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
