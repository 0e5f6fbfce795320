package session

import (
	"crypto/sha1" //nolint:gosec // secret framing truncates to 20 bytes regardless of hash choice
	"crypto/sha256"
	"crypto/sha512"
	"fmt"

	"github.com/ptscore/pts/capabilities"
)

// secretLen is the fixed width of the derived assessment secret
// (spec.md §3: "the 20-byte derived assessment value").
const secretLen = 20

// CreateDHNonce creates a fresh DH handle for group and draws n random
// bytes into the role-appropriate nonce: the Measurer writes
// responder_nonce, the Verifier writes initiator_nonce.
func (s *Session) CreateDHNonce(group capabilities.DHGroup, n int) error {
	if n <= 0 {
		return fmt.Errorf("session: CreateDHNonce requires n > 0, got %d", n)
	}
	dh, err := capabilities.NewDHHandle(group)
	if err != nil {
		return err
	}
	nonce, err := s.rng.Fill(n)
	if err != nil {
		return err
	}
	s.dh = dh
	switch s.role {
	case RoleMeasurer:
		s.responderNonce = nonce
	case RoleVerifier:
		s.initiatorNonce = nonce
	}
	return nil
}

// MyPublicValue returns this side's DH public value and local nonce.
func (s *Session) MyPublicValue() (pub, nonce []byte, err error) {
	if s.dh == nil {
		return nil, nil, ErrNoDH
	}
	return s.dh.MyPublic(), s.localNonce(), nil
}

// SetPeerPublicValue stores the peer's DH public value and nonce.
func (s *Session) SetPeerPublicValue(pub, nonce []byte) error {
	if s.dh == nil {
		return ErrNoDH
	}
	if err := s.dh.SetPeerPublic(pub); err != nil {
		return err
	}
	peerNonce := make([]byte, len(nonce))
	copy(peerNonce, nonce)
	switch s.role {
	case RoleMeasurer:
		s.initiatorNonce = peerNonce
	case RoleVerifier:
		s.responderNonce = peerNonce
	}
	return nil
}

func (s *Session) localNonce() []byte {
	if s.role == RoleMeasurer {
		return s.responderNonce
	}
	return s.initiatorNonce
}

// CalculateSecret computes
//
//	secret = H(dh_hash_algo; "1" || initiator_nonce || responder_nonce || Z)[0:20]
//
// where Z is the DH shared secret, and stores the truncated result as
// the session's secret. The shared secret buffer is zeroed immediately
// after use (spec.md §4.4).
func (s *Session) CalculateSecret() error {
	if len(s.initiatorNonce) == 0 || len(s.responderNonce) == 0 {
		return ErrMissingNonce
	}
	if s.dh == nil {
		return ErrNoDH
	}
	z, err := s.dh.SharedSecret()
	if err != nil {
		return err
	}
	defer zero(z)

	digest, err := hashSecretFraming(s.dhHashAlgo, s.initiatorNonce, s.responderNonce, z)
	if err != nil {
		return err
	}
	if len(digest) < secretLen {
		return fmt.Errorf("session: digest shorter than secret width: %d bytes", len(digest))
	}
	s.secret = digest[:secretLen]
	return nil
}

// hashSecretFraming implements the wire framing of spec.md §8 property
// 2: H(dh_hash_algo; "1" ‖ Ni ‖ Nr ‖ Z).
func hashSecretFraming(algo capabilities.HashAlgorithm, ni, nr, z []byte) ([]byte, error) {
	var sum []byte
	frame := append([]byte{'1'}, ni...)
	frame = append(frame, nr...)
	frame = append(frame, z...)

	switch algo {
	case capabilities.HashSHA1:
		h := sha1.Sum(frame)
		sum = h[:]
	case capabilities.HashSHA256:
		h := sha256.Sum256(frame)
		sum = h[:]
	case capabilities.HashSHA384:
		h := sha512.Sum384(frame)
		sum = h[:]
	case capabilities.HashSHA512:
		h := sha512.Sum512(frame)
		sum = h[:]
	default:
		return nil, capabilities.ErrHasherUnavailable
	}
	return sum, nil
}
