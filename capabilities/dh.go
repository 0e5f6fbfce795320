package capabilities

import (
	"crypto/rand"
	"math/big"
)

// DHGroup names a classic (modular-exponentiation) Diffie-Hellman
// group by its prime modulus and generator. The PTS protocol only
// ever negotiates one of a small, fixed set of these (the well-known
// IKE/TLS MODP groups), so DHGroup is a value type rather than an
// interface.
type DHGroup struct {
	Name string
	P    *big.Int
	G    *big.Int
}

// Modp1024 is RFC 2409's Second Oakley Group, the smallest group the
// core negotiates by default.
var Modp1024 = DHGroup{
	Name: "modp1024",
	P: mustHex("FFFFFFFFFFFFFFFFC90FDAA22168C234C4C6628B80DC1CD" +
		"129024E088A67CC74020BBEA63B139B22514A08798E3404DDEF9519" +
		"B3CD3A431B302B0A6DF25F14374FE1356D6D51C245E485B576625E7" +
		"EC6F44C42E9A637ED6B0BFF5CB6F406B7EDEE386BFB5A899FA5AE9F" +
		"24117C4B1FE649286651ECE65381FFFFFFFFFFFFFFFF"),
	G: big.NewInt(2),
}

func mustHex(s string) *big.Int {
	n, ok := new(big.Int).SetString(s, 16)
	if !ok {
		panic("capabilities: bad DH group constant")
	}
	return n
}

// DHHandle is a single Diffie-Hellman key-agreement in progress: it
// owns its own keypair against a fixed group.
type DHHandle interface {
	// MyPublic returns this side's public value, g^x mod p.
	MyPublic() []byte
	// SetPeerPublic stores the peer's public value. It fails with
	// ErrKeyAgreementFailed if the value is out of range for the group.
	SetPeerPublic(pub []byte) error
	// SharedSecret computes peerPublic^x mod p. It fails with
	// ErrKeyAgreementFailed if SetPeerPublic has not been called.
	SharedSecret() ([]byte, error)
}

type modpHandle struct {
	group      DHGroup
	x          *big.Int // private exponent
	myPublic   *big.Int
	peerPublic *big.Int
}

// NewDHHandle generates a fresh keypair in group and returns the
// resulting handle. It fails with ErrNoRNG if the private exponent
// cannot be drawn from a strong source.
func NewDHHandle(group DHGroup) (DHHandle, error) {
	// private exponent in [2, p-2]
	pMinus3 := new(big.Int).Sub(group.P, big.NewInt(3))
	x, err := rand.Int(rand.Reader, pMinus3)
	if err != nil {
		return nil, ErrNoRNG
	}
	x.Add(x, big.NewInt(2))
	pub := new(big.Int).Exp(group.G, x, group.P)
	return &modpHandle{group: group, x: x, myPublic: pub}, nil
}

func (m *modpHandle) MyPublic() []byte { return m.myPublic.Bytes() }

func (m *modpHandle) SetPeerPublic(pub []byte) error {
	p := new(big.Int).SetBytes(pub)
	// Reject the trivial subgroup elements 0, 1 and p-1.
	if p.Sign() <= 0 || p.Cmp(m.group.P) >= 0 {
		return ErrKeyAgreementFailed
	}
	one := big.NewInt(1)
	pMinus1 := new(big.Int).Sub(m.group.P, one)
	if p.Cmp(one) == 0 || p.Cmp(pMinus1) == 0 {
		return ErrKeyAgreementFailed
	}
	m.peerPublic = p
	return nil
}

func (m *modpHandle) SharedSecret() ([]byte, error) {
	if m.peerPublic == nil {
		return nil, ErrKeyAgreementFailed
	}
	z := new(big.Int).Exp(m.peerPublic, m.x, m.group.P)
	return z.Bytes(), nil
}
