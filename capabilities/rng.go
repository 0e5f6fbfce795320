package capabilities

import "crypto/rand"

// RNG is the strong random source the session draws nonces from.
type RNG interface {
	// Fill returns n cryptographically strong random bytes, or
	// ErrNoRNG if no strong source is available.
	Fill(n int) ([]byte, error)
}

// SystemRNG is backed by crypto/rand.Reader.
type SystemRNG struct{}

// Fill implements RNG.
func (SystemRNG) Fill(n int) ([]byte, error) {
	if n <= 0 {
		return nil, nil
	}
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return nil, ErrNoRNG
	}
	return buf, nil
}
