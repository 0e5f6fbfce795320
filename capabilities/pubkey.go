package capabilities

import (
	"crypto"
	"crypto/rsa"
	"crypto/sha1" //nolint:gosec // AIK key-id and signature scheme are fixed by the TPM 1.2 spec
	"fmt"

	// Rather than crypto/x509: the CT fork lets us disable the critical
	// extension checks that trip on the SAN-less AIK certs TPM vendors
	// commonly issue. Same reasoning as the teacher's server/verify.go.
	"github.com/google/certificate-transparency-go/x509"
)

// PubKey is the AIK public key, exposed independent of whether it
// arrived as a bare key or wrapped in a certificate.
type PubKey struct {
	RSA *rsa.PublicKey
}

// AIKSource is the certificate/public-key capability: either an X.509
// certificate or a bare trusted public key. A certificate always wins
// when both are present (spec: "certificate takes precedence").
type AIKSource interface {
	// PublicKey extracts the AIK's RSA public key.
	PublicKey() (PubKey, error)
	// Fingerprint returns SHA-1 of the DER-encoded SubjectPublicKeyInfo.
	Fingerprint() ([]byte, error)
	// Verify checks an RSA-PKCS1v15/SHA-1 signature over data.
	Verify(data, signature []byte) (bool, error)
}

// CertAIK wraps a parsed X.509 certificate.
type CertAIK struct {
	Cert *x509.Certificate
}

// ParseCertAIK parses a DER-encoded certificate into a CertAIK.
func ParseCertAIK(der []byte) (*CertAIK, error) {
	cert, err := x509.ParseCertificate(der)
	if err != nil {
		return nil, fmt.Errorf("capabilities: parse AIK certificate: %w", err)
	}
	return &CertAIK{Cert: cert}, nil
}

func (c *CertAIK) PublicKey() (PubKey, error) {
	rsaKey, ok := c.Cert.PublicKey.(*rsa.PublicKey)
	if !ok {
		return PubKey{}, fmt.Errorf("capabilities: AIK certificate does not carry an RSA key")
	}
	return PubKey{RSA: rsaKey}, nil
}

func (c *CertAIK) Fingerprint() ([]byte, error) {
	sum := sha1.Sum(c.Cert.RawSubjectPublicKeyInfo)
	return sum[:], nil
}

func (c *CertAIK) Verify(data, signature []byte) (bool, error) {
	pk, err := c.PublicKey()
	if err != nil {
		return false, err
	}
	return verifyRSAPKCS1SHA1(pk.RSA, data, signature), nil
}

// BarePubKeyAIK wraps a trusted public key supplied without a
// certificate (used when role==Verifier already trusts the AIK
// out-of-band).
type BarePubKeyAIK struct {
	Key *rsa.PublicKey
	DER []byte // DER-encoded SubjectPublicKeyInfo, for Fingerprint
}

func (b *BarePubKeyAIK) PublicKey() (PubKey, error) { return PubKey{RSA: b.Key}, nil }

func (b *BarePubKeyAIK) Fingerprint() ([]byte, error) {
	sum := sha1.Sum(b.DER)
	return sum[:], nil
}

func (b *BarePubKeyAIK) Verify(data, signature []byte) (bool, error) {
	return verifyRSAPKCS1SHA1(b.Key, data, signature), nil
}

func verifyRSAPKCS1SHA1(pub *rsa.PublicKey, data, signature []byte) bool {
	if pub == nil {
		return false
	}
	digest := sha1.Sum(data)
	return rsa.VerifyPKCS1v15(pub, crypto.SHA1, digest[:], signature) == nil
}
