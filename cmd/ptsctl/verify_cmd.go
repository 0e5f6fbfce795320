package main

import (
	"crypto/rsa"
	"crypto/x509"
	"encoding/hex"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ptscore/pts/capabilities"
	"github.com/ptscore/pts/ptsconfig"
	"github.com/ptscore/pts/session"
)

var (
	verifyDataFile string
	verifySigHex   string
)

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Verify an RSA-PKCS1v15/SHA-1 signature over quote-info bytes against the configured AIK",
	RunE:  runVerify,
}

func init() {
	verifyCmd.Flags().StringVar(&verifyDataFile, "data", "", "path to the TPM_QUOTE_INFO/TPM_QUOTE_INFO2 bytes to verify")
	verifyCmd.Flags().StringVar(&verifySigHex, "sig", "", "signature bytes, hex-encoded")
	verifyCmd.MarkFlagRequired("data")
	verifyCmd.MarkFlagRequired("sig")
}

func runVerify(cmd *cobra.Command, args []string) error {
	cfg, err := ptsconfig.Load(configPath)
	if err != nil {
		return err
	}

	aik, err := loadAIK(cfg)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(verifyDataFile)
	if err != nil {
		return fmt.Errorf("ptsctl: read --data: %w", err)
	}
	sig, err := hex.DecodeString(verifySigHex)
	if err != nil {
		return fmt.Errorf("ptsctl: --sig must be hex: %w", err)
	}

	s := session.New(session.RoleVerifier)
	s.SetAIK(aik)

	ok, err := s.VerifyQuoteSignature(data, sig)
	if err != nil {
		return err
	}
	if !ok {
		fmt.Println("signature INVALID")
		os.Exit(1)
	}
	fmt.Println("signature valid")
	return nil
}

// loadAIK resolves the AIK source per spec.md §6: a certificate takes
// precedence over a bare public key when both are configured.
func loadAIK(cfg ptsconfig.Config) (capabilities.AIKSource, error) {
	if cfg.AIKCertPath != "" {
		der, err := os.ReadFile(cfg.AIKCertPath)
		if err != nil {
			return nil, fmt.Errorf("ptsctl: read AIK cert: %w", err)
		}
		return capabilities.ParseCertAIK(der)
	}
	der, err := os.ReadFile(cfg.AIKPubPath)
	if err != nil {
		return nil, fmt.Errorf("ptsctl: read AIK public key: %w", err)
	}
	return parseBarePubKey(der)
}

// parseBarePubKey parses a DER-encoded SubjectPublicKeyInfo into a
// BarePubKeyAIK, the trusted-public-key AIK source of spec.md §6.
func parseBarePubKey(der []byte) (capabilities.AIKSource, error) {
	pub, err := x509.ParsePKIXPublicKey(der)
	if err != nil {
		return nil, fmt.Errorf("ptsctl: parse AIK public key: %w", err)
	}
	rsaKey, ok := pub.(*rsa.PublicKey)
	if !ok {
		return nil, fmt.Errorf("ptsctl: AIK public key is not RSA")
	}
	return &capabilities.BarePubKeyAIK{Key: rsaKey, DER: der}, nil
}
