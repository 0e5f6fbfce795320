package main

import (
	"encoding/hex"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ptscore/pts/capabilities"
	"github.com/ptscore/pts/ptsconfig"
	"github.com/ptscore/pts/session"
	"github.com/ptscore/pts/tss"
)

var (
	quotePCRs     string
	quoteSecret   string
)

var quoteCmd = &cobra.Command{
	Use:   "quote",
	Short: "Read the requested PCRs and produce a TPM_Quote/TPM_Quote2 over them",
	RunE:  runQuote,
}

func init() {
	quoteCmd.Flags().StringVar(&quotePCRs, "pcrs", "0", "comma-separated list of PCR indices to include")
	quoteCmd.Flags().StringVar(&quoteSecret, "secret", "", "20-byte derived assessment secret, hex-encoded")
	quoteCmd.MarkFlagRequired("secret")
}

func runQuote(cmd *cobra.Command, args []string) error {
	cfg, err := ptsconfig.Load(configPath)
	if err != nil {
		return err
	}
	aikBlob, err := os.ReadFile(cfg.AIKBlobPath)
	if err != nil {
		return fmt.Errorf("ptsctl: read AIK blob: %w", err)
	}
	secret, err := hex.DecodeString(quoteSecret)
	if err != nil {
		return fmt.Errorf("ptsctl: --secret must be hex: %w", err)
	}

	hasTPM, versionInfo, err := capabilities.TPMVersionInfo()
	if err != nil {
		return err
	}

	s := session.New(session.RoleMeasurer, session.WithTPMPresence(hasTPM, versionInfo))
	s.SetAIKBlob(aikBlob)

	opener := tss.NewOpener()
	for _, field := range strings.Split(quotePCRs, ",") {
		idx, err := strconv.Atoi(strings.TrimSpace(field))
		if err != nil {
			return fmt.Errorf("ptsctl: invalid PCR index %q: %w", field, err)
		}
		value, err := s.ReadPCR(opener, idx)
		if err != nil {
			return err
		}
		if err := s.PCRSet().Add(idx, value, value); err != nil {
			return err
		}
	}

	// CalculateSecret is normally the product of a completed DH
	// handshake with the verifier; here the derived secret already
	// arrived out-of-band (e.g. piped from a prior verifier exchange).
	if err := s.SetSecret(secret); err != nil {
		return err
	}

	hash, sig, err := s.QuoteTPM(opener, cfg.UseQuote2)
	if err != nil {
		return err
	}
	fmt.Printf("composite_hash=%s\n", hex.EncodeToString(hash))
	fmt.Printf("signature=%s\n", hex.EncodeToString(sig))
	return nil
}
