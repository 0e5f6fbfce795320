package main

import (
	"github.com/google/logger"
	"github.com/spf13/cobra"

	"github.com/ptscore/pts/pcr"
	"github.com/ptscore/pts/session"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "ptsctl",
	Short: "Platform Trust Service command-line client",
	Long: "ptsctl drives a single attestation round (measure, quote, verify) " +
		"against a local TPM 1.2, for operators and scripted integration tests.",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		pcr.Warnf = logger.Warningf
		session.Logf = logger.Warningf
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "/etc/pts/ptsctl.json", "path to ptsctl JSON config")
	rootCmd.AddCommand(measureCmd, quoteCmd, verifyCmd)
}
