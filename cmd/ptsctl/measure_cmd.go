package main

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/ptscore/pts/capabilities"
	"github.com/ptscore/pts/measure"
)

var (
	measureDir       bool
	measureAlgo      string
	measureRequestID string
)

var measureCmd = &cobra.Command{
	Use:   "measure PATH",
	Short: "Hash a file or one level of a directory and print the measurements as JSON",
	Args:  cobra.ExactArgs(1),
	RunE:  runMeasure,
}

func init() {
	measureCmd.Flags().BoolVar(&measureDir, "dir", false, "treat PATH as a directory to enumerate one level deep")
	measureCmd.Flags().StringVar(&measureAlgo, "algo", "sha256", "hash algorithm: sha1, sha256, sha384, sha512")
	measureCmd.Flags().StringVar(&measureRequestID, "request-id", "", "request id to stamp on the result (default: a fresh UUID)")
}

func runMeasure(cmd *cobra.Command, args []string) error {
	path := args[0]

	status, err := measure.IsPathValid(path)
	if err != nil {
		return err
	}
	if status != measure.PathOK {
		return fmt.Errorf("ptsctl: %s: %s", path, status)
	}

	requestID := measureRequestID
	if requestID == "" {
		requestID = uuid.NewString()
	}

	fm, err := measure.Measure(capabilities.OSDirEnumerator{}, requestID, path, measureDir, capabilities.HashAlgorithm(measureAlgo))
	if err != nil {
		return err
	}

	out := struct {
		RequestID    string `json:"request_id"`
		Measurements []struct {
			LogicalName string `json:"logical_name"`
			Digest      string `json:"digest"`
		} `json:"measurements"`
	}{RequestID: fm.RequestID}
	for _, m := range fm.Measurements {
		out.Measurements = append(out.Measurements, struct {
			LogicalName string `json:"logical_name"`
			Digest      string `json:"digest"`
		}{LogicalName: m.LogicalName, Digest: hex.EncodeToString(m.Digest)})
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
