// Package ptsconfig loads operator-supplied configuration for a
// session: which AIK credential to present, where its TSS blob lives,
// and which protocol defaults to apply. The shape is adapted from a
// metadata-server launch spec, but the source here is a local JSON
// file plus environment variable overrides, since there is no cloud
// metadata server on the machine hosting the TPM.
package ptsconfig

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
)

// Config key names, both in the JSON file and as PTS_-prefixed
// environment variable overrides.
const (
	aikCertPathKey  = "aik-cert-path"
	aikPubPathKey   = "aik-pub-path"
	aikBlobPathKey  = "aik-blob-path"
	measAlgoKey     = "meas-algorithm"
	dhHashAlgoKey   = "dh-hash-algorithm"
	useQuote2Key    = "use-quote2"
	envPrefix       = "PTS_"
)

var errAIKSourceNotSpecified = fmt.Errorf("ptsconfig: neither %s nor %s is set", aikCertPathKey, aikPubPathKey)

// Config is the resolved set of operator choices for one ptsctl
// invocation or daemon instance.
type Config struct {
	// AIKCertPath and AIKPubPath are mutually exclusive AIK sources; a
	// certificate takes precedence when both are set (spec.md §6).
	AIKCertPath string
	AIKPubPath  string
	// AIKBlobPath is the raw TSS key-blob file backing the AIK.
	AIKBlobPath string

	MeasAlgorithm   string
	DHHashAlgorithm string
	UseQuote2       bool
}

// defaults mirror session.New's own defaults so an empty config file
// still produces a usable session.
func defaults() Config {
	return Config{
		MeasAlgorithm:   "sha256",
		DHHashAlgorithm: "sha256",
		UseQuote2:       true,
	}
}

// Load reads path as a JSON config file (a missing file is not an
// error; defaults apply), then applies PTS_-prefixed environment
// variable overrides, and validates that an AIK source was supplied.
func Load(path string) (Config, error) {
	cfg := defaults()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if jerr := json.Unmarshal(data, &jsonConfig{&cfg}); jerr != nil {
				return Config{}, fmt.Errorf("ptsconfig: parse %s: %w", path, jerr)
			}
		case os.IsNotExist(err):
			// fall through with defaults
		default:
			return Config{}, fmt.Errorf("ptsconfig: read %s: %w", path, err)
		}
	}

	applyEnvOverrides(&cfg)

	if cfg.AIKCertPath == "" && cfg.AIKPubPath == "" {
		return Config{}, errAIKSourceNotSpecified
	}
	return cfg, nil
}

// jsonConfig adapts Config's exported Go field names to the kebab-case
// key names used on the wire, the same split LaunchSpec.UnmarshalJSON
// performs for its own metadata keys.
type jsonConfig struct {
	cfg *Config
}

func (j *jsonConfig) UnmarshalJSON(b []byte) error {
	var m map[string]interface{}
	if err := json.Unmarshal(b, &m); err != nil {
		return err
	}
	if v, ok := m[aikCertPathKey].(string); ok {
		j.cfg.AIKCertPath = v
	}
	if v, ok := m[aikPubPathKey].(string); ok {
		j.cfg.AIKPubPath = v
	}
	if v, ok := m[aikBlobPathKey].(string); ok {
		j.cfg.AIKBlobPath = v
	}
	if v, ok := m[measAlgoKey].(string); ok && v != "" {
		j.cfg.MeasAlgorithm = v
	}
	if v, ok := m[dhHashAlgoKey].(string); ok && v != "" {
		j.cfg.DHHashAlgorithm = v
	}
	if v, ok := m[useQuote2Key].(bool); ok {
		j.cfg.UseQuote2 = v
	}
	return nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv(envPrefix + "AIK_CERT_PATH"); v != "" {
		cfg.AIKCertPath = v
	}
	if v := os.Getenv(envPrefix + "AIK_PUB_PATH"); v != "" {
		cfg.AIKPubPath = v
	}
	if v := os.Getenv(envPrefix + "AIK_BLOB_PATH"); v != "" {
		cfg.AIKBlobPath = v
	}
	if v := os.Getenv(envPrefix + "MEAS_ALGORITHM"); v != "" {
		cfg.MeasAlgorithm = v
	}
	if v := os.Getenv(envPrefix + "DH_HASH_ALGORITHM"); v != "" {
		cfg.DHHashAlgorithm = v
	}
	if v := os.Getenv(envPrefix + "USE_QUOTE2"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.UseQuote2 = b
		}
	}
}
