// Package dataset reads batch and signal files for the CLI and writes match
// results. Files may be YAML or JSON; the format follows the extension.
package dataset

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"

	"github.com/spigell/affinity/internal/ai"
	"github.com/spigell/affinity/internal/matching"
	"github.com/spigell/affinity/internal/profile"
)

// Batch is one seeker with the candidates to rank.
type Batch struct {
	Seeker     *profile.UserProfile   `mapstructure:"seeker"`
	Candidates []*profile.UserProfile `mapstructure:"candidates"`
	// Frequencies optionally maps interests to their population share.
	Frequencies map[string]float64 `mapstructure:"interest-frequencies"`
}

// LoadBatch reads a batch file. Unknown keys are an error so that typos in
// profile fields do not silently turn into zero scores.
func LoadBatch(path string) (*Batch, error) {
	var batch Batch
	if err := load(path, &batch); err != nil {
		return nil, err
	}
	if batch.Seeker == nil {
		return nil, fmt.Errorf("batch %q: seeker is required", path)
	}
	return &batch, nil
}

// LoadSignals reads the raw signals of one user.
func LoadSignals(path string) (*ai.Signals, error) {
	var signals ai.Signals
	if err := load(path, &signals); err != nil {
		return nil, err
	}
	return &signals, nil
}

func load(path string, out any) error {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("reading %q: %w", path, err)
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		ErrorUnused:      true,
		WeaklyTypedInput: true,
		DecodeHook:       mapstructure.StringToTimeHookFunc(time.RFC3339),
		Result:           out,
	})
	if err != nil {
		return fmt.Errorf("creating decoder: %w", err)
	}

	if err := decoder.Decode(v.AllSettings()); err != nil {
		return fmt.Errorf("decoding %q: %w", path, err)
	}
	return nil
}

// WriteOutcome encodes the outcome as indented JSON.
func WriteOutcome(w io.Writer, outcome *matching.Outcome) error {
	if outcome == nil {
		return errors.New("outcome is nil")
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(outcome)
}

// WriteOutcomeFile writes the outcome to path, or to a new temporary file
// when path is empty, and returns the file name.
func WriteOutcomeFile(path string, outcome *matching.Outcome) (string, error) {
	var (
		file *os.File
		err  error
	)
	if path == "" {
		file, err = os.CreateTemp("", "matches_*.json")
	} else {
		file, err = os.Create(path)
	}
	if err != nil {
		return "", err
	}
	defer file.Close()

	if err := WriteOutcome(file, outcome); err != nil {
		return "", fmt.Errorf("writing %q: %w", file.Name(), err)
	}
	return file.Name(), nil
}
