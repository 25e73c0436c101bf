// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package export

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/deis-covid/internal/report"
)

// SummaryFile is the on-disk form of a run's aggregates.
type SummaryFile struct {
	Source      string         `json:"source" yaml:"source"`
	Output      string         `json:"output" yaml:"output"`
	Keywords    []string       `json:"keywords" yaml:"keywords"`
	Batches     int            `json:"batches" yaml:"batches"`
	RowsScanned int            `json:"rows_scanned" yaml:"rows_scanned"`
	GeneratedAt time.Time      `json:"generated_at" yaml:"generated_at"`
	Report      report.Summary `json:"report" yaml:"report"`
}

// WriteSummary writes sf to path. The format follows the extension: .json
// writes indented JSON, anything else writes YAML.
func WriteSummary(path string, sf SummaryFile) error {
	var (
		data []byte
		err  error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		data, err = json.MarshalIndent(sf, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling JSON: %w", err)
		}
		data = append(data, '\n')
	default:
		data, err = yaml.Marshal(&sf)
		if err != nil {
			return fmt.Errorf("marshaling YAML: %w", err)
		}
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}
	}
	return os.WriteFile(path, data, 0o644)
}

// ReadSummary loads a summary previously written by WriteSummary.
func ReadSummary(path string) (*SummaryFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading summary: %w", err)
	}
	var sf SummaryFile
	if strings.ToLower(filepath.Ext(path)) == ".json" {
		err = json.Unmarshal(data, &sf)
	} else {
		err = yaml.Unmarshal(data, &sf)
	}
	if err != nil {
		return nil, fmt.Errorf("parsing summary: %w", err)
	}
	return &sf, nil
}
