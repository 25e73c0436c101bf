// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package export writes the matched records and the report summary to disk.
package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pdiddy/deis-covid/pkg/types"
)

// WriteCSV writes records to path as comma-delimited UTF-8 text with a
// header row of columns. Missing cells are written as empty fields. Rows are
// written in the order given, so the same input always yields the same
// bytes.
func WriteCSV(path string, columns []string, records []types.Record) (err error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("closing %s: %w", path, cerr)
		}
	}()

	w := csv.NewWriter(f)

	if err := w.Write(columns); err != nil {
		return fmt.Errorf("writing header to %s: %w", path, err)
	}

	row := make([]string, len(columns))
	for n, rec := range records {
		for i := range row {
			row[i] = rec.Cell(i)
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("writing record %d to %s: %w", n+1, path, err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
