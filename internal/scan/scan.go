// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package scan

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/pdiddy/deis-covid/pkg/types"
)

// Result is the outcome of a full scan.
type Result struct {
	// Columns holds the normalized column names of the source.
	Columns []string

	// CauseColumns holds the columns searched for keywords.
	CauseColumns []string

	// Records holds the matching rows in source order.
	Records []types.Record

	// Batches is the number of batches read.
	Batches int

	// RowsScanned is the number of data rows read.
	RowsScanned int
}

// Total returns the number of matching records.
func (r *Result) Total() int {
	return len(r.Records)
}

// Run reads cfg.Source batch by batch, keeps the rows whose diagnosis
// columns mention a keyword and returns them with the run counters.
// Batches are processed strictly in order. ctx is checked between batches.
func Run(ctx context.Context, cfg types.ScanConfig) (*Result, error) {
	r, err := NewReader(cfg)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	cls := NewClassifier(cfg.Keywords)
	res := &Result{Columns: NormalizeColumnNames(r.Columns())}
	res.CauseColumns = SelectCauseColumns(res.Columns)

	slog.Info("scan started",
		"source", cfg.Source,
		"encoding", cfg.Encoding,
		"batch_size", cfg.BatchSize,
		"cause_columns", res.CauseColumns)

	var acc Accumulator
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		batch, err := r.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		batch = NormalizeColumns(batch)
		cause := SelectCauseColumns(batch.Columns)
		flags := cls.Classify(batch, cause)
		n := acc.Append(batch, flags)

		res.Batches++
		res.RowsScanned += batch.Len()
		slog.Debug("batch scanned",
			"seq", batch.Seq,
			"rows", batch.Len(),
			"matches", n,
			"total_matches", acc.Len())
	}

	res.Records = acc.Records()
	slog.Info("scan finished",
		"batches", res.Batches,
		"rows", res.RowsScanned,
		"matches", res.Total())
	return res, nil
}
