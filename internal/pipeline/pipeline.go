// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline runs a complete scan: filter the source, print the
// report, write the export and, when configured, the summary file and the
// run store.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/pdiddy/deis-covid/internal/export"
	"github.com/pdiddy/deis-covid/internal/report"
	"github.com/pdiddy/deis-covid/internal/scan"
	"github.com/pdiddy/deis-covid/internal/store"
	"github.com/pdiddy/deis-covid/pkg/types"
)

// Outcome holds everything a run produced.
type Outcome struct {
	Scan    *scan.Result
	Summary report.Summary
	RunID   int64
}

// Execute performs one run with cfg, writing the console report to out.
// Read and write failures abort the run; missing report columns only
// produce warnings.
func Execute(ctx context.Context, cfg types.Config, out io.Writer) (*Outcome, error) {
	started := time.Now()

	res, err := scan.Run(ctx, cfg.Scan)
	if err != nil {
		return nil, err
	}

	sum := report.Build(res.Columns, res.Records, cfg.Report.TopN)
	if err := report.Print(out, sum); err != nil {
		return nil, fmt.Errorf("printing report: %w", err)
	}
	for _, w := range sum.Warnings() {
		slog.Warn("report section skipped", "reason", w)
	}

	if err := export.WriteCSV(cfg.Export.Output, res.Columns, res.Records); err != nil {
		return nil, err
	}
	slog.Info("export written", "path", cfg.Export.Output, "records", res.Total())
	if _, err := fmt.Fprintf(out, "\n💾 Archivo exportado: %s\n", cfg.Export.Output); err != nil {
		return nil, fmt.Errorf("printing export path: %w", err)
	}

	oc := &Outcome{Scan: res, Summary: sum}

	if cfg.Export.Summary != "" {
		sf := export.SummaryFile{
			Source:      cfg.Scan.Source,
			Output:      cfg.Export.Output,
			Keywords:    scan.NewClassifier(cfg.Scan.Keywords).Keywords(),
			Batches:     res.Batches,
			RowsScanned: res.RowsScanned,
			GeneratedAt: time.Now().UTC(),
			Report:      sum,
		}
		if err := export.WriteSummary(cfg.Export.Summary, sf); err != nil {
			return nil, fmt.Errorf("writing summary: %w", err)
		}
		slog.Info("summary written", "path", cfg.Export.Summary)
	}

	if cfg.Store.DB != "" {
		id, err := saveRun(ctx, cfg, res, started)
		if err != nil {
			return nil, err
		}
		oc.RunID = id
		slog.Info("run stored", "db", cfg.Store.DB, "run_id", id)
	}

	return oc, nil
}

func saveRun(ctx context.Context, cfg types.Config, res *scan.Result, started time.Time) (int64, error) {
	st, err := store.Open(cfg.Store)
	if err != nil {
		return 0, err
	}
	defer st.Close()

	run := store.Run{
		Source:      cfg.Scan.Source,
		StartedAt:   started,
		FinishedAt:  time.Now(),
		Batches:     res.Batches,
		RowsScanned: res.RowsScanned,
		Columns:     res.Columns,
	}
	id, err := st.SaveRun(ctx, run, res.Records)
	if err != nil {
		return 0, fmt.Errorf("storing run: %w", err)
	}
	return id, nil
}
