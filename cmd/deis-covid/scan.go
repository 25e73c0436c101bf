// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/deis-covid/internal/pipeline"
)

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Filter COVID-19 related records and print the summary",
	Long: `Scan reads the source file in batches, keeps the records whose
diagnosis columns (any column named with DIAG, GLOSA or CATEGORIA)
contain a COVID-19 keyword, prints the column list, the total and the
frequency tables, and writes the matches to the output CSV.

Optionally writes the aggregates to a YAML or JSON file (--summary) and
stores the matches in a SQLite database (--db) for the query command.`,
	Args: cobra.NoArgs,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return bindFlags(cmd, map[string]string{
			"scan.source":     "source",
			"scan.delimiter":  "delimiter",
			"scan.encoding":   "encoding",
			"scan.batch_size": "batch-size",
			"scan.keywords":   "keywords",
			"report.top_n":    "top",
			"export.output":   "output",
			"export.summary":  "summary",
			"store.db":        "db",
		})
	},
	RunE: runScan,
}

func init() {
	scanCmd.Flags().String("source", "", "input file (default DEFUNCIONES_FUENTE_DEIS_1990_2022_CIFRAS_OFICIALES.csv)")
	scanCmd.Flags().String("delimiter", "", "input field separator (default \";\")")
	scanCmd.Flags().String("encoding", "", "input text encoding (default latin1)")
	scanCmd.Flags().Int("batch-size", 0, "rows per batch (default 50000)")
	scanCmd.Flags().StringSlice("keywords", nil, "keywords to search for (default covid,coronavirus,sars-cov,u07.1,u07.2)")
	scanCmd.Flags().Int("top", 0, "rows in the frequency tables (default 10)")
	scanCmd.Flags().String("output", "", "filtered CSV output (default defunciones_covid_filtradas.csv)")
	scanCmd.Flags().String("summary", "", "write the aggregates to this .yaml or .json file")
	scanCmd.Flags().String("db", "", "store the matches in this SQLite database")

	rootCmd.AddCommand(scanCmd)
}

func runScan(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()

	oc, err := pipeline.Execute(context.Background(), cfg, os.Stdout)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "\nbatches: %d, rows scanned: %d, matches: %d\n",
		oc.Scan.Batches, oc.Scan.RowsScanned, oc.Scan.Total())
	return nil
}
