// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/deis-covid/internal/scan"
	"github.com/pdiddy/deis-covid/internal/store"
	"github.com/pdiddy/deis-covid/pkg/types"
)

var queryCmd = &cobra.Command{
	Use:   "query <column>",
	Short: "Count stored matches by column",
	Long: `Query groups the matches of the latest run stored with scan --db by
one column and prints the most frequent values.

Example:
  deis-covid query --db covid.db AÑO --limit 40
  deis-covid query --db covid.db glosa_subcategoria_diag1 --json`,
	Args: cobra.ExactArgs(1),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return bindFlags(cmd, map[string]string{"store.db": "db"})
	},
	RunE: runQuery,
}

func init() {
	queryCmd.Flags().String("db", "", "SQLite database written by scan --db")
	queryCmd.Flags().Int("limit", 10, "maximum number of values")
	queryCmd.Flags().Bool("json", false, "output results as JSON")

	rootCmd.AddCommand(queryCmd)
}

func runQuery(cmd *cobra.Command, args []string) error {
	db := viper.GetString("store.db")
	if db == "" {
		return fmt.Errorf("no database: set --db or store.db")
	}
	column := scan.NormalizeColumn(args[0])
	limit, _ := cmd.Flags().GetInt("limit")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	st, err := store.Open(types.StoreConfig{DB: db})
	if err != nil {
		return err
	}
	defer st.Close()

	ctx := context.Background()
	run, err := st.LatestRun(ctx)
	if err != nil {
		return err
	}
	if !run.HasColumn(column) {
		return fmt.Errorf("column %s not in run %d (columns: %s)", column, run.ID, strings.Join(run.Columns, ", "))
	}

	counts, err := st.CountBy(ctx, run.ID, column, limit)
	if err != nil {
		return err
	}

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(counts)
	}

	fmt.Fprintf(os.Stdout, "run %d: %s (%d matches)\n\n", run.ID, run.Source, run.Matches)
	if len(counts) == 0 {
		fmt.Println("No values found.")
		return nil
	}

	width := len(column)
	for _, c := range counts {
		width = max(width, len([]rune(c.Values[0])))
	}
	fmt.Fprintf(os.Stdout, "%-*s  %s\n", width, column, "count")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", width+8))
	for _, c := range counts {
		fmt.Fprintf(os.Stdout, "%-*s  %d\n", width, c.Values[0], c.Count)
	}
	return nil
}
