// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the deis-covid CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/deis-covid/internal/logging"
	"github.com/pdiddy/deis-covid/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the deis-covid CLI.
var rootCmd = &cobra.Command{
	Use:   "deis-covid",
	Short: "Filter COVID-19 deaths from the DEIS mortality dataset",
	Long: `deis-covid scans the DEIS mortality records export in fixed-size
batches, keeps the records whose diagnosis columns mention COVID-19 and
writes them to a CSV file, printing a short summary of the matches.

Settings come from flags, DEIS_COVID_* environment variables, a config
file (./deis-covid.yaml or ~/.config/deis-covid/config.yaml) and built-in
defaults, in that order of priority.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logging.Setup(viper.GetString("log.level"), viper.GetString("log.format"), os.Stderr)
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./deis-covid.yaml or ~/.config/deis-covid/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "log level: debug, info, warn, error (default info)")
	rootCmd.PersistentFlags().String("log-format", "", "log format: text or json (default text)")

	_ = viper.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag("log.format", rootCmd.PersistentFlags().Lookup("log-format"))

	configureViper(viper.GetViper())
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("deis-covid")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "deis-covid"))
		}
	}

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// configureViper installs the defaults and the DEIS_COVID_* environment
// lookup on v. Keys are dotted; scan.batch_size reads
// DEIS_COVID_SCAN_BATCH_SIZE.
func configureViper(v *viper.Viper) {
	cfg := types.DefaultConfig()
	v.SetDefault("scan.source", cfg.Scan.Source)
	v.SetDefault("scan.delimiter", cfg.Scan.Delimiter)
	v.SetDefault("scan.encoding", cfg.Scan.Encoding)
	v.SetDefault("scan.batch_size", cfg.Scan.BatchSize)
	v.SetDefault("scan.keywords", cfg.Scan.Keywords)
	v.SetDefault("report.top_n", cfg.Report.TopN)
	v.SetDefault("export.output", cfg.Export.Output)
	v.SetDefault("export.summary", cfg.Export.Summary)
	v.SetDefault("store.db", cfg.Store.DB)
	v.SetDefault("log.level", cfg.Log.Level)
	v.SetDefault("log.format", cfg.Log.Format)

	v.SetEnvPrefix("DEIS_COVID")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

// loadConfig assembles the effective configuration from the global viper.
func loadConfig() types.Config {
	return configFrom(viper.GetViper())
}

func configFrom(v *viper.Viper) types.Config {
	return types.Config{
		Scan: types.ScanConfig{
			Source:    v.GetString("scan.source"),
			Delimiter: v.GetString("scan.delimiter"),
			Encoding:  v.GetString("scan.encoding"),
			BatchSize: v.GetInt("scan.batch_size"),
			Keywords:  splitList(v.GetStringSlice("scan.keywords")),
		},
		Report: types.ReportConfig{
			TopN: v.GetInt("report.top_n"),
		},
		Export: types.ExportConfig{
			Output:  v.GetString("export.output"),
			Summary: v.GetString("export.summary"),
		},
		Store: types.StoreConfig{
			DB: v.GetString("store.db"),
		},
		Log: types.LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
		},
	}
}

// splitList splits every item on commas and drops blanks, so a list given
// as "a,b" in the environment reads the same as --keywords a,b.
func splitList(items []string) []string {
	var out []string
	for _, item := range items {
		for _, part := range strings.Split(item, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// bindFlags binds config keys to the flags of cmd. Binding happens when
// the command runs so commands sharing a key do not shadow each other.
func bindFlags(cmd *cobra.Command, keys map[string]string) error {
	for key, name := range keys {
		f := cmd.Flags().Lookup(name)
		if f == nil {
			return fmt.Errorf("unknown flag %q for key %s", name, key)
		}
		if err := viper.BindPFlag(key, f); err != nil {
			return fmt.Errorf("binding %s: %w", key, err)
		}
	}
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
