// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

const (
	DefaultSource    = "DEFUNCIONES_FUENTE_DEIS_1990_2022_CIFRAS_OFICIALES.csv"
	DefaultDelimiter = ";"
	DefaultEncoding  = "latin1"
	DefaultBatchSize = 50000
	DefaultOutput    = "defunciones_covid_filtradas.csv"
	DefaultTopN      = 10
)

// DefaultKeywords are the lower-case substrings that flag a diagnosis as
// COVID-19 related. U07.1 and U07.2 are the ICD-10 codes for COVID-19.
var DefaultKeywords = []string{"covid", "coronavirus", "sars-cov", "u07.1", "u07.2"}

// ScanConfig holds settings for the read-and-filter stage.
type ScanConfig struct {
	// Source is the path of the delimited input file.
	Source string `json:"source" yaml:"source"`

	// Delimiter is the single-character field separator (default ";").
	Delimiter string `json:"delimiter" yaml:"delimiter"`

	// Encoding is the IANA name or alias of the input text encoding
	// (default "latin1").
	Encoding string `json:"encoding" yaml:"encoding"`

	// BatchSize is the maximum number of rows read per batch (default 50000).
	BatchSize int `json:"batch_size" yaml:"batch_size"`

	// Keywords are the substrings searched for in the diagnosis text.
	Keywords []string `json:"keywords" yaml:"keywords"`
}

// ReportConfig holds settings for the console report.
type ReportConfig struct {
	// TopN limits the frequency tables (default 10).
	TopN int `json:"top_n" yaml:"top_n"`
}

// ExportConfig holds settings for the files written after the scan.
type ExportConfig struct {
	// Output is the path of the filtered CSV export.
	Output string `json:"output" yaml:"output"`

	// Summary is an optional path for the aggregates as YAML or JSON,
	// chosen by extension. Empty disables it.
	Summary string `json:"summary,omitempty" yaml:"summary,omitempty"`
}

// StoreConfig holds settings for the SQLite run store.
type StoreConfig struct {
	// DB is the path of the SQLite database. Empty disables the store.
	DB string `json:"db,omitempty" yaml:"db,omitempty"`
}

// LogConfig holds settings for diagnostic logging.
type LogConfig struct {
	// Level is one of debug, info, warn, error (default info).
	Level string `json:"level" yaml:"level"`

	// Format is text or json (default text).
	Format string `json:"format" yaml:"format"`
}

// Config groups all stage configurations for a run.
type Config struct {
	Scan   ScanConfig   `json:"scan" yaml:"scan"`
	Report ReportConfig `json:"report" yaml:"report"`
	Export ExportConfig `json:"export" yaml:"export"`
	Store  StoreConfig  `json:"store" yaml:"store"`
	Log    LogConfig    `json:"log" yaml:"log"`
}

// DefaultConfig returns the configuration of a run with no overrides.
func DefaultConfig() Config {
	return Config{
		Scan: ScanConfig{
			Source:    DefaultSource,
			Delimiter: DefaultDelimiter,
			Encoding:  DefaultEncoding,
			BatchSize: DefaultBatchSize,
			Keywords:  append([]string(nil), DefaultKeywords...),
		},
		Report: ReportConfig{TopN: DefaultTopN},
		Export: ExportConfig{Output: DefaultOutput},
		Log:    LogConfig{Level: "info", Format: "text"},
	}
}
