// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package scan reads the mortality dataset in fixed-size batches, detects the
// diagnosis columns and keeps the rows whose diagnosis text mentions COVID-19.
package scan

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/transform"

	"github.com/pdiddy/deis-covid/pkg/types"
)

var (
	// ErrDecode reports input bytes that are not valid in the declared encoding.
	ErrDecode = errors.New("decode error")

	// ErrEncoding reports an encoding name that cannot be resolved.
	ErrEncoding = errors.New("unsupported encoding")

	// ErrNoHeader reports an input file without a header row.
	ErrNoHeader = errors.New("missing header row")

	// ErrFieldCount reports a row with more fields than the header.
	ErrFieldCount = errors.New("too many fields")
)

// naValues are the cell texts read as missing values.
var naValues = map[string]bool{
	"":         true,
	"#N/A":     true,
	"#N/A N/A": true,
	"#NA":      true,
	"-1.#IND":  true,
	"-1.#QNAN": true,
	"-NaN":     true,
	"-nan":     true,
	"1.#IND":   true,
	"1.#QNAN":  true,
	"<NA>":     true,
	"N/A":      true,
	"NA":       true,
	"NULL":     true,
	"NaN":      true,
	"None":     true,
	"n/a":      true,
	"nan":      true,
	"null":     true,
}

// Reader yields successive batches of records from a delimited file. It is
// not restartable: once Next returns io.EOF the file has been consumed.
type Reader struct {
	path      string
	file      *os.File
	csv       *csv.Reader
	columns   []string
	batchSize int
	seq       int
	done      bool
}

// NewReader opens cfg.Source, decodes it with cfg.Encoding and reads the
// header row. The caller must Close the reader.
func NewReader(cfg types.ScanConfig) (*Reader, error) {
	if cfg.BatchSize <= 0 {
		return nil, fmt.Errorf("batch size must be positive, got %d", cfg.BatchSize)
	}
	comma, err := delimiter(cfg.Delimiter)
	if err != nil {
		return nil, err
	}
	dec, err := decoder(cfg.Encoding)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(cfg.Source)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", cfg.Source, err)
	}

	cr := csv.NewReader(transform.NewReader(f, dec))
	cr.Comma = comma
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	r := &Reader{
		path:      cfg.Source,
		file:      f,
		csv:       cr,
		batchSize: cfg.BatchSize,
	}

	header, err := cr.Read()
	if err != nil {
		f.Close()
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("reading %s: %w", cfg.Source, ErrNoHeader)
		}
		return nil, r.wrap(err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}
	r.columns = header

	return r, nil
}

// Columns returns the header row as read from the source.
func (r *Reader) Columns() []string {
	return append([]string(nil), r.columns...)
}

// Next returns the next batch of at most BatchSize records. It returns
// io.EOF once the source is exhausted.
func (r *Reader) Next() (*types.Batch, error) {
	if r.done {
		return nil, io.EOF
	}

	records := make([]types.Record, 0, min(r.batchSize, 4096))
	for len(records) < r.batchSize {
		row, err := r.csv.Read()
		if errors.Is(err, io.EOF) {
			r.done = true
			break
		}
		if err != nil {
			r.done = true
			return nil, r.wrap(err)
		}
		rec, err := r.record(row)
		if err != nil {
			r.done = true
			return nil, err
		}
		records = append(records, rec)
	}

	if len(records) == 0 {
		return nil, io.EOF
	}

	r.seq++
	return &types.Batch{
		Seq:     r.seq,
		Columns: r.Columns(),
		Records: records,
	}, nil
}

// Close releases the underlying file.
func (r *Reader) Close() error {
	if r.file == nil {
		return nil
	}
	err := r.file.Close()
	r.file = nil
	return err
}

// record pads row to the header width and blanks out missing markers.
// Rows wider than the header are rejected, naming the offending line.
func (r *Reader) record(row []string) (types.Record, error) {
	if len(row) > len(r.columns) {
		line, _ := r.csv.FieldPos(0)
		return nil, fmt.Errorf("reading %s: line %d: %w: expected %d fields, saw %d",
			r.path, line, ErrFieldCount, len(r.columns), len(row))
	}

	rec := make(types.Record, len(r.columns))
	for i := range rec {
		if i >= len(row) || naValues[row[i]] {
			continue
		}
		rec[i] = row[i]
	}
	return rec, nil
}

func (r *Reader) wrap(err error) error {
	if errors.Is(err, encoding.ErrInvalidUTF8) {
		return fmt.Errorf("reading %s near byte %d: %w: %v", r.path, r.csv.InputOffset(), ErrDecode, err)
	}
	return fmt.Errorf("reading %s: %w", r.path, err)
}

func delimiter(s string) (rune, error) {
	if s == "" {
		s = types.DefaultDelimiter
	}
	c, size := utf8.DecodeRuneInString(s)
	if size != len(s) || c == utf8.RuneError || c == '"' || c == '\r' || c == '\n' {
		return 0, fmt.Errorf("invalid delimiter %q: must be a single character", s)
	}
	return c, nil
}

// decoder resolves an encoding name to a transformer producing UTF-8.
// UTF-8 input is validated rather than repaired so bad bytes surface as
// ErrDecode.
func decoder(name string) (transform.Transformer, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "utf-8", "utf8":
		return encoding.UTF8Validator, nil
	case "latin1", "latin-1", "iso-8859-1", "iso8859-1", "l1":
		return charmap.ISO8859_1.NewDecoder(), nil
	}

	enc, err := ianaindex.IANA.Encoding(name)
	if err != nil || enc == nil {
		return nil, fmt.Errorf("%w: %q", ErrEncoding, name)
	}
	return enc.NewDecoder(), nil
}
