// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the deis-covid pipeline:
// the rows and batches produced by the reader, the counts derived by the
// reporter, and the configuration of every stage.
package types

// Record is one source row. Cells are positional and line up with the
// Columns of the Batch (or Result) that carries the record. An empty string
// is a missing value.
type Record []string

// Batch is a bounded group of records read together from the source.
type Batch struct {
	// Seq is the 1-based position of the batch in the read sequence.
	Seq int `json:"seq" yaml:"seq"`

	// Columns holds the column names in source order.
	Columns []string `json:"columns" yaml:"columns"`

	// Records holds the rows in source order.
	Records []Record `json:"records" yaml:"records"`
}

// Len returns the number of records in the batch.
func (b *Batch) Len() int {
	if b == nil {
		return 0
	}
	return len(b.Records)
}

// ColumnIndex returns the position of name in Columns, or -1.
func (b *Batch) ColumnIndex(name string) int {
	for i, c := range b.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// Cell returns the value at column index i, or "" when the record is
// shorter than i.
func (r Record) Cell(i int) string {
	if i < 0 || i >= len(r) {
		return ""
	}
	return r[i]
}

// ValueCount is one row of a group-by count: the grouped values, in key
// column order, and how many records carried them.
type ValueCount struct {
	Values []string `json:"values" yaml:"values"`
	Count  int      `json:"count" yaml:"count"`
}
