// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package scan

import (
	"strings"

	"github.com/pdiddy/deis-covid/pkg/types"
)

// causeMarkers are the column-name fragments that identify diagnosis text.
var causeMarkers = []string{"DIAG", "GLOSA", "CATEGORIA"}

// NormalizeColumn trims surrounding whitespace and upper-cases a column name.
func NormalizeColumn(name string) string {
	return strings.ToUpper(strings.TrimSpace(name))
}

// NormalizeColumnNames applies NormalizeColumn to every name.
func NormalizeColumnNames(columns []string) []string {
	out := make([]string, len(columns))
	for i, c := range columns {
		out[i] = NormalizeColumn(c)
	}
	return out
}

// NormalizeColumns returns a batch with the same records and normalized
// column names. The input batch is not modified.
func NormalizeColumns(b *types.Batch) *types.Batch {
	return &types.Batch{
		Seq:     b.Seq,
		Columns: NormalizeColumnNames(b.Columns),
		Records: b.Records,
	}
}

// SelectCauseColumns returns, in column order, the names that contain any
// of the diagnosis markers. Matching is case-sensitive, so names are
// expected to be normalized first.
func SelectCauseColumns(columns []string) []string {
	var out []string
	for _, c := range columns {
		if isCauseColumn(c) {
			out = append(out, c)
		}
	}
	return out
}

func isCauseColumn(name string) bool {
	for _, m := range causeMarkers {
		if strings.Contains(name, m) {
			return true
		}
	}
	return false
}

// columnIndexes maps each selected name to its position in columns.
// Names not present are dropped.
func columnIndexes(columns, selected []string) []int {
	idx := make([]int, 0, len(selected))
	for _, s := range selected {
		for i, c := range columns {
			if c == s {
				idx = append(idx, i)
				break
			}
		}
	}
	return idx
}
