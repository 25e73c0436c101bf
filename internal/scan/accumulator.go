// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package scan

import "github.com/pdiddy/deis-covid/pkg/types"

// Accumulator collects matching records across batches in arrival order.
// It keeps every match; memory grows with the number of matches.
type Accumulator struct {
	records []types.Record
}

// Append adds the records of b whose flag is set and returns how many were
// added. flags must have one entry per record.
func (a *Accumulator) Append(b *types.Batch, flags []bool) int {
	n := 0
	for i, rec := range b.Records {
		if i < len(flags) && flags[i] {
			a.records = append(a.records, rec)
			n++
		}
	}
	return n
}

// Len returns the number of records collected so far.
func (a *Accumulator) Len() int {
	return len(a.records)
}

// Records returns the collected records. The slice is shared with the
// accumulator and must not be modified.
func (a *Accumulator) Records() []types.Record {
	return a.records
}
