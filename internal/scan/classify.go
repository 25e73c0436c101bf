// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package scan

import (
	"strings"

	"github.com/pdiddy/deis-covid/pkg/types"
)

// MissingPlaceholder stands in for a missing cell in the diagnosis text.
const MissingPlaceholder = "nan"

// Classifier flags records whose diagnosis text contains a keyword.
type Classifier struct {
	keywords []string
}

// NewClassifier builds a classifier over the given keywords. Keywords are
// lower-cased; empty ones are ignored so they cannot match every record.
func NewClassifier(keywords []string) *Classifier {
	c := &Classifier{}
	for _, k := range keywords {
		k = strings.ToLower(strings.TrimSpace(k))
		if k != "" {
			c.keywords = append(c.keywords, k)
		}
	}
	return c
}

// Keywords returns the effective keyword list in order.
func (c *Classifier) Keywords() []string {
	return append([]string(nil), c.keywords...)
}

// Match reports whether blob contains at least one keyword.
func (c *Classifier) Match(blob string) bool {
	for _, k := range c.keywords {
		if strings.Contains(blob, k) {
			return true
		}
	}
	return false
}

// Classify returns one flag per record of b, in order. causeColumns names
// the columns whose text is searched; names absent from b are ignored.
func (c *Classifier) Classify(b *types.Batch, causeColumns []string) []bool {
	idx := columnIndexes(b.Columns, causeColumns)
	flags := make([]bool, len(b.Records))
	if len(idx) == 0 {
		return flags
	}
	for i, rec := range b.Records {
		flags[i] = c.Match(Blob(rec, idx))
	}
	return flags
}

// Blob joins the cells at idx with single spaces and lower-cases the
// result. Missing cells contribute MissingPlaceholder.
func Blob(rec types.Record, idx []int) string {
	var sb strings.Builder
	for n, i := range idx {
		if n > 0 {
			sb.WriteByte(' ')
		}
		v := rec.Cell(i)
		if v == "" {
			v = MissingPlaceholder
		}
		sb.WriteString(v)
	}
	return strings.ToLower(sb.String())
}
