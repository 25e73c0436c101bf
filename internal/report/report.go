// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package report derives the summary tables printed after a scan. Each
// table is built by an independent section; a section whose columns are
// absent yields a warning instead of a table and the others still run.
package report

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/pdiddy/deis-covid/pkg/types"
)

// Column names the report sections group by.
const (
	ColSex    = "SEXO_NOMBRE"
	ColAge    = "EDAD_CANT"
	ColRegion = "NOMBRE_REGION"
	ColYear   = "AÑO"
	ColCause  = "GLOSA_SUBCATEGORIA_DIAG1"
)

// MissingColumnsError names the columns a section needed but did not find.
type MissingColumnsError struct {
	Columns []string
}

func (e *MissingColumnsError) Error() string {
	return "columns not found: " + strings.Join(e.Columns, ", ")
}

// Section is the result of one report section: either Counts or Err.
type Section struct {
	Name    string             `json:"name" yaml:"name"`
	Title   string             `json:"title" yaml:"title"`
	Icon    string             `json:"icon,omitempty" yaml:"icon,omitempty"`
	Columns []string           `json:"columns" yaml:"columns"`
	Counts  []types.ValueCount `json:"counts,omitempty" yaml:"counts,omitempty"`
	Err     error              `json:"-" yaml:"-"`
	Warning string             `json:"warning,omitempty" yaml:"warning,omitempty"`

	// HeadingFirst prints the heading even when the section fails, ahead
	// of its warning.
	HeadingFirst bool `json:"-" yaml:"-"`
}

// OK reports whether the section produced a table.
func (s Section) OK() bool {
	return s.Err == nil
}

// Summary is the full report over the matched records.
type Summary struct {
	Columns  []string  `json:"columns" yaml:"columns"`
	Total    int       `json:"total" yaml:"total"`
	Sections []Section `json:"sections" yaml:"sections"`
}

// Warnings returns the warning text of every failed section, in order.
func (s Summary) Warnings() []string {
	var out []string
	for _, sec := range s.Sections {
		if !sec.OK() {
			out = append(out, sec.Warning)
		}
	}
	return out
}

// Section returns the section with the given name.
func (s Summary) Section(name string) (Section, bool) {
	for _, sec := range s.Sections {
		if sec.Name == name {
			return sec, true
		}
	}
	return Section{}, false
}

// table is the matched collection with a column lookup.
type table struct {
	columns []string
	index   map[string]int
	records []types.Record
}

func newTable(columns []string, records []types.Record) table {
	index := make(map[string]int, len(columns))
	for i, c := range columns {
		if _, dup := index[c]; !dup {
			index[c] = i
		}
	}
	return table{columns: columns, index: index, records: records}
}

// lookup returns the positions of names, or a MissingColumnsError listing
// every absent one.
func (t table) lookup(names ...string) ([]int, error) {
	idx := make([]int, 0, len(names))
	var missing []string
	for _, n := range names {
		i, ok := t.index[n]
		if !ok {
			missing = append(missing, n)
			continue
		}
		idx = append(idx, i)
	}
	if len(missing) > 0 {
		return nil, &MissingColumnsError{Columns: missing}
	}
	return idx, nil
}

type sectionFunc func(t table, topN int) Section

var sections = []sectionFunc{
	topCombinations,
	yearlyCounts,
	topCauses,
}

// Build runs every section over the matched records. topN <= 0 uses the
// default of 10.
func Build(columns []string, records []types.Record, topN int) Summary {
	if topN <= 0 {
		topN = types.DefaultTopN
	}
	t := newTable(columns, records)
	sum := Summary{
		Columns: append([]string(nil), columns...),
		Total:   len(records),
	}
	for _, fn := range sections {
		sum.Sections = append(sum.Sections, fn(t, topN))
	}
	return sum
}

func topCombinations(t table, topN int) Section {
	s := Section{
		Name:    "demographics",
		Title:   fmt.Sprintf("Top %d combinaciones más frecuentes (sexo, edad, región)", topN),
		Icon:    "📊",
		Columns: []string{ColSex, ColAge, ColRegion},
	}
	idx, err := t.lookup(s.Columns...)
	if err != nil {
		return s.fail(fmt.Sprintf("No se pudieron generar los top %d", topN), err)
	}
	s.Counts = head(valueCounts(t.records, idx), topN)
	return s
}

func yearlyCounts(t table, _ int) Section {
	s := Section{
		Name:         "years",
		Title:        "Defunciones por año",
		Icon:         "📈",
		Columns:      []string{ColYear},
		HeadingFirst: true,
	}
	idx, err := t.lookup(s.Columns...)
	if err != nil {
		return s.fail(fmt.Sprintf("No se encontró la columna '%s'", ColYear), err)
	}
	counts := valueCounts(t.records, idx)
	sortByValue(counts)
	s.Counts = counts
	return s
}

func topCauses(t table, topN int) Section {
	s := Section{
		Name:         "causes",
		Title:        "Principales causas encontradas (glosa subcategoría)",
		Icon:         "💀",
		Columns:      []string{ColCause},
		HeadingFirst: true,
	}
	idx, err := t.lookup(s.Columns...)
	if err != nil {
		return s.fail(fmt.Sprintf("No se encontró '%s'", ColCause), err)
	}
	s.Counts = head(valueCounts(t.records, idx), topN)
	return s
}

func (s Section) fail(msg string, err error) Section {
	s.Err = err
	s.Warning = fmt.Sprintf("%s: %v", msg, err)
	return s
}

// valueCounts groups records by the cells at idx and counts each group,
// descending by count. Records missing any key cell are skipped. Ties keep
// the order in which the groups were first seen.
func valueCounts(records []types.Record, idx []int) []types.ValueCount {
	pos := make(map[string]int)
	var counts []types.ValueCount

	for _, rec := range records {
		values := make([]string, len(idx))
		complete := true
		for n, i := range idx {
			v := rec.Cell(i)
			if v == "" {
				complete = false
				break
			}
			values[n] = v
		}
		if !complete {
			continue
		}

		key := strings.Join(values, "\x1f")
		if p, ok := pos[key]; ok {
			counts[p].Count++
			continue
		}
		pos[key] = len(counts)
		counts = append(counts, types.ValueCount{Values: values, Count: 1})
	}

	sort.SliceStable(counts, func(i, j int) bool {
		return counts[i].Count > counts[j].Count
	})
	return counts
}

// sortByValue orders single-column counts ascending by value, numerically
// when every value is an integer.
func sortByValue(counts []types.ValueCount) {
	numeric := true
	nums := make([]int64, len(counts))
	for i, c := range counts {
		n, err := strconv.ParseInt(strings.TrimSpace(c.Values[0]), 10, 64)
		if err != nil {
			numeric = false
			break
		}
		nums[i] = n
	}

	if numeric {
		order := make(map[string]int64, len(counts))
		for i, c := range counts {
			order[c.Values[0]] = nums[i]
		}
		sort.SliceStable(counts, func(i, j int) bool {
			return order[counts[i].Values[0]] < order[counts[j].Values[0]]
		})
		return
	}
	sort.SliceStable(counts, func(i, j int) bool {
		return counts[i].Values[0] < counts[j].Values[0]
	})
}

func head(counts []types.ValueCount, n int) []types.ValueCount {
	if len(counts) > n {
		return counts[:n]
	}
	return counts
}
