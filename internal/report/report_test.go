// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package report

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/deis-covid/pkg/types"
)

var fullColumns = []string{"AÑO", "SEXO_NOMBRE", "EDAD_CANT", "NOMBRE_REGION", "GLOSA_SUBCATEGORIA_DIAG1"}

func matchedRecords() []types.Record {
	return []types.Record{
		{"2021", "Hombre", "80", "Metropolitana", "COVID-19, virus identificado"},
		{"2020", "Mujer", "65", "Del Biobío", "COVID-19, virus no identificado"},
		{"2020", "Hombre", "80", "Metropolitana", "COVID-19, virus identificado"},
		{"2022", "Hombre", "", "Metropolitana", "COVID-19, virus identificado"},
		{"2020", "Mujer", "65", "Del Biobío", ""},
	}
}

func TestBuild(t *testing.T) {
	sum := Build(fullColumns, matchedRecords(), 10)

	assert.Equal(t, fullColumns, sum.Columns)
	assert.Equal(t, 5, sum.Total)
	assert.Empty(t, sum.Warnings())
	require.Len(t, sum.Sections, 3)

	demo, ok := sum.Section("demographics")
	require.True(t, ok)
	assert.Equal(t, []types.ValueCount{
		{Values: []string{"Hombre", "80", "Metropolitana"}, Count: 2},
		{Values: []string{"Mujer", "65", "Del Biobío"}, Count: 2},
	}, demo.Counts, "rows with a missing key are skipped, ties keep first-seen order")

	years, ok := sum.Section("years")
	require.True(t, ok)
	assert.Equal(t, []types.ValueCount{
		{Values: []string{"2020"}, Count: 3},
		{Values: []string{"2021"}, Count: 1},
		{Values: []string{"2022"}, Count: 1},
	}, years.Counts)

	causes, ok := sum.Section("causes")
	require.True(t, ok)
	assert.Equal(t, []types.ValueCount{
		{Values: []string{"COVID-19, virus identificado"}, Count: 3},
		{Values: []string{"COVID-19, virus no identificado"}, Count: 1},
	}, causes.Counts)
}

func TestBuildMissingColumns(t *testing.T) {
	columns := []string{"SEXO_NOMBRE", "NOMBRE_REGION", "GLOSA_DIAG1"}
	records := []types.Record{{"Hombre", "Metropolitana", "covid"}}

	sum := Build(columns, records, 10)

	assert.Equal(t, 1, sum.Total)
	require.Len(t, sum.Sections, 3)
	for _, sec := range sum.Sections {
		assert.False(t, sec.OK(), "section %s", sec.Name)
		var missing *MissingColumnsError
		require.True(t, errors.As(sec.Err, &missing), "section %s", sec.Name)
	}

	demo, _ := sum.Section("demographics")
	var missing *MissingColumnsError
	require.True(t, errors.As(demo.Err, &missing))
	assert.Equal(t, []string{ColAge}, missing.Columns)

	warnings := sum.Warnings()
	require.Len(t, warnings, 3)
	assert.Contains(t, warnings[0], "EDAD_CANT")
	assert.Contains(t, warnings[1], "AÑO")
	assert.Contains(t, warnings[2], "GLOSA_SUBCATEGORIA_DIAG1")
}

func TestBuildOnlyYearMissing(t *testing.T) {
	columns := fullColumns[1:]
	records := make([]types.Record, 0)
	for _, rec := range matchedRecords() {
		records = append(records, rec[1:])
	}

	sum := Build(columns, records, 10)

	years, _ := sum.Section("years")
	assert.False(t, years.OK())
	causes, _ := sum.Section("causes")
	assert.True(t, causes.OK())
	assert.Len(t, sum.Warnings(), 1)
}

func TestBuildTopN(t *testing.T) {
	var records []types.Record
	for _, cause := range []string{"a", "b", "b", "c", "c", "c", "d"} {
		records = append(records, types.Record{"2020", "H", "1", "R", cause})
	}

	sum := Build(fullColumns, records, 2)

	causes, _ := sum.Section("causes")
	assert.Equal(t, []types.ValueCount{
		{Values: []string{"c"}, Count: 3},
		{Values: []string{"b"}, Count: 2},
	}, causes.Counts)
	assert.Contains(t, sum.Sections[0].Title, "Top 2")
}

func TestSortByValue(t *testing.T) {
	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{"numeric", []string{"2021", "999", "2020", "10"}, []string{"10", "999", "2020", "2021"}},
		{"lexical when not all numeric", []string{"b", "10", "a", "9"}, []string{"10", "9", "a", "b"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			counts := make([]types.ValueCount, len(tt.in))
			for i, v := range tt.in {
				counts[i] = types.ValueCount{Values: []string{v}, Count: 1}
			}
			sortByValue(counts)
			got := make([]string, len(counts))
			for i, c := range counts {
				got[i] = c.Values[0]
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBuildEmpty(t *testing.T) {
	sum := Build(fullColumns, nil, 0)

	assert.Zero(t, sum.Total)
	assert.Empty(t, sum.Warnings())
	for _, sec := range sum.Sections {
		assert.Empty(t, sec.Counts)
	}
	assert.Contains(t, sum.Sections[0].Title, "Top 10", "topN <= 0 uses the default")
}

func TestPrint(t *testing.T) {
	var buf bytes.Buffer
	sum := Build(fullColumns, matchedRecords(), 10)

	require.NoError(t, Print(&buf, sum))

	out := buf.String()
	assert.Contains(t, out, "Columnas disponibles")
	assert.Contains(t, out, "'AÑO', 'SEXO_NOMBRE'")
	assert.Contains(t, out, "Total registros relacionados con COVID: 5")
	assert.Contains(t, out, "\n📊 Top 10 combinaciones más frecuentes (sexo, edad, región):\n")
	assert.Contains(t, out, "\n📈 Defunciones por año:\n")
	assert.Contains(t, out, "\n💀 Principales causas encontradas (glosa subcategoría):\n")
	assert.Regexp(t, `Hombre\s+80\s+Metropolitana\s+2`, out)
	assert.Regexp(t, `2020\s+3`, out)
	assert.NotContains(t, out, "⚠️")
}

func TestPrintWarnings(t *testing.T) {
	var buf bytes.Buffer
	sum := Build([]string{"GLOSA_DIAG1"}, nil, 10)

	require.NoError(t, Print(&buf, sum))

	out := buf.String()
	assert.Contains(t, out, "Total registros relacionados con COVID: 0")
	assert.Contains(t, out, "⚠️ No se encontró la columna 'AÑO'")
	assert.Contains(t, out, "⚠️ No se encontró 'GLOSA_SUBCATEGORIA_DIAG1'")
	assert.Contains(t, out, "⚠️ No se pudieron generar los top 10")
}

func TestPrintSectionHeadings(t *testing.T) {
	tests := []struct {
		name    string
		columns []string
		want    []string
		absent  []string
	}{
		{
			name:    "year missing keeps its heading",
			columns: []string{ColSex, ColAge, ColRegion, ColCause},
			want: []string{
				"\n📈 Defunciones por año:\n\n⚠️ No se encontró la columna 'AÑO'",
				"\n📊 Top 10 combinaciones",
				"\n💀 Principales causas",
			},
		},
		{
			name:    "demographics missing drops its heading",
			columns: []string{ColYear, ColCause},
			want: []string{
				"\n⚠️ No se pudieron generar los top 10",
				"\n📈 Defunciones por año:\n",
				"\n💀 Principales causas",
			},
			absent: []string{"📊"},
		},
		{
			name:    "causes missing keeps its heading",
			columns: []string{ColYear},
			want: []string{
				"\n💀 Principales causas encontradas (glosa subcategoría):\n\n⚠️ No se encontró 'GLOSA_SUBCATEGORIA_DIAG1'",
			},
			absent: []string{"📊"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, Print(&buf, Build(tt.columns, nil, 10)))

			out := buf.String()
			for _, w := range tt.want {
				assert.Contains(t, out, w)
			}
			for _, a := range tt.absent {
				assert.NotContains(t, out, a)
			}
		})
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestPrintWriteError(t *testing.T) {
	err := Print(failingWriter{}, Build(fullColumns, matchedRecords(), 10))
	assert.EqualError(t, err, "disk full")
}
