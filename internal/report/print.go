// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Print renders the console report for s.
func Print(w io.Writer, s Summary) error {
	p := &printer{w: w}

	p.printf("\n📋 Columnas disponibles:\n")
	p.printf("[%s]\n", strings.Join(quoteAll(s.Columns), ", "))

	p.printf("\n✅ Total registros relacionados con COVID: %d\n", s.Total)

	for _, sec := range s.Sections {
		if sec.OK() || sec.HeadingFirst {
			p.printf("\n%s %s:\n", sec.Icon, sec.Title)
		}
		if !sec.OK() {
			p.printf("\n⚠️ %s\n", sec.Warning)
			continue
		}
		p.table(sec)
	}
	return p.err
}

type printer struct {
	w   io.Writer
	err error
}

func (p *printer) printf(format string, a ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format, a...)
}

// table prints the counts of sec as left-aligned columns followed by a
// right-aligned count column.
func (p *printer) table(sec Section) {
	if len(sec.Counts) == 0 {
		p.printf("(sin registros)\n")
		return
	}

	header := append(append([]string(nil), sec.Columns...), "count")
	widths := make([]int, len(header))
	for i, h := range header {
		widths[i] = utf8.RuneCountInString(h)
	}
	for _, c := range sec.Counts {
		for i, v := range c.Values {
			widths[i] = max(widths[i], utf8.RuneCountInString(v))
		}
		last := len(header) - 1
		widths[last] = max(widths[last], len(strconv.Itoa(c.Count)))
	}

	row := func(cells []string) {
		var sb strings.Builder
		for i, cell := range cells {
			if i > 0 {
				sb.WriteString("  ")
			}
			pad := strings.Repeat(" ", widths[i]-utf8.RuneCountInString(cell))
			if i == len(cells)-1 {
				sb.WriteString(pad + cell)
			} else {
				sb.WriteString(cell + pad)
			}
		}
		p.printf("%s\n", strings.TrimRight(sb.String(), " "))
	}

	row(header)
	for _, c := range sec.Counts {
		row(append(append([]string(nil), c.Values...), strconv.Itoa(c.Count)))
	}
}

func quoteAll(ss []string) []string {
	out := make([]string, len(ss))
	for i, s := range ss {
		out[i] = "'" + s + "'"
	}
	return out
}
