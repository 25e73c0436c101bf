// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package scan

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"

	"github.com/pdiddy/deis-covid/pkg/types"
)

// deathsFixture has five COVID-19 rows (1, 3, 4, 6, 7) out of seven. The
// header is deliberately untidy to exercise normalization.
const deathsFixture = ` año ;sexo_nombre;EDAD_CANT;NOMBRE_REGION;GLOSA_SUBCATEGORIA_DIAG1;DIAG1;GLOSA_DIAG1
2020;Hombre;80;Metropolitana;COVID-19, virus identificado;U071;CORONAVIRUS SARS-COV-2
2019;Mujer;70;Metropolitana;Neumonía, no especificada;J189;NEUMONIA BACTERIANA
2021;Mujer;65;Del Biobío;Covid-19, virus no identificado;U072;
2020;Hombre;80;Metropolitana;COVID-19, virus identificado;;
2018;Hombre;90;De Valparaíso;Infarto agudo del miocardio;I219;INFARTO
2021;Mujer;45;Metropolitana;Otros;U07.2;
2022;Hombre;80;Metropolitana;COVID-19, virus identificado;U071;
`

// writeLatin1 encodes content as ISO-8859-1 and writes it to dir/name.
func writeLatin1(t *testing.T, dir, name, content string) string {
	t.Helper()
	data, err := charmap.ISO8859_1.NewEncoder().String(content)
	require.NoError(t, err)
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))
	return path
}

func latin1Config(path string, batchSize int) types.ScanConfig {
	return types.ScanConfig{
		Source:    path,
		Delimiter: ";",
		Encoding:  "latin1",
		BatchSize: batchSize,
		Keywords:  types.DefaultKeywords,
	}
}

// readAll drains r and returns every batch read.
func readAll(r *Reader) ([]*types.Batch, error) {
	var batches []*types.Batch
	for {
		b, err := r.Next()
		if errors.Is(err, io.EOF) {
			return batches, nil
		}
		if err != nil {
			return batches, err
		}
		batches = append(batches, b)
	}
}
