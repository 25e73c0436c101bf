// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package scan

import (
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/deis-covid/pkg/types"
)

func TestNewReaderErrors(t *testing.T) {
	dir := t.TempDir()
	good := writeLatin1(t, dir, "good.csv", "A;B\n1;2\n")
	empty := writeLatin1(t, dir, "empty.csv", "")

	tests := []struct {
		name    string
		cfg     types.ScanConfig
		wantErr error
		errMsg  string
	}{
		{
			name:    "missing file",
			cfg:     latin1Config(filepath.Join(dir, "nope.csv"), 10),
			wantErr: fs.ErrNotExist,
		},
		{
			name:    "unknown encoding",
			cfg:     types.ScanConfig{Source: good, Delimiter: ";", Encoding: "klingon-8", BatchSize: 10},
			wantErr: ErrEncoding,
		},
		{
			name:   "zero batch size",
			cfg:    latin1Config(good, 0),
			errMsg: "batch size",
		},
		{
			name:   "multi-character delimiter",
			cfg:    types.ScanConfig{Source: good, Delimiter: ";;", Encoding: "latin1", BatchSize: 10},
			errMsg: "invalid delimiter",
		},
		{
			name:    "empty file",
			cfg:     latin1Config(empty, 10),
			wantErr: ErrNoHeader,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := NewReader(tt.cfg)
			require.Error(t, err)
			assert.Nil(t, r)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
			if tt.errMsg != "" {
				assert.Contains(t, err.Error(), tt.errMsg)
			}
		})
	}
}

func TestReaderBatches(t *testing.T) {
	path := writeLatin1(t, t.TempDir(), "rows.csv", "A;B\n1;a\n2;b\n3;c\n4;d\n5;e\n")

	r, err := NewReader(latin1Config(path, 2))
	require.NoError(t, err)
	defer r.Close()

	batches, err := readAll(r)
	require.NoError(t, err)
	require.Len(t, batches, 3)

	for i, want := range []int{2, 2, 1} {
		assert.Equal(t, i+1, batches[i].Seq)
		assert.Equal(t, want, batches[i].Len())
		assert.Equal(t, []string{"A", "B"}, batches[i].Columns)
	}
	assert.Equal(t, types.Record{"5", "e"}, batches[2].Records[0])

	// The sequence is not restartable.
	_, err = r.Next()
	assert.ErrorIs(t, err, io.EOF)
}

func TestReaderHeaderOnly(t *testing.T) {
	path := writeLatin1(t, t.TempDir(), "header.csv", "A;B\n")

	r, err := NewReader(latin1Config(path, 10))
	require.NoError(t, err)
	defer r.Close()

	assert.Equal(t, []string{"A", "B"}, r.Columns())
	_, err = r.Next()
	assert.ErrorIs(t, err, io.EOF)
}

func TestReaderDecodesLatin1(t *testing.T) {
	path := writeLatin1(t, t.TempDir(), "latin1.csv", "AÑO;REGIÓN\n2020;Biobío\n")

	r, err := NewReader(latin1Config(path, 10))
	require.NoError(t, err)
	defer r.Close()

	assert.Equal(t, []string{"AÑO", "REGIÓN"}, r.Columns())
	b, err := r.Next()
	require.NoError(t, err)
	assert.Equal(t, types.Record{"2020", "Biobío"}, b.Records[0])
}

func TestReaderEncodingAliases(t *testing.T) {
	path := writeLatin1(t, t.TempDir(), "alias.csv", "AÑO\n2020\n")

	for _, enc := range []string{"latin1", "ISO-8859-1", "windows-1252"} {
		t.Run(enc, func(t *testing.T) {
			cfg := latin1Config(path, 10)
			cfg.Encoding = enc
			r, err := NewReader(cfg)
			require.NoError(t, err)
			defer r.Close()
			assert.Equal(t, []string{"AÑO"}, r.Columns())
		})
	}
}

func TestReaderPadsShortRows(t *testing.T) {
	path := writeLatin1(t, t.TempDir(), "ragged.csv", "A;B\nshort\n1;2\nNA;x\n;y\n")

	r, err := NewReader(latin1Config(path, 10))
	require.NoError(t, err)
	defer r.Close()

	b, err := r.Next()
	require.NoError(t, err)
	assert.Equal(t, []types.Record{
		{"short", ""},
		{"1", "2"},
		{"", "x"},
		{"", "y"},
	}, b.Records)
}

func TestReaderRejectsExtraFields(t *testing.T) {
	tests := []struct {
		name    string
		content string
		line    string
		batch   int
	}{
		{
			name:    "first data row",
			content: "ID;GLOSA_DIAG1\n1;neumonia;COVID-19\n2;x\n",
			line:    "line 2:",
			batch:   10,
		},
		{
			name:    "later batch",
			content: "A;B\n1;2\n3;4\n5;6;7\n",
			line:    "line 4:",
			batch:   2,
		},
		{
			name:    "trailing empty field",
			content: "A;B\n1;2;\n",
			line:    "line 2:",
			batch:   10,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeLatin1(t, t.TempDir(), "wide.csv", tt.content)

			r, err := NewReader(latin1Config(path, tt.batch))
			require.NoError(t, err)
			defer r.Close()

			_, err = readAll(r)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrFieldCount)
			assert.Contains(t, err.Error(), tt.line)

			_, err = r.Next()
			assert.ErrorIs(t, err, io.EOF, "reader stops after a malformed row")
		})
	}
}

func TestReaderStripsUTF8BOM(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bom.csv")
	require.NoError(t, os.WriteFile(path, []byte("\xef\xbb\xbfA;B\n1;2\n"), 0o644))

	cfg := latin1Config(path, 10)
	cfg.Encoding = "utf-8"
	r, err := NewReader(cfg)
	require.NoError(t, err)
	defer r.Close()

	assert.Equal(t, []string{"A", "B"}, r.Columns())
}

func TestReaderDecodeError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.csv")
	require.NoError(t, os.WriteFile(path, []byte("A;B\nok;\xff\n"), 0o644))

	cfg := latin1Config(path, 10)
	cfg.Encoding = "utf-8"

	r, err := NewReader(cfg)
	if err == nil {
		defer r.Close()
		_, err = readAll(r)
	}
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDecode)
}

func TestReaderClose(t *testing.T) {
	path := writeLatin1(t, t.TempDir(), "close.csv", "A\n1\n")

	r, err := NewReader(latin1Config(path, 10))
	require.NoError(t, err)
	require.NoError(t, r.Close())
	assert.NoError(t, r.Close(), "second Close is a no-op")
}
