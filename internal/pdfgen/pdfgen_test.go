package pdfgen

import (
	"bytes"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocument_XrefOffsets(t *testing.T) {
	data := Document{
		Pages: []Page{
			{Texts: []Text{{X: 72, Y: 720, S: "first (page)"}}},
			{Width: 300, Height: 200, Texts: []Text{{X: 10, Y: 10, S: `back\slash`}}},
		},
		Info: map[string]string{"Title": "Q3 Report"},
	}.Bytes()

	require.True(t, bytes.HasPrefix(data, []byte("%PDF-1.4\n")))
	require.True(t, bytes.HasSuffix(data, []byte("%%EOF\n")))

	m := regexp.MustCompile(`startxref\n(\d+)\n`).FindSubmatch(data)
	require.NotNil(t, m)
	xref, err := strconv.Atoi(string(m[1]))
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data[xref:], []byte("xref\n0 9\n")))

	entries := regexp.MustCompile(`(\d{10}) 00000 n \n`).FindAllSubmatch(data[xref:], -1)
	require.Len(t, entries, 8)
	for i, e := range entries {
		off, err := strconv.Atoi(string(e[1]))
		require.NoError(t, err)
		want := fmt.Sprintf("%d 0 obj\n", i+1)
		assert.Equal(t, want, string(data[off:off+len(want)]), "object %d", i+1)
	}

	assert.Contains(t, string(data), `(first \(page\)) Tj`)
	assert.Contains(t, string(data), `(back\\slash) Tj`)
	assert.Contains(t, string(data), "/MediaBox [0 0 300 200]")
	assert.Contains(t, string(data), "/Info 8 0 R")
}

func TestSinglePage(t *testing.T) {
	data := SinglePage("hello")
	assert.Contains(t, string(data), "/Count 1")
	assert.Contains(t, string(data), "/MediaBox [0 0 612 792]")
	assert.NotContains(t, string(data), "/Info")
}

func TestTextWidth(t *testing.T) {
	tests := []struct {
		s    string
		size float64
		want float64
	}{
		{"", 12, 0},
		{" ", 1000, 278},
		{"r", 1000, 333},
		{"til", 1000, 278 + 222 + 222},
		{"W~", 1000, 944 + 584},
		{"Report", 12, (722 + 556 + 556 + 556 + 333 + 278) * 12.0 / 1000},
		{"caf\xe9", 1000, 500 + 556 + 278},
	}

	for _, tt := range tests {
		t.Run(tt.s, func(t *testing.T) {
			assert.InDelta(t, tt.want, TextWidth(tt.s, tt.size), 1e-9)
		})
	}
}

func TestDocument_FontWidths(t *testing.T) {
	data := string(SinglePage("x"))

	m := regexp.MustCompile(`/FirstChar 32 /LastChar 126 /Widths \[([0-9 ]+)\]`).FindStringSubmatch(data)
	require.NotNil(t, m)

	widths := strings.Fields(m[1])
	require.Len(t, widths, 95)
	assert.Equal(t, "278", widths[' '-32])
	assert.Equal(t, "333", widths['r'-32])
	assert.Equal(t, "222", widths['l'-32])
	assert.Equal(t, "1015", widths['@'-32])
}
