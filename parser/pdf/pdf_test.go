package pdf

import (
	"context"
	"strings"
	"testing"

	lpdf "github.com/ledongthuc/pdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joeychilson/pdftools/config"
	"github.com/joeychilson/pdftools/internal/pdfgen"
)

func threePageReport() []byte {
	return pdfgen.Document{
		Pages: []pdfgen.Page{
			{Texts: []pdfgen.Text{{X: 72, Y: 720, Size: 18, S: "Q3 Report"}, {X: 72, Y: 690, Size: 12, S: "Revenue grew"}}},
			{Texts: []pdfgen.Text{{X: 72, Y: 720, Size: 12, S: "Costs fell"}}},
			{Texts: []pdfgen.Text{{X: 72, Y: 720, Size: 12, S: "Outlook stable"}}},
		},
		Info: map[string]string{
			"Title":        "Q3 Report",
			"Author":       "Finance Team",
			"CreationDate": "D:20240101120000Z",
			"Department":   "Treasury",
			"Subject":      "  ",
		},
	}.Bytes()
}

func TestNew(t *testing.T) {
	tests := []struct {
		engine  string
		want    Engine
		wantErr bool
	}{
		{"", LayoutEngine{}, false},
		{"layout", LayoutEngine{}, false},
		{"mupdf", MuPDFEngine{}, false},
		{"ocr", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.engine, func(t *testing.T) {
			p, err := New(tt.engine)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, p.engine)
		})
	}
}

func TestParser_Parse_Empty(t *testing.T) {
	p, _ := New("layout")
	_, err := p.Parse(context.Background(), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty PDF content")
}

func TestParser_Parse_NotPDF(t *testing.T) {
	for _, engine := range []string{"layout", "mupdf"} {
		t.Run(engine, func(t *testing.T) {
			p, err := New(engine)
			require.NoError(t, err)

			_, err = p.Parse(context.Background(), []byte("<html><body>404 Not Found</body></html>"))
			require.ErrorIs(t, err, ErrNotPDF)
		})
	}
}

type panicEngine struct{}

func (panicEngine) Extract(ctx context.Context, content []byte) (*Document, error) {
	panic("index out of range")
}

func TestParser_Parse_RecoversPanics(t *testing.T) {
	p := NewWithEngine(panicEngine{})
	doc, err := p.Parse(context.Background(), pdfgen.SinglePage("x"))
	require.Error(t, err)
	assert.Nil(t, doc)
	assert.Contains(t, err.Error(), "malformed PDF: index out of range")
}

func TestParser_Parse_Truncated(t *testing.T) {
	data := threePageReport()
	p, _ := New("layout")

	_, err := p.Parse(context.Background(), data[:len(data)/2])
	require.Error(t, err)
}

func TestLayoutEngine_Extract(t *testing.T) {
	p, _ := New("layout")
	doc, err := p.Parse(context.Background(), threePageReport())
	require.NoError(t, err)

	require.Len(t, doc.Pages, 3)
	assert.Equal(t, "Q3 Report\nRevenue grew", doc.Pages[0])
	assert.Equal(t, "Costs fell", doc.Pages[1])
	assert.Equal(t, "Outlook stable", doc.Pages[2])

	assert.Equal(t, map[string]string{
		"format":       "PDF 1.4",
		"title":        "Q3 Report",
		"author":       "Finance Team",
		"creationDate": "D:20240101120000Z",
		"department":   "Treasury",
	}, doc.Metadata)
}

func TestLayoutEngine_WordGaps(t *testing.T) {
	// Narrow glyphs (i, l, t, r) must not open gaps inside words, and runs placed
	// one space advance apart must still be split.
	const size = 12
	x := 72.0
	data := pdfgen.Document{
		Pages: []pdfgen.Page{{Texts: []pdfgen.Text{
			{X: x, Y: 700, Size: size, S: "sub"},
			{X: x + pdfgen.TextWidth("sub", size), Y: 700, Size: size, S: "total"},
			{X: x + pdfgen.TextWidth("subtotal ", size), Y: 700, Size: size, S: "filter"},
			{X: x, Y: 680, Size: size, S: "little trill tilt"},
		}}},
	}.Bytes()

	for _, engine := range []string{config.EngineLayout, config.EngineMuPDF} {
		t.Run(engine, func(t *testing.T) {
			p, err := New(engine)
			require.NoError(t, err)

			doc, err := p.Parse(context.Background(), data)
			require.NoError(t, err)

			require.Len(t, doc.Pages, 1)
			assert.Equal(t, "subtotal filter little trill tilt", strings.Join(strings.Fields(doc.Pages[0]), " "))
		})
	}
}

func TestLayoutEngine_ReadingOrder(t *testing.T) {
	// Content stream order is bottom line first, right column before left.
	data := pdfgen.Document{
		Pages: []pdfgen.Page{{Texts: []pdfgen.Text{
			{X: 72, Y: 100, Size: 12, S: "footer"},
			{X: 300, Y: 700, Size: 12, S: "right"},
			{X: 72, Y: 700, Size: 12, S: "left"},
			{X: 72, Y: 750, Size: 12, S: "heading"},
		}}},
	}.Bytes()

	p, _ := New("layout")
	doc, err := p.Parse(context.Background(), data)
	require.NoError(t, err)

	require.Len(t, doc.Pages, 1)
	assert.Equal(t, "heading\nleft right\nfooter", doc.Pages[0])
}

func TestLayoutEngine_NoInfo(t *testing.T) {
	p, _ := New("layout")
	doc, err := p.Parse(context.Background(), pdfgen.SinglePage("Hello World"))
	require.NoError(t, err)

	assert.Equal(t, []string{"Hello World"}, doc.Pages)
	assert.Equal(t, map[string]string{"format": "PDF 1.4"}, doc.Metadata)
}

func TestLayoutEngine_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p, _ := New("layout")
	_, err := p.Parse(ctx, threePageReport())
	require.ErrorIs(t, err, context.Canceled)
}

func TestLayoutText(t *testing.T) {
	glyph := func(s string, x, y float64) lpdf.Text {
		return lpdf.Text{S: s, X: x, Y: y, W: 6, FontSize: 12}
	}

	tests := []struct {
		name  string
		texts []lpdf.Text
		want  string
	}{
		{
			name: "empty",
			want: "",
		},
		{
			name:  "adjacent glyphs join",
			texts: []lpdf.Text{glyph("a", 10, 100), glyph("b", 16, 100)},
			want:  "ab",
		},
		{
			name:  "gap becomes a space",
			texts: []lpdf.Text{glyph("a", 10, 100), glyph("b", 22, 100)},
			want:  "a b",
		},
		{
			name:  "sorted left to right",
			texts: []lpdf.Text{glyph("b", 16, 100), glyph("a", 10, 100)},
			want:  "ab",
		},
		{
			name:  "small baseline jitter stays on the line",
			texts: []lpdf.Text{glyph("a", 10, 100), glyph("b", 16, 101.5)},
			want:  "ab",
		},
		{
			name:  "lines top to bottom",
			texts: []lpdf.Text{glyph("low", 10, 50), glyph("high", 10, 100)},
			want:  "high\nlow",
		},
		{
			name:  "empty strings skipped",
			texts: []lpdf.Text{glyph("", 10, 100), glyph("x", 10, 100)},
			want:  "x",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, layoutText(tt.texts))
		})
	}
}

func TestHeaderVersion(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"%PDF-1.7\n...", "1.7"},
		{"junk\n%PDF-2.0\r\n", "2.0"},
		{"<html>", ""},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, headerVersion([]byte(tt.in)))
		})
	}

	assert.Empty(t, headerVersion([]byte(strings.Repeat(" ", headerWindow)+"%PDF-1.4")))
}

func TestMuPDFEngine_Extract(t *testing.T) {
	p, err := New("mupdf")
	require.NoError(t, err)

	doc, err := p.Parse(context.Background(), threePageReport())
	require.NoError(t, err)

	require.Len(t, doc.Pages, 3)
	assert.Equal(t, "Q3 Report Revenue grew", strings.Join(strings.Fields(doc.Pages[0]), " "))
	assert.Equal(t, "Costs fell", strings.Join(strings.Fields(doc.Pages[1]), " "))
	assert.Equal(t, "Outlook stable", strings.Join(strings.Fields(doc.Pages[2]), " "))

	assert.Equal(t, "Q3 Report", doc.Metadata["title"])
	assert.Equal(t, "Finance Team", doc.Metadata["author"])
	assert.Equal(t, "PDF 1.4", doc.Metadata["format"])
	assert.NotContains(t, doc.Metadata, "subject")
	assert.NotContains(t, doc.Metadata, "encryption")
	for key, value := range doc.Metadata {
		assert.NotEmpty(t, value, "metadata %q should be omitted when empty", key)
		assert.NotContains(t, value, "\x00", "metadata %q carries padding", key)
	}
}

func TestMupdfMetadata(t *testing.T) {
	pad := func(s string) string { return s + strings.Repeat("\x00", 256-len(s)) }

	got := mupdfMetadata(map[string]string{
		"format":     pad("PDF 1.7"),
		"encryption": pad("None"),
		"title":      pad("  Annual Report "),
		"subject":    pad(""),
		"producer":   "",
		"author":     "Finance",
	})

	assert.Equal(t, map[string]string{
		"format": "PDF 1.7",
		"title":  "Annual Report",
		"author": "Finance",
	}, got)
}
