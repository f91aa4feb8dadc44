// Package pdfgen writes small, well-formed PDF documents with Helvetica text.
// It backs the MuPDF dependency check and the test fixtures; it is not a
// general purpose PDF writer.
package pdfgen

import (
	"bytes"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

const (
	// LetterWidth and LetterHeight are the US Letter page size in points.
	LetterWidth  = 612
	LetterHeight = 792

	firstChar = 32
	lastChar  = 126
)

// helveticaWidths holds the Helvetica AFM advances, in 1/1000 text space units,
// for WinAnsi codes 32 through 126.
var helveticaWidths = [lastChar - firstChar + 1]int{
	278, 278, 355, 556, 556, 889, 667, 191, 333, 333, 389, 584, 278, 333, 278, 278, // space to /
	556, 556, 556, 556, 556, 556, 556, 556, 556, 556, 278, 278, 584, 584, 584, 556, // 0 to ?
	1015, 667, 667, 722, 722, 667, 611, 778, 722, 278, 500, 667, 556, 833, 722, 778, // @ to O
	667, 778, 722, 667, 611, 722, 667, 944, 667, 667, 611, 278, 278, 278, 469, 556, // P to _
	333, 556, 556, 500, 556, 556, 278, 556, 556, 222, 222, 500, 222, 833, 556, 556, // ` to o
	556, 556, 333, 500, 278, 556, 500, 722, 500, 500, 500, 334, 260, 334, 584, // p to ~
}

// TextWidth returns the advance of s in points when set in Helvetica at size.
// Characters outside the embedded range count as zero.
func TextWidth(s string, size float64) float64 {
	total := 0
	for i := 0; i < len(s); i++ {
		if c := int(s[i]); c >= firstChar && c <= lastChar {
			total += helveticaWidths[c-firstChar]
		}
	}
	return float64(total) * size / 1000
}

// Text is a single run of text placed at (X, Y) in points from the bottom-left corner.
type Text struct {
	X, Y float64
	Size float64
	S    string
}

// Page describes one page. A zero size means US Letter.
type Page struct {
	Width, Height float64
	Texts         []Text
}

// Document describes the PDF to generate.
type Document struct {
	Version string
	Pages   []Page
	Info    map[string]string
}

// Bytes serializes the document with a correct cross-reference table.
func (d Document) Bytes() []byte {
	version := d.Version
	if version == "" {
		version = "1.4"
	}

	w := &writer{}
	fmt.Fprintf(&w.buf, "%%PDF-%s\n%%\xe2\xe3\xcf\xd3\n", version)

	const (
		catalogID = 1
		pagesID   = 2
		fontID    = 3
	)
	firstPageID := 4
	infoID := firstPageID + 2*len(d.Pages)

	w.object(catalogID, "<< /Type /Catalog /Pages 2 0 R >>")

	kids := make([]string, len(d.Pages))
	for i := range d.Pages {
		kids[i] = fmt.Sprintf("%d 0 R", firstPageID+2*i)
	}
	w.object(pagesID, fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), len(d.Pages)))

	widths := make([]string, len(helveticaWidths))
	for i, width := range helveticaWidths {
		widths[i] = strconv.Itoa(width)
	}
	w.object(fontID, fmt.Sprintf("<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding /FirstChar %d /LastChar %d /Widths [%s] >>",
		firstChar, lastChar, strings.Join(widths, " ")))

	for i, page := range d.Pages {
		pageID := firstPageID + 2*i
		contentID := pageID + 1

		width, height := page.Width, page.Height
		if width <= 0 || height <= 0 {
			width, height = LetterWidth, LetterHeight
		}

		w.object(pageID, fmt.Sprintf("<< /Type /Page /Parent 2 0 R /MediaBox [0 0 %s %s] /Resources << /Font << /F1 3 0 R >> >> /Contents %d 0 R >>",
			num(width), num(height), contentID))

		stream := contentStream(page.Texts)
		w.object(contentID, fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(stream), stream))
	}

	trailerInfo := ""
	if len(d.Info) > 0 {
		keys := make([]string, 0, len(d.Info))
		for k := range d.Info {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		var info strings.Builder
		info.WriteString("<<")
		for _, k := range keys {
			fmt.Fprintf(&info, " /%s (%s)", k, escape(d.Info[k]))
		}
		info.WriteString(" >>")
		w.object(infoID, info.String())
		trailerInfo = fmt.Sprintf(" /Info %d 0 R", infoID)
	}

	xref := w.buf.Len()
	fmt.Fprintf(&w.buf, "xref\n0 %d\n0000000000 65535 f \n", len(w.offsets)+1)
	for _, off := range w.offsets {
		fmt.Fprintf(&w.buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&w.buf, "trailer\n<< /Size %d /Root 1 0 R%s >>\nstartxref\n%d\n%%%%EOF\n", len(w.offsets)+1, trailerInfo, xref)

	return w.buf.Bytes()
}

// SinglePage returns a one-page US Letter document containing text.
func SinglePage(text string) []byte {
	return Document{
		Pages: []Page{{Texts: []Text{{X: 72, Y: 720, Size: 12, S: text}}}},
	}.Bytes()
}

type writer struct {
	buf     bytes.Buffer
	offsets []int
}

// object writes an indirect object. Objects must be written in id order starting at 1.
func (w *writer) object(id int, body string) {
	w.offsets = append(w.offsets, w.buf.Len())
	fmt.Fprintf(&w.buf, "%d 0 obj\n%s\nendobj\n", id, body)
}

func contentStream(texts []Text) string {
	var b strings.Builder
	for _, t := range texts {
		size := t.Size
		if size <= 0 {
			size = 12
		}
		fmt.Fprintf(&b, "BT /F1 %s Tf %s %s Td (%s) Tj ET\n", num(size), num(t.X), num(t.Y), escape(t.S))
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func escape(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `(`, `\(`, `)`, `\)`)
	return r.Replace(s)
}

func num(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
