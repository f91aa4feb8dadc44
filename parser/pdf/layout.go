package pdf

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"sort"
	"strings"

	lpdf "github.com/ledongthuc/pdf"
)

const (
	// lineTolerance is the fraction of the font size two baselines may differ by
	// and still belong to the same line.
	lineTolerance = 0.5
	// spaceRatio is the fraction of the font size a horizontal gap must exceed
	// before a word break is inserted.
	spaceRatio = 0.15
)

// LayoutEngine extracts text in reading order: glyphs are grouped into lines by
// baseline, lines run top to bottom and glyphs left to right, regardless of the
// order they appear in the content stream.
type LayoutEngine struct{}

// Extract implements Engine.
func (LayoutEngine) Extract(ctx context.Context, content []byte) (*Document, error) {
	r, err := lpdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}

	numPages := r.NumPage()
	pages := make([]string, 0, numPages)
	for i := 1; i <= numPages; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		page := r.Page(i)
		if page.V.IsNull() {
			pages = append(pages, "")
			continue
		}
		pages = append(pages, layoutText(page.Content().Text))
	}

	return &Document{
		Pages:    pages,
		Metadata: infoMetadata(r.Trailer().Key("Info"), headerVersion(content)),
	}, nil
}

// layoutText orders positioned glyphs into lines of text separated by newlines.
func layoutText(texts []lpdf.Text) string {
	glyphs := make([]lpdf.Text, 0, len(texts))
	for _, t := range texts {
		if t.S != "" {
			glyphs = append(glyphs, t)
		}
	}
	if len(glyphs) == 0 {
		return ""
	}

	// PDF y grows upwards, so the top of the page has the largest y.
	sort.SliceStable(glyphs, func(i, j int) bool {
		return glyphs[i].Y > glyphs[j].Y
	})

	var lines [][]lpdf.Text
	for _, g := range glyphs {
		if n := len(lines); n > 0 && sameLine(lines[n-1][0], g) {
			lines[n-1] = append(lines[n-1], g)
			continue
		}
		lines = append(lines, []lpdf.Text{g})
	}

	var b strings.Builder
	for i, line := range lines {
		sort.SliceStable(line, func(a, c int) bool {
			return line[a].X < line[c].X
		})

		if i > 0 {
			b.WriteByte('\n')
		}
		for j, g := range line {
			if j > 0 && wordBreak(line[j-1], g) {
				b.WriteByte(' ')
			}
			b.WriteString(g.S)
		}
	}
	return b.String()
}

func sameLine(anchor, t lpdf.Text) bool {
	tol := math.Max(anchor.FontSize, t.FontSize) * lineTolerance
	if tol <= 0 {
		tol = 1
	}
	return math.Abs(anchor.Y-t.Y) <= tol
}

func wordBreak(prev, cur lpdf.Text) bool {
	gap := cur.X - (prev.X + prev.W)
	return gap > math.Max(prev.FontSize, cur.FontSize)*spaceRatio
}
