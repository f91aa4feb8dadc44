package pdf

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/joeychilson/pdftools/config"
)

// ErrNotPDF is returned when the content does not carry a PDF header, which is
// the usual case when a server answers with an HTML error page.
var ErrNotPDF = errors.New("not a PDF document: missing %PDF- header")

// Document is the text and metadata read from a PDF.
type Document struct {
	// Pages holds the text of each page in page order.
	Pages []string
	// Metadata uses MuPDF key names (title, author, creationDate, ...).
	// Keys with empty values are never present.
	Metadata map[string]string
}

// Engine reads page text and metadata from an in-memory PDF.
type Engine interface {
	Extract(ctx context.Context, content []byte) (*Document, error)
}

// Parser reads PDF content with the configured engine.
type Parser struct {
	engine Engine
}

// New creates a parser for the named engine ("layout" or "mupdf").
func New(engine string) (*Parser, error) {
	switch engine {
	case "", config.EngineLayout:
		return NewWithEngine(LayoutEngine{}), nil
	case config.EngineMuPDF:
		return NewWithEngine(MuPDFEngine{}), nil
	default:
		return nil, fmt.Errorf("unknown pdf engine %q", engine)
	}
}

// NewWithEngine creates a parser backed by a custom engine.
func NewWithEngine(engine Engine) *Parser {
	return &Parser{engine: engine}
}

// Parse reads the PDF in content. Panics raised by the underlying library on
// malformed input are returned as errors.
func (p *Parser) Parse(ctx context.Context, content []byte) (doc *Document, err error) {
	if len(content) == 0 {
		return nil, fmt.Errorf("empty PDF content")
	}

	if !hasHeader(content) {
		return nil, ErrNotPDF
	}

	defer func() {
		if r := recover(); r != nil {
			doc = nil
			err = fmt.Errorf("malformed PDF: %v", r)
		}
	}()

	return p.engine.Extract(ctx, content)
}

// headerWindow is how far into the file a %PDF- marker is accepted; readers
// tolerate leading garbage before the header.
const headerWindow = 1024

func hasHeader(content []byte) bool {
	return headerVersion(content) != ""
}

// headerVersion returns the version in the %PDF-x.y header, or "".
func headerVersion(content []byte) string {
	window := content[:min(len(content), headerWindow)]
	i := bytes.Index(window, []byte("%PDF-"))
	if i < 0 {
		return ""
	}

	rest := content[i+len("%PDF-"):]
	end := 0
	for end < len(rest) && end < 8 && (rest[end] == '.' || (rest[end] >= '0' && rest[end] <= '9')) {
		end++
	}
	return string(rest[:end])
}
