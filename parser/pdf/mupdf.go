package pdf

import (
	"context"
	"fmt"
	"strings"

	"github.com/gen2brain/go-fitz"
)

// MuPDFEngine extracts text with MuPDF's structured text device.
type MuPDFEngine struct{}

// Extract implements Engine.
func (MuPDFEngine) Extract(ctx context.Context, content []byte) (*Document, error) {
	doc, err := fitz.NewFromMemory(content)
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}
	defer doc.Close()

	numPages := doc.NumPage()
	pages := make([]string, 0, numPages)
	for i := 0; i < numPages; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		text, err := doc.Text(i)
		if err != nil {
			return nil, fmt.Errorf("extract page %d: %w", i+1, err)
		}
		pages = append(pages, text)
	}

	return &Document{Pages: pages, Metadata: mupdfMetadata(doc.Metadata())}, nil
}

// mupdfMetadata cleans the values MuPDF reports. They arrive in fixed-size,
// NUL-padded buffers, so each is cut at its first NUL before trimming. The
// encryption key describes the file rather than the document and is dropped.
func mupdfMetadata(raw map[string]string) map[string]string {
	meta := make(map[string]string, len(raw))
	for key, value := range raw {
		if key == "encryption" {
			continue
		}
		if i := strings.IndexByte(value, 0); i >= 0 {
			value = value[:i]
		}
		if value = strings.TrimSpace(value); value != "" {
			meta[key] = value
		}
	}
	return meta
}
