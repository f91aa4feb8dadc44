// Package mupdf checks that the MuPDF library behind go-fitz can be used.
package mupdf

import (
	"fmt"

	"github.com/gen2brain/go-fitz"

	"github.com/joeychilson/pdftools/internal/pdfgen"
)

// checkDPI keeps the test raster small; a Letter page comes out 204x264.
const checkDPI = 24

// Check opens a built-in one-page document and rasterizes it.
func Check() (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("mupdf: %v", rec)
		}
	}()

	doc, err := fitz.NewFromMemory(pdfgen.SinglePage("mupdf check"))
	if err != nil {
		return fmt.Errorf("mupdf: %w", err)
	}
	defer doc.Close()

	if doc.NumPage() != 1 {
		return fmt.Errorf("mupdf: expected 1 page, got %d", doc.NumPage())
	}
	if _, err := doc.ImageDPI(0, checkDPI); err != nil {
		return fmt.Errorf("mupdf: %w", err)
	}
	return nil
}
