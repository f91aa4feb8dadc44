package render

import (
	"context"
	"errors"
	"fmt"
	"image"

	"github.com/gen2brain/go-fitz"
)

const noPagesMessage = "No pages found in PDF"

// ErrNoPages is returned when the document opens but has no pages.
var ErrNoPages = errors.New("no pages found in PDF")

// Rasterizer renders the first page of a PDF file.
type Rasterizer interface {
	FirstPage(ctx context.Context, path string, dpi float64) (image.Image, error)
}

// FitzRasterizer renders with MuPDF through go-fitz.
type FitzRasterizer struct{}

// FirstPage implements Rasterizer.
func (FitzRasterizer) FirstPage(ctx context.Context, path string, dpi float64) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	doc, err := fitz.New(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}
	defer doc.Close()

	if doc.NumPage() == 0 {
		return nil, ErrNoPages
	}

	img, err := doc.ImageDPI(0, dpi)
	if err != nil {
		return nil, err
	}
	return img, nil
}
