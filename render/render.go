// Package render rasterizes the first page of a PDF into a JPEG thumbnail.
package render

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"os"

	"github.com/joeychilson/pdftools/config"
	"github.com/joeychilson/pdftools/logger"
)

// Request describes one render. Width and Height are either both zero, meaning
// the page is written at its natural size, or both positive.
type Request struct {
	PDFPath    string
	OutputPath string
	Width      int
	Height     int
}

// HasTarget reports whether the request asks for a fixed output size.
func (r Request) HasTarget() bool {
	return r.Width > 0 && r.Height > 0
}

// Validate checks the request shape.
func (r Request) Validate() error {
	if r.PDFPath == "" {
		return errors.New("pdf_path is required")
	}
	if r.OutputPath == "" {
		return errors.New("output_path is required")
	}
	if r.Width < 0 || r.Height < 0 {
		return errors.New("width and height must be positive")
	}
	if (r.Width == 0) != (r.Height == 0) {
		return errors.New("width and height must be given together")
	}
	return nil
}

// Renderer turns the first page of a local PDF into a JPEG file.
type Renderer struct {
	config     config.RenderConfig
	rasterizer Rasterizer
	logger     logger.Logger
}

// New creates a Renderer backed by MuPDF.
func New(cfg config.RenderConfig) *Renderer {
	return NewWithRasterizer(cfg, FitzRasterizer{})
}

// NewWithRasterizer creates a Renderer with a custom rasterizer.
func NewWithRasterizer(cfg config.RenderConfig, rasterizer Rasterizer) *Renderer {
	return &Renderer{
		config:     cfg,
		rasterizer: rasterizer,
		logger:     logger.Noop(),
	}
}

// WithLogger sets the logger for the renderer.
func (r *Renderer) WithLogger(log logger.Logger) *Renderer {
	r.logger = log
	return r
}

// Render writes the first page of req.PDFPath to req.OutputPath. Every failure
// is folded into the returned Result.
func (r *Renderer) Render(ctx context.Context, req Request) *Result {
	result, err := r.render(ctx, req)
	if err != nil {
		r.logger.Error("render failed", "pdf_path", req.PDFPath, "error", err)
		return Failure(err)
	}
	return result
}

func (r *Renderer) render(ctx context.Context, req Request) (result *Result, err error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	info, err := os.Stat(req.PDFPath)
	if err != nil || info.IsDir() {
		return nil, fmt.Errorf("PDF file not found: %s", req.PDFPath)
	}

	defer func() {
		if rec := recover(); rec != nil {
			result = nil
			err = fmt.Errorf("render failed: %v", rec)
		}
	}()

	dpi := float64(r.config.GetDPI())
	log := r.logger.With("pdf_path", req.PDFPath, "dpi", dpi)
	log.Debug("rasterizing first page")

	page, err := r.rasterizer.FirstPage(ctx, req.PDFPath, dpi)
	if err != nil {
		if errors.Is(err, ErrNoPages) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to rasterize PDF: %w", err)
	}

	out := Flatten(page)
	if req.HasTarget() {
		out = Letterbox(out, req.Width, req.Height)
	}

	if err := writeJPEG(req.OutputPath, out, r.config.GetQuality()); err != nil {
		return nil, err
	}

	size := out.Bounds().Size()
	log.Info("render complete", "output_path", req.OutputPath, "width", size.X, "height", size.Y)

	return &Result{
		Success:    true,
		OutputPath: req.OutputPath,
		Width:      size.X,
		Height:     size.Y,
	}, nil
}

// writeJPEG encodes img as a baseline JPEG. image/jpeg has no optimized Huffman
// table option, so quality is the only encoder setting applied.
func writeJPEG(path string, img image.Image, quality int) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}

	if err := jpeg.Encode(f, img, &jpeg.Options{Quality: quality}); err != nil {
		f.Close()
		os.Remove(path)
		return fmt.Errorf("failed to encode JPEG: %w", err)
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	return nil
}
