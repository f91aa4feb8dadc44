// Package extractor downloads PDFs and returns their normalized text.
package extractor

import (
	"context"
	"fmt"

	"github.com/joeychilson/pdftools/config"
	"github.com/joeychilson/pdftools/content"
	"github.com/joeychilson/pdftools/fetcher"
	"github.com/joeychilson/pdftools/logger"
	"github.com/joeychilson/pdftools/parser/pdf"
)

// Downloader retrieves the raw bytes behind a URL.
type Downloader interface {
	Fetch(ctx context.Context, url string) (*fetcher.Response, error)
}

// Parser reads page text and metadata from PDF bytes.
type Parser interface {
	Parse(ctx context.Context, content []byte) (*pdf.Document, error)
}

// Extractor downloads a PDF and turns it into normalized text plus metadata.
type Extractor struct {
	downloader Downloader
	parser     Parser
	logger     logger.Logger
}

// New creates an Extractor from the fetch and extract sections of cfg.
func New(cfg *config.Config) (*Extractor, error) {
	if cfg == nil {
		cfg = config.New()
	}

	parser, err := pdf.New(cfg.Extract.GetEngine())
	if err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return NewWith(fetcher.New(cfg.Fetch), parser), nil
}

// NewWith creates an Extractor from explicit collaborators.
func NewWith(downloader Downloader, parser Parser) *Extractor {
	return &Extractor{
		downloader: downloader,
		parser:     parser,
		logger:     logger.Noop(),
	}
}

// WithLogger sets the logger for the extractor.
func (e *Extractor) WithLogger(log logger.Logger) *Extractor {
	e.logger = log
	return e
}

// Extract downloads the PDF at url and returns its text. Every failure is folded
// into the returned Result; no partial results are produced.
func (e *Extractor) Extract(ctx context.Context, url string) *Result {
	result, err := e.extract(ctx, url)
	if err != nil {
		e.logger.Error("extraction failed", "url", url, "kind", KindOf(err), "error", err)
		return Failure(err)
	}
	return result
}

func (e *Extractor) extract(ctx context.Context, url string) (*Result, error) {
	log := e.logger.With("url", url)
	log.Debug("download started")

	resp, err := e.downloader.Fetch(ctx, url)
	if err != nil {
		return nil, DownloadError(err)
	}
	log.Info("download complete", "bytes", len(resp.Body), "content_type", resp.ContentType, "final_url", resp.URL)

	doc, err := e.parser.Parse(ctx, resp.Body)
	if err != nil {
		return nil, ExtractionError(err)
	}

	text := content.JoinPages(doc.Pages)
	result := &Result{
		Success:   true,
		Text:      text,
		Pages:     len(doc.Pages),
		CharCount: content.CharCount(text),
		Metadata:  doc.Metadata,
	}
	log.Info("extraction complete", "pages", result.Pages, "chars", result.CharCount)

	return result, nil
}
