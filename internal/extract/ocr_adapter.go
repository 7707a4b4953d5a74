package extract

import (
	"context"

	"github.com/poledger/invoice-match/internal/ocr"
)

// OCRAdapter adapts the ocr.Extractor to the TextExtractor contract.
type OCRAdapter struct {
	e *ocr.Extractor
}

func NewOCRAdapter(e *ocr.Extractor) *OCRAdapter {
	return &OCRAdapter{e: e}
}

func (a *OCRAdapter) Extract(ctx context.Context, path string) (TextExtractionResult, error) {
	r, err := a.e.Extract(ctx, path)
	return TextExtractionResult{
		Text:     r.Text,
		Pages:    r.Pages,
		Method:   r.Method,
		Language: r.Language,
		Duration: r.Duration,
		Warnings: r.Warnings,
	}, err
}
