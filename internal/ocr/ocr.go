package ocr

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/poledger/invoice-match/constants"
)

type Config struct {
	Pdftotext string // binary name or absolute path; if empty -> "pdftotext"
	Pdftoppm  string // binary name or absolute path; if empty -> "pdftoppm"
	Tesseract string // binary name or absolute path; if empty -> "tesseract"

	TesseractLang string // default "eng"
	DPI           int    // rasterization DPI for scanned PDFs, default 300
	MaxPages      int    // 0 = no limit

	TessdataDir string

	// MinTextChars is the threshold below which the embedded text layer is
	// considered unusable and the OCR fallback kicks in. Default 32.
	MinTextChars int

	// DisableOCR selects the text-layer-only strategy: scanned pages with no
	// text layer yield empty text instead of being rasterized.
	DisableOCR bool
}

type ExtractionResult struct {
	Text     string
	Pages    int
	Method   string // "pdf-text" | "pdf-ocr"
	Language string
	Duration time.Duration
	Warnings []string
}

type Extractor struct {
	cfg    Config
	runner Runner
	logger *slog.Logger
}

func NewExtractor(cfg Config, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Pdftotext == "" {
		cfg.Pdftotext = "pdftotext"
	}
	if cfg.Pdftoppm == "" {
		cfg.Pdftoppm = "pdftoppm"
	}
	if cfg.Tesseract == "" {
		cfg.Tesseract = "tesseract"
	}
	if cfg.TesseractLang == "" {
		cfg.TesseractLang = "eng"
	}
	if cfg.DPI <= 0 {
		cfg.DPI = 300
	}
	if cfg.MinTextChars <= 0 {
		cfg.MinTextChars = 32
	}
	return &Extractor{cfg: cfg, runner: execRunner{logger: logger}, logger: logger}
}

// Extract reads a PDF's text layer and, when the layer is too thin to be a real
// text layer, falls back to rasterizing pages and running tesseract over them.
// OCR unavailability is not an error: the text-layer result (possibly empty) is
// returned with a warning so the rest of the batch keeps running.
func (e *Extractor) Extract(ctx context.Context, path string) (ExtractionResult, error) {
	start := time.Now()
	ext := constants.NormalizeExt(filepath.Ext(path))
	e.logger.Debug("starting text extraction", "path", path, "ext", ext)
	if !constants.IsPDFExt(ext) {
		e.logger.Error("unsupported extension", "extension", ext)
		return ExtractionResult{}, fmt.Errorf("unsupported extension: %q", ext)
	}

	text, pages, warns, err := e.pdfToText(ctx, path)
	if err != nil {
		return ExtractionResult{Warnings: warns}, fmt.Errorf("pdftotext: %w", err)
	}

	res := ExtractionResult{
		Text:     text,
		Pages:    pages,
		Method:   "pdf-text",
		Language: e.cfg.TesseractLang,
		Warnings: warns,
	}

	if textUsable(text, e.cfg.MinTextChars) || e.cfg.DisableOCR {
		res.Duration = time.Since(start)
		return res, nil
	}

	ocrText, ocrPages, ocrWarns, ocrErr := e.pdfToOCR(ctx, path)
	if ocrErr != nil {
		// Degrade to the text-layer result rather than failing the file.
		e.logger.Warn("ocr fallback unavailable, using text layer output",
			"path", path, "error", ocrErr)
		res.Warnings = append(res.Warnings, fmt.Sprintf("ocr fallback failed: %v", ocrErr))
		res.Duration = time.Since(start)
		return res, nil
	}

	res.Text = Normalize(ocrText)
	res.Pages = ocrPages
	res.Method = "pdf-ocr"
	res.Warnings = append(res.Warnings, ocrWarns...)
	res.Duration = time.Since(start)
	return res, nil
}

// textUsable reports whether the embedded text layer has enough non-whitespace
// content to skip OCR.
func textUsable(text string, minChars int) bool {
	return len(strings.TrimSpace(text)) >= minChars
}
