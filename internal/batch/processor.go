package batch

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/poledger/invoice-match/constants"
	"github.com/poledger/invoice-match/internal/common"
	"github.com/poledger/invoice-match/internal/extract"
	"github.com/poledger/invoice-match/internal/fields"
	"github.com/poledger/invoice-match/internal/history"
	"github.com/poledger/invoice-match/internal/ledger"
	"github.com/poledger/invoice-match/internal/match"
)

// Record is one row of the result table: the extracted fields plus batch
// metadata. One Record per qualifying input file, in discovery order; files
// whose text yields no field matches still get a row for later auditing.
type Record struct {
	Fields     fields.Fields
	SourceFile string // entry name, not the full path
	Matched    bool
}

// Stats aggregates per-run counters, logged at the end of the batch.
type Stats struct {
	Scanned   uint32 // directory entries seen
	Eligible  uint32 // entries with a .pdf extension
	Processed uint32
	Matched   uint32 // records matched against the ledger
	Failed    uint32 // only counted when ContinueOnError is set
}

// Config controls batch behavior.
type Config struct {
	// ContinueOnError records an extraction failure and keeps going instead of
	// aborting the batch. Off by default: the baseline policy is that a failing
	// file aborts the whole run.
	ContinueOnError bool

	// LedgerSource and Output label the run in the history store.
	LedgerSource string
	Output       string
}

// Processor orchestrates extract -> fields -> match for every PDF in a folder.
type Processor struct {
	cfg       Config
	extractor extract.TextExtractor
	fields    *fields.Extractor
	matcher   *match.Matcher
	recorder  history.Recorder // nil disables history
	logger    *slog.Logger
}

func NewProcessor(cfg Config, tx extract.TextExtractor, fe *fields.Extractor, m *match.Matcher, rec history.Recorder, logger *slog.Logger) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{
		cfg:       cfg,
		extractor: tx,
		fields:    fe,
		matcher:   m,
		recorder:  rec,
		logger:    logger,
	}
}

// Process lists folder entries (non-recursive), filters to .pdf names
// case-insensitively, and runs the pipeline per file in enumeration order.
// The ledger must be fully loaded before the call; it is never mutated.
func (p *Processor) Process(ctx context.Context, folder string, led *ledger.Ledger) ([]Record, Stats, error) {
	var stats Stats

	entries, err := os.ReadDir(folder)
	if err != nil {
		return nil, stats, common.NewAppError(common.CodeConfig, fmt.Sprintf("read folder %s", folder), err)
	}

	var runID uuid.UUID
	if p.recorder != nil {
		runID, err = p.recorder.StartRun(ctx, folder, p.cfg.LedgerSource, p.cfg.Output)
		if err != nil {
			// History is an audit aid, never a reason to fail the batch.
			p.logger.Warn("failed to record run start", "error", err)
			p.recorder = nil
		}
	}

	var records []Record
	for _, entry := range entries {
		stats.Scanned++
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !constants.IsPDFExt(filepath.Ext(name)) {
			continue
		}
		stats.Eligible++

		var jobID uuid.UUID
		if p.recorder != nil {
			if jobID, err = p.recorder.StartJob(ctx, runID, name); err != nil {
				p.logger.Warn("failed to record job start", "file", name, "error", err)
			}
		}

		path := filepath.Join(folder, name)
		res, err := p.extractor.Extract(ctx, path)
		if err != nil {
			p.finishJobFailure(ctx, jobID, err)
			if !p.cfg.ContinueOnError {
				p.finishRun(ctx, runID, stats)
				return records, stats, common.NewAppError(common.CodeExtraction, fmt.Sprintf("extract %s", name), err)
			}
			// Skip policy: keep the one-row-per-file invariant with an empty,
			// unmatched record so the failure is visible in the output table.
			p.logger.Error("extraction failed, recording empty row", "file", name, "error", err)
			records = append(records, Record{SourceFile: name})
			stats.Failed++
			continue
		}

		flds := p.fields.ExtractFields(res.Text)
		matched := p.matcher.Match(flds, led)

		records = append(records, Record{
			Fields:     flds,
			SourceFile: name,
			Matched:    matched,
		})
		stats.Processed++
		if matched {
			stats.Matched++
		}

		if p.recorder != nil && jobID != uuid.Nil {
			if err := p.recorder.FinishJobSuccess(ctx, jobID, res.Method, flds.InvoiceNumber, matched); err != nil {
				p.logger.Warn("failed to record job finish", "file", name, "error", err)
			}
		}

		p.logger.Info("processed invoice",
			"file", name,
			"method", res.Method,
			"pages", res.Pages,
			"invoice_number", flds.InvoiceNumber,
			"matched", matched,
		)
	}

	p.finishRun(ctx, runID, stats)

	p.logger.Info("batch complete",
		"scanned", stats.Scanned,
		"eligible", stats.Eligible,
		"processed", stats.Processed,
		"matched", stats.Matched,
		"failed", stats.Failed,
	)
	return records, stats, nil
}

func (p *Processor) finishRun(ctx context.Context, runID uuid.UUID, stats Stats) {
	if p.recorder == nil || runID == uuid.Nil {
		return
	}
	if err := p.recorder.FinishRun(ctx, runID, int(stats.Processed), int(stats.Matched), int(stats.Failed)); err != nil {
		p.logger.Warn("failed to record run finish", "error", err)
	}
}

func (p *Processor) finishJobFailure(ctx context.Context, jobID uuid.UUID, cause error) {
	if p.recorder == nil || jobID == uuid.Nil {
		return
	}
	if err := p.recorder.FinishJobFailure(ctx, jobID, cause.Error()); err != nil {
		p.logger.Warn("failed to record job failure", "error", err)
	}
}
