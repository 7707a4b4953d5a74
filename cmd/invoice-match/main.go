package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"

	"github.com/poledger/invoice-match/internal/batch"
	"github.com/poledger/invoice-match/internal/common"
	"github.com/poledger/invoice-match/internal/export"
	"github.com/poledger/invoice-match/internal/extract"
	"github.com/poledger/invoice-match/internal/fields"
	"github.com/poledger/invoice-match/internal/history"
	"github.com/poledger/invoice-match/internal/ledger"
	"github.com/poledger/invoice-match/internal/match"
	"github.com/poledger/invoice-match/internal/ocr"
)

// printError prints an error message to stderr, falling back to stdout if stderr fails
func printError(format string, args ...interface{}) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		fmt.Printf(format, args...)
	}
}

// options carries the parsed flag values into run.
type options struct {
	pdfFolder string
	poCSV     string
	poDB      string
	output    string
	textOnly  bool
	keepGoing bool
	normalize bool
	historyDB string
}

func main() {
	// .env is optional; real env always wins
	_ = godotenv.Load()

	// Parse CLI flags
	var (
		pdfFolder = flag.String("pdf-folder", "", "folder containing invoice PDFs (required)")
		poCSV     = flag.String("po-csv", "", "CSV file with purchase orders (must include an InvoiceNumber column)")
		poDB      = flag.String("po-db", "", "Postgres DSN to load the purchase-order ledger from instead of --po-csv")
		output    = flag.String("output", "", "path to save the results table; .xlsx writes a workbook, anything else CSV (required)")
		textOnly  = flag.Bool("text-only", false, "disable the OCR fallback and rely on the PDF text layer only")
		keepGoing = flag.Bool("continue-on-error", false, "record extraction failures and keep going instead of aborting the batch")
		normalize = flag.Bool("normalize-match", false, "trim and case-fold invoice numbers before matching (extension; default is exact match)")
		historyDB = flag.String("history-db", "", "SQLite file to record this run in (overrides HISTORY_DB)")
	)
	flag.Parse()

	// Validate required flags
	if *pdfFolder == "" {
		printError("Error: --pdf-folder is required\n")
		os.Exit(2)
	}
	if *output == "" {
		printError("Error: --output is required\n")
		os.Exit(2)
	}
	if *poCSV == "" && *poDB == "" {
		printError("Error: one of --po-csv or --po-db is required\n")
		os.Exit(2)
	}
	if *poCSV != "" && *poDB != "" {
		printError("Error: --po-csv and --po-db are mutually exclusive\n")
		os.Exit(2)
	}

	// Setup logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	opts := options{
		pdfFolder: *pdfFolder,
		poCSV:     *poCSV,
		poDB:      *poDB,
		output:    *output,
		textOnly:  *textOnly,
		keepGoing: *keepGoing,
		normalize: *normalize,
		historyDB: *historyDB,
	}

	// os.Exit skips deferred cleanup, so everything past flag validation lives
	// in run and only main exits.
	if err := run(context.Background(), opts, logger); err != nil {
		logger.Error("batch failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, opts options, logger *slog.Logger) error {
	cfg := common.LoadConfig()

	// Load the ledger before touching any document
	var (
		led       *ledger.Ledger
		ledgerSrc string
		err       error
	)
	if opts.poCSV != "" {
		ledgerSrc = opts.poCSV
		led, err = ledger.LoadCSV(opts.poCSV)
	} else {
		ledgerSrc = "postgres"
		led, err = ledger.LoadPostgres(ctx, ledger.PGConfig{
			DSN:         opts.poDB,
			Query:       cfg.Ledger.PGQuery,
			DialTimeout: cfg.Ledger.DialTimeout,
		})
	}
	if err != nil {
		return fmt.Errorf("load purchase-order ledger from %s: %w", ledgerSrc, err)
	}
	logger.Info("ledger loaded", "source", ledgerSrc, "rows", led.Len())

	// Setup text extraction (Stage 1)
	extractor := ocr.NewExtractor(ocr.Config{
		Pdftotext:     cfg.OCR.Pdftotext,
		Pdftoppm:      cfg.OCR.Pdftoppm,
		Tesseract:     cfg.OCR.Tesseract,
		TesseractLang: cfg.OCR.TesseractLang,
		TessdataDir:   cfg.OCR.TessdataDir,
		DPI:           cfg.OCR.DPI,
		MaxPages:      cfg.OCR.MaxPages,
		MinTextChars:  cfg.OCR.MinTextChars,
		DisableOCR:    opts.textOnly,
	}, logger)
	textExtractor := extract.NewOCRAdapter(extractor)

	// Setup field extraction (Stage 2)
	var fieldExtractor *fields.Extractor
	if cfg.Fields.RulesFile != "" {
		specs, err := fields.LoadRules(cfg.Fields.RulesFile)
		if err != nil {
			return fmt.Errorf("load extraction rules %s: %w", cfg.Fields.RulesFile, err)
		}
		fieldExtractor, err = fields.NewExtractorWithRules(specs, logger)
		if err != nil {
			return fmt.Errorf("compile extraction rules: %w", err)
		}
		logger.Info("using extraction rules file", "path", cfg.Fields.RulesFile, "rules", len(specs))
	} else {
		fieldExtractor = fields.NewExtractor(logger)
	}

	matcher := match.NewMatcher(match.Options{Normalize: opts.normalize})

	// Optional run history
	var recorder history.Recorder
	historyPath := opts.historyDB
	if historyPath == "" {
		historyPath = cfg.History.DBPath
	}
	if historyPath != "" {
		store, err := history.Open(historyPath, logger)
		if err != nil {
			return fmt.Errorf("open history db %s: %w", historyPath, err)
		}
		defer func() {
			if cerr := store.Close(); cerr != nil {
				logger.Error("close history db", "error", cerr)
			}
		}()
		recorder = store
	}

	processor := batch.NewProcessor(batch.Config{
		ContinueOnError: opts.keepGoing,
		LedgerSource:    ledgerSrc,
		Output:          opts.output,
	}, textExtractor, fieldExtractor, matcher, recorder, logger)

	records, stats, err := processor.Process(ctx, opts.pdfFolder, led)
	if err != nil {
		return err
	}

	if strings.EqualFold(filepath.Ext(opts.output), ".xlsx") {
		err = export.WriteXLSX(records, opts.output)
	} else {
		err = export.WriteCSV(records, opts.output)
	}
	if err != nil {
		return fmt.Errorf("write results to %s: %w", opts.output, err)
	}

	logger.Info("results written",
		"output", opts.output,
		"rows", len(records),
		"matched", stats.Matched,
		"failed", stats.Failed,
	)
	fmt.Printf("Processed %d invoices; results saved to %s\n", len(records), opts.output)
	return nil
}
