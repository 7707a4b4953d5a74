package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/poledger/invoice-match/internal/batch"
)

// Headers is the result-table column set, in output order. Columns are always
// present even when no record populated a field; empty cells mean absence.
var Headers = []string{"invoice_number", "vendor", "date", "total", "file", "matched"}

func row(r batch.Record) []string {
	return []string{
		r.Fields.InvoiceNumber,
		r.Fields.Vendor,
		r.Fields.Date,
		r.Fields.Total,
		r.SourceFile,
		strconv.FormatBool(r.Matched),
	}
}

// WriteCSV writes header + one row per record to path. Rows keep the
// processor's insertion order, so identical inputs produce identical bytes.
func WriteCSV(records []batch.Record, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}

	w := csv.NewWriter(f)
	if err := w.Write(Headers); err != nil {
		_ = f.Close()
		return fmt.Errorf("write header: %w", err)
	}
	for _, r := range records {
		if err := w.Write(row(r)); err != nil {
			_ = f.Close()
			return fmt.Errorf("write row for %s: %w", r.SourceFile, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		_ = f.Close()
		return fmt.Errorf("flush: %w", err)
	}
	return f.Close()
}
