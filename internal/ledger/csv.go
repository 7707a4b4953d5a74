package ledger

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/poledger/invoice-match/internal/common"
)

// InvoiceNumberColumn is the required header name in the purchase-order CSV.
// The name is matched case-sensitively.
const InvoiceNumberColumn = "InvoiceNumber"

// LoadCSV reads a purchase-order CSV and returns a ledger built from its
// InvoiceNumber column. A missing file, unreadable content, or absent column
// is a fatal LEDGER_LOAD error.
func LoadCSV(path string) (*Ledger, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, common.NewAppError(common.CodeLedgerLoad, fmt.Sprintf("open %s", path), err)
	}
	defer func() {
		_ = f.Close()
	}()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1 // tolerate ragged rows; only the invoice column matters

	header, err := r.Read()
	if err != nil {
		if err == io.EOF {
			return nil, common.NewAppError(common.CodeLedgerLoad, fmt.Sprintf("%s is empty", path), common.ErrLedgerLoad)
		}
		return nil, common.NewAppError(common.CodeLedgerLoad, "read header", err)
	}

	col := -1
	for i, name := range header {
		if name == InvoiceNumberColumn {
			col = i
			break
		}
	}
	if col < 0 {
		return nil, common.NewAppError(common.CodeLedgerLoad,
			fmt.Sprintf("%s has no %q column", path, InvoiceNumberColumn), common.ErrLedgerLoad)
	}

	var numbers []string
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, common.NewAppError(common.CodeLedgerLoad, "read row", err)
		}
		if col >= len(row) {
			continue // short row, no invoice number cell
		}
		numbers = append(numbers, row[col])
	}
	return New(numbers), nil
}
