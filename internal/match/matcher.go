package match

import (
	"github.com/poledger/invoice-match/internal/fields"
	"github.com/poledger/invoice-match/internal/ledger"
)

// Options control matching behavior.
type Options struct {
	// Normalize trims whitespace and case-folds both sides before comparing.
	// Off by default: the baseline contract is exact string identity, so a
	// ledger entry "A123" must not match an extracted "a123".
	Normalize bool
}

// Matcher decides whether an extracted record's invoice number appears in the
// purchase-order ledger.
type Matcher struct {
	opts Options
}

func NewMatcher(opts Options) *Matcher {
	return &Matcher{opts: opts}
}

// Match returns false immediately when no invoice number was extracted;
// otherwise it reports membership in the ledger's invoice-number column.
func (m *Matcher) Match(f fields.Fields, l *ledger.Ledger) bool {
	if f.InvoiceNumber == "" {
		return false
	}
	if m.opts.Normalize {
		return l.ContainsFold(f.InvoiceNumber)
	}
	return l.Contains(f.InvoiceNumber)
}
