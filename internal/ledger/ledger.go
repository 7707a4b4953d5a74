package ledger

import "strings"

// Ledger is the read-only purchase-order reference table, fully loaded before
// any matching begins. Only the invoice-number column is retained.
type Ledger struct {
	numbers []string
	exact   map[string]struct{}
	folded  map[string]struct{}
}

// New builds a ledger from the invoice-number column values, preserving order.
func New(numbers []string) *Ledger {
	l := &Ledger{
		numbers: numbers,
		exact:   make(map[string]struct{}, len(numbers)),
		folded:  make(map[string]struct{}, len(numbers)),
	}
	for _, n := range numbers {
		l.exact[n] = struct{}{}
		l.folded[foldKey(n)] = struct{}{}
	}
	return l
}

// Contains reports exact string membership. No trimming, no case folding.
func (l *Ledger) Contains(invoiceNumber string) bool {
	_, ok := l.exact[invoiceNumber]
	return ok
}

// ContainsFold reports membership after trimming whitespace and case folding
// both sides. Used only by the opt-in normalized matching mode.
func (l *Ledger) ContainsFold(invoiceNumber string) bool {
	_, ok := l.folded[foldKey(invoiceNumber)]
	return ok
}

// Numbers returns the invoice-number column in load order.
func (l *Ledger) Numbers() []string {
	return l.numbers
}

// Len returns the number of ledger rows.
func (l *Ledger) Len() int {
	return len(l.numbers)
}

func foldKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
