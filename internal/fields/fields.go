package fields

import (
	"log/slog"
	"regexp"
)

// Field names accepted by the extraction rules. The record shape is a fixed
// four-field contract with downstream consumers; vendor and date are reserved
// and not populated by the built-in rules.
const (
	FieldInvoiceNumber = "invoice_number"
	FieldVendor        = "vendor"
	FieldDate          = "date"
	FieldTotal         = "total"
)

// Fields is the per-document extraction record. Empty string means the pattern
// found no match, which is a normal outcome, not an error.
type Fields struct {
	InvoiceNumber string
	Vendor        string
	Date          string
	Total         string
}

type compiledRule struct {
	field string
	re    *regexp.Regexp
	group int
}

// Extractor applies a declarative table of (field -> pattern -> capture group)
// rules to raw document text. Adding a field is a data change, not a code change.
type Extractor struct {
	rules  []compiledRule
	logger *slog.Logger
}

// NewExtractor returns an extractor with the built-in rule set.
func NewExtractor(logger *slog.Logger) *Extractor {
	e, err := NewExtractorWithRules(DefaultRules(), logger)
	if err != nil {
		// Built-in rules are compile-time constants; a failure here is a bug.
		panic(err)
	}
	return e
}

// NewExtractorWithRules compiles the given rule specs. Rules targeting unknown
// field names, carrying invalid patterns, or requesting a capture group the
// pattern does not have are rejected.
func NewExtractorWithRules(specs []RuleSpec, logger *slog.Logger) (*Extractor, error) {
	if logger == nil {
		logger = slog.Default()
	}
	rules, err := compileRules(specs)
	if err != nil {
		return nil, err
	}
	return &Extractor{rules: rules, logger: logger}, nil
}

// ExtractFields runs every rule against the whole text (not line-by-line) and
// keeps the first (leftmost) match per field. Deterministic and side-effect free.
func (e *Extractor) ExtractFields(text string) Fields {
	var f Fields
	for _, r := range e.rules {
		if get(&f, r.field) != "" {
			continue // an earlier rule already populated this field
		}
		m := r.re.FindStringSubmatch(text)
		if m == nil || r.group >= len(m) {
			continue
		}
		set(&f, r.field, m[r.group])
	}
	return f
}

func get(f *Fields, field string) string {
	switch field {
	case FieldInvoiceNumber:
		return f.InvoiceNumber
	case FieldVendor:
		return f.Vendor
	case FieldDate:
		return f.Date
	case FieldTotal:
		return f.Total
	}
	return ""
}

func set(f *Fields, field, value string) {
	switch field {
	case FieldInvoiceNumber:
		f.InvoiceNumber = value
	case FieldVendor:
		f.Vendor = value
	case FieldDate:
		f.Date = value
	case FieldTotal:
		f.Total = value
	}
}
