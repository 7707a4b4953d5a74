package fields

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeRules(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "rules.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadRules(t *testing.T) {
	t.Run("valid rules file", func(t *testing.T) {
		path := writeRules(t, `{
			"fields": [
				{"field": "invoice_number", "pattern": "INV-(\\d+)", "group": 1},
				{"field": "total", "pattern": "Due\\s+([\\d,.]+)"}
			]
		}`)

		specs, err := LoadRules(path)
		require.NoError(t, err)
		require.Len(t, specs, 2)
		assert.Equal(t, "invoice_number", specs[0].Field)
		// group defaults to 1 when omitted
		assert.Equal(t, 1, specs[1].Group)
	})

	t.Run("unknown field name fails schema validation", func(t *testing.T) {
		path := writeRules(t, `{"fields": [{"field": "po_number", "pattern": "x"}]}`)
		_, err := LoadRules(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "schema")
	})

	t.Run("missing pattern fails schema validation", func(t *testing.T) {
		path := writeRules(t, `{"fields": [{"field": "total"}]}`)
		_, err := LoadRules(path)
		require.Error(t, err)
	})

	t.Run("empty fields array rejected", func(t *testing.T) {
		path := writeRules(t, `{"fields": []}`)
		_, err := LoadRules(path)
		require.Error(t, err)
	})

	t.Run("not json", func(t *testing.T) {
		path := writeRules(t, `field: total`)
		_, err := LoadRules(path)
		require.Error(t, err)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadRules(filepath.Join(t.TempDir(), "nope.json"))
		require.Error(t, err)
	})
}

func TestNewExtractorWithRules_GroupBounds(t *testing.T) {
	t.Run("group beyond capture count rejected", func(t *testing.T) {
		_, err := NewExtractorWithRules([]RuleSpec{
			{Field: FieldInvoiceNumber, Pattern: `INV-(\d+)`, Group: 3},
		}, nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "capture groups")
	})

	t.Run("pattern with no capture group rejected under default group", func(t *testing.T) {
		// group omitted defaults to 1, which this pattern cannot satisfy
		_, err := NewExtractorWithRules([]RuleSpec{
			{Field: FieldTotal, Pattern: `Total: \d+`},
		}, nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "capture groups")
	})

	t.Run("group within capture count accepted", func(t *testing.T) {
		e, err := NewExtractorWithRules([]RuleSpec{
			{Field: FieldInvoiceNumber, Pattern: `(INV)-(\d+)`, Group: 2},
		}, nil)
		require.NoError(t, err)
		f := e.ExtractFields("ref INV-42 thanks")
		assert.Equal(t, "42", f.InvoiceNumber)
	})
}
