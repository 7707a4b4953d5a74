package export

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/poledger/invoice-match/internal/batch"
	"github.com/poledger/invoice-match/internal/fields"
)

func sampleRecords() []batch.Record {
	return []batch.Record{
		{
			Fields:     fields.Fields{InvoiceNumber: "A100", Total: "250.00"},
			SourceFile: "inv1.pdf",
			Matched:    true,
		},
		{
			SourceFile: "blank.pdf",
		},
	}
}

func TestWriteCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	require.NoError(t, WriteCSV(sampleRecords(), path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	want := "invoice_number,vendor,date,total,file,matched\n" +
		"A100,,,250.00,inv1.pdf,true\n" +
		",,,,blank.pdf,false\n"
	assert.Equal(t, want, string(data))
}

func TestWriteCSV_HeaderOnly(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	require.NoError(t, WriteCSV(nil, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "invoice_number,vendor,date,total,file,matched\n", string(data))
}

func TestWriteCSV_Idempotent(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "first.csv")
	second := filepath.Join(dir, "second.csv")

	require.NoError(t, WriteCSV(sampleRecords(), first))
	require.NoError(t, WriteCSV(sampleRecords(), second))

	a, err := os.ReadFile(first)
	require.NoError(t, err)
	b, err := os.ReadFile(second)
	require.NoError(t, err)
	assert.Equal(t, a, b, "same inputs must produce byte-identical tables")
}

func TestWriteXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.xlsx")
	require.NoError(t, WriteXLSX(sampleRecords(), path))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer func() {
		require.NoError(t, f.Close())
	}()

	rows, err := f.GetRows("Invoices")
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, Headers, rows[0])
	assert.Equal(t, []string{"A100", "", "", "250.00", "inv1.pdf", "true"}, rows[1])
}
