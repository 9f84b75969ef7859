package report

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestWriteXLSX_SheetsAndRows(t *testing.T) {
	var buf bytes.Buffer
	err := WriteXLSX(&buf,
		Table{
			Sheet:   "Orders",
			Headers: []string{"Order ID", "Total"},
			Rows:    [][]interface{}{{"ORD-0001", 382.32}, {"ORD-0002", 118}},
		},
		Table{
			Sheet:   "Items",
			Headers: []string{"Item", "Qty"},
			Rows:    [][]interface{}{{"Espresso", 2}},
		},
	)
	require.NoError(t, err)

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Orders", "Items"}, f.GetSheetList())

	v, err := f.GetCellValue("Orders", "A3")
	require.NoError(t, err)
	assert.Equal(t, "ORD-0002", v)

	v, err = f.GetCellValue("Items", "A1")
	require.NoError(t, err)
	assert.Equal(t, "Item", v)
}

func TestWriteXLSX_NoTables(t *testing.T) {
	assert.Error(t, WriteXLSX(&bytes.Buffer{}))
}

func TestWritePDF(t *testing.T) {
	var buf bytes.Buffer
	err := WritePDF(&buf, Summary{
		Title:       "Sales Report",
		Subtitle:    "HADIR'S CAFE",
		GeneratedAt: "16 Oct 2026 10:00",
		Figures:     [][2]string{{"Total orders", "2"}, {"Revenue", "Rs. 500.32"}},
		Headers:     []string{"Order", "Total"},
		Widths:      []float64{40, 30},
		Rows:        [][]string{{"ORD-0001", "382.32"}},
	})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
}

func TestWritePDF_WidthMismatch(t *testing.T) {
	err := WritePDF(&bytes.Buffer{}, Summary{Headers: []string{"a"}, Widths: nil})
	assert.Error(t, err)
}
