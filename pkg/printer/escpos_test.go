package printer

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDocument_StartsWithInit(t *testing.T) {
	d := NewDocument(0)
	assert.Equal(t, Width58mm, d.Width())
	assert.Equal(t, []byte{ESC, '@'}, d.Bytes())
}

func TestKeyValue_FillsWidth(t *testing.T) {
	d := NewDocument(Width58mm)
	d.KeyValue("Total", "382.32")

	line := lastLine(d.Bytes())
	assert.Len(t, line, Width58mm)
	assert.True(t, strings.HasPrefix(line, "Total"))
	assert.True(t, strings.HasSuffix(line, "382.32"))
}

func TestItemLine_TruncatesLongNames(t *testing.T) {
	d := NewDocument(Width58mm)
	d.ItemLine(12, "Extremely Long Seasonal Pumpkin Spice Latte", "3000.00")

	line := lastLine(d.Bytes())
	assert.Equal(t, Width58mm, len([]rune(line)))
	assert.True(t, strings.HasPrefix(line, "12x Extremely"))
	assert.True(t, strings.HasSuffix(line, " 3000.00"))
}

func TestQtyLine_HasNoPrice(t *testing.T) {
	d := NewDocument(Width80mm)
	d.QtyLine("Espresso", 2)

	line := lastLine(d.Bytes())
	assert.Len(t, line, Width80mm)
	assert.True(t, strings.HasSuffix(line, "x2"))
	assert.NotContains(t, line, ".")
}

func TestAppend_ConcatenatesJobs(t *testing.T) {
	a := NewDocument(Width58mm).Text("receipt").PartialCut()
	b := NewDocument(Width58mm).Text("kot").Cut()

	combined := NewDocument(Width58mm).Append(a).Append(b).Bytes()
	assert.True(t, bytes.Contains(combined, []byte("receipt")))
	assert.True(t, bytes.Contains(combined, []byte("kot")))
	assert.Less(t, bytes.Index(combined, []byte("receipt")), bytes.Index(combined, []byte("kot")))
}

func TestMemoryPrinter_RecordsJobs(t *testing.T) {
	p, err := NewPrinterFromConfig("memory", "", "")
	require.NoError(t, err)

	require.NoError(t, p.Print([]byte("one")))
	require.NoError(t, p.Print([]byte("two")))

	mem := p.(*MemoryPrinter)
	jobs := mem.Jobs()
	require.Len(t, jobs, 2)
	assert.Equal(t, "two", string(jobs[1]))
}

func TestNewPrinterFromConfig_Validation(t *testing.T) {
	_, err := NewPrinterFromConfig("usb", "", "")
	assert.Error(t, err)
	_, err = NewPrinterFromConfig("network", "", "")
	assert.Error(t, err)
	_, err = NewPrinterFromConfig("bluetooth", "", "")
	assert.Error(t, err)

	p, err := NewPrinterFromConfig("", "", "")
	require.NoError(t, err)
	assert.False(t, p.IsConnected())
}

func lastLine(b []byte) string {
	s := strings.TrimSuffix(string(b), "\n")
	if i := strings.LastIndexByte(s, '\n'); i >= 0 {
		s = s[i+1:]
	}
	// strip leading ESC @ on the first line
	return strings.TrimPrefix(s, string([]byte{ESC, '@'}))
}
