package reports_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	reports "perpustakaanku_backend/internals/features/library/reports"
)

func TestNewReport(t *testing.T) {
	f, err := reports.NewReport(
		[]string{"#", "Book Title"},
		[][]interface{}{
			{1, "Book 1"},
			{2, "Book 2"},
		},
	)
	require.NoError(t, err)
	defer f.Close()
	sheet := f.GetSheetName(0)

	v, err := f.GetCellValue(sheet, "B1")
	require.NoError(t, err)
	assert.Equal(t, "Book Title", v)

	v, err = f.GetCellValue(sheet, "B3")
	require.NoError(t, err)
	assert.Equal(t, "Book 2", v)
}

func TestFilename(t *testing.T) {
	a := reports.Filename("borrowings")
	b := reports.Filename("borrowings")
	assert.True(t, strings.HasPrefix(a, "report-"))
	assert.True(t, strings.HasSuffix(a, "-borrowings.xlsx"))
	assert.NotEqual(t, a, b)
}
