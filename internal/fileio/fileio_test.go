package fileio

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	excelize "github.com/xuri/excelize/v2"
)

func TestReadTableCSV(t *testing.T) {
	t.Parallel()
	in := "Product,Spec,Price\npotato,70cm,2.0\n,,\ncarrot,,\"1,5\"\n"

	tbl, err := ReadTable(strings.NewReader(in), "prices.csv", 1)
	require.NoError(t, err)

	assert.Equal(t, []string{"Product", "Spec", "Price"}, tbl.Columns)
	require.Len(t, tbl.Rows, 2, "fully blank rows are skipped")
	assert.Equal(t, map[string]string{"Product": "potato", "Spec": "70cm", "Price": "2.0"}, tbl.Rows[0])
	assert.Equal(t, "1,5", tbl.Rows[1]["Price"])
}

func TestReadTableCSVSemicolonAndBOM(t *testing.T) {
	t.Parallel()
	in := "\uFEFFProduct;Price\npotato;2,5\n"

	tbl, err := ReadTable(strings.NewReader(in), "PRICES.CSV", 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"Product", "Price"}, tbl.Columns)
	require.Len(t, tbl.Rows, 1)
	assert.Equal(t, "2,5", tbl.Rows[0]["Price"])
}

func TestReadTableHeaderRow(t *testing.T) {
	t.Parallel()
	in := "Price list 2026,,\nProduct,,Price\nProduct,x,1\n"

	tbl, err := ReadTable(strings.NewReader(in), "p.csv", 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"Product", "Column 2", "Price"}, tbl.Columns)
	require.Len(t, tbl.Rows, 1)
	assert.Equal(t, "x", tbl.Rows[0]["Column 2"])
}

func TestPickHeaderDuplicates(t *testing.T) {
	t.Parallel()
	h := pickHeader([][]string{{"Price", " Price ", ""}}, 1)
	assert.Equal(t, []string{"Price", "Price (2)", "Column 3"}, h)
}

func TestReadTableUnsupported(t *testing.T) {
	t.Parallel()
	_, err := ReadTable(strings.NewReader("x"), "prices.pdf", 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported file")
}

func TestReadTableXLSX(t *testing.T) {
	t.Parallel()
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	rows := [][]any{
		{"Product", "Spec", "Price"},
		{"cabbage", "small", 1.25},
		{nil, "large", 1.5},
		{"apple", nil, 3},
	}
	for i, r := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, f.SetSheetRow(sheet, cell, &r))
	}
	// объединённая ячейка наименования: значение только в верхней
	require.NoError(t, f.MergeCell(sheet, "A2", "A3"))
	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	require.NoError(t, f.Close())

	tbl, err := ReadTable(&buf, "prices.xlsx", 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"Product", "Spec", "Price"}, tbl.Columns)
	require.Len(t, tbl.Rows, 3)
	assert.Equal(t, "cabbage", tbl.Rows[0]["Product"])
	assert.Equal(t, "1.25", tbl.Rows[0]["Price"])
	assert.Equal(t, "", tbl.Rows[1]["Product"])
	assert.Equal(t, "3", tbl.Rows[2]["Price"])
}

func TestOpenTableMissingFile(t *testing.T) {
	t.Parallel()
	_, err := OpenTable(filepath.Join(t.TempDir(), "nope.xlsx"), 1)
	assert.ErrorIs(t, err, os.ErrNotExist)
}
