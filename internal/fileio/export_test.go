package fileio

import (
	"bytes"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	excelize "github.com/xuri/excelize/v2"

	"procure-service/internal/procure/model"
)

func samplePlan() model.PurchasePlan {
	return model.PurchasePlan{
		Suppliers: []string{"X", "Y"},
		Lines: []model.PurchaseLine{
			{
				Key: "potato", DisplayName: "potato", Product: "potato", Quantity: 100,
				Supplier: "Y", UnitPrice: 1.8, LineTotal: 180,
				Comparison: []model.Quote{{Supplier: "X", Price: 2, Quoted: true}, {Supplier: "Y", Price: 1.8, Quoted: true}},
			},
			{
				Key: "apple|large", DisplayName: "apple (large)", Product: "apple", Spec: "large", Quantity: 2,
				Supplier: "Y", UnitPrice: 3, LineTotal: 6,
				Comparison: []model.Quote{{Supplier: "X"}, {Supplier: "Y", Price: 3, Quoted: true}},
			},
		},
		SupplierTotals: []model.SupplierTotal{{Supplier: "Y", Total: 186, Lines: 2}},
		Unmatched:      []string{"mango"},
		GrandTotal:     186,
		Notes:          []string{"not offered by any supplier: mango"},
	}
}

func TestWritePlanXLSX(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	require.NoError(t, WritePlanXLSX(&buf, samplePlan()))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, PlanSheet, f.GetSheetName(0))
	raw := excelize.Options{RawCellValue: true}
	get := func(cell string) string {
		v, err := f.GetCellValue(PlanSheet, cell, raw)
		require.NoError(t, err)
		return v
	}

	// шапка
	assert.Equal(t, "Supplier / Product", get("A1"))
	assert.Equal(t, "Comparison", get("G1"))
	assert.Equal(t, "X quote", get("H1"))
	assert.Equal(t, "Y quote", get("I1"))

	// строка поставщика и позиции
	assert.Equal(t, "Y (total: 186.00)", get("A2"))
	assert.Equal(t, "  └ potato", get("A3"))
	assert.Equal(t, "100", get("D3"))
	assert.Equal(t, "1.8", get("E3"))
	assert.Equal(t, "180", get("F3"))
	assert.Equal(t, "2", get("H3"))
	assert.Equal(t, "apple", get("B4"))
	assert.Equal(t, "large", get("C4"))
	assert.Equal(t, NoQuoteText, get("H4"))

	// строка 5 пустая, затем итог и заметки
	assert.Equal(t, "", get("A5"))
	assert.Equal(t, "Grand total:", get("H6"))
	assert.Equal(t, "186", get("I6"))
	assert.Equal(t, "Notes:", get("A8"))
	assert.Equal(t, "not offered by any supplier: mango", get("A9"))
}

func TestWritePlanXLSXEmptyPlan(t *testing.T) {
	t.Parallel()
	plan := model.PurchasePlan{Suppliers: []string{"X", "Y"}, Notes: []string{"nothing"}}

	var buf bytes.Buffer
	require.NoError(t, WritePlanXLSX(&buf, plan))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	v, err := f.GetCellValue(PlanSheet, "H2")
	require.NoError(t, err)
	assert.Equal(t, "Grand total:", v)
	v, err = f.GetCellValue(PlanSheet, "A5")
	require.NoError(t, err)
	assert.Equal(t, "nothing", v)
}

func TestPlanFileName(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "2026-10-19_purchase_plan.xlsx", PlanFileName(time.Date(2026, 10, 19, 15, 0, 0, 0, time.UTC)))
}

func TestWritePlanXLSXReportsCellErrors(t *testing.T) {
	t.Parallel()
	plan := samplePlan()
	// столбцов больше, чем допускает xlsx
	for i := len(plan.Suppliers); i < excelize.MaxColumns; i++ {
		plan.Suppliers = append(plan.Suppliers, fmt.Sprintf("S%d", i))
	}

	var buf bytes.Buffer
	err := WritePlanXLSX(&buf, plan)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "write sheet")
	assert.Zero(t, buf.Len())
}

func TestSheetWriterKeepsFirstError(t *testing.T) {
	t.Parallel()
	f := excelize.NewFile()
	defer f.Close()
	require.NoError(t, f.SetSheetName(f.GetSheetName(0), PlanSheet))

	sw := &sheetWriter{f: f}
	sw.value("A1", "ok")
	require.NoError(t, sw.err)

	sw.value("not a cell", 1)
	first := sw.err
	require.Error(t, first)

	sw.value("A2", "later")
	assert.Equal(t, first, sw.err)
	v, err := f.GetCellValue(PlanSheet, "A2")
	require.NoError(t, err)
	assert.Empty(t, v)
}
