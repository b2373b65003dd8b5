package fileio

import (
	"fmt"
	"io"
	"time"

	excelize "github.com/xuri/excelize/v2"

	"procure-service/internal/procure/model"
)

const (
	PlanSheet   = "Purchase plan"
	NoQuoteText = "no quote"

	numFmt2 = 2 // встроенный формат "0.00"
)

// PlanFileName: имя файла выгрузки по умолчанию: 2006-01-02_purchase_plan.xlsx
func PlanFileName(now time.Time) string {
	return now.Format("2006-01-02") + "_purchase_plan.xlsx"
}

type planStyles struct {
	header, supplier, text, center, money int
}

func newPlanStyles(f *excelize.File) (planStyles, error) {
	var (
		s   planStyles
		err error
	)
	if s.header, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Family: "Arial", Size: 11},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border:    []excelize.Border{{Type: "bottom", Color: "000000", Style: 1}},
	}); err != nil {
		return s, err
	}
	if s.supplier, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Family: "Arial", Size: 11, Color: "#00008B"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "left", Vertical: "center"},
	}); err != nil {
		return s, err
	}
	if s.text, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Family: "Arial", Size: 10},
		Alignment: &excelize.Alignment{Horizontal: "left", Vertical: "center"},
	}); err != nil {
		return s, err
	}
	if s.center, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Family: "Arial", Size: 10},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	}); err != nil {
		return s, err
	}
	s.money, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Family: "Arial", Size: 10},
		Alignment: &excelize.Alignment{Horizontal: "right", Vertical: "center"},
		NumFmt:    numFmt2,
	})
	return s, err
}

func cellName(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}

// PlanHeaders: заголовок выгрузки: фиксированные колонки + цена каждого поставщика.
func PlanHeaders(plan model.PurchasePlan) []string {
	h := []string{"Supplier / Product", "Product", "Spec", "Quantity", "Unit price", "Amount", "Comparison"}
	for _, s := range plan.Suppliers {
		h = append(h, s+" quote")
	}
	return h
}

// sheetWriter пишет в один лист и запоминает первую ошибку excelize.
type sheetWriter struct {
	f   *excelize.File
	err error
}

func (sw *sheetWriter) value(cell string, v any) {
	if sw.err == nil {
		sw.err = sw.f.SetCellValue(PlanSheet, cell, v)
	}
}

func (sw *sheetWriter) row(cell string, vals *[]any) {
	if sw.err == nil {
		sw.err = sw.f.SetSheetRow(PlanSheet, cell, vals)
	}
}

func (sw *sheetWriter) style(from, to string, id int) {
	if sw.err == nil {
		sw.err = sw.f.SetCellStyle(PlanSheet, from, to, id)
	}
}

func (sw *sheetWriter) width(col int, w float64) {
	if sw.err == nil {
		name, err := excelize.ColumnNumberToName(col)
		if err != nil {
			sw.err = err
			return
		}
		sw.err = sw.f.SetColWidth(PlanSheet, name, name, w)
	}
}

// колонки: 1 подпись, 2 товар, 3 спецификация, 7 стрелка, 8+ цены поставщиков
func columnWidth(i int) float64 {
	switch {
	case i == 0:
		return 30
	case i == 1:
		return 20
	case i == 2:
		return 15
	case i == 6:
		return 18
	case i > 6:
		return 12
	}
	return 10
}

// WritePlanXLSX writes the plan as a formatted workbook: one header row,
// a subtotal row per supplier followed by its lines, then the grand total
// and the notes block.
func WritePlanXLSX(w io.Writer, plan model.PurchasePlan) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), PlanSheet); err != nil {
		return err
	}
	st, err := newPlanStyles(f)
	if err != nil {
		return fmt.Errorf("styles: %w", err)
	}
	sw := &sheetWriter{f: f}

	headers := PlanHeaders(plan)
	last := len(headers)
	for i, h := range headers {
		sw.value(cellName(i+1, 1), h)
		sw.width(i+1, columnWidth(i))
	}
	sw.style(cellName(1, 1), cellName(last, 1), st.header)

	row := 2
	for _, total := range plan.SupplierTotals {
		a := cellName(1, row)
		sw.value(a, fmt.Sprintf("%s (total: %.2f)", total.Supplier, total.Total))
		sw.style(a, a, st.supplier)
		row++

		for _, l := range plan.LinesFor(total.Supplier) {
			vals := []any{"  └ " + l.DisplayName, l.Product, l.Spec, l.Quantity, l.UnitPrice, l.LineTotal, "---->"}
			for _, q := range l.Comparison {
				if q.Quoted {
					vals = append(vals, q.Price)
				} else {
					vals = append(vals, NoQuoteText)
				}
			}
			sw.row(cellName(1, row), &vals)
			sw.style(cellName(1, row), cellName(1, row), st.text)
			sw.style(cellName(2, row), cellName(4, row), st.center)
			sw.style(cellName(5, row), cellName(6, row), st.money)
			sw.style(cellName(7, row), cellName(7, row), st.center)
			for i, v := range vals[7:] {
				style := st.money
				if _, ok := v.(string); ok {
					style = st.center
				}
				c := cellName(8+i, row)
				sw.style(c, c, style)
			}
			row++
		}
		row++ // пустая строка между поставщиками
	}

	// итог
	label, value := cellName(last-1, row), cellName(last, row)
	sw.value(label, "Grand total:")
	sw.value(value, plan.GrandTotal)
	sw.style(label, label, st.header)
	sw.style(value, value, st.money)
	row += 2

	if len(plan.Notes) > 0 {
		c := cellName(1, row)
		sw.value(c, "Notes:")
		sw.style(c, c, st.header)
		row++
		for _, n := range plan.Notes {
			c := cellName(1, row)
			sw.value(c, n)
			sw.style(c, c, st.text)
			row++
		}
	}
	if sw.err != nil {
		return fmt.Errorf("write sheet: %w", sw.err)
	}

	return f.Write(w)
}
