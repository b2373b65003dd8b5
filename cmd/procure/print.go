package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	procSvc "procure-service/internal/procure/service"
)

// printPlan печатает план, сгруппированный по поставщикам, итог и замечания.
func printPlan(out io.Writer, res procSvc.Analysis) error {
	plan := res.Plan
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)

	for _, t := range plan.SupplierTotals {
		_, _ = fmt.Fprintf(w, "%s\t\t\t\ttotal %.2f\n", t.Supplier, t.Total)
		for _, l := range plan.LinesFor(t.Supplier) {
			quotes := make([]string, 0, len(l.Comparison))
			for _, q := range l.Comparison {
				if q.Quoted {
					quotes = append(quotes, fmt.Sprintf("%s %.2f", q.Supplier, q.Price))
				} else {
					quotes = append(quotes, q.Supplier+" -")
				}
			}
			_, _ = fmt.Fprintf(w, "  %s\t%d\tx %.2f\t= %.2f\t[%s]\n",
				l.DisplayName, l.Quantity, l.UnitPrice, l.LineTotal, strings.Join(quotes, " | "))
		}
	}
	_, _ = fmt.Fprintf(w, "Grand total:\t\t\t%.2f\t\n", plan.GrandTotal)
	if err := w.Flush(); err != nil {
		return err
	}

	if len(plan.Unmatched) > 0 {
		_, _ = fmt.Fprintln(out, "\nUnmatched:")
	}
	for _, name := range plan.Unmatched {
		line := "  " + name
		if s := res.Suggestions[name]; len(s) > 0 {
			line += "  (did you mean: " + strings.Join(s, ", ") + "?)"
		}
		if _, err := fmt.Fprintln(out, line); err != nil {
			return err
		}
	}
	if len(plan.Notes) > 0 {
		_, _ = fmt.Fprintln(out, "\nNotes:")
		for _, n := range plan.Notes {
			_, _ = fmt.Fprintln(out, "  "+n)
		}
	}
	if len(res.Warnings) > 0 {
		_, _ = fmt.Fprintln(out, "\nWarnings:")
		for _, s := range res.Warnings {
			_, _ = fmt.Fprintln(out, "  "+s)
		}
	}
	return nil
}
