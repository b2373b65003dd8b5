package service

import (
	"fmt"
	"strings"

	"procure-service/internal/procure/model"
)

// Allocate picks the cheapest offer for every demand line and builds the plan.
//
// Offers are expected in supplier order, then source row order: on equal
// prices the first one encountered wins. Lines without any offer go to
// Unmatched and never affect totals. With no offers at all the plan is empty
// and carries a single explanatory note.
func Allocate(offers []model.Offer, demand model.Demand, suppliers []string) model.PurchasePlan {
	plan := model.PurchasePlan{
		Suppliers:      append([]string(nil), suppliers...),
		Lines:          []model.PurchaseLine{},
		SupplierTotals: []model.SupplierTotal{},
		Unmatched:      []string{},
		Notes:          []string{},
	}
	if len(offers) == 0 {
		plan.Notes = append(plan.Notes, ErrNoOffers.Error())
		return plan
	}

	byKey := indexOffers(offers)

	lines := make([]model.PurchaseLine, 0, demand.Len())
	for _, dl := range demand.Lines {
		cands := byKey[model.MatchKey(dl.Key)]
		if len(cands) == 0 {
			plan.Unmatched = append(plan.Unmatched, dl.DisplayName())
			continue
		}
		best := cands[0]
		for _, o := range cands[1:] {
			if o.Price < best.Price { // строго меньше: при равенстве остаётся первый
				best = o
			}
		}
		lines = append(lines, model.PurchaseLine{
			Key:         dl.Key,
			DisplayName: dl.DisplayName(),
			Product:     dl.Product,
			Spec:        dl.Spec,
			Quantity:    dl.Quantity,
			Supplier:    best.Supplier,
			UnitPrice:   best.Price,
			LineTotal:   best.Price * float64(dl.Quantity),
			Comparison:  compare(cands, suppliers),
		})
	}

	plan.Lines, plan.SupplierTotals = groupBySupplier(lines, suppliers)
	for _, t := range plan.SupplierTotals {
		plan.GrandTotal += t.Total
	}
	if len(plan.Unmatched) > 0 {
		plan.Notes = append(plan.Notes, fmt.Sprintf(
			"not offered by any supplier: %s", strings.Join(plan.Unmatched, ", ")))
	}
	return plan
}

// indexOffers группирует предложения по ключу сравнения, сохраняя порядок.
func indexOffers(offers []model.Offer) map[string][]model.Offer {
	idx := make(map[string][]model.Offer)
	for _, o := range offers {
		k := model.MatchKey(o.Key)
		idx[k] = append(idx[k], o)
	}
	return idx
}

// compare строит строку сравнения цен по всем участвующим поставщикам.
// Если у поставщика несколько строк на один ключ, показывается первая из них
// (порядок строк прайса); выбор победителя от этого не зависит.
func compare(cands []model.Offer, suppliers []string) []model.Quote {
	out := make([]model.Quote, 0, len(suppliers))
	for _, s := range suppliers {
		q := model.Quote{Supplier: s}
		for _, o := range cands {
			if o.Supplier == s {
				q.Price, q.Quoted = o.Price, true
				break
			}
		}
		out = append(out, q)
	}
	return out
}

// groupBySupplier: строки группируются по выбранному поставщику в порядке
// списка поставщиков (незнакомые: в конце, по первому появлению);
// внутри группы порядок позиций закупки сохраняется.
func groupBySupplier(lines []model.PurchaseLine, suppliers []string) ([]model.PurchaseLine, []model.SupplierTotal) {
	order := make([]string, 0, len(suppliers))
	seen := make(map[string]bool, len(suppliers))
	for _, s := range suppliers {
		if !seen[s] {
			seen[s] = true
			order = append(order, s)
		}
	}
	for _, l := range lines {
		if !seen[l.Supplier] {
			seen[l.Supplier] = true
			order = append(order, l.Supplier)
		}
	}

	grouped := make([]model.PurchaseLine, 0, len(lines))
	totals := make([]model.SupplierTotal, 0, len(order))
	for _, s := range order {
		t := model.SupplierTotal{Supplier: s}
		for _, l := range lines {
			if l.Supplier != s {
				continue
			}
			grouped = append(grouped, l)
			t.Total += l.LineTotal
			t.Lines++
		}
		if t.Lines > 0 {
			totals = append(totals, t)
		}
	}
	return grouped, totals
}
